package attendance

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/ledger"
)

// SetupAttendanceRoutes registers the attendance endpoints on the
// authenticated API group.
func SetupAttendanceRoutes(api fiber.Router, reconciler *ledger.AttendanceReconciler) {
	api.Post("/attendance/:classId/:date", SubmitAttendanceAPI(reconciler))
	api.Get("/attendance/:classId/:date", GetDayAttendanceAPI(reconciler))
}
