package attendance

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/ledger"
	"greenhill-schools/app/models"
	"greenhill-schools/app/routes/auth"
)

var validate = validator.New()

type submitRequest struct {
	Entries []ledger.AttendanceInput `json:"entries" validate:"dive"`
}

// SubmitAttendanceAPI saves the full attendance snapshot for a class
// and date. The body carries the complete form; omitted students end
// up with no entry.
func SubmitAttendanceAPI(reconciler *ledger.AttendanceReconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		classID := c.Params("classId")
		day, err := models.ParseDateKey(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}

		var req submitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		actor := auth.ActorFromCtx(c)
		if err := reconciler.SubmitAttendance(c.UserContext(), actor, classID, day, req.Entries); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message":  "Attendance saved successfully",
			"class_id": classID,
			"date":     day.String(),
			"count":    len(req.Entries),
		})
	}
}

// GetDayAttendanceAPI returns the persisted snapshot for a class and date.
func GetDayAttendanceAPI(reconciler *ledger.AttendanceReconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		classID := c.Params("classId")
		day, err := models.ParseDateKey(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}

		entries, err := reconciler.DaySnapshot(c.UserContext(), classID, day)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"attendance": entries,
			"count":      len(entries),
			"class_id":   classID,
			"date":       day.String(),
		})
	}
}
