package reports

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/report"
)

// SetupReportsRoutes registers the export endpoints on the
// authenticated API group.
func SetupReportsRoutes(api fiber.Router, assembler *report.Assembler, renderer report.Renderer) {
	api.Get("/reports/marksheet/:classId/:examId", GetMarkSheetAPI(assembler, renderer))
	api.Get("/reports/calendar/:classId/:studentId", GetCalendarAPI(assembler, renderer))
}
