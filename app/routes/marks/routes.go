package marks

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/ledger"
)

// SetupMarksRoutes registers the marks-entry endpoints on the
// authenticated API group.
func SetupMarksRoutes(api fiber.Router, marksLedger *ledger.MarksLedger) {
	api.Post("/marks/:examId/:subjectId", RecordMarksAPI(marksLedger))
	api.Get("/marks/students/:studentId/exams/:examId", GetStudentMarksAPI(marksLedger))
}
