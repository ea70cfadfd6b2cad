package marks

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/ledger"
	"greenhill-schools/app/models"
	"greenhill-schools/app/routes/auth"
)

type recordRequest struct {
	Entries []ledger.MarkInput `json:"entries"`
}

// RecordMarksAPI upserts a batch of marks for one exam subject. Row
// validation belongs to the ledger: bad rows come back in the response
// while the rest are saved, so the handler must not reject the batch
// up front.
func RecordMarksAPI(marksLedger *ledger.MarksLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		examID := c.Params("examId")
		subjectID := c.Params("subjectId")

		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor := auth.ActorFromCtx(c)
		result, err := marksLedger.RecordMarks(c.UserContext(), actor, examID, subjectID, req.Entries)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// GetStudentMarksAPI returns a student's marks for an exam in the
// exam's declared subject order.
func GetStudentMarksAPI(marksLedger *ledger.MarksLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID := c.Params("studentId")
		examID := c.Params("examId")

		seq, err := marksLedger.StudentMarks(c.UserContext(), studentID, examID)
		if err != nil {
			return err
		}
		entries := make([]models.MarksEntry, 0, 8)
		for entry := range seq {
			entries = append(entries, entry)
		}
		return c.JSON(fiber.Map{
			"marks":      entries,
			"count":      len(entries),
			"student_id": studentID,
			"exam_id":    examID,
		})
	}
}
