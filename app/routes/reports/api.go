package reports

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/models"
	"greenhill-schools/app/report"
)

// GetMarkSheetAPI assembles and renders the mark sheet for a class and
// exam, returned as a downloadable workbook.
func GetMarkSheetAPI(assembler *report.Assembler, renderer report.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		classID := c.Params("classId")
		examID := c.Params("examId")

		doc, err := assembler.BuildMarkSheetDocument(c.UserContext(), classID, examID)
		if err != nil {
			return err
		}
		return sendArtifact(c, renderer, doc)
	}
}

// GetCalendarAPI assembles and renders one student's attendance
// calendar over a from/to range.
func GetCalendarAPI(assembler *report.Assembler, renderer report.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		classID := c.Params("classId")
		studentID := c.Params("studentId")
		from, err := models.ParseDateKey(c.Query("from"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid from date. Use YYYY-MM-DD")
		}
		to, err := models.ParseDateKey(c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid to date. Use YYYY-MM-DD")
		}

		doc, err := assembler.BuildCalendarDocument(c.UserContext(), classID, studentID, from, to)
		if err != nil {
			return err
		}
		return sendArtifact(c, renderer, doc)
	}
}

func sendArtifact(c *fiber.Ctx, renderer report.Renderer, doc *report.Document) error {
	artifact, err := renderer.Render(c.UserContext(), doc)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+artifact.Filename+`"`)
	return c.Send(artifact.Content)
}
