package stats

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/models"
	"greenhill-schools/app/stats"
)

// GetAttendancePercentageAPI returns a class's attendance percentage
// over a date range given as from/to query params.
func GetAttendancePercentageAPI(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		classID := c.Params("classId")
		from, err := models.ParseDateKey(c.Query("from"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid from date. Use YYYY-MM-DD")
		}
		to, err := models.ParseDateKey(c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid to date. Use YYYY-MM-DD")
		}

		percentage, err := engine.ClassAttendancePercentage(c.UserContext(), classID, from, to)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"class_id":   classID,
			"from":       from.String(),
			"to":         to.String(),
			"percentage": percentage,
		})
	}
}

// GetStudentReportStatsAPI returns a student's total, average and
// grade for an exam.
func GetStudentReportStatsAPI(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := engine.StudentReportStats(c.UserContext(), c.Params("studentId"), c.Params("examId"))
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}

// GetClassRankingAPI returns the class ranking for an exam.
func GetClassRankingAPI(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ranking, err := engine.ClassRanking(c.UserContext(), c.Params("classId"), c.Params("examId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"ranking": ranking,
			"count":   len(ranking),
		})
	}
}
