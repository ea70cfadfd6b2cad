package stats

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/stats"
)

// SetupStatsRoutes registers the derived-statistics endpoints on the
// authenticated API group.
func SetupStatsRoutes(api fiber.Router, engine *stats.Engine) {
	api.Get("/stats/attendance/:classId", GetAttendancePercentageAPI(engine))
	api.Get("/stats/report/:studentId/:examId", GetStudentReportStatsAPI(engine))
	api.Get("/stats/ranking/:classId/:examId", GetClassRankingAPI(engine))
}
