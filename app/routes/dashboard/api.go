package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/stats"
)

// GetDashboardAPI returns the derived summary for the admin dashboard.
func GetDashboardAPI(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := engine.DashboardSummary(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(summary)
	}
}
