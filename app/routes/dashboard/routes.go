package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"greenhill-schools/app/stats"
)

// SetupDashboardRoutes registers the dashboard endpoint on the
// authenticated API group.
func SetupDashboardRoutes(api fiber.Router, engine *stats.Engine) {
	api.Get("/dashboard", GetDashboardAPI(engine))
}
