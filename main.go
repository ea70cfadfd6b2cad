package main

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"greenhill-schools/app/catalog"
	"greenhill-schools/app/config"
	"greenhill-schools/app/grading"
	"greenhill-schools/app/ledger"
	"greenhill-schools/app/report"
	"greenhill-schools/app/routes/attendance"
	"greenhill-schools/app/routes/auth"
	"greenhill-schools/app/routes/dashboard"
	"greenhill-schools/app/routes/marks"
	"greenhill-schools/app/routes/reports"
	statsroutes "greenhill-schools/app/routes/stats"
	"greenhill-schools/app/stats"
	"greenhill-schools/app/storage"
)

// apiErrorHandler maps engine errors onto HTTP status codes so the
// handlers can return them as-is.
func apiErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validationErr *ledger.ValidationError
		conflictErr   *ledger.ConflictError
		inconsistent  *ledger.InconsistentStateWarning
		retryableErr  *storage.RetryableError
		permanentErr  *storage.PermanentError
		fiberErr      *fiber.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflictErr.Error()})
	case errors.As(err, &inconsistent):
		// Degraded but detected: tell the caller loudly so a human is alerted.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    inconsistent.Error(),
			"degraded": true,
		})
	case errors.As(err, &retryableErr):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": retryableErr.Error()})
	case errors.As(err, &permanentErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": permanentErr.Error()})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}
	log.Printf("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	// The school runs on East Africa Time; date keys follow it.
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: failed to load %s, falling back to UTC+3: %v", cfg.Timezone, err)
		time.Local = time.FixedZone("EAT", 3*60*60)
	} else {
		time.Local = loc
	}

	db, err := cfg.OpenDB()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	store := storage.NewPostgres(db)
	cat := catalog.New(store)
	reconciler := ledger.NewAttendanceReconciler(store)
	marksLedger := ledger.NewMarksLedger(store, cat)
	engine := stats.NewEngine(reconciler, marksLedger, cat, grading.SevenBand, cfg.OpenRedis())
	assembler := report.NewAssembler(engine, reconciler, marksLedger, cat)
	renderer := report.ExcelRenderer{}

	app := fiber.New(fiber.Config{
		AppName:      "greenhill-schools",
		ErrorHandler: apiErrorHandler,
	})
	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api", auth.RequireActor(cfg.JWTSecret))
	attendance.SetupAttendanceRoutes(api, reconciler)
	marks.SetupMarksRoutes(api, marksLedger)
	statsroutes.SetupStatsRoutes(api, engine)
	dashboard.SetupDashboardRoutes(api, engine)
	reports.SetupReportsRoutes(api, assembler, renderer)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	log.Println("Server starting on :" + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
