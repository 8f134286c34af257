package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/service"
)

// Services bundles the use cases served over HTTP.
type Services struct {
	Auth      service.AuthService
	Dashboard service.DashboardService
	Companies service.CompanyService
	Patients  service.PatientService
	Records   service.MedicalRecordService
	Reports   service.ReportService
	Daily     service.DailyService
}

// Guards are the middlewares applied to route groups.
type Guards struct {
	// Protect runs before every /api route.
	Protect fiber.Handler
	// LoginLimit runs before the login route.
	LoginLimit fiber.Handler
}

func passThrough(c *fiber.Ctx) error { return c.Next() }

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, g Guards) {
	if g.Protect == nil {
		g.Protect = passThrough
	}
	if g.LoginLimit == nil {
		g.LoginLimit = passThrough
	}

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/login", g.LoginLimit, Login(svcs.Auth))

	api := app.Group("/api", g.Protect)

	api.Get("/dashboard", Dashboard(svcs.Dashboard))

	api.Get("/companies", ListCompanies(svcs.Companies))
	api.Post("/companies", CreateCompany(svcs.Companies))
	api.Get("/companies/:id", GetCompany(svcs.Companies))
	api.Put("/companies/:id", UpdateCompany(svcs.Companies))
	api.Delete("/companies/:id", DeleteCompany(svcs.Companies))

	api.Get("/patients", ListPatients(svcs.Patients))
	api.Post("/patients", CreatePatient(svcs.Patients))
	api.Get("/patients/:id", GetPatient(svcs.Patients))
	api.Put("/patients/:id", UpdatePatient(svcs.Patients))
	api.Delete("/patients/:id", DeletePatient(svcs.Patients))
	api.Get("/patients/:id/records", PatientRecords(svcs.Records))
	api.Post("/patients/:id/records", CreatePatientRecord(svcs.Records, svcs.Reports))

	api.Post("/records", CreateRecord(svcs.Records, svcs.Reports))
	api.Get("/records/:id", GetRecord(svcs.Records))
	api.Put("/records/:id", UpdateRecord(svcs.Records))
	api.Delete("/records/:id", DeleteRecord(svcs.Records))
	api.Get("/records/:id/pdf", RecordPDF(svcs.Reports))
	api.Post("/records/:id/send", SendRecord(svcs.Reports))

	api.Get("/daily-reports/companies", DailyCandidates(svcs.Daily))
	api.Post("/daily-reports/send", DailySend(svcs.Daily))
}
