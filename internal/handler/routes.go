package handler

import (
	"pulse-survey/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the survey API on router (normally the /api group).
func RegisterRoutes(router fiber.Router, survey *SurveyHandler, dashboard *DashboardHandler, health *HealthHandler) {
	vm := middleware.NewValidationMiddleware()

	router.Get("/health", health.Health)
	router.Get("/survey", survey.GetSurvey)
	router.Get("/dashboard", dashboard.GetDashboard)

	router.Post("/sessions", survey.CreateSession)

	withSession := vm.ValidateSessionID()
	router.Get("/sessions/:id", withSession, survey.GetSession)
	router.Put("/sessions/:id/fields", withSession, survey.SetField)
	router.Post("/sessions/:id/options/toggle", withSession, survey.ToggleOption)
	router.Put("/sessions/:id/matrix", withSession, survey.SetMatrixRow)
	router.Get("/sessions/:id/progress", withSession, survey.GetProgress)
	router.Post("/sessions/:id/validate", withSession, survey.Validate)
	router.Get("/sessions/:id/payload", withSession, survey.GetPayload)
	router.Post("/sessions/:id/submit", withSession, survey.Submit)
	router.Post("/sessions/:id/reset", withSession, survey.Reset)
}
