package handler

import (
	"context"
	"time"

	"pulse-survey/internal/dto"
	"pulse-survey/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the program analytics dashboard
type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboard godoc
// @Summary Get the impact dashboard
// @Description Returns simulated aggregate figures, plus the ledger row count when the ledger is enabled
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	resp, err := h.service.GetDashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Pinger is anything whose liveness can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and storage health
type HealthHandler struct {
	storage Pinger
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Health godoc
// @Summary Health check
// @Description Always 200 while the process serves; storage is reported as up or degraded
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Storage: "up"}
	if h.storage == nil || h.storage.Ping(ctx) != nil {
		// Answers are still accepted, just not persisted.
		resp.Storage = "degraded"
	}
	return c.JSON(resp)
}
