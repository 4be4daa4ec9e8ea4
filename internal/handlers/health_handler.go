package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/polito-log/backend/internal/config"
	"github.com/polito-log/backend/internal/dto"
)

type HealthHandler struct {
	cfg  *config.Config
	ping func(ctx context.Context) error
}

func NewHealthHandler(cfg *config.Config, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{cfg: cfg, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.ping(c.UserContext()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:      "healthy",
		Service:     h.cfg.ProjectName,
		Version:     h.cfg.Version,
		Environment: h.cfg.Environment,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		DB:          dbStatus,
	})
}

func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(dto.APIInfoResponse{
		Message: h.cfg.ProjectName + " is running",
		Version: h.cfg.Version,
	})
}
