package handler

import (
	"net/http"
	"time"

	"gamestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type SystemInfoResponse struct {
	System      string   `json:"system"`
	Modules     []string `json:"modules"`
	Version     string   `json:"version"`
	Environment string   `json:"environment"`
}

// /health と /system-info
type SystemHandler struct {
	env   string
	clock usecase.Clock
}

func NewSystemHandler(env string, clock usecase.Clock) *SystemHandler {
	return &SystemHandler{env: env, clock: clock}
}

func (h *SystemHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/health", h.health)
	api.GET("/system-info", h.systemInfo)
}

func (h *SystemHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Gaming Store API is running",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) systemInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, SystemInfoResponse{
		System:      "Gaming Store Management System",
		Modules:     []string{"TPS", "IMS", "CRM", "ERP", "CMS", "MIS"},
		Version:     apiVersion,
		Environment: h.env,
	})
}
