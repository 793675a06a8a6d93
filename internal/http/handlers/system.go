package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/services"
)

type SystemHandler struct {
	Health services.HealthService
}

// GET /api/health
func (h SystemHandler) HealthCheck(c *gin.Context) {
	report := h.Health.Check(c.Request.Context())
	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
