package controllers

import (
	"github.com/gin-gonic/gin"

	"campmanager-service/internal/error/response"
)

// HealthCheckController serves the liveness probe
type HealthCheckController struct{}

// NewHealthCheckController creates a health check controller instance
func NewHealthCheckController() *HealthCheckController {
	return &HealthCheckController{}
}

// Ping health check endpoint
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}
