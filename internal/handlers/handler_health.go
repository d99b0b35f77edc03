package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stefanache/bnr-fx-pipeline/internal/dto"
)

const (
	serviceName    = "BNR FX Rates API"
	serviceVersion = "1.0.0"
)

// getHealth godoc
// @Summary Show the status of the server
// @Description Returns a static payload confirming the service is up
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

// registerHealthRoutes registers the health check route
func registerHealthRoutes(r *gin.Engine) {
	r.GET("/health", getHealth)
}
