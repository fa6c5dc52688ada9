package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/aiblend-payments/internal/server/http/dto"
)

// LivenessMessage is returned by GET /.
const LivenessMessage = "🚀 AIBlend Razorpay backend is live and running!"

// HealthHandler exposes liveness and readiness checks.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Live handles GET /.
func (h *HealthHandler) Live(c *gin.Context) {
	c.String(http.StatusOK, LivenessMessage)
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.facade.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
