package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chemsolver/internal/service"
)

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// HandleGetProfile 處理 GET /api/v1/profile
func (h *ProfileHandler) HandleGetProfile(c *gin.Context) {
	profile, err := h.svc.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleAddXP 處理 POST /api/v1/profile/xp
func (h *ProfileHandler) HandleAddXP(c *gin.Context) {
	var req AddXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.AddXP(c.Request.Context(), userID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
