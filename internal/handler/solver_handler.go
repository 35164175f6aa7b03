package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chemsolver/internal/service"
)

type SolverHandler struct {
	svc service.SolverService
}

func NewSolverHandler(svc service.SolverService) *SolverHandler {
	return &SolverHandler{svc: svc}
}

// HandleSolve 處理 POST /api/v1/solve (App 拍照後打這支)
func (h *SolverHandler) HandleSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	result, err := h.svc.Solve(c.Request.Context(), userID(c), service.SolveRequest{
		ImageBase64: req.ImageBase64,
		MIMEType:    req.MIMEType,
		Language:    req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
