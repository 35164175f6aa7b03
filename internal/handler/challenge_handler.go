package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chemsolver/internal/service"
)

type ChallengeHandler struct {
	svc service.ChallengeService
}

func NewChallengeHandler(svc service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

// HandleListModes 處理 GET /api/v1/challenge/modes
func (h *ChallengeHandler) HandleListModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": h.svc.Modes()})
}

// HandleStart 處理 POST /api/v1/challenge/:mode/start
func (h *ChallengeHandler) HandleStart(c *gin.Context) {
	sess, err := h.svc.Start(c.Request.Context(), userID(c), c.Param("mode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// HandleSubmit 處理 POST /api/v1/challenge/submit
func (h *ChallengeHandler) HandleSubmit(c *gin.Context) {
	var req SubmitChallengeRequest

	// 1. 綁定並驗證 JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. 結算
	result, err := h.svc.Submit(c.Request.Context(), userID(c), service.SubmitRequest{
		SessionID: req.SessionID,
		Answers:   req.Answers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
