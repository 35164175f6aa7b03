package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chemsolver/internal/service"
	"chemsolver/internal/solver"
	"chemsolver/pkg/quiz"
)

// respondError 把 Service 的錯誤轉成 HTTP 狀態碼。未知的錯誤不把細節回給客戶端。
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, solver.ErrNoImage):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrImageTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, solver.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "solver is not available, try again later"
	case errors.Is(err, quiz.ErrEmptyPool):
		status, msg = http.StatusServiceUnavailable, err.Error()
	}

	// 給 RequestLogger 記錄
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
