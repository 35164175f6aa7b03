package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chemsolver/internal/catalog"
	"chemsolver/internal/service"
	"chemsolver/pkg/electron"
)

type ElementHandler struct {
	svc service.ElementService
}

// 建構子注入 Service
func NewElementHandler(svc service.ElementService) *ElementHandler {
	return &ElementHandler{svc: svc}
}

// HandleListElements 處理 GET /api/v1/elements
func (h *ElementHandler) HandleListElements(c *gin.Context) {
	elements := h.svc.ListElements()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(elements),
		"elements": elements,
	})
}

// HandleGetElement 處理 GET /api/v1/elements/:id (原子序或元素符號)
func (h *ElementHandler) HandleGetElement(c *gin.Context) {
	detail, err := h.svc.GetElement(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// HandleElectronConfiguration 處理 GET /api/v1/electron-configuration/:count
func (h *ElementHandler) HandleElectronConfiguration(c *gin.Context) {
	// 1. 解析電子數 (非整數、負數 -> 400)
	count, err := electron.Parse(c.Param("count"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. 計算
	report, err := h.svc.ShellReport(count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleListTopics 處理 GET /api/v1/topics?type=compound&q=water
func (h *ElementHandler) HandleListTopics(c *gin.Context) {
	topics := h.svc.ListTopics(catalog.TopicFilter{
		Type:  c.Query("type"),
		Query: c.Query("q"),
	})
	c.JSON(http.StatusOK, gin.H{
		"count":  len(topics),
		"topics": topics,
	})
}

// HandleGetTopic 處理 GET /api/v1/topics/:id
func (h *ElementHandler) HandleGetTopic(c *gin.Context) {
	topic, err := h.svc.GetTopic(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}
