package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"chemsolver/internal/ratelimit"
	"chemsolver/internal/service"
)

// Services 是 Router 需要的所有 Service
type Services struct {
	Elements   service.ElementService
	Challenges service.ChallengeService
	Profiles   service.ProfileService
	Solver     service.SolverService
}

// NewRouter 設定 Gin Router (API Endpoints 都在這裡)。
// trustedProxies 是反向代理的 IP 或 CIDR，空的代表不信任任何 X-Forwarded-For。
func NewRouter(svcs Services, limiter *ratelimit.Limiter, trustedProxies []string, logger zerolog.Logger) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), Metrics(), Identify(), RequestLogger(logger))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	elements := NewElementHandler(svcs.Elements)
	challenges := NewChallengeHandler(svcs.Challenges)
	profiles := NewProfileHandler(svcs.Profiles)
	solver := NewSolverHandler(svcs.Solver)

	// 建立一個 group，方便版本管理
	api := r.Group("/api/v1")
	{
		// 測試連線用
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		// 1. 週期表與電子組態
		api.GET("/elements", elements.HandleListElements)
		api.GET("/elements/:id", elements.HandleGetElement)
		api.GET("/electron-configuration/:count", elements.HandleElectronConfiguration)

		// 2. 學習主題
		api.GET("/topics", elements.HandleListTopics)
		api.GET("/topics/:id", elements.HandleGetTopic)

		// 3. 挑戰模式
		api.GET("/challenge/modes", challenges.HandleListModes)
		api.POST("/challenge/:mode/start", challenges.HandleStart)
		api.POST("/challenge/submit", challenges.HandleSubmit)

		// 4. 個人資料 (XP / 等級)
		api.GET("/profile", profiles.HandleGetProfile)
		api.POST("/profile/xp", profiles.HandleAddXP)

		// 5. 拍照解題 (呼叫付費模型，要限流)
		api.POST("/solve", RateLimit(limiter), solver.HandleSolve)
	}

	return r, nil
}
