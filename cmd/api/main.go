package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"chemsolver/internal/cache"
	"chemsolver/internal/catalog"
	"chemsolver/internal/config"
	"chemsolver/internal/handler"
	xlog "chemsolver/internal/log"
	"chemsolver/internal/ratelimit"
	"chemsolver/internal/repository"
	"chemsolver/internal/service"
	"chemsolver/internal/solver"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		l := xlog.Base()
		l.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context) error {
	// 1. 讀設定 (.env 可有可無)
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	xlog.Configure(xlog.Config{Level: cfg.LogLevel, Service: "chemsolver-api"})
	logger := xlog.WithComponent("api")
	gin.SetMode(cfg.GinMode)

	// 2. 連線資料庫
	repo, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer repo.Close()
	logger.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	// 3. 解題快取與 AI 解題器 (都可以不設定)
	solutionCache, closeCache := openCache(ctx, cfg, logger)
	defer closeCache()

	var sv solver.Solver = solver.Disabled{}
	if cfg.GeminiAPIKey != "" {
		g, err := solver.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, xlog.WithComponent("solver"))
		if err != nil {
			return err
		}
		sv = g
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, /solve will return 503")
	}

	// 4. 初始化依賴注入 (Dependency Injection)
	data, err := catalog.Load()
	if err != nil {
		return err
	}
	svcs := handler.Services{
		Elements:   service.NewElementService(data),
		Challenges: service.NewChallengeService(repo, data),
		Profiles:   service.NewProfileService(repo),
		Solver:     service.NewSolverService(repo, sv, solutionCache, xlog.WithComponent("solve")),
	}
	limiter := ratelimit.New(ratelimit.Config{
		Rate:  rate.Limit(cfg.SolveRate),
		Burst: cfg.SolveBurst,
	})
	r, err := handler.NewRouter(svcs, limiter, cfg.TrustedProxies, xlog.WithComponent("http"))
	if err != nil {
		return err
	}

	// 5. 啟動伺服器，收到訊號後優雅關閉
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openCache 有設定 REDIS_ADDR 才啟用 Redis，連不上就退回不快取
func openCache(ctx context.Context, cfg config.Config, logger zerolog.Logger) (cache.SolutionCache, func()) {
	if cfg.RedisAddr == "" {
		return cache.Noop{}, func() {}
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.SolveCacheTTL, xlog.WithComponent("cache"))
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, solve cache disabled")
		return cache.Noop{}, func() {}
	}
	return rc, func() {
		s := rc.Stats()
		logger.Info().Int64("hits", s.Hits).Int64("misses", s.Misses).Int64("sets", s.Sets).Msg("solve cache stats")
		rc.Close()
	}
}
