package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 是服務啟動所需的全部設定
type Config struct {
	HTTPAddr string
	GinMode  string
	LogLevel string

	// 資料庫：本機開發用 sqlite，正式環境接 Supabase Postgres
	DBDriver string
	DBDSN    string

	// Redis 解題快取 (RedisAddr 為空代表不啟用)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SolveCacheTTL time.Duration

	GeminiAPIKey string
	GeminiModel  string

	// 每個客戶端 IP 的 /solve 速率限制
	SolveRate  float64
	SolveBurst int

	// 反向代理的 IP/CIDR (逗號分隔)，只有它們送來的 X-Forwarded-For 會被採用
	TrustedProxies []string
}

// Load 讀取 .env (可有可無) 與環境變數
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests don't touch the process env.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPAddr:      withDefault(getenv("HTTP_ADDR"), ":8080"),
		GinMode:       withDefault(getenv("GIN_MODE"), "release"),
		LogLevel:      withDefault(getenv("LOG_LEVEL"), "info"),
		DBDriver:      withDefault(getenv("DB_DRIVER"), "sqlite"),
		DBDSN:         withDefault(getenv("DB_DSN"), "data/chemsolver.db"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		GeminiAPIKey:  withDefault(getenv("GEMINI_API_KEY"), getenv("ChemSolver_GEMINI_API_KEY")),
		GeminiModel:   withDefault(getenv("GEMINI_MODEL"), "gemini-3-flash-preview"),
		SolveCacheTTL: 24 * time.Hour,
		SolveRate:     1,
		SolveBurst:    5,
	}

	var err error
	if v := getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("REDIS_DB: %w", err)
		}
	}
	if v := getenv("SOLVE_CACHE_TTL"); v != "" {
		if cfg.SolveCacheTTL, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("SOLVE_CACHE_TTL: %w", err)
		}
	}
	if v := getenv("SOLVE_RATE"); v != "" {
		if cfg.SolveRate, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("SOLVE_RATE: %w", err)
		}
	}
	if v := getenv("SOLVE_BURST"); v != "" {
		if cfg.SolveBurst, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("SOLVE_BURST: %w", err)
		}
	}

	cfg.TrustedProxies = splitList(getenv("TRUSTED_PROXIES"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 檢查設定值是否合理
func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is empty")
	}
	if c.SolveCacheTTL <= 0 {
		return fmt.Errorf("SOLVE_CACHE_TTL must be positive, got %s", c.SolveCacheTTL)
	}
	if c.SolveRate <= 0 || c.SolveBurst <= 0 {
		return fmt.Errorf("SOLVE_RATE and SOLVE_BURST must be positive")
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p)
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
