package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 是全域 logger 的設定
type Config struct {
	Level   string    // "debug", "info", ... (空字串時讀 LOG_LEVEL)
	Output  io.Writer // 預設 os.Stdout
	Service string    // 每一筆 log 都會帶上的服務名稱
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure 初始化全域 zerolog logger，只會生效一次
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		lv := cfg.Level
		if lv == "" {
			lv = os.Getenv("LOG_LEVEL")
		}
		if lv != "" {
			if parsed, err := zerolog.ParseLevel(lv); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = os.Stdout
		}

		service := cfg.Service
		if service == "" {
			service = "chemsolver"
		}

		base = zerolog.New(writer).With().
			Timestamp().
			Str("service", service).
			Str("version", os.Getenv("VERSION")).
			Logger()
	})
}

// Base returns the configured root logger.
func Base() zerolog.Logger {
	Configure(Config{})
	return base
}

// WithComponent 回傳帶有 component 欄位的子 logger
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
