package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"chemsolver/internal/entity"
)

// SolutionCache 快取 AI 解題結果，同一張圖 + 同一語言不必重複呼叫模型
type SolutionCache interface {
	Get(ctx context.Context, key string) (*entity.Solution, bool)
	Set(ctx context.Context, key string, sol *entity.Solution)
}

// Stats 是快取使用統計
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// Key 以圖片內容的 SHA-256 與語言組出快取 key
func Key(image []byte, language string) string {
	sum := sha256.Sum256(image)
	return "chemsolver:solve:" + hex.EncodeToString(sum[:]) + ":" + language
}

// Noop 在沒有設定 Redis 時使用，永遠 miss
type Noop struct{}

func (Noop) Get(context.Context, string) (*entity.Solution, bool) { return nil, false }

func (Noop) Set(context.Context, string, *entity.Solution) {}
