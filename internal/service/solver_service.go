package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"chemsolver/internal/cache"
	"chemsolver/internal/entity"
	"chemsolver/internal/metrics"
	"chemsolver/internal/repository"
	"chemsolver/internal/solver"
)

// MaxImageBytes 是解碼後圖片的大小上限
const MaxImageBytes = 8 << 20

// ErrImageTooLarge 表示圖片超過 MaxImageBytes
var ErrImageTooLarge = errors.New("image too large")

// SolverService 定義拍照解題的業務邏輯
type SolverService interface {
	Solve(ctx context.Context, userID string, req SolveRequest) (*SolveResult, error)
}

type solverServiceImpl struct {
	repo   repository.Repository
	solver solver.Solver
	cache  cache.SolutionCache
	logger zerolog.Logger
}

// NewSolverService 建構子。cache 可傳 cache.Noop{}
func NewSolverService(repo repository.Repository, s solver.Solver, c cache.SolutionCache, logger zerolog.Logger) SolverService {
	if c == nil {
		c = cache.Noop{}
	}
	return &solverServiceImpl{repo: repo, solver: s, cache: c, logger: logger}
}

// =========================================================
// DTOs
// =========================================================

type SolveRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MIMEType    string `json:"mimeType,omitempty"`
	Language    string `json:"language,omitempty"`
}

type SolveResult struct {
	Solution *entity.Solution `json:"solution"`
	Language string           `json:"language"`
	Cached   bool             `json:"cached"`
	Solved   int              `json:"solved"` // 使用者累計解題數，訪客 (AnonymousUser) 不記錄，固定為 0
}

// =========================================================
// 實作
// =========================================================

func (s *solverServiceImpl) Solve(ctx context.Context, userID string, req SolveRequest) (*SolveResult, error) {
	image, err := DecodeImage(req.ImageBase64)
	if err != nil {
		metrics.IncSolve("error")
		return nil, err
	}

	lang := solver.NormalizeLanguage(req.Language)
	key := cache.Key(image, lang)

	// 1. 先查快取
	if sol, ok := s.cache.Get(ctx, key); ok {
		metrics.IncSolveCache(true)
		metrics.IncSolve("cached")
		solved, err := s.countSolved(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &SolveResult{Solution: sol, Language: lang, Cached: true, Solved: solved}, nil
	}
	metrics.IncSolveCache(false)

	// 2. 呼叫模型
	sol, err := s.solver.Solve(ctx, solver.Request{
		Image:    image,
		MIMEType: solver.DetectMIME(image, req.MIMEType),
		Language: lang,
	})
	if err != nil {
		metrics.IncSolve("error")
		s.logger.Warn().Err(err).Str("user_id", userID).Str("language", lang).Msg("solve failed")
		return nil, err
	}

	// 解析失敗的 fallback 不進快取，也不算一題
	if isFallback(sol) {
		metrics.IncSolve("fallback")
		return &SolveResult{Solution: sol, Language: lang}, nil
	}

	s.cache.Set(ctx, key, sol)
	metrics.IncSolve("success")

	solved, err := s.countSolved(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SolveResult{Solution: sol, Language: lang, Solved: solved}, nil
}

func (s *solverServiceImpl) countSolved(ctx context.Context, userID string) (int, error) {
	if isGuest(userID) {
		return 0, nil
	}
	n, err := s.repo.IncrementSolved(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("increment solved: %w", err)
	}
	return n, nil
}

func isFallback(sol *entity.Solution) bool {
	return sol.Question == solver.FallbackSolution("").Question
}

// DecodeImage 解碼 base64 圖片，接受 "data:image/png;base64," 開頭的 data URL
func DecodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	if encoded == "" {
		return nil, solver.ErrNoImage
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxImageBytes+3 {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, MaxImageBytes)
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// 有些客戶端不補 '='
		image, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: image is not valid base64", ErrInvalidInput)
		}
	}
	if len(image) == 0 {
		return nil, solver.ErrNoImage
	}
	if len(image) > MaxImageBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, MaxImageBytes)
	}
	return image, nil
}
