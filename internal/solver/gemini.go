package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"chemsolver/internal/entity"
)

// contentGenerator 是 genai.Models 中我們用到的部分 (方便測試替換)
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini 透過 Google Gemini API 解題
type Gemini struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewGemini 建立 Gemini 解題器
func NewGemini(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrUnavailable)
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGemini(client.Models, model, logger), nil
}

func newGemini(models contentGenerator, model string, logger zerolog.Logger) *Gemini {
	return &Gemini{
		models:  models,
		model:   model,
		timeout: 60 * time.Second,
		logger:  logger,
	}
}

// Solve 送出圖片與指令，並解析模型回傳的 JSON
func (g *Gemini) Solve(ctx context.Context, req Request) (*entity.Solution, error) {
	if len(req.Image) == 0 {
		return nil, ErrNoImage
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(BuildPrompt(req.Language)),
			genai.NewPartFromBytes(req.Image, DetectMIME(req.Image, req.MIMEType)),
		}, genai.RoleUser),
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", ErrUnavailable, err)
	}

	raw := resp.Text()
	sol, err := ParseSolution(raw)
	if err != nil {
		// 解析失敗不算錯誤，回傳 fallback 讓使用者看到原始內容
		g.logger.Warn().Err(err).Str("model", g.model).Msg("gemini parsing error")
		return FallbackSolution(raw), nil
	}

	g.logger.Debug().
		Str("model", g.model).
		Dur("latency", time.Since(start)).
		Msg("gemini solved image")
	return sol, nil
}
