package solver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"chemsolver/internal/entity"
)

var (
	// ErrNoImage 表示請求沒有附上圖片
	ErrNoImage = errors.New("no image provided")
	// ErrUnavailable 表示 AI 服務沒有設定或暫時無法使用
	ErrUnavailable = errors.New("solver unavailable")
)

// Request 是一次拍照解題的輸入
type Request struct {
	Image    []byte
	MIMEType string // 空字串時自動判斷，判斷不出來當作 image/jpeg
	Language string // BCP 47，例如 "es", "pt-BR"
}

// Solver 把題目照片轉成解答
type Solver interface {
	Solve(ctx context.Context, req Request) (*entity.Solution, error)
}

// Disabled 在沒有 API key 時使用
type Disabled struct{}

func (Disabled) Solve(context.Context, Request) (*entity.Solution, error) {
	return nil, ErrUnavailable
}

// NormalizeLanguage 把使用者傳入的語系縮成基本語言代碼 ("pt-BR" -> "pt")，無法解析時回傳 "en"
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "en"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "en"
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "en"
	}
	return base.String()
}

// DetectMIME 判斷圖片格式
func DetectMIME(image []byte, declared string) string {
	if declared != "" {
		return declared
	}
	if ct := http.DetectContentType(image); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

// FallbackSolution 是模型回覆無法解析時回給使用者的內容
func FallbackSolution(raw string) *entity.Solution {
	return &entity.Solution{
		Question:    "Error Analyzing Image",
		Answer:      "Could not parse AI response",
		Steps:       []string{"Check logs for details"},
		Explanation: "Raw AI response: " + raw,
	}
}

// ParseSolution 解析模型輸出的 JSON。模型偶爾會包上 ```json 區塊，先剝掉。
func ParseSolution(raw string) (*entity.Solution, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var sol entity.Solution
	if err := json.Unmarshal([]byte(text), &sol); err != nil {
		return nil, err
	}
	if sol.Question == "" && sol.Answer == "" {
		return nil, errors.New("solution has neither question nor answer")
	}
	if sol.Steps == nil {
		sol.Steps = []string{}
	}
	return &sol, nil
}
