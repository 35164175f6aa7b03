package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chemsolver/internal/catalog"
	"chemsolver/internal/entity"
	"chemsolver/internal/metrics"
	"chemsolver/internal/repository"
	"chemsolver/pkg/leveling"
	"chemsolver/pkg/quiz"
)

// DefaultSessionTTL 是一場挑戰從開始到交卷的最長時間。遊戲本身只有 60 秒，保留一些網路延遲的空間。
const DefaultSessionTTL = 10 * time.Minute

// ErrSessionNotFound 表示挑戰不存在、已過期或已經交過卷
var ErrSessionNotFound = errors.New("challenge session not found")

// ChallengeService 定義挑戰模式的出題與結算
type ChallengeService interface {
	Modes() []quiz.ModeInfo
	// Start 開一場新挑戰，回傳的題目不含正確答案
	Start(ctx context.Context, userID, mode string) (*ChallengeSession, error)
	// Submit 交卷、結算並發放 XP。同一場只能交一次。
	Submit(ctx context.Context, userID string, req SubmitRequest) (*ChallengeResult, error)
}

type challengeServiceImpl struct {
	repo    repository.Repository
	catalog *catalog.Catalog
	ttl     time.Duration
	now     func() time.Time
	seed    func() uint64

	mu       sync.Mutex
	sessions map[string]*session
}

// session 是伺服器端保留的整份考卷 (含答案)
type session struct {
	userID    string
	mode      quiz.Mode
	questions []quiz.Question
	expiresAt time.Time
}

// ChallengeOption 調整 ChallengeService 的行為 (主要給測試用)
type ChallengeOption func(*challengeServiceImpl)

// WithSessionTTL 設定挑戰的有效時間
func WithSessionTTL(ttl time.Duration) ChallengeOption {
	return func(s *challengeServiceImpl) { s.ttl = ttl }
}

// WithClock 替換時間來源
func WithClock(now func() time.Time) ChallengeOption {
	return func(s *challengeServiceImpl) { s.now = now }
}

// WithSeed 固定出題亂數，相同 seed 出相同的題目
func WithSeed(seed func() uint64) ChallengeOption {
	return func(s *challengeServiceImpl) { s.seed = seed }
}

// NewChallengeService 建構子
func NewChallengeService(repo repository.Repository, c *catalog.Catalog, opts ...ChallengeOption) ChallengeService {
	s := &challengeServiceImpl{
		repo:     repo,
		catalog:  c,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		seed:     rand.Uint64,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =========================================================
// DTOs
// =========================================================

// PublicQuestion 是送給前端的題目 (沒有 correct_answer)
type PublicQuestion struct {
	ID      string            `json:"id"`
	Type    quiz.QuestionType `json:"type"`
	Text    string            `json:"text"`
	Options []string          `json:"options"`
}

type ChallengeSession struct {
	SessionID string           `json:"session_id"`
	Mode      quiz.Mode        `json:"mode"`
	Duration  int              `json:"duration_seconds"`
	Questions []PublicQuestion `json:"questions"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type SubmitRequest struct {
	SessionID string        `json:"session_id"`
	Answers   []quiz.Answer `json:"answers"`
}

// ReviewedQuestion 是交卷後的對答案
type ReviewedQuestion struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

type ChallengeResult struct {
	quiz.Result
	Mode      quiz.Mode          `json:"mode"`
	XP        int                `json:"xp"` // 結算後的總 XP
	LevelUp   bool               `json:"level_up"`
	Questions []ReviewedQuestion `json:"questions"`
}

// =========================================================
// 1. Start
// =========================================================

func (s *challengeServiceImpl) Modes() []quiz.ModeInfo {
	return quiz.Modes()
}

func (s *challengeServiceImpl) Start(ctx context.Context, userID, modeID string) (*ChallengeSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	mode, err := quiz.ParseMode(modeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	gen := quiz.NewGenerator(s.catalog.Elements(), s.catalog.Topics(catalog.TopicFilter{}), s.seed())
	questions, err := gen.Generate(mode)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	now := s.now()
	id := uuid.NewString()
	sess := &session{
		userID:    userID,
		mode:      mode,
		questions: questions,
		expiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.evictExpiredLocked(now)
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.IncChallenge(string(mode))

	public := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		public[i] = PublicQuestion{ID: q.ID, Type: q.Type, Text: q.Text, Options: q.Options}
	}
	return &ChallengeSession{
		SessionID: id,
		Mode:      mode,
		Duration:  quiz.GameDuration,
		Questions: public,
		ExpiresAt: sess.expiresAt,
	}, nil
}

// =========================================================
// 2. Submit
// =========================================================

func (s *challengeServiceImpl) Submit(ctx context.Context, userID string, req SubmitRequest) (*ChallengeResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}

	sess, err := s.take(userID, req.SessionID)
	if err != nil {
		return nil, err
	}

	res := quiz.Score(sess.questions, req.Answers)
	out := &ChallengeResult{
		Result:    res,
		Mode:      sess.mode,
		Questions: review(sess.questions, req.Answers),
	}

	// 訪客可以玩，但成績不入帳
	if isGuest(userID) {
		return out, nil
	}

	// 發 XP 與寫流水帳在同一個 transaction；失敗時把 session 放回去讓使用者重送
	log := entity.ChallengeLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		Mode:        string(sess.mode),
		Score:       res.Score,
		Correct:     res.Correct,
		Total:       res.Total,
		XPAwarded:   res.XPAwarded,
		CompletedAt: s.now().UTC(),
	}
	total, err := s.repo.RecordChallenge(ctx, log)
	if err != nil {
		s.restore(req.SessionID, sess)
		return nil, fmt.Errorf("record challenge: %w", err)
	}
	metrics.AddXP(res.XPAwarded)

	out.XP = total
	out.LevelUp = leveling.FromXP(total).Level > leveling.FromXP(total-res.XPAwarded).Level
	return out, nil
}

// take 取出並移除 session；不是本人的 session 一律當作不存在
func (s *challengeServiceImpl) take(userID, id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.userID != userID {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	if !s.now().Before(sess.expiresAt) {
		return nil, fmt.Errorf("%w: %q expired", ErrSessionNotFound, id)
	}
	return sess, nil
}

// restore 把交卷失敗的 session 放回去 (過期時間不變)
func (s *challengeServiceImpl) restore(id string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *challengeServiceImpl) evictExpiredLocked(now time.Time) {
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func review(questions []quiz.Question, answers []quiz.Answer) []ReviewedQuestion {
	// 與 quiz.Score 一致：只看第一次作答
	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, ok := selected[a.QuestionID]; !ok {
			selected[a.QuestionID] = a.Selected
		}
	}

	out := make([]ReviewedQuestion, len(questions))
	for i, q := range questions {
		sel := selected[q.ID]
		out[i] = ReviewedQuestion{
			ID:            q.ID,
			Text:          q.Text,
			Selected:      sel,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       sel != "" && sel == q.CorrectAnswer,
		}
	}
	return out
}
