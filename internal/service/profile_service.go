package service

import (
	"context"
	"fmt"
	"strings"

	"chemsolver/internal/entity"
	"chemsolver/internal/metrics"
	"chemsolver/internal/repository"
	"chemsolver/pkg/leveling"
)

// RecentChallengeLimit 是個人頁顯示的挑戰紀錄筆數
const RecentChallengeLimit = 10

// ProfileService 定義使用者 XP、等級與紀錄相關的業務邏輯
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// AddXP 增加 XP 並回報是否升級
	AddXP(ctx context.Context, userID string, amount int) (*XPResult, error)
}

type profileServiceImpl struct {
	repo repository.Repository
}

// NewProfileService 建構子
func NewProfileService(repo repository.Repository) ProfileService {
	return &profileServiceImpl{repo: repo}
}

// =========================================================
// DTOs
// =========================================================

type Profile struct {
	UserID     string                `json:"user_id"`
	XP         int                   `json:"xp"`
	Solved     int                   `json:"solved"`
	Level      leveling.Info         `json:"level"`
	Rank       leveling.Rank         `json:"rank"`
	Challenges []entity.ChallengeLog `json:"recent_challenges"`
}

type XPResult struct {
	XP      int           `json:"xp"`
	Level   leveling.Info `json:"level"`
	LevelUp bool          `json:"level_up"`
}

// =========================================================
// 實作
// =========================================================

func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	// 訪客沒有個人紀錄
	if isGuest(userID) {
		return emptyProfile(userID), nil
	}

	stats, err := s.repo.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	// 第一次使用的人沒有紀錄，全部從 0 開始
	if stats == nil {
		stats = &entity.UserStats{UserID: userID}
	}

	logs, err := s.repo.ListChallengeLogs(ctx, userID, RecentChallengeLimit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []entity.ChallengeLog{}
	}

	info := leveling.FromXP(stats.XP)
	return &Profile{
		UserID:     userID,
		XP:         stats.XP,
		Solved:     stats.Solved,
		Level:      info,
		Rank:       leveling.RankFor(info.Level),
		Challenges: logs,
	}, nil
}

func (s *profileServiceImpl) AddXP(ctx context.Context, userID string, amount int) (*XPResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if isGuest(userID) {
		return nil, fmt.Errorf("%w: guests cannot earn xp", ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: xp amount must be positive, got %d", ErrInvalidInput, amount)
	}
	return awardXP(ctx, s.repo, userID, amount)
}

func emptyProfile(userID string) *Profile {
	info := leveling.FromXP(0)
	return &Profile{
		UserID:     userID,
		Level:      info,
		Rank:       leveling.RankFor(info.Level),
		Challenges: []entity.ChallengeLog{},
	}
}

// awardXP 寫入 XP 並比較前後等級
func awardXP(ctx context.Context, repo repository.Repository, userID string, amount int) (*XPResult, error) {
	total, err := repo.AddXP(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}
	metrics.AddXP(amount)

	before := leveling.FromXP(total - amount)
	after := leveling.FromXP(total)
	return &XPResult{
		XP:      total,
		Level:   after,
		LevelUp: after.Level > before.Level,
	}, nil
}
