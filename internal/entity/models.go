package entity

import (
	"time"
)

// Element 對應內建的元素資料 (elements.json)
type Element struct {
	Number     int     `json:"number"`
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	AtomicMass float64 `json:"atomic_mass"`
	Category   string  `json:"category"`
	Phase      string  `json:"phase"` // 常溫常壓下的狀態: "Solid", "Liquid", "Gas"
	Summary    string  `json:"summary,omitempty"`
}

// Topic 對應學習主題 (化合物或反應)
type Topic struct {
	ID          string `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"` // "compound", "reaction"
	Formula     string `json:"formula" yaml:"formula"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	Color       string `json:"color,omitempty" yaml:"color"`
	Difficulty  string `json:"difficulty,omitempty" yaml:"difficulty"` // "beginner", "intermediate"
	MolarMass   string `json:"molar_mass,omitempty" yaml:"molar_mass"`
	FunFact     string `json:"fun_fact,omitempty" yaml:"fun_fact"`
}

// UserStats 對應資料庫的 user_stats 表
// 存在後端方便多裝置同步
type UserStats struct {
	UserID    string    `json:"user_id"`
	XP        int       `json:"xp"`
	Solved    int       `json:"solved"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChallengeLog 對應資料庫的 challenge_logs 表
// 每一次挑戰結束的流水帳
type ChallengeLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Mode        string    `json:"mode"`
	Score       int       `json:"score"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	XPAwarded   int       `json:"xp_awarded"`
	CompletedAt time.Time `json:"completed_at"`
}

// Solution 是 AI 解題的結果
type Solution struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Steps       []string `json:"steps"`
	Explanation string   `json:"explanation"`
}
