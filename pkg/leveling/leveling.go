package leveling

// XPPerLevel 是升級門檻的基數：第 L 級升到 L+1 需要 L*500 XP
const XPPerLevel = 500

// Info 是 XP 換算後的等級資訊
type Info struct {
	Level          int     `json:"level"`
	CurrentLevelXP int     `json:"current_level_xp"` // 目前等級內已累積的 XP
	NextLevelXP    int     `json:"next_level_xp"`    // 升到下一級所需的 XP
	Progress       float64 `json:"progress"`         // 0 ~ 1
}

// Rank 是依等級顯示的稱號
type Rank struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

// FromXP 把總 XP 換算成等級
//
//	Level 1: 0 XP
//	Level 2: 500 XP
//	Level 3: 1500 XP (500 + 2*500)
//	Level 4: 3000 XP ...
func FromXP(xp int) Info {
	// 負數 XP 視為 0，避免顯示負的進度
	if xp < 0 {
		xp = 0
	}

	level := 1
	required := XPPerLevel
	for xp >= required {
		xp -= required
		level++
		required = level * XPPerLevel
	}

	return Info{
		Level:          level,
		CurrentLevelXP: xp,
		NextLevelXP:    required,
		Progress:       float64(xp) / float64(required),
	}
}

// TotalXPForLevel 回傳抵達某等級所需的總 XP
func TotalXPForLevel(level int) int {
	total := 0
	for l := 1; l < level; l++ {
		total += l * XPPerLevel
	}
	return total
}

var ranks = []struct {
	minLevel int
	rank     Rank
}{
	{50, Rank{Title: "Nobel Prize", Color: "#F59E0B"}},
	{30, Rank{Title: "Professor", Color: "#EC4899"}},
	{20, Rank{Title: "PhD Student", Color: "#8B5CF6"}},
	{10, Rank{Title: "Lab Assistant", Color: "#3B82F6"}},
	{5, Rank{Title: "Student", Color: "#10B981"}},
}

// Novice 是最低稱號
var Novice = Rank{Title: "Novice", Color: "#9CA3AF"}

// RankFor returns the title shown on the profile for a level.
func RankFor(level int) Rank {
	for _, r := range ranks {
		if level >= r.minLevel {
			return r.rank
		}
	}
	return Novice
}
