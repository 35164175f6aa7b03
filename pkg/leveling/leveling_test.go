package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromXP(t *testing.T) {
	cases := []struct {
		xp   int
		want Info
	}{
		{0, Info{Level: 1, CurrentLevelXP: 0, NextLevelXP: 500, Progress: 0}},
		{250, Info{Level: 1, CurrentLevelXP: 250, NextLevelXP: 500, Progress: 0.5}},
		{499, Info{Level: 1, CurrentLevelXP: 499, NextLevelXP: 500, Progress: 0.998}},
		{500, Info{Level: 2, CurrentLevelXP: 0, NextLevelXP: 1000, Progress: 0}},
		{1500, Info{Level: 3, CurrentLevelXP: 0, NextLevelXP: 1500, Progress: 0}},
		{2250, Info{Level: 3, CurrentLevelXP: 750, NextLevelXP: 1500, Progress: 0.5}},
		{-40, Info{Level: 1, CurrentLevelXP: 0, NextLevelXP: 500, Progress: 0}},
	}

	for _, tc := range cases {
		got := FromXP(tc.xp)
		assert.Equal(t, tc.want.Level, got.Level, "xp=%d", tc.xp)
		assert.Equal(t, tc.want.CurrentLevelXP, got.CurrentLevelXP, "xp=%d", tc.xp)
		assert.Equal(t, tc.want.NextLevelXP, got.NextLevelXP, "xp=%d", tc.xp)
		assert.InDelta(t, tc.want.Progress, got.Progress, 1e-9, "xp=%d", tc.xp)
	}
}

func TestTotalXPForLevel_RoundTrip(t *testing.T) {
	for level := 1; level <= 60; level++ {
		total := TotalXPForLevel(level)
		assert.Equal(t, level, FromXP(total).Level)
		if total > 0 {
			assert.Equal(t, level-1, FromXP(total-1).Level)
		}
	}
}

func TestRankFor(t *testing.T) {
	assert.Equal(t, Novice, RankFor(1))
	assert.Equal(t, "Novice", RankFor(4).Title)
	assert.Equal(t, "Student", RankFor(5).Title)
	assert.Equal(t, "Lab Assistant", RankFor(10).Title)
	assert.Equal(t, "PhD Student", RankFor(29).Title)
	assert.Equal(t, "Professor", RankFor(30).Title)
	assert.Equal(t, Rank{Title: "Nobel Prize", Color: "#F59E0B"}, RankFor(99))
}
