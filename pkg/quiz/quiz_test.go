package quiz

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chemsolver/internal/catalog"
	"chemsolver/internal/entity"
)

func newTestGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return NewGenerator(c.Elements(), c.Topics(catalog.TopicFilter{}), seed)
}

func assertWellFormed(t *testing.T, q Question) {
	t.Helper()
	assert.NotEmpty(t, q.Text)
	assert.Contains(t, q.Options, q.CorrectAnswer)

	seen := map[string]bool{}
	for _, o := range q.Options {
		assert.False(t, seen[o], "duplicate option %q in %q", o, q.Text)
		seen[o] = true
	}
}

func TestGenerate_AllModes(t *testing.T) {
	for _, m := range Modes() {
		t.Run(string(m.ID), func(t *testing.T) {
			g := newTestGenerator(t, 42)
			qs, err := g.Generate(m.ID)
			require.NoError(t, err)
			require.Len(t, qs, QuestionsPerGame)

			for i, q := range qs {
				assert.Equal(t, strconv.Itoa(i), q.ID)
				assertWellFormed(t, q)
				switch m.ID {
				case NameMaster:
					assert.Equal(t, TypeName, q.Type)
					assert.Len(t, q.Options, OptionsPerQuest)
				case SymbolHunter:
					assert.Equal(t, TypeSymbol, q.Type)
					assert.Len(t, q.Options, OptionsPerQuest)
				case FamilyTruth:
					assert.Equal(t, TypeBoolean, q.Type)
					assert.Equal(t, []string{True, False}, q.Options)
				case LabMaster:
					assert.Contains(t, []QuestionType{TypeFormulaToName, TypeNameToFormula}, q.Type)
					assert.Len(t, q.Options, OptionsPerQuest)
				case TimeAttack:
					assert.Contains(t, timeAttackTypes, q.Type)
				}
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := newTestGenerator(t, 7).Generate(TimeAttack)
	require.NoError(t, err)
	b, err := newTestGenerator(t, 7).Generate(TimeAttack)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_UnknownMode(t *testing.T) {
	_, err := newTestGenerator(t, 1).Generate("speed_run")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestGenerate_EmptyPool(t *testing.T) {
	g := NewGenerator(nil, nil, 1)
	_, err := g.Generate(NameMaster)
	assert.ErrorIs(t, err, ErrEmptyPool)
	_, err = g.Generate(LabMaster)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestGenerate_SmallPool(t *testing.T) {
	// 只有兩個元素：選項只能有 2 個，不能卡住
	elements := []entity.Element{
		{Number: 1, Symbol: "H", Name: "Hydrogen", Category: "nonmetal", AtomicMass: 1.008},
		{Number: 2, Symbol: "He", Name: "Helium", Category: "nonmetal", AtomicMass: 4.0026},
	}
	g := NewGenerator(elements, nil, 3)

	qs, err := g.Generate(SymbolHunter)
	require.NoError(t, err)
	for _, q := range qs {
		assertWellFormed(t, q)
		assert.Len(t, q.Options, 2)
	}

	// 全部同一類：只能出「真」的敘述
	qs, err = g.Generate(FamilyTruth)
	require.NoError(t, err)
	for _, q := range qs {
		assert.Equal(t, True, q.CorrectAnswer)
	}
}

func TestFamilyQuestion_FalseStatementUsesOtherCategory(t *testing.T) {
	g := newTestGenerator(t, 99)
	c := catalog.MustLoad()

	for i := 0; i < 50; i++ {
		q := g.familyQuestion()
		if q.CorrectAnswer != False {
			continue
		}
		// 錯誤敘述中的分類必須和元素本身的分類不同
		for _, e := range c.Elements() {
			if q.Text == "True or false: "+e.Name+" is a "+e.Category+"." {
				t.Fatalf("false statement uses the element's own category: %q", q.Text)
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("lab_master")
	require.NoError(t, err)
	assert.Equal(t, LabMaster, m)

	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestScore(t *testing.T) {
	qs := []Question{
		{ID: "0", CorrectAnswer: "H"},
		{ID: "1", CorrectAnswer: "He"},
		{ID: "2", CorrectAnswer: "Li"},
		{ID: "3", CorrectAnswer: "Be"},
	}
	answers := []Answer{
		{QuestionID: "0", Selected: "H"},
		{QuestionID: "0", Selected: "He"}, // 重複作答不算
		{QuestionID: "1", Selected: "He"},
		{QuestionID: "2", Selected: "B"},
		{QuestionID: "9", Selected: "C"}, // 未知題目
	}

	res := Score(qs, answers)
	assert.Equal(t, Result{Correct: 2, Total: 4, Score: 20, XPAwarded: 20, PromptReview: true}, res)

	res = Score(qs, nil)
	assert.Equal(t, 0, res.Score)
	assert.False(t, res.PromptReview)
}

func TestShouldPromptReview(t *testing.T) {
	assert.True(t, ShouldPromptReview(50, 10))
	assert.False(t, ShouldPromptReview(40, 10))
	assert.False(t, ShouldPromptReview(0, 0))
}

func TestAdjustTime(t *testing.T) {
	assert.Equal(t, 62, AdjustTime(60, true))
	assert.Equal(t, 55, AdjustTime(60, false))
	assert.Equal(t, 0, AdjustTime(3, false))
}
