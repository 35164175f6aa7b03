package quiz

import (
	"errors"
	"fmt"
)

// ErrUnknownMode 表示不支援的遊戲模式
var ErrUnknownMode = errors.New("unknown game mode")

// ErrEmptyPool 表示題庫資料不足以出題
var ErrEmptyPool = errors.New("not enough data to build questions")

// Mode 是挑戰的遊戲模式
type Mode string

const (
	TimeAttack   Mode = "time_attack"
	NameMaster   Mode = "name_master"
	SymbolHunter Mode = "symbol_hunter"
	FamilyTruth  Mode = "family_truth"
	LabMaster    Mode = "lab_master"
)

// QuestionType 決定題目問的是哪一個屬性
type QuestionType string

const (
	TypeSymbol        QuestionType = "symbol"
	TypeName          QuestionType = "name"
	TypeNumber        QuestionType = "number"
	TypeCategory      QuestionType = "category"
	TypeMass          QuestionType = "mass"
	TypeBoolean       QuestionType = "boolean"
	TypeFormulaToName QuestionType = "formula_to_name"
	TypeNameToFormula QuestionType = "name_to_formula"
)

// 遊戲規則
const (
	QuestionsPerGame = 10
	OptionsPerQuest  = 4
	PointsPerCorrect = 10
	GameDuration     = 60 // 秒
	CorrectBonus     = 2  // 答對加秒
	WrongPenalty     = 5  // 答錯扣秒
	True             = "True"
	False            = "False"
)

// ModeInfo 是選單上顯示的模式資訊
type ModeInfo struct {
	ID          Mode   `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var modes = []ModeInfo{
	{TimeAttack, "Time Attack", "The Ultimate Mix", "#FFD700",
		"Mixed questions about symbols, numbers, and mass. Fast-paced random challenge!"},
	{NameMaster, "Element Naming", "Symbol to Name", "#4ADE80",
		"We show you the chemical symbol, you pick the correct element name."},
	{SymbolHunter, "Symbol Hunter", "Name to Symbol", "#60A5FA",
		"Identify the correct chemical symbol for the given element name."},
	{FamilyTruth, "Chemical Families", "True or False", "#F472B6",
		`Validate statements about element families. Is "Gold" a "Noble Gas"? True or False.`},
	{LabMaster, "Lab Master", "Compounds & Reactions", "#8B5CF6",
		"Test your knowledge on compounds and reactions. Can you identify Water from H2O?"},
}

// Modes 回傳所有模式 (選單順序)
func Modes() []ModeInfo {
	out := make([]ModeInfo, len(modes))
	copy(out, modes)
	return out
}

// ParseMode validates a mode id coming from a request.
func ParseMode(s string) (Mode, error) {
	for _, m := range modes {
		if string(m.ID) == s {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Question 是一題選擇題
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
}
