package catalog

import (
	"math"
	"slices"
	"strings"

	"chemsolver/internal/entity"
)

// 常溫常壓下為氣體 / 液體的元素 (其餘視為固體)
var (
	gases   = []int{1, 2, 7, 8, 9, 10, 17, 18, 36, 54, 86}
	liquids = []int{35, 80}

	// 原子序 < 84 但沒有穩定同位素的元素 (Tc, Pm)
	radioactiveExceptions = []int{43, 61}

	halogens = []string{"F", "Cl", "Br", "I", "At", "Ts"}
)

// Phase returns "Gas", "Liquid" or "Solid" at standard conditions.
func Phase(number int) string {
	if slices.Contains(gases, number) {
		return "Gas"
	}
	if slices.Contains(liquids, number) {
		return "Liquid"
	}
	return "Solid"
}

// Radioactive 判斷元素是否具放射性
func Radioactive(number int) bool {
	return number >= 84 || slices.Contains(radioactiveExceptions, number)
}

// GridPosition 是元素在週期表畫面上的格子位置
// 週期 1~7 對應 row 1~7，鑭系與錒系另外放在 row 9 與 row 10
type GridPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Position 回傳標準週期表的格子位置，超出範圍回傳 {0,0}
func Position(number int) GridPosition {
	switch {
	case number == 1:
		return GridPosition{1, 1}
	case number == 2:
		return GridPosition{1, 18}
	case number >= 3 && number <= 4:
		return GridPosition{2, number - 2}
	case number >= 5 && number <= 10:
		return GridPosition{2, number + 8}
	case number >= 11 && number <= 12:
		return GridPosition{3, number - 10}
	case number >= 13 && number <= 18:
		return GridPosition{3, number}
	case number >= 19 && number <= 36:
		return GridPosition{4, number - 18}
	case number >= 37 && number <= 54:
		return GridPosition{5, number - 36}
	case number >= 55 && number <= 56:
		return GridPosition{6, number - 54}
	case number == 57:
		return GridPosition{6, 3}
	case number >= 58 && number <= 71:
		return GridPosition{9, number - 58 + 4}
	case number >= 72 && number <= 86:
		return GridPosition{6, number - 72 + 4}
	case number >= 87 && number <= 88:
		return GridPosition{7, number - 86}
	case number == 89:
		return GridPosition{7, 3}
	case number >= 90 && number <= 103:
		return GridPosition{10, number - 90 + 4}
	case number >= 104 && number <= 118:
		return GridPosition{7, number - 104 + 4}
	}
	return GridPosition{}
}

var categoryColors = map[string]string{
	"Alkali Metal":          "#e63946",
	"Alkaline Earth Metal":  "#e9c46a",
	"Lanthanide":            "#e76f51",
	"Actinide":              "#588157",
	"Transition Metal":      "#ff9f1c",
	"Post-transition Metal": "#0077b6",
	"Metalloid":             "#d62828",
	"Other Nonmetal":        "#f4a261",
	"Halogen":               "#2a9d8f",
	"Noble Gas":             "#7209b7",
}

// CategoryColor 回傳週期表格子的顏色。鹵素以符號判斷，其餘依分類字串比對。
// 順序有意義："post-transition" 必須在 "transition metal" 之前比對。
func CategoryColor(category, symbol string) string {
	if slices.Contains(halogens, symbol) {
		return categoryColors["Halogen"]
	}

	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "noble gas"):
		return categoryColors["Noble Gas"]
	case strings.Contains(c, "alkali metal"):
		return categoryColors["Alkali Metal"]
	case strings.Contains(c, "alkaline earth"):
		return categoryColors["Alkaline Earth Metal"]
	case strings.Contains(c, "metalloid"):
		return categoryColors["Metalloid"]
	case strings.Contains(c, "post-transition"):
		return categoryColors["Post-transition Metal"]
	case strings.Contains(c, "transition metal"):
		return categoryColors["Transition Metal"]
	case strings.Contains(c, "lanthanide"):
		return categoryColors["Lanthanide"]
	case strings.Contains(c, "actinide"):
		return categoryColors["Actinide"]
	}
	return categoryColors["Other Nonmetal"]
}

// Particles 是原子的粒子組成
type Particles struct {
	Protons   int `json:"protons"`
	Electrons int `json:"electrons"`
	Neutrons  int `json:"neutrons"`
}

// ParticlesOf 以最常見同位素估算中子數 (四捨五入原子量 - 質子數)
func ParticlesOf(e entity.Element) Particles {
	return Particles{
		Protons:   e.Number,
		Electrons: e.Number,
		Neutrons:  int(math.Round(e.AtomicMass)) - e.Number,
	}
}
