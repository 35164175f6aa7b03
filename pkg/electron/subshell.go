package electron

import (
	"fmt"
	"strconv"
	"strings"
)

// SubshellFill 是單一子殼層的填充結果
type SubshellFill struct {
	Label     string `json:"label"`
	Shell     int    `json:"shell"`
	Electrons int    `json:"electrons"`
}

// Subshells 回傳依填充順序排列的子殼層 (只包含有電子的)。
// 規則與 Compute 相同：負數回傳錯誤，超過 MaxElectrons 的部分丟棄。
func Subshells(electronCount int) ([]SubshellFill, error) {
	if electronCount < 0 {
		return nil, fmt.Errorf("%w: electron count %d is negative", ErrInvalidArgument, electronCount)
	}

	var fills []SubshellFill
	remaining := electronCount
	for _, slot := range orbitals {
		if remaining <= 0 {
			break
		}
		take := min(remaining, slot.Capacity)
		fills = append(fills, SubshellFill{Label: slot.Label, Shell: slot.Shell, Electrons: take})
		remaining -= take
	}
	return fills, nil
}

// Notation formats the subshell view, e.g. "1s2 2s2 2p6 3s1".
func Notation(electronCount int) (string, error) {
	fills, err := Subshells(electronCount)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(fills))
	for i, f := range fills {
		parts[i] = f.Label + strconv.Itoa(f.Electrons)
	}
	return strings.Join(parts, " "), nil
}
