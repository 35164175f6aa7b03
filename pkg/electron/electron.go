package electron

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument 表示輸入的電子數不合法 (負數或非整數)
var ErrInvalidArgument = errors.New("invalid argument")

// ShellCount is the number of principal shells (K..Q).
const ShellCount = 7

// Labels 是主殼層的光譜符號，index 0 = n=1
var Labels = [ShellCount]string{"K", "L", "M", "N", "O", "P", "Q"}

// OrbitalSlot is one filling step of the Madelung order.
type OrbitalSlot struct {
	Shell    int    // principal quantum number n (1..7)
	Capacity int    // 2, 6, 10 or 14
	Label    string // subshell label, e.g. "3d"
}

// orbitals 依照 n+l 遞增排序 (n+l 相同時 n 小的先填)
var orbitals = [...]OrbitalSlot{
	{1, 2, "1s"},
	{2, 2, "2s"},
	{2, 6, "2p"},
	{3, 2, "3s"},
	{3, 6, "3p"},
	{4, 2, "4s"},
	{3, 10, "3d"},
	{4, 6, "4p"},
	{5, 2, "5s"},
	{4, 10, "4d"},
	{5, 6, "5p"},
	{6, 2, "6s"},
	{4, 14, "4f"},
	{5, 10, "5d"},
	{6, 6, "6p"},
	{7, 2, "7s"},
	{5, 14, "5f"},
	{6, 10, "6d"},
	{7, 6, "7p"},
}

// MaxElectrons is the total capacity of the orbital table (sum of all 19 slots).
const MaxElectrons = 118

// Orbitals returns a copy of the filling table.
func Orbitals() []OrbitalSlot {
	out := make([]OrbitalSlot, len(orbitals))
	copy(out, orbitals[:])
	return out
}

// ShellDistribution 是每一個主殼層的電子數 (K, L, M, N, O, P, Q)
type ShellDistribution [ShellCount]int

// Compute 依照 Madelung 規則把 electronCount 個電子填入各殼層。
// 超過 MaxElectrons 的電子會被丟棄 (總和停在 118)，負數回傳 ErrInvalidArgument。
func Compute(electronCount int) (ShellDistribution, error) {
	var dist ShellDistribution
	if electronCount < 0 {
		return dist, fmt.Errorf("%w: electron count %d is negative", ErrInvalidArgument, electronCount)
	}

	remaining := electronCount
	for _, slot := range orbitals {
		if remaining <= 0 {
			break
		}
		take := min(remaining, slot.Capacity)
		dist[slot.Shell-1] += take
		remaining -= take
	}
	return dist, nil
}

// Parse converts user text (query params, CLI args) into an electron count.
func Parse(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgument, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: electron count %d is negative", ErrInvalidArgument, n)
	}
	return n, nil
}

// Sum 回傳所有殼層電子總數
func (d ShellDistribution) Sum() int {
	total := 0
	for _, c := range d {
		total += c
	}
	return total
}

// NonZero drops empty shells; this is what the ring view draws.
func (d ShellDistribution) NonZero() []int {
	out := make([]int, 0, ShellCount)
	for _, c := range d {
		if c > 0 {
			out = append(out, c)
		}
	}
	return out
}

// String formats the distribution as "K2 L8 M1".
func (d ShellDistribution) String() string {
	parts := make([]string, 0, ShellCount)
	for i, c := range d {
		if c > 0 {
			parts = append(parts, Labels[i]+strconv.Itoa(c))
		}
	}
	return strings.Join(parts, " ")
}

// Outermost returns the index of the highest non-empty shell, or -1.
func (d ShellDistribution) Outermost() int {
	for i := ShellCount - 1; i >= 0; i-- {
		if d[i] > 0 {
			return i
		}
	}
	return -1
}

// Valence 回傳最外層電子數 (簡化模型，不處理過渡金屬)
func Valence(d ShellDistribution) int {
	i := d.Outermost()
	if i < 0 {
		return 0
	}
	return d[i]
}

// ShellCapacity 是第 n 層理論最大電子數 2n²
func ShellCapacity(n int) int {
	return 2 * n * n
}
