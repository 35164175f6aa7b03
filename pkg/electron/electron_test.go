package electron

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownElements(t *testing.T) {
	cases := []struct {
		name  string
		count int
		want  ShellDistribution
	}{
		{"empty", 0, ShellDistribution{0, 0, 0, 0, 0, 0, 0}},
		{"hydrogen", 1, ShellDistribution{1, 0, 0, 0, 0, 0, 0}},
		{"helium", 2, ShellDistribution{2, 0, 0, 0, 0, 0, 0}},
		{"neon", 10, ShellDistribution{2, 8, 0, 0, 0, 0, 0}},
		{"sodium", 11, ShellDistribution{2, 8, 1, 0, 0, 0, 0}},
		{"argon", 18, ShellDistribution{2, 8, 8, 0, 0, 0, 0}},
		{"potassium", 19, ShellDistribution{2, 8, 8, 1, 0, 0, 0}},
		{"calcium", 20, ShellDistribution{2, 8, 8, 2, 0, 0, 0}},
		{"scandium", 21, ShellDistribution{2, 8, 9, 2, 0, 0, 0}},
		{"krypton", 36, ShellDistribution{2, 8, 18, 8, 0, 0, 0}},
		{"oganesson", 118, ShellDistribution{2, 8, 18, 32, 32, 18, 8}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compute(tc.count)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompute_SumMatchesCount(t *testing.T) {
	for e := 0; e <= 118; e++ {
		d, err := Compute(e)
		require.NoError(t, err)
		assert.Equal(t, e, d.Sum(), "electron count %d", e)
	}
}

func TestCompute_ShellCapacityBound(t *testing.T) {
	for e := 0; e <= 200; e++ {
		d, err := Compute(e)
		require.NoError(t, err)
		for i, c := range d {
			assert.GreaterOrEqual(t, c, 0)
			assert.LessOrEqual(t, c, ShellCapacity(i+1), "shell %s for %d", Labels[i], e)
		}
	}
}

func TestCompute_Saturates(t *testing.T) {
	full, err := Compute(120)
	require.NoError(t, err)
	over, err := Compute(200)
	require.NoError(t, err)

	assert.Equal(t, full, over)
	assert.Equal(t, MaxElectrons, over.Sum())
	assert.Equal(t, ShellDistribution{2, 8, 18, 32, 32, 18, 8}, full)
}

func TestCompute_Monotonic(t *testing.T) {
	prev, err := Compute(0)
	require.NoError(t, err)
	for e := 1; e <= 130; e++ {
		cur, err := Compute(e)
		require.NoError(t, err)
		for i := range cur {
			assert.LessOrEqual(t, prev[i], cur[i], "shell %s between %d and %d", Labels[i], e-1, e)
		}
		prev = cur
	}
}

func TestCompute_Negative(t *testing.T) {
	d, err := Compute(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, ShellDistribution{}, d)
}

func TestCompute_Concurrent(t *testing.T) {
	want, err := Compute(79)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Compute(79)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestOrbitals_Table(t *testing.T) {
	table := Orbitals()
	require.Len(t, table, 19)

	total := 0
	for _, s := range table {
		total += s.Capacity
	}
	assert.Equal(t, MaxElectrons, total)

	// 回傳的是複本，修改不影響內部表格
	table[0].Capacity = 99
	assert.Equal(t, 2, Orbitals()[0].Capacity)
}

func TestShellDistribution_Format(t *testing.T) {
	d, err := Compute(19)
	require.NoError(t, err)

	assert.Equal(t, "K2 L8 M8 N1", d.String())
	assert.Equal(t, []int{2, 8, 8, 1}, d.NonZero())
	assert.Equal(t, 1, Valence(d))
	assert.Equal(t, 3, d.Outermost())

	var empty ShellDistribution
	assert.Equal(t, "", empty.String())
	assert.Empty(t, empty.NonZero())
	assert.Equal(t, 0, Valence(empty))
}

func TestParse(t *testing.T) {
	n, err := Parse(" 26 ")
	require.NoError(t, err)
	assert.Equal(t, 26, n)

	for _, in := range []string{"-3", "2.5", "abc", ""} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %q", in)
	}
}

func TestNotation(t *testing.T) {
	s, err := Notation(11)
	require.NoError(t, err)
	assert.Equal(t, "1s2 2s2 2p6 3s1", s)

	s, err = Notation(26)
	require.NoError(t, err)
	assert.Equal(t, "1s2 2s2 2p6 3s2 3p6 4s2 3d6", s)

	s, err = Notation(0)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = Notation(-5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSubshells_AgreeWithShells(t *testing.T) {
	for e := 0; e <= 125; e++ {
		fills, err := Subshells(e)
		require.NoError(t, err)
		d, err := Compute(e)
		require.NoError(t, err)

		var fromFills ShellDistribution
		for _, f := range fills {
			fromFills[f.Shell-1] += f.Electrons
		}
		assert.Equal(t, d, fromFills, "electron count %d", e)
	}
}
