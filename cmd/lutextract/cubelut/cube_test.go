package cubelut

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityTable() *Table {
	table := NewTable()
	for r := 0; r < 256; r++ {
		for g := 0; g < 256; g++ {
			for b := 0; b < 256; b++ {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				table.Set(c, c)
			}
		}
	}
	return table
}

func TestSampleGrid(t *testing.T) {
	grid, err := SampleGrid(2)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255}, grid)

	grid, err = SampleGrid(33)
	require.NoError(t, err)
	assert.Len(t, grid, 33)
	assert.Equal(t, uint8(0), grid[0])
	assert.Equal(t, uint8(8), grid[1])
	assert.Equal(t, uint8(128), grid[16])
	assert.Equal(t, uint8(255), grid[32])

	grid, err = SampleGrid(256)
	require.NoError(t, err)
	for i, v := range grid {
		assert.Equal(t, uint8(i), v)
	}
}

func TestSampleGridInvalid(t *testing.T) {
	for _, steps := range []int{-1, 0, 1, 257} {
		_, err := SampleGrid(steps)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "steps %d", steps)
	}
}

func TestWriteCubeIdentitySize2(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCube(&buf, identityTable(), CubeOptions{Size: 2, Title: "identity"})
	require.NoError(t, err)

	expected := `#Created with: lutextract
TITLE "identity"

LUT_3D_SIZE 2

DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0

0.000000 0.000000 0.000000
1.000000 0.000000 0.000000
0.000000 1.000000 0.000000
1.000000 1.000000 0.000000
0.000000 0.000000 1.000000
1.000000 0.000000 1.000000
0.000000 1.000000 1.000000
1.000000 1.000000 1.000000
`
	assert.Equal(t, expected, buf.String())
}

func TestWriteCubeSize32LineCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCube(&buf, identityTable(), CubeOptions{Size: 32, Title: "x"}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	body := 0
	for _, line := range lines {
		if line != "" && line[0] >= '0' && line[0] <= '9' {
			body++
		}
	}
	assert.Equal(t, 32*32*32, body)
	assert.Contains(t, buf.String(), "LUT_3D_SIZE 32\n")
}

func TestWriteCubeNonIdentityValues(t *testing.T) {
	table := identityTable()
	table.Set(RGB{0, 0, 0}, RGB{51, 102, 255})

	var buf bytes.Buffer
	require.NoError(t, WriteCube(&buf, table, CubeOptions{Size: 2}))
	assert.Contains(t, buf.String(), "\n\n0.200000 0.400000 1.000000\n")
}

func TestWriteCubeMissingMapping(t *testing.T) {
	table := NewTable()
	table.Set(RGB{0, 0, 0}, RGB{0, 0, 0})

	err := WriteCube(&bytes.Buffer{}, table, CubeOptions{Size: 2})
	assert.ErrorIs(t, err, ErrMissingMapping)
}

func TestWriteCubeMissingMappingWritesNothing(t *testing.T) {
	table := identityTable()
	table.cells[tableIndex(255, 255, 255)] = 0

	var buf bytes.Buffer
	err := WriteCube(&buf, table, CubeOptions{Size: 33, Title: "partial"})
	require.ErrorIs(t, err, ErrMissingMapping)
	assert.Equal(t, 0, buf.Len())
}

func TestWriteCubeInvalidTitle(t *testing.T) {
	table := identityTable()
	for _, title := range []string{`say "cheese"`, "two\nlines", "cr\r"} {
		var buf bytes.Buffer
		err := WriteCube(&buf, table, CubeOptions{Size: 2, Title: title})
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "title %q", title)
		assert.Equal(t, 0, buf.Len())
	}
}

func TestWriteCubeInvalidSize(t *testing.T) {
	err := WriteCube(&bytes.Buffer{}, identityTable(), CubeOptions{Size: 1})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestWriteCubeFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "film.cube")

	require.NoError(t, WriteCubeFile(filename, identityTable(), CubeOptions{Size: 2, Title: "film"}))
	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "#Created with: lutextract\nTITLE \"film\"\n"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCubeFileLeavesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "broken.cube")

	err := WriteCubeFile(filename, NewTable(), CubeOptions{Size: 2})
	require.ErrorIs(t, err, ErrMissingMapping)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
