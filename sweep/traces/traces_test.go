package traces

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]int) string {
	t.Helper()
	root := t.TempDir()
	for rel, size := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	}
	return root
}

func TestDiscover_WholeTreeSortedWithCategory(t *testing.T) {
	// GIVEN traces in two categories plus an unrelated file
	root := writeTree(t, map[string]int{
		"int/int_1_trace.gz": 10,
		"fp/fp_0_trace.gz":   1024 * 1024,
		"int/int_0_trace.gz": 10,
		"int/readme.txt":     1,
	})

	// WHEN discovered without filters
	ts, err := Discover(root, Options{})

	// THEN only .gz files are returned, ordered by path
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, "fp_0_trace.gz", ts[0].Name)
	assert.Equal(t, "fp", ts[0].Category)
	assert.Equal(t, 1.0, ts[0].SizeMB)
	assert.Equal(t, "int_0_trace.gz", ts[1].Name)
	assert.Equal(t, "int", ts[1].Category)
	assert.Equal(t, []string{"fp", "int"}, Categories(ts))
}

func TestDiscover_CategoriesAndSample(t *testing.T) {
	root := writeTree(t, map[string]int{
		"int/int_0_trace.gz": 1,
		"int/int_1_trace.gz": 1,
		"int/int_2_trace.gz": 1,
		"web/web_0_trace.gz": 1,
		"fp/fp_0_trace.gz":   1,
	})

	// WHEN two categories are requested, one of them missing, two traces each
	ts, err := Discover(root, Options{Categories: []string{"int", "media"}, Sample: 2})

	// THEN the missing one is skipped and the sample is per category
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "int_0_trace.gz", ts[0].Name)
	assert.Equal(t, "int_1_trace.gz", ts[1].Name)
}

func TestDiscover_TrainingSuffix(t *testing.T) {
	root := writeTree(t, map[string]int{
		"int/int_0_trace.gz": 1,
		"int/int_0_meta.gz":  1,
	})

	ts, err := Discover(root, Options{Suffix: TrainingSuffix})

	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "int_0_trace", ts[0].RunName())
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestRunName_StripsOnlyFinalExtension(t *testing.T) {
	assert.Equal(t, "int_0_trace", Trace{Name: "int_0_trace.gz"}.RunName())
	assert.Equal(t, "a.b", Trace{Name: "a.b.c"}.RunName())
	assert.Equal(t, "noext", Trace{Name: "noext"}.RunName())
}
