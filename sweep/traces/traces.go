// Package traces discovers simulator trace files under a category-organized
// directory tree (root/<category>/<name><suffix>).
package traces

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// SweepSuffix selects every compressed trace.
	SweepSuffix = ".gz"
	// TrainingSuffix selects the training-list traces.
	TrainingSuffix = "_trace.gz"
)

// Trace is one trace file found on disk.
type Trace struct {
	Path     string
	Name     string  // file name
	Category string  // name of the enclosing directory
	SizeMB   float64 // file size in MiB
}

// RunName is the file name without its final extension ("int_0_trace.gz" → "int_0_trace").
func (t Trace) RunName() string {
	return strings.TrimSuffix(t.Name, filepath.Ext(t.Name))
}

// Options filters discovery.
type Options struct {
	Suffix     string   // defaults to SweepSuffix
	Categories []string // when set, only these subdirectories of root are searched
	// Sample keeps the first N traces (by path) of each listed category, or of
	// the whole tree when no categories are given. 0 keeps everything.
	Sample int
}

// Discover returns the traces under root sorted by path. A listed category
// without a directory is skipped with a warning.
func Discover(root string, opts Options) ([]Trace, error) {
	if opts.Suffix == "" {
		opts.Suffix = SweepSuffix
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("trace directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("trace directory %s is not a directory", root)
	}

	if len(opts.Categories) == 0 {
		found, err := walk(root, opts.Suffix)
		if err != nil {
			return nil, err
		}
		return sample(found, opts.Sample), nil
	}

	var out []Trace
	for _, category := range opts.Categories {
		dir := filepath.Join(root, category)
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			logrus.Warnf("Trace category %q not found under %s, skipping", category, root)
			continue
		}
		found, err := walk(dir, opts.Suffix)
		if err != nil {
			return nil, err
		}
		out = append(out, sample(found, opts.Sample)...)
	}
	return out, nil
}

func walk(dir, suffix string) ([]Trace, error) {
	var found []Trace
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		found = append(found, Trace{
			Path:     path,
			Name:     d.Name(),
			Category: filepath.Base(filepath.Dir(path)),
			SizeMB:   float64(info.Size()) / (1024 * 1024),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func sample(ts []Trace, n int) []Trace {
	if n > 0 && len(ts) > n {
		return ts[:n]
	}
	return ts
}

// Categories returns the distinct categories of ts, sorted.
func Categories(ts []Trace) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range ts {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}
