package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Layout locates the output of one data directory.
type Layout struct {
	DataDir string
}

// DataDirFromFile returns the layout of the directory containing name.
func DataDirFromFile(name string) (Layout, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return Layout{}, fmt.Errorf("pipeline: resolve %q: %w", name, err)
	}

	return Layout{DataDir: filepath.Dir(abs)}, nil
}

// ResultsDir returns DataDir/subdir, creating it when absent.
func (l Layout) ResultsDir(subdir string) (string, error) {
	dir := filepath.Join(l.DataDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pipeline: create results dir: %w", err)
	}

	return dir, nil
}

// OutputPath returns DataDir/subdir/<stem><tag><ext> for input.
func (l Layout) OutputPath(input, subdir, tag string) string {
	return filepath.Join(l.DataDir, subdir, TagFilename(filepath.Base(input), tag))
}

// TagFilename inserts tag immediately before the extension of name.
func TagFilename(name, tag string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + tag + ext
}

// MatchFiles returns the regular files in dir whose names contain pattern
// and end in .tif or .tiff, sorted by name.
func MatchFiles(dir, pattern string) ([]string, error) {
	re, err := regexp.Compile("^.*" + regexp.QuoteMeta(pattern) + `.*\.tiff?$`)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list %q: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !re.MatchString(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}

	sort.Strings(out)

	return out, nil
}
