package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultSettingsSuffix marks a directory as a dataset.
const DefaultSettingsSuffix = "Settings.txt"

// Frame is one image of a dataset.
type Frame struct {
	Path    string
	Channel int
}

// Dataset is a directory of frames sharing one settings file.
type Dataset struct {
	Dir      string
	Settings string
	Frames   []Frame
}

// FindDatasets walks root and returns every directory containing a file
// ending in settingsSuffix. Directories listed in excludes are not
// descended into. Datasets and their frames are sorted by path.
func FindDatasets(root, settingsSuffix string, excludes []string) ([]Dataset, error) {
	if settingsSuffix == "" {
		settingsSuffix = DefaultSettingsSuffix
	}

	skip := make(map[string]bool, len(excludes))
	for _, e := range excludes {
		skip[filepath.Clean(e)] = true
	}

	var datasets []Dataset

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && skip[filepath.Clean(path)] {
			return filepath.SkipDir
		}

		ds, ok, err := loadDataset(path, settingsSuffix)
		if err != nil {
			return err
		}
		if ok {
			datasets = append(datasets, ds)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: discover datasets: %w", err)
	}

	sort.Slice(datasets, func(i, j int) bool { return datasets[i].Dir < datasets[j].Dir })

	return datasets, nil
}

// loadDataset inspects one directory. The first settings file by name
// defines the frame prefix.
func loadDataset(dir, settingsSuffix string) (Dataset, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Dataset{}, false, err
	}

	var settings string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), settingsSuffix) {
			settings = e.Name()
			break
		}
	}

	if settings == "" {
		return Dataset{}, false, nil
	}

	re := framePattern(settings)
	ds := Dataset{Dir: dir, Settings: filepath.Join(dir, settings)}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}

		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		ch, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		ds.Frames = append(ds.Frames, Frame{Path: filepath.Join(dir, e.Name()), Channel: ch})
	}

	return ds, true, nil
}

func framePattern(settings string) *regexp.Regexp {
	prefix, _, _ := strings.Cut(settings, "_")
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `.*_ch(\d+).*\.tiff?$`)
}
