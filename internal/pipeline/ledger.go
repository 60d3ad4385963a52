package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// LedgerFile is the name of the ledger at the data root.
const LedgerFile = "processed.json"

// LedgerEntry records how a dataset was processed.
type LedgerEntry struct {
	Decon *DeconConfig `json:"decon,omitempty"`
}

// Ledger maps processed dataset directories to the parameters used.
type Ledger map[string]LedgerEntry

// LoadLedger reads the ledger at path. A missing file yields an empty ledger.
func LoadLedger(path string) (Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline: read ledger: %w", err)
	}

	l := Ledger{}
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("pipeline: %q is not a valid ledger: %w", path, err)
	}

	return l, nil
}

// Save writes the ledger to path with four-space indentation.
func (l Ledger) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return fmt.Errorf("pipeline: encode ledger: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("pipeline: write ledger: %w", err)
	}

	return nil
}

// Dirs returns the recorded directories in sorted order.
func (l Ledger) Dirs() []string {
	dirs := make([]string, 0, len(l))
	for d := range l {
		dirs = append(dirs, d)
	}

	sort.Strings(dirs)

	return dirs
}
