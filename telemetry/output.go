// Package telemetry aggregates population statistics and records finished
// sessions to CSV.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"arena-server/config"
)

// OutputManager handles CSV output for population samples and sessions.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	mu          sync.Mutex
	dir         string
	statsFile   *os.File
	sessionFile *os.File

	statsHeaderWritten   bool
	sessionHeaderWritten bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "population.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating population.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating sessions.csv: %w", err)
	}
	om.sessionFile = f

	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a population sample to population.csv.
func (om *OutputManager) WriteStats(stats PopulationStats) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := writeRecords([]PopulationStats{stats}, om.statsFile, &om.statsHeaderWritten); err != nil {
		return fmt.Errorf("writing population stats: %w", err)
	}
	return nil
}

// WriteSession appends a finished run to sessions.csv.
func (om *OutputManager) WriteSession(rec SessionRecord) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	if err := writeRecords([]SessionRecord{rec}, om.sessionFile, &om.sessionHeaderWritten); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// writeRecords emits the CSV header only on the first call per file
func writeRecords(records interface{}, f *os.File, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	var firstErr error
	for _, f := range []*os.File{om.statsFile, om.sessionFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
