package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// FSStore implements Store on the filesystem. Reports live in
// <baseDir>/builds/<id>/report.json, with the raw compiler output of failed
// builds next to it in build.log.
//
// Writes go through a temp file and rename, so concurrent readers never
// observe a partial report.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem store rooted at baseDir, creating the
// directory if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (fs *FSStore) buildsDir() string {
	return filepath.Join(fs.baseDir, "builds")
}

func (fs *FSStore) reportDir(id string) string {
	return filepath.Join(fs.buildsDir(), id)
}

// Dir returns the directory holding the artifacts of report id.
func (fs *FSStore) Dir(id string) string {
	return fs.reportDir(id)
}

func (fs *FSStore) reportPath(id string) string {
	return filepath.Join(fs.reportDir(id), "report.json")
}

// LogPath returns where the build log of report id is stored.
func (fs *FSStore) LogPath(id string) string {
	return filepath.Join(fs.reportDir(id), "build.log")
}

// Save atomically writes the report.
func (fs *FSStore) Save(report *Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	dir := fs.reportDir(report.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	if err := writeAtomic(fs.reportPath(report.ID), data); err != nil {
		return err
	}
	if report.Log != "" {
		if err := writeAtomic(fs.LogPath(report.ID), []byte(report.Log)); err != nil {
			return err
		}
	}

	slog.Debug("Build report saved", "id", report.ID, "path", fs.reportPath(report.ID))
	return nil
}

func writeAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// checkID rejects ids that are not UUIDs so that user input never
// resolves outside the builds directory.
func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("report id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid report id %q: %w", id, err)
	}
	return nil
}

// Load retrieves the report with the given ID.
func (fs *FSStore) Load(id string) (*Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.reportPath(id))
	if os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	return &report, nil
}

// List returns metadata for all stored reports, newest first.
func (fs *FSStore) List() ([]Info, error) {
	entries, err := os.ReadDir(fs.buildsDir())
	if os.IsNotExist(err) {
		return []Info{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read builds directory: %w", err)
	}

	infos := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		report, err := fs.Load(entry.Name())
		if err != nil {
			slog.Warn("Failed to load build report for listing", "id", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, report.ToInfo())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})

	slog.Debug("Listed build reports", "count", len(infos))
	return infos, nil
}

// Delete removes the report directory and everything in it.
func (fs *FSStore) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	dir := fs.reportDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat report directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove report directory: %w", err)
	}

	slog.Debug("Build report deleted", "id", id, "path", dir)
	return nil
}
