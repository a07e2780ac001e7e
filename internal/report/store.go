package report

// Store defines persistence of build reports.
//
// Error handling conventions:
//   - Return ErrNotFound if the report doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// Save atomically writes the report under its ID, replacing any
	// previous report with the same ID.
	Save(report *Report) error

	// Load retrieves the report with the given ID.
	Load(id string) (*Report, error)

	// List returns metadata for every stored report. The slice may be empty.
	List() ([]Info, error)

	// Delete removes the report and its artifacts (report.json, build.log).
	Delete(id string) error
}

// ErrNotFound is returned when a requested report does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing report.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "build report not found: " + e.ID
	}
	return "build report not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
