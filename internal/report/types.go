package report

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cwbudde/oclhelpers/ocl"
	"github.com/google/uuid"
)

// Report records the outcome of compiling one kernel source file.
type Report struct {
	// ID is a random UUID assigned when the report is created.
	ID string `json:"id"`

	// Source is the kernel file path as given on the command line.
	Source string `json:"source"`

	// SourceSHA256 fingerprints the source so identical inputs can be spotted.
	SourceSHA256 string `json:"sourceSha256,omitempty"`

	Platform   string         `json:"platform,omitempty"`
	Device     string         `json:"device,omitempty"`
	DeviceType ocl.DeviceType `json:"deviceType,omitempty"`
	Options    string         `json:"options,omitempty"`

	Success bool `json:"success"`

	// Log is the native compiler output. Only failed builds carry one.
	Log string `json:"log,omitempty"`

	// Kernels lists the kernels defined by a successful build.
	Kernels []string `json:"kernels,omitempty"`

	// Error is the failure message for unsuccessful builds.
	Error string `json:"error,omitempty"`

	// Status is the native status name of the failure, if any.
	Status string `json:"status,omitempty"`

	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Info is the listing view of a Report.
type Info struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Device    string    `json:"device"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// New starts a report for source, stamping it with a fresh ID and the
// current time.
func New(source string, contents string, options string) *Report {
	r := &Report{
		ID:        uuid.New().String(),
		Source:    source,
		Options:   options,
		Timestamp: time.Now(),
	}
	if contents != "" {
		sum := sha256.Sum256([]byte(contents))
		r.SourceSHA256 = hex.EncodeToString(sum[:])
	}
	return r
}

// Succeeded fills in the outcome of a successful build.
func (r *Report) Succeeded(c *ocl.Compiled, kernels []string, elapsed time.Duration) {
	r.Success = true
	r.Platform = c.Platform.Info.Name
	r.Device = c.Device.Info.Name
	r.DeviceType = c.Device.Info.Type
	r.Kernels = kernels
	r.Duration = elapsed
}

// Failed fills in the outcome of a failed build.
func (r *Report) Failed(err error, elapsed time.Duration) {
	r.Success = false
	r.Error = err.Error()
	r.Log = ocl.BuildLog(err)
	if status, ok := ocl.StatusOf(err); ok {
		r.Status = status.String()
	}
	r.Duration = elapsed
}

// ToInfo converts a full Report to its listing view.
func (r *Report) ToInfo() Info {
	return Info{
		ID:        r.ID,
		Source:    r.Source,
		Device:    r.Device,
		Success:   r.Success,
		Timestamp: r.Timestamp,
	}
}

// Validate checks that the report carries the fields a store requires.
func (r *Report) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return &ValidationError{Field: "ID", Reason: "must be a UUID"}
	}
	if r.Source == "" {
		return &ValidationError{Field: "Source", Reason: "cannot be empty"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.Duration < 0 {
		return &ValidationError{Field: "Duration", Reason: "cannot be negative"}
	}
	if !r.Success && r.Error == "" {
		return &ValidationError{Field: "Error", Reason: "required for failed builds"}
	}
	return nil
}

// ValidationError represents a report validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
