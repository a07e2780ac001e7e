package ocl

import (
	"errors"
	"strings"
)

var (
	// ErrNotBuilt indicates the binary was built without OpenCL support.
	ErrNotBuilt = errors.New("opencl support requires building with '-tags gpu'")
	// ErrNoPlatform is returned when the runtime reports no platforms.
	ErrNoPlatform = errors.New("no platform found")
	// ErrNoPlatformMatch is returned when no platform name contains the requested text.
	ErrNoPlatformMatch = errors.New("no platform matches")
	// ErrNoDevice is returned when a platform exposes no devices at all.
	ErrNoDevice = errors.New("no device found")
	// ErrNoGPU is returned when no GPU is available where one was requested.
	ErrNoGPU = errors.New("no gpu found")
	// ErrNoCPU is returned when no CPU is available where one was requested.
	ErrNoCPU = errors.New("no cpu found")
	// ErrEmptySource is returned when a program is created from empty source.
	ErrEmptySource = errors.New("kernel code is empty")
	// ErrBuildFailed is returned when the native compiler rejects a program.
	ErrBuildFailed = errors.New("building failed")
	// ErrInvalidArg is returned for kernel arguments that cannot be encoded.
	ErrInvalidArg = errors.New("invalid kernel argument")
	// ErrUnknownDeviceType is returned by ParseDeviceType for unrecognised names.
	ErrUnknownDeviceType = errors.New("unknown device type")
	// ErrReleased is returned when an object is used after Release.
	ErrReleased = errors.New("object already released")
)

// Error is the single error kind produced by the helpers. It carries a
// human-readable message and, depending on the failure, the native status,
// the operation that failed and the compiler build log.
type Error struct {
	// Op names the native call or helper that failed, e.g. "clBuildProgram".
	Op string
	// Status is the native status, StatusSuccess when the failure originated
	// in the helpers themselves.
	Status Status
	// Msg is the human-readable description.
	Msg string
	// Log holds the native build log for build failures.
	Log string
	// Err is the sentinel this error refines, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	case e.Status != StatusSuccess:
		b.WriteString(e.Status.Error())
	default:
		b.WriteString("OpenCL helper failure")
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the native status so that
// errors.Is works against either.
func (e *Error) Unwrap() []error {
	var out []error
	if e.Err != nil {
		out = append(out, e.Err)
	}
	if e.Status != StatusSuccess {
		out = append(out, e.Status)
	}
	return out
}

// StatusError wraps a failing native status for the given operation.
func StatusError(op string, status Status) error {
	return &Error{Op: op, Status: status}
}

// StatusOf extracts the native status carried by err, if any.
func StatusOf(err error) (Status, bool) {
	var status Status
	if errors.As(err, &status) {
		return status, true
	}
	return StatusSuccess, false
}

// BuildLog returns the compiler log attached to err, if any.
func BuildLog(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Log
	}
	return ""
}
