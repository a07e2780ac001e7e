package ocl

import (
	"fmt"
	"log/slog"
)

// Runtime binds the helpers to a Driver. It holds no native state itself;
// every object it hands out owns its own handles.
type Runtime struct {
	driver       Driver
	logger       *slog.Logger
	buildOptions string
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for build logs and debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithBuildOptions sets the options string passed to every program build,
// e.g. "-cl-std=CL1.2 -DTILE=16".
func WithBuildOptions(options string) Option {
	return func(rt *Runtime) {
		rt.buildOptions = options
	}
}

// NewRuntime creates a Runtime on top of the given driver.
func NewRuntime(driver Driver, opts ...Option) *Runtime {
	rt := &Runtime{
		driver: driver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// NewNative creates a Runtime bound to the system OpenCL library. Builds
// without the gpu tag return ErrNotBuilt.
func NewNative(opts ...Option) (*Runtime, error) {
	driver, err := newNativeDriver()
	if err != nil {
		return nil, fmt.Errorf("init native driver: %w", err)
	}
	return NewRuntime(driver, opts...), nil
}

// BuildOptions returns the options passed to program builds.
func (rt *Runtime) BuildOptions() string {
	return rt.buildOptions
}
