package ocl

import "sync"

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
	defaultErr     error
)

// Default returns the process-wide Runtime bound to the native driver,
// creating it on first use.
func Default() (*Runtime, error) {
	defaultOnce.Do(func() {
		defaultRuntime, defaultErr = NewNative()
	})
	return defaultRuntime, defaultErr
}

// Platforms lists the platforms of the default runtime.
func Platforms() ([]*Platform, error) {
	rt, err := Default()
	if err != nil {
		return nil, err
	}
	return rt.Platforms()
}

// CompileFileWithDefaults compiles filename on the default runtime's default
// platform and device.
//
//	c, err := ocl.CompileFileWithDefaults("kernel.cl")
//	if err != nil {
//		return err
//	}
//	defer c.Release()
func CompileFileWithDefaults(filename string) (*Compiled, error) {
	rt, err := Default()
	if err != nil {
		return nil, err
	}
	return rt.CompileFileWithDefaults(filename)
}

// CompileFileWithDefaultCPU compiles filename for the first CPU found.
func CompileFileWithDefaultCPU(filename string) (*Compiled, error) {
	rt, err := Default()
	if err != nil {
		return nil, err
	}
	return rt.CompileFileWithDefaultCPU(filename)
}

// CompileFileWithDefaultGPU compiles filename for the first GPU found.
func CompileFileWithDefaultGPU(filename string) (*Compiled, error) {
	rt, err := Default()
	if err != nil {
		return nil, err
	}
	return rt.CompileFileWithDefaultGPU(filename)
}
