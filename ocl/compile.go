package ocl

import (
	"fmt"
	"log/slog"
)

// Compiled is a program built for one device together with everything it
// depends on. The caller must keep it alive while the program is in use
// and call Release when done.
type Compiled struct {
	Platform *Platform
	Device   *Device
	Context  *Context
	Program  *Program
}

// Release frees the program and then its context.
func (c *Compiled) Release() {
	if c == nil {
		return
	}
	c.Program.Release()
	c.Context.Release()
}

// CompileFileWith builds filename for device on platform.
func (rt *Runtime) CompileFileWith(filename string, platform *Platform, device *Device) (*Compiled, error) {
	ctx, err := rt.NewContext(device)
	if err != nil {
		return nil, err
	}

	program, err := rt.MakeProgramFromFile(ctx, filename)
	if err != nil {
		ctx.Release()
		return nil, err
	}

	if err := rt.Build(program, device); err != nil {
		program.Release()
		ctx.Release()
		return nil, err
	}

	rt.logger.Info("OpenCL program compiled",
		slog.String("file", filename),
		slog.String("platform", platform.Info.Name),
		slog.String("device", device.Info.Name),
	)
	return &Compiled{Platform: platform, Device: device, Context: ctx, Program: program}, nil
}

// CompileFileWithDefaults builds filename for the default device of the
// default platform.
func (rt *Runtime) CompileFileWithDefaults(filename string) (*Compiled, error) {
	platform, err := rt.DefaultPlatform()
	if err != nil {
		return nil, err
	}
	device, err := rt.DefaultDevice(platform)
	if err != nil {
		return nil, err
	}
	return rt.CompileFileWith(filename, platform, device)
}

// CompileFileWithDefaultCPU builds filename for the first CPU of the first
// platform that has one.
func (rt *Runtime) CompileFileWithDefaultCPU(filename string) (*Compiled, error) {
	return rt.compileOnFirst(filename, DeviceTypeCPU, ErrNoCPU)
}

// CompileFileWithDefaultCPUOn builds filename for the first CPU of platform.
func (rt *Runtime) CompileFileWithDefaultCPUOn(platform *Platform, filename string) (*Compiled, error) {
	device, err := rt.DefaultCPU(platform)
	if err != nil {
		return nil, err
	}
	return rt.CompileFileWith(filename, platform, device)
}

// CompileFileWithDefaultGPU builds filename for the first GPU of the first
// platform that has one.
func (rt *Runtime) CompileFileWithDefaultGPU(filename string) (*Compiled, error) {
	return rt.compileOnFirst(filename, DeviceTypeGPU, ErrNoGPU)
}

// CompileFileWithDefaultGPUOn builds filename for the first GPU of platform.
func (rt *Runtime) CompileFileWithDefaultGPUOn(platform *Platform, filename string) (*Compiled, error) {
	device, err := rt.DefaultGPU(platform)
	if err != nil {
		return nil, err
	}
	return rt.CompileFileWith(filename, platform, device)
}

func (rt *Runtime) compileOnFirst(filename string, typ DeviceType, missing error) (*Compiled, error) {
	platforms, err := rt.Platforms()
	if err != nil {
		return nil, err
	}
	for _, p := range platforms {
		devices, err := rt.Devices(p, typ)
		if err != nil {
			return nil, err
		}
		if len(devices) > 0 {
			return rt.CompileFileWith(filename, p, devices[0])
		}
	}
	return nil, &Error{Op: "CompileFileWithDefault" + string(typ), Err: missing}
}

// Selection describes where a file should be compiled. An empty Platform
// considers every platform; an empty Device means DeviceTypeDefault.
type Selection struct {
	Platform string
	Device   DeviceType
}

func (s Selection) String() string {
	device := s.Device
	if device == "" {
		device = DeviceTypeDefault
	}
	if s.Platform == "" {
		return string(device)
	}
	return fmt.Sprintf("%s on %q", device, s.Platform)
}

// CompileFile dispatches to the CompileFileWith* helper matching sel.
func (rt *Runtime) CompileFile(filename string, sel Selection) (*Compiled, error) {
	if sel.Platform == "" {
		switch sel.Device {
		case "", DeviceTypeDefault:
			return rt.CompileFileWithDefaults(filename)
		case DeviceTypeGPU:
			return rt.CompileFileWithDefaultGPU(filename)
		case DeviceTypeCPU:
			return rt.CompileFileWithDefaultCPU(filename)
		}
	}

	var (
		platform *Platform
		err      error
	)
	if sel.Platform == "" {
		platform, err = rt.DefaultPlatform()
	} else {
		platform, err = rt.PlatformMatching(sel.Platform)
	}
	if err != nil {
		return nil, err
	}

	switch sel.Device {
	case "", DeviceTypeDefault:
		device, err := rt.DefaultDevice(platform)
		if err != nil {
			return nil, err
		}
		return rt.CompileFileWith(filename, platform, device)
	case DeviceTypeGPU:
		return rt.CompileFileWithDefaultGPUOn(platform, filename)
	case DeviceTypeCPU:
		return rt.CompileFileWithDefaultCPUOn(platform, filename)
	case DeviceTypeUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDeviceType, sel.Device)
	default:
		devices, err := rt.Devices(platform, sel.Device)
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			return nil, &Error{Op: "CompileFile", Msg: fmt.Sprintf("%v: %s", ErrNoDevice, sel), Err: ErrNoDevice}
		}
		return rt.CompileFileWith(filename, platform, devices[0])
	}
}
