package ocl

import (
	"fmt"
	"strings"
	"time"
)

// Program is kernel source attached to a context, built or not.
type Program struct {
	rt      *Runtime
	ctx     *Context
	id      Handle
	Source  string
	Options string
}

// MakeProgramFromFile reads filename and creates a program from its content.
// An empty or missing file yields ErrEmptySource.
func (rt *Runtime) MakeProgramFromFile(ctx *Context, filename string) (*Program, error) {
	source := ReadKernelFromFile(filename)
	if source == "" {
		return nil, &Error{
			Op:  "MakeProgramFromFile",
			Msg: fmt.Sprintf("%v: %s", ErrEmptySource, filename),
			Err: ErrEmptySource,
		}
	}
	return rt.MakeProgramFromSource(ctx, source)
}

// MakeProgramFromSource creates a program from in-memory kernel source.
func (rt *Runtime) MakeProgramFromSource(ctx *Context, source string) (*Program, error) {
	if source == "" {
		return nil, &Error{Op: "MakeProgram", Err: ErrEmptySource}
	}
	if ctx == nil || ctx.id == nil {
		return nil, &Error{Op: "MakeProgram", Msg: "context is released", Err: ErrReleased}
	}

	id, err := rt.driver.CreateProgramWithSource(ctx.id, source)
	if err != nil {
		return nil, err
	}
	return &Program{rt: rt, ctx: ctx, id: id, Source: source}, nil
}

// Build compiles the program for device using the runtime's build options.
// A failure is reported as an *Error wrapping ErrBuildFailed whose message
// and Log field carry the compiler output.
func (rt *Runtime) Build(program *Program, device *Device) error {
	if program == nil || program.id == nil {
		return &Error{Op: "Build", Msg: "program is released", Err: ErrReleased}
	}
	if device == nil {
		return &Error{Op: "Build", Err: ErrNoDevice}
	}

	start := time.Now()
	err := rt.driver.BuildProgram(program.id, []Handle{device.id}, rt.buildOptions)
	if err == nil {
		program.Options = rt.buildOptions
		rt.logger.Debug("OpenCL program built",
			"device", device.Info.Name,
			"options", rt.buildOptions,
			"duration", time.Since(start),
		)
		return nil
	}

	log, logErr := rt.driver.ProgramBuildLog(program.id, device.id)
	if logErr != nil {
		rt.logger.Error("OpenCL: failed to fetch build log", "err", logErr)
	}
	log = strings.TrimRight(log, "\x00\n ")
	if log != "" {
		rt.logger.Error("OpenCL build log", "device", device.Info.Name, "log", log)
	}

	status, _ := StatusOf(err)
	return &Error{
		Op:     "clBuildProgram",
		Status: status,
		Msg:    ErrBuildFailed.Error() + ": " + log,
		Log:    log,
		Err:    ErrBuildFailed,
	}
}

// KernelNames lists the kernels defined by a built program.
func (p *Program) KernelNames() ([]string, error) {
	return p.rt.driver.ProgramKernelNames(p.id)
}

// Context returns the context the program belongs to.
func (p *Program) Context() *Context {
	return p.ctx
}

// CreateKernel creates the kernel called name from a built program.
func (p *Program) CreateKernel(name string) (*Kernel, error) {
	if p.id == nil {
		return nil, &Error{Op: "CreateKernel", Msg: "program is released", Err: ErrReleased}
	}
	id, err := p.rt.driver.CreateKernel(p.id, name)
	if err != nil {
		return nil, err
	}
	p.rt.logger.Debug("OpenCL kernel created", "kernel", name)
	return &Kernel{rt: p.rt, program: p, id: id, Name: name}, nil
}

// Release frees the native program. Calling it more than once is harmless.
func (p *Program) Release() {
	if p == nil || p.id == nil {
		return
	}
	p.rt.driver.ReleaseProgram(p.id)
	p.id = nil
}
