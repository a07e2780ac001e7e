package main

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/cwbudde/oclhelpers/ocl"
)

// testDriver is an in-memory ocl.Driver with one platform and one CPU. Its
// compiler fails on an #error line and otherwise reports every __kernel.
type testDriver struct {
	platform ocl.PlatformInfo
	device   ocl.DeviceInfo
	builds   int
}

type testHandle struct{ name string }

type testProgram struct {
	source string
	log    string
}

var testKernelPattern = regexp.MustCompile(`__kernel\s+void\s+(\w+)\s*\(`)

func newTestDriver() *testDriver {
	return &testDriver{
		platform: ocl.PlatformInfo{Name: "Portable Computing Language", Vendor: "The pocl project", Version: "OpenCL 3.0 PoCL"},
		device: ocl.DeviceInfo{
			Name:            "cpu-haswell",
			Type:            ocl.DeviceTypeCPU,
			MaxComputeUnits: 8,
			GlobalMemSize:   16 << 30,
			LocalMemSize:    512 << 10,
			Available:       true,
		},
	}
}

// useTestRuntime routes newRuntime to drv for the duration of the test.
func useTestRuntime(t *testing.T, drv *testDriver) {
	t.Helper()
	saved := newRuntime
	newRuntime = func(buildOptions string) (*ocl.Runtime, error) {
		return ocl.NewRuntime(drv,
			ocl.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			ocl.WithBuildOptions(buildOptions),
		), nil
	}
	t.Cleanup(func() { newRuntime = saved })
}

func (d *testDriver) PlatformIDs() ([]ocl.Handle, error) {
	return []ocl.Handle{&testHandle{name: "platform"}}, nil
}

func (d *testDriver) PlatformInfo(ocl.Handle) (ocl.PlatformInfo, error) {
	return d.platform, nil
}

func (d *testDriver) DeviceIDs(_ ocl.Handle, typ ocl.DeviceType) ([]ocl.Handle, error) {
	switch typ {
	case d.device.Type, ocl.DeviceTypeAll, ocl.DeviceTypeDefault:
		return []ocl.Handle{&testHandle{name: "device"}}, nil
	}
	return []ocl.Handle{}, nil
}

func (d *testDriver) DeviceInfo(ocl.Handle) (ocl.DeviceInfo, error) {
	return d.device, nil
}

func (d *testDriver) CreateContext([]ocl.Handle) (ocl.Handle, error) {
	return &testHandle{name: "context"}, nil
}

func (d *testDriver) ReleaseContext(ocl.Handle) {}

func (d *testDriver) CreateProgramWithSource(_ ocl.Handle, source string) (ocl.Handle, error) {
	return &testProgram{source: source}, nil
}

func (d *testDriver) BuildProgram(program ocl.Handle, _ []ocl.Handle, _ string) error {
	d.builds++
	p := program.(*testProgram)
	for n, line := range strings.Split(p.source, "\n") {
		if msg, ok := strings.CutPrefix(strings.TrimSpace(line), "#error"); ok {
			p.log = "<source>:" + strconv.Itoa(n+1) + ":2: error:" + msg + "\n"
			return ocl.StatusBuildProgramFailure
		}
	}
	return nil
}

func (d *testDriver) ProgramBuildLog(program, _ ocl.Handle) (string, error) {
	return program.(*testProgram).log, nil
}

func (d *testDriver) ProgramKernelNames(program ocl.Handle) ([]string, error) {
	var names []string
	for _, m := range testKernelPattern.FindAllStringSubmatch(program.(*testProgram).source, -1) {
		names = append(names, m[1])
	}
	return names, nil
}

func (d *testDriver) ReleaseProgram(ocl.Handle) {}

func (d *testDriver) CreateKernel(_ ocl.Handle, name string) (ocl.Handle, error) {
	return &testHandle{name: name}, nil
}

func (d *testDriver) SetKernelArg(ocl.Handle, int, []byte) error {
	return nil
}

func (d *testDriver) SetKernelArgLocal(ocl.Handle, int, int) error {
	return nil
}

func (d *testDriver) SetKernelArgBuffer(ocl.Handle, int, ocl.Handle) error {
	return nil
}

func (d *testDriver) ReleaseKernel(ocl.Handle) {}

func (d *testDriver) CreateBuffer(ocl.Handle, ocl.MemFlags, int, []byte) (ocl.Handle, error) {
	return &testHandle{name: "buffer"}, nil
}

func (d *testDriver) ReleaseBuffer(ocl.Handle) {}

func (d *testDriver) CreateQueue(_, _ ocl.Handle) (ocl.Handle, error) {
	return &testHandle{name: "queue"}, nil
}

func (d *testDriver) EnqueueWriteBuffer(_, _ ocl.Handle, _ int, _ []byte) error {
	return nil
}

func (d *testDriver) EnqueueReadBuffer(_, _ ocl.Handle, _ int, _ []byte) error {
	return nil
}

func (d *testDriver) EnqueueKernel(_, _ ocl.Handle, _, _ []int) error {
	return nil
}

func (d *testDriver) Finish(ocl.Handle) error {
	return nil
}

func (d *testDriver) ReleaseQueue(ocl.Handle) {}
