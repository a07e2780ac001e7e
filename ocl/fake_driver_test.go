package ocl

import (
	"fmt"
	"regexp"
	"strings"
)

type fakeDevice struct {
	info DeviceInfo
}

type fakePlatform struct {
	info    PlatformInfo
	devices []*fakeDevice
}

type fakeContext struct {
	devices []*fakeDevice
}

type fakeProgram struct {
	ctx     *fakeContext
	source  string
	options string
	built   bool
	log     string
}

type fakeArg struct {
	value  []byte
	local  int
	buffer *fakeBuffer
}

type fakeKernel struct {
	name string
	args map[int]fakeArg
}

type fakeBuffer struct {
	flags MemFlags
	data  []byte
}

type fakeQueue struct {
	device   *fakeDevice
	launches [][]int
}

// fakeDriver is an in-memory Driver. Its "compiler" rejects any source
// containing an #error directive and reports the directive in the build log.
type fakeDriver struct {
	platforms   []*fakePlatform
	platformErr error
	argErr      map[int]Status

	live map[string]int
}

func newFakeDriver(platforms ...*fakePlatform) *fakeDriver {
	return &fakeDriver{platforms: platforms, live: map[string]int{}}
}

func newGPU(name string) *fakeDevice {
	return &fakeDevice{info: DeviceInfo{Name: name, Type: DeviceTypeGPU, Available: true}}
}

func newCPU(name string) *fakeDevice {
	return &fakeDevice{info: DeviceInfo{Name: name, Type: DeviceTypeCPU, Available: true}}
}

func newAccel(name string) *fakeDevice {
	return &fakeDevice{info: DeviceInfo{Name: name, Type: DeviceTypeAccelerator, Available: true}}
}

func newPlatform(name string, devices ...*fakeDevice) *fakePlatform {
	return &fakePlatform{info: PlatformInfo{Name: name, Vendor: name + " Inc.", Version: "OpenCL 1.2"}, devices: devices}
}

func (d *fakeDriver) PlatformIDs() ([]Handle, error) {
	if d.platformErr != nil {
		return nil, d.platformErr
	}
	out := make([]Handle, len(d.platforms))
	for i, p := range d.platforms {
		out[i] = p
	}
	return out, nil
}

func (d *fakeDriver) PlatformInfo(platform Handle) (PlatformInfo, error) {
	p, ok := platform.(*fakePlatform)
	if !ok {
		return PlatformInfo{}, StatusError("clGetPlatformInfo", StatusInvalidPlatform)
	}
	return p.info, nil
}

func (d *fakeDriver) DeviceIDs(platform Handle, typ DeviceType) ([]Handle, error) {
	p, ok := platform.(*fakePlatform)
	if !ok {
		return nil, StatusError("clGetDeviceIDs", StatusInvalidPlatform)
	}
	var out []Handle
	for i, dev := range p.devices {
		switch typ {
		case DeviceTypeAll:
		case DeviceTypeDefault:
			if i != 0 {
				continue
			}
		default:
			if dev.info.Type != typ {
				continue
			}
		}
		out = append(out, dev)
	}
	return out, nil
}

func (d *fakeDriver) DeviceInfo(device Handle) (DeviceInfo, error) {
	dev, ok := device.(*fakeDevice)
	if !ok {
		return DeviceInfo{}, StatusError("clGetDeviceInfo", StatusInvalidDevice)
	}
	return dev.info, nil
}

func (d *fakeDriver) CreateContext(devices []Handle) (Handle, error) {
	ctx := &fakeContext{}
	for _, h := range devices {
		dev, ok := h.(*fakeDevice)
		if !ok {
			return nil, StatusError("clCreateContext", StatusInvalidDevice)
		}
		ctx.devices = append(ctx.devices, dev)
	}
	d.live["context"]++
	return ctx, nil
}

func (d *fakeDriver) ReleaseContext(Handle) { d.live["context"]-- }

func (d *fakeDriver) CreateProgramWithSource(ctx Handle, source string) (Handle, error) {
	c, ok := ctx.(*fakeContext)
	if !ok {
		return nil, StatusError("clCreateProgramWithSource", StatusInvalidContext)
	}
	d.live["program"]++
	return &fakeProgram{ctx: c, source: source}, nil
}

var errorDirective = regexp.MustCompile(`(?m)^\s*#error\s+(.*)$`)

func (d *fakeDriver) BuildProgram(program Handle, devices []Handle, options string) error {
	p := program.(*fakeProgram)
	p.options = options
	if m := errorDirective.FindStringSubmatchIndex(p.source); m != nil {
		line := strings.Count(p.source[:m[0]], "\n") + 1
		p.log = fmt.Sprintf("<source>:%d:2: error: %s\n", line, p.source[m[2]:m[3]])
		return StatusError("clBuildProgram", StatusBuildProgramFailure)
	}
	p.built = true
	return nil
}

func (d *fakeDriver) ProgramBuildLog(program, device Handle) (string, error) {
	return program.(*fakeProgram).log, nil
}

var kernelDecl = regexp.MustCompile(`__kernel\s+void\s+(\w+)\s*\(`)

func (d *fakeDriver) ProgramKernelNames(program Handle) ([]string, error) {
	p := program.(*fakeProgram)
	if !p.built {
		return nil, StatusError("clGetProgramInfo", StatusInvalidProgramExecutable)
	}
	var names []string
	for _, m := range kernelDecl.FindAllStringSubmatch(p.source, -1) {
		names = append(names, m[1])
	}
	return names, nil
}

func (d *fakeDriver) ReleaseProgram(Handle) { d.live["program"]-- }

func (d *fakeDriver) CreateKernel(program Handle, name string) (Handle, error) {
	names, err := d.ProgramKernelNames(program)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if n == name {
			d.live["kernel"]++
			return &fakeKernel{name: name, args: map[int]fakeArg{}}, nil
		}
	}
	return nil, StatusError("clCreateKernel", StatusInvalidKernelName)
}

func (d *fakeDriver) setArg(kernel Handle, index int, arg fakeArg) error {
	if status, ok := d.argErr[index]; ok {
		return StatusError("clSetKernelArg", status)
	}
	kernel.(*fakeKernel).args[index] = arg
	return nil
}

func (d *fakeDriver) SetKernelArg(kernel Handle, index int, value []byte) error {
	return d.setArg(kernel, index, fakeArg{value: append([]byte(nil), value...)})
}

func (d *fakeDriver) SetKernelArgLocal(kernel Handle, index int, size int) error {
	return d.setArg(kernel, index, fakeArg{local: size})
}

func (d *fakeDriver) SetKernelArgBuffer(kernel Handle, index int, buffer Handle) error {
	return d.setArg(kernel, index, fakeArg{buffer: buffer.(*fakeBuffer)})
}

func (d *fakeDriver) ReleaseKernel(Handle) { d.live["kernel"]-- }

func (d *fakeDriver) CreateBuffer(ctx Handle, flags MemFlags, size int, host []byte) (Handle, error) {
	b := &fakeBuffer{flags: flags, data: make([]byte, size)}
	copy(b.data, host)
	d.live["buffer"]++
	return b, nil
}

func (d *fakeDriver) ReleaseBuffer(Handle) { d.live["buffer"]-- }

func (d *fakeDriver) CreateQueue(ctx, device Handle) (Handle, error) {
	d.live["queue"]++
	return &fakeQueue{device: device.(*fakeDevice)}, nil
}

func (d *fakeDriver) EnqueueWriteBuffer(queue, buffer Handle, offset int, data []byte) error {
	copy(buffer.(*fakeBuffer).data[offset:], data)
	return nil
}

func (d *fakeDriver) EnqueueReadBuffer(queue, buffer Handle, offset int, dst []byte) error {
	copy(dst, buffer.(*fakeBuffer).data[offset:])
	return nil
}

func (d *fakeDriver) EnqueueKernel(queue, kernel Handle, global, local []int) error {
	q := queue.(*fakeQueue)
	q.launches = append(q.launches, append([]int(nil), global...))
	return nil
}

func (d *fakeDriver) Finish(Handle) error { return nil }

func (d *fakeDriver) ReleaseQueue(Handle) { d.live["queue"]-- }

func (d *fakeDriver) leaked() map[string]int {
	out := map[string]int{}
	for k, v := range d.live {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}
