package ocl

// Driver is the native compute runtime the helpers delegate to. The cgo
// implementation binds libOpenCL; tests substitute an in-memory fake.
//
// Handles returned by a Driver are only meaningful to that Driver. List
// methods return an empty slice, not an error, when nothing is found.
type Driver interface {
	PlatformIDs() ([]Handle, error)
	PlatformInfo(platform Handle) (PlatformInfo, error)
	DeviceIDs(platform Handle, typ DeviceType) ([]Handle, error)
	DeviceInfo(device Handle) (DeviceInfo, error)

	CreateContext(devices []Handle) (Handle, error)
	ReleaseContext(ctx Handle)

	CreateProgramWithSource(ctx Handle, source string) (Handle, error)
	BuildProgram(program Handle, devices []Handle, options string) error
	ProgramBuildLog(program, device Handle) (string, error)
	ProgramKernelNames(program Handle) ([]string, error)
	ReleaseProgram(program Handle)

	CreateKernel(program Handle, name string) (Handle, error)
	SetKernelArg(kernel Handle, index int, value []byte) error
	SetKernelArgLocal(kernel Handle, index int, size int) error
	SetKernelArgBuffer(kernel Handle, index int, buffer Handle) error
	ReleaseKernel(kernel Handle)

	CreateBuffer(ctx Handle, flags MemFlags, size int, host []byte) (Handle, error)
	ReleaseBuffer(buffer Handle)

	CreateQueue(ctx, device Handle) (Handle, error)
	EnqueueWriteBuffer(queue, buffer Handle, offset int, data []byte) error
	EnqueueReadBuffer(queue, buffer Handle, offset int, dst []byte) error
	EnqueueKernel(queue, kernel Handle, global, local []int) error
	Finish(queue Handle) error
	ReleaseQueue(queue Handle)
}
