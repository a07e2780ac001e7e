//go:build gpu

package ocl

/*
#cgo !darwin LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL
#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS
#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif
#include <stdlib.h>

static cl_command_queue oclhelpers_create_queue(cl_context ctx, cl_device_id device, cl_int *status) {
#if CL_TARGET_OPENCL_VERSION >= 200
	const cl_queue_properties props[] = {0};
	return clCreateCommandQueueWithProperties(ctx, device, props, status);
#else
	return clCreateCommandQueue(ctx, device, 0, status);
#endif
}
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"
)

// clDriver binds the Driver interface to libOpenCL.
type clDriver struct{}

func newNativeDriver() (Driver, error) {
	return clDriver{}, nil
}

func statusError(op string, status C.cl_int) error {
	return StatusError(op, Status(status))
}

func platformID(h Handle) C.cl_platform_id {
	id, _ := h.(C.cl_platform_id)
	return id
}

func deviceID(h Handle) C.cl_device_id {
	id, _ := h.(C.cl_device_id)
	return id
}

func contextID(h Handle) C.cl_context {
	id, _ := h.(C.cl_context)
	return id
}

func programID(h Handle) C.cl_program {
	id, _ := h.(C.cl_program)
	return id
}

func kernelID(h Handle) C.cl_kernel {
	id, _ := h.(C.cl_kernel)
	return id
}

func memID(h Handle) C.cl_mem {
	id, _ := h.(C.cl_mem)
	return id
}

func queueID(h Handle) C.cl_command_queue {
	id, _ := h.(C.cl_command_queue)
	return id
}

func (clDriver) PlatformIDs() ([]Handle, error) {
	var count C.cl_uint
	status := C.clGetPlatformIDs(0, nil, &count)
	if Status(status) == StatusPlatformNotFoundKHR {
		return nil, nil
	}
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetPlatformIDs(count)", status)
	}
	if count == 0 {
		return nil, nil
	}

	ids := make([]C.cl_platform_id, int(count))
	status = C.clGetPlatformIDs(count, &ids[0], nil)
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetPlatformIDs(list)", status)
	}

	out := make([]Handle, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out, nil
}

func (clDriver) PlatformInfo(platform Handle) (PlatformInfo, error) {
	id := platformID(platform)

	var info PlatformInfo
	fields := []struct {
		param C.cl_platform_info
		dst   *string
	}{
		{C.CL_PLATFORM_NAME, &info.Name},
		{C.CL_PLATFORM_VENDOR, &info.Vendor},
		{C.CL_PLATFORM_VERSION, &info.Version},
		{C.CL_PLATFORM_PROFILE, &info.Profile},
		{C.CL_PLATFORM_EXTENSIONS, &info.Extensions},
	}
	for _, f := range fields {
		value, err := getPlatformString(id, f.param)
		if err != nil {
			return PlatformInfo{}, err
		}
		*f.dst = value
	}
	return info, nil
}

func deviceTypeBits(typ DeviceType) (C.cl_device_type, error) {
	switch typ {
	case DeviceTypeGPU:
		return C.CL_DEVICE_TYPE_GPU, nil
	case DeviceTypeCPU:
		return C.CL_DEVICE_TYPE_CPU, nil
	case DeviceTypeAccelerator:
		return C.CL_DEVICE_TYPE_ACCELERATOR, nil
	case DeviceTypeDefault:
		return C.CL_DEVICE_TYPE_DEFAULT, nil
	case DeviceTypeAll, "":
		return C.CL_DEVICE_TYPE_ALL, nil
	default:
		return 0, StatusError("clGetDeviceIDs", StatusInvalidDeviceType)
	}
}

func mapDeviceType(dt C.cl_device_type) DeviceType {
	switch {
	case dt&C.CL_DEVICE_TYPE_GPU != 0:
		return DeviceTypeGPU
	case dt&C.CL_DEVICE_TYPE_CPU != 0:
		return DeviceTypeCPU
	case dt&C.CL_DEVICE_TYPE_ACCELERATOR != 0:
		return DeviceTypeAccelerator
	case dt&C.CL_DEVICE_TYPE_DEFAULT != 0:
		return DeviceTypeDefault
	default:
		return DeviceTypeUnknown
	}
}

func (clDriver) DeviceIDs(platform Handle, typ DeviceType) ([]Handle, error) {
	bits, err := deviceTypeBits(typ)
	if err != nil {
		return nil, err
	}
	pid := platformID(platform)

	var count C.cl_uint
	status := C.clGetDeviceIDs(pid, bits, 0, nil, &count)
	if status == C.CL_DEVICE_NOT_FOUND {
		return nil, nil
	}
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetDeviceIDs(count)", status)
	}
	if count == 0 {
		return nil, nil
	}

	ids := make([]C.cl_device_id, int(count))
	status = C.clGetDeviceIDs(pid, bits, count, &ids[0], nil)
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetDeviceIDs(list)", status)
	}

	out := make([]Handle, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out, nil
}

func (clDriver) DeviceInfo(device Handle) (DeviceInfo, error) {
	id := deviceID(device)

	var info DeviceInfo
	strs := []struct {
		param C.cl_device_info
		dst   *string
	}{
		{C.CL_DEVICE_NAME, &info.Name},
		{C.CL_DEVICE_VENDOR, &info.Vendor},
		{C.CL_DEVICE_VERSION, &info.Version},
		{C.CL_DRIVER_VERSION, &info.DriverVersion},
	}
	for _, f := range strs {
		value, err := getDeviceString(id, f.param)
		if err != nil {
			return DeviceInfo{}, err
		}
		*f.dst = strings.TrimSpace(value)
	}

	var (
		rawType      C.cl_device_type
		computeUnits C.cl_uint
		workGroup    C.size_t
		globalMem    C.cl_ulong
		localMem     C.cl_ulong
		available    C.cl_bool
	)
	values := []struct {
		param C.cl_device_info
		size  uintptr
		dst   unsafe.Pointer
		what  string
	}{
		{C.CL_DEVICE_TYPE, unsafe.Sizeof(rawType), unsafe.Pointer(&rawType), "type"},
		{C.CL_DEVICE_MAX_COMPUTE_UNITS, unsafe.Sizeof(computeUnits), unsafe.Pointer(&computeUnits), "computeUnits"},
		{C.CL_DEVICE_MAX_WORK_GROUP_SIZE, unsafe.Sizeof(workGroup), unsafe.Pointer(&workGroup), "workGroupSize"},
		{C.CL_DEVICE_GLOBAL_MEM_SIZE, unsafe.Sizeof(globalMem), unsafe.Pointer(&globalMem), "globalMemSize"},
		{C.CL_DEVICE_LOCAL_MEM_SIZE, unsafe.Sizeof(localMem), unsafe.Pointer(&localMem), "localMemSize"},
		{C.CL_DEVICE_AVAILABLE, unsafe.Sizeof(available), unsafe.Pointer(&available), "available"},
	}
	for _, v := range values {
		status := C.clGetDeviceInfo(id, v.param, C.size_t(v.size), v.dst, nil)
		if status != C.CL_SUCCESS {
			return DeviceInfo{}, statusError(fmt.Sprintf("clGetDeviceInfo(%s)", v.what), status)
		}
	}

	info.Type = mapDeviceType(rawType)
	info.MaxComputeUnits = uint32(computeUnits)
	info.MaxWorkGroupSize = uint64(workGroup)
	info.GlobalMemSize = uint64(globalMem)
	info.LocalMemSize = uint64(localMem)
	info.Available = available != C.CL_FALSE
	return info, nil
}

func getPlatformString(id C.cl_platform_id, param C.cl_platform_info) (string, error) {
	var size C.size_t
	status := C.clGetPlatformInfo(id, param, 0, nil, &size)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetPlatformInfo(size)", status)
	}
	if size == 0 {
		return "", nil
	}

	buf := make([]byte, int(size))
	status = C.clGetPlatformInfo(id, param, size, unsafe.Pointer(&buf[0]), nil)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetPlatformInfo(value)", status)
	}
	return trimNull(buf), nil
}

func getDeviceString(id C.cl_device_id, param C.cl_device_info) (string, error) {
	var size C.size_t
	status := C.clGetDeviceInfo(id, param, 0, nil, &size)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetDeviceInfo(size)", status)
	}
	if size == 0 {
		return "", nil
	}

	buf := make([]byte, int(size))
	status = C.clGetDeviceInfo(id, param, size, unsafe.Pointer(&buf[0]), nil)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetDeviceInfo(value)", status)
	}
	return trimNull(buf), nil
}

func trimNull(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	if buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}

func (clDriver) CreateContext(devices []Handle) (Handle, error) {
	ids := make([]C.cl_device_id, len(devices))
	for i, d := range devices {
		ids[i] = deviceID(d)
	}

	var status C.cl_int
	ctx := C.clCreateContext(nil, C.cl_uint(len(ids)), &ids[0], nil, nil, &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateContext", status)
	}
	return ctx, nil
}

func (clDriver) ReleaseContext(ctx Handle) {
	if id := contextID(ctx); id != nil {
		C.clReleaseContext(id)
	}
}

func (clDriver) CreateProgramWithSource(ctx Handle, source string) (Handle, error) {
	src := C.CString(source)
	defer C.free(unsafe.Pointer(src))

	var status C.cl_int
	program := C.clCreateProgramWithSource(contextID(ctx), 1, &src, nil, &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateProgramWithSource", status)
	}
	return program, nil
}

func (clDriver) BuildProgram(program Handle, devices []Handle, options string) error {
	ids := make([]C.cl_device_id, len(devices))
	for i, d := range devices {
		ids[i] = deviceID(d)
	}
	var idsPtr *C.cl_device_id
	if len(ids) > 0 {
		idsPtr = &ids[0]
	}

	var cOptions *C.char
	if options != "" {
		cOptions = C.CString(options)
		defer C.free(unsafe.Pointer(cOptions))
	}

	status := C.clBuildProgram(programID(program), C.cl_uint(len(ids)), idsPtr, cOptions, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clBuildProgram", status)
	}
	return nil
}

func (clDriver) ProgramBuildLog(program, device Handle) (string, error) {
	pid, did := programID(program), deviceID(device)

	var size C.size_t
	status := C.clGetProgramBuildInfo(pid, did, C.CL_PROGRAM_BUILD_LOG, 0, nil, &size)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetProgramBuildInfo(size)", status)
	}
	if size == 0 {
		return "", nil
	}

	buf := make([]byte, int(size))
	status = C.clGetProgramBuildInfo(pid, did, C.CL_PROGRAM_BUILD_LOG, size, unsafe.Pointer(&buf[0]), nil)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetProgramBuildInfo(log)", status)
	}
	return trimNull(buf), nil
}

func (clDriver) ProgramKernelNames(program Handle) ([]string, error) {
	pid := programID(program)

	var size C.size_t
	status := C.clGetProgramInfo(pid, C.CL_PROGRAM_KERNEL_NAMES, 0, nil, &size)
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetProgramInfo(size)", status)
	}
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, int(size))
	status = C.clGetProgramInfo(pid, C.CL_PROGRAM_KERNEL_NAMES, size, unsafe.Pointer(&buf[0]), nil)
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetProgramInfo(kernelNames)", status)
	}

	var names []string
	for _, name := range strings.Split(trimNull(buf), ";") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (clDriver) ReleaseProgram(program Handle) {
	if id := programID(program); id != nil {
		C.clReleaseProgram(id)
	}
}

func (clDriver) CreateKernel(program Handle, name string) (Handle, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var status C.cl_int
	kernel := C.clCreateKernel(programID(program), cName, &status)
	if status != C.CL_SUCCESS {
		return nil, statusError(fmt.Sprintf("clCreateKernel(%s)", name), status)
	}
	return kernel, nil
}

func (clDriver) SetKernelArg(kernel Handle, index int, value []byte) error {
	if len(value) == 0 {
		return StatusError("clSetKernelArg", StatusInvalidArgSize)
	}
	status := C.clSetKernelArg(kernelID(kernel), C.cl_uint(index), C.size_t(len(value)), unsafe.Pointer(&value[0]))
	if status != C.CL_SUCCESS {
		return statusError("clSetKernelArg", status)
	}
	return nil
}

func (clDriver) SetKernelArgLocal(kernel Handle, index int, size int) error {
	status := C.clSetKernelArg(kernelID(kernel), C.cl_uint(index), C.size_t(size), nil)
	if status != C.CL_SUCCESS {
		return statusError("clSetKernelArg(local)", status)
	}
	return nil
}

func (clDriver) SetKernelArgBuffer(kernel Handle, index int, buffer Handle) error {
	mem := memID(buffer)
	status := C.clSetKernelArg(kernelID(kernel), C.cl_uint(index), C.size_t(unsafe.Sizeof(mem)), unsafe.Pointer(&mem))
	if status != C.CL_SUCCESS {
		return statusError("clSetKernelArg(buffer)", status)
	}
	return nil
}

func (clDriver) ReleaseKernel(kernel Handle) {
	if id := kernelID(kernel); id != nil {
		C.clReleaseKernel(id)
	}
}

func (clDriver) CreateBuffer(ctx Handle, flags MemFlags, size int, host []byte) (Handle, error) {
	cFlags := C.cl_mem_flags(flags)
	var hostPtr unsafe.Pointer
	if len(host) > 0 {
		cFlags |= C.CL_MEM_COPY_HOST_PTR
		hostPtr = unsafe.Pointer(&host[0])
	}

	var status C.cl_int
	mem := C.clCreateBuffer(contextID(ctx), cFlags, C.size_t(size), hostPtr, &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateBuffer", status)
	}
	return mem, nil
}

func (clDriver) ReleaseBuffer(buffer Handle) {
	if id := memID(buffer); id != nil {
		C.clReleaseMemObject(id)
	}
}

func (clDriver) CreateQueue(ctx, device Handle) (Handle, error) {
	var status C.cl_int
	queue := C.oclhelpers_create_queue(contextID(ctx), deviceID(device), &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateCommandQueue", status)
	}
	return queue, nil
}

func (clDriver) EnqueueWriteBuffer(queue, buffer Handle, offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	status := C.clEnqueueWriteBuffer(queueID(queue), memID(buffer), C.CL_TRUE, C.size_t(offset), C.size_t(len(data)), unsafe.Pointer(&data[0]), 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueWriteBuffer", status)
	}
	return nil
}

func (clDriver) EnqueueReadBuffer(queue, buffer Handle, offset int, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	status := C.clEnqueueReadBuffer(queueID(queue), memID(buffer), C.CL_TRUE, C.size_t(offset), C.size_t(len(dst)), unsafe.Pointer(&dst[0]), 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueReadBuffer", status)
	}
	return nil
}

func (clDriver) EnqueueKernel(queue, kernel Handle, global, local []int) error {
	g := make([]C.size_t, len(global))
	for i, v := range global {
		g[i] = C.size_t(v)
	}

	var localPtr *C.size_t
	if len(local) > 0 {
		l := make([]C.size_t, len(local))
		for i, v := range local {
			l[i] = C.size_t(v)
		}
		localPtr = &l[0]
	}

	status := C.clEnqueueNDRangeKernel(queueID(queue), kernelID(kernel), C.cl_uint(len(g)), nil, &g[0], localPtr, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueNDRangeKernel", status)
	}
	return nil
}

func (clDriver) Finish(queue Handle) error {
	status := C.clFinish(queueID(queue))
	if status != C.CL_SUCCESS {
		return statusError("clFinish", status)
	}
	return nil
}

func (clDriver) ReleaseQueue(queue Handle) {
	if id := queueID(queue); id != nil {
		C.clReleaseCommandQueue(id)
	}
}
