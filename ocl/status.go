package ocl

import (
	"fmt"
	"math"
	"slices"
)

// Status is a native OpenCL status code as returned by the runtime.
type Status int32

// Run-time and JIT compiler errors.
const (
	StatusSuccess                            Status = 0
	StatusDeviceNotFound                     Status = -1
	StatusDeviceNotAvailable                 Status = -2
	StatusCompilerNotAvailable               Status = -3
	StatusMemObjectAllocationFailure         Status = -4
	StatusOutOfResources                     Status = -5
	StatusOutOfHostMemory                    Status = -6
	StatusProfilingInfoNotAvailable          Status = -7
	StatusMemCopyOverlap                     Status = -8
	StatusImageFormatMismatch                Status = -9
	StatusImageFormatNotSupported            Status = -10
	StatusBuildProgramFailure                Status = -11
	StatusMapFailure                         Status = -12
	StatusMisalignedSubBufferOffset          Status = -13
	StatusExecStatusErrorForEventsInWaitList Status = -14
	StatusCompileProgramFailure              Status = -15
	StatusLinkerNotAvailable                 Status = -16
	StatusLinkProgramFailure                 Status = -17
	StatusDevicePartitionFailed              Status = -18
	StatusKernelArgInfoNotAvailable          Status = -19
)

// Compile-time errors.
const (
	StatusInvalidValue                 Status = -30
	StatusInvalidDeviceType            Status = -31
	StatusInvalidPlatform              Status = -32
	StatusInvalidDevice                Status = -33
	StatusInvalidContext               Status = -34
	StatusInvalidQueueProperties       Status = -35
	StatusInvalidCommandQueue          Status = -36
	StatusInvalidHostPtr               Status = -37
	StatusInvalidMemObject             Status = -38
	StatusInvalidImageFormatDescriptor Status = -39
	StatusInvalidImageSize             Status = -40
	StatusInvalidSampler               Status = -41
	StatusInvalidBinary                Status = -42
	StatusInvalidBuildOptions          Status = -43
	StatusInvalidProgram               Status = -44
	StatusInvalidProgramExecutable     Status = -45
	StatusInvalidKernelName            Status = -46
	StatusInvalidKernelDefinition      Status = -47
	StatusInvalidKernel                Status = -48
	StatusInvalidArgIndex              Status = -49
	StatusInvalidArgValue              Status = -50
	StatusInvalidArgSize               Status = -51
	StatusInvalidKernelArgs            Status = -52
	StatusInvalidWorkDimension         Status = -53
	StatusInvalidWorkGroupSize         Status = -54
	StatusInvalidWorkItemSize          Status = -55
	StatusInvalidGlobalOffset          Status = -56
	StatusInvalidEventWaitList         Status = -57
	StatusInvalidEvent                 Status = -58
	StatusInvalidOperation             Status = -59
	StatusInvalidGLObject              Status = -60
	StatusInvalidBufferSize            Status = -61
	StatusInvalidMipLevel              Status = -62
	StatusInvalidGlobalWorkSize        Status = -63
	StatusInvalidProperty              Status = -64
	StatusInvalidImageDescriptor       Status = -65
	StatusInvalidCompilerOptions       Status = -66
	StatusInvalidLinkerOptions         Status = -67
	StatusInvalidDevicePartitionCount  Status = -68
	StatusInvalidPipeSize              Status = -69
	StatusInvalidDeviceQueue           Status = -70
	StatusInvalidSpecID                Status = -71
	StatusMaxSizeRestrictionExceeded   Status = -72
)

// Extension errors.
const (
	StatusInvalidGLSharegroupReferenceKHR Status = -1000
	StatusPlatformNotFoundKHR             Status = -1001
	StatusInvalidD3D10DeviceKHR           Status = -1002
	StatusInvalidD3D10ResourceKHR         Status = -1003
	StatusD3D10ResourceAlreadyAcquiredKHR Status = -1004
	StatusD3D10ResourceNotAcquiredKHR     Status = -1005
)

// UnknownStatus is the name reported for codes missing from the table.
const UnknownStatus = "Unknown OpenCL error"

var statusNames = map[Status]string{
	StatusSuccess:                            "CL_SUCCESS",
	StatusDeviceNotFound:                     "CL_DEVICE_NOT_FOUND",
	StatusDeviceNotAvailable:                 "CL_DEVICE_NOT_AVAILABLE",
	StatusCompilerNotAvailable:               "CL_COMPILER_NOT_AVAILABLE",
	StatusMemObjectAllocationFailure:         "CL_MEM_OBJECT_ALLOCATION_FAILURE",
	StatusOutOfResources:                     "CL_OUT_OF_RESOURCES",
	StatusOutOfHostMemory:                    "CL_OUT_OF_HOST_MEMORY",
	StatusProfilingInfoNotAvailable:          "CL_PROFILING_INFO_NOT_AVAILABLE",
	StatusMemCopyOverlap:                     "CL_MEM_COPY_OVERLAP",
	StatusImageFormatMismatch:                "CL_IMAGE_FORMAT_MISMATCH",
	StatusImageFormatNotSupported:            "CL_IMAGE_FORMAT_NOT_SUPPORTED",
	StatusBuildProgramFailure:                "CL_BUILD_PROGRAM_FAILURE",
	StatusMapFailure:                         "CL_MAP_FAILURE",
	StatusMisalignedSubBufferOffset:          "CL_MISALIGNED_SUB_BUFFER_OFFSET",
	StatusExecStatusErrorForEventsInWaitList: "CL_EXEC_STATUS_ERROR_FOR_EVENTS_IN_WAIT_LIST",
	StatusCompileProgramFailure:              "CL_COMPILE_PROGRAM_FAILURE",
	StatusLinkerNotAvailable:                 "CL_LINKER_NOT_AVAILABLE",
	StatusLinkProgramFailure:                 "CL_LINK_PROGRAM_FAILURE",
	StatusDevicePartitionFailed:              "CL_DEVICE_PARTITION_FAILED",
	StatusKernelArgInfoNotAvailable:          "CL_KERNEL_ARG_INFO_NOT_AVAILABLE",

	StatusInvalidValue:                 "CL_INVALID_VALUE",
	StatusInvalidDeviceType:            "CL_INVALID_DEVICE_TYPE",
	StatusInvalidPlatform:              "CL_INVALID_PLATFORM",
	StatusInvalidDevice:                "CL_INVALID_DEVICE",
	StatusInvalidContext:               "CL_INVALID_CONTEXT",
	StatusInvalidQueueProperties:       "CL_INVALID_QUEUE_PROPERTIES",
	StatusInvalidCommandQueue:          "CL_INVALID_COMMAND_QUEUE",
	StatusInvalidHostPtr:               "CL_INVALID_HOST_PTR",
	StatusInvalidMemObject:             "CL_INVALID_MEM_OBJECT",
	StatusInvalidImageFormatDescriptor: "CL_INVALID_IMAGE_FORMAT_DESCRIPTOR",
	StatusInvalidImageSize:             "CL_INVALID_IMAGE_SIZE",
	StatusInvalidSampler:               "CL_INVALID_SAMPLER",
	StatusInvalidBinary:                "CL_INVALID_BINARY",
	StatusInvalidBuildOptions:          "CL_INVALID_BUILD_OPTIONS",
	StatusInvalidProgram:               "CL_INVALID_PROGRAM",
	StatusInvalidProgramExecutable:     "CL_INVALID_PROGRAM_EXECUTABLE",
	StatusInvalidKernelName:            "CL_INVALID_KERNEL_NAME",
	StatusInvalidKernelDefinition:      "CL_INVALID_KERNEL_DEFINITION",
	StatusInvalidKernel:                "CL_INVALID_KERNEL",
	StatusInvalidArgIndex:              "CL_INVALID_ARG_INDEX",
	StatusInvalidArgValue:              "CL_INVALID_ARG_VALUE",
	StatusInvalidArgSize:               "CL_INVALID_ARG_SIZE",
	StatusInvalidKernelArgs:            "CL_INVALID_KERNEL_ARGS",
	StatusInvalidWorkDimension:         "CL_INVALID_WORK_DIMENSION",
	StatusInvalidWorkGroupSize:         "CL_INVALID_WORK_GROUP_SIZE",
	StatusInvalidWorkItemSize:          "CL_INVALID_WORK_ITEM_SIZE",
	StatusInvalidGlobalOffset:          "CL_INVALID_GLOBAL_OFFSET",
	StatusInvalidEventWaitList:         "CL_INVALID_EVENT_WAIT_LIST",
	StatusInvalidEvent:                 "CL_INVALID_EVENT",
	StatusInvalidOperation:             "CL_INVALID_OPERATION",
	StatusInvalidGLObject:              "CL_INVALID_GL_OBJECT",
	StatusInvalidBufferSize:            "CL_INVALID_BUFFER_SIZE",
	StatusInvalidMipLevel:              "CL_INVALID_MIP_LEVEL",
	StatusInvalidGlobalWorkSize:        "CL_INVALID_GLOBAL_WORK_SIZE",
	StatusInvalidProperty:              "CL_INVALID_PROPERTY",
	StatusInvalidImageDescriptor:       "CL_INVALID_IMAGE_DESCRIPTOR",
	StatusInvalidCompilerOptions:       "CL_INVALID_COMPILER_OPTIONS",
	StatusInvalidLinkerOptions:         "CL_INVALID_LINKER_OPTIONS",
	StatusInvalidDevicePartitionCount:  "CL_INVALID_DEVICE_PARTITION_COUNT",
	StatusInvalidPipeSize:              "CL_INVALID_PIPE_SIZE",
	StatusInvalidDeviceQueue:           "CL_INVALID_DEVICE_QUEUE",
	StatusInvalidSpecID:                "CL_INVALID_SPEC_ID",
	StatusMaxSizeRestrictionExceeded:   "CL_MAX_SIZE_RESTRICTION_EXCEEDED",

	StatusInvalidGLSharegroupReferenceKHR: "CL_INVALID_GL_SHAREGROUP_REFERENCE_KHR",
	StatusPlatformNotFoundKHR:             "CL_PLATFORM_NOT_FOUND_KHR",
	StatusInvalidD3D10DeviceKHR:           "CL_INVALID_D3D10_DEVICE_KHR",
	StatusInvalidD3D10ResourceKHR:         "CL_INVALID_D3D10_RESOURCE_KHR",
	StatusD3D10ResourceAlreadyAcquiredKHR: "CL_D3D10_RESOURCE_ALREADY_ACQUIRED_KHR",
	StatusD3D10ResourceNotAcquiredKHR:     "CL_D3D10_RESOURCE_NOT_ACQUIRED_KHR",
}

// ErrorString translates a numeric OpenCL status into its symbolic name.
// Codes outside the table, including values that do not fit a cl_int,
// yield UnknownStatus.
func ErrorString(code int) string {
	if code < math.MinInt32 || code > math.MaxInt32 {
		return UnknownStatus
	}
	if name, ok := statusNames[Status(code)]; ok {
		return name
	}
	return UnknownStatus
}

// KnownStatuses returns every status with a symbolic name, most negative last.
func KnownStatuses() []Status {
	out := make([]Status, 0, len(statusNames))
	for s := range statusNames {
		out = append(out, s)
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

func (s Status) String() string {
	return ErrorString(int(s))
}

// Error formats the status the way native failures are reported:
// hexadecimal code followed by the symbolic name.
func (s Status) Error() string {
	return fmt.Sprintf("OpenCL error: %x (%s)", uint32(s), s.String())
}
