package ocl

import (
	"fmt"
	"strings"
)

// DeviceType describes the class of an OpenCL device.
type DeviceType string

const (
	DeviceTypeGPU         DeviceType = "GPU"
	DeviceTypeCPU         DeviceType = "CPU"
	DeviceTypeAccelerator DeviceType = "Accelerator"
	DeviceTypeDefault     DeviceType = "Default"
	DeviceTypeAll         DeviceType = "All"
	DeviceTypeUnknown     DeviceType = "Unknown"
)

// ParseDeviceType maps arbitrary user input to a canonical device type.
// An empty name selects DeviceTypeDefault.
func ParseDeviceType(name string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DeviceTypeDefault, nil
	case "gpu", "cl", "opencl":
		return DeviceTypeGPU, nil
	case "cpu":
		return DeviceTypeCPU, nil
	case "accel", "accelerator":
		return DeviceTypeAccelerator, nil
	case "all", "any":
		return DeviceTypeAll, nil
	default:
		return DeviceTypeUnknown, fmt.Errorf("%w: %q", ErrUnknownDeviceType, name)
	}
}

// DeviceInfo captures metadata about an OpenCL device.
type DeviceInfo struct {
	Name             string     `json:"name"`
	Vendor           string     `json:"vendor"`
	Version          string     `json:"version"`
	DriverVersion    string     `json:"driverVersion"`
	Type             DeviceType `json:"type"`
	MaxComputeUnits  uint32     `json:"maxComputeUnits"`
	MaxWorkGroupSize uint64     `json:"maxWorkGroupSize"`
	GlobalMemSize    uint64     `json:"globalMemSize"`
	LocalMemSize     uint64     `json:"localMemSize"`
	Available        bool       `json:"available"`
}

// PlatformInfo captures metadata about an OpenCL platform.
type PlatformInfo struct {
	Name       string `json:"name"`
	Vendor     string `json:"vendor"`
	Version    string `json:"version"`
	Profile    string `json:"profile"`
	Extensions string `json:"extensions,omitempty"`
}

// MemFlags mirrors cl_mem_flags for buffer creation.
type MemFlags uint64

const (
	MemReadWrite MemFlags = 1 << 0
	MemWriteOnly MemFlags = 1 << 1
	MemReadOnly  MemFlags = 1 << 2
)

// Handle is an opaque reference to an object owned by the native runtime.
// Only the Driver that produced a handle knows how to interpret it.
type Handle any
