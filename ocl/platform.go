package ocl

import (
	"errors"
	"fmt"
	"strings"
)

// Platform is a vendor's OpenCL installation exposing one or more devices.
type Platform struct {
	rt   *Runtime
	id   Handle
	Info PlatformInfo
}

// Device is a compute unit capable of executing compiled kernels.
type Device struct {
	id       Handle
	Platform *Platform
	Info     DeviceInfo
}

// Platforms returns all platforms known to the runtime, in driver order.
func (rt *Runtime) Platforms() ([]*Platform, error) {
	ids, err := rt.driver.PlatformIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &Error{Op: "Platforms", Err: ErrNoPlatform}
	}

	platforms := make([]*Platform, 0, len(ids))
	for _, id := range ids {
		info, err := rt.driver.PlatformInfo(id)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, &Platform{rt: rt, id: id, Info: info})
	}
	return platforms, nil
}

// DefaultPlatform returns the first platform.
func (rt *Runtime) DefaultPlatform() (*Platform, error) {
	platforms, err := rt.Platforms()
	if err != nil {
		return nil, err
	}
	return platforms[0], nil
}

// PlatformMatching returns the first platform whose name contains s.
func (rt *Runtime) PlatformMatching(s string) (*Platform, error) {
	platforms, err := rt.Platforms()
	if err != nil {
		return nil, err
	}
	for _, p := range platforms {
		if strings.Contains(p.Info.Name, s) {
			return p, nil
		}
	}
	return nil, &Error{
		Op:  "PlatformMatching",
		Msg: fmt.Sprintf("%v: %q", ErrNoPlatformMatch, s),
		Err: ErrNoPlatformMatch,
	}
}

// Devices returns the devices of the given type on p. An empty result is not
// an error.
func (rt *Runtime) Devices(p *Platform, typ DeviceType) ([]*Device, error) {
	ids, err := rt.driver.DeviceIDs(p.id, typ)
	if err != nil {
		return nil, err
	}

	devices := make([]*Device, 0, len(ids))
	for _, id := range ids {
		info, err := rt.driver.DeviceInfo(id)
		if err != nil {
			return nil, err
		}
		devices = append(devices, &Device{id: id, Platform: p, Info: info})
	}
	return devices, nil
}

// GPUs returns the GPU devices of p.
func (rt *Runtime) GPUs(p *Platform) ([]*Device, error) {
	return rt.Devices(p, DeviceTypeGPU)
}

// CPUs returns the CPU devices of p.
func (rt *Runtime) CPUs(p *Platform) ([]*Device, error) {
	return rt.Devices(p, DeviceTypeCPU)
}

// DefaultGPU returns the first GPU of p.
func (rt *Runtime) DefaultGPU(p *Platform) (*Device, error) {
	return rt.firstDevice(p, DeviceTypeGPU, ErrNoGPU)
}

// DefaultCPU returns the first CPU of p.
func (rt *Runtime) DefaultCPU(p *Platform) (*Device, error) {
	return rt.firstDevice(p, DeviceTypeCPU, ErrNoCPU)
}

// DefaultDevice returns the first GPU of p, falling back to the first CPU
// and then to whatever device the platform exposes.
func (rt *Runtime) DefaultDevice(p *Platform) (*Device, error) {
	for _, typ := range []DeviceType{DeviceTypeGPU, DeviceTypeCPU, DeviceTypeAll} {
		devices, err := rt.Devices(p, typ)
		if err != nil {
			return nil, err
		}
		if len(devices) > 0 {
			return devices[0], nil
		}
	}
	return nil, &Error{Op: "DefaultDevice", Msg: fmt.Sprintf("%v on %q", ErrNoDevice, p.Info.Name), Err: ErrNoDevice}
}

func (rt *Runtime) firstDevice(p *Platform, typ DeviceType, missing error) (*Device, error) {
	devices, err := rt.Devices(p, typ)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, &Error{Op: "Default" + string(typ), Msg: fmt.Sprintf("%v on %q", missing, p.Info.Name), Err: missing}
	}
	return devices[0], nil
}

// PlatformSummary pairs a platform with the devices it exposes.
type PlatformSummary struct {
	PlatformInfo
	Devices []DeviceInfo `json:"devices"`
}

// Inventory enumerates every platform together with all of its devices.
// Platforms without devices are listed with an empty device slice.
func (rt *Runtime) Inventory() ([]PlatformSummary, error) {
	platforms, err := rt.Platforms()
	if err != nil {
		return nil, err
	}

	out := make([]PlatformSummary, len(platforms))
	for i, p := range platforms {
		devices, err := rt.Devices(p, DeviceTypeAll)
		if err != nil && !errors.Is(err, StatusDeviceNotFound) {
			return nil, err
		}
		infos := make([]DeviceInfo, len(devices))
		for j, d := range devices {
			infos[j] = d.Info
		}
		out[i] = PlatformSummary{PlatformInfo: p.Info, Devices: infos}
	}
	return out, nil
}
