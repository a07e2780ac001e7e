package ocl

// Context groups devices that share programs and buffers.
type Context struct {
	rt      *Runtime
	id      Handle
	devices []*Device
}

// NewContext creates a context over the given devices.
func (rt *Runtime) NewContext(devices ...*Device) (*Context, error) {
	if len(devices) == 0 {
		return nil, &Error{Op: "NewContext", Err: ErrNoDevice}
	}

	ids := make([]Handle, len(devices))
	for i, d := range devices {
		ids[i] = d.id
	}

	id, err := rt.driver.CreateContext(ids)
	if err != nil {
		return nil, err
	}
	rt.logger.Debug("OpenCL context created", "device", devices[0].Info.Name, "devices", len(devices))

	return &Context{rt: rt, id: id, devices: devices}, nil
}

// Devices returns the devices the context was created with.
func (c *Context) Devices() []*Device {
	return c.devices
}

// Release frees the native context. Calling it more than once is harmless.
func (c *Context) Release() {
	if c == nil || c.id == nil {
		return
	}
	c.rt.driver.ReleaseContext(c.id)
	c.id = nil
}
