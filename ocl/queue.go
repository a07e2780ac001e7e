package ocl

import "fmt"

// Queue is an in-order command queue on one device. Every method blocks
// until the device has finished the command.
type Queue struct {
	rt     *Runtime
	ctx    *Context
	device *Device
	id     Handle
}

// NewQueue creates a command queue for device.
func (c *Context) NewQueue(device *Device) (*Queue, error) {
	if c == nil || c.id == nil {
		return nil, &Error{Op: "NewQueue", Msg: "context is released", Err: ErrReleased}
	}
	if device == nil {
		return nil, &Error{Op: "NewQueue", Err: ErrNoDevice}
	}
	id, err := c.rt.driver.CreateQueue(c.id, device.id)
	if err != nil {
		return nil, err
	}
	return &Queue{rt: c.rt, ctx: c, device: device, id: id}, nil
}

// Write copies data into buf starting at byte offset 0.
func (q *Queue) Write(buf *Buffer, data []byte) error {
	if err := q.checkRange("Write", buf, len(data)); err != nil {
		return err
	}
	return q.rt.driver.EnqueueWriteBuffer(q.id, buf.id, 0, data)
}

// Read copies len(dst) bytes from the start of buf into dst.
func (q *Queue) Read(buf *Buffer, dst []byte) error {
	if err := q.checkRange("Read", buf, len(dst)); err != nil {
		return err
	}
	return q.rt.driver.EnqueueReadBuffer(q.id, buf.id, 0, dst)
}

// ReadInto copies the start of buf into values.
func ReadInto[T Scalar](q *Queue, buf *Buffer, values []T) error {
	return q.Read(buf, Bytes(values))
}

// Run launches kernel over a 1 to 3 dimensional range and waits for it to
// complete. A nil local size lets the runtime choose the work-group shape.
func (q *Queue) Run(kernel *Kernel, global []int, local []int) error {
	if q == nil || q.id == nil {
		return &Error{Op: "Run", Msg: "queue is released", Err: ErrReleased}
	}
	if kernel == nil || kernel.id == nil {
		return &Error{Op: "Run", Msg: "kernel is released", Err: ErrReleased}
	}
	if len(global) < 1 || len(global) > 3 {
		return &Error{Op: "Run", Status: StatusInvalidWorkDimension, Msg: fmt.Sprintf("work dimension %d not in 1..3", len(global))}
	}
	if local != nil && len(local) != len(global) {
		return &Error{Op: "Run", Status: StatusInvalidWorkDimension, Msg: fmt.Sprintf("local size has %d dimensions, global has %d", len(local), len(global))}
	}
	for i, g := range global {
		if g <= 0 {
			return &Error{Op: "Run", Status: StatusInvalidGlobalWorkSize, Msg: fmt.Sprintf("global size %d in dimension %d", g, i)}
		}
	}

	if err := q.rt.driver.EnqueueKernel(q.id, kernel.id, global, local); err != nil {
		return fmt.Errorf("kernel %s: %w", kernel.Name, err)
	}
	return q.Finish()
}

// Finish blocks until every queued command has completed.
func (q *Queue) Finish() error {
	return q.rt.driver.Finish(q.id)
}

func (q *Queue) checkRange(op string, buf *Buffer, n int) error {
	if q == nil || q.id == nil {
		return &Error{Op: op, Msg: "queue is released", Err: ErrReleased}
	}
	if buf == nil || buf.id == nil {
		return &Error{Op: op, Msg: "buffer is released", Err: ErrReleased}
	}
	if n > buf.Size {
		return &Error{Op: op, Status: StatusInvalidValue, Msg: fmt.Sprintf("%d bytes exceed buffer size %d", n, buf.Size)}
	}
	return nil
}

// Release frees the native queue. Calling it more than once is harmless.
func (q *Queue) Release() {
	if q == nil || q.id == nil {
		return
	}
	q.rt.driver.ReleaseQueue(q.id)
	q.id = nil
}
