package ocl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		in      string
		want    DeviceType
		wantErr bool
	}{
		{"", DeviceTypeDefault, false},
		{"default", DeviceTypeDefault, false},
		{" GPU ", DeviceTypeGPU, false},
		{"opencl", DeviceTypeGPU, false},
		{"cpu", DeviceTypeCPU, false},
		{"Accel", DeviceTypeAccelerator, false},
		{"any", DeviceTypeAll, false},
		{"all", DeviceTypeAll, false},
		{"fpga", DeviceTypeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeviceType(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownDeviceType), "err = %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
