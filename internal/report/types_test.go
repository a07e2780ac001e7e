package report

import (
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/oclhelpers/ocl"
)

func TestValidate(t *testing.T) {
	valid := func() *Report {
		r := New("k.cl", "src", "")
		r.Success = true
		return r
	}

	tests := []struct {
		name    string
		mutate  func(r *Report)
		wantErr bool
		field   string
	}{
		{name: "valid", mutate: func(r *Report) {}},
		{name: "empty id", mutate: func(r *Report) { r.ID = "" }, wantErr: true, field: "ID"},
		{name: "id not uuid", mutate: func(r *Report) { r.ID = "../etc" }, wantErr: true, field: "ID"},
		{name: "empty source", mutate: func(r *Report) { r.Source = "" }, wantErr: true, field: "Source"},
		{name: "zero timestamp", mutate: func(r *Report) { r.Timestamp = time.Time{} }, wantErr: true, field: "Timestamp"},
		{name: "negative duration", mutate: func(r *Report) { r.Duration = -time.Second }, wantErr: true, field: "Duration"},
		{name: "failure without error", mutate: func(r *Report) { r.Success = false }, wantErr: true, field: "Error"},
		{name: "failure with error", mutate: func(r *Report) {
			r.Success = false
			r.Error = "boom"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			err := r.Validate()

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestFailedWithPlainError(t *testing.T) {
	r := New("k.cl", "", "")
	r.Failed(ocl.ErrNoGPU, time.Millisecond)

	if r.Error != "no gpu found" {
		t.Errorf("Error = %q", r.Error)
	}
	if r.Log != "" || r.Status != "" {
		t.Errorf("Expected no log or status, got %q %q", r.Log, r.Status)
	}
}

func TestFailedWithStatus(t *testing.T) {
	r := New("k.cl", "", "")
	r.Failed(ocl.StatusError("clCreateContext", ocl.StatusOutOfHostMemory), time.Millisecond)

	if r.Status != "CL_OUT_OF_HOST_MEMORY" {
		t.Errorf("Status = %q", r.Status)
	}
}

func TestToInfo(t *testing.T) {
	r := New("k.cl", "src", "")
	r.Device = "gfx1030"
	r.Success = true

	info := r.ToInfo()
	if info.ID != r.ID || info.Source != "k.cl" || info.Device != "gfx1030" || !info.Success || !info.Timestamp.Equal(r.Timestamp) {
		t.Errorf("ToInfo mismatch: %+v", info)
	}
}
