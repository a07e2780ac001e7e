//go:build !gpu

package ocl

func newNativeDriver() (Driver, error) {
	return nil, ErrNotBuilt
}
