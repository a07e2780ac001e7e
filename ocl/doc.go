// Package ocl is a thin convenience layer over the OpenCL compute API.
//
// It enumerates platforms and devices, loads kernel source from files,
// builds programs with the compiler log attached to failures, sets kernel
// arguments from ordinary Go values and translates numeric status codes into
// their symbolic names. All real work is delegated to the native runtime.
//
// The native binding is compiled only with the gpu build tag:
//
//	go build -tags gpu
//
// Without it, NewNative and the package-level helpers return ErrNotBuilt,
// while ErrorString and ReadKernelFromFile keep working.
//
// Typical use:
//
//	c, err := ocl.CompileFileWithDefaults("vadd.cl")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Release()
//
//	k, err := c.Program.CreateKernel("vadd")
//	...
//	err = ocl.SetArgs(k, bufA, bufB, bufC, uint32(n))
//
// The Compiled value returned by the CompileFile* helpers owns its context
// and program; it must outlive every kernel and buffer derived from it.
package ocl
