package ocl

import "os"

// ReadKernelFromFile returns the whole content of filename. A missing or
// unreadable file yields an empty string rather than an error; callers that
// need to reject empty code go through MakeProgramFromFile.
func ReadKernelFromFile(filename string) string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return ""
	}
	return string(data)
}
