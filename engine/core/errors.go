package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidParameter is returned for bad shape dimensions or bad
	// configuration values. Nothing is allocated when it is returned.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrShader is returned when a shader stage fails to compile or a
	// program fails to link.
	ErrShader = errors.New("shader error")
	// ErrGpuResource is returned when the context refuses to allocate a
	// buffer, program or the context itself.
	ErrGpuResource = errors.New("gpu resource error")
	// ErrFrameState is returned when renderer frame calls arrive out of order.
	ErrFrameState = errors.New("invalid frame state")
)

// ShaderError carries the compiler or linker diagnostics of a failed build.
type ShaderError struct {
	Program string
	// Stage is "vertex", "fragment" or "link".
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("shader %q failed at %s: %s", e.Program, e.Stage, strings.TrimRight(e.Log, "\x00\n "))
}

func (e *ShaderError) Unwrap() error {
	return ErrShader
}

// InvalidParameter wraps ErrInvalidParameter with a formatted reason.
func InvalidParameter(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// GpuResource wraps ErrGpuResource with a formatted reason.
func GpuResource(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrGpuResource, fmt.Sprintf(format, args...))
}
