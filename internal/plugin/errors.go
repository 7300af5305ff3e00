package plugin

import "fmt"

// NotFoundError reports that a plugin reference resolved to neither an
// existing file, a shared object under the plugin directory, nor a built-in.
type NotFoundError struct {
	Ref string
	Dir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("plugin %q not found (searched %s)", e.Ref, e.Dir)
}

// MissingParamError is returned by a plugin setup that cannot run without a
// parameter the operator did not supply.
type MissingParamError struct {
	Param string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// MissingParam builds the load-time signal for a required parameter.
func MissingParam(param string) error {
	return &MissingParamError{Param: param}
}

// FailError is a plugin-declared load failure.
type FailError struct {
	Message string
}

func (e *FailError) Error() string {
	return fmt.Sprintf("plugin failed to load: %s", e.Message)
}

// Failf builds the load-time signal for a plugin aborting its own load.
func Failf(format string, args ...any) error {
	return &FailError{Message: fmt.Sprintf(format, args...)}
}
