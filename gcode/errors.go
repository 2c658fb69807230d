package gcode

// ConfigError is returned when a program asks for something the target
// controller must never receive. It always aborts the run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Reason }

// NewConfigError returns a ConfigError with the given reason.
func NewConfigError(reason string) error { return &ConfigError{Reason: reason} }
