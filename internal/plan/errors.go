package plan

// ConfigError reports an invalid plan definition: an empty Chain or Parallel,
// or a missing/malformed wall-time field in a step's resources. It is always
// raised synchronously, at construction or estimation time, and is never
// retried.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string { return e.Reason }
