package operations

// FailurePolicy decides what the Manager does after a failed Step
type FailurePolicy int

const (
	// HaltOnError stops at the first failure and skips the remaining steps
	HaltOnError FailurePolicy = iota
	// ContinueOnError runs every step and returns the joined failures
	ContinueOnError
)

// String returns the policy name used in logs
func (p FailurePolicy) String() string {
	if p == ContinueOnError {
		return "continue_on_error"
	}
	return "halt_on_error"
}

// Config represents the operation execution configuration
type Config struct {
	Policy FailurePolicy
}

// NewConfig returns the default operation configuration
func NewConfig() *Config {
	return &Config{Policy: HaltOnError}
}
