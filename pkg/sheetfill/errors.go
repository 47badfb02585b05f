package sheetfill

import (
	"errors"
	"fmt"
)

// ErrMissingIdentifierColumn indicates the identifier column is not in the header row.
var ErrMissingIdentifierColumn = errors.New("identifier column not found")

// ConfigError represents a configuration problem that aborts a run before
// any row is processed.
type ConfigError struct {
	Setting string // "identifier_column", "variant", "rules"
	Value   string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s %q: %v", e.Setting, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(setting, value string, err error) *ConfigError {
	return &ConfigError{
		Setting: setting,
		Value:   value,
		Err:     err,
	}
}
