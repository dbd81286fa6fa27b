package matcher

import "fmt"

// ConfigError reports a lint definition that cannot be used. It is fatal
// for the whole run: no file can be linted with a broken catalog.
type ConfigError struct {
	Lint   string // name of the offending lint
	Reason string // what is wrong with it
	Err    error  // underlying error, if any
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Lint, e.Reason, e.Err)
	}
	return e.Lint + ": " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

const (
	reasonMissingMessage = "failed to find `message` property"
	reasonEmptyMessage   = "`message` property has no value set"
	reasonCompile        = "failed to compile lint query"
)

func missingMessage(lint string) *ConfigError {
	return &ConfigError{Lint: lint, Reason: reasonMissingMessage}
}

func emptyMessage(lint string) *ConfigError {
	return &ConfigError{Lint: lint, Reason: reasonEmptyMessage}
}
