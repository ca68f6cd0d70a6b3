package identifier

import (
	"errors"
	"fmt"
)

var errNoCapture = errors.New("pattern has no capture group")

// RuleError reports an identifier rule that failed to compile.
type RuleError struct {
	Name string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("identifier rule %q: %v", e.Name, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
