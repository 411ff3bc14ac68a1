package domain

import "fmt"

// ConfigurationError reports a weekly template without an entry for a weekday.
type ConfigurationError struct {
	Weekday Weekday
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("availability template has no entry for %q", e.Weekday)
}
