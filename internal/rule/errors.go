package rule

import "fmt"

// ConfigurationError reports a malformed declarative argument, such as a
// vendor-bundle entry that is a bare path instead of a rule reference. It is
// raised synchronously at construction time, before any command is rendered.
type ConfigurationError struct {
	Rule     string // rule being declared
	Argument string // offending argument name
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Argument == "" {
		return fmt.Sprintf("rule %q: %s", e.Rule, e.Reason)
	}
	return fmt.Sprintf("rule %q: argument %q: %s", e.Rule, e.Argument, e.Reason)
}
