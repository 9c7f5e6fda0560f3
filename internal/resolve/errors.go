package resolve

import "fmt"

// UnsatisfiedCapabilityError reports a required capability with no matching
// provides entry or output group on the dependency.
type UnsatisfiedCapabilityError struct {
	Consumer   string
	Producer   string // empty when no dependency of the consumer satisfies it
	Capability string
}

func (e *UnsatisfiedCapabilityError) Error() string {
	if e.Producer == "" {
		return fmt.Sprintf("rule '%s': no dependency satisfies required capability %q", e.Consumer, e.Capability)
	}
	return fmt.Sprintf("rule '%s': dependency '%s' does not satisfy required capability %q",
		e.Consumer, e.Producer, e.Capability)
}

// AmbiguousCapabilityError reports conflicting providers for the same
// capability reaching one consumer. No automatic disambiguation is attempted.
type AmbiguousCapabilityError struct {
	Consumer   string
	Capability string
	First      Selection
	Second     Selection
}

func (e *AmbiguousCapabilityError) Error() string {
	return fmt.Sprintf("rule '%s': capability %q is provided by both %s and %s",
		e.Consumer, e.Capability, e.First.Ref(), e.Second.Ref())
}
