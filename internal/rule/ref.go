package rule

import "strings"

// Ref is a reference to either another rule (":name", optionally narrowed to a
// named output group as ":name|group") or a plain file path / bare executable.
type Ref string

// MakeRef builds a rule reference from a rule identifier.
func MakeRef(name string) Ref {
	return Ref(":" + name)
}

// MakeGroupRef builds a rule reference narrowed to one of the rule's named
// output groups.
func MakeGroupRef(name, group string) Ref {
	if group == DefaultGroup {
		return MakeRef(name)
	}
	return Ref(":" + name + "|" + group)
}

// IsRule reports whether the reference addresses a rule rather than a plain
// file path or executable name.
func (r Ref) IsRule() bool {
	return strings.HasPrefix(string(r), ":")
}

// RuleName returns the identifier of the referenced rule, without the leading
// colon or any group selector. Empty for non-rule references.
func (r Ref) RuleName() string {
	if !r.IsRule() {
		return ""
	}
	name := strings.TrimPrefix(string(r), ":")
	if i := strings.IndexByte(name, '|'); i >= 0 {
		return name[:i]
	}
	return name
}

// Group returns the output-group selector of the reference, or DefaultGroup
// when the reference addresses the rule's default outputs.
func (r Ref) Group() string {
	if i := strings.IndexByte(string(r), '|'); i >= 0 {
		return string(r)[i+1:]
	}
	return DefaultGroup
}

func (r Ref) String() string { return string(r) }
