package rule

import (
	"regexp"

	"github.com/vk/nodebuildgo/internal/command"
)

// Descriptor is the declaration of a single buildable node. It is constructed
// once via New and treated as immutable afterwards; New copies every
// caller-supplied container so later mutation by the caller cannot leak in.
type Descriptor struct {
	// Name identifies the rule within its namespace. Tag is non-empty for
	// internal helper rules spawned by a macro; the pair forms the node
	// identity (see ID).
	Name string
	Tag  string

	// Sources and Outputs are grouped; a flat declaration is normalized into
	// the default group before it reaches here. Source entries may be rule
	// references, output entries are file names.
	Sources Groups
	Outputs Groups

	// Tools maps a tool alias to an external tool rule or a bare executable.
	// Aliases become $TOOLS_<ALIAS> substitution variables in the command.
	Tools map[string]Ref

	// Command is the ordered fragment list rendered into the shell command.
	Command command.Command

	Deps         []Ref
	ExportedDeps []Ref

	// Requires lists the capability names this rule needs from its
	// dependencies; Provides maps a capability name to the reference that
	// satisfies it, letting one physical rule fill several logical roles.
	Requires []string
	Provides map[string]Ref

	TestOnly            bool
	Binary              bool
	OutputIsComplete    bool
	NeedsTransitiveDeps bool

	Visibility []string
	Hashes     []string
	Labels     []string
}

var toolAliasRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// New validates the declaration and returns an immutable Descriptor.
func New(d Descriptor) (*Descriptor, error) {
	if d.Name == "" {
		return nil, &ConfigurationError{Rule: d.Name, Argument: "name", Reason: "empty rule name"}
	}
	if d.Tag != "" {
		if _, err := InternalName(d.Name, d.Tag); err != nil {
			return nil, err
		}
	}
	if err := checkDisjointGroups(d.Name, "srcs", d.Sources); err != nil {
		return nil, err
	}
	if err := checkDisjointGroups(d.Name, "outs", d.Outputs); err != nil {
		return nil, err
	}
	for alias := range d.Tools {
		if !toolAliasRE.MatchString(alias) {
			return nil, &ConfigurationError{Rule: d.Name, Argument: "tools", Reason: "invalid tool alias " + alias}
		}
	}
	if d.Binary && len(d.Outputs.Default()) != 1 {
		return nil, &ConfigurationError{
			Rule:     d.Name,
			Argument: "outs",
			Reason:   "a binary rule must declare exactly one primary output",
		}
	}

	d.Tools = copyRefMap(d.Tools)
	d.Provides = copyRefMap(d.Provides)
	d.Deps = copyRefs(d.Deps)
	d.ExportedDeps = copyRefs(d.ExportedDeps)
	d.Requires = copyStrings(d.Requires)
	d.Visibility = copyStrings(d.Visibility)
	d.Hashes = copyStrings(d.Hashes)
	d.Labels = copyStrings(d.Labels)
	return &d, nil
}

// ID returns the node identity: the plain name for public rules, or the
// derived "_<name>#<role>" form for internal helpers.
func (d *Descriptor) ID() string {
	if d.Tag == "" {
		return d.Name
	}
	return internalPrefix + d.Name + roleSeparator + d.Tag
}

// Ref returns a rule reference addressing this descriptor's default outputs.
func (d *Descriptor) Ref() Ref { return MakeRef(d.ID()) }

// ToolAliases returns the declared tool aliases in sorted order.
func (d *Descriptor) ToolAliases() []string {
	return sortedKeys(d.Tools)
}

// Scope describes the descriptor to the command renderer.
func (d *Descriptor) Scope() command.Scope {
	return command.Scope{
		Rule:         d.ID(),
		Tools:        d.ToolAliases(),
		SourceGroups: d.Sources.Names(),
		OutputGroups: d.Outputs.Names(),
	}
}

func checkDisjointGroups(name, arg string, g Groups) error {
	seen := make(map[string]struct{}, len(g.order))
	for _, group := range g.order {
		if _, dup := seen[group]; dup {
			return &ConfigurationError{Rule: name, Argument: arg, Reason: "group " + groupLabel(group) + " declared twice"}
		}
		if _, ok := g.byName[group]; !ok {
			return &ConfigurationError{Rule: name, Argument: arg, Reason: "group " + groupLabel(group) + " has no entries"}
		}
		seen[group] = struct{}{}
	}
	return nil
}

func groupLabel(group string) string {
	if group == DefaultGroup {
		return `"" (default)`
	}
	return `"` + group + `"`
}
