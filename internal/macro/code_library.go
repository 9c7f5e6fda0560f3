package macro

import (
	"strings"

	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/rule"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

// CodeLibraryArgs are the declarative arguments of CodeLibrary.
type CodeLibraryArgs struct {
	Name       string
	Srcs       rule.Groups
	TestOnly   bool
	Visibility []string
	Deps       []rule.Ref
}

// CodeLibrary compiles each source module into its own linkable artifact via
// the bundler's library mode (one compressed JSON artifact per source file,
// selected by an environment flag). The rule provides the "js" capability so
// bundling consumers pick its artifacts without knowing the concrete type.
func CodeLibrary(a CodeLibraryArgs) (*rule.Descriptor, error) {
	if a.Name == "" {
		return nil, &rule.ConfigurationError{Argument: "name", Reason: "empty rule name"}
	}
	if a.Srcs.IsZero() {
		return nil, &rule.ConfigurationError{Rule: a.Name, Argument: "srcs", Reason: "at least one source is required"}
	}
	tools, err := toolcfg.Current()
	if err != nil {
		return nil, err
	}

	// One artifact per plain source file; rule references contribute their
	// own artifacts and produce nothing here.
	var artifacts []string
	for _, entry := range a.Srcs.All() {
		if rule.Ref(entry).IsRule() {
			continue
		}
		artifacts = append(artifacts, strings.TrimSuffix(entry, ".js")+".jsar")
	}
	if len(artifacts) == 0 {
		return nil, &rule.ConfigurationError{Rule: a.Name, Argument: "srcs", Reason: "no plain source files"}
	}

	base := "JS_LIBRARY=1 NODE_PATH=" + tools.NodePath + " $TOOLS_NODE $TOOLS_WEBPACK"
	for _, group := range a.Srcs.Names() {
		if group == rule.DefaultGroup {
			base += " --entries $SRCS"
		} else {
			base += " --entries $SRCS_" + strings.ToUpper(group)
		}
	}
	base += " --outputs $OUTS"

	self := rule.MakeRef(a.Name)
	return rule.New(rule.Descriptor{
		Name:             a.Name,
		Sources:          a.Srcs,
		Outputs:          rule.Flat(artifacts...),
		Tools:            map[string]rule.Ref{"node": tools.Node, "webpack": tools.Webpack},
		Command:          command.New(base),
		Deps:             a.Deps,
		Requires:         []string{CapabilityJS},
		Provides:         map[string]rule.Ref{CapabilityJS: self},
		OutputIsComplete: true,
		TestOnly:         a.TestOnly,
		Visibility:       a.Visibility,
	})
}
