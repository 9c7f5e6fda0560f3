package macro

import (
	"fmt"

	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/rule"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

// BinaryPackageArgs are the declarative arguments of BinaryPackage.
type BinaryPackageArgs struct {
	Name       string
	Package    rule.Ref // the installed package rule to wrap
	Deps       []rule.Ref
	Visibility []string
	Labels     []string
}

// BinaryPackage packages an installed npm package as a runnable script. It
// builds two chained descriptors: an internal staging rule that copies the
// package plus every runtime dependency into a node_modules layout, and a
// public launcher rule emitting a small shell script that queries the staged
// package.json for the entry point at run time and execs it through the
// runtime tool.
func BinaryPackage(a BinaryPackageArgs) ([]*rule.Descriptor, error) {
	if a.Name == "" {
		return nil, &rule.ConfigurationError{Argument: "name", Reason: "empty rule name"}
	}
	if !a.Package.IsRule() {
		return nil, &rule.ConfigurationError{
			Rule:     a.Name,
			Argument: "package",
			Reason:   fmt.Sprintf("must be a rule reference, got %q", a.Package),
		}
	}
	tools, err := toolcfg.Current()
	if err != nil {
		return nil, err
	}

	stagedName, err := rule.InternalName(a.Name, "bundle")
	if err != nil {
		return nil, err
	}

	// Staging copies the package and, through the transitive dependency
	// closure, everything it needs at run time, under one node_modules tree.
	stage, err := rule.New(rule.Descriptor{
		Name:                a.Name,
		Tag:                 "bundle",
		Sources:             rule.Flat(a.Package.String()),
		Outputs:             rule.Flat("node_modules"),
		Command:             command.New("mkdir -p $OUT", "cp -r $SRCS $OUT/"),
		Deps:                a.Deps,
		NeedsTransitiveDeps: true,
	})
	if err != nil {
		return nil, err
	}

	// The launcher script resolves the entry point with the JSON query tool
	// when it runs, not when it builds; only the tool paths are baked in.
	pkgDir := a.Package.RuleName()
	cmd := command.New(
		`echo "main=\$($TOOLS_JQ -r '.bin // .main' $SRCS/`+pkgDir+`/package.json)" > $OUT`,
		`echo "exec $TOOLS_NODE $SRCS/`+pkgDir+`/\$main \"\$@\"" >> $OUT`,
	).Append(command.Shebang("sh"))

	launcher, err := rule.New(rule.Descriptor{
		Name:    a.Name,
		Sources: rule.Flat(string(rule.MakeRef(stagedName))),
		Outputs: rule.Flat(a.Name),
		Tools: map[string]rule.Ref{
			"node": tools.Node,
			"jq":   tools.Jq,
		},
		Command:    cmd,
		Binary:     true,
		Visibility: a.Visibility,
		Labels:     a.Labels,
	})
	if err != nil {
		return nil, err
	}

	return []*rule.Descriptor{stage, launcher}, nil
}
