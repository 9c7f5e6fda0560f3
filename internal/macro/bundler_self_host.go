package macro

import (
	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/rule"
)

// BundlerSelfHostArgs are the declarative arguments of BundlerSelfHost.
type BundlerSelfHostArgs struct {
	Name            string
	Main            string // the bundler's own entry script
	Config          string // bundling configuration module
	BuildConfig     string // optional configuration for building the tool itself
	BundlerLocation string // module search path where the bundler is installed
	Srcs            rule.Groups
	Deps            []rule.Ref
	Visibility      []string
}

// BundlerSelfHost assembles the bundler tool rule itself: a script that
// points the runtime's module search path at the installed bundler, then
// runs the supplied entry with its configuration. The resulting rule is what
// other macros bind as the webpack tool.
func BundlerSelfHost(a BundlerSelfHostArgs) (*rule.Descriptor, error) {
	if a.Name == "" {
		return nil, &rule.ConfigurationError{Argument: "name", Reason: "empty rule name"}
	}
	for arg, val := range map[string]string{
		"main":             a.Main,
		"config":           a.Config,
		"bundler_location": a.BundlerLocation,
	} {
		if val == "" {
			return nil, &rule.ConfigurationError{Rule: a.Name, Argument: arg, Reason: "is required"}
		}
	}

	byName := a.Srcs.Map()
	if byName == nil {
		byName = map[string][]string{}
	}
	order := append(a.Srcs.Names(), "main", "config")
	byName["main"] = []string{a.Main}
	byName["config"] = []string{a.Config}
	if a.BuildConfig != "" {
		order = append(order, "build_config")
		byName["build_config"] = []string{a.BuildConfig}
	}

	cmd := command.New(
		`echo "process.env.NODE_PATH='`+a.BundlerLocation+`';" > $OUT`,
		`echo "require('module').Module._initPaths();" >> $OUT`,
		`echo "module.exports.configFile = '$SRCS_CONFIG';" >> $OUT`,
	)
	if a.BuildConfig != "" {
		cmd = cmd.Append(command.Raw(`echo "module.exports.buildConfigFile = '$SRCS_BUILD_CONFIG';" >> $OUT`))
	}
	cmd = cmd.Append(command.Raw("cat $SRCS_MAIN >> $OUT"))

	return rule.New(rule.Descriptor{
		Name:             a.Name,
		Sources:          rule.Named(order, byName),
		Outputs:          rule.Flat(a.Name + ".js"),
		Command:          cmd,
		Deps:             a.Deps,
		OutputIsComplete: true,
		Visibility:       a.Visibility,
	})
}
