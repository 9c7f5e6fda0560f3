package macro

import "github.com/vk/nodebuildgo/internal/rule"

// YarnBundleArgs are the declarative arguments of YarnBundle.
type YarnBundleArgs struct {
	Name       string
	Version    string
	Out        string
	Hashes     []string
	TestOnly   bool
	Visibility []string
	Deps       []rule.Ref
}

// YarnBundle composes a registry install with a bundling step consuming it,
// and exposes both forms through provides: the "yarn" capability resolves to
// the raw downloaded package tree, the "js" capability to the bundled
// artifact. Downstream consumers choose which form they need; the install
// rule never learns about either.
func YarnBundle(a YarnBundleArgs) ([]*rule.Descriptor, error) {
	install, err := libraryInstall(LibraryInstallArgs{
		Name:     a.Name,
		Version:  a.Version,
		Hashes:   a.Hashes,
		TestOnly: a.TestOnly,
	}, "yarn")
	if err != nil {
		return nil, err
	}

	out := a.Out
	if out == "" {
		out = a.Name + ".js"
	}
	bundle, err := bundleRule(bundleParams{
		name:          a.Name,
		srcs:          rule.Flat(install.Ref().String()),
		out:           out,
		artifactGroup: CapabilityJS,
		manifest:      rule.ManifestName(out),
		deps:          a.Deps,
		provides: map[string]rule.Ref{
			CapabilityYarn: install.Ref(),
			CapabilityJS:   rule.MakeGroupRef(a.Name, CapabilityJS),
		},
		testOnly:   a.TestOnly,
		visibility: a.Visibility,
	})
	if err != nil {
		return nil, err
	}

	return []*rule.Descriptor{install, bundle}, nil
}
