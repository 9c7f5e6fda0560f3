package macro

import (
	"fmt"

	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/rule"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

// Capability names negotiated between bundling rules.
const (
	// CapabilityJS is the bundled-code capability a consumer requires from
	// its library dependencies.
	CapabilityJS = "js"
	// CapabilityDLL and CapabilityManifest form the vendor-bundle pair: the
	// pre-linked artifact and the manifest describing its contents.
	CapabilityDLL      = "dll"
	CapabilityManifest = "manifest"
	// CapabilityYarn is the raw, unbundled package tree of a yarn install.
	CapabilityYarn = "yarn"
)

// bundleParams parameterize the one shared builder every bundling variant
// funnels into.
type bundleParams struct {
	name          string
	srcs          rule.Groups
	out           string
	artifactGroup string // rule.DefaultGroup, CapabilityJS or CapabilityDLL
	manifest      string // derived from out when the artifact group is named
	executable    bool
	vendors       []rule.Ref
	requires      []string // capabilities wanted from library sources/deps
	deps          []rule.Ref
	provides      map[string]rule.Ref
	testOnly      bool
	visibility    []string
}

// bundleRule builds one bundling descriptor. Vendor entries must be
// addressed rules, never bare source files; that is validated here, before
// any command is rendered.
func bundleRule(p bundleParams) (*rule.Descriptor, error) {
	if p.name == "" {
		return nil, &rule.ConfigurationError{Argument: "name", Reason: "empty rule name"}
	}
	for _, vendor := range p.vendors {
		if !vendor.IsRule() {
			return nil, &rule.ConfigurationError{
				Rule:     p.name,
				Argument: "bundles",
				Reason:   fmt.Sprintf("vendor bundle must be a rule reference, got %q", vendor),
			}
		}
	}
	tools, err := toolcfg.Current()
	if err != nil {
		return nil, err
	}

	srcs := p.srcs
	requires := copyStrings(p.requires)
	if len(p.vendors) > 0 {
		// The same vendor reference appears in both named source groups; the
		// group name selects which half of the dll/manifest pair each
		// occurrence resolves to.
		vendorRefs := make([]string, len(p.vendors))
		for i, v := range p.vendors {
			vendorRefs[i] = v.String()
		}
		byName := srcs.Map()
		if byName == nil {
			byName = map[string][]string{}
		}
		order := append(srcs.Names(), CapabilityDLL, CapabilityManifest)
		byName[CapabilityDLL] = vendorRefs
		byName[CapabilityManifest] = vendorRefs
		srcs = rule.Named(order, byName)
		requires = append(requires, CapabilityDLL, CapabilityManifest)
	}

	var outs rule.Groups
	base := "NODE_PATH=" + tools.NodePath + " $TOOLS_NODE $TOOLS_WEBPACK"
	switch p.artifactGroup {
	case rule.DefaultGroup:
		outs = rule.Flat(p.out)
		base += " --entry $SRCS --output $OUT"
	case CapabilityDLL:
		outs = rule.Named(
			[]string{CapabilityDLL, CapabilityManifest},
			map[string][]string{
				CapabilityDLL:      {p.out},
				CapabilityManifest: {p.manifest},
			})
		base += " --dll-entry $SRCS --output $OUTS_DLL --manifest $OUTS_MANIFEST"
	default:
		outs = rule.Named(
			[]string{p.artifactGroup, CapabilityManifest},
			map[string][]string{
				p.artifactGroup:    {p.out},
				CapabilityManifest: {p.manifest},
			})
		base += " --entry $SRCS --output $OUTS_JS --manifest $OUTS_MANIFEST"
	}
	if len(p.vendors) > 0 {
		base += " --dll $SRCS_DLL --dll-manifest $SRCS_MANIFEST"
	}

	cmd := command.New(base)
	if p.executable {
		cmd = cmd.Append(command.Shebang("node"))
	}

	return rule.New(rule.Descriptor{
		Name:     p.name,
		Sources:  srcs,
		Outputs:  outs,
		Tools:    map[string]rule.Ref{"node": tools.Node, "webpack": tools.Webpack},
		Command:  cmd,
		Deps:     p.deps,
		Requires: requires,
		Provides: p.provides,
		Binary:   p.executable,
		// A bundle's declared outputs are the entire result; consumers may
		// rely on that when globbing.
		OutputIsComplete: true,
		TestOnly:         p.testOnly,
		Visibility:       p.visibility,
	})
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// CodeBinaryArgs are the declarative arguments of CodeBinary.
type CodeBinaryArgs struct {
	Name       string
	Srcs       rule.Groups
	Out        string
	Bundles    []rule.Ref // vendor bundles linked against instead of re-included
	Visibility []string
	Deps       []rule.Ref
}

// CodeBinary bundles source modules (and optionally links pre-built vendor
// bundles) into a single executable script.
func CodeBinary(a CodeBinaryArgs) (*rule.Descriptor, error) {
	out := a.Out
	if out == "" {
		out = a.Name + ".js"
	}
	return bundleRule(bundleParams{
		name:          a.Name,
		srcs:          a.Srcs,
		out:           out,
		artifactGroup: rule.DefaultGroup,
		executable:    true,
		vendors:       a.Bundles,
		requires:      []string{CapabilityJS},
		deps:          a.Deps,
		visibility:    a.Visibility,
	})
}

// VendorBundleArgs are the declarative arguments of VendorBundle.
type VendorBundleArgs struct {
	Name       string
	Srcs       rule.Groups
	Out        string
	Visibility []string
	Deps       []rule.Ref
}

// VendorBundle pre-links shared dependencies into a DLL-style artifact plus
// the manifest downstream bundles link against instead of re-including the
// code. The manifest name is derived mechanically from the artifact name.
func VendorBundle(a VendorBundleArgs) (*rule.Descriptor, error) {
	out := a.Out
	if out == "" {
		out = a.Name + ".js"
	}
	return bundleRule(bundleParams{
		name:          a.Name,
		srcs:          a.Srcs,
		out:           out,
		artifactGroup: CapabilityDLL,
		manifest:      rule.ManifestName(out),
		requires:      []string{CapabilityJS},
		deps:          a.Deps,
		visibility:    a.Visibility,
	})
}
