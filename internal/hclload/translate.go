package hclload

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/nodebuildgo/internal/macro"
	"github.com/vk/nodebuildgo/internal/rule"
	"github.com/zclconf/go-cty/cty"
)

// exprToGroups normalizes a srcs/outs attribute into grouped form. A tuple
// or list value is a flat declaration; an object or map value groups entries
// by name. Expressions must be literal; there is no evaluation context in
// build files.
func exprToGroups(name string, expr hcl.Expression) (rule.Groups, error) {
	if expr == nil {
		return rule.Groups{}, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return rule.Groups{}, fmt.Errorf("rule %q: srcs: %w", name, diags)
	}
	if val.IsNull() {
		return rule.Groups{}, nil
	}

	ty := val.Type()
	switch {
	case ty.IsTupleType() || ty.IsListType():
		entries, err := stringSlice(val)
		if err != nil {
			return rule.Groups{}, fmt.Errorf("rule %q: srcs: %w", name, err)
		}
		return rule.Flat(entries...), nil
	case ty.IsObjectType() || ty.IsMapType():
		byName := map[string][]string{}
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			entries, err := stringSlice(elem)
			if err != nil {
				return rule.Groups{}, fmt.Errorf("rule %q: srcs group %q: %w", name, key.AsString(), err)
			}
			byName[key.AsString()] = entries
		}
		return rule.Named(nil, byName), nil
	case ty == cty.String:
		return rule.Flat(val.AsString()), nil
	default:
		return rule.Groups{}, fmt.Errorf("rule %q: srcs must be a list or a group mapping, got %s", name, ty.FriendlyName())
	}
}

func stringSlice(val cty.Value) ([]string, error) {
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("expected a list of strings, got %s", val.Type().FriendlyName())
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return nil, fmt.Errorf("expected a string element, got %s", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

func toRefs(entries []string) []rule.Ref {
	if entries == nil {
		return nil
	}
	refs := make([]rule.Ref, len(entries))
	for i, e := range entries {
		refs[i] = rule.Ref(e)
	}
	return refs
}

// translate converts every decoded block of one file into descriptors, in a
// fixed per-type order so identical files yield identical graphs.
func (l *Loader) translate(root *fileRoot) ([]*rule.Descriptor, error) {
	var descs []*rule.Descriptor
	add := func(d *rule.Descriptor, err error) error {
		if err != nil {
			return err
		}
		descs = append(descs, d)
		return nil
	}
	addAll := func(ds []*rule.Descriptor, err error) error {
		if err != nil {
			return err
		}
		descs = append(descs, ds...)
		return nil
	}

	for _, b := range root.YarnLibraries {
		if err := add(macro.LibraryInstall(macro.LibraryInstallArgs{
			Name:        b.Name,
			Version:     b.Version,
			PackageName: b.PackageName,
			Out:         b.Out,
			Hashes:      b.Hashes,
			TestOnly:    b.TestOnly,
			Patches:     b.Patches,
			Visibility:  b.Visibility,
			Deps:        toRefs(b.Deps),
		})); err != nil {
			return nil, err
		}
	}
	for _, b := range root.YarnBundles {
		if err := addAll(macro.YarnBundle(macro.YarnBundleArgs{
			Name:       b.Name,
			Version:    b.Version,
			Out:        b.Out,
			Hashes:     b.Hashes,
			TestOnly:   b.TestOnly,
			Visibility: b.Visibility,
			Deps:       toRefs(b.Deps),
		})); err != nil {
			return nil, err
		}
	}
	for _, b := range root.JSLibraries {
		srcs, err := exprToGroups(b.Name, b.Srcs)
		if err != nil {
			return nil, err
		}
		if err := add(macro.CodeLibrary(macro.CodeLibraryArgs{
			Name:       b.Name,
			Srcs:       srcs,
			TestOnly:   b.TestOnly,
			Visibility: b.Visibility,
			Deps:       toRefs(b.Deps),
		})); err != nil {
			return nil, err
		}
	}
	for _, b := range root.WebpackTools {
		srcs, err := exprToGroups(b.Name, b.Srcs)
		if err != nil {
			return nil, err
		}
		if err := add(macro.BundlerSelfHost(macro.BundlerSelfHostArgs{
			Name:            b.Name,
			Main:            b.Main,
			Config:          b.Config,
			BuildConfig:     b.BuildConfig,
			BundlerLocation: b.BundlerLocation,
			Srcs:            srcs,
			Deps:            toRefs(b.Deps),
			Visibility:      b.Visibility,
		})); err != nil {
			return nil, err
		}
	}
	for _, b := range root.WebpackBundles {
		srcs, err := exprToGroups(b.Name, b.Srcs)
		if err != nil {
			return nil, err
		}
		if err := add(macro.VendorBundle(macro.VendorBundleArgs{
			Name:       b.Name,
			Srcs:       srcs,
			Out:        b.Out,
			Visibility: b.Visibility,
			Deps:       toRefs(b.Deps),
		})); err != nil {
			return nil, err
		}
	}
	for _, b := range root.JSBinaries {
		srcs, err := exprToGroups(b.Name, b.Srcs)
		if err != nil {
			return nil, err
		}
		if err := add(macro.CodeBinary(macro.CodeBinaryArgs{
			Name:       b.Name,
			Srcs:       srcs,
			Out:        b.Out,
			Bundles:    toRefs(b.Bundles),
			Visibility: b.Visibility,
			Deps:       toRefs(b.Deps),
		})); err != nil {
			return nil, err
		}
	}
	for _, b := range root.NpmBinaries {
		if err := addAll(macro.BinaryPackage(macro.BinaryPackageArgs{
			Name:       b.Name,
			Package:    rule.Ref(b.Package),
			Deps:       toRefs(b.Deps),
			Visibility: b.Visibility,
			Labels:     b.Labels,
		})); err != nil {
			return nil, err
		}
	}
	return descs, nil
}
