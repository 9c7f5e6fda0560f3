package macro

import (
	"path"

	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/rule"
)

// RegistryURL is the package registry the install command fetches from. The
// fetched tarball is named "<package>-<version>.tgz" and its root directory
// is literally "package".
const RegistryURL = "https://registry.yarnpkg.com"

// LibraryInstallArgs are the declarative arguments of LibraryInstall.
type LibraryInstallArgs struct {
	Name        string
	Version     string
	PackageName string // registry package name; defaults to Name
	Out         string // output directory name; defaults to Name
	Hashes      []string
	TestOnly    bool
	Patches     []string
	Visibility  []string
	Deps        []rule.Ref
}

// LibraryInstall builds a fetch+extract(+patch) descriptor for a registry
// package. The descriptor is labelled "registry:<package>@<version>" for
// provenance, and its outputs are marked incomplete (the extracted directory
// may contain more than the declared files) unless exact hashes are
// supplied.
func LibraryInstall(a LibraryInstallArgs) (*rule.Descriptor, error) {
	return libraryInstall(a, "")
}

// libraryInstall is the tagged form used by macros that embed an install
// step as an internal helper rule.
func libraryInstall(a LibraryInstallArgs, tag string) (*rule.Descriptor, error) {
	if a.Name == "" {
		return nil, &rule.ConfigurationError{Argument: "name", Reason: "empty rule name"}
	}
	if a.Version == "" {
		return nil, &rule.ConfigurationError{Rule: a.Name, Argument: "version", Reason: "version is required"}
	}
	pkg := a.PackageName
	if pkg == "" {
		pkg = a.Name
	}
	out := a.Out
	if out == "" {
		out = a.Name
	}

	tarball := path.Base(pkg) + "-" + a.Version + ".tgz"
	url := RegistryURL + "/" + pkg + "/-/" + tarball

	cmd := command.New(
		"curl -fsSL "+url+" -o "+tarball,
		"tar -xzf "+tarball,
		"rm "+tarball,
		"mv package $OUT",
	)

	var srcs rule.Groups
	if len(a.Patches) > 0 {
		srcs = rule.Named([]string{"patches"}, map[string][]string{"patches": a.Patches})
		cmd = cmd.Append(command.PatchLoop("patches"))
	}

	return rule.New(rule.Descriptor{
		Name:             a.Name,
		Tag:              tag,
		Sources:          srcs,
		Outputs:          rule.Flat(out),
		Command:          cmd,
		Deps:             a.Deps,
		TestOnly:         a.TestOnly,
		OutputIsComplete: len(a.Hashes) > 0,
		Visibility:       a.Visibility,
		Hashes:           a.Hashes,
		Labels:           []string{"registry:" + pkg + "@" + a.Version},
	})
}
