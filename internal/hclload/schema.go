package hclload

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all recognized top-level blocks from any build file.
type fileRoot struct {
	Tools          []*ToolsBlock    `hcl:"tools,block"`
	YarnLibraries  []*YarnLibrary   `hcl:"yarn_library,block"`
	YarnBundles    []*YarnBundle    `hcl:"yarn_bundle,block"`
	JSLibraries    []*JSLibrary     `hcl:"js_library,block"`
	WebpackTools   []*WebpackTool   `hcl:"webpack_tool,block"`
	WebpackBundles []*WebpackBundle `hcl:"webpack_bundle,block"`
	JSBinaries     []*JSBinary      `hcl:"js_binary,block"`
	NpmBinaries    []*NpmBinary     `hcl:"npm_binary,block"`
	Remain         hcl.Body         `hcl:",remain"`
}

// ToolsBlock overrides the process-wide default tool identities. At most one
// tools block may appear across all loaded files.
type ToolsBlock struct {
	Node     string `hcl:"node,optional"`
	NodePath string `hcl:"node_path,optional"`
	Webpack  string `hcl:"webpack,optional"`
	Jq       string `hcl:"jq,optional"`
}

// YarnLibrary declares a registry package install.
type YarnLibrary struct {
	Name        string   `hcl:"name,label"`
	Version     string   `hcl:"version"`
	PackageName string   `hcl:"package_name,optional"`
	Out         string   `hcl:"out,optional"`
	Hashes      []string `hcl:"hashes,optional"`
	TestOnly    bool     `hcl:"test_only,optional"`
	Patches     []string `hcl:"patches,optional"`
	Visibility  []string `hcl:"visibility,optional"`
	Deps        []string `hcl:"deps,optional"`
}

// YarnBundle declares an install plus a bundling step consuming it.
type YarnBundle struct {
	Name       string   `hcl:"name,label"`
	Version    string   `hcl:"version"`
	Out        string   `hcl:"out,optional"`
	Hashes     []string `hcl:"hashes,optional"`
	TestOnly   bool     `hcl:"test_only,optional"`
	Visibility []string `hcl:"visibility,optional"`
	Deps       []string `hcl:"deps,optional"`
}

// JSLibrary declares a library compiled per source file. The srcs attribute
// accepts either a flat list or a mapping from group name to list; the
// expression shape decides which.
type JSLibrary struct {
	Name       string         `hcl:"name,label"`
	Srcs       hcl.Expression `hcl:"srcs"`
	TestOnly   bool           `hcl:"test_only,optional"`
	Visibility []string       `hcl:"visibility,optional"`
	Deps       []string       `hcl:"deps,optional"`
}

// JSBinary declares a bundled executable, optionally linking vendor bundles.
type JSBinary struct {
	Name       string         `hcl:"name,label"`
	Srcs       hcl.Expression `hcl:"srcs"`
	Out        string         `hcl:"out,optional"`
	Bundles    []string       `hcl:"bundles,optional"`
	Visibility []string       `hcl:"visibility,optional"`
	Deps       []string       `hcl:"deps,optional"`
}

// WebpackBundle declares a vendor/DLL pre-link.
type WebpackBundle struct {
	Name       string         `hcl:"name,label"`
	Srcs       hcl.Expression `hcl:"srcs"`
	Out        string         `hcl:"out,optional"`
	Visibility []string       `hcl:"visibility,optional"`
	Deps       []string       `hcl:"deps,optional"`
}

// WebpackTool declares the self-hosted bundler tool rule.
type WebpackTool struct {
	Name            string         `hcl:"name,label"`
	Main            string         `hcl:"main"`
	Config          string         `hcl:"config"`
	BuildConfig     string         `hcl:"build_config,optional"`
	BundlerLocation string         `hcl:"bundler_location"`
	Srcs            hcl.Expression `hcl:"srcs,optional"`
	Deps            []string       `hcl:"deps,optional"`
	Visibility      []string       `hcl:"visibility,optional"`
}

// NpmBinary declares a runnable wrapper around an installed package.
type NpmBinary struct {
	Name       string   `hcl:"name,label"`
	Package    string   `hcl:"package"`
	Deps       []string `hcl:"deps,optional"`
	Visibility []string `hcl:"visibility,optional"`
	Labels     []string `hcl:"labels,optional"`
}
