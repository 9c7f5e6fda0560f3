// Package hclload parses HCL build files into Rule Descriptors by invoking
// the composition macros, and assembles them into an unlinked graph. It is
// the declarative front of the macro API; embedding Go code may call the
// macros directly instead.
package hclload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/graph"
	"github.com/vk/nodebuildgo/internal/rule"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

// Loader is the HCL build-file loader.
type Loader struct{}

// NewLoader creates a new build-file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire build-file loading process: discover files,
// decode blocks, initialize the tool configuration, run the macros and
// collect their descriptors into a graph. The returned graph is not yet
// linked; callers run Link/Validate/DetectCycles before resolving.
func (l *Loader) Load(ctx context.Context, paths ...string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build-file loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered build files.", "count", len(files))

	parser := hclparse.NewParser()
	var roots []*fileRoot
	var tools []*ToolsBlock
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse build file %s: %w", file, diags)
		}
		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode build file %s: %w", file, diags)
		}
		tools = append(tools, root.Tools...)
		roots = append(roots, &root)
	}

	if err := l.initTools(tools); err != nil {
		return nil, err
	}

	g := graph.New()
	for _, root := range roots {
		descs, err := l.translate(root)
		if err != nil {
			return nil, err
		}
		if err := g.AddAll(descs...); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build-file loading complete.", "rule_count", g.Len())
	return g, nil
}

// initTools applies the (at most one) tools block, or the defaults when no
// build file declares one. An explicit tools block colliding with an already
// initialized configuration is an error; silently defaulting twice is not.
func (l *Loader) initTools(blocks []*ToolsBlock) error {
	if len(blocks) > 1 {
		return errors.New("at most one tools block may be declared across all build files")
	}
	if len(blocks) == 0 {
		if err := toolcfg.Init(toolcfg.Defaults()); err != nil && !errors.Is(err, toolcfg.ErrAlreadyInitialized) {
			return err
		}
		return nil
	}
	b := blocks[0]
	return toolcfg.Init(toolcfg.Tools{
		Node:     rule.Ref(b.Node),
		NodePath: b.NodePath,
		Webpack:  rule.Ref(b.Webpack),
		Jq:       rule.Ref(b.Jq),
	})
}

// findAllHCLFiles walks all given paths and returns a flat, sorted list of
// the .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
