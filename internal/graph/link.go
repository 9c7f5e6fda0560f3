package graph

import (
	"context"
	"fmt"

	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/rule"
)

// Link performs the second pass: every rule reference on a descriptor
// (declared deps, exported deps, rule-valued tools, rule-valued sources and
// provides targets) becomes a dependency edge. A reference to an unknown
// rule is an error.
func (g *Graph) Link(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting rule linking pass.")

	for _, id := range g.IDs() {
		node, _ := g.Lookup(id)
		for _, ref := range ruleRefs(node.Desc) {
			if err := g.linkRef(ctx, node, ref); err != nil {
				return err
			}
		}
	}
	logger.Debug("Finished rule linking pass.")
	return nil
}

func (g *Graph) linkRef(ctx context.Context, node *Node, ref rule.Ref) error {
	logger := ctxlog.FromContext(ctx)
	depID := ref.RuleName()
	if depID == node.ID {
		// A provides entry may point back at the rule itself; that is an
		// identity, not an edge.
		return nil
	}
	dep, found := g.Lookup(depID)
	if !found {
		return fmt.Errorf("rule '%s' references non-existent rule '%s'", node.ID, depID)
	}
	if _, exists := node.Deps[depID]; !exists {
		logger.Debug("Linking dependency.", "from", node.ID, "to", depID)
		if err := g.addEdge(dep, node); err != nil {
			return err
		}
	}
	return nil
}

// ruleRefs collects every rule reference a descriptor declares, in
// declaration order.
func ruleRefs(d *rule.Descriptor) []rule.Ref {
	var refs []rule.Ref
	add := func(r rule.Ref) {
		if r.IsRule() {
			refs = append(refs, r)
		}
	}
	for _, r := range d.Deps {
		add(r)
	}
	for _, r := range d.ExportedDeps {
		add(r)
	}
	for _, entry := range d.Sources.All() {
		add(rule.Ref(entry))
	}
	for _, alias := range d.ToolAliases() {
		add(d.Tools[alias])
	}
	for _, capability := range sortedCapabilities(d.Provides) {
		add(d.Provides[capability])
	}
	return refs
}

func sortedCapabilities(provides map[string]rule.Ref) []string {
	caps := make([]string, 0, len(provides))
	for c := range provides {
		caps = append(caps, c)
	}
	sortStrings(caps)
	return caps
}
