package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/rule"
)

// Public is the visibility entry that opens a rule to every consumer.
const Public = "PUBLIC"

// Validate performs the post-link integrity checks: every dependency edge
// must be visible to its consumer, and test-only rules may only be consumed
// by other test-only rules.
func (g *Graph) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, id := range g.IDs() {
		node, _ := g.Lookup(id)
		depIDs := make([]string, 0, len(node.Deps))
		for depID := range node.Deps {
			depIDs = append(depIDs, depID)
		}
		sort.Strings(depIDs)
		for _, depID := range depIDs {
			dep := node.Deps[depID]
			if !canSee(node.Desc, dep.Desc) {
				return fmt.Errorf("rule '%s' is not visible to '%s'", dep.ID, node.ID)
			}
			if dep.Desc.TestOnly && !node.Desc.TestOnly {
				return fmt.Errorf("rule '%s' cannot depend on '%s', it is marked test_only", node.ID, dep.ID)
			}
		}
	}
	logger.Debug("Graph validation passed.", "node_count", g.Len())
	return nil
}

// canSee reports whether consumer may depend on dep. An empty visibility
// list means public; helper rules are always visible to rules sharing their
// base name.
func canSee(consumer, dep *rule.Descriptor) bool {
	if len(dep.Visibility) == 0 {
		return true
	}
	if consumer.Name == dep.Name {
		return true
	}
	for _, vis := range dep.Visibility {
		if vis == Public || vis == consumer.ID() || vis == consumer.Name {
			return true
		}
	}
	return false
}

func sortStrings(s []string) { sort.Strings(s) }
