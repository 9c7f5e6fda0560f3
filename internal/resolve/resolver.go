// Package resolve matches a consumer's declared requires capabilities against
// its dependencies' provides maps and output groups, turning symbolic
// capability names into concrete output-group selections, and assembles the
// resolved plan handed to the external build engine.
package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/graph"
	"github.com/vk/nodebuildgo/internal/rule"
)

// Selection is the concrete result of resolving one capability: a rule
// identity plus one of its output groups.
type Selection struct {
	Rule  string
	Group string
}

// Ref returns the selection as a narrowed rule reference (":rule|group").
func (s Selection) Ref() rule.Ref { return rule.MakeGroupRef(s.Rule, s.Group) }

// Resolver resolves capabilities over a linked graph.
type Resolver struct {
	g *graph.Graph
}

// New creates a resolver for the given graph. The graph must already be
// linked.
func New(g *graph.Graph) *Resolver {
	return &Resolver{g: g}
}

// ResolveEdge translates one required capability on one dependency edge into
// a concrete output-group selection. The fallback order is fixed: the
// producer's provides map first, then the capability name as an output-group
// name, then failure.
func (r *Resolver) ResolveEdge(ctx context.Context, consumerID, producerID, capability string) (Selection, error) {
	producer, ok := r.g.Lookup(producerID)
	if !ok {
		return Selection{}, fmt.Errorf("rule '%s' references non-existent rule '%s'", consumerID, producerID)
	}
	sel, satisfied, err := r.resolveOn(producer, capability)
	if err != nil {
		return Selection{}, err
	}
	if !satisfied {
		return Selection{}, &UnsatisfiedCapabilityError{
			Consumer:   consumerID,
			Producer:   producerID,
			Capability: capability,
		}
	}
	return sel, nil
}

// Resolve translates every required capability of a consumer, checking the
// consumer's direct dependencies plus the transitive exported-deps closure.
// A capability no dependency serves is inert (the consumer falls back to
// default outputs on each edge, as rewriteSources does); asking a *specific*
// edge for a capability it cannot serve is the hard failure, see ResolveEdge.
// Two distinct providers for one capability is an error, never a silent pick.
func (r *Resolver) Resolve(ctx context.Context, consumerID string) (map[string]Selection, error) {
	logger := ctxlog.FromContext(ctx)
	consumer, ok := r.g.Lookup(consumerID)
	if !ok {
		return nil, fmt.Errorf("unknown rule '%s'", consumerID)
	}
	if len(consumer.Desc.Requires) == 0 {
		return nil, nil
	}

	producers, err := r.producerClosure(consumer)
	if err != nil {
		return nil, err
	}

	selections := make(map[string]Selection, len(consumer.Desc.Requires))
	for _, capability := range consumer.Desc.Requires {
		// Conflict detection applies to the provides maps only: two rules
		// merely exposing an identically named output group (two vendor
		// bundles, say) stay distinct per edge and are not a diamond.
		var provided, grouped []Selection
		for _, producer := range producers {
			sel, satisfied, err := r.resolveOn(producer, capability)
			if err != nil {
				return nil, err
			}
			if !satisfied {
				continue
			}
			if _, viaProvides := producer.Desc.Provides[capability]; viaProvides {
				if !containsSelection(provided, sel) {
					provided = append(provided, sel)
				}
			} else if !containsSelection(grouped, sel) {
				grouped = append(grouped, sel)
			}
		}
		if len(provided) > 1 {
			return nil, &AmbiguousCapabilityError{
				Consumer:   consumerID,
				Capability: capability,
				First:      provided[0],
				Second:     provided[1],
			}
		}
		if len(provided) == 1 {
			selections[capability] = provided[0]
		} else if len(grouped) == 1 {
			selections[capability] = grouped[0]
		}
	}
	logger.Debug("Capabilities resolved.", "rule", consumerID, "count", len(selections))
	return selections, nil
}

// resolveOn applies the fallback order on a single producer. The satisfied
// flag is false when the producer simply cannot serve the capability, which
// is only an error once no candidate can.
func (r *Resolver) resolveOn(producer *graph.Node, capability string) (Selection, bool, error) {
	visited := map[string]bool{}
	cur := producer
	viaProvides := false
	for {
		if visited[cur.ID] {
			return Selection{}, false, fmt.Errorf(
				"rule '%s': provides entry for %q forms a loop", producer.ID, capability)
		}
		visited[cur.ID] = true

		if target, ok := cur.Desc.Provides[capability]; ok {
			if !target.IsRule() {
				return Selection{}, false, fmt.Errorf(
					"rule '%s': provides entry for %q is not a rule reference: %s", cur.ID, capability, target)
			}
			if grp := target.Group(); grp != rule.DefaultGroup {
				return Selection{Rule: target.RuleName(), Group: grp}, true, nil
			}
			if target.RuleName() == cur.ID {
				// Self-provide without an explicit group: the capability
				// either names one of this rule's output groups or means
				// its default outputs.
				if _, ok := cur.Desc.Outputs.Get(capability); ok {
					return Selection{Rule: cur.ID, Group: capability}, true, nil
				}
				return Selection{Rule: cur.ID, Group: rule.DefaultGroup}, true, nil
			}
			next, ok := r.g.Lookup(target.RuleName())
			if !ok {
				return Selection{}, false, fmt.Errorf(
					"rule '%s': provides entry for %q references non-existent rule '%s'",
					cur.ID, capability, target.RuleName())
			}
			cur = next
			viaProvides = true
			continue
		}

		if _, ok := cur.Desc.Outputs.Get(capability); ok {
			return Selection{Rule: cur.ID, Group: capability}, true, nil
		}
		if viaProvides {
			// The provider chain named this rule for the capability; its
			// default outputs are the answer even without a matching group.
			return Selection{Rule: cur.ID, Group: rule.DefaultGroup}, true, nil
		}
		return Selection{}, false, nil
	}
}

// producerClosure returns the consumer's direct dependencies plus every rule
// reachable through exported deps, in deterministic order.
func (r *Resolver) producerClosure(consumer *graph.Node) ([]*graph.Node, error) {
	direct := make([]string, 0, len(consumer.Desc.Deps))
	for _, ref := range consumer.Desc.Deps {
		if ref.IsRule() {
			direct = append(direct, ref.RuleName())
		}
	}
	for _, entry := range consumer.Desc.Sources.All() {
		if ref := rule.Ref(entry); ref.IsRule() {
			direct = append(direct, ref.RuleName())
		}
	}

	var closure []*graph.Node
	seen := map[string]bool{}
	queue := direct
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		node, ok := r.g.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("rule '%s' references non-existent rule '%s'", consumer.ID, id)
		}
		closure = append(closure, node)
		exported := make([]string, 0, len(node.Desc.ExportedDeps))
		for _, ref := range node.Desc.ExportedDeps {
			if ref.IsRule() {
				exported = append(exported, ref.RuleName())
			}
		}
		sort.Strings(exported)
		queue = append(queue, exported...)
	}
	return closure, nil
}

func containsSelection(list []Selection, s Selection) bool {
	for _, have := range list {
		if have == s {
			return true
		}
	}
	return false
}
