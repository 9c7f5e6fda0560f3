package resolve

import (
	"context"
	"sort"

	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/graph"
	"github.com/vk/nodebuildgo/internal/rule"
)

// Plan is the fully resolved graph handed to the external build engine: per
// node a rendered command, sources and outputs by group with symbolic rule
// references rewritten to concrete output-group selections, tool bindings and
// capability tags. The plan is a description only; nothing here executes.
type Plan struct {
	Nodes []*PlanNode `json:"nodes"`
}

// PlanNode is one resolved build node.
type PlanNode struct {
	Name    string `json:"name"`
	Command string `json:"cmd"`

	Sources map[string][]string `json:"srcs,omitempty"`
	Outputs map[string][]string `json:"outs,omitempty"`
	Tools   map[string]string   `json:"tools,omitempty"`

	Deps         []string          `json:"deps,omitempty"`
	Capabilities map[string]string `json:"capabilities,omitempty"`

	Binary              bool `json:"binary,omitempty"`
	TestOnly            bool `json:"test_only,omitempty"`
	OutputIsComplete    bool `json:"output_is_complete,omitempty"`
	NeedsTransitiveDeps bool `json:"needs_transitive_deps,omitempty"`

	Visibility []string `json:"visibility,omitempty"`
	Hashes     []string `json:"hashes,omitempty"`
	Labels     []string `json:"labels,omitempty"`
}

// BuildPlan resolves every node of a linked, validated graph. Node order
// follows declaration order, so two identical graphs yield identical plans.
func BuildPlan(ctx context.Context, g *graph.Graph) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	r := New(g)

	plan := &Plan{}
	for _, id := range g.IDs() {
		node, _ := g.Lookup(id)
		planNode, err := r.resolveNode(ctx, node)
		if err != nil {
			return nil, err
		}
		plan.Nodes = append(plan.Nodes, planNode)
	}
	logger.Debug("Plan built.", "node_count", len(plan.Nodes))
	return plan, nil
}

func (r *Resolver) resolveNode(ctx context.Context, node *graph.Node) (*PlanNode, error) {
	d := node.Desc

	selections, err := r.Resolve(ctx, node.ID)
	if err != nil {
		return nil, err
	}

	rendered, err := command.Render(d.Command, d.Scope())
	if err != nil {
		return nil, err
	}

	sources, err := r.rewriteSources(ctx, node)
	if err != nil {
		return nil, err
	}

	capabilities := make(map[string]string, len(selections))
	for capability, sel := range selections {
		capabilities[capability] = sel.Ref().String()
	}
	if len(capabilities) == 0 {
		capabilities = nil
	}

	tools := make(map[string]string, len(d.Tools))
	for alias, ref := range d.Tools {
		tools[alias] = ref.String()
	}
	if len(tools) == 0 {
		tools = nil
	}

	deps := make([]string, 0, len(node.Deps))
	for depID := range node.Deps {
		deps = append(deps, depID)
	}
	sort.Strings(deps)
	if len(deps) == 0 {
		deps = nil
	}

	return &PlanNode{
		Name:                node.ID,
		Command:             rendered,
		Sources:             sources,
		Outputs:             d.Outputs.Map(),
		Tools:               tools,
		Deps:                deps,
		Capabilities:        capabilities,
		Binary:              d.Binary,
		TestOnly:            d.TestOnly,
		OutputIsComplete:    d.OutputIsComplete,
		NeedsTransitiveDeps: d.NeedsTransitiveDeps,
		Visibility:          d.Visibility,
		Hashes:              d.Hashes,
		Labels:              d.Labels,
	}, nil
}

// rewriteSources replaces symbolic rule references in the consumer's sources
// with concrete output-group selections. A reference in a named source group
// whose name is a required capability resolves with exactly that capability;
// references in other groups try the consumer's requires list in declaration
// order and keep the producer's default outputs when no capability applies.
func (r *Resolver) rewriteSources(ctx context.Context, node *graph.Node) (map[string][]string, error) {
	d := node.Desc
	if d.Sources.IsZero() {
		return nil, nil
	}

	requires := map[string]bool{}
	for _, capability := range d.Requires {
		requires[capability] = true
	}

	out := make(map[string][]string, len(d.Sources.Names()))
	for _, group := range d.Sources.Names() {
		entries, _ := d.Sources.Get(group)
		rewritten := make([]string, len(entries))
		for i, entry := range entries {
			ref := rule.Ref(entry)
			if !ref.IsRule() || ref.Group() != rule.DefaultGroup {
				// Plain files and already-narrowed references pass through.
				rewritten[i] = entry
				continue
			}
			sel, err := r.rewriteRef(ctx, node, group, ref, requires)
			if err != nil {
				return nil, err
			}
			rewritten[i] = sel.String()
		}
		out[group] = rewritten
	}
	return out, nil
}

func (r *Resolver) rewriteRef(ctx context.Context, node *graph.Node, group string, ref rule.Ref, requires map[string]bool) (rule.Ref, error) {
	if group != rule.DefaultGroup && requires[group] {
		sel, err := r.ResolveEdge(ctx, node.ID, ref.RuleName(), group)
		if err != nil {
			return "", err
		}
		return sel.Ref(), nil
	}
	producer, ok := r.g.Lookup(ref.RuleName())
	if !ok {
		return "", &UnsatisfiedCapabilityError{Consumer: node.ID, Producer: ref.RuleName(), Capability: group}
	}
	for _, capability := range node.Desc.Requires {
		sel, satisfied, err := r.resolveOn(producer, capability)
		if err != nil {
			return "", err
		}
		if satisfied {
			return sel.Ref(), nil
		}
	}
	return ref, nil
}
