package resolve

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/command"
	"github.com/vk/nodebuildgo/internal/rule"
)

func TestRewriteSources(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("named group selects its capability", func(t *testing.T) {
		g := buildGraph(t,
			rule.Descriptor{
				Name:    "vendor",
				Outputs: rule.Named([]string{"dll", "manifest"}, map[string][]string{"dll": {"v.js"}, "manifest": {"v-manifest.json"}}),
			},
			rule.Descriptor{
				Name: "app",
				Sources: rule.Named([]string{"dll", "manifest"}, map[string][]string{
					"dll":      {":vendor"},
					"manifest": {":vendor"},
				}),
				Requires: []string{"dll", "manifest"},
			},
		)
		node, _ := g.Lookup("app")
		sources, err := New(g).rewriteSources(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, []string{":vendor|dll"}, sources["dll"])
		assert.Equal(t, []string{":vendor|manifest"}, sources["manifest"])
	})

	t.Run("default group tries requires in order", func(t *testing.T) {
		g := buildGraph(t,
			rule.Descriptor{Name: "lib", Provides: map[string]rule.Ref{"js": ":lib"}},
			rule.Descriptor{
				Name:     "app",
				Sources:  rule.Flat(":lib", "main.js"),
				Requires: []string{"js"},
			},
		)
		node, _ := g.Lookup("app")
		sources, err := New(g).rewriteSources(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, []string{":lib", "main.js"}, sources[rule.DefaultGroup])
	})

	t.Run("unservable reference passes through", func(t *testing.T) {
		g := buildGraph(t,
			rule.Descriptor{Name: "raw", Outputs: rule.Flat("raw")},
			rule.Descriptor{
				Name:     "app",
				Sources:  rule.Flat(":raw"),
				Requires: []string{"js"},
			},
		)
		node, _ := g.Lookup("app")
		sources, err := New(g).rewriteSources(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, []string{":raw"}, sources[rule.DefaultGroup])
	})

	t.Run("named group in requires fails hard when unservable", func(t *testing.T) {
		g := buildGraph(t,
			rule.Descriptor{Name: "raw", Outputs: rule.Flat("raw")},
			rule.Descriptor{
				Name:     "app",
				Sources:  rule.Named([]string{"dll"}, map[string][]string{"dll": {":raw"}}),
				Requires: []string{"dll"},
			},
		)
		node, _ := g.Lookup("app")
		_, err := New(g).rewriteSources(ctx, node)
		var unsatErr *UnsatisfiedCapabilityError
		require.ErrorAs(t, err, &unsatErr)
		assert.Equal(t, "dll", unsatErr.Capability)
	})
}

func TestBuildPlan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	descs := []rule.Descriptor{
		{
			Name:     "lib",
			Sources:  rule.Flat("util.js"),
			Outputs:  rule.Flat("util.jsar"),
			Command:  command.New("compile $SRCS $OUT"),
			Provides: map[string]rule.Ref{"js": ":lib"},
		},
		{
			Name:     "app",
			Sources:  rule.Flat(":lib", "main.js"),
			Outputs:  rule.Flat("app.js"),
			Command:  command.New("bundle $SRCS $OUT"),
			Deps:     []rule.Ref{":lib"},
			Requires: []string{"js"},
			Binary:   true,
		},
	}

	t.Run("resolved node carries command, deps and capabilities", func(t *testing.T) {
		g := buildGraph(t, descs...)
		plan, err := BuildPlan(ctx, g)
		require.NoError(t, err)
		require.Len(t, plan.Nodes, 2)

		app := plan.Nodes[1]
		assert.Equal(t, "app", app.Name)
		assert.Equal(t, "bundle $SRCS $OUT", app.Command)
		assert.Equal(t, []string{"lib"}, app.Deps)
		assert.Equal(t, map[string]string{"js": ":lib"}, app.Capabilities)
		assert.True(t, app.Binary)
	})

	t.Run("identical graphs yield identical plans", func(t *testing.T) {
		first, err := BuildPlan(ctx, buildGraph(t, descs...))
		require.NoError(t, err)
		second, err := BuildPlan(ctx, buildGraph(t, descs...))
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first, second))
	})

	t.Run("undeclared placeholder surfaces as a template error", func(t *testing.T) {
		g := buildGraph(t, rule.Descriptor{
			Name:    "broken",
			Outputs: rule.Flat("out"),
			Command: command.New("$TOOLS_NODE run"),
		})
		_, err := BuildPlan(ctx, g)
		var tmplErr *command.TemplateError
		require.ErrorAs(t, err, &tmplErr)
		assert.Equal(t, "$TOOLS_NODE", tmplErr.Placeholder)
	})
}
