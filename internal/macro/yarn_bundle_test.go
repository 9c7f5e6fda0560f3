package macro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/graph"
	"github.com/vk/nodebuildgo/internal/resolve"
	"github.com/vk/nodebuildgo/internal/rule"
)

func TestYarnBundle(t *testing.T) {
	initTools(t)

	t.Run("composes the install and bundle pair", func(t *testing.T) {
		descs, err := YarnBundle(YarnBundleArgs{Name: "moment", Version: "2.29.4"})
		require.NoError(t, err)
		require.Len(t, descs, 2)

		install, bundle := descs[0], descs[1]
		assert.Equal(t, "_moment#yarn", install.ID())
		assert.Contains(t, install.Command.String(), "moment-2.29.4.tgz")

		assert.Equal(t, "moment", bundle.ID())
		assert.Equal(t, []string{":_moment#yarn"}, bundle.Sources.Default())
	})

	t.Run("exposes both the raw tree and the bundled artifact", func(t *testing.T) {
		descs, err := YarnBundle(YarnBundleArgs{Name: "moment", Version: "2.29.4"})
		require.NoError(t, err)

		bundle := descs[1]
		assert.Equal(t, rule.Ref(":_moment#yarn"), bundle.Provides[CapabilityYarn])
		assert.Equal(t, rule.Ref(":moment|js"), bundle.Provides[CapabilityJS])

		js, ok := bundle.Outputs.Get(CapabilityJS)
		require.True(t, ok)
		manifest, ok := bundle.Outputs.Get(CapabilityManifest)
		require.True(t, ok)
		assert.Equal(t, []string{"moment.js"}, js)
		assert.Equal(t, []string{"moment-manifest.json"}, manifest)
	})

	t.Run("consumers pick the form their capability names", func(t *testing.T) {
		descs, err := YarnBundle(YarnBundleArgs{Name: "react", Version: "18.0.0"})
		require.NoError(t, err)

		rawConsumer, err := rule.New(rule.Descriptor{
			Name: "types", Deps: []rule.Ref{":react"}, Requires: []string{CapabilityYarn},
		})
		require.NoError(t, err)
		jsConsumer, err := rule.New(rule.Descriptor{
			Name: "app", Deps: []rule.Ref{":react"}, Requires: []string{CapabilityJS},
		})
		require.NoError(t, err)

		g := graph.New()
		require.NoError(t, g.AddAll(descs...))
		require.NoError(t, g.AddAll(rawConsumer, jsConsumer))
		require.NoError(t, g.Link(context.Background()))

		r := resolve.New(g)
		raw, err := r.Resolve(context.Background(), "types")
		require.NoError(t, err)
		assert.Equal(t, rule.Ref(":_react#yarn"), raw[CapabilityYarn].Ref())

		js, err := r.Resolve(context.Background(), "app")
		require.NoError(t, err)
		assert.Equal(t, rule.Ref(":react|js"), js[CapabilityJS].Ref())
	})

	t.Run("test_only propagates to both descriptors", func(t *testing.T) {
		descs, err := YarnBundle(YarnBundleArgs{Name: "sinon", Version: "15.0.0", TestOnly: true})
		require.NoError(t, err)
		assert.True(t, descs[0].TestOnly)
		assert.True(t, descs[1].TestOnly)
	})

	t.Run("missing version is rejected", func(t *testing.T) {
		_, err := YarnBundle(YarnBundleArgs{Name: "moment"})
		var cfgErr *rule.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "version", cfgErr.Argument)
	})
}
