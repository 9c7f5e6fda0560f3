package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/rule"
)

func TestBinaryPackage(t *testing.T) {
	initTools(t)

	t.Run("builds the staging and launcher pair", func(t *testing.T) {
		descs, err := BinaryPackage(BinaryPackageArgs{
			Name:    "mocha",
			Package: ":mocha-pkg",
		})
		require.NoError(t, err)
		require.Len(t, descs, 2)

		stage, launcher := descs[0], descs[1]
		assert.Equal(t, "_mocha#bundle", stage.ID())
		assert.Equal(t, []string{"node_modules"}, stage.Outputs.Default())
		assert.True(t, stage.NeedsTransitiveDeps)
		assert.Equal(t, []string{":mocha-pkg"}, stage.Sources.Default())

		assert.Equal(t, "mocha", launcher.ID())
		assert.True(t, launcher.Binary)
		assert.Equal(t, []string{":_mocha#bundle"}, launcher.Sources.Default())
		cmd := launcher.Command.String()
		assert.Contains(t, cmd, "$TOOLS_JQ -r '.bin // .main'")
		assert.Contains(t, cmd, "mocha-pkg/package.json")
		assert.Contains(t, cmd, "exec $TOOLS_NODE")
		assert.Contains(t, cmd, "chmod +x $OUT")
	})

	t.Run("entry point is resolved at run time, not build time", func(t *testing.T) {
		descs, err := BinaryPackage(BinaryPackageArgs{Name: "eslint", Package: ":eslint-pkg"})
		require.NoError(t, err)

		// The jq invocation must land inside the generated script, escaped,
		// rather than execute while the launcher itself is built.
		assert.Contains(t, descs[1].Command.String(), `\$($TOOLS_JQ`)
	})

	t.Run("declared deps land on the staging rule", func(t *testing.T) {
		descs, err := BinaryPackage(BinaryPackageArgs{
			Name:    "webpack",
			Package: ":webpack_lib",
			Deps:    []rule.Ref{":dep_a"},
		})
		require.NoError(t, err)
		assert.Equal(t, []rule.Ref{":dep_a"}, descs[0].Deps)
		assert.Empty(t, descs[1].Deps)
	})

	t.Run("bare package path is rejected", func(t *testing.T) {
		_, err := BinaryPackage(BinaryPackageArgs{Name: "mocha", Package: "node_modules/mocha"})
		var cfgErr *rule.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "package", cfgErr.Argument)
	})

	t.Run("visibility and labels land on the launcher only", func(t *testing.T) {
		descs, err := BinaryPackage(BinaryPackageArgs{
			Name:       "mocha",
			Package:    ":mocha-pkg",
			Visibility: []string{"PUBLIC"},
			Labels:     []string{"tool"},
		})
		require.NoError(t, err)
		assert.Empty(t, descs[0].Visibility)
		assert.Equal(t, []string{"PUBLIC"}, descs[1].Visibility)
		assert.Equal(t, []string{"tool"}, descs[1].Labels)
	})
}
