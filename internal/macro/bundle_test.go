package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/rule"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

func TestCodeBinary(t *testing.T) {
	initTools(t)

	t.Run("bundles sources into one executable", func(t *testing.T) {
		d, err := CodeBinary(CodeBinaryArgs{
			Name: "server",
			Srcs: rule.Flat("main.js"),
		})
		require.NoError(t, err)

		assert.True(t, d.Binary)
		assert.Equal(t, []string{"server.js"}, d.Outputs.Default())
		cmd := d.Command.String()
		assert.Contains(t, cmd, "$TOOLS_NODE $TOOLS_WEBPACK --entry $SRCS --output $OUT")
		assert.Contains(t, cmd, "#!/usr/bin/env node")
		assert.Equal(t, []string{CapabilityJS}, d.Requires)
	})

	t.Run("vendor bundles join both halves of the pair", func(t *testing.T) {
		d, err := CodeBinary(CodeBinaryArgs{
			Name:    "server",
			Srcs:    rule.Flat("main.js"),
			Bundles: []rule.Ref{":vendor"},
		})
		require.NoError(t, err)

		dll, ok := d.Sources.Get(CapabilityDLL)
		require.True(t, ok)
		manifest, ok := d.Sources.Get(CapabilityManifest)
		require.True(t, ok)
		assert.Equal(t, []string{":vendor"}, dll)
		assert.Equal(t, []string{":vendor"}, manifest)
		assert.Contains(t, d.Requires, CapabilityDLL)
		assert.Contains(t, d.Requires, CapabilityManifest)
		assert.Contains(t, d.Command.String(), "--dll $SRCS_DLL --dll-manifest $SRCS_MANIFEST")
	})

	t.Run("bare vendor path is rejected", func(t *testing.T) {
		_, err := CodeBinary(CodeBinaryArgs{
			Name:    "server",
			Srcs:    rule.Flat("main.js"),
			Bundles: []rule.Ref{"vendor.js"},
		})
		var cfgErr *rule.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "bundles", cfgErr.Argument)
	})
}

func TestVendorBundle(t *testing.T) {
	initTools(t)

	t.Run("emits the dll and manifest pair", func(t *testing.T) {
		d, err := VendorBundle(VendorBundleArgs{
			Name: "vendor",
			Srcs: rule.Flat(":react", ":lodash"),
		})
		require.NoError(t, err)

		dll, ok := d.Outputs.Get(CapabilityDLL)
		require.True(t, ok)
		manifest, ok := d.Outputs.Get(CapabilityManifest)
		require.True(t, ok)
		assert.Equal(t, []string{"vendor.js"}, dll)
		assert.Equal(t, []string{"vendor-manifest.json"}, manifest)
		assert.Contains(t, d.Command.String(), "--dll-entry $SRCS --output $OUTS_DLL --manifest $OUTS_MANIFEST")
		assert.True(t, d.OutputIsComplete)
		assert.False(t, d.Binary)
	})

	t.Run("manifest name tracks a custom artifact name", func(t *testing.T) {
		d, err := VendorBundle(VendorBundleArgs{
			Name: "vendor",
			Srcs: rule.Flat(":react"),
			Out:  "third-party.js",
		})
		require.NoError(t, err)

		manifest, _ := d.Outputs.Get(CapabilityManifest)
		assert.Equal(t, []string{"third-party-manifest.json"}, manifest)
	})
}

func TestBundleRuleWithoutTools(t *testing.T) {
	// Descriptor construction must fail loudly when the tool configuration
	// was never initialized, not fall back to guessed paths.
	toolcfg.Reset()
	t.Cleanup(toolcfg.Reset)

	_, err := CodeBinary(CodeBinaryArgs{Name: "server", Srcs: rule.Flat("main.js")})
	assert.ErrorIs(t, err, toolcfg.ErrNotInitialized)
}
