package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalName(t *testing.T) {
	t.Parallel()

	t.Run("derives the helper identity", func(t *testing.T) {
		name, err := InternalName("react", "bundle")
		require.NoError(t, err)
		assert.Equal(t, "_react#bundle", name)
		assert.True(t, IsInternalName(name))
	})

	t.Run("is deterministic", func(t *testing.T) {
		a, err := InternalName("react", "bundle")
		require.NoError(t, err)
		b, err := InternalName("react", "bundle")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("rejects a base that already matches the pattern", func(t *testing.T) {
		_, err := InternalName("_react#bundle", "yarn")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "name", cfgErr.Argument)
	})

	t.Run("rejects empty base and role", func(t *testing.T) {
		_, err := InternalName("", "bundle")
		assert.Error(t, err)
		_, err = InternalName("react", "")
		assert.Error(t, err)
	})
}

func TestIsInternalName(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInternalName("_react#bundle"))
	assert.False(t, IsInternalName("react"))
	assert.False(t, IsInternalName("_react")) // no role separator
	assert.False(t, IsInternalName("re#act")) // no internal prefix
}

func TestManifestName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vendor-manifest.json", ManifestName("vendor.js"))
	assert.Equal(t, "vendor-manifest.json", ManifestName("vendor"))
}
