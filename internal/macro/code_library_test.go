package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/rule"
)

func TestCodeLibrary(t *testing.T) {
	initTools(t)

	t.Run("one artifact per source file", func(t *testing.T) {
		d, err := CodeLibrary(CodeLibraryArgs{
			Name: "utils",
			Srcs: rule.Flat("strings.js", "dates.js"),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"strings.jsar", "dates.jsar"}, d.Outputs.Default())
		cmd := d.Command.String()
		assert.Contains(t, cmd, "JS_LIBRARY=1")
		assert.Contains(t, cmd, "--entries $SRCS --outputs $OUTS")
		assert.True(t, d.OutputIsComplete)
	})

	t.Run("provides and requires the js capability", func(t *testing.T) {
		d, err := CodeLibrary(CodeLibraryArgs{Name: "utils", Srcs: rule.Flat("a.js")})
		require.NoError(t, err)
		assert.Equal(t, rule.MakeRef("utils"), d.Provides[CapabilityJS])
		assert.Equal(t, []string{CapabilityJS}, d.Requires)
	})

	t.Run("rule references contribute no artifacts of their own", func(t *testing.T) {
		d, err := CodeLibrary(CodeLibraryArgs{
			Name: "utils",
			Srcs: rule.Flat("a.js", ":other-lib"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.jsar"}, d.Outputs.Default())
	})

	t.Run("rule references alone are rejected", func(t *testing.T) {
		_, err := CodeLibrary(CodeLibraryArgs{Name: "utils", Srcs: rule.Flat(":other-lib")})
		var cfgErr *rule.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "srcs", cfgErr.Argument)
	})

	t.Run("empty srcs are rejected", func(t *testing.T) {
		_, err := CodeLibrary(CodeLibraryArgs{Name: "utils"})
		assert.Error(t, err)
	})
}
