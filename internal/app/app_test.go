package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

func writeBuildFile(t *testing.T, content string) string {
	t.Helper()
	toolcfg.Reset()
	t.Cleanup(toolcfg.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BUILD.hcl"), []byte(content), 0644))
	return dir
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.ErrorContains(t, err, "BuildPath")

	cfg, err := NewConfig(Config{BuildPath: "./build"})
	require.NoError(t, err)
	assert.Equal(t, "./build", cfg.BuildPath)
}

func TestAppRun_EmitsPlan(t *testing.T) {
	dir := writeBuildFile(t, `
		yarn_library "lodash" {
			version = "4.17.21"
		}

		js_binary "server" {
			srcs = ["main.js"]
			deps = [":lodash"]
		}
	`)

	var out, logs bytes.Buffer
	testApp := NewApp(&out, &logs, &Config{BuildPath: dir, LogFormat: "text", LogLevel: "debug"})
	require.NoError(t, testApp.Run(context.Background()))

	var plan struct {
		Nodes []struct {
			Name string `json:"name"`
			Cmd  string `json:"cmd"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	require.Len(t, plan.Nodes, 2)
	assert.Equal(t, "lodash", plan.Nodes[0].Name)
	assert.Contains(t, plan.Nodes[0].Cmd, "lodash-4.17.21.tgz")
	assert.Equal(t, "server", plan.Nodes[1].Name)

	// Logs stay off the plan stream.
	assert.Contains(t, logs.String(), "Build files loaded")
	assert.NotContains(t, out.String(), "Build files loaded")
}

func TestAppRun_ReportsBrokenReference(t *testing.T) {
	dir := writeBuildFile(t, `
		js_binary "server" {
			srcs = ["main.js"]
			deps = [":missing"]
		}
	`)

	var out, logs bytes.Buffer
	testApp := NewApp(&out, &logs, &Config{BuildPath: dir, LogFormat: "text", LogLevel: "info"})
	err := testApp.Run(context.Background())
	assert.ErrorContains(t, err, "non-existent rule 'missing'")
}

func TestNewApp_PanicsOnUnparsableBuildFile(t *testing.T) {
	dir := writeBuildFile(t, `js_binary "broken" {`)

	var out, logs bytes.Buffer
	assert.Panics(t, func() {
		NewApp(&out, &logs, &Config{BuildPath: dir, LogFormat: "text", LogLevel: "info"})
	})
}
