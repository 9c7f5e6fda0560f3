// Package testutil provides shared harnesses for integration tests: inline
// HCL build files are written to a temporary directory, loaded through the
// real loader and resolved into a plan, with log output captured for
// assertions.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/graph"
	"github.com/vk/nodebuildgo/internal/hclload"
	"github.com/vk/nodebuildgo/internal/resolve"
	"github.com/vk/nodebuildgo/internal/toolcfg"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a load-and-resolve test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Graph     *graph.Graph
	Plan      *resolve.Plan
}

// InitTools resets the process-wide tool configuration to the given values
// for the duration of one test. Tests that touch toolcfg cannot run in
// parallel with each other.
func InitTools(t *testing.T, tools toolcfg.Tools) {
	t.Helper()
	toolcfg.Reset()
	require.NoError(t, toolcfg.Init(tools))
	t.Cleanup(toolcfg.Reset)
}

// LoadHCL provides a standardized harness for loading inline HCL build files.
// The files map uses relative paths as keys, so tests can exercise multi-file
// and subdirectory layouts. The returned graph is loaded but not linked.
func LoadHCL(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-build-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	toolcfg.Reset()
	t.Cleanup(toolcfg.Reset)

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	loader := hclload.NewLoader()
	g, err := loader.Load(ctx, tmpDir)

	if os.Getenv("NBGO_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       err,
		Graph:     g,
	}
}

// ResolveHCL runs the full pipeline on inline HCL build files: load, link,
// validate and resolve into a plan. Loading must succeed; later stages
// report through the result's Err so tests can assert on expected failures.
func ResolveHCL(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	result := LoadHCL(t, files)
	require.NoError(t, result.Err)

	logger := slog.New(slog.NewTextHandler(&SafeBuffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := result.Graph.Link(ctx); err != nil {
		result.Err = err
		return result
	}
	if err := result.Graph.Validate(ctx); err != nil {
		result.Err = err
		return result
	}
	if err := result.Graph.DetectCycles(); err != nil {
		result.Err = err
		return result
	}

	plan, err := resolve.BuildPlan(ctx, result.Graph)
	result.Plan = plan
	result.Err = err
	return result
}

// PlanNode returns the named node from a resolved plan, failing the test if
// the plan does not contain it.
func PlanNode(t *testing.T, plan *resolve.Plan, name string) *resolve.PlanNode {
	t.Helper()
	require.NotNil(t, plan)
	for _, node := range plan.Nodes {
		if node.Name == name {
			return node
		}
	}
	require.Failf(t, "plan node not found", "no node named %q in plan", name)
	return nil
}
