package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/resolve"
)

// Run executes the main application logic: link the loaded graph, enforce
// its structural invariants and emit the resolved plan as JSON.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.graph.Link(ctx); err != nil {
		return fmt.Errorf("failed to link dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph linked.", "node_count", a.graph.Len())

	if err := a.graph.Validate(ctx); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}
	if err := a.graph.DetectCycles(); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}
	a.logger.Debug("Graph invariants validated.")

	plan, err := resolve.BuildPlan(ctx, a.graph)
	if err != nil {
		return fmt.Errorf("failed to resolve plan: %w", err)
	}

	encoded, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if _, err := fmt.Fprintln(a.outW, string(encoded)); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
