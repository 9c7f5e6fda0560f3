package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/nodebuildgo/internal/ctxlog"
	"github.com/vk/nodebuildgo/internal/graph"
	"github.com/vk/nodebuildgo/internal/hclload"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	graph  *graph.Graph
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded,
// unlinked rule graph. The plan is written to outW; logs go to logW so the
// emitted JSON stays machine-readable.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loader := hclload.NewLoader()
	g, err := loader.Load(ctx, appConfig.BuildPath)
	if err != nil {
		// A failure to load build files is a fatal startup error.
		panic(fmt.Errorf("failed to load build files: %w", err))
	}
	logger.Debug("Build files loaded into rule graph.", "rule_count", g.Len())

	return &App{
		outW:   outW,
		logger: logger,
		graph:  g,
	}
}

// Graph returns the application's rule graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}
