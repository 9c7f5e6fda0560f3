// Package toolcfg holds the process-wide identities of the external tools
// that composition macros bind into rules: the JS runtime, its module search
// path, the bundler and the JSON query tool. The configuration is written
// exactly once, before any descriptor construction, and is read-only
// afterwards; concurrent readers share it without coordination.
package toolcfg

import (
	"errors"
	"sync/atomic"

	"github.com/vk/nodebuildgo/internal/rule"
)

// Tools identifies the external tools macros bind. Each entry is either a
// rule reference (":webpack") or a bare executable name ("node").
type Tools struct {
	Node     rule.Ref
	NodePath string
	Webpack  rule.Ref
	Jq       rule.Ref
}

// Defaults returns the stock tool identities an embedding project starts
// from.
func Defaults() Tools {
	return Tools{
		Node:     "node",
		NodePath: "/usr/local/lib/node_modules",
		Webpack:  "webpack",
		Jq:       "jq",
	}
}

var current atomic.Pointer[Tools]

// ErrAlreadyInitialized is returned by Init when the configuration was
// already set; ambient re-configuration is forbidden.
var ErrAlreadyInitialized = errors.New("toolcfg: already initialized")

// ErrNotInitialized is returned by Current when Init has not been called.
var ErrNotInitialized = errors.New("toolcfg: read before initialization")

// Init sets the process-wide tool configuration exactly once. Zero-valued
// fields fall back to Defaults.
func Init(t Tools) error {
	def := Defaults()
	if t.Node == "" {
		t.Node = def.Node
	}
	if t.NodePath == "" {
		t.NodePath = def.NodePath
	}
	if t.Webpack == "" {
		t.Webpack = def.Webpack
	}
	if t.Jq == "" {
		t.Jq = def.Jq
	}
	if !current.CompareAndSwap(nil, &t) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Current returns the initialized tool configuration. Reading before Init is
// an error, not a silent default: initialization order is part of the
// single-writer contract.
func Current() (Tools, error) {
	t := current.Load()
	if t == nil {
		return Tools{}, ErrNotInitialized
	}
	return *t, nil
}
