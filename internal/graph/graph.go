// Package graph assembles Rule Descriptors into a dependency graph: nodes
// keyed by their name+tag identity, edges recorded in both directions, with
// duplicate detection on insert and DFS cycle detection before hand-over.
package graph

import (
	"fmt"
	"sync"

	"github.com/vk/nodebuildgo/internal/rule"
)

// Graph is a collection of rule nodes and their dependency edges. All
// operations on the graph are concurrency-safe; iteration order follows
// insertion order so downstream output is deterministic.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*Node
	order []string
}

// Node is a single vertex: one descriptor plus its resolved edges.
type Node struct {
	ID         string
	Desc       *rule.Descriptor
	Deps       map[string]*Node
	Dependents map[string]*Node
}

// DuplicateNameError reports two descriptors colliding on name+tag within the
// namespace.
type DuplicateNameError struct {
	Name string
	Tag  string
}

func (e *DuplicateNameError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("duplicate rule name %q", e.Name)
	}
	return fmt.Sprintf("duplicate rule name %q (helper role %q)", e.Name, e.Tag)
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Add inserts a descriptor as a new node. A name+tag collision is an error.
func (g *Graph) Add(d *rule.Descriptor) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	id := d.ID()
	if _, exists := g.nodes[id]; exists {
		return &DuplicateNameError{Name: d.Name, Tag: d.Tag}
	}
	g.nodes[id] = &Node{
		ID:         id,
		Desc:       d,
		Deps:       make(map[string]*Node),
		Dependents: make(map[string]*Node),
	}
	g.order = append(g.order, id)
	return nil
}

// AddAll inserts a sequence of descriptors, stopping at the first collision.
func (g *Graph) AddAll(descs ...*rule.Descriptor) error {
	for _, d := range descs {
		if err := g.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the node with the given identity.
func (g *Graph) Lookup(id string) (*Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// IDs returns every node identity in insertion order.
func (g *Graph) IDs() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// addEdge records that `to` depends on `from`. Self-edges are rejected.
func (g *Graph) addEdge(from, to *Node) error {
	if from.ID == to.ID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", from.ID, from.ID)
	}
	to.Deps[from.ID] = from
	from.Dependents[to.ID] = to
	return nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, naming the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	// Classic depth-first search with three sets of nodes: permanently
	// visited, temporarily on the current recursion stack, and unvisited.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.ID] {
			return nil
		}
		if temporary[n.ID] {
			return fmt.Errorf("cycle detected involving rule '%s'", n.ID)
		}
		temporary[n.ID] = true
		for _, dependent := range n.Dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n.ID)
		permanent[n.ID] = true
		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}
