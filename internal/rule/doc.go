// Package rule defines the Descriptor, the immutable declaration of one
// buildable unit: a shell command template, grouped sources and outputs, tool
// bindings, dependency edges and capability tags. Descriptors are constructed
// once from declarative arguments and never mutated afterwards; the external
// build engine consumes them as pure descriptions.
package rule
