// Package macro is the library of higher-level rule constructors. Each macro
// is a pure function from declarative arguments to one or more Rule
// Descriptors wired together through internal dependency edges; no macro
// retains state across invocations. Tool identities come from the
// process-wide toolcfg, which must be initialized before the first call.
package macro
