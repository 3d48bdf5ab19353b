// Package metadata models the metadata surface of a loaded module.
//
// A module's metadata is a set of tables (type definitions, method
// definitions, type references, member references, assembly references)
// addressed by typed integer tokens. The engine reads these tables to
// resolve the symbolic identity of call instructions, and writes to them
// to pre-register references to instrumentation wrapper methods that live
// in another assembly.
//
// The package defines two narrow interfaces:
//
//   - Import: read-side lookups (token -> name / parent token)
//   - Emit: write-side definition of assembly/type/member references
//
// Scope combines both and adds a writability capability check. The host
// runtime supplies the real implementation; Memory (memory.go) is a
// self-contained in-memory implementation used by tests and the
// snapshot simulator.
//
// All Emit operations are idempotent: defining the same reference twice
// returns the token minted the first time.
package metadata
