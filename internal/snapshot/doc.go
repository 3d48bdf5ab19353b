// Package snapshot loads synthetic modules from YAML files.
//
// A snapshot describes one or more modules - assembly name, type and
// method definitions, and per-method instruction streams with symbolic
// operands - and materializes them as in-memory metadata scopes and
// method bodies. Snapshots let `weft simulate` and the test suite drive
// the full engine path (module load, preparation, compilation, rewrite)
// without a host runtime.
//
// Call-site operands are spelled symbolically and support every token
// shape the resolver handles: a member reference parented by a type
// reference, by a type definition, or by a method definition, and a
// direct method definition.
package snapshot
