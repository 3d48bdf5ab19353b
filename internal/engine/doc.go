// Package engine implements the weft call-site rewriting engine.
//
// The engine sits inside a managed runtime's compilation pipeline. When
// a module loads, it decides which integrations from the rule catalog
// apply to that module and pre-emits the metadata references needed to
// call the configured wrapper methods, storing them in a per-module
// record. When a method in a prepared module is about to be compiled,
// it scans the method's instruction stream, resolves the symbolic
// identity of every call instruction, and rewrites matching call sites
// to invoke the cached wrapper reference instead of the original target.
//
// ARCHITECTURE:
//
// Notification-driven, fully synchronous:
// The host runtime invokes OnModuleLoaded, OnModuleUnloaded, and
// OnMethodAboutToCompile on its own worker threads. Every handler
// completes inline; nothing blocks, suspends, or retries. Handlers for
// different modules run concurrently; for a single module the runtime
// guarantees load-completion happens-before any compilation, and unload
// happens-after all compilations referencing the module have drained.
//
// The Registry is the only shared mutable structure. Module records are
// immutable after insertion, so concurrent compilations read them
// without coordination, and a reader that obtained a record before its
// module unloaded may safely finish with it.
//
// FAILURE POLICY:
//
// This code runs inside a host process whose continued execution is the
// priority. Every failure is local and non-fatal: a module that cannot
// be prepared stays unregistered and compiles uninstrumented; a call
// site that cannot be resolved is left untouched; a matched rule whose
// wrapper reference is missing is logged as an internal inconsistency
// and skipped. Correctness degrades to "no instrumentation", never to
// a corrupted instruction stream.
package engine
