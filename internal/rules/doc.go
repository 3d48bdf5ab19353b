// Package rules defines the instrumentation rule catalog.
//
// A catalog is a list of integrations. Each integration is a named group
// of method replacements: "calls to target method T, made from callers
// matching filter F, are redirected to wrapper method W". Catalogs are
// authored as CUE files and loaded once at startup; after loading the
// catalog is immutable and shared read-only for the process lifetime.
//
// The wrapper's cache key (MethodReplacement.Wrapper.CacheKey) is the
// stable identity under which the engine stores the wrapper's emitted
// member reference per module. Two rules naming the same wrapper share
// one key and therefore one emitted reference.
package rules
