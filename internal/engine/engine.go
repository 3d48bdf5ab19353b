package engine

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/weftlabs/weft/internal/journal"
	"github.com/weftlabs/weft/internal/metadata"
	"github.com/weftlabs/weft/internal/rules"
)

// Engine is the call-site rewriting engine. One instance exists per
// attached process; the host runtime delivers module lifecycle and
// compilation notifications to it.
//
// Thread-safety model:
//   - OnModuleLoaded / OnModuleUnloaded / OnMethodAboutToCompile: safe
//     from any goroutine; concurrent calls for different modules are
//     expected. For a single module the host guarantees load-before-
//     compile-before-unload ordering.
//   - Attach: call once, before the first notification.
//
// INVARIANTS:
//   - catalog order never changes after construction; it is the rule
//     evaluation order
//   - a registry record exists iff the module is loaded and prepared
type Engine struct {
	host     Host
	catalog  []rules.Integration
	registry *Registry

	journal *journal.Journal
	session string

	// processFilter, when non-empty, lists the process names the
	// engine may attach to.
	processFilter []string

	attached atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal directs the engine to append its decisions to j.
// A nil journal disables journaling (the default).
func WithJournal(j *journal.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithProcessFilter restricts Attach to the named processes. An empty
// filter (the default) attaches to any process.
func WithProcessFilter(names []string) Option {
	return func(e *Engine) {
		e.processFilter = slices.Clone(names)
	}
}

// New creates an Engine over the given host facilities and rule
// catalog.
//
// The catalog must be in declaration order - this order is preserved
// for deterministic rule evaluation. The slice is copied to prevent
// external mutation from changing evaluation order after startup.
func New(host Host, catalog []rules.Integration, opts ...Option) *Engine {
	e := &Engine{
		host:     host,
		catalog:  slices.Clone(catalog),
		registry: NewRegistry(),
		session:  uuid.Must(uuid.NewV7()).String(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Session returns the engine instance's session token, stamped on
// every journal row this instance appends.
func (e *Engine) Session() string {
	return e.session
}

// Registry exposes the module registry, for inspection by tests and
// tooling.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Attach decides whether the engine instruments the named process.
// With an empty process filter it attaches unconditionally; otherwise
// the process name must be listed. A detached engine turns every
// notification into a no-op.
func (e *Engine) Attach(processName string) bool {
	if len(e.processFilter) > 0 && !slices.Contains(e.processFilter, processName) {
		slog.Info("engine disabled: process not in filter",
			"process", processName,
			"filter", e.processFilter)
		return false
	}

	e.attached.Store(true)
	slog.Info("engine attached",
		"process", processName,
		"session", e.session,
		"integrations", len(e.catalog))
	return true
}

// IsAttached reports whether Attach accepted the process.
func (e *Engine) IsAttached() bool {
	return e.attached.Load()
}

// OnModuleLoaded handles a module-load notification: it selects the
// applicable integrations, pre-emits wrapper references, and registers
// the module record. Runs synchronously inside the notification; all
// failures are local and leave the module unregistered.
func (e *Engine) OnModuleLoaded(id ModuleID, assemblyName string) {
	if !e.attached.Load() {
		return
	}

	scope, err := e.host.ModuleScope(id)
	if err != nil {
		slog.Warn("module metadata unavailable",
			"module", id,
			"assembly", assemblyName,
			"error", err)
		e.journalModuleSkipped(id, assemblyName, "metadata unavailable: "+err.Error())
		return
	}

	if !scope.Writable() {
		// Cannot emit references into read-only metadata, so the
		// module cannot be instrumented.
		slog.Debug("module skipped: metadata is read-only",
			"module", id,
			"assembly", assemblyName)
		e.journalModuleSkipped(id, assemblyName, "metadata read-only")
		return
	}

	rec, err := prepareModule(scope, id, assemblyName, e.catalog)
	if err != nil {
		// Fail-closed: the module stays unregistered and every method
		// in it compiles uninstrumented.
		slog.Warn("module preparation failed", "error", err)
		e.journalModuleSkipped(id, assemblyName, err.Error())
		return
	}
	if rec == nil {
		slog.Debug("module skipped: no applicable integrations",
			"module", id,
			"assembly", assemblyName)
		return
	}

	if err := e.registry.Insert(id, rec); err != nil {
		slog.Error("module registration failed", "error", err)
		return
	}

	slog.Info("module prepared",
		"module", id,
		"assembly", assemblyName,
		"integrations", len(rec.Integrations),
		"wrappers", rec.WrapperCount())
	e.journalEvent(journal.Event{
		Kind:     journal.KindModulePrepared,
		Module:   uint64(id),
		Assembly: assemblyName,
	})
}

// OnModuleUnloaded drops the module's record. Compilations already
// holding the record finish safely; no new lookup observes it.
func (e *Engine) OnModuleUnloaded(id ModuleID) {
	if !e.attached.Load() {
		return
	}

	rec, ok := e.registry.Remove(id)
	if !ok {
		return
	}

	slog.Debug("module unloaded",
		"module", id,
		"assembly", rec.AssemblyName)
	e.journalEvent(journal.Event{
		Kind:     journal.KindModuleUnloaded,
		Module:   uint64(id),
		Assembly: rec.AssemblyName,
	})
}

// OnMethodAboutToCompile handles a compilation notification for one
// method, identified by its MethodDef token within the module. Returns
// whether the method's instruction stream was modified.
//
// Methods in unregistered modules take the registry-miss fast path and
// are never touched.
func (e *Engine) OnMethodAboutToCompile(id ModuleID, method metadata.Token) bool {
	if !e.attached.Load() {
		return false
	}

	rec, ok := e.registry.Lookup(id)
	if !ok {
		return false
	}

	return e.rewriteMethod(rec, rec.imports, id, method)
}

// reportAnomaly logs and journals an internal inconsistency.
func (e *Engine) reportAnomaly(rec *ModuleRecord, ee *EngineError) {
	slog.Error("internal inconsistency", "error", ee)
	e.journalEvent(journal.Event{
		Kind:     journal.KindAnomaly,
		Module:   uint64(ee.Module),
		Assembly: rec.AssemblyName,
		Detail:   ee.Error(),
	})
}

func (e *Engine) journalRewrite(rec *ModuleRecord, caller ResolvedSymbol, rw rewrittenCall) {
	e.journalEvent(journal.Event{
		Kind:        journal.KindCallRewritten,
		Module:      uint64(rec.Module),
		Assembly:    rec.AssemblyName,
		Integration: rw.integration,
		Caller:      caller.TypeName + "." + caller.MethodName,
		Target:      rw.target.Type + "." + rw.target.Method,
		Wrapper:     rw.wrapper.Type + "." + rw.wrapper.Method,
	})
}

func (e *Engine) journalModuleSkipped(id ModuleID, assemblyName, reason string) {
	e.journalEvent(journal.Event{
		Kind:     journal.KindModuleSkipped,
		Module:   uint64(id),
		Assembly: assemblyName,
		Detail:   reason,
	})
}

// journalEvent appends an event, stamping the session. Journal failures
// are logged and swallowed: diagnostics never disturb the rewriting
// path.
func (e *Engine) journalEvent(ev journal.Event) {
	if e.journal == nil {
		return
	}
	ev.Session = e.session
	if err := e.journal.Append(context.Background(), ev); err != nil {
		slog.Warn("journal append failed", "error", err)
	}
}
