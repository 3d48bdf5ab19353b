package journal

import "time"

// Kind categorizes journal events.
type Kind string

const (
	// KindModulePrepared: a module's record was built and registered.
	KindModulePrepared Kind = "module_prepared"

	// KindModuleSkipped: a module had no applicable integrations, its
	// metadata was unwritable, or preparation failed fail-closed.
	KindModuleSkipped Kind = "module_skipped"

	// KindModuleUnloaded: a module's record was dropped.
	KindModuleUnloaded Kind = "module_unloaded"

	// KindCallRewritten: one call site was redirected to a wrapper.
	KindCallRewritten Kind = "call_rewritten"

	// KindAnomaly: an internal inconsistency was detected (e.g. a
	// matched rule with no cached wrapper reference).
	KindAnomaly Kind = "anomaly"
)

// Event is one journal row.
type Event struct {
	ID          int64     `json:"id"`
	Session     string    `json:"session"`
	Kind        Kind      `json:"kind"`
	Module      uint64    `json:"module"`
	Assembly    string    `json:"assembly,omitempty"`
	Integration string    `json:"integration,omitempty"`
	Caller      string    `json:"caller,omitempty"`
	Target      string    `json:"target,omitempty"`
	Wrapper     string    `json:"wrapper,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
