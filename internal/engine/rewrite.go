package engine

import (
	"log/slog"

	"github.com/weftlabs/weft/internal/il"
	"github.com/weftlabs/weft/internal/metadata"
	"github.com/weftlabs/weft/internal/rules"
)

// activeRule is a rule that passed the caller filter for the method
// being compiled, tagged with its integration for diagnostics.
type activeRule struct {
	integration string
	rule        rules.MethodReplacement
}

// rewrittenCall describes one applied rewrite, for journaling.
type rewrittenCall struct {
	integration string
	target      rules.TargetMethod
	wrapper     rules.WrapperMethod
	index       int
}

// rewriteMethod scans the method's instruction stream and rewrites call
// sites matching the module's applicable rules to call the cached
// wrapper references. Returns whether any instruction was modified.
//
// The scan imports one editable view per method per compilation pass,
// resolves each call instruction's operand exactly once, and applies at
// most one rewrite per instruction (first matching rule in catalog
// order wins). Rules are compared against the symbol resolved before
// any rewrite, so a later rule can never re-match an instruction an
// earlier rule already redirected.
func (e *Engine) rewriteMethod(rec *ModuleRecord, imp metadata.Import, module ModuleID, method metadata.Token) bool {
	// The caller's own identity gates the per-rule caller filters.
	caller, ok := resolveMethodDef(imp, method)
	if !ok {
		return false
	}

	var active []activeRule
	for _, integ := range rec.Integrations {
		for _, mr := range integ.MethodReplacements {
			if mr.Caller.MatchesCaller(caller.TypeName, caller.MethodName) {
				active = append(active, activeRule{integration: integ.Name, rule: mr})
			}
		}
	}
	if len(active) == 0 {
		return false
	}

	view, err := e.host.MethodBody(module, method)
	if err != nil {
		slog.Debug("method body import failed",
			"module", module,
			"method", method.String(),
			"error", err)
		return false
	}

	var applied []rewrittenCall
	instrs := view.Instructions()
	for i, instr := range instrs {
		if !instr.Opcode.IsCall() {
			continue
		}
		kind := instr.Operand.Kind()
		if kind != metadata.KindMemberRef && kind != metadata.KindMethodDef {
			continue
		}

		sym, ok := resolveCallTarget(imp, instr.Operand)
		if !ok {
			// Unresolvable operand: leave the call site untouched and
			// keep scanning.
			continue
		}

		for _, ar := range active {
			if sym.TypeName != ar.rule.Target.Type || sym.MethodName != ar.rule.Target.Method {
				continue
			}

			wrapperRef, found := rec.WrapperRef(ar.rule.Wrapper.CacheKey())
			if !found {
				// Preparation caches every applicable rule's wrapper,
				// so a miss here is an internal inconsistency. Never
				// invent a reference; skip the instruction.
				e.reportAnomaly(rec, &EngineError{
					Code:     ErrCodeWrapperMissing,
					Message:  "no cached wrapper reference for matched rule " + ar.integration,
					Module:   module,
					Assembly: rec.AssemblyName,
				})
				break
			}

			if err := view.Replace(i, il.Call, wrapperRef); err != nil {
				slog.Error("instruction replace failed",
					"module", module,
					"method", method.String(),
					"index", i,
					"error", err)
				break
			}
			applied = append(applied, rewrittenCall{
				integration: ar.integration,
				target:      ar.rule.Target,
				wrapper:     ar.rule.Wrapper,
				index:       i,
			})
			// At most one rewrite per instruction per pass.
			break
		}
	}

	if len(applied) == 0 {
		// Zero matches: never commit, so the method body stays
		// byte-for-byte unchanged.
		view.Discard()
		return false
	}

	if err := view.Commit(); err != nil {
		slog.Error("instruction stream commit failed",
			"module", module,
			"method", method.String(),
			"error", err)
		return false
	}

	for _, rw := range applied {
		slog.Debug("call site rewritten",
			"module", module,
			"assembly", rec.AssemblyName,
			"caller_type", caller.TypeName,
			"caller_method", caller.MethodName,
			"integration", rw.integration,
			"target", rw.target.Type+"."+rw.target.Method,
			"wrapper", rw.wrapper.Type+"."+rw.wrapper.Method)
		e.journalRewrite(rec, caller, rw)
	}
	return true
}
