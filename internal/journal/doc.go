// Package journal provides a durable event log of engine decisions.
//
// Every consequential decision the engine makes (module prepared,
// module skipped, call site rewritten, internal anomaly) can be
// appended as a row to a SQLite database and inspected later with
// `weft trace`. The journal is strictly optional diagnostics: the
// engine runs identically with a nil journal, and journal write
// failures are logged and swallowed, never propagated into the
// rewriting path.
//
// Uses SQLite with WAL mode for concurrent read access while the
// engine appends.
package journal
