// Package il models the instruction-stream editor the engine drives.
//
// The engine never decodes or encodes method bodies itself. It asks the
// host for an editable view of one method's instructions (Editor),
// enumerates (opcode, operand) pairs, replaces single instructions in
// place, and either commits the edited stream back or discards it
// unchanged. Insertion and deletion are deliberately unsupported:
// substituting one instruction's opcode/operand pair is the only edit
// the rewriting engine requires, and keeping the edit surface that
// narrow means the stream's layout (offsets, branch targets, exception
// regions) can never be corrupted by this code.
//
// Method (memory.go) is an in-memory implementation for tests and the
// snapshot simulator.
package il
