package il

import (
	"fmt"

	"github.com/weftlabs/weft/internal/metadata"
)

// Opcode is an intermediate-language operation code.
type Opcode uint16

// The opcodes the engine cares about, plus enough filler to build
// realistic method bodies in snapshots and tests. Values follow the
// ECMA-335 single-byte encodings.
const (
	Nop      Opcode = 0x00
	Ldarg0   Opcode = 0x02
	Ldarg1   Opcode = 0x03
	Ldarg2   Opcode = 0x04
	Ldarg3   Opcode = 0x05
	Pop      Opcode = 0x26
	Call     Opcode = 0x28
	Ret      Opcode = 0x2A
	CallVirt Opcode = 0x6F
	Ldstr    Opcode = 0x72
	Ldnull   Opcode = 0x14
)

// String renders known opcodes in their conventional mnemonics.
func (op Opcode) String() string {
	switch op {
	case Nop:
		return "nop"
	case Ldarg0:
		return "ldarg.0"
	case Ldarg1:
		return "ldarg.1"
	case Ldarg2:
		return "ldarg.2"
	case Ldarg3:
		return "ldarg.3"
	case Pop:
		return "pop"
	case Call:
		return "call"
	case Ret:
		return "ret"
	case CallVirt:
		return "callvirt"
	case Ldstr:
		return "ldstr"
	case Ldnull:
		return "ldnull"
	default:
		return fmt.Sprintf("op(0x%02X)", uint16(op))
	}
}

// IsCall reports whether the opcode transfers control to another method
// through a token operand.
func (op Opcode) IsCall() bool {
	return op == Call || op == CallVirt
}

// Instruction is one (opcode, operand) pair. Operand is the nil token
// for operand-less opcodes.
type Instruction struct {
	Opcode  Opcode
	Operand metadata.Token
}

// Editor is an editable view of one method's instruction stream,
// obtained from the host per compilation event. Views are single-use:
// after Commit or Discard the editor must not be touched again.
//
// Editors are never shared across goroutines; each compilation event
// owns its view for the synchronous duration of the rewrite.
type Editor interface {
	// Instructions returns the editor's working copy of the stream.
	// Callers must treat the slice as read-only and apply changes
	// through Replace.
	Instructions() []Instruction

	// Replace substitutes the (opcode, operand) pair at index.
	Replace(index int, op Opcode, operand metadata.Token) error

	// Commit writes the edited stream back to the method body.
	Commit() error

	// Discard drops the view without touching the method body.
	Discard()
}
