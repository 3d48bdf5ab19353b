package il

import (
	"fmt"
	"sync"

	"github.com/weftlabs/weft/internal/metadata"
)

// Method is an in-memory method body. Edit vends Editor views over it;
// a committed view replaces the body wholesale, a discarded view leaves
// it untouched.
type Method struct {
	mu     sync.Mutex
	instrs []Instruction

	// ImportErr, when set, makes Edit fail. Test hook for editor
	// failure paths.
	ImportErr error
}

// NewMethod builds a method body from an instruction sequence.
func NewMethod(instrs ...Instruction) *Method {
	m := &Method{instrs: make([]Instruction, len(instrs))}
	copy(m.instrs, instrs)
	return m
}

// Instructions returns a copy of the current body for assertions.
func (m *Method) Instructions() []Instruction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Instruction, len(m.instrs))
	copy(out, m.instrs)
	return out
}

// Edit imports the body into a fresh editable view.
func (m *Method) Edit() (Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportErr != nil {
		return nil, m.ImportErr
	}
	working := make([]Instruction, len(m.instrs))
	copy(working, m.instrs)
	return &memoryView{method: m, instrs: working}, nil
}

type memoryView struct {
	method *Method
	instrs []Instruction
	closed bool
}

func (v *memoryView) Instructions() []Instruction {
	return v.instrs
}

func (v *memoryView) Replace(index int, op Opcode, operand metadata.Token) error {
	if v.closed {
		return fmt.Errorf("il: view already committed or discarded")
	}
	if index < 0 || index >= len(v.instrs) {
		return fmt.Errorf("il: instruction index %d out of range [0,%d)", index, len(v.instrs))
	}
	v.instrs[index] = Instruction{Opcode: op, Operand: operand}
	return nil
}

func (v *memoryView) Commit() error {
	if v.closed {
		return fmt.Errorf("il: view already committed or discarded")
	}
	v.closed = true
	v.method.mu.Lock()
	defer v.method.mu.Unlock()
	v.method.instrs = v.instrs
	return nil
}

func (v *memoryView) Discard() {
	v.closed = true
}
