package snapshot

// File is the top-level YAML document.
type File struct {
	// Name identifies the snapshot in reports.
	Name string `yaml:"name"`

	// Description explains what the snapshot models.
	Description string `yaml:"description,omitempty"`

	// Modules lists the modules to materialize, in load order.
	Modules []ModuleSpec `yaml:"modules"`
}

// ModuleSpec describes one module.
type ModuleSpec struct {
	// ID is the module id reported to the engine. Must be unique
	// within the snapshot.
	ID uint64 `yaml:"id"`

	// Assembly is the module's assembly name.
	Assembly string `yaml:"assembly"`

	// Writable marks the metadata scope writable. Defaults to true;
	// set false to model module kinds that cannot be instrumented.
	Writable *bool `yaml:"writable,omitempty"`

	// Types lists the module's type definitions.
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec describes a type definition and its methods.
type TypeSpec struct {
	Name    string       `yaml:"name"`
	Methods []MethodSpec `yaml:"methods"`
}

// MethodSpec describes a method definition. Body may be empty for
// methods that only exist to be called.
type MethodSpec struct {
	Name string      `yaml:"name"`
	Body []InstrSpec `yaml:"body,omitempty"`
}

// InstrSpec is one instruction. Op is a mnemonic ("call", "ret", ...).
// For call opcodes exactly one operand form is given; other opcodes
// take none.
type InstrSpec struct {
	Op string `yaml:"op"`

	// MemberRef builds a member-reference operand.
	MemberRef *MemberRefSpec `yaml:"member_ref,omitempty"`

	// MethodDef references a method defined in this module directly.
	MethodDef *MethodDefSpec `yaml:"method_def,omitempty"`
}

// MemberRefSpec spells a member reference by its parent shape. Exactly
// one of TypeRef, TypeDef, or MethodDef must be set.
type MemberRefSpec struct {
	// TypeRef parents the reference with a type reference to the named
	// external type.
	TypeRef string `yaml:"type_ref,omitempty"`

	// TypeDef parents the reference with the named local type
	// definition.
	TypeDef string `yaml:"type_def,omitempty"`

	// MethodDef parents the reference with a local method definition,
	// the encoding where the member reference's parent slot holds a
	// method.
	MethodDef *MethodDefSpec `yaml:"method_def,omitempty"`

	// Method is the referenced member's name. Ignored when MethodDef
	// is set (the method definition carries the name).
	Method string `yaml:"method,omitempty"`
}

// MethodDefSpec names a method defined in this module.
type MethodDefSpec struct {
	Type   string `yaml:"type"`
	Method string `yaml:"method"`
}
