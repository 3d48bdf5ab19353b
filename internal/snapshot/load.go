package snapshot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weftlabs/weft/internal/il"
	"github.com/weftlabs/weft/internal/metadata"
)

// Load reads a snapshot file and materializes its modules.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse materializes a snapshot from YAML bytes.
func Parse(data []byte) (*World, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(file.Modules) == 0 {
		return nil, fmt.Errorf("snapshot declares no modules")
	}

	world := &World{Name: file.Name, byID: make(map[uint64]*Module)}
	for _, ms := range file.Modules {
		mod, err := buildModule(ms)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", ms.Assembly, err)
		}
		if _, dup := world.byID[mod.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %d", mod.ID)
		}
		world.Modules = append(world.Modules, mod)
		world.byID[mod.ID] = mod
	}
	return world, nil
}

// buildModule materializes one module in two passes: definitions first
// so bodies can reference any method regardless of declaration order,
// then instruction streams.
func buildModule(ms ModuleSpec) (*Module, error) {
	if ms.Assembly == "" {
		return nil, fmt.Errorf("assembly name is required")
	}

	mod := &Module{
		ID:       ms.ID,
		Assembly: ms.Assembly,
		Scope:    metadata.NewMemory(),
		Methods:  make(map[metadata.Token]*il.Method),
		methods:  make(map[string]metadata.Token),
		typeDefs: make(map[string]metadata.Token),
		typeRefs: make(map[string]metadata.Token),
	}

	// Pass 1: definitions.
	for _, ts := range ms.Types {
		if _, dup := mod.typeDefs[ts.Name]; dup {
			return nil, fmt.Errorf("duplicate type %q", ts.Name)
		}
		typeDef := mod.Scope.AddTypeDef(ts.Name)
		mod.typeDefs[ts.Name] = typeDef
		for _, meth := range ts.Methods {
			key := ts.Name + "." + meth.Name
			if _, dup := mod.methods[key]; dup {
				return nil, fmt.Errorf("duplicate method %q", key)
			}
			mod.methods[key] = mod.Scope.AddMethodDef(typeDef, meth.Name)
		}
	}

	// Pass 2: instruction streams.
	for _, ts := range ms.Types {
		for _, meth := range ts.Methods {
			tok := mod.methods[ts.Name+"."+meth.Name]
			body, err := buildBody(mod, meth.Body)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", ts.Name, meth.Name, err)
			}
			mod.Methods[tok] = body
		}
	}

	if ms.Writable != nil && !*ms.Writable {
		mod.Scope.SetWritable(false)
	}

	return mod, nil
}

func buildBody(mod *Module, specs []InstrSpec) (*il.Method, error) {
	instrs := make([]il.Instruction, 0, len(specs))
	for i, is := range specs {
		op, ok := il.OpcodeByMnemonic(is.Op)
		if !ok {
			return nil, fmt.Errorf("instruction %d: unknown opcode %q", i, is.Op)
		}
		operand, err := buildOperand(mod, is)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		instrs = append(instrs, il.Instruction{Opcode: op, Operand: operand})
	}
	return il.NewMethod(instrs...), nil
}

func buildOperand(mod *Module, is InstrSpec) (metadata.Token, error) {
	switch {
	case is.MemberRef != nil && is.MethodDef != nil:
		return metadata.NilToken, fmt.Errorf("member_ref and method_def are mutually exclusive")

	case is.MemberRef != nil:
		return buildMemberRef(mod, is.MemberRef)

	case is.MethodDef != nil:
		return mod.methodToken(is.MethodDef)

	default:
		return metadata.NilToken, nil
	}
}

func buildMemberRef(mod *Module, spec *MemberRefSpec) (metadata.Token, error) {
	set := 0
	for _, present := range []bool{spec.TypeRef != "", spec.TypeDef != "", spec.MethodDef != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return metadata.NilToken, fmt.Errorf("member_ref needs exactly one of type_ref, type_def, method_def")
	}

	switch {
	case spec.TypeRef != "":
		if spec.Method == "" {
			return metadata.NilToken, fmt.Errorf("member_ref requires method")
		}
		ref, ok := mod.typeRefs[spec.TypeRef]
		if !ok {
			ref = mod.Scope.AddTypeRef(metadata.NilToken, spec.TypeRef)
			mod.typeRefs[spec.TypeRef] = ref
		}
		return mod.Scope.AddMemberRef(ref, spec.Method), nil

	case spec.TypeDef != "":
		if spec.Method == "" {
			return metadata.NilToken, fmt.Errorf("member_ref requires method")
		}
		def, ok := mod.typeDefs[spec.TypeDef]
		if !ok {
			return metadata.NilToken, fmt.Errorf("unknown type %q", spec.TypeDef)
		}
		return mod.Scope.AddMemberRef(def, spec.Method), nil

	default:
		parent, err := mod.methodToken(spec.MethodDef)
		if err != nil {
			return metadata.NilToken, err
		}
		// The method definition carries the authoritative name; the
		// member reference's own name slot mirrors it.
		return mod.Scope.AddMemberRef(parent, spec.MethodDef.Method), nil
	}
}
