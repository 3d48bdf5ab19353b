package il

var opcodeByMnemonic = map[string]Opcode{
	"nop":      Nop,
	"ldarg.0":  Ldarg0,
	"ldarg.1":  Ldarg1,
	"ldarg.2":  Ldarg2,
	"ldarg.3":  Ldarg3,
	"pop":      Pop,
	"call":     Call,
	"ret":      Ret,
	"callvirt": CallVirt,
	"ldstr":    Ldstr,
	"ldnull":   Ldnull,
}

// OpcodeByMnemonic maps a conventional mnemonic back to its opcode.
// Used by snapshot files, which spell instructions by name.
func OpcodeByMnemonic(name string) (Opcode, bool) {
	op, ok := opcodeByMnemonic[name]
	return op, ok
}
