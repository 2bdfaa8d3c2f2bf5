package jvmops

// Local variable load/store opcodes. Polymorphic: the pushed/popped type and
// the local index depend on operand bytes (and, for *load_0../*store_3, on
// the implicit index baked into the opcode itself) rather than on a fixed
// Pop/Push signature, so the tracer resolves these directly (trace/step.go)
// rather than through the generic Pop/Push-driven path.
var (
	ILoad = register(Op{Opcode: OpILoad, Mnemonic: "iload", Polymorphic: true, WideMutable: true})
	LLoad = register(Op{Opcode: OpLLoad, Mnemonic: "lload", Polymorphic: true, WideMutable: true})
	FLoad = register(Op{Opcode: OpFLoad, Mnemonic: "fload", Polymorphic: true, WideMutable: true})
	DLoad = register(Op{Opcode: OpDLoad, Mnemonic: "dload", Polymorphic: true, WideMutable: true})
	ALoad = register(Op{Opcode: OpALoad, Mnemonic: "aload", Polymorphic: true, WideMutable: true})

	ILoad0 = register(Op{Opcode: OpILoad0, Mnemonic: "iload_0", Polymorphic: true})
	ILoad1 = register(Op{Opcode: OpILoad1, Mnemonic: "iload_1", Polymorphic: true})
	ILoad2 = register(Op{Opcode: OpILoad2, Mnemonic: "iload_2", Polymorphic: true})
	ILoad3 = register(Op{Opcode: OpILoad3, Mnemonic: "iload_3", Polymorphic: true})

	LLoad0 = register(Op{Opcode: OpLLoad0, Mnemonic: "lload_0", Polymorphic: true})
	LLoad1 = register(Op{Opcode: OpLLoad1, Mnemonic: "lload_1", Polymorphic: true})
	LLoad2 = register(Op{Opcode: OpLLoad2, Mnemonic: "lload_2", Polymorphic: true})
	LLoad3 = register(Op{Opcode: OpLLoad3, Mnemonic: "lload_3", Polymorphic: true})

	FLoad0 = register(Op{Opcode: OpFLoad0, Mnemonic: "fload_0", Polymorphic: true})
	FLoad1 = register(Op{Opcode: OpFLoad1, Mnemonic: "fload_1", Polymorphic: true})
	FLoad2 = register(Op{Opcode: OpFLoad2, Mnemonic: "fload_2", Polymorphic: true})
	FLoad3 = register(Op{Opcode: OpFLoad3, Mnemonic: "fload_3", Polymorphic: true})

	DLoad0 = register(Op{Opcode: OpDLoad0, Mnemonic: "dload_0", Polymorphic: true})
	DLoad1 = register(Op{Opcode: OpDLoad1, Mnemonic: "dload_1", Polymorphic: true})
	DLoad2 = register(Op{Opcode: OpDLoad2, Mnemonic: "dload_2", Polymorphic: true})
	DLoad3 = register(Op{Opcode: OpDLoad3, Mnemonic: "dload_3", Polymorphic: true})

	ALoad0 = register(Op{Opcode: OpALoad0, Mnemonic: "aload_0", Polymorphic: true})
	ALoad1 = register(Op{Opcode: OpALoad1, Mnemonic: "aload_1", Polymorphic: true})
	ALoad2 = register(Op{Opcode: OpALoad2, Mnemonic: "aload_2", Polymorphic: true})
	ALoad3 = register(Op{Opcode: OpALoad3, Mnemonic: "aload_3", Polymorphic: true})

	IStore = register(Op{Opcode: OpIStore, Mnemonic: "istore", Polymorphic: true, WideMutable: true})
	LStore = register(Op{Opcode: OpLStore, Mnemonic: "lstore", Polymorphic: true, WideMutable: true})
	FStore = register(Op{Opcode: OpFStore, Mnemonic: "fstore", Polymorphic: true, WideMutable: true})
	DStore = register(Op{Opcode: OpDStore, Mnemonic: "dstore", Polymorphic: true, WideMutable: true})
	AStore = register(Op{Opcode: OpAStore, Mnemonic: "astore", Polymorphic: true, WideMutable: true})

	IStore0 = register(Op{Opcode: OpIStore0, Mnemonic: "istore_0", Polymorphic: true})
	IStore1 = register(Op{Opcode: OpIStore1, Mnemonic: "istore_1", Polymorphic: true})
	IStore2 = register(Op{Opcode: OpIStore2, Mnemonic: "istore_2", Polymorphic: true})
	IStore3 = register(Op{Opcode: OpIStore3, Mnemonic: "istore_3", Polymorphic: true})

	LStore0 = register(Op{Opcode: OpLStore0, Mnemonic: "lstore_0", Polymorphic: true})
	LStore1 = register(Op{Opcode: OpLStore1, Mnemonic: "lstore_1", Polymorphic: true})
	LStore2 = register(Op{Opcode: OpLStore2, Mnemonic: "lstore_2", Polymorphic: true})
	LStore3 = register(Op{Opcode: OpLStore3, Mnemonic: "lstore_3", Polymorphic: true})

	FStore0 = register(Op{Opcode: OpFStore0, Mnemonic: "fstore_0", Polymorphic: true})
	FStore1 = register(Op{Opcode: OpFStore1, Mnemonic: "fstore_1", Polymorphic: true})
	FStore2 = register(Op{Opcode: OpFStore2, Mnemonic: "fstore_2", Polymorphic: true})
	FStore3 = register(Op{Opcode: OpFStore3, Mnemonic: "fstore_3", Polymorphic: true})

	DStore0 = register(Op{Opcode: OpDStore0, Mnemonic: "dstore_0", Polymorphic: true})
	DStore1 = register(Op{Opcode: OpDStore1, Mnemonic: "dstore_1", Polymorphic: true})
	DStore2 = register(Op{Opcode: OpDStore2, Mnemonic: "dstore_2", Polymorphic: true})
	DStore3 = register(Op{Opcode: OpDStore3, Mnemonic: "dstore_3", Polymorphic: true})

	AStore0 = register(Op{Opcode: OpAStore0, Mnemonic: "astore_0", Polymorphic: true})
	AStore1 = register(Op{Opcode: OpAStore1, Mnemonic: "astore_1", Polymorphic: true})
	AStore2 = register(Op{Opcode: OpAStore2, Mnemonic: "astore_2", Polymorphic: true})
	AStore3 = register(Op{Opcode: OpAStore3, Mnemonic: "astore_3", Polymorphic: true})

	IInc = register(Op{Opcode: OpIInc, Mnemonic: "iinc", Polymorphic: true, WideMutable: true})
)

// LocalIndex reports the implicit local-variable index for the *_0..*_3
// family of load/store opcodes, or -1 if the opcode carries an explicit
// operand byte (non-implicit form) instead.
func LocalIndex(opcode byte) int {
	switch {
	case opcode >= OpILoad0 && opcode <= OpILoad3:
		return int(opcode - OpILoad0)
	case opcode >= OpLLoad0 && opcode <= OpLLoad3:
		return int(opcode - OpLLoad0)
	case opcode >= OpFLoad0 && opcode <= OpFLoad3:
		return int(opcode - OpFLoad0)
	case opcode >= OpDLoad0 && opcode <= OpDLoad3:
		return int(opcode - OpDLoad0)
	case opcode >= OpALoad0 && opcode <= OpALoad3:
		return int(opcode - OpALoad0)
	case opcode >= OpIStore0 && opcode <= OpIStore3:
		return int(opcode - OpIStore0)
	case opcode >= OpLStore0 && opcode <= OpLStore3:
		return int(opcode - OpLStore0)
	case opcode >= OpFStore0 && opcode <= OpFStore3:
		return int(opcode - OpFStore0)
	case opcode >= OpDStore0 && opcode <= OpDStore3:
		return int(opcode - OpDStore0)
	case opcode >= OpAStore0 && opcode <= OpAStore3:
		return int(opcode - OpAStore0)
	}
	return -1
}
