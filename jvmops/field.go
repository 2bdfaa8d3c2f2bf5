package jvmops

// Field-access and reference-type-checking opcodes. getstatic/putstatic/
// getfield/putfield's signature is the field's own descriptor type, resolved
// against the constant pool at trace time, so all four stay Polymorphic;
// checkcast/instanceof similarly depend on the pool-resolved target type.
var (
	GetStatic = register(Op{Opcode: OpGetStatic, Mnemonic: "getstatic", Polymorphic: true})
	PutStatic = register(Op{Opcode: OpPutStatic, Mnemonic: "putstatic", Polymorphic: true})
	GetField  = register(Op{Opcode: OpGetField, Mnemonic: "getfield", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException"}})
	PutField  = register(Op{Opcode: OpPutField, Mnemonic: "putfield", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException"}})

	CheckCast  = register(Op{Opcode: OpCheckCast, Mnemonic: "checkcast", Polymorphic: true, RTThrows: []string{"java/lang/ClassCastException"}})
	InstanceOf = register(Op{Opcode: OpInstanceOf, Mnemonic: "instanceof", Polymorphic: true})
)
