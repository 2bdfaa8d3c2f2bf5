package jvmops

// Method invocation and object-creation opcodes. Every one of these resolves
// its operand count/types against a pool entry (a method descriptor or a
// class reference), so none carries a fixed Pop/Push: the tracer's step.go
// does the resolution, invokespecial <init> most notably (the
// Uninitialized-replacement contract).
var (
	InvokeVirtual   = register(Op{Opcode: OpInvokeVirtual, Mnemonic: "invokevirtual", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException"}})
	InvokeSpecial   = register(Op{Opcode: OpInvokeSpecial, Mnemonic: "invokespecial", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException"}})
	InvokeStatic    = register(Op{Opcode: OpInvokeStatic, Mnemonic: "invokestatic", Polymorphic: true})
	InvokeInterface = register(Op{Opcode: OpInvokeInterface, Mnemonic: "invokeinterface", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException", "java/lang/AbstractMethodError", "java/lang/IncompatibleClassChangeError"}})
	InvokeDynamic   = register(Op{Opcode: OpInvokeDynamic, Mnemonic: "invokedynamic", Polymorphic: true})

	New_ = register(Op{Opcode: OpNew, Mnemonic: "new", Polymorphic: true, LTThrows: []string{"java/lang/InstantiationError"}})
)

// IsInvoke reports whether opcode is one of the five invoke* forms.
func IsInvoke(opcode byte) bool {
	switch opcode {
	case OpInvokeVirtual, OpInvokeSpecial, OpInvokeStatic, OpInvokeInterface, OpInvokeDynamic:
		return true
	}
	return false
}

// IsInvokeInit reports whether opcode is invokespecial, the only invoke form
// that can target an <init> method and trigger Uninitialized replacement.
func IsInvokeInit(opcode byte) bool { return opcode == OpInvokeSpecial }
