package jvmops

import "github.com/go-jvmtools/classgraph/vtype"

// Stack-shuffle, control-flow, and return opcodes. The dup* family's exact
// push pattern depends on whether the top value(s) are wide.
func branch(opcode byte, mnemonic string, pop ...vtype.Type) Op {
	return register(Op{Opcode: opcode, Mnemonic: mnemonic, Pop: pop})
}

var (
	Pop_  = register(Op{Opcode: OpPop, Mnemonic: "pop", Polymorphic: true})
	Pop2  = register(Op{Opcode: OpPop2, Mnemonic: "pop2", Polymorphic: true})
	Dup   = register(Op{Opcode: OpDup, Mnemonic: "dup", Polymorphic: true})
	DupX1 = register(Op{Opcode: OpDupX1, Mnemonic: "dup_x1", Polymorphic: true})
	DupX2 = register(Op{Opcode: OpDupX2, Mnemonic: "dup_x2", Polymorphic: true})
	Dup2   = register(Op{Opcode: OpDup2, Mnemonic: "dup2", Polymorphic: true})
	Dup2X1 = register(Op{Opcode: OpDup2X1, Mnemonic: "dup2_x1", Polymorphic: true})
	Dup2X2 = register(Op{Opcode: OpDup2X2, Mnemonic: "dup2_x2", Polymorphic: true})
	Swap  = register(Op{Opcode: OpSwap, Mnemonic: "swap", Polymorphic: true})

	IfEq = branch(OpIfEq, "ifeq", vtype.Int)
	IfNe = branch(OpIfNe, "ifne", vtype.Int)
	IfLt = branch(OpIfLt, "iflt", vtype.Int)
	IfGe = branch(OpIfGe, "ifge", vtype.Int)
	IfGt = branch(OpIfGt, "ifgt", vtype.Int)
	IfLe = branch(OpIfLe, "ifle", vtype.Int)

	IfICmpEq = branch(OpIfICmpEq, "if_icmpeq", vtype.Int, vtype.Int)
	IfICmpNe = branch(OpIfICmpNe, "if_icmpne", vtype.Int, vtype.Int)
	IfICmpLt = branch(OpIfICmpLt, "if_icmplt", vtype.Int, vtype.Int)
	IfICmpGe = branch(OpIfICmpGe, "if_icmpge", vtype.Int, vtype.Int)
	IfICmpGt = branch(OpIfICmpGt, "if_icmpgt", vtype.Int, vtype.Int)
	IfICmpLe = branch(OpIfICmpLe, "if_icmple", vtype.Int, vtype.Int)

	// aref-comparing forms are Polymorphic since Pop needs Top, not a fixed
	// reference kind (anything reference-shaped, including Null, compares).
	IfACmpEq = register(Op{Opcode: OpIfACmpEq, Mnemonic: "if_acmpeq", Polymorphic: true})
	IfACmpNe = register(Op{Opcode: OpIfACmpNe, Mnemonic: "if_acmpne", Polymorphic: true})
	IfNull   = register(Op{Opcode: OpIfNull, Mnemonic: "ifnull", Polymorphic: true})
	IfNonNull = register(Op{Opcode: OpIfNonNull, Mnemonic: "ifnonnull", Polymorphic: true})

	Goto  = register(Op{Opcode: OpGoto, Mnemonic: "goto"})
	GotoW = register(Op{Opcode: OpGotoW, Mnemonic: "goto_w"})
	Jsr   = register(Op{Opcode: OpJsr, Mnemonic: "jsr", Push: vtype.ReturnAddress{}})
	JsrW  = register(Op{Opcode: OpJsrW, Mnemonic: "jsr_w", Push: vtype.ReturnAddress{}})
	Ret   = register(Op{Opcode: OpRet, Mnemonic: "ret", Polymorphic: true, WideMutable: true})

	TableSwitch  = register(Op{Opcode: OpTableSwitch, Mnemonic: "tableswitch", Pop: []vtype.Type{vtype.Int}})
	LookupSwitch = register(Op{Opcode: OpLookupSwitch, Mnemonic: "lookupswitch", Pop: []vtype.Type{vtype.Int}})

	IReturn = register(Op{Opcode: OpIReturn, Mnemonic: "ireturn", Pop: []vtype.Type{vtype.Int}})
	LReturn = register(Op{Opcode: OpLReturn, Mnemonic: "lreturn", Pop: []vtype.Type{vtype.Long}})
	FReturn = register(Op{Opcode: OpFReturn, Mnemonic: "freturn", Pop: []vtype.Type{vtype.Float}})
	DReturn = register(Op{Opcode: OpDReturn, Mnemonic: "dreturn", Pop: []vtype.Type{vtype.Double}})
	AReturn = register(Op{Opcode: OpAReturn, Mnemonic: "areturn", Polymorphic: true})
	Return  = register(Op{Opcode: OpReturn, Mnemonic: "return"})

	AThrow = register(Op{Opcode: OpAThrow, Mnemonic: "athrow", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException"}})

	MonitorEnter = register(Op{Opcode: OpMonitorEnter, Mnemonic: "monitorenter", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException"}})
	MonitorExit  = register(Op{Opcode: OpMonitorExit, Mnemonic: "monitorexit", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException", "java/lang/IllegalMonitorStateException"}})

	Wide = register(Op{Opcode: OpWide, Mnemonic: "wide", Polymorphic: true})
)
