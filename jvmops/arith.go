package jvmops

import "github.com/go-jvmtools/classgraph/vtype"

// Arithmetic, logic, shift, and conversion opcodes. All fixed-signature;
// mirrors wasm/operators/memory.go's binOp/unOp helper tables, generalized
// per-type rather than per-wasm-valuetype.
func binOp(opcode byte, mnemonic string, operand vtype.Type) Op {
	return register(Op{Opcode: opcode, Mnemonic: mnemonic, Pop: []vtype.Type{operand, operand}, Push: operand})
}

func unOp(opcode byte, mnemonic string, operand vtype.Type) Op {
	return register(Op{Opcode: opcode, Mnemonic: mnemonic, Pop: []vtype.Type{operand}, Push: operand})
}

func convOp(opcode byte, mnemonic string, from, to vtype.Type) Op {
	return register(Op{Opcode: opcode, Mnemonic: mnemonic, Pop: []vtype.Type{from}, Push: to})
}

var (
	IAdd = binOp(OpIAdd, "iadd", vtype.Int)
	LAdd = binOp(OpLAdd, "ladd", vtype.Long)
	FAdd = binOp(OpFAdd, "fadd", vtype.Float)
	DAdd = binOp(OpDAdd, "dadd", vtype.Double)

	ISub = binOp(OpISub, "isub", vtype.Int)
	LSub = binOp(OpLSub, "lsub", vtype.Long)
	FSub = binOp(OpFSub, "fsub", vtype.Float)
	DSub = binOp(OpDSub, "dsub", vtype.Double)

	IMul = binOp(OpIMul, "imul", vtype.Int)
	LMul = binOp(OpLMul, "lmul", vtype.Long)
	FMul = binOp(OpFMul, "fmul", vtype.Float)
	DMul = binOp(OpDMul, "dmul", vtype.Double)

	IDiv = register(Op{Opcode: OpIDiv, Mnemonic: "idiv", Pop: []vtype.Type{vtype.Int, vtype.Int}, Push: vtype.Int, RTThrows: []string{"java/lang/ArithmeticException"}})
	LDiv = register(Op{Opcode: OpLDiv, Mnemonic: "ldiv", Pop: []vtype.Type{vtype.Long, vtype.Long}, Push: vtype.Long, RTThrows: []string{"java/lang/ArithmeticException"}})
	FDiv = binOp(OpFDiv, "fdiv", vtype.Float)
	DDiv = binOp(OpDDiv, "ddiv", vtype.Double)

	IRem = register(Op{Opcode: OpIRem, Mnemonic: "irem", Pop: []vtype.Type{vtype.Int, vtype.Int}, Push: vtype.Int, RTThrows: []string{"java/lang/ArithmeticException"}})
	LRem = register(Op{Opcode: OpLRem, Mnemonic: "lrem", Pop: []vtype.Type{vtype.Long, vtype.Long}, Push: vtype.Long, RTThrows: []string{"java/lang/ArithmeticException"}})
	FRem = binOp(OpFRem, "frem", vtype.Float)
	DRem = binOp(OpDRem, "drem", vtype.Double)

	INeg = unOp(OpINeg, "ineg", vtype.Int)
	LNeg = unOp(OpLNeg, "lneg", vtype.Long)
	FNeg = unOp(OpFNeg, "fneg", vtype.Float)
	DNeg = unOp(OpDNeg, "dneg", vtype.Double)

	IShl  = register(Op{Opcode: OpIShl, Mnemonic: "ishl", Pop: []vtype.Type{vtype.Int, vtype.Int}, Push: vtype.Int})
	LShl  = register(Op{Opcode: OpLShl, Mnemonic: "lshl", Pop: []vtype.Type{vtype.Int, vtype.Long}, Push: vtype.Long})
	IShr  = register(Op{Opcode: OpIShr, Mnemonic: "ishr", Pop: []vtype.Type{vtype.Int, vtype.Int}, Push: vtype.Int})
	LShr  = register(Op{Opcode: OpLShr, Mnemonic: "lshr", Pop: []vtype.Type{vtype.Int, vtype.Long}, Push: vtype.Long})
	IUShr = register(Op{Opcode: OpIUShr, Mnemonic: "iushr", Pop: []vtype.Type{vtype.Int, vtype.Int}, Push: vtype.Int})
	LUShr = register(Op{Opcode: OpLUShr, Mnemonic: "lushr", Pop: []vtype.Type{vtype.Int, vtype.Long}, Push: vtype.Long})

	IAnd = binOp(OpIAnd, "iand", vtype.Int)
	LAnd = binOp(OpLAnd, "land", vtype.Long)
	IOr  = binOp(OpIOr, "ior", vtype.Int)
	LOr  = binOp(OpLOr, "lor", vtype.Long)
	IXor = binOp(OpIXor, "ixor", vtype.Int)
	LXor = binOp(OpLXor, "lxor", vtype.Long)

	I2L = convOp(OpI2L, "i2l", vtype.Int, vtype.Long)
	I2F = convOp(OpI2F, "i2f", vtype.Int, vtype.Float)
	I2D = convOp(OpI2D, "i2d", vtype.Int, vtype.Double)
	L2I = convOp(OpL2I, "l2i", vtype.Long, vtype.Int)
	L2F = convOp(OpL2F, "l2f", vtype.Long, vtype.Float)
	L2D = convOp(OpL2D, "l2d", vtype.Long, vtype.Double)
	F2I = convOp(OpF2I, "f2i", vtype.Float, vtype.Int)
	F2L = convOp(OpF2L, "f2l", vtype.Float, vtype.Long)
	F2D = convOp(OpF2D, "f2d", vtype.Float, vtype.Double)
	D2I = convOp(OpD2I, "d2i", vtype.Double, vtype.Int)
	D2L = convOp(OpD2L, "d2l", vtype.Double, vtype.Long)
	D2F = convOp(OpD2F, "d2f", vtype.Double, vtype.Float)
	I2B = convOp(OpI2B, "i2b", vtype.Int, vtype.Int)
	I2C = convOp(OpI2C, "i2c", vtype.Int, vtype.Int)
	I2S = convOp(OpI2S, "i2s", vtype.Int, vtype.Int)

	LCmp  = register(Op{Opcode: OpLCmp, Mnemonic: "lcmp", Pop: []vtype.Type{vtype.Long, vtype.Long}, Push: vtype.Int})
	FCmpL = register(Op{Opcode: OpFCmpL, Mnemonic: "fcmpl", Pop: []vtype.Type{vtype.Float, vtype.Float}, Push: vtype.Int})
	FCmpG = register(Op{Opcode: OpFCmpG, Mnemonic: "fcmpg", Pop: []vtype.Type{vtype.Float, vtype.Float}, Push: vtype.Int})
	DCmpL = register(Op{Opcode: OpDCmpL, Mnemonic: "dcmpl", Pop: []vtype.Type{vtype.Double, vtype.Double}, Push: vtype.Int})
	DCmpG = register(Op{Opcode: OpDCmpG, Mnemonic: "dcmpg", Pop: []vtype.Type{vtype.Double, vtype.Double}, Push: vtype.Int})
)
