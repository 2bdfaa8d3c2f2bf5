package jvmops

import "github.com/go-jvmtools/classgraph/vtype"

// Constant-pushing opcodes: nop, aconst_null, the i/l/f/d const_* family,
// bipush, sipush, ldc/ldc_w/ldc2_w. Grounded on wasm/operators/memory.go's
// per-family var block, generalized from WASM's i32.const/f64.const shape to
// the JVM's much larger constant family.
var (
	Nop        = register(Op{Opcode: OpNop, Mnemonic: "nop"})
	AConstNull = register(Op{Opcode: OpAConstNull, Mnemonic: "aconst_null", Push: vtype.Null})

	IConstM1 = register(Op{Opcode: OpIConstM1, Mnemonic: "iconst_m1", Push: vtype.Int})
	IConst0  = register(Op{Opcode: OpIConst0, Mnemonic: "iconst_0", Push: vtype.Int})
	IConst1  = register(Op{Opcode: OpIConst1, Mnemonic: "iconst_1", Push: vtype.Int})
	IConst2  = register(Op{Opcode: OpIConst2, Mnemonic: "iconst_2", Push: vtype.Int})
	IConst3  = register(Op{Opcode: OpIConst3, Mnemonic: "iconst_3", Push: vtype.Int})
	IConst4  = register(Op{Opcode: OpIConst4, Mnemonic: "iconst_4", Push: vtype.Int})
	IConst5  = register(Op{Opcode: OpIConst5, Mnemonic: "iconst_5", Push: vtype.Int})

	LConst0 = register(Op{Opcode: OpLConst0, Mnemonic: "lconst_0", Push: vtype.Long})
	LConst1 = register(Op{Opcode: OpLConst1, Mnemonic: "lconst_1", Push: vtype.Long})

	FConst0 = register(Op{Opcode: OpFConst0, Mnemonic: "fconst_0", Push: vtype.Float})
	FConst1 = register(Op{Opcode: OpFConst1, Mnemonic: "fconst_1", Push: vtype.Float})
	FConst2 = register(Op{Opcode: OpFConst2, Mnemonic: "fconst_2", Push: vtype.Float})

	DConst0 = register(Op{Opcode: OpDConst0, Mnemonic: "dconst_0", Push: vtype.Double})
	DConst1 = register(Op{Opcode: OpDConst1, Mnemonic: "dconst_1", Push: vtype.Double})

	BIPush = register(Op{Opcode: OpBIPush, Mnemonic: "bipush", Push: vtype.Int})
	SIPush = register(Op{Opcode: OpSIPush, Mnemonic: "sipush", Push: vtype.Int})

	// ldc's pushed type depends on the resolved pool entry (Int, Float,
	// String->Class("java/lang/String"), Class, MethodType, MethodHandle,
	// Dynamic); left Polymorphic for the tracer to resolve against the pool.
	Ldc   = register(Op{Opcode: OpLdc, Mnemonic: "ldc", Polymorphic: true})
	LdcW  = register(Op{Opcode: OpLdcW, Mnemonic: "ldc_w", Polymorphic: true})
	Ldc2W = register(Op{Opcode: OpLdc2W, Mnemonic: "ldc2_w", Polymorphic: true})
)
