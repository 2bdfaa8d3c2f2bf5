package jvmops

import "github.com/go-jvmtools/classgraph/vtype"

// Array load/store/create opcodes. The typed *aload/*astore forms have a
// fixed signature (pop array+index, push/pop element) but still carry
// RTThrows (NullPointerException, ArrayIndexOutOfBoundsException), so they
// stay Polymorphic:false with an explicit Pop/Push rather than earning a
// tracer special case; newarray/anewarray/multianewarray resolve their
// element/result type from an operand (atype byte or pool index) and are
// Polymorphic.
var (
	IALoad = register(Op{Opcode: OpIALoad, Mnemonic: "iaload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Int)}, Push: vtype.Int, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	LALoad = register(Op{Opcode: OpLALoad, Mnemonic: "laload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Long)}, Push: vtype.Long, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	FALoad = register(Op{Opcode: OpFALoad, Mnemonic: "faload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Float)}, Push: vtype.Float, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	DALoad = register(Op{Opcode: OpDALoad, Mnemonic: "daload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Double)}, Push: vtype.Double, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	BALoad = register(Op{Opcode: OpBALoad, Mnemonic: "baload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Byte)}, Push: vtype.Int, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	CALoad = register(Op{Opcode: OpCALoad, Mnemonic: "caload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Char)}, Push: vtype.Int, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	SALoad = register(Op{Opcode: OpSALoad, Mnemonic: "saload", Pop: []vtype.Type{vtype.Int, classArray(vtype.Short)}, Push: vtype.Int, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})

	// aaload's popped array element type (and hence pushed type) depends on
	// the array's static element type; left Polymorphic.
	AALoad = register(Op{Opcode: OpAALoad, Mnemonic: "aaload", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})

	IAStore = register(Op{Opcode: OpIAStore, Mnemonic: "iastore", Pop: []vtype.Type{vtype.Int, vtype.Int, classArray(vtype.Int)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	LAStore = register(Op{Opcode: OpLAStore, Mnemonic: "lastore", Pop: []vtype.Type{vtype.Long, vtype.Int, classArray(vtype.Long)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	FAStore = register(Op{Opcode: OpFAStore, Mnemonic: "fastore", Pop: []vtype.Type{vtype.Float, vtype.Int, classArray(vtype.Float)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	DAStore = register(Op{Opcode: OpDAStore, Mnemonic: "dastore", Pop: []vtype.Type{vtype.Double, vtype.Int, classArray(vtype.Double)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	BAStore = register(Op{Opcode: OpBAStore, Mnemonic: "bastore", Pop: []vtype.Type{vtype.Int, vtype.Int, classArray(vtype.Byte)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	CAStore = register(Op{Opcode: OpCAStore, Mnemonic: "castore", Pop: []vtype.Type{vtype.Int, vtype.Int, classArray(vtype.Char)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})
	SAStore = register(Op{Opcode: OpSAStore, Mnemonic: "sastore", Pop: []vtype.Type{vtype.Int, vtype.Int, classArray(vtype.Short)}, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException"}})

	AAStore = register(Op{Opcode: OpAAStore, Mnemonic: "aastore", Polymorphic: true, RTThrows: []string{"java/lang/NullPointerException", "java/lang/ArrayIndexOutOfBoundsException", "java/lang/ArrayStoreException"}})

	ArrayLength = register(Op{Opcode: OpArrayLength, Mnemonic: "arraylength", Polymorphic: true, Push: vtype.Int, RTThrows: []string{"java/lang/NullPointerException"}})

	NewArray      = register(Op{Opcode: OpNewArray, Mnemonic: "newarray", Polymorphic: true, RTThrows: []string{"java/lang/NegativeArraySizeException"}})
	ANewArray     = register(Op{Opcode: OpANewArray, Mnemonic: "anewarray", Polymorphic: true, RTThrows: []string{"java/lang/NegativeArraySizeException"}})
	MultiANewArray = register(Op{Opcode: OpMultiANewArray, Mnemonic: "multianewarray", Polymorphic: true, RTThrows: []string{"java/lang/NegativeArraySizeException"}})
)

func classArray(elem vtype.Type) *vtype.Array {
	a, err := vtype.NestedArray(elem, 1)
	if err != nil {
		panic(err)
	}
	return a
}
