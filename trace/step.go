package trace

import (
	"fmt"

	"github.com/go-jvmtools/classgraph/cfg"
	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/jvmops"
	"github.com/go-jvmtools/classgraph/vtype"
)

// thisClass is the type of the method's own class, needed to resolve
// UninitializedThis when an invokespecial <init> call targets `this`
// itself rather than a `new`-produced object.
type thisClass struct {
	Class *vtype.Class
}

// Step applies the effect of one instruction to frame, mutating its stack
// and locals in place. insn carries the raw operand bytes; op is the
// jvmops descriptor already looked up for insn.Opcode. this names the
// enclosing method's class, used only to resolve invokespecial <init> on
// an UninitializedThis receiver. ctx's ConstantPropagation toggle governs
// whether an allocated object's class name is recorded on its Entry.
func Step(insn cfg.Instruction, op jvmops.Op, pool classfile.ConstantPool, this *vtype.Class, frame *Frame, ctx *Context) error {
	offset := insn.Offset
	operand := insn.Operand

	switch insn.Opcode {
	case jvmops.OpNop:
		return nil

	case jvmops.OpAConstNull:
		frame.Push(NewEntry(vtype.Null, offset))
		return nil

	case jvmops.OpPop:
		frame.Pop()
		return nil
	case jvmops.OpPop2:
		frame.Pop()
		frame.Pop()
		return nil

	case jvmops.OpDup:
		v := frame.Pop()
		frame.Push(v)
		frame.Push(v)
		return nil
	case jvmops.OpDupX1:
		v1 := frame.Pop()
		v2 := frame.Pop()
		frame.Push(v1)
		frame.Push(v2)
		frame.Push(v1)
		return nil
	case jvmops.OpDupX2:
		v1 := frame.Pop()
		v2 := frame.Pop()
		v3 := frame.Pop()
		frame.Push(v1)
		frame.Push(v3)
		frame.Push(v2)
		frame.Push(v1)
		return nil
	case jvmops.OpDup2:
		v1 := frame.Pop()
		v2 := frame.Pop()
		frame.Push(v2)
		frame.Push(v1)
		frame.Push(v2)
		frame.Push(v1)
		return nil
	case jvmops.OpDup2X1:
		v1 := frame.Pop()
		v2 := frame.Pop()
		v3 := frame.Pop()
		frame.Push(v2)
		frame.Push(v1)
		frame.Push(v3)
		frame.Push(v2)
		frame.Push(v1)
		return nil
	case jvmops.OpDup2X2:
		v1 := frame.Pop()
		v2 := frame.Pop()
		v3 := frame.Pop()
		v4 := frame.Pop()
		frame.Push(v2)
		frame.Push(v1)
		frame.Push(v4)
		frame.Push(v3)
		frame.Push(v2)
		frame.Push(v1)
		return nil
	case jvmops.OpSwap:
		v1 := frame.Pop()
		v2 := frame.Pop()
		frame.Push(v1)
		frame.Push(v2)
		return nil

	case jvmops.OpLdc:
		idx := classfile.Index(operand[0])
		t, err := pool.LdcType(idx)
		if err != nil {
			return err
		}
		frame.Push(NewEntry(t, offset))
		return nil
	case jvmops.OpLdcW, jvmops.OpLdc2W:
		idx := classfile.Index(jvmops.PoolIndex16(operand))
		t, err := pool.LdcType(idx)
		if err != nil {
			return err
		}
		frame.Push(NewEntry(t, offset))
		return nil

	case jvmops.OpGetStatic, jvmops.OpGetField, jvmops.OpPutStatic, jvmops.OpPutField:
		return stepField(insn, pool, frame)

	case jvmops.OpInvokeVirtual, jvmops.OpInvokeSpecial, jvmops.OpInvokeStatic,
		jvmops.OpInvokeInterface, jvmops.OpInvokeDynamic:
		return stepInvoke(insn, pool, this, frame)

	case jvmops.OpNew:
		idx := classfile.Index(jvmops.PoolIndex16(operand))
		name, err := pool.ClassName(idx)
		if err != nil {
			return err
		}
		var value interface{}
		if ctx.ConstantPropagation {
			value = name
		}
		frame.Push(&Entry{Type: vtype.Uninitialized{Source: offset}, Source: offset, Value: value})
		return nil

	case jvmops.OpJsr, jvmops.OpJsrW:
		frame.Push(NewEntry(vtype.ReturnAddress{Source: offset}, offset))
		return nil

	case jvmops.OpCheckCast:
		idx := classfile.Index(jvmops.PoolIndex16(operand))
		name, err := pool.ClassName(idx)
		if err != nil {
			return err
		}
		v := frame.Pop()
		frame.Push(v.Cast(vtype.NewClass(name)))
		return nil

	case jvmops.OpInstanceOf:
		frame.Pop()
		frame.Push(NewEntry(vtype.Int, offset))
		return nil

	case jvmops.OpAThrow:
		v := frame.Pop()
		frame.Throw(v)
		return nil

	case jvmops.OpMonitorEnter, jvmops.OpMonitorExit:
		frame.Pop()
		return nil

	case jvmops.OpIfACmpEq, jvmops.OpIfACmpNe:
		frame.Pop()
		frame.Pop()
		return nil
	case jvmops.OpIfNull, jvmops.OpIfNonNull:
		frame.Pop()
		return nil

	case jvmops.OpRet:
		e := frame.Load(localOperandIndex(operand))
		if ra, ok := e.Type.(vtype.ReturnAddress); ok {
			frame.RetSource = ra.Source
		}
		return nil

	case jvmops.OpAReturn:
		frame.Return(frame.Pop())
		return nil
	case jvmops.OpIReturn, jvmops.OpLReturn, jvmops.OpFReturn, jvmops.OpDReturn:
		frame.Return(frame.Pop())
		return nil
	case jvmops.OpReturn:
		return nil

	case jvmops.OpIInc:
		frame.Load(localOperandIndex(operand))
		return nil

	case jvmops.OpAALoad:
		frame.Pop() // index
		arr := frame.Pop()
		var elem vtype.Type = vtype.Object
		if a, ok := arr.Type.(*vtype.Array); ok {
			elem = a.Element()
		}
		frame.Push(NewEntry(elem, offset))
		return nil
	case jvmops.OpAAStore:
		frame.Pop() // value
		frame.Pop() // index
		frame.Pop() // arrayref
		return nil

	case jvmops.OpArrayLength:
		frame.Pop()
		frame.Push(NewEntry(vtype.Int, offset))
		return nil

	case jvmops.OpNewArray:
		frame.Pop()
		frame.Push(NewEntry(vtype.NewArray(arrayTypeCode(operand[0])), offset))
		return nil

	case jvmops.OpANewArray:
		idx := classfile.Index(jvmops.PoolIndex16(operand))
		name, err := pool.ClassName(idx)
		if err != nil {
			return err
		}
		frame.Pop()
		frame.Push(NewEntry(vtype.NewArray(vtype.NewClass(name)), offset))
		return nil

	case jvmops.OpMultiANewArray:
		idx := classfile.Index(jvmops.PoolIndex16(operand[:2]))
		name, err := pool.ClassName(idx)
		if err != nil {
			return err
		}
		dims := int(operand[2])
		for i := 0; i < dims; i++ {
			frame.Pop()
		}
		t, err := vtype.ParseFieldDescriptor(name)
		if err != nil {
			t = vtype.NewClass(name)
		}
		frame.Push(NewEntry(t, offset))
		return nil

	default:
		return stepDefault(insn, op, frame)
	}
}

// stepDefault drives the stack effect straight from the op descriptor's
// Pop/Push lists for every opcode with a fixed, statically known shape:
// constant pushes, loads/stores, arithmetic, conversions, comparisons, and
// array element access.
func stepDefault(insn cfg.Instruction, op jvmops.Op, frame *Frame) error {
	if !op.IsValid() {
		return fmt.Errorf("trace: no step rule for opcode 0x%02x", insn.Opcode)
	}

	if idx := jvmops.LocalIndex(insn.Opcode); idx >= 0 || isExplicitLocalOp(insn.Opcode) {
		return stepLocal(insn, op, frame)
	}

	for range op.Pop {
		frame.Pop()
	}
	if op.Push != nil && op.Push != vtype.Void {
		frame.Push(NewEntry(op.Push, insn.Offset))
	}
	return nil
}

func isExplicitLocalOp(opcode byte) bool {
	switch opcode {
	case jvmops.OpILoad, jvmops.OpLLoad, jvmops.OpFLoad, jvmops.OpDLoad, jvmops.OpALoad,
		jvmops.OpIStore, jvmops.OpLStore, jvmops.OpFStore, jvmops.OpDStore, jvmops.OpAStore:
		return true
	default:
		return false
	}
}

func stepLocal(insn cfg.Instruction, op jvmops.Op, frame *Frame) error {
	index := jvmops.LocalIndex(insn.Opcode)
	if index < 0 {
		index = localOperandIndex(insn.Operand)
	}
	// aload/astore carry whatever reference (or returnAddress, for a jsr's
	// result) is actually in the slot; unlike the primitive forms there is
	// no single verification type to narrow to.
	if isAddressOp(insn.Opcode) {
		if isStoreOp(insn.Opcode) {
			frame.Store(index, frame.Pop())
			return nil
		}
		frame.Push(frame.Load(index))
		return nil
	}
	if isStoreOp(insn.Opcode) {
		v := frame.Pop()
		frame.Store(index, v.Cast(localType(insn.Opcode)))
		return nil
	}
	frame.Push(frame.Load(index).Cast(localType(insn.Opcode)))
	return nil
}

func isAddressOp(opcode byte) bool {
	switch {
	case opcode == jvmops.OpALoad || opcode == jvmops.OpAStore:
		return true
	case opcode >= jvmops.OpALoad0 && opcode <= jvmops.OpALoad3:
		return true
	case opcode >= jvmops.OpAStore0 && opcode <= jvmops.OpAStore3:
		return true
	default:
		return false
	}
}

// localOperandIndex reads an explicit local-variable index, which is one
// byte in the unprefixed form or two bytes when the instruction followed a
// wide (0xc4) prefix.
func localOperandIndex(operand []byte) int {
	if len(operand) == 1 {
		return int(operand[0])
	}
	return int(jvmops.PoolIndex16(operand))
}

func isStoreOp(opcode byte) bool {
	switch {
	case opcode == jvmops.OpIStore || opcode == jvmops.OpLStore || opcode == jvmops.OpFStore ||
		opcode == jvmops.OpDStore || opcode == jvmops.OpAStore:
		return true
	case opcode >= jvmops.OpIStore0 && opcode <= jvmops.OpIStore3:
		return true
	case opcode >= jvmops.OpLStore0 && opcode <= jvmops.OpLStore3:
		return true
	case opcode >= jvmops.OpFStore0 && opcode <= jvmops.OpFStore3:
		return true
	case opcode >= jvmops.OpDStore0 && opcode <= jvmops.OpDStore3:
		return true
	case opcode >= jvmops.OpAStore0 && opcode <= jvmops.OpAStore3:
		return true
	default:
		return false
	}
}

func localType(opcode byte) vtype.Type {
	switch {
	case opcode == jvmops.OpILoad || opcode == jvmops.OpIStore ||
		(opcode >= jvmops.OpILoad0 && opcode <= jvmops.OpILoad3) ||
		(opcode >= jvmops.OpIStore0 && opcode <= jvmops.OpIStore3):
		return vtype.Int
	case opcode == jvmops.OpLLoad || opcode == jvmops.OpLStore ||
		(opcode >= jvmops.OpLLoad0 && opcode <= jvmops.OpLLoad3) ||
		(opcode >= jvmops.OpLStore0 && opcode <= jvmops.OpLStore3):
		return vtype.Long
	case opcode == jvmops.OpFLoad || opcode == jvmops.OpFStore ||
		(opcode >= jvmops.OpFLoad0 && opcode <= jvmops.OpFLoad3) ||
		(opcode >= jvmops.OpFStore0 && opcode <= jvmops.OpFStore3):
		return vtype.Float
	case opcode == jvmops.OpDLoad || opcode == jvmops.OpDStore ||
		(opcode >= jvmops.OpDLoad0 && opcode <= jvmops.OpDLoad3) ||
		(opcode >= jvmops.OpDStore0 && opcode <= jvmops.OpDStore3):
		return vtype.Double
	default:
		return vtype.Object
	}
}

func stepField(insn cfg.Instruction, pool classfile.ConstantPool, frame *Frame) error {
	idx := classfile.Index(jvmops.PoolIndex16(insn.Operand))
	_, _, descriptor, err := pool.FieldRef(idx)
	if err != nil {
		return err
	}
	t, err := vtype.ParseFieldDescriptor(descriptor)
	if err != nil {
		return err
	}
	switch insn.Opcode {
	case jvmops.OpGetStatic:
		frame.Push(NewEntry(t, insn.Offset))
	case jvmops.OpPutStatic:
		frame.Pop()
	case jvmops.OpGetField:
		frame.Pop()
		frame.Push(NewEntry(t, insn.Offset))
	case jvmops.OpPutField:
		frame.Pop()
		frame.Pop()
	}
	return nil
}

func stepInvoke(insn cfg.Instruction, pool classfile.ConstantPool, this *vtype.Class, frame *Frame) error {
	idx := classfile.Index(jvmops.PoolIndex16(insn.Operand))
	class, name, descriptor, err := pool.MethodRef(idx)
	if err != nil {
		return err
	}
	args, ret, err := vtype.ParseMethodDescriptor(descriptor)
	if err != nil {
		return err
	}
	for range args {
		frame.Pop()
	}

	isInit := insn.Opcode == jvmops.OpInvokeSpecial && name == "<init>"
	if !isInit {
		if insn.Opcode != jvmops.OpInvokeStatic && insn.Opcode != jvmops.OpInvokeDynamic {
			frame.Pop() // receiver
		}
		if ret != vtype.Void {
			frame.Push(NewEntry(ret, insn.Offset))
		}
		return nil
	}

	receiver := frame.Pop()
	var replacement *Entry
	switch {
	case receiver.Type == vtype.UninitializedThis:
		replacement = NewEntry(this, insn.Offset)
	default:
		if _, ok := receiver.Type.(vtype.Uninitialized); !ok {
			// Already-initialized receiver calling a helper constructor
			// overload directly; nothing to replace.
			return nil
		}
		replacement = NewEntry(vtype.NewClass(class), insn.Offset)
	}
	frame.ReplaceUninitialized(receiver, replacement)
	return nil
}

func arrayTypeCode(code byte) vtype.Type {
	switch code {
	case 4:
		return vtype.Boolean
	case 5:
		return vtype.Char
	case 6:
		return vtype.Float
	case 7:
		return vtype.Double
	case 8:
		return vtype.Byte
	case 9:
		return vtype.Short
	case 10:
		return vtype.Int
	case 11:
		return vtype.Long
	default:
		return vtype.Object
	}
}
