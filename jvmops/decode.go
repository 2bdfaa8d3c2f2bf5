package jvmops

import "encoding/binary"

// OperandWidth returns the number of operand bytes that follow opcode in a
// method's bytecode, not counting the opcode byte itself, or -1 for the two
// variable-width opcodes (tableswitch, lookupswitch) whose caller must parse
// the padding/table length to know how far to advance. wide-prefixed forms
// are not handled here; call WideOperandWidth for those.
func OperandWidth(opcode byte) int {
	switch opcode {
	case OpBIPush, OpLdc, OpNewArray,
		OpILoad, OpLLoad, OpFLoad, OpDLoad, OpALoad,
		OpIStore, OpLStore, OpFStore, OpDStore, OpAStore, OpRet:
		return 1
	case OpSIPush, OpLdcW, OpLdc2W,
		OpGetStatic, OpPutStatic, OpGetField, OpPutField,
		OpInvokeVirtual, OpInvokeSpecial, OpInvokeStatic,
		OpNew, OpANewArray, OpCheckCast, OpInstanceOf,
		OpIfEq, OpIfNe, OpIfLt, OpIfGe, OpIfGt, OpIfLe,
		OpIfICmpEq, OpIfICmpNe, OpIfICmpLt, OpIfICmpGe, OpIfICmpGt, OpIfICmpLe,
		OpIfACmpEq, OpIfACmpNe, OpGoto, OpJsr,
		OpIfNull, OpIfNonNull, OpIInc:
		return 2
	case OpMultiANewArray:
		return 3
	case OpInvokeInterface, OpInvokeDynamic:
		return 4
	case OpGotoW, OpJsrW:
		return 4
	case OpTableSwitch, OpLookupSwitch:
		return -1
	default:
		return 0
	}
}

// WideOperandWidth returns the operand width for opcode when preceded by a
// wide (0xc4) prefix: always 2 bytes for the local index, plus 2 more for
// iinc's widened constant.
func WideOperandWidth(opcode byte) int {
	if opcode == OpIInc {
		return 4
	}
	return 2
}

// BranchOffset16 decodes a signed 16-bit branch offset, as used by goto,
// if<cond>, and jsr.
func BranchOffset16(operand []byte) int32 {
	return int32(int16(binary.BigEndian.Uint16(operand)))
}

// BranchOffset32 decodes a signed 32-bit branch offset, as used by goto_w
// and jsr_w.
func BranchOffset32(operand []byte) int32 {
	return int32(binary.BigEndian.Uint32(operand))
}

// PoolIndex16 decodes a big-endian two-byte constant-pool index.
func PoolIndex16(operand []byte) uint16 {
	return binary.BigEndian.Uint16(operand)
}

// EncodeBranchOffset16 is the inverse of BranchOffset16, used by the
// assemble package when re-encoding a branch.
func EncodeBranchOffset16(offset int32) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(int16(offset)))
	return buf
}

// EncodeBranchOffset32 is the inverse of BranchOffset32.
func EncodeBranchOffset32(offset int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(offset))
	return buf
}

// EncodePoolIndex16 is the inverse of PoolIndex16.
func EncodePoolIndex16(index uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, index)
	return buf
}
