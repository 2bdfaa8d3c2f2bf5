package cfg

import "github.com/go-jvmtools/classgraph/jvmops"

// decoded is one decode step's result: the instruction itself plus the
// control-flow facts the first disassembly pass needs to know, per
// instruction, whether it splits the block and where it might transfer
// control to.
type decoded struct {
	insn       Instruction
	nextOffset int

	isJump      bool
	conditional bool
	isJsr       bool
	isRet       bool
	isReturn    bool
	isSwitch    bool

	delta int32 // valid when isJump && !isRet

	switchDefault int32
	// switchTargets maps a lookupswitch match value (or a tableswitch case
	// index, offset by low) to its branch delta.
	switchTargets map[int32]int32
}

func isConditionalBranch(opcode byte) bool {
	switch opcode {
	case jvmops.OpIfEq, jvmops.OpIfNe, jvmops.OpIfLt, jvmops.OpIfGe, jvmops.OpIfGt, jvmops.OpIfLe,
		jvmops.OpIfICmpEq, jvmops.OpIfICmpNe, jvmops.OpIfICmpLt, jvmops.OpIfICmpGe, jvmops.OpIfICmpGt, jvmops.OpIfICmpLe,
		jvmops.OpIfACmpEq, jvmops.OpIfACmpNe, jvmops.OpIfNull, jvmops.OpIfNonNull:
		return true
	}
	return false
}

func isReturnOpcode(opcode byte) bool {
	switch opcode {
	case jvmops.OpIReturn, jvmops.OpLReturn, jvmops.OpFReturn, jvmops.OpDReturn, jvmops.OpAReturn, jvmops.OpReturn:
		return true
	}
	return false
}

// decodeAt decodes the single instruction starting at offset in code,
// following one wide (0xc4) prefix if present.
func decodeAt(code []byte, offset int) (decoded, error) {
	if offset < 0 || offset >= len(code) {
		return decoded{}, OutOfMethod{Offset: offset, Target: offset}
	}
	opcode := code[offset]
	if _, err := jvmops.New(opcode); err != nil {
		return decoded{}, BadOpcode{Offset: offset, Opcode: opcode}
	}

	if opcode == jvmops.OpWide {
		return decodeWide(code, offset)
	}
	if opcode == jvmops.OpTableSwitch || opcode == jvmops.OpLookupSwitch {
		return decodeSwitch(code, offset, opcode)
	}

	width := jvmops.OperandWidth(opcode)
	pos := offset + 1
	if pos+width > len(code) {
		return decoded{}, BadOpcode{Offset: offset, Opcode: opcode}
	}
	operand := code[pos : pos+width]
	pos += width

	op, _ := jvmops.New(opcode)
	d := decoded{
		insn: Instruction{Offset: offset, Opcode: opcode, Operand: operand, CanThrow: len(op.RTThrows) > 0},
		nextOffset: pos,
	}

	switch {
	case opcode == jvmops.OpGoto:
		d.isJump = true
		d.delta = jvmops.BranchOffset16(operand)
	case opcode == jvmops.OpGotoW:
		d.isJump = true
		d.delta = jvmops.BranchOffset32(operand)
	case opcode == jvmops.OpJsr:
		d.isJump, d.isJsr = true, true
		d.delta = jvmops.BranchOffset16(operand)
	case opcode == jvmops.OpJsrW:
		d.isJump, d.isJsr = true, true
		d.delta = jvmops.BranchOffset32(operand)
	case opcode == jvmops.OpRet:
		d.isJump, d.isRet = true, true
	case isConditionalBranch(opcode):
		d.isJump, d.conditional = true, true
		d.delta = jvmops.BranchOffset16(operand)
	case isReturnOpcode(opcode):
		d.isReturn = true
	}
	return d, nil
}

func decodeWide(code []byte, offset int) (decoded, error) {
	if offset+1 >= len(code) {
		return decoded{}, BadOpcode{Offset: offset, Opcode: jvmops.OpWide}
	}
	inner := code[offset+1]
	wideOp, ok := jvmops.WideMutation(inner)
	if !ok {
		return decoded{}, BadOpcode{Offset: offset + 1, Opcode: inner}
	}
	width := jvmops.WideOperandWidth(inner)
	pos := offset + 2
	if pos+width > len(code) {
		return decoded{}, BadOpcode{Offset: offset, Opcode: jvmops.OpWide}
	}
	operand := code[pos : pos+width]
	return decoded{
		insn:       Instruction{Offset: offset, Opcode: inner, Operand: operand, CanThrow: len(wideOp.RTThrows) > 0},
		nextOffset: pos + width,
		isJump:     inner == jvmops.OpRet,
		isRet:      inner == jvmops.OpRet,
	}, nil
}

func decodeSwitch(code []byte, offset int, opcode byte) (decoded, error) {
	pos := offset + 1
	for pos%4 != 0 {
		pos++
	}
	readI32 := func() (int32, error) {
		if pos+4 > len(code) {
			return 0, BadOpcode{Offset: offset, Opcode: opcode}
		}
		v := int32(code[pos])<<24 | int32(code[pos+1])<<16 | int32(code[pos+2])<<8 | int32(code[pos+3])
		pos += 4
		return v, nil
	}

	def, err := readI32()
	if err != nil {
		return decoded{}, err
	}

	targets := map[int32]int32{}
	if opcode == jvmops.OpTableSwitch {
		low, err := readI32()
		if err != nil {
			return decoded{}, err
		}
		high, err := readI32()
		if err != nil {
			return decoded{}, err
		}
		for v := low; v <= high; v++ {
			off, err := readI32()
			if err != nil {
				return decoded{}, err
			}
			targets[v] = off
		}
	} else {
		npairs, err := readI32()
		if err != nil {
			return decoded{}, err
		}
		for i := int32(0); i < npairs; i++ {
			match, err := readI32()
			if err != nil {
				return decoded{}, err
			}
			off, err := readI32()
			if err != nil {
				return decoded{}, err
			}
			targets[match] = off
		}
	}

	return decoded{
		insn:          Instruction{Offset: offset, Opcode: opcode, Operand: code[offset+1 : pos]},
		nextOffset:    pos,
		isJump:        true,
		isSwitch:      true,
		switchDefault: def,
		switchTargets: targets,
	}, nil
}
