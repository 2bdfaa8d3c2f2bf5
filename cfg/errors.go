package cfg

import (
	"fmt"

	"github.com/pkg/errors"
)

// BadOpcode is returned when decode encounters a byte that jvmops.New does
// not recognise.
type BadOpcode struct {
	Offset int
	Opcode byte
}

func (e BadOpcode) Error() string {
	return fmt.Sprintf("cfg: bad opcode 0x%02x at offset %d", e.Opcode, e.Offset)
}

// JumpIntoOperand describes a branch target that lands inside another
// instruction's operand bytes rather than on an instruction boundary.
// Disassemble does not return it: such a target is decoded as the start of
// a data section instead.
type JumpIntoOperand struct {
	Offset int
	Target int
}

func (e JumpIntoOperand) Error() string {
	return fmt.Sprintf("cfg: jump from offset %d into operand bytes at offset %d", e.Offset, e.Target)
}

// DuplicateCodeAttribute describes a method that carries more than one Code
// attribute (a malformed class file). Disassemble takes a single Code and
// does not return it.
type DuplicateCodeAttribute struct {
	Method string
}

func (e DuplicateCodeAttribute) Error() string {
	return fmt.Sprintf("cfg: duplicate Code attribute on method %s", e.Method)
}

// NoCodeAttribute is returned when Disassemble is called on a method that
// has no Code attribute (abstract or native methods carry no bytecode).
type NoCodeAttribute struct {
	Method string
}

func (e NoCodeAttribute) Error() string {
	return fmt.Sprintf("cfg: method %s has no Code attribute", e.Method)
}

// OutOfMethod is returned when sequential decoding runs past the end of the
// method's code array. A jump target outside the code is not reported with
// it; that edge goes to the Opaque block, marked Malformed.
type OutOfMethod struct {
	Offset int
	Target int
}

func (e OutOfMethod) Error() string {
	return fmt.Sprintf("cfg: jump from offset %d targets out-of-method offset %d", e.Offset, e.Target)
}

func wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}
