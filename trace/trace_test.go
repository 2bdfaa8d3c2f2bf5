package trace

import (
	"errors"
	"testing"

	"github.com/kr/pretty"

	"github.com/go-jvmtools/classgraph/cfg"
	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/jvmops"
	"github.com/go-jvmtools/classgraph/vtype"
)

// stackShape summarizes a Frame's stack as bare types, for comparison
// against a wanted shape without dragging Entry's Source/Parent/Adjacent
// bookkeeping into the diff.
func stackShape(f *Frame) []vtype.Type {
	shape := make([]vtype.Type, len(f.Stack))
	for i, e := range f.Stack {
		shape[i] = e.Type
	}
	return shape
}

func TestTraceSimpleReturn(t *testing.T) {
	code := &classfile.Code{
		MaxStack:  1,
		MaxLocals: 1,
		Bytes: []byte{
			jvmops.OpIConst1, // 0
			jvmops.OpIReturn, // 1
		},
	}
	pool := classfile.NewFakePool()
	g, err := cfg.Disassemble(code, pool, nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	this := vtype.NewClass("test/Main")
	initial, err := InitialFrame(this, true, false, "()I")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}

	result, err := Trace(g, code, pool, this, initial, Context{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if result.Passes != 1 {
		t.Errorf("expected the simplest possible method to settle in one pass, got %d", result.Passes)
	}
}

func TestTraceBranchMerge(t *testing.T) {
	// iconst_0 ; ifeq -> 8 ; iconst_1 ; goto -> 8 ; iconst_2 ; ireturn
	code := &classfile.Code{
		Bytes: []byte{
			jvmops.OpIConst0,          // 0
			jvmops.OpIfEq, 0x00, 0x07, // 1: branch to 8
			jvmops.OpIConst1,          // 4
			jvmops.OpGoto, 0x00, 0x03, // 5: branch to 8
			jvmops.OpIConst2, // 8
			jvmops.OpIReturn, // 9
		},
	}
	pool := classfile.NewFakePool()
	g, err := cfg.Disassemble(code, pool, nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	this := vtype.NewClass("test/Main")
	initial, err := InitialFrame(this, true, false, "()I")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}

	result, err := Trace(g, code, pool, this, initial, Context{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if result.Passes < 1 {
		t.Errorf("expected at least one pass")
	}
	if len(result.Frames) == 0 {
		t.Errorf("expected at least one traced block to retain a frame")
	}

	var iconst1Block cfg.BlockID
	found := false
	for _, b := range g.Blocks {
		if b.Label == 4 {
			iconst1Block, found = b.ID, true
		}
	}
	if !found {
		t.Fatalf("expected a block starting at offset 4 (iconst_1)")
	}
	got := stackShape(result.Frames[iconst1Block])
	want := []vtype.Type{vtype.Int}
	if len(got) != len(want) || (len(got) > 0 && got[0] != want[0]) {
		t.Errorf("iconst_1 block stack shape mismatch:\n%s", pretty.Diff(want, got))
	}
}

func TestInitialFrameInstanceMethod(t *testing.T) {
	this := vtype.NewClass("test/Main")
	f, err := InitialFrame(this, false, false, "(I)V")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}
	if f.Locals[0].Type != vtype.Type(this) {
		t.Errorf("local 0 should be `this`, got %v", f.Locals[0].Type)
	}
	if f.Locals[1].Type != vtype.Int {
		t.Errorf("local 1 should be the int argument, got %v", f.Locals[1].Type)
	}
}

func TestInitialFrameConstructorUninitializedThis(t *testing.T) {
	this := vtype.NewClass("test/Main")
	f, err := InitialFrame(this, false, true, "()V")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}
	if f.Locals[0].Type != vtype.UninitializedThis {
		t.Errorf("local 0 of a constructor should be UninitializedThis, got %v", f.Locals[0].Type)
	}
}

func TestInvokeSpecialInitReplacesUninitialized(t *testing.T) {
	pool := classfile.NewFakePool()
	pool.AddMethodRef(3, "test/Main", "<init>", "()V")

	frame := NewFrame()
	newEntry := &Entry{Type: vtype.Uninitialized{Source: 0}, Source: 0}
	frame.Push(newEntry)
	frame.Push(newEntry) // dup

	insn := cfg.Instruction{Offset: 4, Opcode: jvmops.OpInvokeSpecial, Operand: jvmops.EncodePoolIndex16(3)}
	op, err := jvmops.New(jvmops.OpInvokeSpecial)
	if err != nil {
		t.Fatalf("jvmops.New: %v", err)
	}
	this := vtype.NewClass("test/Main")
	if err := Step(insn, op, pool, this, frame, &Context{}); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(frame.Stack) != 1 {
		t.Fatalf("expected the remaining dup'd reference to stay on the stack, got %d entries", len(frame.Stack))
	}
	if _, ok := frame.Stack[0].Type.(vtype.Uninitialized); ok {
		t.Errorf("the aliased reference should have been replaced with an initialized type, still %v", frame.Stack[0].Type)
	}
	if frame.Stack[0].Type != vtype.Type(this) {
		t.Errorf("replacement should carry the constructed class's type, got %v", frame.Stack[0].Type)
	}
}

func TestEntryGenerifyWidensInitializedReference(t *testing.T) {
	foo := &Entry{Type: vtype.NewClass("test/Foo"), Source: 3}
	g := foo.Generify()

	if g.Type != vtype.Object {
		t.Errorf("generifying an initialized reference should widen it to Object, got %v", g.Type)
	}
	if !g.Generified {
		t.Error("widened entry should be marked Generified")
	}
	found := false
	for _, a := range g.Adjacent {
		if a == foo {
			found = true
		}
	}
	if !found {
		t.Error("the original entry should be recorded in the widened copy's Adjacent list")
	}
}

func TestEntryGenerifyLeavesPrimitivesAndUninitializedAlone(t *testing.T) {
	cases := []struct {
		name string
		e    *Entry
	}{
		{"primitive", &Entry{Type: vtype.Int, Source: 1}},
		{"uninitialized", &Entry{Type: vtype.Uninitialized{Source: 2}, Source: 2}},
		{"uninitializedThis", &Entry{Type: vtype.UninitializedThis, Source: 0}},
		{"alreadyObject", &Entry{Type: vtype.Object, Source: 5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := c.e.Generify()
			if !vtype.Equal(g.Type, c.e.Type) {
				t.Errorf("%s: type should be unchanged by Generify, want %v got %v", c.name, c.e.Type, g.Type)
			}
			if g.Generified {
				t.Errorf("%s: should not be marked Generified", c.name)
			}
		})
	}
}

func TestFrameGenerifySharesOneCopyAcrossDuplicateSlots(t *testing.T) {
	shared := &Entry{Type: vtype.NewClass("test/Foo"), Source: 0}

	f := NewFrame()
	f.Push(shared)
	f.Store(1, shared)

	g := f.Generify()

	if g.Stack[0] != g.Locals[1] {
		t.Fatalf("the same original entry occupying two slots should generify to the identical copy, got distinct entries %p and %p", g.Stack[0], g.Locals[1])
	}

	replacement := NewEntry(vtype.NewClass("test/Bar"), 9)
	g.ReplaceUninitialized(g.Stack[0], replacement)
	if g.Locals[1] != replacement {
		t.Error("replacing the stack copy should also replace the aliased local copy")
	}
}

func TestTraceJsrRetResolvesSubroutine(t *testing.T) {
	// jsr -> 5 ; iconst_0 ; ireturn ; astore 1 ; ret 1
	code := &classfile.Code{
		MaxStack:  1,
		MaxLocals: 2,
		Bytes: []byte{
			jvmops.OpJsr, 0x00, 0x05, // 0: jsr -> 5
			jvmops.OpIConst0, // 3
			jvmops.OpIReturn, // 4
			jvmops.OpAStore, 0x01, // 5: astore 1
			jvmops.OpRet, 0x01, // 7: ret 1
		},
	}
	pool := classfile.NewFakePool()
	g, err := cfg.Disassemble(code, pool, nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	this := vtype.NewClass("test/Main")
	initial, err := InitialFrame(this, true, false, "()I")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}

	result, err := Trace(g, code, pool, this, initial, Context{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if len(result.Subroutines) != 1 {
		t.Fatalf("expected exactly one resolved subroutine, got %d", len(result.Subroutines))
	}
	if result.Subroutines[0].Jsr != 0 {
		t.Errorf("subroutine should be keyed by the jsr's own offset, got %d", result.Subroutines[0].Jsr)
	}

	var subBlock cfg.BlockID
	found := false
	for _, b := range g.Blocks {
		if b.Label == 5 {
			subBlock, found = b.ID, true
		}
	}
	if !found {
		t.Fatalf("expected a block starting at offset 5 (the subroutine body: astore, ret)")
	}
	if _, ok := result.Frames[subBlock]; !ok {
		t.Error("the subroutine body should have been traced rather than left behind the Opaque sink")
	}
}

func TestTraceMalformedGotoReportsOneBadJump(t *testing.T) {
	// goto with a delta that lands outside the method's bytecode.
	code := &classfile.Code{
		Bytes: []byte{
			jvmops.OpGoto, 0x7f, 0xff, // 0: goto -> way out of range
		},
	}
	pool := classfile.NewFakePool()
	g, err := cfg.Disassemble(code, pool, nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	this := vtype.NewClass("test/Main")
	initial, err := InitialFrame(this, true, false, "()V")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}

	result, err := Trace(g, code, pool, this, initial, Context{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	var badJumps []Conflict
	for _, c := range result.Conflicts {
		if c.Kind == ConflictBadJump {
			badJumps = append(badJumps, c)
		}
	}
	if len(badJumps) != 1 {
		t.Fatalf("expected exactly one BadJump conflict, got %d: %v", len(badJumps), badJumps)
	}
	if badJumps[0].Offset != 0 {
		t.Errorf("conflict should be anchored at the goto's own offset, got %d", badJumps[0].Offset)
	}
}

func TestTraceStrictContextPromotesFirstConflict(t *testing.T) {
	code := &classfile.Code{
		Bytes: []byte{
			jvmops.OpGoto, 0x7f, 0xff, // 0: goto -> way out of range
		},
	}
	pool := classfile.NewFakePool()
	g, err := cfg.Disassemble(code, pool, nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	this := vtype.NewClass("test/Main")
	initial, err := InitialFrame(this, true, false, "()V")
	if err != nil {
		t.Fatalf("InitialFrame: %v", err)
	}

	_, err = Trace(g, code, pool, this, initial, Context{Strict: true})
	if err == nil {
		t.Fatal("expected strict mode to promote the BadJump conflict to an error")
	}
	var strictErr ErrStrictConflict
	if !errors.As(err, &strictErr) {
		t.Fatalf("expected an ErrStrictConflict, got %T: %v", err, err)
	}
	if strictErr.Conflict.Kind != ConflictBadJump {
		t.Errorf("promoted conflict should be the BadJump, got %v", strictErr.Conflict.Kind)
	}
}
