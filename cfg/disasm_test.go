package cfg

import (
	"testing"

	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/jvmops"
)

func TestDisassembleReturn(t *testing.T) {
	code := &classfile.Code{
		MaxStack:  0,
		MaxLocals: 1,
		Bytes:     []byte{jvmops.OpReturn},
	}
	g, err := Disassemble(code, classfile.NewFakePool(), nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(g.EdgesOut[Entry]) != 1 {
		t.Fatalf("expected one edge out of entry, got %d", len(g.EdgesOut[Entry]))
	}
}

func TestDisassembleBranch(t *testing.T) {
	// iconst_0 ; ifeq +6 ; goto +3 ; return (both branches land on the return)
	code := &classfile.Code{
		Bytes: []byte{
			jvmops.OpIConst0,                   // 0
			jvmops.OpIfEq, 0x00, 0x06,           // 1: branch to offset 7
			jvmops.OpGoto, 0x00, 0x03,           // 4: branch to offset 7
			jvmops.OpReturn,                     // 7
		},
	}
	g, err := Disassemble(code, classfile.NewFakePool(), nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(g.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks (entry, branch targets), got %d", len(g.Blocks))
	}
}

func TestDisassembleBadOpcode(t *testing.T) {
	code := &classfile.Code{Bytes: []byte{0xff}}
	if _, err := Disassemble(code, classfile.NewFakePool(), nil); err == nil {
		t.Fatalf("expected an error for an invalid opcode")
	}
}

func TestDisassembleExceptionHandler(t *testing.T) {
	code := &classfile.Code{
		Bytes: []byte{
			jvmops.OpAThrow, // 0: protected region [0,1)
			jvmops.OpReturn, // 1: handler
		},
		Handlers: []classfile.ExceptionHandler{
			{StartPC: 0, EndPC: 1, HandlerPC: 1, CatchType: ""},
		},
	}
	g, err := Disassemble(code, classfile.NewFakePool(), nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	found := false
	for _, e := range g.Edges {
		if e.Kind == EdgeCatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a catch edge from the exception table")
	}
}

func TestDisassembleMalformedGoto(t *testing.T) {
	// goto whose delta computes a target well outside the method's bytecode.
	code := &classfile.Code{
		Bytes: []byte{
			jvmops.OpGoto, 0x7f, 0xff, // 0: goto -> 32767, out of range
		},
	}
	g, err := Disassemble(code, classfile.NewFakePool(), nil)
	if err != nil {
		t.Fatalf("Disassemble should resolve an out-of-range jump to Opaque rather than fail outright: %v", err)
	}

	var jumpEdge *Edge
	for i, e := range g.Edges {
		if e.Kind == EdgeJump && e.From == Entry {
			jumpEdge = &g.Edges[i]
		}
	}
	if jumpEdge == nil {
		t.Fatalf("expected a jump edge out of the entry block")
	}
	if jumpEdge.To != Opaque {
		t.Errorf("an out-of-range target should resolve to Opaque, got block %d", jumpEdge.To)
	}
	if !jumpEdge.Malformed {
		t.Error("the edge should be flagged Malformed")
	}
	if jumpEdge.RawTarget != 32767 {
		t.Errorf("RawTarget should carry the raw computed offset, got %d", jumpEdge.RawTarget)
	}
}
