package assemble

import (
	"bytes"
	"testing"

	"github.com/go-jvmtools/classgraph/cfg"
	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/jvmops"
)

func disassembleOrFatal(t *testing.T, code []byte) *cfg.Graph {
	t.Helper()
	g, err := cfg.Disassemble(&classfile.Code{Bytes: code}, classfile.NewFakePool(), nil)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	return g
}

func TestAssembleRoundTripStraightLine(t *testing.T) {
	original := []byte{jvmops.OpIConst0, jvmops.OpIReturn}
	g := disassembleOrFatal(t, original)

	result, err := Assemble(g)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !bytes.Equal(result.Bytes, original) {
		t.Errorf("round trip mismatch: got %v, want %v", result.Bytes, original)
	}
}

func TestAssembleBranchingMethodRedisassembles(t *testing.T) {
	// iconst_0 ; ifeq -> 8 ; iconst_1 ; goto -> 8 ; iconst_2 ; ireturn
	// Every fallthrough already follows layout order, so no synthetic goto
	// is needed here.
	original := []byte{
		jvmops.OpIConst0,
		jvmops.OpIfEq, 0x00, 0x07,
		jvmops.OpIConst1,
		jvmops.OpGoto, 0x00, 0x03,
		jvmops.OpIConst2,
		jvmops.OpIReturn,
	}
	g := disassembleOrFatal(t, original)

	result, err := Assemble(g)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// The reassembled bytecode need not be byte-identical (block order and
	// synthetic gotos may differ); this checks that it re-disassembles
	// cleanly into at least as many blocks as the original.
	g2, err := cfg.Disassemble(&classfile.Code{Bytes: result.Bytes}, classfile.NewFakePool(), nil)
	if err != nil {
		t.Fatalf("re-disassembling assembled output: %v", err)
	}
	if len(g2.Blocks) < len(g.Blocks) {
		t.Errorf("re-disassembled graph lost blocks: got %d, want at least %d", len(g2.Blocks), len(g.Blocks))
	}
}

func TestAssembleRejectsSwitch(t *testing.T) {
	// tableswitch with a single case; default and the one case both target
	// the trailing return at offset 20.
	code := []byte{
		jvmops.OpTableSwitch,
		0, 0, 0, // padding to the next 4-byte boundary (offset 0 -> pos 1..3)
		0, 0, 0, 20, // default = 20
		0, 0, 0, 0, // low = 0
		0, 0, 0, 0, // high = 0
		0, 0, 0, 20, // offsets[0] = 20
		jvmops.OpReturn, // offset 20
	}
	g := disassembleOrFatal(t, code)
	if _, err := Assemble(g); err == nil {
		t.Errorf("expected Assemble to reject a graph containing a tableswitch")
	}
}
