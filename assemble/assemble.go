// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assemble re-encodes a cfg.Graph back into a method's raw
// bytecode vector: the inverse of cfg.Disassemble. Blocks are emitted in
// label order; a synthetic goto is inserted wherever a block's fallthrough
// successor is not the block immediately following it in that order.
package assemble

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-jvmtools/classgraph/cfg"
	"github.com/go-jvmtools/classgraph/jvmops"
)

// Result is the re-encoded bytecode vector plus the offset each block ended
// up at, needed to fix up branch operands and the exception table.
type Result struct {
	Bytes       []byte
	BlockOffset map[cfg.BlockID]int
}

// Assemble walks g's Entry block and then its non-sentinel blocks in
// ascending label order and
// re-emits their instructions, patching every branch/switch operand to the
// new offsets and inserting a goto wherever layout order and the graph's
// fallthrough edges disagree.
// Assemble does not re-encode tableswitch/lookupswitch padding and operand
// tables; a graph containing one is rejected rather than silently producing
// a malformed switch.
func Assemble(g *cfg.Graph) (*Result, error) {
	order := blockOrder(g)

	// First lay out blocks assuming no synthetic gotos are needed, then
	// fix up as we discover fallthrough mismatches; two passes are enough
	// because inserting a goto never changes any other block's layout
	// order, only its own length.
	layout := make([]cfg.BlockID, 0, len(order))
	needsGoto := make(map[cfg.BlockID]cfg.BlockID)
	for i, id := range order {
		layout = append(layout, id)
		if i == len(order)-1 {
			continue
		}
		next := order[i+1]
		target, ok := fallthroughTarget(g, id)
		if ok && target != next {
			needsGoto[id] = target
		}
	}

	offsets := make(map[cfg.BlockID]int, len(layout))
	buf := new(bytes.Buffer)
	// gotoFixups records where a synthetic goto's 2-byte operand lives in
	// buf and which block it must end up pointing at.
	type fixup struct {
		pos    int
		source int // byte offset of the goto itself, for a relative delta
		target cfg.BlockID
	}
	var fixups []fixup
	var branchFixups []fixup

	for _, id := range layout {
		offsets[id] = buf.Len()
		b := g.At(id)
		for _, insn := range b.Insns {
			buf.WriteByte(insn.Opcode)
			buf.Write(insn.Operand)
		}
		if t := b.Terminator; t != nil {
			if t.Opcode == jvmops.OpTableSwitch || t.Opcode == jvmops.OpLookupSwitch {
				return nil, fmt.Errorf("assemble: re-encoding opcode 0x%02x (tableswitch/lookupswitch) is not supported", t.Opcode)
			}
			start := buf.Len()
			buf.WriteByte(t.Opcode)
			buf.Write(t.Operand)
			if isBranchOpcode(t.Opcode) {
				branchFixups = append(branchFixups, fixup{pos: start + 1, source: start, target: branchTargetBlock(g, id, t.Offset)})
			}
		}
		if target, ok := needsGoto[id]; ok {
			start := buf.Len()
			buf.WriteByte(jvmops.OpGoto)
			buf.Write([]byte{0, 0})
			fixups = append(fixups, fixup{pos: start + 1, source: start, target: target})
		}
	}

	out := buf.Bytes()
	for _, f := range fixups {
		targetOffset, ok := offsets[f.target]
		if !ok {
			return nil, fmt.Errorf("assemble: goto targets unknown block %d", f.target)
		}
		delta := int32(targetOffset - f.source)
		copy(out[f.pos:f.pos+2], jvmops.EncodeBranchOffset16(delta))
	}
	for _, f := range branchFixups {
		if f.target < 0 {
			continue
		}
		targetOffset, ok := offsets[cfg.BlockID(f.target)]
		if !ok {
			continue
		}
		delta := int32(targetOffset - f.source)
		copy(out[f.pos:f.pos+2], jvmops.EncodeBranchOffset16(delta))
	}

	return &Result{Bytes: out, BlockOffset: offsets}, nil
}

// blockOrder returns every block worth re-emitting, sorted by its original
// byte-offset label, preserving the method's original layout. Entry
// (BlockID 0) is included: a method whose first instruction is never a
// jump target has its code folded directly into the Entry block rather
// than a separate one. Return/Rethrow/Opaque are pure sinks and never
// carry instructions, so they're excluded.
func blockOrder(g *cfg.Graph) []cfg.BlockID {
	var ids []cfg.BlockID
	for _, b := range g.Blocks {
		if b.ID == cfg.Return || b.ID == cfg.Rethrow || b.ID == cfg.Opaque {
			continue
		}
		ids = append(ids, b.ID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return g.At(ids[i]).Label < g.At(ids[j]).Label
	})
	return ids
}

// fallthroughTarget returns the block id's EdgeFallthrough edge points to,
// if it has one.
func fallthroughTarget(g *cfg.Graph, id cfg.BlockID) (cfg.BlockID, bool) {
	for _, e := range g.Out(id) {
		if e.Kind == cfg.EdgeFallthrough {
			return e.To, true
		}
	}
	return 0, false
}

func isBranchOpcode(opcode byte) bool {
	switch opcode {
	case jvmops.OpIfEq, jvmops.OpIfNe, jvmops.OpIfLt, jvmops.OpIfGe, jvmops.OpIfGt, jvmops.OpIfLe,
		jvmops.OpIfICmpEq, jvmops.OpIfICmpNe, jvmops.OpIfICmpLt, jvmops.OpIfICmpGe, jvmops.OpIfICmpGt, jvmops.OpIfICmpLe,
		jvmops.OpIfACmpEq, jvmops.OpIfACmpNe, jvmops.OpIfNull, jvmops.OpIfNonNull, jvmops.OpGoto:
		return true
	}
	return false
}

// branchTargetBlock finds the block a jump/conditional-branch instruction
// at offset originOffset (inside block origin) transfers to, via the
// graph's EdgeJump edge recorded for that instruction.
func branchTargetBlock(g *cfg.Graph, origin cfg.BlockID, originOffset int) int {
	for _, e := range g.Out(origin) {
		if e.Kind == cfg.EdgeJump && e.Insn == originOffset {
			return int(e.To)
		}
	}
	return -1
}
