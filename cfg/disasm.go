package cfg

import (
	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/internal/stack"
	"github.com/go-jvmtools/classgraph/vtype"
	"golang.org/x/exp/slices"
)

var throwable = vtype.NewClass("java/lang/Throwable")

// section distinguishes the two regions the first pass can land in: pure
// bytecode reached by ordinary control flow, and data reached only because
// an errant (or obfuscated) jump landed mid-instruction-stream. A target
// outside the method entirely is never explored at all — it is left out of
// splits so the second pass resolves its edge to Opaque instead.
type section int

const (
	sectionPure section = iota
	sectionData
)

// Disassemble builds the control flow graph for one method's Code
// attribute. pool is not consulted: catch types come from the exception
// table's CatchType names directly. source, if non-nil, is the mmap-backed class file the Code attribute was
// read from (classfile.MmapSource), accepted here for interface symmetry —
// code.Bytes is always the bytes actually disassembled.
func Disassemble(code *classfile.Code, pool classfile.ConstantPool, source classfile.Source) (*Graph, error) {
	if code == nil {
		return nil, NoCodeAttribute{}
	}
	raw := code.Bytes

	splits := map[int]bool{}
	var targets stack.Stack
	targetSet := map[int]bool{}
	pushTarget := func(off int) {
		if !targetSet[off] {
			targetSet[off] = true
			targets.Push(off)
		}
	}

	for _, h := range code.Handlers {
		splits[h.StartPC] = true
		splits[h.EndPC] = true
		pushTarget(h.HandlerPC)
	}
	delete(splits, 0)

	pureInsns := map[int]decoded{}
	dataInsns := map[int]decoded{}
	dataNote := map[int]bool{} // marks a split introduced only by fallthrough, not an explicit jump target

	visited := map[int]bool{}
	sec := sectionPure
	offset := 0

	for {
		visited[offset] = true
		d, err := decodeAt(raw, offset)
		if err != nil {
			return nil, err
		}

		if sec == sectionPure {
			pureInsns[offset] = d
		} else {
			dataInsns[offset] = d
		}

		split := false
		fallthrough_ := true
		if d.isJump {
			split = true
			fallthrough_ = d.conditional || d.isJsr
			if !d.isRet && !d.isSwitch {
				pushTarget(offset + int(d.delta))
			}
		}
		if d.isSwitch {
			fallthrough_ = false
			pushTarget(offset + int(d.switchDefault))
			keys := make([]int32, 0, len(d.switchTargets))
			for k := range d.switchTargets {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				pushTarget(offset + int(d.switchTargets[k]))
			}
		}

		next := d.nextOffset
		if split {
			splits[next] = true
		}

		if sec == sectionPure {
			if next < len(raw) {
				offset = next
				continue
			}
		} else if !visited[next] && fallthrough_ {
			offset = next
			continue
		} else {
			splits[next] = true
			dataNote[next] = true
		}

		for k := range targetSet {
			if k >= 0 && k < len(raw) {
				splits[k] = true
			}
		}

		found := false
		for targets.Len() > 0 {
			cand := targets.Pop()
			if cand < 0 || cand >= len(raw) {
				// A jump that computed a target outside the method's bytecode
				// entirely: nothing to explore here, and it must not be
				// promoted into splits, so buildBlocks's starts lookup for it
				// misses and the edge resolves to Opaque/Malformed instead.
				continue
			}
			if !visited[cand] {
				offset = cand
				found = true
				break
			}
		}
		if !found {
			break
		}
		sec = sectionData
	}

	return buildBlocks(raw, pureInsns, dataInsns, dataNote, splits, code, pool)
}

func buildBlocks(
	raw []byte,
	pure, data map[int]decoded,
	dataNote map[int]bool,
	splits map[int]bool,
	code *classfile.Code,
	pool classfile.ConstantPool,
) (*Graph, error) {
	g := NewGraph()

	sorted := make([]int, 0, len(splits))
	for off := range splits {
		sorted = append(sorted, off)
	}
	slices.Sort(sorted)

	starts := map[int]BlockID{0: Entry}
	for _, off := range sorted {
		starts[off] = g.Block(off)
	}

	ends := map[BlockID]int{}
	canThrow := map[BlockID]bool{}

	for _, sec := range []map[int]decoded{pure, data} {
		if len(sec) == 0 {
			continue
		}
		offs := make([]int, 0, len(sec))
		for off := range sec {
			offs = append(offs, off)
		}
		slices.Sort(offs)

		block := starts[offs[0]]
		fallthrough_ := true
		var fallthroughInsnOffset = -1

		for _, off := range offs {
			if newBlock, ok := starts[off]; ok && newBlock != block {
				ends[block] = off
				if fallthrough_ {
					g.AddEdge(Edge{Kind: EdgeFallthrough, From: block, To: newBlock, Insn: fallthroughInsnOffset})
					fallthroughInsnOffset = -1
				}
				block = newBlock
			}

			if dataNote[off] {
				continue
			}
			d := sec[off]

			if d.insn.CanThrow {
				canThrow[block] = true
			}

			switch {
			case d.isJump && !d.isSwitch:
				fallthrough_ = d.conditional || d.isJsr
				if fallthrough_ {
					fallthroughInsnOffset = off
				}
				target := Opaque
				malformed := false
				rawTarget := off + int(d.delta)
				if !d.isRet {
					if tb, ok := starts[rawTarget]; ok {
						target = tb
					} else {
						malformed = true
					}
				}
				kind := EdgeJump
				if d.isRet {
					kind = EdgeRet
				}
				g.At(block).Terminator = &d.insn
				g.AddEdge(Edge{Kind: kind, From: block, To: target, Insn: off, Malformed: malformed, RawTarget: rawTarget})

			case d.isSwitch:
				fallthrough_ = false
				g.At(block).Terminator = &d.insn
				defTarget, ok := starts[off+int(d.switchDefault)]
				if !ok {
					defTarget = Opaque
				}
				g.AddEdge(Edge{Kind: EdgeSwitch, From: block, To: defTarget, Insn: off, SwitchIsDefault: true})
				keys := make([]int32, 0, len(d.switchTargets))
				for k := range d.switchTargets {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				for _, v := range keys {
					tb, ok := starts[off+int(d.switchTargets[v])]
					if !ok {
						tb = Opaque
					}
					g.AddEdge(Edge{Kind: EdgeSwitch, From: block, To: tb, Insn: off, SwitchValue: v})
				}

			case d.isReturn:
				g.At(block).Terminator = &d.insn
				g.AddEdge(Edge{Kind: EdgeJump, From: block, To: Return, Insn: off})
				fallthrough_ = false

			default:
				blk := g.At(block)
				blk.Insns = append(blk.Insns, d.insn)
				fallthrough_ = true
			}
		}
	}

	entryBlock := g.At(Entry)
	if len(entryBlock.Insns) == 0 && len(g.EdgesOut[Entry]) == 0 {
		if target, ok := starts[0]; ok {
			g.AddEdge(Edge{Kind: EdgeFallthrough, From: Entry, To: target, Insn: -1})
		}
	}

	g.prune()

	handlesThrowable := map[BlockID]bool{}
	for idx, h := range code.Handlers {
		source, ok := starts[h.StartPC]
		if !ok {
			continue
		}
		target, ok := starts[h.HandlerPC]
		if !ok {
			continue
		}

		catchType := throwable
		if h.CatchType != "" {
			catchType = vtype.NewClass(h.CatchType)
		}
		isThrowable := catchType == throwable

		end, ok := ends[source]
		if !ok {
			end = h.EndPC
		}
		for end <= h.EndPC {
			if isThrowable {
				handlesThrowable[source] = true
			}
			if canThrow[source] {
				g.AddEdge(Edge{Kind: EdgeCatch, From: source, To: target, CatchIndex: idx, CatchType: catchType})
			}
			nextSource, ok := starts[end]
			if !ok {
				break
			}
			source = nextSource
			end, ok = ends[source]
			if !ok {
				break
			}
		}
	}

	for _, b := range g.Blocks {
		if b.ID <= Opaque {
			continue
		}
		if handlesThrowable[b.ID] || !canThrow[b.ID] {
			continue
		}
		g.AddEdge(Edge{Kind: EdgeCatch, From: b.ID, To: Rethrow, CatchIndex: 65536, CatchType: throwable})
	}

	logger.Printf("disassembled %d bytes to %d block(s)", len(raw), len(g.Blocks))
	return g, nil
}
