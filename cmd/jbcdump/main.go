// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command jbcdump disassembles and traces methods described by a jbcdump
// input document (see input.go), printing whichever of headers,
// disassembly, block/edge details, and trace results the given flags ask
// for. It exists to exercise the cfg/trace/assemble pipeline end to end.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"github.com/go-jvmtools/classgraph/cfg"
	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/jvmops"
	"github.com/go-jvmtools/classgraph/trace"
	"github.com/go-jvmtools/classgraph/vtype"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: jbcdump [options] file1.json [file2.json [...]]

ex:
 $> jbcdump -d -t ./Main.json

options:
`,
		)
		flag.PrintDefaults()
		os.Exit(1)
	}
}

var (
	flagVerbose = flag.Bool("v", false, "enable/disable verbose mode")
	flagHeaders = flag.Bool("h", false, "print headers")
	flagDis     = flag.Bool("d", false, "disassemble method bodies")
	flagTrace   = flag.Bool("t", false, "trace method bodies")
	flagDetails = flag.Bool("x", false, "show block/edge details")
)

var color = false

func main() {
	log.SetPrefix("jbcdump: ")
	log.SetFlags(0)

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
	}
	if !*flagHeaders && !*flagDis && !*flagTrace && !*flagDetails {
		flag.Usage()
		log.Printf("at least one of -d, -h, -t or -x must be given")
		os.Exit(1)
	}

	cfg.SetDebugMode(*flagVerbose)
	trace.SetDebugMode(*flagVerbose)

	color = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	for i, fname := range flag.Args() {
		if i > 0 {
			fmt.Println()
		}
		if err := process(os.Stdout, fname); err != nil {
			log.Fatalf("%s: %v", fname, err)
		}
	}
}

func process(out io.Writer, fname string) error {
	cf, err := loadClassFile(fname)
	if err != nil {
		return err
	}
	pool, err := buildPool(cf.Pool)
	if err != nil {
		return err
	}
	this := vtype.NewClass(cf.Class)

	if *flagHeaders {
		printHeaders(out, cf)
	}

	for _, mf := range cf.Methods {
		code, err := buildCode(mf)
		if err != nil {
			return err
		}
		g, err := cfg.Disassemble(code, pool, nil)
		if err != nil {
			return fmt.Errorf("%s%s: disassemble: %w", mf.Name, mf.Descriptor, err)
		}

		if *flagDis {
			printDis(out, mf, g)
		}
		if *flagDetails {
			printDetails(out, mf, g)
		}
		if *flagTrace {
			if err := printTrace(out, this, mf, code, pool, g); err != nil {
				return fmt.Errorf("%s%s: %w", mf.Name, mf.Descriptor, err)
			}
		}
	}
	return nil
}

func printHeaders(out io.Writer, cf *classFile) {
	fmt.Fprintf(out, "%s: class %s\n\n", cf.Class, cf.Class)
	fmt.Fprintf(out, "methods:\n\n")
	for _, mf := range cf.Methods {
		size := len(mf.Bytecode) / 2
		fmt.Fprintf(out, " %-30s static=%-5v init=%-5v bytecode=%d byte(s) handler(s)=%d\n",
			mf.Name+mf.Descriptor, mf.Static, mf.Init, size, len(mf.Handlers))
	}
}

func printDis(out io.Writer, mf methodFile, g *cfg.Graph) {
	fmt.Fprintf(out, "\nmethod %s%s: disassembly\n", mf.Name, mf.Descriptor)
	for _, id := range blockOrder(g) {
		b := g.At(id)
		fmt.Fprintf(out, " block[%d] label=%d\n", id, b.Label)
		for _, insn := range b.Insns {
			printInsn(out, insn)
		}
		if b.Terminator != nil {
			printInsn(out, *b.Terminator)
		}
	}
}

func printInsn(out io.Writer, insn cfg.Instruction) {
	op, err := jvmops.New(insn.Opcode)
	mnemonic := "?"
	if err == nil {
		mnemonic = op.Mnemonic
	}
	fmt.Fprintf(out, "  %06x: %02x % x | %s\n", insn.Offset, insn.Opcode, insn.Operand, mnemonic)
}

func printDetails(out io.Writer, mf methodFile, g *cfg.Graph) {
	fmt.Fprintf(out, "\nmethod %s%s: block/edge details\n", mf.Name, mf.Descriptor)
	for _, id := range blockOrder(g) {
		fmt.Fprintf(out, " block[%d]:\n", id)
		for _, e := range g.Out(id) {
			fmt.Fprintf(out, "  -> block[%d] (%s, insn=%d)\n", e.To, e.Kind, e.Insn)
		}
	}
}

func printTrace(out io.Writer, this *vtype.Class, mf methodFile, code *classfile.Code, pool classfile.ConstantPool, g *cfg.Graph) error {
	fmt.Fprintf(out, "\nmethod %s%s: trace\n", mf.Name, mf.Descriptor)

	initial, err := trace.InitialFrame(this, mf.Static, mf.Init, mf.Descriptor)
	if err != nil {
		return fmt.Errorf("building initial frame: %w", err)
	}
	result, err := trace.Trace(g, code, pool, this, initial, trace.Context{})
	if err != nil {
		fmt.Fprintln(out, colorize(fmt.Sprintf(" divergence: %v", err), 31))
		return nil
	}
	fmt.Fprintf(out, " settled after %d pass(es)\n", result.Passes)

	for _, id := range blockOrder(g) {
		frame, ok := result.Frames[id]
		if !ok {
			continue
		}
		fmt.Fprintf(out, " block[%d]:\n", id)
		fmt.Fprintf(out, "  stack:")
		for _, e := range frame.Stack {
			fmt.Fprintf(out, " %s", describeEntry(e))
		}
		fmt.Fprintln(out)

		var locals []int
		for idx := range frame.Locals {
			locals = append(locals, idx)
		}
		sort.Ints(locals)
		for _, idx := range locals {
			fmt.Fprintf(out, "  local[%d]: %s\n", idx, describeEntry(frame.Locals[idx]))
		}

		var pre, post []int
		for idx := range result.PreLive[id] {
			pre = append(pre, idx)
		}
		for idx := range result.PostLive[id] {
			post = append(post, idx)
		}
		sort.Ints(pre)
		sort.Ints(post)
		fmt.Fprintf(out, "  live in:  %v\n", pre)
		fmt.Fprintf(out, "  live out: %v\n", post)
	}

	for _, s := range result.Subroutines {
		fmt.Fprintf(out, " subroutine: jsr@%d -> block[%d]\n", s.Jsr, s.Return)
	}
	for _, c := range result.Conflicts {
		fmt.Fprintln(out, colorize(fmt.Sprintf(" conflict: %s", c), 31))
	}
	return nil
}

// describeEntry renders one stack/local Entry, highlighting unresolved
// type conflicts in red when stdout is a terminal.
func describeEntry(e *trace.Entry) string {
	s := e.Type.String()
	if len(e.Conflicts) > 0 {
		return colorize(fmt.Sprintf("%s(%d conflict(s))", s, len(e.Conflicts)), 31)
	}
	return s
}

func colorize(s string, code int) string {
	if !color {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, s)
}

// blockOrder lists every block worth printing in byte-offset order. Entry
// (BlockID 0) is included: a method whose first instruction is never a
// jump target has its code folded directly into the Entry block rather
// than a separate one. Return/Rethrow/Opaque are pure sinks and never
// carry instructions, so they're skipped.
func blockOrder(g *cfg.Graph) []cfg.BlockID {
	var ids []cfg.BlockID
	for _, b := range g.Blocks {
		if b.ID == cfg.Return || b.ID == cfg.Rethrow || b.ID == cfg.Opaque {
			continue
		}
		ids = append(ids, b.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return g.At(ids[i]).Label < g.At(ids[j]).Label })
	return ids
}
