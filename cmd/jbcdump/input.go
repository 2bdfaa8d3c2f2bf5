// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/vtype"
)

// classFile is this tool's input format: a small JSON document naming one
// class, its constant pool entries (only the ones its methods' bytecode
// actually references), and its methods' Code attributes. Real class-file
// envelope parsing is an external concern (classfile.ConstantPool is the
// integration point a real parser would implement); this JSON shape exists
// only so jbcdump has something to disassemble and trace without pulling
// one in.
type classFile struct {
	Class   string       `json:"class"`
	Pool    poolFile     `json:"pool"`
	Methods []methodFile `json:"methods"`
}

type poolFile struct {
	Classes      map[string]string    `json:"classes"`
	Utf8         map[string]string    `json:"utf8"`
	NameAndTypes map[string][2]string `json:"nameAndTypes"`
	MethodRefs   map[string][3]string `json:"methodRefs"`
	FieldRefs    map[string][3]string `json:"fieldRefs"`
	Ldc          map[string]string    `json:"ldc"`
}

type methodFile struct {
	Name       string        `json:"name"`
	Descriptor string        `json:"descriptor"`
	Static     bool          `json:"static"`
	Init       bool          `json:"init"`
	MaxStack   int           `json:"maxStack"`
	MaxLocals  int           `json:"maxLocals"`
	Bytecode   string        `json:"bytecode"` // hex-encoded
	Handlers   []handlerFile `json:"handlers"`
}

type handlerFile struct {
	StartPC   int    `json:"startPC"`
	EndPC     int    `json:"endPC"`
	HandlerPC int    `json:"handlerPC"`
	CatchType string `json:"catchType"`
}

// loadClassFile reads and decodes one jbcdump input document.
func loadClassFile(path string) (*classFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf classFile
	if err := json.Unmarshal(b, &cf); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &cf, nil
}

// buildPool resolves a poolFile into a classfile.FakePool keyed by its
// decimal-string indices.
func buildPool(pf poolFile) (*classfile.FakePool, error) {
	pool := classfile.NewFakePool()
	for k, v := range pf.Classes {
		i, err := parseIndex(k)
		if err != nil {
			return nil, err
		}
		pool.AddClass(i, v)
	}
	for k, v := range pf.Utf8 {
		i, err := parseIndex(k)
		if err != nil {
			return nil, err
		}
		pool.AddUtf8(i, v)
	}
	for k, v := range pf.NameAndTypes {
		i, err := parseIndex(k)
		if err != nil {
			return nil, err
		}
		pool.AddNameAndType(i, v[0], v[1])
	}
	for k, v := range pf.MethodRefs {
		i, err := parseIndex(k)
		if err != nil {
			return nil, err
		}
		pool.AddMethodRef(i, v[0], v[1], v[2])
	}
	for k, v := range pf.FieldRefs {
		i, err := parseIndex(k)
		if err != nil {
			return nil, err
		}
		pool.AddFieldRef(i, v[0], v[1], v[2])
	}
	for k, v := range pf.Ldc {
		i, err := parseIndex(k)
		if err != nil {
			return nil, err
		}
		t, err := parseLdcType(v)
		if err != nil {
			return nil, err
		}
		pool.AddLdc(i, t)
	}
	return pool, nil
}

func parseIndex(s string) (classfile.Index, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid constant pool index %q: %w", s, err)
	}
	return classfile.Index(n), nil
}

// parseLdcType turns one of the few ldc constant spellings this tool
// accepts ("int", "float", "long", "double", "string", "class:<name>")
// into the verification type that constant resolves to.
func parseLdcType(s string) (vtype.Type, error) {
	switch {
	case s == "int":
		return vtype.Int, nil
	case s == "float":
		return vtype.Float, nil
	case s == "long":
		return vtype.Long, nil
	case s == "double":
		return vtype.Double, nil
	case s == "string":
		return vtype.NewClass("java/lang/String"), nil
	case strings.HasPrefix(s, "class:"):
		return vtype.NewClass("java/lang/Class"), nil
	default:
		return nil, fmt.Errorf("unrecognized ldc constant kind %q", s)
	}
}

// buildCode decodes a methodFile's hex bytecode and handler table into a
// classfile.Code.
func buildCode(mf methodFile) (*classfile.Code, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(mf.Bytecode))
	if err != nil {
		return nil, fmt.Errorf("method %s%s: decoding bytecode: %w", mf.Name, mf.Descriptor, err)
	}
	code := &classfile.Code{
		MaxStack:  mf.MaxStack,
		MaxLocals: mf.MaxLocals,
		Bytes:     raw,
	}
	for _, h := range mf.Handlers {
		code.Handlers = append(code.Handlers, classfile.ExceptionHandler{
			StartPC:   h.StartPC,
			EndPC:     h.EndPC,
			HandlerPC: h.HandlerPC,
			CatchType: h.CatchType,
		})
	}
	return code, nil
}
