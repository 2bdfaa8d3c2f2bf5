// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package classfile describes the class-file envelope surface the CFG
// builder and tracer depend on: the constant pool and a method's Code
// attribute. Parsing the envelope itself — the constant pool's on-disk
// encoding, attributes other than Code, field/class structure — is out of
// scope; callers bring their own parser and hand this package only the
// already-resolved Index/ConstantPool/MethodInfo/Code values.
package classfile

import "github.com/go-jvmtools/classgraph/vtype"

// Index identifies a one-based entry in a ConstantPool. Index 0 is never a
// valid entry (mirrors the JVM spec's reserved index 0, and the "unused"
// second slot that follows every Long/Double entry).
type Index uint16

// ConstEntry is one resolved constant-pool entry's shape, exposed just far
// enough for jvmops/cfg/trace to read operand-derived types without parsing
// bytes themselves.
type ConstEntry interface {
	// Tag is the constant_pool_info tag byte identifying which entry kind
	// this is (Class, Utf8, Methodref, ...).
	Tag() byte
}

// ConstantPool is the read-only view the analysis core needs. Implementing
// this over your own parsed class file is the only integration point
// required to use the rest of this module.
type ConstantPool interface {
	Get(i Index) (ConstEntry, bool)

	// ClassName resolves a CONSTANT_Class_info entry to its binary class
	// name (e.g. "java/lang/Object").
	ClassName(i Index) (string, error)
	// Utf8 resolves a CONSTANT_Utf8_info entry to its string value.
	Utf8(i Index) (string, error)
	// NameAndType resolves a CONSTANT_NameAndType_info entry to its name and
	// descriptor.
	NameAndType(i Index) (name, descriptor string, err error)
	// MethodRef resolves a CONSTANT_Methodref_info/InterfaceMethodref_info
	// entry to the owning class name, method name, and descriptor.
	MethodRef(i Index) (class, name, descriptor string, err error)
	// FieldRef resolves a CONSTANT_Fieldref_info entry to the owning class
	// name, field name, and descriptor.
	FieldRef(i Index) (class, name, descriptor string, err error)

	// LdcType resolves the constant an ldc/ldc_w/ldc2_w instruction's
	// operand names to the verification type it pushes: Int/Float/Long/
	// Double for numeric constants, String for CONSTANT_String, Class for
	// CONSTANT_Class (loading a Class object), MethodType/MethodHandle
	// entries resolve to java/lang/invoke's respective classes.
	LdcType(i Index) (vtype.Type, error)
}
