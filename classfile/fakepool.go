package classfile

import (
	"fmt"

	"github.com/go-jvmtools/classgraph/vtype"
)

// FakePool is a minimal in-memory ConstantPool, built by hand rather than
// parsed from bytes. It exists for tests in this module (cfg, trace,
// assemble) that need a pool without pulling in a real class-file parser.
type FakePool struct {
	classes      map[Index]string
	utf8s        map[Index]string
	nameAndTypes map[Index][2]string
	methodRefs   map[Index][3]string
	fieldRefs    map[Index][3]string
	ldcs         map[Index]vtype.Type
}

// NewFakePool returns an empty FakePool ready for its Add* methods.
func NewFakePool() *FakePool {
	return &FakePool{
		classes:      map[Index]string{},
		utf8s:        map[Index]string{},
		nameAndTypes: map[Index][2]string{},
		methodRefs:   map[Index][3]string{},
		fieldRefs:    map[Index][3]string{},
		ldcs:         map[Index]vtype.Type{},
	}
}

func (p *FakePool) AddClass(i Index, name string)   { p.classes[i] = name }
func (p *FakePool) AddUtf8(i Index, s string)        { p.utf8s[i] = s }
func (p *FakePool) AddNameAndType(i Index, name, descriptor string) {
	p.nameAndTypes[i] = [2]string{name, descriptor}
}
func (p *FakePool) AddMethodRef(i Index, class, name, descriptor string) {
	p.methodRefs[i] = [3]string{class, name, descriptor}
}
func (p *FakePool) AddFieldRef(i Index, class, name, descriptor string) {
	p.fieldRefs[i] = [3]string{class, name, descriptor}
}
func (p *FakePool) AddLdc(i Index, t vtype.Type) { p.ldcs[i] = t }

func (p *FakePool) Get(i Index) (ConstEntry, bool) { return nil, false }

func (p *FakePool) ClassName(i Index) (string, error) {
	if v, ok := p.classes[i]; ok {
		return v, nil
	}
	return "", fmt.Errorf("classfile: no class at index %d", i)
}

func (p *FakePool) Utf8(i Index) (string, error) {
	if v, ok := p.utf8s[i]; ok {
		return v, nil
	}
	return "", fmt.Errorf("classfile: no utf8 at index %d", i)
}

func (p *FakePool) NameAndType(i Index) (string, string, error) {
	if v, ok := p.nameAndTypes[i]; ok {
		return v[0], v[1], nil
	}
	return "", "", fmt.Errorf("classfile: no name-and-type at index %d", i)
}

func (p *FakePool) MethodRef(i Index) (string, string, string, error) {
	if v, ok := p.methodRefs[i]; ok {
		return v[0], v[1], v[2], nil
	}
	return "", "", "", fmt.Errorf("classfile: no method ref at index %d", i)
}

func (p *FakePool) FieldRef(i Index) (string, string, string, error) {
	if v, ok := p.fieldRefs[i]; ok {
		return v[0], v[1], v[2], nil
	}
	return "", "", "", fmt.Errorf("classfile: no field ref at index %d", i)
}

func (p *FakePool) LdcType(i Index) (vtype.Type, error) {
	if t, ok := p.ldcs[i]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("classfile: no ldc constant at index %d", i)
}
