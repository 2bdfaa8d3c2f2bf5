package vtype

import (
	"fmt"
	"strings"
)

// ErrInvalidDescriptor is returned by the descriptor parsers for malformed
// input.
type ErrInvalidDescriptor struct {
	Descriptor string
}

func (e ErrInvalidDescriptor) Error() string {
	return fmt.Sprintf("vtype: invalid descriptor %q", e.Descriptor)
}

// nextField parses one field-descriptor-shaped prefix of s and returns the
// parsed Type plus whatever of s remains.
func nextField(s string) (Type, string, error) {
	if s == "" {
		return nil, "", ErrInvalidDescriptor{s}
	}
	switch s[0] {
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return nil, "", ErrInvalidDescriptor{s}
		}
		return NewClass(s[1:end]), s[end+1:], nil
	case '[':
		elem, rest, err := nextField(s[1:])
		if err != nil {
			return nil, "", err
		}
		return NewArray(elem), rest, nil
	case 'B':
		return Byte, s[1:], nil
	case 'S':
		return Short, s[1:], nil
	case 'I':
		return Int, s[1:], nil
	case 'J':
		return Long, s[1:], nil
	case 'C':
		return Char, s[1:], nil
	case 'F':
		return Float, s[1:], nil
	case 'D':
		return Double, s[1:], nil
	case 'Z':
		return Boolean, s[1:], nil
	case 'V':
		return Void, s[1:], nil
	default:
		return nil, "", ErrInvalidDescriptor{s}
	}
}

// ParseFieldDescriptor parses a single field descriptor, e.g. "I" or
// "[Ljava/lang/String;".
func ParseFieldDescriptor(descriptor string) (Type, error) {
	t, rest, err := nextField(descriptor)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, ErrInvalidDescriptor{descriptor}
	}
	if t == Void {
		return nil, ErrInvalidDescriptor{descriptor}
	}
	return t, nil
}

// ParseMethodDescriptor parses a method descriptor, e.g.
// "(ILjava/lang/String;)V", into its argument types and return type.
func ParseMethodDescriptor(descriptor string) (args []Type, ret Type, err error) {
	if len(descriptor) == 0 || descriptor[0] != '(' {
		return nil, nil, ErrInvalidDescriptor{descriptor}
	}
	end := strings.IndexByte(descriptor, ')')
	if end < 0 {
		return nil, nil, ErrInvalidDescriptor{descriptor}
	}
	rest := descriptor[1:end]
	for rest != "" {
		var t Type
		t, rest, err = nextField(rest)
		if err != nil {
			return nil, nil, err
		}
		if t == Void {
			return nil, nil, ErrInvalidDescriptor{descriptor}
		}
		args = append(args, t)
	}
	ret, trailing, err := nextField(descriptor[end+1:])
	if err != nil {
		return nil, nil, err
	}
	if trailing != "" {
		return nil, nil, ErrInvalidDescriptor{descriptor}
	}
	return args, ret, nil
}
