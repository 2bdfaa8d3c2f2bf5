package classfile

import (
	"fmt"

	"github.com/pkg/errors"
)

// ShortRead is returned when fewer bytes were available than a structure's
// declared length required.
type ShortRead struct {
	Wanted int
	Got    int
}

func (e ShortRead) Error() string {
	return fmt.Sprintf("classfile: short read: wanted %d bytes, got %d", e.Wanted, e.Got)
}

// WriteFailed wraps an underlying io error encountered while assembling
// bytecode back out to a writer.
type WriteFailed struct {
	Err error
}

func (e WriteFailed) Error() string {
	return fmt.Sprintf("classfile: write failed: %v", e.Err)
}

func (e WriteFailed) Unwrap() error { return e.Err }

func wrapErr(err error, msg string) error {
	return errors.Wrap(err, msg)
}
