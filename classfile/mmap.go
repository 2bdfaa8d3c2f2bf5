package classfile

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Source is the optional in-place byte source cfg.Disassemble accepts
// alongside a Code attribute. Disassemble does not read from it; it always
// decodes Code.Bytes.
type Source interface {
	io.ReaderAt
}

// MmapSource memory-maps a class file so the CFG builder can read straight
// out of the backing file instead of copying it.
type MmapSource struct {
	f *os.File
	m mmap.MMap
}

// OpenMmap memory-maps the class file at path for read-only access.
func OpenMmap(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapErr(err, "open class file")
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, wrapErr(err, "mmap class file")
	}
	return &MmapSource{f: f, m: m}, nil
}

// ReadAt implements io.ReaderAt against the mapped bytes.
func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(s.m)) {
		return 0, io.EOF
	}
	n := copy(p, s.m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file and closes the underlying descriptor.
func (s *MmapSource) Close() error {
	if err := s.m.Unmap(); err != nil {
		return wrapErr(err, "unmap class file")
	}
	return s.f.Close()
}
