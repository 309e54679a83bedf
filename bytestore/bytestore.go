package bytestore

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/caret/internal/mmap"
)

var (
	// ErrIO is returned when the backing file cannot be opened, read, or mapped.
	ErrIO = errors.New("bytestore: io error")
	// ErrEmpty is returned by OpenFile for a zero-length file. It matches ErrIO.
	ErrEmpty = fmt.Errorf("%w: file is empty", ErrIO)
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("bytestore: closed")
)

// Store is a read-only byte region that stays fixed for its lifetime.
type Store interface {
	// Bytes returns the whole region. It returns nil after Close.
	Bytes() []byte
	// Len returns the length of the region in bytes.
	Len() int
	// Name identifies the source (path, blob name, "<stdin>").
	Name() string
	// Close releases the region. It is idempotent.
	Close() error
}

// AccessPattern hints how the region is about to be read.
type AccessPattern = mmap.AccessPattern

// Access patterns accepted by Mapped.Advise.
const (
	Sequential = mmap.AccessSequential
	Random     = mmap.AccessRandom
)

// Mapped is a Store backed by a read-only file mapping.
type Mapped struct {
	m    *mmap.Mapping
	name string
}

// OpenFile maps the file at path read-only.
func OpenFile(path string) (*Mapped, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}
	if m.Size() == 0 {
		_ = m.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return &Mapped{m: m, name: path}, nil
}

// Bytes returns the mapped region, or nil after Close.
func (s *Mapped) Bytes() []byte { return s.m.Bytes() }

// Len returns the mapped size.
func (s *Mapped) Len() int { return s.m.Size() }

// Name returns the file path.
func (s *Mapped) Name() string { return s.name }

// Close unmaps the region.
func (s *Mapped) Close() error { return s.m.Close() }

// Advise passes an access-pattern hint to the kernel. Failures are reported
// but never affect the contents.
func (s *Mapped) Advise(p AccessPattern) error {
	if err := s.m.Advise(p); err != nil {
		if errors.Is(err, mmap.ErrClosed) {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Memory is a Store over a caller-provided slice (stdin, decompressed or
// converted input, fetched blobs). The slice must not be modified afterwards.
type Memory struct {
	data   []byte
	name   string
	closed atomic.Bool
}

// FromBytes wraps data without copying. data may be empty.
func FromBytes(name string, data []byte) *Memory {
	return &Memory{data: data, name: name}
}

// Bytes returns the region, or nil after Close.
func (s *Memory) Bytes() []byte {
	if s.closed.Load() {
		return nil
	}
	return s.data
}

// Len returns the region length.
func (s *Memory) Len() int { return len(s.data) }

// Name returns the source name.
func (s *Memory) Name() string { return s.name }

// Close drops the reference to the region.
func (s *Memory) Close() error {
	s.closed.Store(true)
	return nil
}
