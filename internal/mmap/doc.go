// Package mmap provides read-only memory-mapped file access for zero-copy I/O.
//
// # Overview
//
// Mapping a corpus lets the dataset layer hand out line views that point
// straight into the page cache. Nothing is read eagerly; the kernel pages
// data in as lines are touched, which keeps multi-gigabyte JSONL files
// cheap to open.
//
// # Usage
//
//	m, err := mmap.Open("train.jsonl")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()              // zero-copy view of the whole file
//	m.Advise(mmap.AccessSequential) // before a full forward scan
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent read access. Close is idempotent and
// guarded by an atomic flag, but callers must make sure no goroutine still
// holds slices from Bytes() once Close returns.
package mmap
