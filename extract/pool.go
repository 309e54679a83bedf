package extract

import "sync"

const maxPooledBuffer = 1 << 20

// Extractor reuses one scratch buffer across Extract calls. Parsed content
// is valid until the next call. Not safe for concurrent use.
type Extractor struct {
	buf []byte
}

// Extract runs Extract with the extractor's scratch buffer.
func (e *Extractor) Extract(line []byte) Outcome {
	o := Extract(line, e.buf)
	if o.Kind == Parsed {
		e.buf = o.Content[:0]
	}
	return o
}

var pool = sync.Pool{
	New: func() any { return &Extractor{buf: make([]byte, 0, 4096)} },
}

// Acquire returns a pooled Extractor.
func Acquire() *Extractor {
	return pool.Get().(*Extractor)
}

// Release returns e to the pool. Oversized buffers are dropped.
func Release(e *Extractor) {
	if cap(e.buf) > maxPooledBuffer {
		return
	}
	e.buf = e.buf[:0]
	pool.Put(e)
}
