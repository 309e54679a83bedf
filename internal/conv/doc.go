// Package conv provides checked integer conversions.
//
// Use cases:
//   - Blob sizes reported as int64 that must size a []byte
//   - Byte counts parsed as uint64 that are stored as int64 limits
//
// For conversions that are provably safe by domain constraints (loop
// indices, bounded counters), use direct type casts instead.
package conv
