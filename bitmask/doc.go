// Package bitmask provides the duplicate flag set produced by a scan.
//
// The footprint is ceil(n/64)*8 bytes regardless of how many flags are
// raised.
package bitmask
