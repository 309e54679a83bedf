// Package fingerprint implements SimHash over byte shingles.
//
// Similar inputs share most shingles and therefore produce fingerprints a
// few bits apart; unrelated inputs land about 32 bits apart. The digest is
// lossy by construction: distinct contents can collide.
package fingerprint
