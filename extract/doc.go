// Package extract pulls the textual content out of a JSON record in one pass.
//
// Fingerprinting needs the text of a record, not its structure, so the
// scanner validates the JSON grammar while copying string values into a
// reusable buffer and never builds a tree. Keys, numbers, booleans and nulls
// are skipped; escapes are decoded.
//
// Lines that are not well-formed objects or arrays are not an error for the
// caller: they fall back to their literal bytes so they can still be
// compared.
package extract
