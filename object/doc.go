// Package object builds the typed values a managed runtime keeps on a
// heap: immutable strings with an interning table, reference vectors,
// function prototypes, and byte buffers.
//
// Each type is a thin, tag-checked layer over heap.Handle. Strings and
// sealed buffers own raw payload bytes; vectors and prototype constants
// live entirely in traced references, so the collector keeps their
// elements alive and the write barrier sees every store. Constructors
// return unanchored handles: pin them or link them into a live object
// before the next allocating call.
package object
