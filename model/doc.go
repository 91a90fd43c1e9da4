// Package model defines the value types shared by every stage of the
// layout-preserving replacement flow: geometry primitives, text spans,
// lines, blocks, pages, and the persisted layout document that carries a
// page's structure from extraction to rebuild.
//
// All floating point values that cross the interchange boundary are
// rounded to 3 decimal places (see Round3) so that a document written on
// one host decodes to identical values on any other.
package model
