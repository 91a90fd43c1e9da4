// Package segment groups raw positioned text spans into visual lines and
// reading-order blocks with stable identifiers. Grouping is fully
// deterministic: the same span set always produces the same blocks, in the
// same order, with the same IDs.
package segment
