// Package exchange converts between the in-memory per-block
// translation mapping and the text formats used to carry block text
// to and from translators and translation tools.
//
// # Formats
//
// Four exchange shapes are supported:
//
//   - Tagged text: one <N>text</N> segment per block, where N is the
//     block's position in global document order. Backslashes, line
//     breaks, and the < delimiter are backslash-escaped inside segment
//     text, so any block text round-trips losslessly. This is the
//     primary format; decoding verifies tag count and ordering against
//     the paired layout document.
//   - Line-delimited parallel text: one segment per line in separate
//     source and target files, with a mapping file tying line numbers
//     to block identifiers.
//   - XLIFF 1.2: one trans-unit per block, for CAT tools.
//   - HTML: one div per block carrying a data-block attribute, for
//     tools that translate markup in place.
//
// # Integrity
//
// Decoding a tagged or parallel file checks the segment count and
// ordering against the document it is paired with. A mismatch means a
// translator added, removed, or reordered segments; decoding fails
// with [*IntegrityError] rather than producing a misaligned mapping.
//
// # Encodings
//
// Translation tools commonly emit UTF-16 with a byte order mark.
// All decoders accept UTF-8 with or without a BOM, UTF-16LE, and
// UTF-16BE input.
package exchange
