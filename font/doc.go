// Package font provides text measurement backed by built-in metric
// tables and by parsed OpenType font files.
//
// # Providers
//
// Two measurement providers are available:
//
//   - [Standard] - metric tables for the fourteen base fonts
//     (Helvetica, Times, Courier and their style variants)
//   - [OpenType] - glyph advances read from registered TrueType or
//     OpenType font files
//
// Both satisfy the measurement interface expected by the fitting
// engine:
//
//	m, err := provider.Measure("Helvetica-Bold", 12, "Hello")
//
// # Name Resolution
//
// Document fonts rarely match the base fourteen by exact name.
// [ResolveStandard] maps an arbitrary font name, including subset
// prefixes such as "ABCDEF+Arial-BoldMT", onto the closest base font:
//
//	ResolveStandard("ABCDEF+Arial-BoldMT")  // "Helvetica-Bold"
//	ResolveStandard("Georgia")              // "Times-Roman"
//
// # Fallback
//
// [Fallback] returns a provider that never fails, backed by an
// embedded general-purpose font. It is the safety net used when a
// document names a font no provider can serve.
package font
