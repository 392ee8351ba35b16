// Package bo provides native byte order selection for binary.NumericReader
// and binary.Writer's endian-agnostic helpers.
//
// Selection is architecture-specific via build tags where commonly known,
// and falls back to a portable runtime detection elsewhere.
package bo
