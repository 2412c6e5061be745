// Package conv provides overflow-checked integer conversions for decoding
// untrusted array headers.
//
// Every function returns ErrOverflow (wrapped with the offending value)
// instead of silently truncating.
package conv
