// Package ed25519 implements [group.Group] for the prime-order subgroup of
// the edwards25519 curve using filippo.io/edwards25519.
//
// Encodings follow RFC 8032: little-endian scalars and 32-byte compressed
// points. Unlike plain Ed25519 decoding, [Point.SetBytes] rejects points
// with a small-order component, so decoded keys and commitments always
// live in the subgroup of order l.
package ed25519
