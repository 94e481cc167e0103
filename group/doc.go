// Package group defines abstract interfaces for prime-order groups used by
// the Schnorr-style signature schemes in this module.
//
// This package provides three core interfaces:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern. Operations like Add, Mul,
// and ScalarMult set the receiver to the result and return it, allowing
// method chaining while minimizing allocations:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// Operations that can fail return errors rather than panicking.
//
// # Encodings
//
// Scalar and point encodings are canonical: every value has exactly one
// encoding and decoding rejects anything else. Signature schemes rely on
// this for equality, hashing and persistence.
//
// # Implementations
//
// The bjj, secp256k1 and ed25519 packages implement [Group]. Further
// curves only need a Scalar type, a Point type and a factory type.
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Random scalars are uniform over [0, order)
//   - Points outside the prime-order subgroup are rejected in SetBytes
package group
