// Package bjj provides a Baby Jubjub elliptic curve implementation of the
// [group.Group] interface.
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254 (also known as alt_bn128). Its coordinates are native BN254 field
// elements, which makes it the curve of choice for signatures that are
// verified inside BN254 arithmetic circuits.
//
// This package wraps the Baby Jubjub implementation from gnark-crypto,
// providing a clean interface that satisfies [group.Group], [group.Scalar],
// and [group.Point]. It also exposes coordinate access
// ([Point.Coordinates], [NewPointFromCoordinates]) and subgroup checks
// ([Point.InSubgroup]) for the field-based signer.
//
// # Curve Parameters
//
// Baby Jubjub is defined by the equation:
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2
//
// where a = 168700 and d = 168696 over the BN254 scalar field.
//
// The curve has cofactor 8 and a prime-order subgroup of size:
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// # Usage
//
//	g := &bjj.BJJ{}
//	scheme := schnorr.New(g)
//
// # Security
//
// [Point.SetBytes] rejects points outside the prime-order subgroup, so the
// cofactor never leaks into decoded keys or commitments.
package bjj
