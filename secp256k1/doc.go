// Package secp256k1 implements [group.Group] for the secp256k1 curve on top
// of the decred secp256k1 library.
//
// secp256k1 has cofactor 1, so every on-curve point is in the prime-order
// group and SetBytes only needs the curve check performed by the SEC1
// parser. Points use the 33-byte compressed SEC1 form; the point at
// infinity encodes as 33 zero bytes.
package secp256k1
