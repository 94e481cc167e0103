package fieldsig

import (
	"bytes"
	"encoding/hex"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/f3rmion/fysig/bjj"
)

const (
	// PublicKeySize is the length of a compressed public key.
	PublicKeySize = bjj.PointSize
	// SecretKeySize is the length of an encoded secret key.
	SecretKeySize = bjj.ScalarSize
	// SignatureSize is the length of an encoded signature.
	SignatureSize = 2 * fr.Bytes
)

// subgroupOrder is the prime order l of the Baby Jubjub subgroup.
var subgroupOrder = new(big.Int).SetBytes(new(bjj.BJJ).Order())

// PublicKey is a Baby Jubjub point with coordinates in the BN254 scalar
// field. The zero value is an unset key.
//
// Keys built from field elements are only known to be on the curve;
// [Scheme.KeyVerify] checks subgroup membership.
type PublicKey struct {
	point *bjj.Point
}

// IsZero reports whether pk is unset.
func (pk PublicKey) IsZero() bool {
	return pk.point == nil
}

// X returns the x coordinate, or zero for an unset key.
func (pk PublicKey) X() fr.Element {
	if pk.point == nil {
		return fr.Element{}
	}
	x, _ := pk.point.Coordinates()
	return x
}

// Y returns the y coordinate, or zero for an unset key.
func (pk PublicKey) Y() fr.Element {
	if pk.point == nil {
		return fr.Element{}
	}
	_, y := pk.point.Coordinates()
	return y
}

// Elements returns the field-element encoding [x, y], or nil for an
// unset key.
func (pk PublicKey) Elements() []fr.Element {
	if pk.point == nil {
		return nil
	}
	x, y := pk.point.Coordinates()
	return []fr.Element{x, y}
}

// Bytes returns the 32-byte compressed point, or nil for an unset key.
func (pk PublicKey) Bytes() []byte {
	if pk.point == nil {
		return nil
	}
	return pk.point.Bytes()
}

// Equal reports whether pk and other are the same point.
func (pk PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(pk.Bytes(), other.Bytes())
}

// String returns the hex encoding of pk.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk.Bytes())
}

// SecretKey is a scalar in [1, l). The zero value is a sentinel that
// Sign refuses. Copies share the scalar, so Zeroize wipes them all.
type SecretKey struct {
	scalar *bjj.Scalar
}

// Bytes returns the 32-byte big-endian scalar, or nil for the sentinel.
func (sk SecretKey) Bytes() []byte {
	if sk.scalar == nil {
		return nil
	}
	return sk.scalar.Bytes()
}

// Element returns the secret scalar embedded in the BN254 scalar field.
func (sk SecretKey) Element() fr.Element {
	if sk.scalar == nil {
		return fr.Element{}
	}
	return sk.scalar.Field()
}

// IsZero reports whether sk is the unusable sentinel.
func (sk SecretKey) IsZero() bool {
	return sk.scalar == nil || sk.scalar.IsZero()
}

// Zeroize wipes the secret scalar.
func (sk *SecretKey) Zeroize() {
	if sk.scalar != nil {
		sk.scalar.Zeroize()
		sk.scalar = nil
	}
}

// String redacts the key.
func (sk SecretKey) String() string {
	return "fieldsig.SecretKey(redacted)"
}

// GoString redacts the key.
func (sk SecretKey) GoString() string {
	return sk.String()
}

// Signature is the pair (E, S) of field elements: E is the MiMC
// challenge and S = k + E*sk mod l is the response. Signature values are
// comparable with == and usable as map keys.
type Signature struct {
	E fr.Element
	S fr.Element
}

// Elements returns [E, S].
func (sig Signature) Elements() []fr.Element {
	return []fr.Element{sig.E, sig.S}
}

// Bytes returns E || S, each 32 bytes big-endian.
func (sig Signature) Bytes() []byte {
	e, s := sig.E.Bytes(), sig.S.Bytes()
	return append(e[:], s[:]...)
}

// Equal reports whether sig and other are identical.
func (sig Signature) Equal(other Signature) bool {
	return sig == other
}
