package fieldsig

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/f3rmion/fysig/bjj"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// chunkSize is the number of bytes packed into one message element. 31
// bytes always fit below the field modulus.
const chunkSize = fr.Bytes - 1

// ParsePublicKey decodes a compressed public key. The encoding must be
// canonical and the point must lie in the prime-order subgroup.
func ParsePublicKey(data []byte) (PublicKey, error) {
	p, err := curve.NewPoint().SetBytes(data)
	if err != nil {
		return PublicKey{}, signature.NewError(signature.ErrVerification, "fieldsig.ParsePublicKey", err)
	}
	return PublicKey{point: p.(*bjj.Point)}, nil
}

// PublicKeyFromElements builds a public key from affine coordinates. Only
// the curve equation is checked; run KeyVerify before trusting the key.
func PublicKeyFromElements(x, y fr.Element) (PublicKey, error) {
	p, err := bjj.NewPointFromCoordinates(x, y)
	if err != nil {
		return PublicKey{}, signature.NewError(signature.ErrVerification, "fieldsig.PublicKeyFromElements", err)
	}
	return PublicKey{point: p}, nil
}

// ParseSecretKey decodes a 32-byte big-endian secret key in [1, l).
func ParseSecretKey(data []byte) (SecretKey, error) {
	const op = "fieldsig.ParseSecretKey"
	x, err := curve.NewScalar().SetBytes(data)
	if err != nil {
		return SecretKey{}, signature.NewError(signature.ErrVerification, op, err)
	}
	if x.IsZero() {
		return SecretKey{}, signature.Errorf(signature.ErrVerification, op, "secret key is zero")
	}
	return SecretKey{scalar: x.(*bjj.Scalar)}, nil
}

// ParseSignature decodes e || s. Both halves must be canonical field
// elements and s must be below the subgroup order.
func ParseSignature(data []byte) (Signature, error) {
	const op = "fieldsig.ParseSignature"
	if len(data) != SignatureSize {
		return Signature{}, signature.Errorf(signature.ErrVerification, op, "signature must be %d bytes, got %d", SignatureSize, len(data))
	}
	var sig Signature
	if err := sig.E.SetBytesCanonical(data[:fr.Bytes]); err != nil {
		return Signature{}, signature.NewError(signature.ErrVerification, op, errors.Wrap(err, "challenge"))
	}
	if err := sig.S.SetBytesCanonical(data[fr.Bytes:]); err != nil {
		return Signature{}, signature.NewError(signature.ErrVerification, op, errors.Wrap(err, "response"))
	}
	return SignatureFromElements(sig.E, sig.S)
}

// SignatureFromElements builds a signature from [e, s].
func SignatureFromElements(e, s fr.Element) (Signature, error) {
	if !inScalarRange(&s) {
		return Signature{}, signature.Errorf(signature.ErrVerification, "fieldsig.SignatureFromElements", "response is not below the subgroup order")
	}
	return Signature{E: e, S: s}, nil
}

// MessageFromBytes packs b into field elements, 31 bytes per element,
// followed by one element holding len(b). The trailing length keeps
// messages differing only in trailing zeros apart.
func MessageFromBytes(b []byte) []fr.Element {
	total := uint64(len(b))
	out := make([]fr.Element, 0, len(b)/chunkSize+2)
	for len(b) > 0 {
		n := min(chunkSize, len(b))
		var v fr.Element
		v.SetBytes(b[:n])
		out = append(out, v)
		b = b[n:]
	}
	var n fr.Element
	n.SetUint64(total)
	return append(out, n)
}
