package schnorr

import (
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// ParsePublicKey decodes a public key. The identity is rejected.
func (s *Scheme) ParsePublicKey(pp *Parameters, data []byte) (PublicKey, error) {
	const op = "schnorr.ParsePublicKey"
	p, err := pp.group.NewPoint().SetBytes(data)
	if err != nil {
		return PublicKey{}, signature.NewError(signature.ErrVerification, op, err)
	}
	if p.IsIdentity() {
		return PublicKey{}, signature.Errorf(signature.ErrVerification, op, "public key is the identity")
	}
	return PublicKey{point: p}, nil
}

// ParseSecretKey decodes a secret key. Zero is rejected.
func (s *Scheme) ParseSecretKey(pp *Parameters, data []byte) (SecretKey, error) {
	const op = "schnorr.ParseSecretKey"
	x, err := pp.group.NewScalar().SetBytes(data)
	if err != nil {
		return SecretKey{}, signature.NewError(signature.ErrVerification, op, err)
	}
	if x.IsZero() {
		return SecretKey{}, signature.Errorf(signature.ErrVerification, op, "secret key is zero")
	}
	return SecretKey{scalar: x}, nil
}

// ParseSignature decodes R || C || S.
func (s *Scheme) ParseSignature(pp *Parameters, data []byte) (Signature, error) {
	const op = "schnorr.ParseSignature"
	pl, sl := pp.group.PointLen(), pp.group.ScalarLen()
	if len(data) != pl+2*sl {
		return Signature{}, signature.Errorf(signature.ErrVerification, op, "signature must be %d bytes, got %d", pl+2*sl, len(data))
	}

	R, err := pp.group.NewPoint().SetBytes(data[:pl])
	if err != nil {
		return Signature{}, signature.NewError(signature.ErrVerification, op, errors.Wrap(err, "commitment"))
	}
	c, err := pp.group.NewScalar().SetBytes(data[pl : pl+sl])
	if err != nil {
		return Signature{}, signature.NewError(signature.ErrVerification, op, errors.Wrap(err, "challenge"))
	}
	z, err := pp.group.NewScalar().SetBytes(data[pl+sl:])
	if err != nil {
		return Signature{}, signature.NewError(signature.ErrVerification, op, errors.Wrap(err, "response"))
	}
	return Signature{R: R, C: c, S: z}, nil
}

// NewPublicKey wraps a point computed elsewhere, such as a threshold
// group key. The identity is rejected.
func NewPublicKey(p group.Point) (PublicKey, error) {
	if p == nil || p.IsIdentity() {
		return PublicKey{}, signature.Errorf(signature.ErrKeyGen, "schnorr.NewPublicKey", "public key is the identity")
	}
	return PublicKey{point: p}, nil
}
