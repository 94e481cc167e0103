package schnorr

import (
	"io"

	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// KeyGen draws x uniformly from [1, order) and returns (xG, x).
func (s *Scheme) KeyGen(pp *Parameters, rng io.Reader) (PublicKey, SecretKey, error) {
	x, err := randomNonZero(pp.group, rng)
	if err != nil {
		return PublicKey{}, SecretKey{}, signature.NewError(signature.ErrKeyGen, "schnorr.KeyGen", err)
	}
	X := pp.group.NewPoint().ScalarMult(x, pp.generator)
	return PublicKey{point: X}, SecretKey{scalar: x}, nil
}

// PublicKeyFromSecret recomputes xG from a stored secret key.
func (s *Scheme) PublicKeyFromSecret(pp *Parameters, sk SecretKey) (PublicKey, error) {
	if sk.IsZero() {
		return PublicKey{}, signature.Errorf(signature.ErrKeyGen, "schnorr.PublicKeyFromSecret", "secret key is unset")
	}
	return PublicKey{point: pp.group.NewPoint().ScalarMult(sk.scalar, pp.generator)}, nil
}

// Sign produces (R, c, s) with R = kG, c = H(domain, R, message) and
// s = k + c*x for a fresh nonce k drawn from rng.
func (s *Scheme) Sign(pp *Parameters, sk SecretKey, message []byte, rng io.Reader) (Signature, error) {
	if sk.IsZero() {
		return Signature{}, signature.Errorf(signature.ErrSigning, "schnorr.Sign", "secret key is unset")
	}

	k, err := randomNonZero(pp.group, rng)
	if err != nil {
		return Signature{}, signature.NewError(signature.ErrSigning, "schnorr.Sign", errors.Wrap(err, "drawing nonce"))
	}
	defer wipe(k)

	R := pp.group.NewPoint().ScalarMult(k, pp.generator)
	c, err := pp.Challenge(R, message)
	if err != nil {
		return Signature{}, signature.NewError(signature.ErrSigning, "schnorr.Sign", err)
	}

	z := pp.group.NewScalar().Mul(c, sk.scalar)
	z = pp.group.NewScalar().Add(k, z)

	return Signature{R: R, C: c, S: z}, nil
}

// Verify reports whether sig is a valid signature on message under pk.
// It returns an error only when pk or sig is unset.
func (s *Scheme) Verify(pp *Parameters, pk PublicKey, message []byte, sig Signature) (bool, error) {
	if pk.point == nil {
		return false, signature.Errorf(signature.ErrVerification, "schnorr.Verify", "public key is unset")
	}
	if sig.R == nil || sig.C == nil || sig.S == nil {
		return false, signature.Errorf(signature.ErrVerification, "schnorr.Verify", "signature is unset")
	}
	if sig.R.IsIdentity() || pk.point.IsIdentity() {
		return false, nil
	}

	c, err := pp.Challenge(sig.R, message)
	if err != nil {
		return false, signature.NewError(signature.ErrVerification, "schnorr.Verify", err)
	}
	if !c.Equal(sig.C) {
		return false, nil
	}

	// Check: s*G == R + c*X
	lhs := pp.group.NewPoint().ScalarMult(sig.S, pp.generator)
	cX := pp.group.NewPoint().ScalarMult(sig.C, pk.point)
	rhs := pp.group.NewPoint().Add(sig.R, cX)

	return lhs.Equal(rhs), nil
}

// VerifyBytes decodes an encoded signature and verifies it.
func (s *Scheme) VerifyBytes(pp *Parameters, pk PublicKey, message, sig []byte) (bool, error) {
	decoded, err := s.ParseSignature(pp, sig)
	if err != nil {
		return false, err
	}
	return s.Verify(pp, pk, message, decoded)
}

// Verifier binds pp for use with signature.VerifyBatch.
func (s *Scheme) Verifier(pp *Parameters) signature.VerifyFunc[PublicKey, Signature] {
	return func(pk PublicKey, message []byte, sig Signature) (bool, error) {
		return s.Verify(pp, pk, message, sig)
	}
}
