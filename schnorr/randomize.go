package schnorr

import (
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/signature"
)

// randomizer maps a token to the nonzero scalar t.
func (pp *Parameters) randomizer(op string, token []byte) (group.Scalar, error) {
	if len(token) == 0 {
		return nil, signature.Errorf(signature.ErrRandomization, op, "randomness token is empty")
	}
	t, err := pp.hasher.Randomizer(pp.group, pp.domain, token)
	if err != nil {
		return nil, signature.NewError(signature.ErrRandomization, op, err)
	}
	if t.IsZero() {
		return nil, signature.Errorf(signature.ErrRandomization, op, "randomness token maps to zero")
	}
	return t, nil
}

// RandomizePublicKey returns X + tG where t is derived from randomness.
// The matching secret key is x + t, known only to the holder of x.
func (s *Scheme) RandomizePublicKey(pp *Parameters, pk PublicKey, randomness []byte) (PublicKey, error) {
	const op = "schnorr.RandomizePublicKey"
	if pk.point == nil {
		return PublicKey{}, signature.Errorf(signature.ErrRandomization, op, "public key is unset")
	}
	t, err := pp.randomizer(op, randomness)
	if err != nil {
		return PublicKey{}, err
	}
	tG := pp.group.NewPoint().ScalarMult(t, pp.generator)
	return PublicKey{point: pp.group.NewPoint().Add(pk.point, tG)}, nil
}

// RandomizeSignature returns (R, c, s + c*t). Because c does not depend on
// the public key, the result verifies under RandomizePublicKey(pk,
// randomness) for the same message. No secret material is needed.
func (s *Scheme) RandomizeSignature(pp *Parameters, sig Signature, randomness []byte) (Signature, error) {
	const op = "schnorr.RandomizeSignature"
	if sig.R == nil || sig.C == nil || sig.S == nil {
		return Signature{}, signature.Errorf(signature.ErrRandomization, op, "signature is unset")
	}
	t, err := pp.randomizer(op, randomness)
	if err != nil {
		return Signature{}, err
	}
	ct := pp.group.NewScalar().Mul(sig.C, t)
	return Signature{
		R: pp.group.NewPoint().Set(sig.R),
		C: pp.group.NewScalar().Set(sig.C),
		S: pp.group.NewScalar().Add(sig.S, ct),
	}, nil
}

// RandomizeSecretKey returns x + t, the secret key of
// RandomizePublicKey(pk, randomness).
func (s *Scheme) RandomizeSecretKey(pp *Parameters, sk SecretKey, randomness []byte) (SecretKey, error) {
	const op = "schnorr.RandomizeSecretKey"
	if sk.IsZero() {
		return SecretKey{}, signature.Errorf(signature.ErrRandomization, op, "secret key is unset")
	}
	t, err := pp.randomizer(op, randomness)
	if err != nil {
		return SecretKey{}, err
	}
	x := pp.group.NewScalar().Add(sk.scalar, t)
	if x.IsZero() {
		return SecretKey{}, signature.Errorf(signature.ErrRandomization, op, "randomized secret key is zero")
	}
	return SecretKey{scalar: x}, nil
}

func wipe(s group.Scalar) {
	if z, ok := s.(interface{ Zeroize() }); ok {
		z.Zeroize()
	}
}
