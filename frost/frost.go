package frost

import (
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/signature"
)

// FROST holds the scheme parameters and threshold parameters.
type FROST struct {
	params    *schnorr.Parameters
	scheme    *schnorr.Scheme
	group     group.Group
	hasher    Hasher
	threshold int // t - minimum signers needed
	total     int // n - total participants
}

// KeyShare represents a participant's share of the group secret key.
type KeyShare struct {
	ID        group.Scalar      // participant identifier
	SecretKey group.Scalar      // secret key share
	PublicKey group.Point       // public key share
	GroupKey  schnorr.PublicKey // combined group public key
}

// Zeroize wipes the secret key share.
func (ks *KeyShare) Zeroize() {
	wipe(ks.SecretKey)
	ks.SecretKey = nil
}

// New creates a FROST instance issuing signatures valid under pp.
// threshold is the minimum number of signers required (t).
// total is the total number of participants (n).
func New(pp *schnorr.Parameters, threshold, total int) (*FROST, error) {
	return NewWithHasher(pp, threshold, total, NewBlake2bHasher())
}

// NewWithHasher creates a FROST instance with a custom binding-factor and
// nonce hasher.
func NewWithHasher(pp *schnorr.Parameters, threshold, total int, h Hasher) (*FROST, error) {
	const op = "frost.New"
	if pp == nil || h == nil {
		return nil, signature.Errorf(signature.ErrSetup, op, "parameters and hasher are required")
	}
	if threshold < 2 {
		return nil, signature.Errorf(signature.ErrSetup, op, "threshold must be at least 2")
	}
	if total < threshold {
		return nil, signature.Errorf(signature.ErrSetup, op, "total must be >= threshold")
	}

	return &FROST{
		params:    pp,
		scheme:    schnorr.New(pp.Group()),
		group:     pp.Group(),
		hasher:    h,
		threshold: threshold,
		total:     total,
	}, nil
}

// Group returns the group signatures are issued over.
func (f *FROST) Group() group.Group {
	return f.group
}

// Parameters returns the schnorr parameters aggregates verify under.
func (f *FROST) Parameters() *schnorr.Parameters {
	return f.params
}

// Threshold returns t.
func (f *FROST) Threshold() int {
	return f.threshold
}

// Total returns n.
func (f *FROST) Total() int {
	return f.total
}

// Verify checks an aggregate signature against the group key. It is
// schnorr verification under the instance's parameters.
func (f *FROST) Verify(message []byte, sig schnorr.Signature, groupKey schnorr.PublicKey) (bool, error) {
	return f.scheme.Verify(f.params, groupKey, message, sig)
}

// scalarFromID maps a participant index in [1, n] to a scalar.
func (f *FROST) scalarFromID(op string, id int) (group.Scalar, error) {
	if id < 1 || id > f.total {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "participant id %d outside [1, %d]", id, f.total)
	}
	return f.group.NewScalar().SetUint64(uint64(id)), nil
}

func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

func wipe(s group.Scalar) {
	if s == nil {
		return
	}
	if z, ok := s.(interface{ Zeroize() }); ok {
		z.Zeroize()
		return
	}
	s.Sub(s, s)
}
