package schnorr

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// SaltSize is the number of random bytes Setup draws for the domain tag.
const SaltSize = 32

const domainPrefix = "fysig/schnorr/v1"

// maxNonZeroDraws bounds resampling when a random scalar comes out zero.
// A healthy source hits zero with negligible probability, so repeated
// zeros mean the source is broken.
const maxNonZeroDraws = 8

var _ signature.Scheme[*Parameters, PublicKey, SecretKey, Signature] = (*Scheme)(nil)

// Scheme is a re-randomizable Schnorr signature scheme over a prime-order
// group. It is stateless; all per-instance values live in [Parameters].
type Scheme struct {
	group  group.Group
	hasher Hasher
}

// Parameters are the public constants of one scheme instance. They are
// immutable and safe to share between goroutines.
type Parameters struct {
	group     group.Group
	generator group.Point
	hasher    Hasher
	salt      []byte
	domain    []byte
}

// PublicKey is the point X = xG. The zero value is an unset key.
type PublicKey struct {
	point group.Point
}

// SecretKey is the scalar x. The zero value is a sentinel that Sign
// refuses. Copies share the underlying scalar, so Zeroize wipes them all.
type SecretKey struct {
	scalar group.Scalar
}

// Signature is a Schnorr signature in transcript form: commitment R,
// challenge C = H(domain, R, message) and response S = k + C*x.
//
// The challenge is carried so that RandomizeSignature needs neither the
// message nor the secret key. Values are never mutated after creation.
type Signature struct {
	R group.Point
	C group.Scalar
	S group.Scalar
}

// New creates a Scheme over g with the default Blake2b hasher.
func New(g group.Group) *Scheme {
	return NewWithHasher(g, NewBlake2bHasher())
}

// NewWithHasher creates a Scheme over g with a custom hasher.
func NewWithHasher(g group.Group, h Hasher) *Scheme {
	return &Scheme{
		group:  g,
		hasher: h,
	}
}

// Group returns the scheme's group.
func (s *Scheme) Group() group.Group {
	return s.group
}

// Setup draws a fresh salt from rng and validates the group generator.
// It is deterministic given deterministic randomness.
func (s *Scheme) Setup(rng io.Reader) (*Parameters, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rng, salt); err != nil {
		return nil, signature.NewError(signature.ErrSetup, "schnorr.Setup", errors.Wrap(err, "reading salt"))
	}
	return s.LoadParameters(salt)
}

// LoadParameters rebuilds the parameters of a previous Setup from its
// salt.
func (s *Scheme) LoadParameters(salt []byte) (*Parameters, error) {
	if len(salt) != SaltSize {
		return nil, signature.Errorf(signature.ErrSetup, "schnorr.Setup", "salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	if s.group == nil || s.hasher == nil {
		return nil, signature.Errorf(signature.ErrSetup, "schnorr.Setup", "scheme has no group or hasher")
	}

	gen := s.group.Generator()
	if gen.IsIdentity() {
		return nil, signature.Errorf(signature.ErrSetup, "schnorr.Setup", "generator is the identity")
	}
	// (n-1)G + G must be the identity for a generator of prime order n.
	minusOne := s.group.NewScalar().Negate(s.group.NewScalar().SetUint64(1))
	check := s.group.NewPoint().ScalarMult(minusOne, gen)
	if !s.group.NewPoint().Add(check, gen).IsIdentity() {
		return nil, signature.Errorf(signature.ErrSetup, "schnorr.Setup", "generator does not have the group order")
	}

	var domain bytes.Buffer
	group.Frame(&domain, []byte(domainPrefix), []byte(s.group.Name()), []byte(s.hasher.ID()), salt)

	return &Parameters{
		group:     s.group,
		generator: gen,
		hasher:    s.hasher,
		salt:      bytes.Clone(salt),
		domain:    domain.Bytes(),
	}, nil
}

// Group returns the parameters' group.
func (pp *Parameters) Group() group.Group {
	return pp.group
}

// Generator returns a copy of the generator.
func (pp *Parameters) Generator() group.Point {
	return pp.group.NewPoint().Set(pp.generator)
}

// Salt returns a copy of the salt drawn by Setup.
func (pp *Parameters) Salt() []byte {
	return bytes.Clone(pp.salt)
}

// Challenge computes H(domain, R, msg).
func (pp *Parameters) Challenge(R group.Point, msg []byte) (group.Scalar, error) {
	return pp.hasher.Challenge(pp.group, pp.domain, R.Bytes(), msg)
}

// Point returns the public key point, or nil for an unset key.
func (pk PublicKey) Point() group.Point {
	return pk.point
}

// Bytes returns the canonical point encoding, or nil for an unset key.
func (pk PublicKey) Bytes() []byte {
	if pk.point == nil {
		return nil
	}
	return pk.point.Bytes()
}

// Equal reports whether pk and other have the same encoding.
func (pk PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(pk.Bytes(), other.Bytes())
}

// String returns the hex encoding of pk.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk.Bytes())
}

// Bytes returns the canonical scalar encoding, or nil for the sentinel.
func (sk SecretKey) Bytes() []byte {
	if sk.scalar == nil {
		return nil
	}
	return sk.scalar.Bytes()
}

// IsZero reports whether sk is the unusable sentinel value.
func (sk SecretKey) IsZero() bool {
	return sk.scalar == nil || sk.scalar.IsZero()
}

// Zeroize wipes the secret scalar. sk becomes the sentinel.
func (sk *SecretKey) Zeroize() {
	if sk.scalar == nil {
		return
	}
	if z, ok := sk.scalar.(interface{ Zeroize() }); ok {
		z.Zeroize()
	} else {
		sk.scalar.Sub(sk.scalar, sk.scalar)
	}
	sk.scalar = nil
}

// String redacts the key.
func (sk SecretKey) String() string {
	return "schnorr.SecretKey(redacted)"
}

// GoString redacts the key.
func (sk SecretKey) GoString() string {
	return sk.String()
}

// Bytes returns R || C || S, or nil for an unset signature.
func (sig Signature) Bytes() []byte {
	if sig.R == nil || sig.C == nil || sig.S == nil {
		return nil
	}
	out := append([]byte{}, sig.R.Bytes()...)
	out = append(out, sig.C.Bytes()...)
	return append(out, sig.S.Bytes()...)
}

// Equal reports whether sig and other have the same encoding.
func (sig Signature) Equal(other Signature) bool {
	return bytes.Equal(sig.Bytes(), other.Bytes())
}

// randomNonZero draws a nonzero scalar from rng.
func randomNonZero(g group.Group, rng io.Reader) (group.Scalar, error) {
	for i := 0; i < maxNonZeroDraws; i++ {
		k, err := g.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		if !k.IsZero() {
			return k, nil
		}
	}
	return nil, errors.New("randomness source keeps producing zero scalars")
}
