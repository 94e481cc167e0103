package fieldsig

import (
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/f3rmion/fysig/bjj"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

const (
	// DefaultMaxMessageLen is the longest message, in field elements,
	// a default Scheme signs.
	DefaultMaxMessageLen = 16

	// DefaultDomainTag names the default signing domain.
	DefaultDomainTag = "fysig/fieldsig/v1"

	domainDST       = "FYSIG-FIELDSIG-DOMAIN-V1"
	maxNonZeroDraws = 8
)

var curve = new(bjj.BJJ)

var _ signature.FieldScheme[fr.Element, PublicKey, SecretKey, Signature] = (*Scheme)(nil)

// Scheme signs vectors of BN254 scalar-field elements with Baby Jubjub
// keys. Challenges are computed with MiMC so that verification is cheap to
// arithmetize. A Scheme is immutable after New and safe for concurrent
// use.
type Scheme struct {
	maxLen int
	tag    string
	domain fr.Element
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithMaxMessageLen sets the longest accepted message.
func WithMaxMessageLen(n int) Option {
	return func(s *Scheme) {
		s.maxLen = n
	}
}

// WithDomainTag replaces the tag the domain constant is derived from.
// Signatures made under one tag never verify under another.
func WithDomainTag(tag string) Option {
	return func(s *Scheme) {
		s.tag = tag
	}
}

// New creates a Scheme.
func New(opts ...Option) (*Scheme, error) {
	s := &Scheme{
		maxLen: DefaultMaxMessageLen,
		tag:    DefaultDomainTag,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxLen < 1 {
		return nil, signature.Errorf(signature.ErrSetup, "fieldsig.New", "maximum message length must be positive, got %d", s.maxLen)
	}
	if s.tag == "" {
		return nil, signature.Errorf(signature.ErrSetup, "fieldsig.New", "empty domain tag")
	}
	d, err := fr.Hash([]byte(s.tag), []byte(domainDST), 1)
	if err != nil {
		return nil, signature.NewError(signature.ErrSetup, "fieldsig.New", errors.Wrap(err, "deriving domain constant"))
	}
	s.domain = d[0]
	return s, nil
}

// MaxMessageLen returns the longest accepted message.
func (s *Scheme) MaxMessageLen() int {
	return s.maxLen
}

// Domain returns the domain constant absorbed first by every challenge.
func (s *Scheme) Domain() fr.Element {
	return s.domain
}

// KeyGen draws a secret key uniformly from [1, l) and derives its public
// key.
func (s *Scheme) KeyGen(rng io.Reader) (PublicKey, SecretKey, error) {
	x, err := randomNonZero(rng)
	if err != nil {
		return PublicKey{}, SecretKey{}, signature.NewError(signature.ErrKeyGen, "fieldsig.KeyGen", err)
	}
	sk := SecretKey{scalar: x}
	return s.PublicKey(sk), sk, nil
}

// PublicKey returns sk*G. The sentinel key maps to the unset public key.
func (s *Scheme) PublicKey(sk SecretKey) PublicKey {
	if sk.IsZero() {
		return PublicKey{}
	}
	p := curve.NewPoint().ScalarMult(sk.scalar, curve.Generator())
	return PublicKey{point: p.(*bjj.Point)}
}

// Sign signs msg under sk. pk must be the public key of sk; it is bound
// into the challenge, and a mismatched pair is refused.
func (s *Scheme) Sign(rng io.Reader, pk PublicKey, sk SecretKey, msg []fr.Element) (Signature, error) {
	const op = "fieldsig.Sign"
	if sk.IsZero() {
		return Signature{}, signature.Errorf(signature.ErrSigning, op, "secret key is unset")
	}
	if pk.point == nil {
		return Signature{}, signature.Errorf(signature.ErrSigning, op, "public key is unset")
	}
	if !s.PublicKey(sk).Equal(pk) {
		return Signature{}, signature.Errorf(signature.ErrSigning, op, "public key does not match secret key")
	}
	if err := s.checkLen(msg); err != nil {
		return Signature{}, signature.NewError(signature.ErrSigning, op, err)
	}

	k, err := randomNonZero(rng)
	if err != nil {
		return Signature{}, signature.NewError(signature.ErrSigning, op, errors.Wrap(err, "drawing nonce"))
	}
	defer k.Zeroize()

	R := curve.NewPoint().ScalarMult(k, curve.Generator()).(*bjj.Point)
	e := s.challenge(R, pk, msg)

	// s = k + (e mod l)*sk
	resp := curve.NewScalar().Mul(bjj.ScalarFromField(&e), sk.scalar)
	resp.Add(resp, k)
	return Signature{E: e, S: resp.(*bjj.Scalar).Field()}, nil
}

// Verify reports whether sig is a signature on msg under pk. Malformed
// inputs are errors; a well-formed signature that fails the equation is
// (false, nil).
//
// Verify does not check subgroup membership of pk. Keys from untrusted
// sources must pass KeyVerify first, or use VerifyUntrusted.
func (s *Scheme) Verify(pk PublicKey, msg []fr.Element, sig Signature) (bool, error) {
	const op = "fieldsig.Verify"
	if pk.point == nil {
		return false, signature.Errorf(signature.ErrVerification, op, "public key is unset")
	}
	if err := s.checkLen(msg); err != nil {
		return false, signature.NewError(signature.ErrVerification, op, err)
	}
	if !inScalarRange(&sig.S) {
		return false, signature.Errorf(signature.ErrVerification, op, "response is not below the subgroup order")
	}

	// R' = sG - (e mod l)*pk
	sG := curve.NewPoint().ScalarMult(bjj.ScalarFromField(&sig.S), curve.Generator())
	ePK := curve.NewPoint().ScalarMult(bjj.ScalarFromField(&sig.E), pk.point)
	R := curve.NewPoint().Sub(sG, ePK).(*bjj.Point)
	if R.IsIdentity() {
		return false, nil
	}

	e := s.challenge(R, pk, msg)
	return e.Equal(&sig.E), nil
}

// VerifyUntrusted runs KeyVerify on pk before Verify. A key failing the
// check yields (false, nil).
func (s *Scheme) VerifyUntrusted(pk PublicKey, msg []fr.Element, sig Signature) (bool, error) {
	if pk.point != nil && !s.KeyVerify(pk) {
		return false, nil
	}
	return s.Verify(pk, msg, sig)
}

// KeyVerify reports whether pk is a usable public key: a point on the
// curve, not the identity, inside the prime-order subgroup.
func (s *Scheme) KeyVerify(pk PublicKey) bool {
	if pk.point == nil || pk.point.IsIdentity() {
		return false
	}
	return pk.point.InSubgroup()
}

// Verifier adapts s to [signature.VerifyFunc] for batch verification of
// byte messages packed with MessageFromBytes.
func (s *Scheme) Verifier() signature.VerifyFunc[PublicKey, Signature] {
	return func(pk PublicKey, msg []byte, sig Signature) (bool, error) {
		return s.Verify(pk, MessageFromBytes(msg), sig)
	}
}

// challenge computes MiMC(d, R.x, R.y, pk.x, pk.y, n, m_1..m_n).
func (s *Scheme) challenge(R *bjj.Point, pk PublicKey, msg []fr.Element) fr.Element {
	rx, ry := R.Coordinates()
	px, py := pk.point.Coordinates()

	var n fr.Element
	n.SetUint64(uint64(len(msg)))

	h := mimc.NewMiMC()
	for _, v := range append([]fr.Element{s.domain, rx, ry, px, py, n}, msg...) {
		b := v.Bytes()
		h.Write(b[:])
	}
	var e fr.Element
	e.SetBytes(h.Sum(nil))
	return e
}

func (s *Scheme) checkLen(msg []fr.Element) error {
	if len(msg) == 0 {
		return errors.New("message is empty")
	}
	if len(msg) > s.maxLen {
		return errors.Errorf("message has %d elements, maximum is %d", len(msg), s.maxLen)
	}
	return nil
}

func inScalarRange(v *fr.Element) bool {
	var b big.Int
	return v.BigInt(&b).Cmp(subgroupOrder) < 0
}

func randomNonZero(rng io.Reader) (*bjj.Scalar, error) {
	for i := 0; i < maxNonZeroDraws; i++ {
		k, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		if !k.IsZero() {
			return k.(*bjj.Scalar), nil
		}
	}
	return nil, errors.New("randomness source keeps producing zero scalars")
}
