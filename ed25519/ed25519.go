package ed25519

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"io"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/f3rmion/fysig/group"
	"github.com/pkg/errors"
)

const (
	// ScalarSize is the length of a canonical scalar encoding.
	ScalarSize = 32
	// PointSize is the length of a point encoding.
	PointSize = 32
	// uniformSize is the input length accepted by SetUniformBytes.
	uniformSize = 64
)

// groupOrder is l = 2^252 + 27742317777372353535851937790883648493.
var groupOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// Scalar is an integer modulo l, encoded little-endian as in RFC 8032.
type Scalar struct {
	inner edwards25519.Scalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s. Zero has no inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errors.New("ed25519: cannot invert zero scalar")
	}
	s.inner.Invert(&a.(*Scalar).inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [ScalarSize]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	// Any 64-bit value is below l, so the encoding is canonical.
	s.inner.SetCanonicalBytes(buf[:])
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes decodes a canonical 32-byte little-endian scalar.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, errors.Wrap(err, "ed25519: invalid scalar encoding")
	}
	return s, nil
}

// SetUniformBytes reduces a 64-byte little-endian integer modulo l.
func (s *Scalar) SetUniformBytes(data []byte) (group.Scalar, error) {
	if _, err := s.inner.SetUniformBytes(data); err != nil {
		return nil, errors.Wrap(err, "ed25519: invalid uniform input")
	}
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(&b.(*Scalar).inner) == 1
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

// Zeroize clears s.
func (s *Scalar) Zeroize() {
	s.inner.Set(edwards25519.NewScalar())
}

// Point is an element of the prime-order subgroup of edwards25519.
// Points must be created through [Ed25519.NewPoint] or [Ed25519.Generator].
type Point struct {
	inner edwards25519.Point
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(&s.(*Scalar).inner, &q.(*Point).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte RFC 8032 encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes decodes a canonical point encoding and returns p. Points with a
// torsion component are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, errors.Errorf("ed25519: point encoding must be %d bytes, got %d", PointSize, len(data))
	}
	q, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "ed25519: invalid point encoding")
	}
	if !bytes.Equal(q.Bytes(), data) {
		return nil, errors.New("ed25519: non-canonical point encoding")
	}
	if !inPrimeOrderSubgroup(q) {
		return nil, errors.New("ed25519: point is not in the prime-order subgroup")
	}
	p.inner.Set(q)
	return p, nil
}

// inPrimeOrderSubgroup checks l*q == O as (l-1)*q + q == O, since l itself
// is not representable as a scalar.
func inPrimeOrderSubgroup(q *edwards25519.Point) bool {
	var one Scalar
	one.SetUint64(1)
	minusOne := edwards25519.NewScalar().Negate(&one.inner)
	r := new(edwards25519.Point).ScalarMult(minusOne, q)
	r.Add(r, q)
	return r.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner) == 1
}

// IsIdentity reports whether p is the identity.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Ed25519 implements [group.Group] for the prime-order subgroup of
// edwards25519.
type Ed25519 struct{}

// Name returns "edwards25519".
func (g *Ed25519) Name() string {
	return "edwards25519"
}

// NewScalar returns a zero scalar.
func (g *Ed25519) NewScalar() group.Scalar {
	var s Scalar
	s.inner.Set(edwards25519.NewScalar())
	return &s
}

// NewPoint returns the identity point.
func (g *Ed25519) NewPoint() group.Point {
	var p Point
	p.inner.Set(edwards25519.NewIdentityPoint())
	return &p
}

// Generator returns the RFC 8032 base point.
func (g *Ed25519) Generator() group.Point {
	var p Point
	p.inner.Set(edwards25519.NewGeneratorPoint())
	return &p
}

// RandomScalar reads 64 bytes from r and reduces them modulo l.
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [uniformSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return g.NewScalar().SetUniformBytes(buf[:])
}

// HashToScalar hashes the framed inputs with SHA-512 and reduces the
// digest modulo l.
func (g *Ed25519) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	group.Frame(h, []byte(g.Name()))
	group.Frame(h, data...)
	return g.NewScalar().SetUniformBytes(h.Sum(nil))
}

// Order returns l as big-endian bytes.
func (g *Ed25519) Order() []byte {
	return groupOrder.Bytes()
}

// ScalarLen returns 32.
func (g *Ed25519) ScalarLen() int {
	return ScalarSize
}

// PointLen returns 32.
func (g *Ed25519) PointLen() int {
	return PointSize
}
