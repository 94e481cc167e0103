package bjj

import (
	"bytes"
	"crypto/sha512"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/f3rmion/fysig/group"
	"github.com/pkg/errors"
)

const (
	// ScalarSize is the length of a canonical scalar encoding.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 32
	// uniformSize is the input length accepted by SetUniformBytes.
	uniformSize = 64
)

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

// Scalar represents an element of the Baby Jubjub scalar field.
// It implements [group.Scalar] using big.Int with modular arithmetic
// over the curve's subgroup order.
type Scalar struct {
	inner *big.Int
}

func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

// ScalarFromField returns e reduced modulo the subgroup order. The
// field-based signer uses it to turn a hash output into an exponent.
func ScalarFromField(e *fr.Element) *Scalar {
	s := newScalar()
	e.BigInt(s.inner)
	s.reduce()
	return s
}

// reduce ensures the scalar is in the range [0, curveOrder).
func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, curveOrder)
}

// Add sets s to a + b (mod curveOrder) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod curveOrder) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod curveOrder) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod curveOrder) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod curveOrder) and returns s.
// Returns an error if a is zero, as zero has no multiplicative inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("bjj: cannot invert zero scalar")
	}
	s.inner.ModInverse(aScalar.inner, curveOrder)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	s.inner.SetUint64(v)
	s.reduce()
	return s
}

// Bytes returns the scalar as a 32-byte big-endian representation.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, ScalarSize)
	return s.inner.FillBytes(out)
}

// SetBytes sets s from a 32-byte big-endian encoding and returns s.
// Values not below the curve order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, errors.Errorf("bjj: scalar encoding must be %d bytes, got %d", ScalarSize, len(data))
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(curveOrder) >= 0 {
		return nil, errors.New("bjj: scalar encoding out of range")
	}
	s.inner.Set(v)
	return s, nil
}

// SetUniformBytes interprets 64 bytes as a big-endian integer, reduces it
// modulo the curve order and returns s.
func (s *Scalar) SetUniformBytes(data []byte) (group.Scalar, error) {
	if len(data) != uniformSize {
		return nil, errors.Errorf("bjj: uniform input must be %d bytes, got %d", uniformSize, len(data))
	}
	s.inner.SetBytes(data)
	s.reduce()
	return s, nil
}

// Field returns s as an element of the BN254 scalar field. The subgroup
// order is smaller than the field modulus, so the embedding is exact.
func (s *Scalar) Field() fr.Element {
	var e fr.Element
	e.SetBigInt(s.inner)
	return e
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(b.(*Scalar).inner) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Zeroize overwrites the limbs backing s and sets it to zero.
func (s *Scalar) Zeroize() {
	words := s.inner.Bits()
	for i := range words {
		words[i] = 0
	}
	s.inner.SetInt64(0)
}

// Point represents a point on the Baby Jubjub curve.
// It implements [group.Point] by wrapping gnark-crypto's PointAffine.
//
// Points are represented in affine coordinates (x, y) on the twisted
// Edwards curve. The identity element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// NewPointFromCoordinates returns the point (x, y). It fails if the point
// is not on the curve. Subgroup membership is left to [Point.InSubgroup].
func NewPointFromCoordinates(x, y fr.Element) (*Point, error) {
	var p Point
	p.inner.X = x
	p.inner.Y = y
	if !p.inner.IsOnCurve() {
		return nil, errors.New("bjj: point is not on the curve")
	}
	return &p, nil
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.(*Point).inner)
	p.inner.Add(&a.(*Point).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*Point).inner, s.(*Scalar).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the compressed point encoding as a byte slice.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes sets p from a compressed point encoding and returns p.
// Non-canonical encodings and points outside the prime-order subgroup
// are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, errors.Errorf("bjj: point encoding must be %d bytes, got %d", PointSize, len(data))
	}
	var q Point
	if err := q.inner.Unmarshal(data); err != nil {
		return nil, errors.Wrap(err, "bjj: invalid point encoding")
	}
	if !q.inner.IsOnCurve() {
		return nil, errors.New("bjj: point is not on the curve")
	}
	if enc := q.inner.Bytes(); !bytes.Equal(enc[:], data) {
		return nil, errors.New("bjj: non-canonical point encoding")
	}
	if !q.InSubgroup() {
		return nil, errors.New("bjj: point is not in the prime-order subgroup")
	}
	p.inner.Set(&q.inner)
	return p, nil
}

// Coordinates returns the affine coordinates of p.
func (p *Point) Coordinates() (x, y fr.Element) {
	return p.inner.X, p.inner.Y
}

// InSubgroup reports whether p lies in the prime-order subgroup,
// i.e. whether order*p is the identity.
func (p *Point) InSubgroup() bool {
	var q twistededwards.PointAffine
	q.ScalarMultiplication(&p.inner, curveOrder)
	return q.IsZero()
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ is a zero-sized type. Create an instance with &BJJ{} or new(BJJ).
type BJJ struct{}

// Name returns "babyjubjub".
func (g *BJJ) Name() string {
	return "babyjubjub"
}

// NewScalar returns a new scalar initialized to zero.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// RandomScalar reads 64 bytes from r and reduces them modulo the curve
// order. The statistical distance from uniform is below 2^-250.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [uniformSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return newScalar().SetUniformBytes(buf[:])
}

// HashToScalar hashes the framed inputs with SHA-512 and reduces the
// digest modulo the curve order.
func (g *BJJ) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	group.Frame(h, []byte(g.Name()))
	group.Frame(h, data...)
	return newScalar().SetUniformBytes(h.Sum(nil))
}

// Order returns the order of the Baby Jubjub curve's prime-order subgroup
// as a big-endian byte slice.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}

// ScalarLen returns 32.
func (g *BJJ) ScalarLen() int {
	return ScalarSize
}

// PointLen returns 32.
func (g *BJJ) PointLen() int {
	return PointSize
}
