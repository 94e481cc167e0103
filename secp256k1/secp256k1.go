package secp256k1

import (
	"crypto/sha512"
	"encoding/binary"
	"io"
	"math/big"

	dcrsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/f3rmion/fysig/group"
	"github.com/pkg/errors"
)

const (
	// ScalarSize is the length of a canonical scalar encoding.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 33
	// uniformSize is the input length accepted by SetUniformBytes.
	uniformSize = 64
	// maxRejections bounds RandomScalar's rejection loop. An honest source
	// exceeds the order with probability below 2^-127 per draw.
	maxRejections = 8
)

var curveOrder = new(big.Int).Set(dcrsecp.S256().Params().N)

// Scalar is an integer modulo the secp256k1 group order.
type Scalar struct {
	inner dcrsecp.ModNScalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var nb dcrsecp.ModNScalar
	nb.NegateVal(&b.(*Scalar).inner)
	s.inner.Add2(&a.(*Scalar).inner, &nb)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.NegateVal(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s. Zero has no inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.inner.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.inner.InverseValNonConst(&aScalar.inner)
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
	binary.BigEndian.PutUint64(buf[ScalarSize-8:], v)
	s.inner.SetBytes(&buf)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.inner.Bytes()
	return b[:]
}

// SetBytes decodes a 32-byte big-endian scalar. Values not below the
// group order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, errors.Errorf("secp256k1: scalar encoding must be %d bytes, got %d", ScalarSize, len(data))
	}
	var v dcrsecp.ModNScalar
	if overflow := v.SetByteSlice(data); overflow {
		return nil, errors.New("secp256k1: scalar encoding out of range")
	}
	s.inner.Set(&v)
	return s, nil
}

// SetUniformBytes reduces a 64-byte big-endian integer modulo the group
// order and returns s.
func (s *Scalar) SetUniformBytes(data []byte) (group.Scalar, error) {
	if len(data) != uniformSize {
		return nil, errors.Errorf("secp256k1: uniform input must be %d bytes, got %d", uniformSize, len(data))
	}
	v := new(big.Int).SetBytes(data)
	v.Mod(v, curveOrder)
	s.inner.SetByteSlice(v.FillBytes(make([]byte, ScalarSize)))
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equals(&b.(*Scalar).inner)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Zeroize clears s.
func (s *Scalar) Zeroize() {
	s.inner.Zero()
}

// Point is a secp256k1 curve point held in Jacobian coordinates.
// The zero value is the point at infinity.
type Point struct {
	inner dcrsecp.JacobianPoint
}

func (p *Point) affine() dcrsecp.JacobianPoint {
	var a dcrsecp.JacobianPoint
	a.Set(&p.inner)
	a.ToAffine()
	return a
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var r dcrsecp.JacobianPoint
	dcrsecp.AddNonConst(&a.(*Point).inner, &b.(*Point).inner, &r)
	p.inner.Set(&r)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var nb Point
	nb.Negate(b)
	return p.Add(a, &nb)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	n := a.(*Point).affine()
	n.Y.Negate(1).Normalize()
	p.inner.Set(&n)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var r dcrsecp.JacobianPoint
	dcrsecp.ScalarMultNonConst(&s.(*Scalar).inner, &q.(*Point).inner, &r)
	p.inner.Set(&r)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 33-byte SEC1 compressed encoding of p. The point at
// infinity, which has no SEC1 compressed form, encodes as 33 zero bytes.
func (p *Point) Bytes() []byte {
	if p.IsIdentity() {
		return make([]byte, PointSize)
	}
	a := p.affine()
	return dcrsecp.NewPublicKey(&a.X, &a.Y).SerializeCompressed()
}

// SetBytes decodes a 33-byte compressed point and returns p.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, errors.Errorf("secp256k1: point encoding must be %d bytes, got %d", PointSize, len(data))
	}
	if isZeros(data) {
		p.inner = dcrsecp.JacobianPoint{}
		return p, nil
	}
	pk, err := dcrsecp.ParsePubKey(data)
	if err != nil {
		return nil, errors.Wrap(err, "secp256k1: invalid point encoding")
	}
	pk.AsJacobian(&p.inner)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	bPoint := b.(*Point)
	if p.IsIdentity() || bPoint.IsIdentity() {
		return p.IsIdentity() == bPoint.IsIdentity()
	}
	pa, ba := p.affine(), bPoint.affine()
	return pa.X.Equals(&ba.X) && pa.Y.Equals(&ba.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	a := p.affine()
	return a.X.IsZero() && a.Y.IsZero()
}

func isZeros(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// Secp256k1 implements [group.Group] for secp256k1.
type Secp256k1 struct{}

// Name returns "secp256k1".
func (g *Secp256k1) Name() string {
	return "secp256k1"
}

// NewScalar returns a zero scalar.
func (g *Secp256k1) NewScalar() group.Scalar {
	return &Scalar{}
}

// NewPoint returns the point at infinity.
func (g *Secp256k1) NewPoint() group.Point {
	return &Point{}
}

// Generator returns the standard base point.
func (g *Secp256k1) Generator() group.Point {
	var one dcrsecp.ModNScalar
	one.SetInt(1)
	var p Point
	dcrsecp.ScalarBaseMultNonConst(&one, &p.inner)
	return &p
}

// RandomScalar samples a uniform scalar by rejection: 32-byte candidates
// at or above the group order are discarded. A source that keeps
// producing out-of-range candidates is reported as broken.
func (g *Secp256k1) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [ScalarSize]byte
	for i := 0; i < maxRejections; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		var s Scalar
		if overflow := s.inner.SetByteSlice(buf[:]); !overflow {
			return &s, nil
		}
	}
	return nil, errors.New("secp256k1: randomness source keeps producing out-of-range scalars")
}

// HashToScalar hashes the framed inputs with SHA-512 and reduces the
// digest modulo the group order.
func (g *Secp256k1) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	group.Frame(h, []byte(g.Name()))
	group.Frame(h, data...)
	return g.NewScalar().SetUniformBytes(h.Sum(nil))
}

// Order returns the group order as big-endian bytes.
func (g *Secp256k1) Order() []byte {
	return curveOrder.Bytes()
}

// ScalarLen returns 32.
func (g *Secp256k1) ScalarLen() int {
	return ScalarSize
}

// PointLen returns 33.
func (g *Secp256k1) PointLen() int {
	return PointSize
}
