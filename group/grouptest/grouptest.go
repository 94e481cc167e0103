// Package grouptest provides a conformance suite for [group.Group]
// implementations.
package grouptest

import (
	"crypto/rand"
	"io"
	"testing"
	"testing/iotest"

	"github.com/f3rmion/fysig/group"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the arithmetic and encoding contract of g.
func Run(t *testing.T, g group.Group) {
	t.Helper()

	random := func(t *testing.T) group.Scalar {
		s, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		return s
	}

	t.Run("ScalarRing", func(t *testing.T) {
		a, b, c := random(t), random(t), random(t)

		// a*(b+c) == a*b + a*c
		lhs := g.NewScalar().Mul(a, g.NewScalar().Add(b, c))
		rhs := g.NewScalar().Add(g.NewScalar().Mul(a, b), g.NewScalar().Mul(a, c))
		assert.True(t, lhs.Equal(rhs))

		diff := g.NewScalar().Sub(g.NewScalar().Add(a, b), b)
		assert.True(t, diff.Equal(a))

		assert.True(t, g.NewScalar().Add(a, g.NewScalar().Negate(a)).IsZero())
	})

	t.Run("ScalarInvert", func(t *testing.T) {
		a := random(t)
		inv, err := g.NewScalar().Invert(a)
		require.NoError(t, err)
		assert.True(t, g.NewScalar().Mul(a, inv).Equal(g.NewScalar().SetUint64(1)))

		_, err = g.NewScalar().Invert(g.NewScalar())
		assert.Error(t, err)
	})

	t.Run("ScalarEncoding", func(t *testing.T) {
		a := random(t)
		enc := a.Bytes()
		require.Len(t, enc, g.ScalarLen())

		back, err := g.NewScalar().SetBytes(enc)
		require.NoError(t, err)
		assert.True(t, back.Equal(a))

		_, err = g.NewScalar().SetBytes(enc[1:])
		assert.Error(t, err, "short encoding")

		bad := make([]byte, g.ScalarLen())
		for i := range bad {
			bad[i] = 0xff
		}
		_, err = g.NewScalar().SetBytes(bad)
		assert.Error(t, err, "all-ones exceeds every supported order")
	})

	t.Run("SetUint64", func(t *testing.T) {
		two := g.NewScalar().SetUint64(2)
		one := g.NewScalar().SetUint64(1)
		assert.True(t, g.NewScalar().Add(one, one).Equal(two))
		assert.True(t, g.NewScalar().SetUint64(0).IsZero())
	})

	t.Run("UniformBytes", func(t *testing.T) {
		_, err := g.NewScalar().SetUniformBytes(make([]byte, 64))
		assert.NoError(t, err)
		_, err = g.NewScalar().SetUniformBytes(make([]byte, 63))
		assert.Error(t, err)
	})

	t.Run("RandomScalarPropagatesReadError", func(t *testing.T) {
		_, err := g.RandomScalar(iotest.ErrReader(io.ErrUnexpectedEOF))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("PointArithmetic", func(t *testing.T) {
		a, b := random(t), random(t)
		G := g.Generator()

		P := g.NewPoint().ScalarMult(a, G)
		Q := g.NewPoint().ScalarMult(b, G)

		// aG + bG == (a+b)G
		sum := g.NewPoint().Add(P, Q)
		assert.True(t, sum.Equal(g.NewPoint().ScalarMult(g.NewScalar().Add(a, b), G)))

		assert.True(t, g.NewPoint().Sub(sum, Q).Equal(P))
		assert.True(t, g.NewPoint().Add(P, g.NewPoint().Negate(P)).IsIdentity())
		assert.True(t, g.NewPoint().Add(P, g.NewPoint()).Equal(P))
	})

	t.Run("GeneratorOrder", func(t *testing.T) {
		minusOne := g.NewScalar().Negate(g.NewScalar().SetUint64(1))
		P := g.NewPoint().ScalarMult(minusOne, g.Generator())
		assert.True(t, g.NewPoint().Add(P, g.Generator()).IsIdentity())
		assert.False(t, g.Generator().IsIdentity())
	})

	t.Run("PointEncoding", func(t *testing.T) {
		P := g.NewPoint().ScalarMult(random(t), g.Generator())
		enc := P.Bytes()
		require.Len(t, enc, g.PointLen())

		back, err := g.NewPoint().SetBytes(enc)
		require.NoError(t, err)
		assert.True(t, back.Equal(P))

		id, err := g.NewPoint().SetBytes(g.NewPoint().Bytes())
		require.NoError(t, err)
		assert.True(t, id.IsIdentity())

		_, err = g.NewPoint().SetBytes(enc[:len(enc)-1])
		assert.Error(t, err)
	})

	t.Run("HashToScalar", func(t *testing.T) {
		a, err := g.HashToScalar([]byte("ab"), []byte("c"))
		require.NoError(t, err)
		b, err := g.HashToScalar([]byte("a"), []byte("bc"))
		require.NoError(t, err)
		assert.False(t, a.Equal(b))
	})
}
