package schnorr

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/f3rmion/fysig/bjj"
	"github.com/f3rmion/fysig/ed25519"
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/secp256k1"
	"github.com/f3rmion/fysig/signature"
	"github.com/f3rmion/fysig/signature/signaturetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groups = []group.Group{
	&bjj.BJJ{},
	&secp256k1.Secp256k1{},
	&ed25519.Ed25519{},
}

var hashers = []Hasher{
	NewBlake2bHasher(),
	&SHA512Hasher{},
	&SHAKE256Hasher{},
}

func TestConformance(t *testing.T) {
	for _, g := range groups {
		for _, h := range hashers {
			t.Run(g.Name()+"/"+h.ID(), func(t *testing.T) {
				signaturetest.RunScheme[*Parameters, PublicKey, SecretKey, Signature](t, NewWithHasher(g, h))
			})
		}
	}
}

func TestHelloScenario(t *testing.T) {
	for _, g := range groups {
		t.Run(g.Name(), func(t *testing.T) {
			s := New(g)
			rng := signature.NewSeededReader([]byte("fixed seed"))

			pp, err := s.Setup(rng)
			require.NoError(t, err)
			pk, sk, err := s.KeyGen(pp, rng)
			require.NoError(t, err)

			msg := []byte("hello")
			sig, err := s.Sign(pp, sk, msg, rng)
			require.NoError(t, err)

			ok, err := s.Verify(pp, pk, msg, sig)
			require.NoError(t, err)
			require.True(t, ok)

			// Flip every bit of the response component.
			enc := sig.Bytes()
			offset := g.PointLen() + g.ScalarLen()
			decoded := 0
			for i := 8 * offset; i < 8*len(enc); i++ {
				flipped := bytes.Clone(enc)
				flipped[i/8] ^= 1 << (i % 8)

				ok, err := s.VerifyBytes(pp, pk, msg, flipped)
				assert.False(t, ok, "bit %d", i)
				if err == nil {
					decoded++
				} else {
					assert.True(t, errors.Is(err, signature.ErrVerification))
				}
			}
			assert.Greater(t, decoded, 8*g.ScalarLen()/2, "most flips should still decode")
		})
	}
}

func TestSetup(t *testing.T) {
	g := &bjj.BJJ{}

	t.Run("DeterministicGivenSeed", func(t *testing.T) {
		a, err := New(g).Setup(signature.NewSeededReader([]byte("x")))
		require.NoError(t, err)
		b, err := New(g).Setup(signature.NewSeededReader([]byte("x")))
		require.NoError(t, err)
		assert.Equal(t, a.Salt(), b.Salt())
		assert.True(t, a.Generator().Equal(g.Generator()))
	})

	t.Run("LoadParameters", func(t *testing.T) {
		s := New(g)
		pp, err := s.Setup(rand.Reader)
		require.NoError(t, err)
		pk, sk, err := s.KeyGen(pp, rand.Reader)
		require.NoError(t, err)
		sig, err := s.Sign(pp, sk, []byte("m"), rand.Reader)
		require.NoError(t, err)

		loaded, err := s.LoadParameters(pp.Salt())
		require.NoError(t, err)
		ok, err := s.Verify(loaded, pk, []byte("m"), sig)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = s.LoadParameters([]byte("short"))
		assert.True(t, errors.Is(err, signature.ErrSetup))
	})

	t.Run("IdentityGenerator", func(t *testing.T) {
		_, err := New(identityGenerator{g}).Setup(rand.Reader)
		assert.True(t, errors.Is(err, signature.ErrSetup), "got %v", err)
	})

	t.Run("LowOrderGenerator", func(t *testing.T) {
		var x, y fr.Element
		y.SetOne()
		y.Neg(&y)
		p, err := bjj.NewPointFromCoordinates(x, y)
		require.NoError(t, err)

		_, err = New(fixedGenerator{BJJ: g, gen: p}).Setup(rand.Reader)
		assert.True(t, errors.Is(err, signature.ErrSetup), "got %v", err)
	})
}

func TestDomainSeparation(t *testing.T) {
	g := &bjj.BJJ{}
	s := New(g)
	pp, err := s.Setup(rand.Reader)
	require.NoError(t, err)
	pk, sk, err := s.KeyGen(pp, rand.Reader)
	require.NoError(t, err)
	sig, err := s.Sign(pp, sk, []byte("m"), rand.Reader)
	require.NoError(t, err)

	t.Run("OtherSalt", func(t *testing.T) {
		other, err := s.Setup(rand.Reader)
		require.NoError(t, err)
		ok, err := s.Verify(other, pk, []byte("m"), sig)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("OtherHasher", func(t *testing.T) {
		s2 := NewWithHasher(g, &SHAKE256Hasher{})
		pp2, err := s2.LoadParameters(pp.Salt())
		require.NoError(t, err)
		ok, err := s2.Verify(pp2, pk, []byte("m"), sig)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSecretKey(t *testing.T) {
	g := &bjj.BJJ{}
	s := New(g)
	pp, err := s.Setup(rand.Reader)
	require.NoError(t, err)

	t.Run("SentinelRefused", func(t *testing.T) {
		var sk SecretKey
		assert.True(t, sk.IsZero())
		assert.Nil(t, sk.Bytes())

		_, err := s.Sign(pp, sk, []byte("m"), rand.Reader)
		assert.True(t, errors.Is(err, signature.ErrSigning), "got %v", err)

		_, err = s.PublicKeyFromSecret(pp, sk)
		assert.True(t, errors.Is(err, signature.ErrKeyGen), "got %v", err)
	})

	t.Run("Redacted", func(t *testing.T) {
		_, sk, err := s.KeyGen(pp, rand.Reader)
		require.NoError(t, err)
		for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%x"} {
			out := fmt.Sprintf(verb, sk)
			assert.NotContains(t, out, fmt.Sprintf("%x", sk.Bytes()), verb)
		}
	})

	t.Run("Zeroize", func(t *testing.T) {
		_, sk, err := s.KeyGen(pp, rand.Reader)
		require.NoError(t, err)
		inner := sk.scalar

		sk.Zeroize()
		assert.True(t, sk.IsZero())
		assert.True(t, inner.IsZero())

		_, err = s.Sign(pp, sk, []byte("m"), rand.Reader)
		assert.Error(t, err)
	})

	t.Run("PublicKeyFromSecret", func(t *testing.T) {
		pk, sk, err := s.KeyGen(pp, rand.Reader)
		require.NoError(t, err)
		derived, err := s.PublicKeyFromSecret(pp, sk)
		require.NoError(t, err)
		assert.True(t, derived.Equal(pk))
	})

	t.Run("ZeroRandomness", func(t *testing.T) {
		_, _, err := s.KeyGen(pp, zeroReader{})
		assert.True(t, errors.Is(err, signature.ErrKeyGen), "got %v", err)
	})

	t.Run("ParseRejectsZero", func(t *testing.T) {
		_, err := s.ParseSecretKey(pp, make([]byte, g.ScalarLen()))
		assert.True(t, errors.Is(err, signature.ErrVerification))
	})
}

func TestRandomizeSecretKey(t *testing.T) {
	for _, g := range groups {
		t.Run(g.Name(), func(t *testing.T) {
			s := New(g)
			pp, err := s.Setup(rand.Reader)
			require.NoError(t, err)
			pk, sk, err := s.KeyGen(pp, rand.Reader)
			require.NoError(t, err)

			token := []byte("session 42")
			rpk, err := s.RandomizePublicKey(pp, pk, token)
			require.NoError(t, err)
			rsk, err := s.RandomizeSecretKey(pp, sk, token)
			require.NoError(t, err)

			derived, err := s.PublicKeyFromSecret(pp, rsk)
			require.NoError(t, err)
			assert.True(t, derived.Equal(rpk))

			sig, err := s.Sign(pp, rsk, []byte("m"), rand.Reader)
			require.NoError(t, err)
			ok, err := s.Verify(pp, rpk, []byte("m"), sig)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestVerifyEdgeCases(t *testing.T) {
	g := &bjj.BJJ{}
	s := New(g)
	pp, err := s.Setup(rand.Reader)
	require.NoError(t, err)
	pk, sk, err := s.KeyGen(pp, rand.Reader)
	require.NoError(t, err)
	msg := []byte("m")
	sig, err := s.Sign(pp, sk, msg, rand.Reader)
	require.NoError(t, err)

	t.Run("Unset", func(t *testing.T) {
		_, err := s.Verify(pp, PublicKey{}, msg, sig)
		assert.True(t, errors.Is(err, signature.ErrVerification))

		_, err = s.Verify(pp, pk, msg, Signature{})
		assert.True(t, errors.Is(err, signature.ErrVerification))
	})

	t.Run("IdentityCommitment", func(t *testing.T) {
		// With R = O the equation reduces to s*G == c*X; forge exactly that.
		R := g.NewPoint()
		c, err := pp.Challenge(R, msg)
		require.NoError(t, err)
		forged := Signature{R: R, C: c, S: g.NewScalar().Mul(c, sk.scalar)}

		ok, err := s.Verify(pp, pk, msg, forged)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IdentityPublicKey", func(t *testing.T) {
		ok, err := s.Verify(pp, PublicKey{point: g.NewPoint()}, msg, sig)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.ParsePublicKey(pp, g.NewPoint().Bytes())
		assert.True(t, errors.Is(err, signature.ErrVerification))
	})

	t.Run("TamperedChallenge", func(t *testing.T) {
		one := g.NewScalar().SetUint64(1)
		tampered := Signature{R: sig.R, C: g.NewScalar().Add(sig.C, one), S: sig.S}
		ok, err := s.Verify(pp, pk, msg, tampered)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TamperedCommitment", func(t *testing.T) {
		tampered := Signature{R: g.NewPoint().Add(sig.R, g.Generator()), C: sig.C, S: sig.S}
		ok, err := s.Verify(pp, pk, msg, tampered)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RandomizeUnset", func(t *testing.T) {
		_, err := s.RandomizePublicKey(pp, PublicKey{}, []byte("t"))
		assert.True(t, errors.Is(err, signature.ErrRandomization))
		_, err = s.RandomizeSignature(pp, Signature{}, []byte("t"))
		assert.True(t, errors.Is(err, signature.ErrRandomization))
	})
}

func TestKeyID(t *testing.T) {
	s := New(&bjj.BJJ{})
	pp, err := s.Setup(rand.Reader)
	require.NoError(t, err)

	seen := make(map[[32]byte]bool)
	for i := 0; i < 8; i++ {
		pk, _, err := s.KeyGen(pp, rand.Reader)
		require.NoError(t, err)
		id := signature.KeyID(pk)
		assert.False(t, seen[id])
		seen[id] = true

		parsed, err := s.ParsePublicKey(pp, pk.Bytes())
		require.NoError(t, err)
		assert.Equal(t, id, signature.KeyID(parsed))
	}
}

type identityGenerator struct {
	*bjj.BJJ
}

func (g identityGenerator) Generator() group.Point {
	return g.NewPoint()
}

type fixedGenerator struct {
	*bjj.BJJ
	gen group.Point
}

func (g fixedGenerator) Generator() group.Point {
	return g.gen
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
