// Package signaturetest provides conformance suites for implementations of
// [signature.Scheme] and [signature.FieldScheme].
//
// A scheme package runs the suite from its own tests:
//
//	func TestConformance(t *testing.T) {
//		signaturetest.RunScheme[*schnorr.Parameters, schnorr.PublicKey, schnorr.SecretKey, schnorr.Signature](t, schnorr.New(&bjj.BJJ{}))
//	}
package signaturetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Trials is the number of random trials used by statistical checks.
var Trials = 16

func seeded(label string, i int) io.Reader {
	return signature.NewSeededReader([]byte(fmt.Sprintf("signaturetest/%s/%d", label, i)))
}

// RunScheme checks correctness, randomization, encoding and error
// semantics of s.
func RunScheme[P any, PK signature.Key[PK], SK signature.Encoder, Sig signature.Encoder](t *testing.T, s signature.Scheme[P, PK, SK, Sig]) {
	t.Helper()

	pp, err := s.Setup(seeded("setup", 0))
	require.NoError(t, err)

	keygen := func(t *testing.T, i int) (PK, SK) {
		pk, sk, err := s.KeyGen(pp, seeded("keygen", i))
		require.NoError(t, err)
		return pk, sk
	}
	sign := func(t *testing.T, sk SK, msg []byte, i int) Sig {
		sig, err := s.Sign(pp, sk, msg, seeded("sign", i))
		require.NoError(t, err)
		return sig
	}
	verify := func(t *testing.T, pk PK, msg []byte, sig Sig) bool {
		ok, err := s.Verify(pp, pk, msg, sig)
		require.NoError(t, err)
		return ok
	}

	t.Run("Correctness", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			msg := []byte(fmt.Sprintf("message %d", i))
			assert.True(t, verify(t, pk, msg, sign(t, sk, msg, i)), "trial %d", i)
		}
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		assert.True(t, verify(t, pk, nil, sign(t, sk, nil, 0)))
		assert.False(t, verify(t, pk, []byte{0}, sign(t, sk, nil, 1)))
	})

	t.Run("WrongMessage", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			sig := sign(t, sk, []byte("m1"), i)
			assert.False(t, verify(t, pk, []byte("m2"), sig), "trial %d", i)
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		_, sk := keygen(t, 0)
		other, _ := keygen(t, 1)
		assert.False(t, verify(t, other, []byte("m"), sign(t, sk, []byte("m"), 0)))
	})

	t.Run("DeterministicGivenRandomness", func(t *testing.T) {
		pk1, sk1 := keygen(t, 7)
		pk2, sk2 := keygen(t, 7)
		assert.True(t, pk1.Equal(pk2))
		assert.Equal(t, sk1.Bytes(), sk2.Bytes())
		assert.Equal(t, sign(t, sk1, []byte("m"), 3).Bytes(), sign(t, sk2, []byte("m"), 3).Bytes())
	})

	t.Run("RandomizationConsistency", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			msg := []byte("randomize me")
			sig := sign(t, sk, msg, i)
			token := []byte(fmt.Sprintf("token %d", i))

			rpk, err := s.RandomizePublicKey(pp, pk, token)
			require.NoError(t, err)
			rsig, err := s.RandomizeSignature(pp, sig, token)
			require.NoError(t, err)

			assert.True(t, verify(t, rpk, msg, rsig), "trial %d", i)
			assert.False(t, rpk.Equal(pk), "randomized key must differ")
			assert.False(t, verify(t, pk, msg, rsig), "randomized signature must not verify under the base key")
		}
	})

	t.Run("RandomizationUnlinkability", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			msg := []byte("randomize me")
			sig := sign(t, sk, msg, i)

			rpk, err := s.RandomizePublicKey(pp, pk, []byte("t2"))
			require.NoError(t, err)
			rsig, err := s.RandomizeSignature(pp, sig, []byte("t1"))
			require.NoError(t, err)

			assert.False(t, verify(t, rpk, msg, rsig), "trial %d", i)
		}
	})

	t.Run("RandomizationRejectsEmptyToken", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		_, err := s.RandomizePublicKey(pp, pk, nil)
		assert.True(t, errors.Is(err, signature.ErrRandomization), "got %v", err)

		_, err = s.RandomizeSignature(pp, sign(t, sk, []byte("m"), 0), []byte{})
		assert.True(t, errors.Is(err, signature.ErrRandomization), "got %v", err)
	})

	t.Run("EncodingRoundtrip", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		sig := sign(t, sk, []byte("m"), 0)

		pk2, err := s.ParsePublicKey(pp, pk.Bytes())
		require.NoError(t, err)
		assert.True(t, pk2.Equal(pk))

		sk2, err := s.ParseSecretKey(pp, sk.Bytes())
		require.NoError(t, err)
		assert.Equal(t, sk.Bytes(), sk2.Bytes())

		sig2, err := s.ParseSignature(pp, sig.Bytes())
		require.NoError(t, err)
		assert.Equal(t, sig.Bytes(), sig2.Bytes())
		assert.True(t, verify(t, pk2, []byte("m"), sig2))
	})

	t.Run("MalformedEncodings", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		sig := sign(t, sk, []byte("m"), 0)

		for name, parse := range map[string]func([]byte) error{
			"PublicKey": func(b []byte) error { _, err := s.ParsePublicKey(pp, b); return err },
			"SecretKey": func(b []byte) error { _, err := s.ParseSecretKey(pp, b); return err },
			"Signature": func(b []byte) error { _, err := s.ParseSignature(pp, b); return err },
		} {
			err := parse(nil)
			assert.True(t, errors.Is(err, signature.ErrVerification), "%s: got %v", name, err)
		}

		long := append(bytes.Clone(sig.Bytes()), 0)
		_, err := s.ParseSignature(pp, long)
		assert.True(t, errors.Is(err, signature.ErrVerification))

		long = append(bytes.Clone(pk.Bytes()), 0)
		_, err = s.ParsePublicKey(pp, long)
		assert.True(t, errors.Is(err, signature.ErrVerification))
	})

	t.Run("BitFlipsNeverVerify", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		msg := []byte("hello")
		enc := sign(t, sk, msg, 0).Bytes()

		for i := 0; i < 8*len(enc); i++ {
			flipped := bytes.Clone(enc)
			flipped[i/8] ^= 1 << (i % 8)

			sig, err := s.ParseSignature(pp, flipped)
			if err != nil {
				assert.True(t, errors.Is(err, signature.ErrVerification), "bit %d: got %v", i, err)
				continue
			}
			ok, err := s.Verify(pp, pk, msg, sig)
			assert.False(t, ok && err == nil, "bit %d verified", i)
		}
	})

	t.Run("ExhaustedRandomness", func(t *testing.T) {
		_, err := s.Setup(bytes.NewReader(nil))
		assert.True(t, errors.Is(err, signature.ErrSetup), "got %v", err)

		_, _, err = s.KeyGen(pp, bytes.NewReader(nil))
		assert.True(t, errors.Is(err, signature.ErrKeyGen), "got %v", err)

		_, sk := keygen(t, 0)
		_, err = s.Sign(pp, sk, []byte("m"), bytes.NewReader(nil))
		assert.True(t, errors.Is(err, signature.ErrSigning), "got %v", err)
	})

	t.Run("ConcurrentVerify", func(t *testing.T) {
		var items []signature.Item[PK, Sig]
		var want []bool
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			msg := []byte(fmt.Sprintf("batch %d", i))
			sig := sign(t, sk, msg, i)
			valid := i%3 != 0
			if !valid {
				msg = []byte("tampered")
			}
			items = append(items, signature.Item[PK, Sig]{PublicKey: pk, Message: msg, Signature: sig})
			want = append(want, valid)
		}

		verifyOne := func(pk PK, msg []byte, sig Sig) (bool, error) {
			return s.Verify(pp, pk, msg, sig)
		}
		got, err := signature.VerifyBatch(context.Background(), verifyOne, items, 4)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
