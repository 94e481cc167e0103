package signaturetest

import (
	"bytes"
	"io"
	"testing"

	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FieldConfig supplies the scheme-specific pieces RunFieldScheme needs.
type FieldConfig[D any, PK any] struct {
	// Message returns n field elements drawn from rng.
	Message func(t *testing.T, rng io.Reader, n int) []D
	// MaxLen is the longest message the scheme accepts.
	MaxLen int
	// Degenerate lists public keys KeyVerify must reject.
	Degenerate []PK
}

// RunFieldScheme checks correctness, key validation and error semantics
// of a field-based scheme.
func RunFieldScheme[D any, PK signature.Key[PK], SK signature.Encoder, Sig signature.Key[Sig]](t *testing.T, s signature.FieldScheme[D, PK, SK, Sig], cfg FieldConfig[D, PK]) {
	t.Helper()

	keygen := func(t *testing.T, i int) (PK, SK) {
		pk, sk, err := s.KeyGen(seeded("field-keygen", i))
		require.NoError(t, err)
		return pk, sk
	}
	message := func(t *testing.T, i, n int) []D {
		return cfg.Message(t, seeded("field-message", i), n)
	}

	t.Run("Correctness", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			msg := message(t, i, 1+i%cfg.MaxLen)
			sig, err := s.Sign(seeded("field-sign", i), pk, sk, msg)
			require.NoError(t, err)

			ok, err := s.Verify(pk, msg, sig)
			require.NoError(t, err)
			assert.True(t, ok, "trial %d", i)
		}
	})

	t.Run("WrongMessage", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			sig, err := s.Sign(seeded("field-sign", i), pk, sk, message(t, i, 2))
			require.NoError(t, err)

			ok, err := s.Verify(pk, message(t, i+Trials, 2), sig)
			require.NoError(t, err)
			assert.False(t, ok, "trial %d", i)
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		other, _ := keygen(t, 1)
		msg := message(t, 0, 3)
		sig, err := s.Sign(seeded("field-sign", 0), pk, sk, msg)
		require.NoError(t, err)

		ok, err := s.Verify(other, msg, sig)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("PublicKeyDerivation", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, sk := keygen(t, i)
			assert.True(t, s.PublicKey(sk).Equal(pk), "trial %d", i)
		}
	})

	t.Run("KeyVerify", func(t *testing.T) {
		for i := 0; i < Trials; i++ {
			pk, _ := keygen(t, i)
			assert.True(t, s.KeyVerify(pk), "honest key %d rejected", i)
		}
		require.NotEmpty(t, cfg.Degenerate)
		for i, pk := range cfg.Degenerate {
			assert.False(t, s.KeyVerify(pk), "degenerate key %d accepted", i)
		}
	})

	t.Run("SignatureEquality", func(t *testing.T) {
		pk, sk := keygen(t, 0)
		msg := message(t, 0, 2)
		a, err := s.Sign(seeded("field-sign", 0), pk, sk, msg)
		require.NoError(t, err)
		b, err := s.Sign(seeded("field-sign", 0), pk, sk, msg)
		require.NoError(t, err)
		c, err := s.Sign(seeded("field-sign", 1), pk, sk, msg)
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
		assert.Equal(t, signature.KeyID(a), signature.KeyID(b))
		assert.False(t, a.Equal(c), "fresh nonce gives a fresh signature")
	})

	t.Run("MessageLength", func(t *testing.T) {
		pk, sk := keygen(t, 0)

		_, err := s.Sign(seeded("field-sign", 0), pk, sk, message(t, 0, cfg.MaxLen))
		assert.NoError(t, err)

		_, err = s.Sign(seeded("field-sign", 0), pk, sk, message(t, 0, cfg.MaxLen+1))
		assert.True(t, errors.Is(err, signature.ErrSigning), "got %v", err)

		_, err = s.Sign(seeded("field-sign", 0), pk, sk, nil)
		assert.True(t, errors.Is(err, signature.ErrSigning), "got %v", err)
	})

	t.Run("ExhaustedRandomness", func(t *testing.T) {
		_, _, err := s.KeyGen(bytes.NewReader(nil))
		assert.True(t, errors.Is(err, signature.ErrKeyGen), "got %v", err)

		pk, sk := keygen(t, 0)
		_, err = s.Sign(bytes.NewReader(nil), pk, sk, message(t, 0, 1))
		assert.True(t, errors.Is(err, signature.ErrSigning), "got %v", err)
	})

	t.Run("DefaultSecretKeyRefused", func(t *testing.T) {
		var sk SK
		pk, _ := keygen(t, 0)
		_, err := s.Sign(seeded("field-sign", 0), pk, sk, message(t, 0, 1))
		assert.True(t, errors.Is(err, signature.ErrSigning), "got %v", err)
	})
}
