package signature

import (
	"io"

	"golang.org/x/crypto/blake2b"
)

// Encoder is implemented by values with a canonical, injective byte
// encoding.
type Encoder interface {
	Bytes() []byte
}

// Key constrains public keys and comparable signatures: a canonical
// encoding plus equality defined over that encoding.
type Key[T any] interface {
	Encoder
	Equal(other T) bool
}

// Scheme is a re-randomizable signature scheme over byte messages.
//
// Setup, KeyGen and Sign consume rng for the duration of the call only;
// callers sharing a reader between goroutines must synchronize it.
// Verify has no side effects and is safe for concurrent use on shared
// parameters and keys.
type Scheme[Params any, PK Key[PK], SK Encoder, Sig Encoder] interface {
	// Setup draws public parameters. Fails with ErrSetup.
	Setup(rng io.Reader) (Params, error)
	// KeyGen draws a key pair. Fails with ErrKeyGen.
	KeyGen(pp Params, rng io.Reader) (PK, SK, error)
	// Sign signs message. Fails with ErrSigning.
	Sign(pp Params, sk SK, message []byte, rng io.Reader) (Sig, error)
	// Verify reports whether sig is valid for message under pk. It fails
	// with ErrVerification only for malformed inputs.
	Verify(pp Params, pk PK, message []byte, sig Sig) (bool, error)
	// RandomizePublicKey maps pk to a fresh-looking key using public
	// randomness. Fails with ErrRandomization.
	RandomizePublicKey(pp Params, pk PK, randomness []byte) (PK, error)
	// RandomizeSignature maps sig so it verifies under the public key
	// randomized with the same randomness. Fails with ErrRandomization.
	RandomizeSignature(pp Params, sig Sig, randomness []byte) (Sig, error)

	// ParsePublicKey, ParseSecretKey and ParseSignature invert Bytes.
	// They fail with ErrVerification.
	ParsePublicKey(pp Params, data []byte) (PK, error)
	ParseSecretKey(pp Params, data []byte) (SK, error)
	ParseSignature(pp Params, data []byte) (Sig, error)
}

// FieldScheme is a signature scheme whose messages, keys and signatures
// are native field elements, so that verification can be arithmetized.
type FieldScheme[Data any, PK Key[PK], SK Encoder, Sig Key[Sig]] interface {
	// KeyGen draws a key pair. Fails with ErrKeyGen.
	KeyGen(rng io.Reader) (PK, SK, error)
	// PublicKey derives the public key of sk without randomness.
	PublicKey(sk SK) PK
	// Sign signs message. Fails with ErrSigning.
	Sign(rng io.Reader, pk PK, sk SK, message []Data) (Sig, error)
	// Verify reports whether sig is valid for message under pk. It fails
	// with ErrVerification only for malformed inputs.
	Verify(pk PK, message []Data, sig Sig) (bool, error)
	// KeyVerify reports whether pk lies in the expected prime-order
	// subgroup. Callers must check untrusted keys before Verify.
	KeyVerify(pk PK) bool
}

// KeyID returns a fixed-size digest of v's canonical encoding, suitable
// as a map key for deduplication.
func KeyID[T Encoder](v T) [32]byte {
	return blake2b.Sum256(v.Bytes())
}
