package signature

import (
	"io"

	"golang.org/x/crypto/blake2b"
)

// NewSeededReader returns a deterministic byte stream derived from seed
// with the Blake2b XOF. It is meant for reproducible tests and tooling;
// production callers should pass crypto/rand.Reader.
func NewSeededReader(seed []byte) io.Reader {
	key := blake2b.Sum256(seed)
	// A 32-byte key is always accepted.
	xof, _ := blake2b.NewXOF(blake2b.OutputLengthUnknown, key[:])
	return xof
}
