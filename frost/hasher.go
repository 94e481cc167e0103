package frost

import (
	"github.com/f3rmion/fysig/group"
	"golang.org/x/crypto/blake2b"
)

// Hasher defines the hash operations required by FROST beyond the
// schnorr challenge, which always comes from the schnorr parameters.
type Hasher interface {
	// BindingFactor computes rho for a signer.
	// Inputs: signing context, message, encoded commitment list, signer ID.
	BindingFactor(g group.Group, context, msg, encCommitList, signerID []byte) (group.Scalar, error)

	// Nonce derives a signing nonce from fresh randomness and the
	// signer's secret share, so a weak source alone does not expose it.
	Nonce(g group.Group, random, secret []byte) (group.Scalar, error)
}

// Blake2bHasher implements Hasher using Blake2b-512 with domain separation.
//
// Domain separation format: prefix + framed tag + framed inputs.
// The message and commitment list are pre-hashed under their own tags.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	// Default: "FYSIG-FROST-BLAKE2B512-v1"
	Prefix string
}

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "FYSIG-FROST-BLAKE2B512-v1",
	}
}

func (h *Blake2bHasher) hash(tag string, data ...[]byte) []byte {
	hasher, _ := blake2b.New512(nil)
	hasher.Write([]byte(h.Prefix))
	group.Frame(hasher, []byte(tag))
	group.Frame(hasher, data...)
	return hasher.Sum(nil)
}

// BindingFactor implements Hasher.BindingFactor.
func (h *Blake2bHasher) BindingFactor(g group.Group, context, msg, encCommitList, signerID []byte) (group.Scalar, error) {
	return g.NewScalar().SetUniformBytes(h.hash("rho", context, h.hash("msg", msg), h.hash("com", encCommitList), signerID))
}

// Nonce implements Hasher.Nonce.
func (h *Blake2bHasher) Nonce(g group.Group, random, secret []byte) (group.Scalar, error) {
	return g.NewScalar().SetUniformBytes(h.hash("nonce", random, secret))
}

// GroupHasher implements Hasher with the group's own HashToScalar.
type GroupHasher struct{}

// BindingFactor implements Hasher.BindingFactor.
func (h *GroupHasher) BindingFactor(g group.Group, context, msg, encCommitList, signerID []byte) (group.Scalar, error) {
	return g.HashToScalar([]byte("frost-rho"), context, msg, encCommitList, signerID)
}

// Nonce implements Hasher.Nonce.
func (h *GroupHasher) Nonce(g group.Group, random, secret []byte) (group.Scalar, error) {
	return g.HashToScalar([]byte("frost-nonce"), random, secret)
}
