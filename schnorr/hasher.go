package schnorr

import (
	"github.com/f3rmion/fysig/group"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hasher supplies the hash-to-scalar functions of the scheme. Every
// input is length-framed and prefixed with a per-purpose tag, so the
// challenge and randomizer outputs never collide.
type Hasher interface {
	// ID names the hash construction. It is mixed into the domain tag so
	// signatures made with one hasher never verify under another.
	ID() string

	// Challenge computes the Fiat-Shamir challenge c = H(domain, R, msg).
	Challenge(g group.Group, domain, R, msg []byte) (group.Scalar, error)

	// Randomizer maps a randomization token to a scalar.
	Randomizer(g group.Group, domain, token []byte) (group.Scalar, error)
}

const (
	tagChallenge  = "chal"
	tagRandomizer = "rand"
)

// Blake2bHasher implements Hasher with Blake2b-512. It is the default.
type Blake2bHasher struct {
	// Prefix is written before every input.
	// Default: "FYSIG-SCHNORR-BLAKE2B512-v1"
	Prefix string
}

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "FYSIG-SCHNORR-BLAKE2B512-v1",
	}
}

// ID implements Hasher.ID.
func (h *Blake2bHasher) ID() string {
	return "blake2b512:" + h.Prefix
}

func (h *Blake2bHasher) hashToScalar(g group.Group, tag string, data ...[]byte) (group.Scalar, error) {
	hasher, _ := blake2b.New512(nil)
	hasher.Write([]byte(h.Prefix))
	group.Frame(hasher, []byte(tag))
	group.Frame(hasher, data...)
	return g.NewScalar().SetUniformBytes(hasher.Sum(nil))
}

// Challenge implements Hasher.Challenge.
func (h *Blake2bHasher) Challenge(g group.Group, domain, R, msg []byte) (group.Scalar, error) {
	return h.hashToScalar(g, tagChallenge, domain, R, msg)
}

// Randomizer implements Hasher.Randomizer.
func (h *Blake2bHasher) Randomizer(g group.Group, domain, token []byte) (group.Scalar, error) {
	return h.hashToScalar(g, tagRandomizer, domain, token)
}

// SHA512Hasher implements Hasher with the group's own HashToScalar,
// which is SHA-512 based for every group in this module.
type SHA512Hasher struct{}

// ID implements Hasher.ID.
func (h *SHA512Hasher) ID() string {
	return "group-sha512"
}

// Challenge implements Hasher.Challenge.
func (h *SHA512Hasher) Challenge(g group.Group, domain, R, msg []byte) (group.Scalar, error) {
	return g.HashToScalar([]byte(tagChallenge), domain, R, msg)
}

// Randomizer implements Hasher.Randomizer.
func (h *SHA512Hasher) Randomizer(g group.Group, domain, token []byte) (group.Scalar, error) {
	return g.HashToScalar([]byte(tagRandomizer), domain, token)
}

// SHAKE256Hasher implements Hasher with SHAKE256 and a 64-byte output.
type SHAKE256Hasher struct{}

// ID implements Hasher.ID.
func (h *SHAKE256Hasher) ID() string {
	return "shake256"
}

func (h *SHAKE256Hasher) hashToScalar(g group.Group, tag string, data ...[]byte) (group.Scalar, error) {
	xof := sha3.NewShake256()
	group.Frame(xof, []byte(tag))
	group.Frame(xof, data...)
	var out [64]byte
	xof.Read(out[:])
	return g.NewScalar().SetUniformBytes(out[:])
}

// Challenge implements Hasher.Challenge.
func (h *SHAKE256Hasher) Challenge(g group.Group, domain, R, msg []byte) (group.Scalar, error) {
	return h.hashToScalar(g, tagChallenge, domain, R, msg)
}

// Randomizer implements Hasher.Randomizer.
func (h *SHAKE256Hasher) Randomizer(g group.Group, domain, token []byte) (group.Scalar, error) {
	return h.hashToScalar(g, tagRandomizer, domain, token)
}
