// Package schnorr implements a re-randomizable Schnorr signature scheme
// over any prime-order [group.Group].
//
// # Protocol
//
//	Setup:   salt <- rng; domain = frame("fysig/schnorr/v1", group, hasher, salt)
//	KeyGen:  x <- [1, n); X = xG
//	Sign:    k <- [1, n); R = kG; c = H(domain, R, m); s = k + c*x
//	Verify:  R != O, c == H(domain, R, m), sG == R + cX
//
// Signatures are carried as (R, c, s).
//
// # Randomization and the challenge
//
// A token is hashed to a scalar t. The public key becomes X' = X + tG and
// a signature becomes (R, c, s + c*t), which satisfies
// (s + ct)G == R + c(X + tG). This only works because c does not depend
// on X: if the public key were hashed into the challenge, the randomized
// signature would need a new challenge c' over X', and producing a
// response for c' requires the nonce k or the secret key x.
//
// The scheme therefore leaves X out of the challenge and carries c in the
// signature. Two things compensate for the weaker binding: the salt drawn
// by Setup separates every instance, and verification rejects R == O,
// which is the one commitment that lets an unbound challenge be answered
// from the public key alone.
//
// The holder of x can sign directly under X' with [Scheme.RandomizeSecretKey].
//
// # Example
//
//	s := schnorr.New(&bjj.BJJ{})
//	pp, _ := s.Setup(rand.Reader)
//	pk, sk, _ := s.KeyGen(pp, rand.Reader)
//	sig, _ := s.Sign(pp, sk, []byte("hello"), rand.Reader)
//	ok, _ := s.Verify(pp, pk, []byte("hello"), sig)
//
// # Hashers
//
// [Blake2bHasher] is the default. [SHA512Hasher] and [SHAKE256Hasher] are
// alternatives; the hasher ID is part of the domain tag, so signatures do
// not verify across hashers.
package schnorr
