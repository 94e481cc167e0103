// Package fieldsig implements a Schnorr-style signature whose messages,
// keys and signatures are elements of the BN254 scalar field, so that
// verification costs a handful of constraints inside a zk-SNARK circuit.
//
// Keys live on Baby Jubjub, whose base field is the BN254 scalar field.
// The challenge is the MiMC hash
//
//	e = MiMC(d, R.x, R.y, pk.x, pk.y, n, m_1, ..., m_n)
//
// where d is a domain constant derived from the scheme's tag and n is the
// message length. The signature is (e, s) with s = k + (e mod l)*sk mod l.
// A verifier recomputes R' = sG - (e mod l)*pk and accepts iff R' is not
// the identity and the hash of R' reproduces e.
//
// Verify trusts that pk lies in the prime-order subgroup. A key with a
// small-order component admits forgeries, so keys from outside the
// process must pass [Scheme.KeyVerify] before use. [ParsePublicKey]
// enforces this; [PublicKeyFromElements] does not.
//
// Signatures are not re-randomizable.
//
// Example:
//
//	s, err := fieldsig.New()
//	pk, sk, err := s.KeyGen(rand.Reader)
//	msg := fieldsig.MessageFromBytes([]byte("hello"))
//	sig, err := s.Sign(rand.Reader, pk, sk, msg)
//	ok, err := s.Verify(pk, msg, sig)
package fieldsig
