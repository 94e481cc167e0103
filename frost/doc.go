// Package frost implements FROST (Flexible Round-Optimized Schnorr
// Threshold) issuance of schnorr signatures over any [group.Group].
//
// FROST lets t-of-n participants jointly produce a signature without any
// single participant knowing the full secret key. The aggregate is an
// ordinary [schnorr.Signature] under the group key: it verifies with
// schnorr verification and can be re-randomized like any other
// signature. The scheme consists of two phases:
//
// # Distributed Key Generation (DKG)
//
// Before signing, participants run a distributed key generation protocol
// to establish their key shares. The DKG proceeds in rounds:
//
//  1. Each participant generates a random polynomial and broadcasts commitments
//     to its coefficients using [Participant.Round1Broadcast].
//  2. Each participant sends private shares to all other participants using
//     [FROST.Round1PrivateSend].
//  3. Each participant verifies received shares against the broadcasted
//     commitments using [FROST.Round2ReceiveShare].
//  4. Each participant computes their final key share using [FROST.Finalize].
//
// # Threshold Signing
//
// Once key shares are established, any t participants can collaboratively
// sign a message:
//
//  1. Each signer generates nonces and commitments using [FROST.SignRound1].
//  2. Each signer computes their signature share using [FROST.SignRound2].
//  3. The coordinator may check shares with [FROST.VerifyShare].
//  4. Signature shares are aggregated using [FROST.Aggregate].
//
// The challenge is the schnorr challenge H(domain, R, message) of the
// parameters the instance was built with. Binding factors additionally
// bind the parameters' salt and the group key.
//
// # Example
//
//	pp, _ := schnorr.New(&bjj.BJJ{}).Setup(rand.Reader)
//	f, _ := frost.New(pp, 2, 3)
//
//	// ... run the DKG, producing keyShares ...
//
//	nonce1, commit1, _ := f.SignRound1(rand.Reader, keyShares[0])
//	nonce2, commit2, _ := f.SignRound1(rand.Reader, keyShares[1])
//	commitments := []*frost.SigningCommitment{commit1, commit2}
//
//	share1, _ := f.SignRound2(keyShares[0], nonce1, message, commitments)
//	share2, _ := f.SignRound2(keyShares[1], nonce2, message, commitments)
//
//	groupKey := keyShares[0].GroupKey
//	sig, _ := f.Aggregate(groupKey, message, commitments, []*frost.SignatureShare{share1, share2})
//	ok, _ := f.Verify(message, sig, groupKey)
//
// # Security Considerations
//
// The DKG assumes all participants are honest while it runs; shares are
// checked against the sender's commitments but there is no proof of
// knowledge of the constant term. Signing tolerates up to t-1 passive
// corruptions.
//
// Nonces from [FROST.SignRound1] must never be reused. SignRound2 wipes
// the nonce it consumes and refuses a wiped one.
package frost
