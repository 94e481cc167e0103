package session

import (
	"bytes"
	"io"
	"sync"

	"github.com/f3rmion/fysig/frost"
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// SigningSession manages a single signing operation with built-in nonce safety.
// Each session can only be used once; attempting to sign twice returns an error.
//
// Create sessions using [Participant.NewSigningSession].
type SigningSession struct {
	mu         sync.Mutex
	frost      *frost.FROST
	keyShare   *frost.KeyShare
	message    []byte
	nonce      *frost.SigningNonce
	commitment *frost.SigningCommitment
	consumed   bool
}

// NewSigningSession creates a new signing session for the given message.
//
// This generates fresh nonces internally. The session must be used exactly
// once; calling Sign a second time returns an error.
//
// The participant must have completed DKG before creating signing sessions.
func (p *Participant) NewSigningSession(rng io.Reader, message []byte) (*SigningSession, error) {
	if p.keyShare == nil {
		return nil, signature.Errorf(signature.ErrSigning, "session.NewSigningSession", "DKG not complete: no key share available")
	}

	nonce, commitment, err := p.frost.SignRound1(rng, p.keyShare)
	if err != nil {
		return nil, err
	}

	return &SigningSession{
		frost:      p.frost,
		keyShare:   p.keyShare,
		message:    bytes.Clone(message),
		nonce:      nonce,
		commitment: commitment,
	}, nil
}

// Commitment returns the public commitment that must be broadcast to other signers.
func (s *SigningSession) Commitment() *frost.SigningCommitment {
	return s.commitment
}

// Message returns the message being signed.
func (s *SigningSession) Message() []byte {
	return bytes.Clone(s.message)
}

// Sign produces a signature share for this session.
//
// The allCommitments slice must contain commitments from all participating
// signers, including this participant's own commitment.
//
// This method consumes the session. Calling Sign a second time returns
// an error to prevent nonce reuse. After Sign returns, successfully or
// not, the internal nonces are wiped.
func (s *SigningSession) Sign(allCommitments []*frost.SigningCommitment) (*frost.SignatureShare, error) {
	const op = "session.Sign"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumed {
		return nil, signature.Errorf(signature.ErrSigning, op, "session already consumed: nonce reuse prevented")
	}
	s.consumed = true
	defer s.zeroNonces()

	found := false
	for _, c := range allCommitments {
		if c.ID.Equal(s.commitment.ID) {
			found = c.HidingPoint.Equal(s.commitment.HidingPoint) && c.BindingPoint.Equal(s.commitment.BindingPoint)
			break
		}
	}
	if !found {
		return nil, signature.Errorf(signature.ErrSigning, op, "own commitment not found in commitment list")
	}

	return s.frost.SignRound2(s.keyShare, s.nonce, s.message, allCommitments)
}

func (s *SigningSession) zeroNonces() {
	if s.nonce == nil {
		return
	}
	s.nonce.Zeroize()
	s.nonce = nil
}

// IsConsumed returns true if this session has already been used for signing.
func (s *SigningSession) IsConsumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// Aggregate combines signature shares into a final signature and checks
// it against groupKey.
//
// This is typically called by a coordinator after collecting shares from
// all participating signers. When the aggregate does not verify and
// publicShares is non-nil, the error names the first bad share.
func Aggregate(
	f *frost.FROST,
	groupKey schnorr.PublicKey,
	message []byte,
	commitments []*frost.SigningCommitment,
	shares []*frost.SignatureShare,
	publicShares map[int]group.Point,
) (schnorr.Signature, error) {
	const op = "session.Aggregate"
	if len(shares) == 0 {
		return schnorr.Signature{}, signature.Errorf(signature.ErrSigning, op, "no signature shares provided")
	}
	if len(commitments) == 0 {
		return schnorr.Signature{}, signature.Errorf(signature.ErrSigning, op, "no commitments provided")
	}

	sig, err := f.Aggregate(groupKey, message, commitments, shares)
	if err != nil {
		return schnorr.Signature{}, err
	}
	if err := Verify(f, message, sig, groupKey); err == nil {
		return sig, nil
	}

	for id, Y := range publicShares {
		idScalar := f.Group().NewScalar().SetUint64(uint64(id))
		for _, ss := range shares {
			if !ss.ID.Equal(idScalar) {
				continue
			}
			ok, err := f.VerifyShare(groupKey, Y, message, commitments, ss)
			if err != nil {
				return schnorr.Signature{}, err
			}
			if !ok {
				return schnorr.Signature{}, signature.Errorf(signature.ErrSigning, op, "invalid signature share from participant %d", id)
			}
		}
	}
	return schnorr.Signature{}, signature.Errorf(signature.ErrSigning, op, "aggregate signature does not verify")
}

// Verify checks whether a signature is valid for the given message and group key.
//
// Returns nil if the signature is valid, or an error describing why it's invalid.
func Verify(f *frost.FROST, message []byte, sig schnorr.Signature, groupKey schnorr.PublicKey) error {
	ok, err := f.Verify(message, sig, groupKey)
	if err != nil {
		return err
	}
	if !ok {
		return signature.Errorf(signature.ErrVerification, "session.Verify", "signature verification failed")
	}
	return nil
}

// QuickSign performs a complete signing operation when all key shares are local.
//
// This is useful for testing or single-machine threshold setups where all
// participants are in the same process. For distributed signing, use
// [SigningSession] instead.
//
// The signerShares must contain at least threshold key shares.
func QuickSign(
	f *frost.FROST,
	rng io.Reader,
	signerShares []*frost.KeyShare,
	message []byte,
) (schnorr.Signature, error) {
	if len(signerShares) == 0 {
		return schnorr.Signature{}, errors.New("no key shares provided")
	}

	nonces := make([]*frost.SigningNonce, len(signerShares))
	commitments := make([]*frost.SigningCommitment, len(signerShares))
	for i, share := range signerShares {
		nonce, commitment, err := f.SignRound1(rng, share)
		if err != nil {
			return schnorr.Signature{}, err
		}
		nonces[i] = nonce
		commitments[i] = commitment
	}

	shares := make([]*frost.SignatureShare, len(signerShares))
	for i, keyShare := range signerShares {
		share, err := f.SignRound2(keyShare, nonces[i], message, commitments)
		if err != nil {
			return schnorr.Signature{}, err
		}
		shares[i] = share
	}

	return f.Aggregate(signerShares[0].GroupKey, message, commitments, shares)
}
