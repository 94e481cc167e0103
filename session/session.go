package session

import (
	"io"

	"github.com/f3rmion/fysig/frost"
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// Participant manages a single participant's state throughout DKG and signing
// ceremonies. Create instances using [NewParticipant].
type Participant struct {
	id        int
	frost     *frost.FROST
	group     group.Group
	keyShare  *frost.KeyShare
	dkgState  *frost.Participant
	finalized bool
}

// DKGResult contains the output of a successful DKG ceremony.
type DKGResult struct {
	// KeyShare is this participant's share of the distributed key.
	// Store this securely; it is required for signing.
	KeyShare *frost.KeyShare

	// GroupKey is the combined public key for the threshold group. It is a
	// schnorr public key: aggregate signatures verify and randomize under it.
	GroupKey schnorr.PublicKey

	// PublicShares maps participant IDs to their public key shares, for
	// use with [frost.FROST.VerifyShare].
	PublicShares map[int]group.Point
}

// Round1Output contains all messages generated during DKG round 1.
type Round1Output struct {
	// Broadcast is the public commitment that must be sent to all participants.
	Broadcast *frost.Round1Data

	// PrivateShares maps recipient participant ID to their private share.
	// Each share must be sent to its recipient over a secure, authenticated channel.
	PrivateShares map[int]*frost.Round1PrivateData
}

// Round1Input contains all messages received during DKG round 1.
type Round1Input struct {
	// Broadcasts contains the public commitments from all participants
	// (including this participant's own broadcast).
	Broadcasts []*frost.Round1Data

	// PrivateShares contains the private shares sent TO this participant
	// from all other participants.
	PrivateShares []*frost.Round1PrivateData
}

// NewParticipant creates a new participant for FROST ceremonies issuing
// signatures under pp.
//
// Parameters:
//   - pp: schnorr parameters shared by all participants
//   - threshold: Minimum number of signers required (t)
//   - total: Total number of participants (n)
//   - id: This participant's unique identifier (1 to n)
//
// The returned Participant can be used for one DKG ceremony and then
// for multiple signing sessions.
func NewParticipant(pp *schnorr.Parameters, threshold, total, id int) (*Participant, error) {
	return NewParticipantWithHasher(pp, threshold, total, id, frost.NewBlake2bHasher())
}

// NewParticipantWithHasher creates a participant with a custom
// binding-factor and nonce hasher.
func NewParticipantWithHasher(pp *schnorr.Parameters, threshold, total, id int, hasher frost.Hasher) (*Participant, error) {
	if id < 1 || id > total {
		return nil, signature.Errorf(signature.ErrSetup, "session.NewParticipant", "participant ID must be between 1 and %d, got %d", total, id)
	}

	f, err := frost.NewWithHasher(pp, threshold, total, hasher)
	if err != nil {
		return nil, errors.Wrap(err, "creating FROST instance")
	}

	return &Participant{
		id:    id,
		frost: f,
		group: pp.Group(),
	}, nil
}

// ID returns this participant's identifier.
func (p *Participant) ID() int {
	return p.id
}

// KeyShare returns this participant's key share after DKG completion.
// Returns nil if DKG has not been finalized.
func (p *Participant) KeyShare() *frost.KeyShare {
	return p.keyShare
}

// FROST returns the underlying FROST instance for advanced use cases.
func (p *Participant) FROST() *frost.FROST {
	return p.frost
}

// GenerateRound1 generates all round 1 DKG messages.
//
// This creates:
//   - A public broadcast containing commitments to the secret polynomial
//   - Private shares for each other participant
//
// The broadcast should be sent to all participants. Each private share
// should be sent only to its intended recipient over a secure channel.
func (p *Participant) GenerateRound1(rng io.Reader, allParticipantIDs []int) (*Round1Output, error) {
	const op = "session.GenerateRound1"
	if p.dkgState != nil || p.finalized {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "round 1 already generated")
	}

	participant, err := p.frost.NewParticipant(rng, p.id)
	if err != nil {
		return nil, err
	}

	privateShares := make(map[int]*frost.Round1PrivateData)
	for _, recipientID := range allParticipantIDs {
		if recipientID == p.id {
			continue // don't send to ourselves
		}
		if _, dup := privateShares[recipientID]; dup {
			return nil, signature.Errorf(signature.ErrKeyGen, op, "participant %d listed twice", recipientID)
		}
		share, err := p.frost.Round1PrivateSend(participant, recipientID)
		if err != nil {
			return nil, err
		}
		privateShares[recipientID] = share
	}

	p.dkgState = participant
	return &Round1Output{
		Broadcast:     participant.Round1Broadcast(),
		PrivateShares: privateShares,
	}, nil
}

// ProcessRound1 processes received round 1 messages and completes the DKG.
//
// This verifies all received shares against their sender's commitments,
// then computes the final key share. After this call, the participant
// is ready for signing operations.
//
// The input must contain:
//   - Broadcasts from ALL participants (including this one)
//   - Private shares from all OTHER participants
func (p *Participant) ProcessRound1(input *Round1Input) (*DKGResult, error) {
	const op = "session.ProcessRound1"
	if p.finalized {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "DKG already finalized")
	}
	if p.dkgState == nil {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "must call GenerateRound1 before ProcessRound1")
	}

	broadcastByID := make(map[string]*frost.Round1Data)
	for _, b := range input.Broadcasts {
		key := string(b.ID.Bytes())
		if _, exists := broadcastByID[key]; exists {
			return nil, signature.Errorf(signature.ErrKeyGen, op, "duplicate broadcast from participant")
		}
		broadcastByID[key] = b
	}

	for _, share := range input.PrivateShares {
		senderBroadcast, ok := broadcastByID[string(share.FromID.Bytes())]
		if !ok {
			return nil, signature.Errorf(signature.ErrKeyGen, op, "missing broadcast from sender of private share")
		}
		if err := p.frost.Round2ReceiveShare(p.dkgState, share, senderBroadcast.Commitments); err != nil {
			return nil, err
		}
	}

	keyShare, err := p.frost.Finalize(p.dkgState, input.Broadcasts)
	if err != nil {
		return nil, err
	}

	p.keyShare = keyShare
	p.finalized = true
	p.dkgState = nil // clear DKG state, no longer needed

	return &DKGResult{
		KeyShare:     keyShare,
		GroupKey:     keyShare.GroupKey,
		PublicShares: p.publicShares(input.Broadcasts),
	}, nil
}

// publicShares computes Y_j = sum_i sum_k C_{i,k} * j^k for every
// participant j, which equals s_j * G for j's final secret share.
func (p *Participant) publicShares(broadcasts []*frost.Round1Data) map[int]group.Point {
	out := make(map[int]group.Point, p.frost.Total())
	for j := 1; j <= p.frost.Total(); j++ {
		x := p.group.NewScalar().SetUint64(uint64(j))
		Y := p.group.NewPoint()
		for _, b := range broadcasts {
			xPower := p.group.NewScalar().SetUint64(1)
			for _, commit := range b.Commitments {
				Y = p.group.NewPoint().Add(Y, p.group.NewPoint().ScalarMult(xPower, commit))
				xPower = p.group.NewScalar().Mul(xPower, x)
			}
		}
		out[j] = Y
	}
	return out
}

// SetKeyShare allows setting a previously-saved key share.
// Use this when restoring a participant from persistent storage.
func (p *Participant) SetKeyShare(ks *frost.KeyShare) {
	p.keyShare = ks
	p.finalized = true
}
