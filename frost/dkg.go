package frost

import (
	"io"

	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// Round1Data is broadcast by each participant in round 1.
type Round1Data struct {
	ID          group.Scalar  // participant identifier
	Commitments []group.Point // commitments to polynomial coefficients
}

// Round1PrivateData is sent privately to each participant.
type Round1PrivateData struct {
	FromID group.Scalar // sender's ID
	ToID   group.Scalar // recipient's ID
	Share  group.Scalar // polynomial evaluation for recipient
}

// Participant holds state during DKG.
type Participant struct {
	id             group.Scalar
	coefficients   []group.Scalar          // our secret polynomial
	commitments    []group.Point           // public commitments
	receivedShares map[string]group.Scalar // shares from others
}

// NewParticipant creates a participant for DKG. id must lie in [1, n].
func (f *FROST) NewParticipant(r io.Reader, id int) (*Participant, error) {
	const op = "frost.NewParticipant"
	pid, err := f.scalarFromID(op, id)
	if err != nil {
		return nil, err
	}

	// Generate random polynomial of degree t-1
	coeffs := make([]group.Scalar, f.threshold)
	for i := 0; i < f.threshold; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, signature.NewError(signature.ErrKeyGen, op, errors.Wrap(err, "drawing coefficient"))
		}
		coeffs[i] = c
	}

	// Compute commitments: C_i = coeffs[i] * G
	gen := f.params.Generator()
	commits := make([]group.Point, f.threshold)
	for i, c := range coeffs {
		commits[i] = f.group.NewPoint().ScalarMult(c, gen)
	}

	return &Participant{
		id:             pid,
		coefficients:   coeffs,
		commitments:    commits,
		receivedShares: make(map[string]group.Scalar),
	}, nil
}

// Round1Broadcast returns data to broadcast to all participants.
func (p *Participant) Round1Broadcast() *Round1Data {
	return &Round1Data{
		ID:          p.id,
		Commitments: p.commitments,
	}
}

// Round1PrivateSend returns the share to send privately to recipient.
func (f *FROST) Round1PrivateSend(p *Participant, recipientID int) (*Round1PrivateData, error) {
	const op = "frost.Round1PrivateSend"
	if p.coefficients == nil {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "participant already finalized")
	}
	toID, err := f.scalarFromID(op, recipientID)
	if err != nil {
		return nil, err
	}
	return &Round1PrivateData{
		FromID: p.id,
		ToID:   toID,
		Share:  f.evalPolynomial(p.coefficients, toID),
	}, nil
}

// Round2ReceiveShare verifies and stores a received share.
func (f *FROST) Round2ReceiveShare(p *Participant, data *Round1PrivateData, senderCommitments []group.Point) error {
	const op = "frost.Round2ReceiveShare"
	if !data.ToID.Equal(p.id) {
		return signature.Errorf(signature.ErrKeyGen, op, "share is addressed to another participant")
	}
	if data.FromID.Equal(p.id) {
		return signature.Errorf(signature.ErrKeyGen, op, "participant cannot send a share to itself")
	}
	if len(senderCommitments) != f.threshold {
		return signature.Errorf(signature.ErrKeyGen, op, "expected %d commitments, got %d", f.threshold, len(senderCommitments))
	}
	key := string(data.FromID.Bytes())
	if _, dup := p.receivedShares[key]; dup {
		return signature.Errorf(signature.ErrKeyGen, op, "duplicate share from participant")
	}

	// Verify: share * G == sum(commitments[i] * recipientID^i)
	lhs := f.group.NewPoint().ScalarMult(data.Share, f.params.Generator())

	rhs := f.group.NewPoint()
	xPower := f.group.NewScalar().SetUint64(1)

	for _, commit := range senderCommitments {
		term := f.group.NewPoint().ScalarMult(xPower, commit)
		rhs = f.group.NewPoint().Add(rhs, term)
		xPower = f.group.NewScalar().Mul(xPower, data.ToID)
	}

	if !lhs.Equal(rhs) {
		return signature.Errorf(signature.ErrKeyGen, op, "invalid share from participant")
	}

	p.receivedShares[key] = data.Share
	return nil
}

// Finalize computes the final key share after receiving all shares. The
// participant's polynomial is wiped.
func (f *FROST) Finalize(p *Participant, allBroadcasts []*Round1Data) (*KeyShare, error) {
	const op = "frost.Finalize"
	if len(p.receivedShares) != f.total-1 {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "have %d shares, need %d", len(p.receivedShares), f.total-1)
	}
	if len(allBroadcasts) != f.total {
		return nil, signature.Errorf(signature.ErrKeyGen, op, "have %d broadcasts, need %d", len(allBroadcasts), f.total)
	}

	// Sum all received shares (including our own)
	secretKey := f.evalPolynomial(p.coefficients, p.id)
	for _, share := range p.receivedShares {
		secretKey = f.group.NewScalar().Add(secretKey, share)
	}

	publicKey := f.group.NewPoint().ScalarMult(secretKey, f.params.Generator())

	// Compute group public key: sum of all constant term commitments
	groupPoint := f.group.NewPoint()
	for _, broadcast := range allBroadcasts {
		if len(broadcast.Commitments) != f.threshold {
			return nil, signature.Errorf(signature.ErrKeyGen, op, "broadcast has %d commitments, need %d", len(broadcast.Commitments), f.threshold)
		}
		groupPoint = f.group.NewPoint().Add(groupPoint, broadcast.Commitments[0])
	}
	groupKey, err := schnorr.NewPublicKey(groupPoint)
	if err != nil {
		return nil, signature.NewError(signature.ErrKeyGen, op, err)
	}

	for _, c := range p.coefficients {
		wipe(c)
	}
	p.coefficients = nil

	return &KeyShare{
		ID:        p.id,
		SecretKey: secretKey,
		PublicKey: publicKey,
		GroupKey:  groupKey,
	}, nil
}
