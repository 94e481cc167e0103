package session

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/f3rmion/fysig/bjj"
	"github.com/f3rmion/fysig/frost"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

func setup(t *testing.T) *schnorr.Parameters {
	t.Helper()
	pp, err := schnorr.New(&bjj.BJJ{}).Setup(signature.NewSeededReader([]byte("session setup")))
	if err != nil {
		t.Fatal(err)
	}
	return pp
}

// ceremony runs a complete DKG among total participants.
func ceremony(t *testing.T, pp *schnorr.Parameters, threshold, total int) ([]*Participant, []*DKGResult) {
	t.Helper()
	allIDs := make([]int, total)
	participants := make([]*Participant, total)
	for i := 0; i < total; i++ {
		allIDs[i] = i + 1
		p, err := NewParticipant(pp, threshold, total, i+1)
		if err != nil {
			t.Fatalf("failed to create participant %d: %v", i+1, err)
		}
		participants[i] = p
	}

	r1Outputs := make([]*Round1Output, total)
	for i, p := range participants {
		r1, err := p.GenerateRound1(rand.Reader, allIDs)
		if err != nil {
			t.Fatalf("participant %d failed to generate round 1: %v", i+1, err)
		}
		r1Outputs[i] = r1
	}

	broadcasts := make([]*frost.Round1Data, total)
	for i, r1 := range r1Outputs {
		broadcasts[i] = r1.Broadcast
	}

	results := make([]*DKGResult, total)
	for i, p := range participants {
		var privateShares []*frost.Round1PrivateData
		for j, r1 := range r1Outputs {
			if i == j {
				continue // skip own shares
			}
			if share, ok := r1.PrivateShares[p.ID()]; ok {
				privateShares = append(privateShares, share)
			}
		}

		result, err := p.ProcessRound1(&Round1Input{
			Broadcasts:    broadcasts,
			PrivateShares: privateShares,
		})
		if err != nil {
			t.Fatalf("participant %d failed to process round 1: %v", i+1, err)
		}
		results[i] = result
	}
	return participants, results
}

func signWith(t *testing.T, signers []*Participant, message []byte) ([]*frost.SigningCommitment, []*frost.SignatureShare) {
	t.Helper()
	sessions := make([]*SigningSession, len(signers))
	commitments := make([]*frost.SigningCommitment, len(signers))
	for i, p := range signers {
		sess, err := p.NewSigningSession(rand.Reader, message)
		if err != nil {
			t.Fatalf("signer %d failed to create session: %v", i+1, err)
		}
		sessions[i] = sess
		commitments[i] = sess.Commitment()
	}

	shares := make([]*frost.SignatureShare, len(signers))
	for i, sess := range sessions {
		share, err := sess.Sign(commitments)
		if err != nil {
			t.Fatalf("signer %d failed to sign: %v", i+1, err)
		}
		shares[i] = share
	}
	return commitments, shares
}

func TestDKGAndSign(t *testing.T) {
	pp := setup(t)
	participants, results := ceremony(t, pp, 2, 3)

	for i := 1; i < len(results); i++ {
		if !results[i].GroupKey.Equal(results[0].GroupKey) {
			t.Error("participants have different group keys")
		}
	}

	t.Run("PublicShares", func(t *testing.T) {
		g := pp.Group()
		for i, p := range participants {
			want := g.NewPoint().ScalarMult(p.KeyShare().SecretKey, pp.Generator())
			for j, r := range results {
				if !r.PublicShares[p.ID()].Equal(want) {
					t.Errorf("participant %d computed a wrong public share for %d", j+1, i+1)
				}
			}
		}
	})

	t.Run("Signing", func(t *testing.T) {
		message := []byte("hello session API")
		signers := participants[:2]
		commitments, shares := signWith(t, signers, message)

		f := signers[0].FROST()
		sig, err := Aggregate(f, results[0].GroupKey, message, commitments, shares, results[0].PublicShares)
		if err != nil {
			t.Fatalf("failed to aggregate: %v", err)
		}

		if err := Verify(f, message, sig, results[0].GroupKey); err != nil {
			t.Errorf("signature verification failed: %v", err)
		}
		err = Verify(f, []byte("wrong message"), sig, results[0].GroupKey)
		if !errors.Is(err, signature.ErrVerification) {
			t.Errorf("expected verification error for wrong message, got %v", err)
		}
	})
}

func TestAggregateIdentifiesBadShare(t *testing.T) {
	pp := setup(t)
	participants, results := ceremony(t, pp, 2, 3)
	message := []byte("blame")
	commitments, shares := signWith(t, participants[1:], message)

	f := participants[0].FROST()
	g := pp.Group()
	shares[1] = &frost.SignatureShare{ID: shares[1].ID, Z: g.NewScalar().Add(shares[1].Z, g.NewScalar().SetUint64(1))}

	_, err := Aggregate(f, results[0].GroupKey, message, commitments, shares, results[0].PublicShares)
	if err == nil {
		t.Fatal("aggregate of a tampered share succeeded")
	}
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("expected signing error, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "participant 3") {
		t.Errorf("error does not name the bad signer: %s", got)
	}

	_, err = Aggregate(f, results[0].GroupKey, message, commitments, shares, nil)
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("expected signing error without public shares, got %v", err)
	}
}

func TestNonceReusePrevention(t *testing.T) {
	participants, _ := ceremony(t, setup(t), 2, 3)

	message := []byte("test nonce reuse")
	sess, err := participants[0].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	other, err := participants[1].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	commitments := []*frost.SigningCommitment{sess.Commitment(), other.Commitment()}

	if _, err := sess.Sign(commitments); err != nil {
		t.Fatalf("first sign failed: %v", err)
	}

	_, err = sess.Sign(commitments)
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("second sign should fail to prevent nonce reuse, got %v", err)
	}

	if !sess.IsConsumed() {
		t.Error("session should be marked as consumed")
	}
}

func TestSigningSessionWithoutDKG(t *testing.T) {
	p, err := NewParticipant(setup(t), 2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.NewSigningSession(rand.Reader, []byte("test"))
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("should fail to create signing session without DKG, got %v", err)
	}
}

func TestDuplicateRound1Generation(t *testing.T) {
	p, err := NewParticipant(setup(t), 2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.GenerateRound1(rand.Reader, []int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	_, err = p.GenerateRound1(rand.Reader, []int{1, 2, 3})
	if !errors.Is(err, signature.ErrKeyGen) {
		t.Errorf("second GenerateRound1 should fail, got %v", err)
	}
}

func TestProcessRound1Misuse(t *testing.T) {
	pp := setup(t)
	p, err := NewParticipant(pp, 2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.ProcessRound1(&Round1Input{})
	if !errors.Is(err, signature.ErrKeyGen) {
		t.Errorf("ProcessRound1 before round 1 should fail, got %v", err)
	}

	r1, err := p.GenerateRound1(rand.Reader, []int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.ProcessRound1(&Round1Input{Broadcasts: []*frost.Round1Data{r1.Broadcast, r1.Broadcast}})
	if !errors.Is(err, signature.ErrKeyGen) {
		t.Errorf("duplicate broadcast should fail, got %v", err)
	}

	fresh, err := NewParticipant(pp, 2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = fresh.GenerateRound1(rand.Reader, []int{1, 2, 2})
	if !errors.Is(err, signature.ErrKeyGen) {
		t.Errorf("duplicate recipient should fail, got %v", err)
	}
}

func TestParticipantIDValidation(t *testing.T) {
	pp := setup(t)
	for _, id := range []int{0, -1, 4} {
		_, err := NewParticipant(pp, 2, 3, id)
		if !errors.Is(err, signature.ErrSetup) {
			t.Errorf("id %d: expected setup error, got %v", id, err)
		}
	}
	for id := 1; id <= 3; id++ {
		if _, err := NewParticipant(pp, 2, 3, id); err != nil {
			t.Errorf("id %d rejected: %v", id, err)
		}
	}
	_, err := NewParticipant(pp, 1, 3, 1)
	if !errors.Is(err, signature.ErrSetup) {
		t.Errorf("threshold 1: expected setup error, got %v", err)
	}
}

func TestQuickSign(t *testing.T) {
	pp := setup(t)
	participants, results := ceremony(t, pp, 2, 3)

	keyShares := []*frost.KeyShare{participants[0].KeyShare(), participants[2].KeyShare()}
	message := []byte("quick sign")
	f := participants[0].FROST()

	sig, err := QuickSign(f, rand.Reader, keyShares, message)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(f, message, sig, results[0].GroupKey); err != nil {
		t.Errorf("quick-signed signature failed verification: %v", err)
	}

	// The result is an ordinary schnorr signature.
	s := schnorr.New(pp.Group())
	ok, err := s.Verify(pp, results[0].GroupKey, message, sig)
	if err != nil || !ok {
		t.Errorf("schnorr verification failed: %v", err)
	}

	if _, err := QuickSign(f, rand.Reader, nil, message); err == nil {
		t.Error("QuickSign without shares should fail")
	}
}

func TestSetKeyShare(t *testing.T) {
	pp := setup(t)
	participants, results := ceremony(t, pp, 2, 3)

	restored, err := NewParticipant(pp, 2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	restored.SetKeyShare(participants[0].KeyShare())

	message := []byte("restored")
	commitments, shares := signWith(t, []*Participant{restored, participants[1]}, message)
	sig, err := Aggregate(restored.FROST(), results[0].GroupKey, message, commitments, shares, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(restored.FROST(), message, sig, results[0].GroupKey); err != nil {
		t.Errorf("signature from restored participant failed: %v", err)
	}
}

func TestAggregateValidation(t *testing.T) {
	participants, results := ceremony(t, setup(t), 2, 3)
	f := participants[0].FROST()
	message := []byte("validation")
	commitments, shares := signWith(t, participants[:2], message)

	_, err := Aggregate(f, results[0].GroupKey, message, commitments, nil, nil)
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("no shares: got %v", err)
	}
	_, err = Aggregate(f, results[0].GroupKey, message, nil, shares, nil)
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("no commitments: got %v", err)
	}
	_, err = Aggregate(f, results[0].GroupKey, message, commitments, shares[:1], nil)
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("share count mismatch: got %v", err)
	}
}

func TestSigningWithDifferentSubsets(t *testing.T) {
	participants, results := ceremony(t, setup(t), 3, 5)
	message := []byte("subsets")

	for _, subset := range [][]int{{0, 1, 2}, {2, 3, 4}, {4, 0, 2}, {0, 1, 2, 3, 4}} {
		signers := make([]*Participant, len(subset))
		for i, idx := range subset {
			signers[i] = participants[idx]
		}
		commitments, shares := signWith(t, signers, message)
		f := signers[0].FROST()
		sig, err := Aggregate(f, results[0].GroupKey, message, commitments, shares, results[0].PublicShares)
		if err != nil {
			t.Fatalf("subset %v: %v", subset, err)
		}
		if err := Verify(f, message, sig, results[0].GroupKey); err != nil {
			t.Errorf("subset %v: %v", subset, err)
		}
	}
}

func TestMissingOwnCommitment(t *testing.T) {
	participants, _ := ceremony(t, setup(t), 2, 3)
	message := []byte("missing")

	sess, err := participants[0].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := participants[1].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := participants[2].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}

	_, err = sess.Sign([]*frost.SigningCommitment{s1.Commitment(), s2.Commitment()})
	if !errors.Is(err, signature.ErrSigning) {
		t.Errorf("expected signing error, got %v", err)
	}
	if !sess.IsConsumed() {
		t.Error("a failed Sign still consumes the session")
	}
}
