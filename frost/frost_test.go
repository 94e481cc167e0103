package frost

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/f3rmion/fysig/bjj"
	"github.com/f3rmion/fysig/ed25519"
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/secp256k1"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

func setup(t *testing.T, g group.Group) *schnorr.Parameters {
	t.Helper()
	pp, err := schnorr.New(g).Setup(signature.NewSeededReader([]byte("frost setup " + g.Name())))
	if err != nil {
		t.Fatal(err)
	}
	return pp
}

func runDKG(t *testing.T, f *FROST) []*KeyShare {
	t.Helper()
	total := f.Total()

	participants := make([]*Participant, total)
	for i := 0; i < total; i++ {
		p, err := f.NewParticipant(rand.Reader, i+1)
		if err != nil {
			t.Fatalf("failed to create participant %d: %v", i+1, err)
		}
		participants[i] = p
	}

	broadcasts := make([]*Round1Data, total)
	for i, p := range participants {
		broadcasts[i] = p.Round1Broadcast()
	}

	for i, sender := range participants {
		for j := 0; j < total; j++ {
			if i == j {
				continue // don't send to self
			}
			privateData, err := f.Round1PrivateSend(sender, j+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.Round2ReceiveShare(participants[j], privateData, broadcasts[i].Commitments); err != nil {
				t.Fatalf("participant %d failed to verify share from %d: %v", j+1, i+1, err)
			}
		}
	}

	keyShares := make([]*KeyShare, total)
	for i, p := range participants {
		ks, err := f.Finalize(p, broadcasts)
		if err != nil {
			t.Fatalf("participant %d failed to finalize: %v", i+1, err)
		}
		keyShares[i] = ks
	}
	return keyShares
}

func sign(t *testing.T, f *FROST, signers []*KeyShare, message []byte) (schnorr.Signature, []*SigningCommitment, []*SignatureShare) {
	t.Helper()
	nonces := make([]*SigningNonce, len(signers))
	commitments := make([]*SigningCommitment, len(signers))
	for i, ks := range signers {
		n, c, err := f.SignRound1(rand.Reader, ks)
		if err != nil {
			t.Fatal(err)
		}
		nonces[i] = n
		commitments[i] = c
	}

	sigShares := make([]*SignatureShare, len(signers))
	for i, ks := range signers {
		ss, err := f.SignRound2(ks, nonces[i], message, commitments)
		if err != nil {
			t.Fatal(err)
		}
		sigShares[i] = ss
	}

	sig, err := f.Aggregate(signers[0].GroupKey, message, commitments, sigShares)
	if err != nil {
		t.Fatal(err)
	}
	return sig, commitments, sigShares
}

func mustVerify(t *testing.T, f *FROST, message []byte, sig schnorr.Signature, groupKey schnorr.PublicKey) bool {
	t.Helper()
	ok, err := f.Verify(message, sig, groupKey)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestDKGAndSign(t *testing.T) {
	for _, g := range []group.Group{&bjj.BJJ{}, &secp256k1.Secp256k1{}, &ed25519.Ed25519{}} {
		t.Run(g.Name(), func(t *testing.T) {
			pp := setup(t, g)
			f, err := New(pp, 2, 3)
			if err != nil {
				t.Fatal(err)
			}
			keyShares := runDKG(t, f)

			for i := 1; i < len(keyShares); i++ {
				if !keyShares[i].GroupKey.Equal(keyShares[0].GroupKey) {
					t.Error("participants have different group keys")
				}
			}

			message := []byte("hello FROST")
			sig, _, _ := sign(t, f, keyShares[:2], message)
			if !mustVerify(t, f, message, sig, keyShares[0].GroupKey) {
				t.Fatal("signature verification failed")
			}

			// The aggregate is a plain schnorr signature.
			s := schnorr.New(g)
			ok, err := s.Verify(pp, keyShares[0].GroupKey, message, sig)
			if err != nil || !ok {
				t.Fatalf("schnorr verification failed: %v", err)
			}

			t.Run("Randomize", func(t *testing.T) {
				token := []byte("threshold token")
				rpk, err := s.RandomizePublicKey(pp, keyShares[0].GroupKey, token)
				if err != nil {
					t.Fatal(err)
				}
				rsig, err := s.RandomizeSignature(pp, sig, token)
				if err != nil {
					t.Fatal(err)
				}
				if !mustVerify(t, f, message, rsig, rpk) {
					t.Error("randomized threshold signature failed to verify")
				}
				if mustVerify(t, f, message, rsig, keyShares[0].GroupKey) {
					t.Error("randomized signature verified under the base group key")
				}
			})
		})
	}
}

func TestSigningWithDifferentSignerSubsets(t *testing.T) {
	f, err := New(setup(t, &bjj.BJJ{}), 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	keyShares := runDKG(t, f)
	message := []byte("test message")

	subsets := [][]int{
		{0, 1},       // participants 1 and 2
		{0, 2},       // participants 1 and 3
		{0, 3},       // participants 1 and 4
		{1, 2},       // participants 2 and 3
		{1, 3},       // participants 2 and 4
		{2, 3},       // participants 3 and 4
		{3, 0},       // participants 4 and 1, unordered
		{0, 1, 2},    // participants 1, 2, and 3
		{0, 1, 2, 3}, // all participants
	}

	for _, subset := range subsets {
		t.Run(subsetName(subset), func(t *testing.T) {
			signers := make([]*KeyShare, len(subset))
			for i, idx := range subset {
				signers[i] = keyShares[idx]
			}
			sig, _, _ := sign(t, f, signers, message)
			if !mustVerify(t, f, message, sig, keyShares[0].GroupKey) {
				t.Error("signature verification failed")
			}
		})
	}
}

func subsetName(subset []int) string {
	name := "signers"
	for _, idx := range subset {
		name += fmt.Sprintf("_%d", idx+1)
	}
	return name
}

func TestSigningWithDifferentThresholds(t *testing.T) {
	pp := setup(t, &bjj.BJJ{})

	configs := []struct {
		threshold int
		total     int
	}{
		{2, 3},
		{2, 5},
		{3, 5},
		{3, 7},
	}

	for _, cfg := range configs {
		name := fmt.Sprintf("%d_of_%d", cfg.threshold, cfg.total)
		t.Run(name, func(t *testing.T) {
			f, err := New(pp, cfg.threshold, cfg.total)
			if err != nil {
				t.Fatal(err)
			}
			keyShares := runDKG(t, f)

			message := []byte("threshold signing test")
			sig, _, _ := sign(t, f, keyShares[:cfg.threshold], message)
			if !mustVerify(t, f, message, sig, keyShares[0].GroupKey) {
				t.Error("signature verification failed")
			}
		})
	}
}

func TestSignatureVerificationFailures(t *testing.T) {
	g := &bjj.BJJ{}
	f, err := New(setup(t, g), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	keyShares := runDKG(t, f)
	groupKey := keyShares[0].GroupKey
	message := []byte("original message")
	sig, _, _ := sign(t, f, keyShares[:2], message)

	t.Run("WrongMessage", func(t *testing.T) {
		if mustVerify(t, f, []byte("different message"), sig, groupKey) {
			t.Error("signature should not verify with wrong message")
		}
	})

	t.Run("WrongGroupKey", func(t *testing.T) {
		other := runDKG(t, f)[0].GroupKey
		if mustVerify(t, f, message, sig, other) {
			t.Error("signature should not verify with wrong group key")
		}
	})

	t.Run("TamperedSignatureR", func(t *testing.T) {
		tampered := sig
		tampered.R = g.NewPoint().Add(sig.R, g.Generator())
		if mustVerify(t, f, message, tampered, groupKey) {
			t.Error("signature should not verify with tampered R")
		}
	})

	t.Run("TamperedSignatureS", func(t *testing.T) {
		tampered := sig
		tampered.S = g.NewScalar().Add(sig.S, g.NewScalar().SetUint64(1))
		if mustVerify(t, f, message, tampered, groupKey) {
			t.Error("signature should not verify with tampered S")
		}
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		emptySig, _, _ := sign(t, f, keyShares[:2], []byte{})
		if !mustVerify(t, f, []byte{}, emptySig, groupKey) {
			t.Error("signature on empty message should verify")
		}
		if mustVerify(t, f, []byte("x"), emptySig, groupKey) {
			t.Error("empty message signature should not verify for other messages")
		}
	})
}

func TestVerifyShare(t *testing.T) {
	f, err := New(setup(t, &bjj.BJJ{}), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	keyShares := runDKG(t, f)
	groupKey := keyShares[0].GroupKey
	message := []byte("share check")
	_, commitments, shares := sign(t, f, keyShares[:2], message)

	for i, ss := range shares {
		ok, err := f.VerifyShare(groupKey, keyShares[i].PublicKey, message, commitments, ss)
		if err != nil || !ok {
			t.Errorf("share %d rejected: %v", i+1, err)
		}
	}

	bad := &SignatureShare{ID: shares[0].ID, Z: f.group.NewScalar().Add(shares[0].Z, f.group.NewScalar().SetUint64(1))}
	ok, err := f.VerifyShare(groupKey, keyShares[0].PublicKey, message, commitments, bad)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("tampered share accepted")
	}

	ok, err = f.VerifyShare(groupKey, keyShares[1].PublicKey, message, commitments, shares[0])
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("share accepted under another signer's public share")
	}
}

func TestSigningMisuse(t *testing.T) {
	f, err := New(setup(t, &bjj.BJJ{}), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	keyShares := runDKG(t, f)
	message := []byte("misuse")

	nonce0, commit0, err := f.SignRound1(rand.Reader, keyShares[0])
	if err != nil {
		t.Fatal(err)
	}
	nonce1, commit1, err := f.SignRound1(rand.Reader, keyShares[1])
	if err != nil {
		t.Fatal(err)
	}
	commitments := []*SigningCommitment{commit0, commit1}

	expectSigning := func(t *testing.T, err error) {
		t.Helper()
		if !errors.Is(err, signature.ErrSigning) {
			t.Errorf("expected signing error, got %v", err)
		}
	}

	t.Run("TooFewCommitments", func(t *testing.T) {
		_, err := f.SignRound2(keyShares[0], nonce0, message, commitments[:1])
		expectSigning(t, err)
	})

	t.Run("DuplicateCommitment", func(t *testing.T) {
		_, err := f.SignRound2(keyShares[0], nonce0, message, []*SigningCommitment{commit0, commit0})
		expectSigning(t, err)
	})

	t.Run("ForeignNonce", func(t *testing.T) {
		_, err := f.SignRound2(keyShares[0], nonce1, message, commitments)
		expectSigning(t, err)
	})

	t.Run("SignerNotInList", func(t *testing.T) {
		nonce2, _, err := f.SignRound1(rand.Reader, keyShares[2])
		if err != nil {
			t.Fatal(err)
		}
		_, err = f.SignRound2(keyShares[2], nonce2, message, commitments)
		expectSigning(t, err)
	})

	t.Run("NonceReuse", func(t *testing.T) {
		if _, err := f.SignRound2(keyShares[0], nonce0, message, commitments); err != nil {
			t.Fatal(err)
		}
		_, err := f.SignRound2(keyShares[0], nonce0, message, commitments)
		expectSigning(t, err)
	})

	t.Run("ShareCountMismatch", func(t *testing.T) {
		ss, err := f.SignRound2(keyShares[1], nonce1, message, commitments)
		if err != nil {
			t.Fatal(err)
		}
		_, err = f.Aggregate(keyShares[0].GroupKey, message, commitments, []*SignatureShare{ss})
		expectSigning(t, err)
		_, err = f.Aggregate(keyShares[0].GroupKey, message, commitments, []*SignatureShare{ss, ss})
		expectSigning(t, err)
	})

	t.Run("ExhaustedRandomness", func(t *testing.T) {
		_, _, err := f.SignRound1(bytes.NewReader(nil), keyShares[0])
		expectSigning(t, err)
	})

	t.Run("WipedShare", func(t *testing.T) {
		ks := *keyShares[2]
		ks.SecretKey = f.group.NewScalar().Set(keyShares[2].SecretKey)
		ks.Zeroize()
		_, _, err := f.SignRound1(rand.Reader, &ks)
		expectSigning(t, err)
	})
}

func TestDKGMisuse(t *testing.T) {
	f, err := New(setup(t, &bjj.BJJ{}), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	expectKeyGen := func(t *testing.T, err error) {
		t.Helper()
		if !errors.Is(err, signature.ErrKeyGen) {
			t.Errorf("expected keygen error, got %v", err)
		}
	}

	for _, id := range []int{0, -1, 4} {
		_, err := f.NewParticipant(rand.Reader, id)
		expectKeyGen(t, err)
	}

	p1, err := f.NewParticipant(rand.Reader, 1)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := f.NewParticipant(rand.Reader, 2)
	if err != nil {
		t.Fatal(err)
	}
	p3, err := f.NewParticipant(rand.Reader, 3)
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.Round1PrivateSend(p1, 9)
	expectKeyGen(t, err)

	toP2, err := f.Round1PrivateSend(p1, 2)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("WrongRecipient", func(t *testing.T) {
		expectKeyGen(t, f.Round2ReceiveShare(p3, toP2, p1.Round1Broadcast().Commitments))
	})

	t.Run("WrongCommitments", func(t *testing.T) {
		expectKeyGen(t, f.Round2ReceiveShare(p2, toP2, p3.Round1Broadcast().Commitments))
	})

	t.Run("TamperedShare", func(t *testing.T) {
		bad := *toP2
		bad.Share = f.group.NewScalar().Add(toP2.Share, f.group.NewScalar().SetUint64(1))
		expectKeyGen(t, f.Round2ReceiveShare(p2, &bad, p1.Round1Broadcast().Commitments))
	})

	t.Run("Duplicate", func(t *testing.T) {
		if err := f.Round2ReceiveShare(p2, toP2, p1.Round1Broadcast().Commitments); err != nil {
			t.Fatal(err)
		}
		expectKeyGen(t, f.Round2ReceiveShare(p2, toP2, p1.Round1Broadcast().Commitments))
	})

	t.Run("FinalizeMissingShares", func(t *testing.T) {
		broadcasts := []*Round1Data{p1.Round1Broadcast(), p2.Round1Broadcast(), p3.Round1Broadcast()}
		_, err := f.Finalize(p2, broadcasts)
		expectKeyGen(t, err)
	})

	t.Run("ExhaustedRandomness", func(t *testing.T) {
		_, err := f.NewParticipant(bytes.NewReader(nil), 1)
		expectKeyGen(t, err)
	})
}

func TestThresholdValidation(t *testing.T) {
	pp := setup(t, &bjj.BJJ{})

	t.Run("ThresholdTooLow", func(t *testing.T) {
		_, err := New(pp, 1, 3)
		if !errors.Is(err, signature.ErrSetup) {
			t.Errorf("expected setup error for threshold < 2, got %v", err)
		}
	})

	t.Run("TotalLessThanThreshold", func(t *testing.T) {
		_, err := New(pp, 3, 2)
		if !errors.Is(err, signature.ErrSetup) {
			t.Errorf("expected setup error for total < threshold, got %v", err)
		}
	})

	t.Run("MissingParameters", func(t *testing.T) {
		_, err := New(nil, 2, 3)
		if !errors.Is(err, signature.ErrSetup) {
			t.Errorf("expected setup error for nil parameters, got %v", err)
		}
	})
}

func TestHashers(t *testing.T) {
	g := &bjj.BJJ{}
	pp := setup(t, g)

	for name, h := range map[string]Hasher{
		"Blake2b": NewBlake2bHasher(),
		"Group":   &GroupHasher{},
	} {
		t.Run(name, func(t *testing.T) {
			f, err := NewWithHasher(pp, 2, 3, h)
			if err != nil {
				t.Fatal(err)
			}
			keyShares := runDKG(t, f)
			message := []byte("test message with " + name)
			sig, _, _ := sign(t, f, keyShares[:2], message)

			if !mustVerify(t, f, message, sig, keyShares[0].GroupKey) {
				t.Error("signature verification failed")
			}
			if mustVerify(t, f, []byte("wrong message"), sig, keyShares[0].GroupKey) {
				t.Error("signature should not verify with wrong message")
			}
		})
	}

	t.Run("OtherParameters", func(t *testing.T) {
		f, err := New(pp, 2, 3)
		if err != nil {
			t.Fatal(err)
		}
		keyShares := runDKG(t, f)
		message := []byte("bound to one setup")
		sig, _, _ := sign(t, f, keyShares[:2], message)

		otherPP, err := schnorr.New(g).Setup(signature.NewSeededReader([]byte("another setup")))
		if err != nil {
			t.Fatal(err)
		}
		other, err := New(otherPP, 2, 3)
		if err != nil {
			t.Fatal(err)
		}
		if mustVerify(t, other, message, sig, keyShares[0].GroupKey) {
			t.Error("signature verified under different parameters")
		}
	})
}
