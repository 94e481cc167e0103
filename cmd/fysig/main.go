package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/f3rmion/fysig/bjj"
	"github.com/f3rmion/fysig/ed25519"
	"github.com/f3rmion/fysig/fieldsig"
	"github.com/f3rmion/fysig/frost"
	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/secp256k1"
	"github.com/f3rmion/fysig/session"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	groupFlag     = pflag.StringP("group", "g", "babyjubjub", "group: babyjubjub, secp256k1 or edwards25519")
	hasherFlag    = pflag.String("hasher", "blake2b", "challenge hash: blake2b, sha512 or shake256")
	seedFlag      = pflag.StringP("seed", "s", "", "deterministic seed; empty draws from the system source")
	messageFlag   = pflag.StringP("message", "m", "hello", "message to sign")
	tokenFlag     = pflag.StringP("token", "t", "rerandomize", "randomization token")
	thresholdFlag = pflag.Int("threshold", 2, "threshold t for the FROST demo; 0 skips it")
	totalFlag     = pflag.Int("total", 3, "participants n for the FROST demo")
	batchFlag     = pflag.Int("batch", 8, "number of signatures to verify concurrently")
	fieldFlag     = pflag.Bool("field", true, "also run the field-based signer")
	debugFlag     = pflag.Bool("debug", false, "enable debug logging")
)

func groupByName(name string) (group.Group, error) {
	switch name {
	case "babyjubjub", "bjj":
		return &bjj.BJJ{}, nil
	case "secp256k1":
		return &secp256k1.Secp256k1{}, nil
	case "edwards25519", "ed25519":
		return &ed25519.Ed25519{}, nil
	}
	return nil, errors.Errorf("unknown group %q", name)
}

func hasherByName(name string) (schnorr.Hasher, error) {
	switch name {
	case "blake2b":
		return schnorr.NewBlake2bHasher(), nil
	case "sha512":
		return &schnorr.SHA512Hasher{}, nil
	case "shake256":
		return &schnorr.SHAKE256Hasher{}, nil
	}
	return nil, errors.Errorf("unknown hasher %q", name)
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	pflag.Parse()

	logger, err := newLogger(*debugFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	var rng io.Reader = rand.Reader
	if *seedFlag != "" {
		rng = signature.NewSeededReader([]byte(*seedFlag))
		logger.Info("using deterministic randomness", zap.String("seed", *seedFlag))
	}

	if err := run(logger, rng); err != nil {
		logger.Fatal("fysig failed", zap.Error(err))
	}
}

func run(logger *zap.Logger, rng io.Reader) error {
	g, err := groupByName(*groupFlag)
	if err != nil {
		return err
	}
	h, err := hasherByName(*hasherFlag)
	if err != nil {
		return err
	}
	message := []byte(*messageFlag)

	s := schnorr.NewWithHasher(g, h)
	pp, err := s.Setup(rng)
	if err != nil {
		return err
	}
	log := logger.With(zap.String("group", g.Name()), zap.String("hasher", h.ID()))
	log.Info("setup", zap.String("salt", hex.EncodeToString(pp.Salt())))

	pk, sk, err := s.KeyGen(pp, rng)
	if err != nil {
		return err
	}
	defer sk.Zeroize()
	log.Info("keygen", zap.Stringer("public_key", pk))

	sig, err := s.Sign(pp, sk, message, rng)
	if err != nil {
		return err
	}
	ok, err := s.Verify(pp, pk, message, sig)
	if err != nil {
		return err
	}
	log.Info("sign", zap.String("signature", hex.EncodeToString(sig.Bytes())), zap.Bool("valid", ok))
	if !ok {
		return errors.New("fresh signature did not verify")
	}

	token := []byte(*tokenFlag)
	rpk, err := s.RandomizePublicKey(pp, pk, token)
	if err != nil {
		return err
	}
	rsig, err := s.RandomizeSignature(pp, sig, token)
	if err != nil {
		return err
	}
	ok, err = s.Verify(pp, rpk, message, rsig)
	if err != nil {
		return err
	}
	log.Info("randomize",
		zap.Stringer("public_key", rpk),
		zap.String("signature", hex.EncodeToString(rsig.Bytes())),
		zap.Bool("valid", ok),
	)
	if !ok {
		return errors.New("randomized signature did not verify")
	}

	if err := runBatch(log, s, pp, rng); err != nil {
		return err
	}
	if *thresholdFlag > 0 {
		if err := runThreshold(log, s, pp, rng, message); err != nil {
			return err
		}
	}
	if *fieldFlag {
		if err := runField(logger, rng, message); err != nil {
			return err
		}
	}
	return nil
}

func runBatch(log *zap.Logger, s *schnorr.Scheme, pp *schnorr.Parameters, rng io.Reader) error {
	if *batchFlag <= 0 {
		return nil
	}
	items := make([]signature.Item[schnorr.PublicKey, schnorr.Signature], *batchFlag)
	for i := range items {
		pk, sk, err := s.KeyGen(pp, rng)
		if err != nil {
			return err
		}
		msg := []byte(fmt.Sprintf("batch message %d", i))
		sig, err := s.Sign(pp, sk, msg, rng)
		sk.Zeroize()
		if err != nil {
			return err
		}
		items[i] = signature.Item[schnorr.PublicKey, schnorr.Signature]{PublicKey: pk, Message: msg, Signature: sig}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	results, err := signature.VerifyBatch(ctx, s.Verifier(pp), items, 0)
	if err != nil {
		return err
	}
	valid := 0
	for _, ok := range results {
		if ok {
			valid++
		}
	}
	log.Info("batch verify", zap.Int("items", len(items)), zap.Int("valid", valid), zap.Duration("took", time.Since(start)))
	if valid != len(items) {
		return errors.Errorf("%d of %d batch signatures failed", len(items)-valid, len(items))
	}
	return nil
}

func runThreshold(log *zap.Logger, s *schnorr.Scheme, pp *schnorr.Parameters, rng io.Reader, message []byte) error {
	threshold, total := *thresholdFlag, *totalFlag
	log = log.With(zap.Int("threshold", threshold), zap.Int("total", total))

	ids := make([]int, total)
	participants := make([]*session.Participant, total)
	for i := range participants {
		ids[i] = i + 1
		p, err := session.NewParticipant(pp, threshold, total, i+1)
		if err != nil {
			return err
		}
		participants[i] = p
	}

	outputs := make([]*session.Round1Output, total)
	broadcasts := make([]*frost.Round1Data, total)
	for i, p := range participants {
		out, err := p.GenerateRound1(rng, ids)
		if err != nil {
			return err
		}
		outputs[i] = out
		broadcasts[i] = out.Broadcast
	}

	var result *session.DKGResult
	for i, p := range participants {
		var shares []*frost.Round1PrivateData
		for j, out := range outputs {
			if i != j {
				shares = append(shares, out.PrivateShares[p.ID()])
			}
		}
		r, err := p.ProcessRound1(&session.Round1Input{Broadcasts: broadcasts, PrivateShares: shares})
		if err != nil {
			return errors.Wrapf(err, "participant %d", p.ID())
		}
		result = r
	}
	log.Info("dkg", zap.Stringer("group_key", result.GroupKey))

	signers := participants[:threshold]
	sessions := make([]*session.SigningSession, len(signers))
	commitments := make([]*frost.SigningCommitment, len(signers))
	for i, p := range signers {
		sess, err := p.NewSigningSession(rng, message)
		if err != nil {
			return err
		}
		sessions[i] = sess
		commitments[i] = sess.Commitment()
	}
	shares := make([]*frost.SignatureShare, len(signers))
	for i, sess := range sessions {
		share, err := sess.Sign(commitments)
		if err != nil {
			return err
		}
		shares[i] = share
	}

	f := signers[0].FROST()
	sig, err := session.Aggregate(f, result.GroupKey, message, commitments, shares, result.PublicShares)
	if err != nil {
		return err
	}
	ok, err := s.Verify(pp, result.GroupKey, message, sig)
	if err != nil {
		return err
	}
	log.Info("threshold sign", zap.String("signature", hex.EncodeToString(sig.Bytes())), zap.Bool("valid", ok))
	if !ok {
		return errors.New("threshold signature did not verify")
	}
	return nil
}

func runField(logger *zap.Logger, rng io.Reader, message []byte) error {
	fs, err := fieldsig.New()
	if err != nil {
		return err
	}
	log := logger.With(zap.String("scheme", "fieldsig"))

	pk, sk, err := fs.KeyGen(rng)
	if err != nil {
		return err
	}
	defer sk.Zeroize()
	log.Info("keygen", zap.Stringer("public_key", pk), zap.Bool("key_valid", fs.KeyVerify(pk)))

	msg := fieldsig.MessageFromBytes(message)
	if len(msg) > fs.MaxMessageLen() {
		log.Warn("message too long for the field signer, skipping", zap.Int("elements", len(msg)), zap.Int("max", fs.MaxMessageLen()))
		return nil
	}
	sig, err := fs.Sign(rng, pk, sk, msg)
	if err != nil {
		return err
	}
	ok, err := fs.VerifyUntrusted(pk, msg, sig)
	if err != nil {
		return err
	}
	log.Debug("challenge", zap.String("e", sig.E.String()))
	log.Info("sign", zap.String("signature", hex.EncodeToString(sig.Bytes())), zap.Int("elements", len(msg)), zap.Bool("valid", ok))
	if !ok {
		return errors.New("field signature did not verify")
	}
	return nil
}
