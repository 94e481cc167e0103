package frost

import (
	"bytes"
	"io"
	"slices"

	"github.com/f3rmion/fysig/group"
	"github.com/f3rmion/fysig/schnorr"
	"github.com/f3rmion/fysig/signature"
	"github.com/pkg/errors"
)

// nonceEntropySize is the number of fresh random bytes mixed into each
// signing nonce.
const nonceEntropySize = 32

// SigningNonce holds a participant's nonce pair for signing.
type SigningNonce struct {
	ID group.Scalar
	D  group.Scalar // hiding nonce
	E  group.Scalar // binding nonce
}

// Zeroize wipes both nonces. A nonce must never be used twice.
func (n *SigningNonce) Zeroize() {
	wipe(n.D)
	wipe(n.E)
	n.D, n.E = nil, nil
}

// SigningCommitment is broadcast in round 1 of signing.
type SigningCommitment struct {
	ID           group.Scalar
	HidingPoint  group.Point // D * G
	BindingPoint group.Point // E * G
}

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	ID group.Scalar
	Z  group.Scalar
}

// SignRound1 generates nonces and commitment for signing.
func (f *FROST) SignRound1(r io.Reader, share *KeyShare) (*SigningNonce, *SigningCommitment, error) {
	d, err := f.nonce(r, share)
	if err != nil {
		return nil, nil, err
	}
	e, err := f.nonce(r, share)
	if err != nil {
		return nil, nil, err
	}

	gen := f.params.Generator()
	nonce := &SigningNonce{
		ID: share.ID,
		D:  d,
		E:  e,
	}
	commitment := &SigningCommitment{
		ID:           share.ID,
		HidingPoint:  f.group.NewPoint().ScalarMult(d, gen),
		BindingPoint: f.group.NewPoint().ScalarMult(e, gen),
	}

	return nonce, commitment, nil
}

func (f *FROST) nonce(r io.Reader, share *KeyShare) (group.Scalar, error) {
	const op = "frost.SignRound1"
	if share.SecretKey == nil {
		return nil, signature.Errorf(signature.ErrSigning, op, "key share is wiped")
	}
	var random [nonceEntropySize]byte
	if _, err := io.ReadFull(r, random[:]); err != nil {
		return nil, signature.NewError(signature.ErrSigning, op, errors.Wrap(err, "reading nonce entropy"))
	}
	k, err := f.hasher.Nonce(f.group, random[:], share.SecretKey.Bytes())
	if err != nil {
		return nil, signature.NewError(signature.ErrSigning, op, err)
	}
	if k.IsZero() {
		return nil, signature.Errorf(signature.ErrSigning, op, "derived a zero nonce")
	}
	return k, nil
}

// SignRound2 generates a signature share. The nonce is wiped on success.
func (f *FROST) SignRound2(
	share *KeyShare,
	nonce *SigningNonce,
	message []byte,
	commitments []*SigningCommitment,
) (*SignatureShare, error) {
	const op = "frost.SignRound2"
	if share.SecretKey == nil {
		return nil, signature.Errorf(signature.ErrSigning, op, "key share is wiped")
	}
	if nonce.D == nil || nonce.E == nil {
		return nil, signature.Errorf(signature.ErrSigning, op, "nonce already used")
	}
	if !nonce.ID.Equal(share.ID) {
		return nil, signature.Errorf(signature.ErrSigning, op, "nonce belongs to another participant")
	}

	sc, err := f.session(op, share.GroupKey, message, commitments)
	if err != nil {
		return nil, err
	}
	myRho, ok := sc.rho[string(share.ID.Bytes())]
	if !ok {
		return nil, signature.Errorf(signature.ErrSigning, op, "signer has no commitment in the list")
	}

	lambda, err := f.lagrangeCoefficient(share.ID, commitments)
	if err != nil {
		return nil, signature.NewError(signature.ErrSigning, op, err)
	}

	// z_i = d + rho * e + lambda * s * c
	z := f.group.NewScalar().Mul(myRho, nonce.E)                // rho * e
	z = f.group.NewScalar().Add(nonce.D, z)                     // d + rho * e
	lambdaS := f.group.NewScalar().Mul(lambda, share.SecretKey) // lambda * s
	lambdaSC := f.group.NewScalar().Mul(lambdaS, sc.c)          // lambda * s * c
	z = f.group.NewScalar().Add(z, lambdaSC)                    // d + rho*e + lambda*s*c

	nonce.Zeroize()

	return &SignatureShare{
		ID: share.ID,
		Z:  z,
	}, nil
}

// VerifyShare checks one signature share against the signer's public
// key share, so a coordinator can identify a misbehaving signer.
func (f *FROST) VerifyShare(
	groupKey schnorr.PublicKey,
	publicShare group.Point,
	message []byte,
	commitments []*SigningCommitment,
	sigShare *SignatureShare,
) (bool, error) {
	const op = "frost.VerifyShare"
	sc, err := f.session(op, groupKey, message, commitments)
	if err != nil {
		return false, err
	}
	var comm *SigningCommitment
	for _, c := range commitments {
		if c.ID.Equal(sigShare.ID) {
			comm = c
		}
	}
	if comm == nil {
		return false, signature.Errorf(signature.ErrVerification, op, "share has no commitment in the list")
	}
	lambda, err := f.lagrangeCoefficient(sigShare.ID, commitments)
	if err != nil {
		return false, signature.NewError(signature.ErrVerification, op, err)
	}

	// z_i*G == D_i + rho_i*E_i + (c*lambda_i)*Y_i
	lhs := f.group.NewPoint().ScalarMult(sigShare.Z, f.params.Generator())
	rhs := f.group.NewPoint().ScalarMult(sc.rho[string(sigShare.ID.Bytes())], comm.BindingPoint)
	rhs = f.group.NewPoint().Add(comm.HidingPoint, rhs)
	cl := f.group.NewScalar().Mul(sc.c, lambda)
	rhs = f.group.NewPoint().Add(rhs, f.group.NewPoint().ScalarMult(cl, publicShare))
	return lhs.Equal(rhs), nil
}

// Aggregate combines signature shares into a schnorr signature valid
// under groupKey.
func (f *FROST) Aggregate(
	groupKey schnorr.PublicKey,
	message []byte,
	commitments []*SigningCommitment,
	shares []*SignatureShare,
) (schnorr.Signature, error) {
	const op = "frost.Aggregate"
	if len(shares) != len(commitments) {
		return schnorr.Signature{}, signature.Errorf(signature.ErrSigning, op, "have %d shares for %d commitments", len(shares), len(commitments))
	}
	sc, err := f.session(op, groupKey, message, commitments)
	if err != nil {
		return schnorr.Signature{}, err
	}

	// Sum all z shares
	z := f.group.NewScalar()
	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		key := string(s.ID.Bytes())
		if _, ok := sc.rho[key]; !ok || seen[key] {
			return schnorr.Signature{}, signature.Errorf(signature.ErrSigning, op, "share does not match the commitment list")
		}
		seen[key] = true
		z = f.group.NewScalar().Add(z, s.Z)
	}

	return schnorr.Signature{R: sc.R, C: sc.c, S: z}, nil
}

// signingSession holds the values every signer and the aggregator derive
// from the commitment list.
type signingSession struct {
	rho map[string]group.Scalar
	R   group.Point
	c   group.Scalar
}

func (f *FROST) session(op string, groupKey schnorr.PublicKey, message []byte, commitments []*SigningCommitment) (*signingSession, error) {
	if len(commitments) < f.threshold || len(commitments) > f.total {
		return nil, signature.Errorf(signature.ErrSigning, op, "need between %d and %d commitments, got %d", f.threshold, f.total, len(commitments))
	}
	if groupKey.Point() == nil {
		return nil, signature.Errorf(signature.ErrSigning, op, "group key is unset")
	}

	rho, err := f.computeBindingFactors(groupKey, message, commitments)
	if err != nil {
		return nil, signature.NewError(signature.ErrSigning, op, err)
	}

	// Compute group commitment R = sum(D_i + rho_i * E_i)
	R := f.group.NewPoint()
	for _, comm := range commitments {
		rhoE := f.group.NewPoint().ScalarMult(rho[string(comm.ID.Bytes())], comm.BindingPoint)
		term := f.group.NewPoint().Add(comm.HidingPoint, rhoE)
		R = f.group.NewPoint().Add(R, term)
	}
	if R.IsIdentity() {
		return nil, signature.Errorf(signature.ErrSigning, op, "group commitment is the identity")
	}

	// c = H(domain, R, message), the schnorr challenge
	c, err := f.params.Challenge(R, message)
	if err != nil {
		return nil, signature.NewError(signature.ErrSigning, op, err)
	}
	return &signingSession{rho: rho, R: R, c: c}, nil
}

// computeBindingFactors hashes the commitment list in ID order, so every
// party derives the same factors whatever order it received them in.
func (f *FROST) computeBindingFactors(groupKey schnorr.PublicKey, message []byte, commitments []*SigningCommitment) (map[string]group.Scalar, error) {
	sorted := slices.Clone(commitments)
	slices.SortFunc(sorted, func(a, b *SigningCommitment) int {
		return bytes.Compare(a.ID.Bytes(), b.ID.Bytes())
	})

	var commBytes []byte
	for i, c := range sorted {
		if i > 0 && c.ID.Equal(sorted[i-1].ID) {
			return nil, errors.New("duplicate signer in commitment list")
		}
		commBytes = append(commBytes, c.ID.Bytes()...)
		commBytes = append(commBytes, c.HidingPoint.Bytes()...)
		commBytes = append(commBytes, c.BindingPoint.Bytes()...)
	}

	var context bytes.Buffer
	group.Frame(&context, f.params.Salt(), groupKey.Bytes())

	factors := make(map[string]group.Scalar, len(sorted))
	for _, c := range sorted {
		rho, err := f.hasher.BindingFactor(f.group, context.Bytes(), message, commBytes, c.ID.Bytes())
		if err != nil {
			return nil, errors.Wrap(err, "binding factor")
		}
		factors[string(c.ID.Bytes())] = rho
	}
	return factors, nil
}

func (f *FROST) lagrangeCoefficient(id group.Scalar, commitments []*SigningCommitment) (group.Scalar, error) {
	num := f.group.NewScalar().SetUint64(1)
	den := f.group.NewScalar().SetUint64(1)

	for _, c := range commitments {
		if c.ID.Equal(id) {
			continue
		}
		// num *= c.ID
		num = f.group.NewScalar().Mul(num, c.ID)
		// den *= (c.ID - id)
		diff := f.group.NewScalar().Sub(c.ID, id)
		den = f.group.NewScalar().Mul(den, diff)
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, errors.Wrap(err, "lagrange denominator")
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
