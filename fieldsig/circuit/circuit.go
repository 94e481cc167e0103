// Package circuit expresses fieldsig verification as a gnark circuit over
// the BN254 scalar field.
//
// The public key and message are public inputs; the signature is a
// private witness. Subgroup membership of the key is not checked inside
// the circuit and must be established with fieldsig.Scheme.KeyVerify
// before the key is used as a public input.
package circuit

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/f3rmion/fysig/fieldsig"
	"github.com/pkg/errors"
)

// Verifier is a circuit asserting that (E, S) is a fieldsig signature on
// Message under PublicKey. The message length is fixed when the circuit
// is built.
type Verifier struct {
	PublicKey twistededwards.Point `gnark:",public"`
	Message   []frontend.Variable  `gnark:",public"`
	E         frontend.Variable
	S         frontend.Variable

	domain *big.Int
}

// New returns a circuit definition for messages of n elements signed
// under s.
func New(s *fieldsig.Scheme, n int) (*Verifier, error) {
	if n < 1 || n > s.MaxMessageLen() {
		return nil, errors.Errorf("circuit: message length %d outside [1, %d]", n, s.MaxMessageLen())
	}
	d := s.Domain()
	return &Verifier{
		Message: make([]frontend.Variable, n),
		domain:  toBig(&d),
	}, nil
}

// Assign returns a witness assignment for the given key, message and
// signature. An unset key is an error.
func Assign(pk fieldsig.PublicKey, msg []fr.Element, sig fieldsig.Signature) (*Verifier, error) {
	if pk.IsZero() {
		return nil, errors.New("circuit: public key is unset")
	}
	x, y := pk.X(), pk.Y()
	w := &Verifier{
		PublicKey: twistededwards.Point{X: toBig(&x), Y: toBig(&y)},
		Message:   make([]frontend.Variable, len(msg)),
		E:         toBig(&sig.E),
		S:         toBig(&sig.S),
	}
	for i := range msg {
		w.Message[i] = toBig(&msg[i])
	}
	return w, nil
}

func toBig(e *fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// Define checks S < l, R' = S*G - E*PK, R' != O and
// MiMC(d, R', PK, n, M) == E.
func (c *Verifier) Define(api frontend.API) error {
	curve, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return err
	}
	curve.AssertIsOnCurve(c.PublicKey)

	params := curve.Params()
	base := twistededwards.Point{X: params.Base[0], Y: params.Base[1]}

	// Same response range as fieldsig.ParseSignature.
	api.AssertIsLessOrEqual(c.S, new(big.Int).Sub(params.Order, big.NewInt(1)))

	// The key has prime order l, so E*PK equals (E mod l)*PK.
	R := curve.DoubleBaseScalarMul(base, curve.Neg(c.PublicKey), c.S, c.E)

	// The identity is (0, 1).
	isIdentity := api.And(api.IsZero(R.X), api.IsZero(api.Sub(R.Y, 1)))
	api.AssertIsEqual(isIdentity, 0)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.domain, R.X, R.Y, c.PublicKey.X, c.PublicKey.Y, len(c.Message))
	h.Write(c.Message...)
	api.AssertIsEqual(h.Sum(), c.E)
	return nil
}
