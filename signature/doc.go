// Package signature defines the contract shared by the signature schemes
// in this module, so that wallets, consensus signers and in-circuit
// verifiers can be written once against [Scheme] or [FieldScheme] and
// instantiated with any concrete scheme.
//
// # Operations
//
// A [Scheme] follows setup, keygen, sign, verify and randomize. A
// [FieldScheme] replaces setup with fixed parameters, adds a pure public
// key derivation and a mandatory subgroup check, [FieldScheme.KeyVerify].
//
// # Errors
//
// Every failure is an [*Error] wrapping one of [ErrSetup], [ErrKeyGen],
// [ErrSigning], [ErrVerification] or [ErrRandomization]:
//
//	ok, err := scheme.Verify(pp, pk, msg, sig)
//	switch {
//	case errors.Is(err, signature.ErrVerification):
//		// malformed input, reject the message
//	case err != nil:
//		// unexpected
//	case !ok:
//		// well-formed but invalid signature
//	}
//
// A false result is never reported as an error.
//
// # Randomness
//
// Operations take an io.Reader. Read failures surface as typed errors and
// never fall back to another source. [NewSeededReader] gives a
// reproducible stream for tests.
package signature
