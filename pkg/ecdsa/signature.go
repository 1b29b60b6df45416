package ecdsa

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"

	"github.com/taurusgroup/cell-lock/internal/params"
)

var (
	ErrSignatureLength   = errors.New("ecdsa: invalid signature length")
	ErrInvalidScalar     = errors.New("ecdsa: signature scalar out of range")
	ErrInvalidRecoveryID = errors.New("ecdsa: invalid recovery id")
	ErrRecovery          = errors.New("ecdsa: public key recovery failed")
)

// order is N, the order of the secp256k1 group.
var order = saferith.ModulusFromBytes(mustDecodeHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"))

// Signature is a recoverable ECDSA signature over secp256k1, in compact form:
//
//	r (32 bytes) ‖ s (32 bytes) ‖ recovery id (1 byte)
//
// The recovery id lets a verifier compute the signer's public key from the
// signature and the signed digest alone.
type Signature [params.BytesSignature]byte

// SignatureFromBytes copies b into a Signature.
//
// b must be exactly BytesSignature long; callers holding a longer witness
// should slice it first.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != params.BytesSignature {
		return sig, fmt.Errorf("%w (got %d, expected %d)", ErrSignatureLength, len(b), params.BytesSignature)
	}
	copy(sig[:], b)
	return sig, nil
}

// SignatureFromHex parses a hex encoded compact signature.
func SignatureFromHex(s string) (Signature, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return Signature{}, fmt.Errorf("ecdsa: %w", err)
	}
	return SignatureFromBytes(b)
}

// R returns the big-endian encoding of r.
func (sig Signature) R() []byte { return sig[:params.BytesScalar] }

// S returns the big-endian encoding of s.
func (sig Signature) S() []byte { return sig[params.BytesScalar:params.BytesRS] }

// RS returns r ‖ s.
func (sig Signature) RS() []byte { return sig[:params.BytesRS] }

// RecoveryID returns the trailing recovery id byte.
func (sig Signature) RecoveryID() byte { return sig[params.BytesRS] }

// Validate checks that r and s lie in [1, N-1] and that the recovery id is at most MaxRecoveryID.
func (sig Signature) Validate() error {
	if !scalarInRange(sig.R()) {
		return fmt.Errorf("%w: r", ErrInvalidScalar)
	}
	if !scalarInRange(sig.S()) {
		return fmt.Errorf("%w: s", ErrInvalidScalar)
	}
	if id := sig.RecoveryID(); id > params.MaxRecoveryID {
		return fmt.Errorf("%w: %d", ErrInvalidRecoveryID, id)
	}
	return nil
}

// Bytes returns a copy of the compact encoding.
func (sig Signature) Bytes() []byte {
	out := make([]byte, len(sig))
	copy(out, sig[:])
	return out
}

func (sig Signature) String() string {
	return "0x" + hex.EncodeToString(sig[:])
}

// scalarInRange checks 0 < x < N in constant time.
func scalarInRange(b []byte) bool {
	x := new(saferith.Nat).SetBytes(b)
	_, _, lt := x.CmpMod(order)
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return lt == 1 && acc != 0
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
