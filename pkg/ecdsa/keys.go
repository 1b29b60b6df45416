package ecdsa

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/taurusgroup/cell-lock/internal/params"
	"github.com/taurusgroup/cell-lock/pkg/hash"
)

// compact signatures in decred's layout start with 27 + 4 + recovery id
// when they reference a compressed public key.
const (
	compactMagicOffset = 27
	compactCompressed  = 4
)

var ErrInvalidSecretKey = errors.New("ecdsa: invalid secret key")

// PublicKey is a secp256k1 point in compressed SEC1 encoding.
type PublicKey [params.BytesPublicKey]byte

// PublicKeyFromBytes parses a compressed point, checking that it lies on the curve.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != params.BytesPublicKey {
		return pk, fmt.Errorf("ecdsa: invalid public key length (got %d, expected %d)", len(b), params.BytesPublicKey)
	}
	if b[0] != secp.PubKeyFormatCompressedEven && b[0] != secp.PubKeyFormatCompressedOdd {
		return pk, fmt.Errorf("ecdsa: invalid public key prefix 0x%02x", b[0])
	}
	if _, err := secp.ParsePubKey(b); err != nil {
		return pk, fmt.Errorf("ecdsa: %w", err)
	}
	copy(pk[:], b)
	return pk, nil
}

// PublicKeyFromHex parses a hex encoded compressed point.
func PublicKeyFromHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return PublicKey{}, fmt.Errorf("ecdsa: %w", err)
	}
	return PublicKeyFromBytes(b)
}

func newPublicKey(pub *secp.PublicKey) PublicKey {
	var pk PublicKey
	copy(pk[:], pub.SerializeCompressed())
	return pk
}

// Bytes returns a copy of the compressed encoding.
func (pk PublicKey) Bytes() []byte {
	out := make([]byte, len(pk))
	copy(out, pk[:])
	return out
}

func (pk PublicKey) String() string {
	return "0x" + hex.EncodeToString(pk[:])
}

// SecretKey signs digests with deterministic RFC6979 nonces.
//
// It exists to produce witnesses in tests and tooling; the lock itself never
// handles secret material.
type SecretKey struct {
	key *secp.PrivateKey
}

// SecretKeyFromBytes interprets b as a big-endian scalar in [1, N-1].
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) != params.BytesScalar {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSecretKey, len(b))
	}
	var s secp.ModNScalar
	if overflow := s.SetByteSlice(b); overflow || s.IsZero() {
		return nil, ErrInvalidSecretKey
	}
	return &SecretKey{key: secp.NewPrivateKey(&s)}, nil
}

// SecretKeyFromHex parses a hex encoded secret key, with or without a 0x prefix.
func SecretKeyFromHex(s string) (*SecretKey, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return nil, fmt.Errorf("ecdsa: %w", err)
	}
	return SecretKeyFromBytes(b)
}

// GenerateSecretKey samples a new key from rand.
//
// Errors returned by this function only come from the reader.
func GenerateSecretKey(rand io.Reader) (*SecretKey, error) {
	buf := make([]byte, params.BytesScalar)
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, err
		}
		if sk, err := SecretKeyFromBytes(buf); err == nil {
			return sk, nil
		}
	}
}

// Public returns the compressed public key matching sk.
func (sk *SecretKey) Public() PublicKey {
	return newPublicKey(sk.key.PubKey())
}

// Sign produces a compact recoverable signature of digest.
//
// digest is signed as is; hash the message first.
func (sk *SecretKey) Sign(digest hash.Digest) Signature {
	// <27 + 4 + id><r><s>
	b := secpecdsa.SignCompact(sk.key, digest[:], true)
	var sig Signature
	copy(sig[:params.BytesRS], b[1:])
	sig[params.BytesRS] = b[0] - compactMagicOffset - compactCompressed
	return sig
}
