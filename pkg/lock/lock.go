// Package lock decides whether a cell may be consumed: the witness must carry
// a recoverable secp256k1 signature over the hash of the cell's data, made by
// the key whose hash is stored in the script arguments.
//
// Verification is a single pass:
//
//  1. the first 65 bytes of the witness are the signature r ‖ s ‖ recovery id,
//  2. the payload is hashed,
//  3. the public key is recovered from the digest and the signature,
//  4. the compressed public key is hashed,
//  5. that fingerprint must equal the expected one.
//
// Every failure is final and reported as a Code.
package lock

import (
	"github.com/rs/zerolog"

	"github.com/taurusgroup/cell-lock/internal/params"
	"github.com/taurusgroup/cell-lock/pkg/ecdsa"
	"github.com/taurusgroup/cell-lock/pkg/hash"
)

// Verifier holds the primitives a verification is made of.
//
// A Verifier is immutable, and safe for concurrent use.
type Verifier struct {
	hash      hash.Function
	recoverer ecdsa.Recoverer
	log       zerolog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHash sets the function used for both the payload digest and the fingerprint.
func WithHash(f hash.Function) Option {
	return func(v *Verifier) { v.hash = f }
}

// WithRecoverer sets the public key recovery backend.
func WithRecoverer(r ecdsa.Recoverer) Option {
	return func(v *Verifier) { v.recoverer = r }
}

// WithLogger sets the logger rejections are reported to, at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Verifier) { v.log = l }
}

// New creates a Verifier using BLAKE2b personalized with hash.CKBDefault and
// the default recovery backend, unless overridden by opts.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		hash:      hash.MustBlake2b(hash.CKBDefault),
		recoverer: ecdsa.DefaultRecoverer(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultVerifier = New()

// Verify calls Verify on a Verifier with the default configuration.
func Verify(fingerprint hash.Digest, payload, witness []byte) error {
	return defaultVerifier.Verify(fingerprint, payload, witness)
}

// Fingerprint returns the hash of a compressed public key.
func (v *Verifier) Fingerprint(pk ecdsa.PublicKey) hash.Digest {
	return v.hash.Sum(pk[:])
}

// Digest returns the hash of a payload, which is what a witness must sign.
func (v *Verifier) Digest(payload []byte) hash.Digest {
	return v.hash.Sum(payload)
}

// Verify returns nil if witness starts with a signature of payload made by
// the key whose fingerprint is given.
//
// A nil witness means the evidence was not supplied at all, and is reported
// as WitnessMissInputType rather than LengthNotEnough.
// Bytes after the signature are ignored.
func (v *Verifier) Verify(fingerprint hash.Digest, payload, witness []byte) error {
	err := v.verify(fingerprint, payload, witness)
	if err != nil {
		code, _ := CodeOf(err)
		v.log.Debug().
			Stringer("fingerprint", fingerprint).
			Int("code", int(code)).
			Err(err).
			Msg("lock rejected")
	}
	return err
}

func (v *Verifier) verify(fingerprint hash.Digest, payload, witness []byte) error {
	if witness == nil {
		return reject(WitnessMissInputType, nil)
	}
	if len(witness) < params.BytesSignature {
		return reject(LengthNotEnough, nil)
	}
	var sig ecdsa.Signature
	copy(sig[:], witness)

	digest := v.hash.Sum(payload)

	pk, err := v.recoverer.Recover(digest, sig)
	if err != nil {
		return reject(InvalidSignature, err)
	}

	if !v.Fingerprint(pk).Equal(fingerprint) {
		return reject(PubkeyHashMismatch, nil)
	}
	return nil
}
