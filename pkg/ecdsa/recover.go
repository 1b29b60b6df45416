package ecdsa

import (
	"fmt"

	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/taurusgroup/cell-lock/internal/params"
	"github.com/taurusgroup/cell-lock/pkg/hash"
)

// Recoverer computes the public key whose secret key produced sig over digest.
//
// Implementations must never return a key for a malformed signature.
type Recoverer interface {
	Recover(digest hash.Digest, sig Signature) (PublicKey, error)
}

// Ensure our types implement the interfaces at compile time.
var (
	_ Recoverer = Decred{}
	_ Recoverer = Ethereum{}
)

// Decred recovers keys with github.com/decred/dcrd/dcrec/secp256k1.
type Decred struct{}

// Recover implements Recoverer.
func (Decred) Recover(digest hash.Digest, sig Signature) (PublicKey, error) {
	if err := sig.Validate(); err != nil {
		return PublicKey{}, err
	}

	// decred expects <27 + 4 + id><r><s>
	var compact [params.BytesSignature]byte
	compact[0] = compactMagicOffset + compactCompressed + sig.RecoveryID()
	copy(compact[1:], sig.RS())

	pub, _, err := secpecdsa.RecoverCompact(compact[:], digest[:])
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrRecovery, err)
	}
	return newPublicKey(pub), nil
}

// DefaultRecoverer is the Recoverer used when none is configured.
func DefaultRecoverer() Recoverer { return Decred{} }

// RecovererByName returns the backend called name: "decred" or "ethereum".
func RecovererByName(name string) (Recoverer, error) {
	switch name {
	case "", "decred":
		return Decred{}, nil
	case "ethereum":
		return Ethereum{}, nil
	default:
		return nil, fmt.Errorf("ecdsa: unknown recovery backend %q", name)
	}
}
