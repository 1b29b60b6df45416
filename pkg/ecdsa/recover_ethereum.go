package ecdsa

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/taurusgroup/cell-lock/pkg/hash"
)

// Ethereum recovers keys with go-ethereum's crypto package, which shares the
// r ‖ s ‖ id layout with a recovery id of 0 or 1 (2 and 3 are also accepted).
type Ethereum struct{}

// Recover implements Recoverer.
func (Ethereum) Recover(digest hash.Digest, sig Signature) (PublicKey, error) {
	if err := sig.Validate(); err != nil {
		return PublicKey{}, err
	}

	pub, err := ethcrypto.SigToPub(digest[:], sig.Bytes())
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrRecovery, err)
	}
	var pk PublicKey
	copy(pk[:], ethcrypto.CompressPubkey(pub))
	return pk, nil
}
