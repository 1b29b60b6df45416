package hash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	stdhash "hash"
	"io"

	"github.com/dchest/blake2b"
	"github.com/zeebo/blake3"
	xblake2b "golang.org/x/crypto/blake2b"

	"github.com/taurusgroup/cell-lock/internal/params"
)

// Personalization is the domain separation tag mixed into BLAKE2b's parameter block.
type Personalization string

// CKBDefault is the personalization used for every hash of the lock protocol.
//
// Changing it breaks all previously computed fingerprints.
const CKBDefault Personalization = "ckb-default-hash"

// MaxPersonalizationBytes is the size of the BLAKE2b personalization field.
const MaxPersonalizationBytes = 16

var ErrPersonalization = errors.New("hash: personalization too long")

// Function describes how to build a fresh hash state.
//
// A Function holds no mutable state, and can be shared between goroutines.
type Function struct {
	name string
	tag  string
	new  func() stdhash.Hash
}

// Blake2b returns BLAKE2b with a DigestLengthBytes output, personalized with p.
//
// An empty personalization gives plain BLAKE2b-256.
func Blake2b(p Personalization) (Function, error) {
	if len(p) > MaxPersonalizationBytes {
		return Function{}, fmt.Errorf("%w: %d > %d bytes", ErrPersonalization, len(p), MaxPersonalizationBytes)
	}
	if p == "" {
		// same output as a personalized state with a zero Person field
		return Function{
			name: "blake2b",
			new: func() stdhash.Hash {
				h, _ := xblake2b.New256(nil)
				return h
			},
		}, nil
	}
	person := []byte(p)
	return Function{
		name: "blake2b",
		tag:  string(p),
		new: func() stdhash.Hash {
			// the config is fixed and valid, so New cannot fail here
			h, err := blake2b.New(&blake2b.Config{
				Size:   params.DigestBytes,
				Person: person,
			})
			if err != nil {
				panic(fmt.Sprintf("hash.Blake2b: %v", err))
			}
			return h
		},
	}, nil
}

// MustBlake2b is like Blake2b but panics on an invalid personalization.
func MustBlake2b(p Personalization) Function {
	f, err := Blake2b(p)
	if err != nil {
		panic(err)
	}
	return f
}

// Blake3 returns BLAKE3 in key derivation mode, using context as the domain separation tag.
func Blake3(context string) Function {
	return Function{
		name: "blake3",
		tag:  context,
		new: func() stdhash.Hash {
			return blake3.NewDeriveKey(context)
		},
	}
}

// Name returns the name of the underlying hash algorithm.
func (f Function) Name() string { return f.name }

// Tag returns the domain separation tag.
func (f Function) Tag() string { return f.tag }

// New creates a Hash ready to absorb data.
func (f Function) New() *Hash {
	if f.new == nil {
		panic("hash: uninitialized Function")
	}
	return &Hash{h: f.new()}
}

// Sum returns the digest of data.
func (f Function) Sum(data []byte) Digest {
	h := f.New()
	_, _ = h.Write(data)
	return h.Sum()
}

// Hash is a single use hash state, created by Function.New.
type Hash struct {
	h stdhash.Hash
}

// Write implements io.Writer.
func (hash *Hash) Write(data []byte) (int, error) {
	// the underlying hash function never returns an error
	return hash.h.Write(data)
}

// WriteFrom absorbs everything readable from r.
func (hash *Hash) WriteFrom(r io.Reader) (int64, error) {
	return io.Copy(hash.h, r)
}

// Sum returns the digest of everything written so far.
func (hash *Hash) Sum() Digest {
	var d Digest
	out := hash.h.Sum(nil)
	if len(out) != params.DigestBytes {
		panic(fmt.Sprintf("hash.Sum: unexpected digest length %d", len(out)))
	}
	copy(d[:], out)
	return d
}

// Digest is the output of a Function.
type Digest [params.DigestBytes]byte

// DigestFromBytes checks that b has exactly DigestBytes bytes.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != params.DigestBytes {
		return d, fmt.Errorf("hash: invalid digest length (got %d, expected %d)", len(b), params.DigestBytes)
	}
	copy(d[:], b)
	return d, nil
}

// DigestFromHex parses a hex encoded digest, with or without a 0x prefix.
func DigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return Digest{}, fmt.Errorf("hash: %w", err)
	}
	return DigestFromBytes(b)
}

// Equal reports whether d and other hold the same bytes.
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d[:], other[:])
}

// Bytes returns a copy of the digest.
func (d Digest) Bytes() []byte {
	out := make([]byte, len(d))
	copy(out, d[:])
	return out
}

func (d Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
