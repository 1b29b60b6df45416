package lock

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurusgroup/cell-lock/pkg/ecdsa"
	"github.com/taurusgroup/cell-lock/pkg/hash"
)

func TestVerifyBatch(t *testing.T) {
	v := New()
	checks := make([]Check, 20)
	for i := range checks {
		sk, err := ecdsa.GenerateSecretKey(rand.Reader)
		require.NoError(t, err)
		payload := []byte{byte(i)}
		checks[i] = Check{
			Fingerprint: v.Fingerprint(sk.Public()),
			Payload:     payload,
			Witness:     sign(v, sk, payload),
		}
	}
	// every third check is signed for someone else
	for i := 0; i < len(checks); i += 3 {
		checks[i].Fingerprint = checks[(i+1)%len(checks)].Fingerprint
	}
	checks[len(checks)-1].Witness = nil

	for _, workers := range []int{0, 1, 4} {
		results := v.VerifyBatch(context.Background(), checks, workers)
		require.Len(t, results, len(checks))
		for i, err := range results {
			switch {
			case i == len(checks)-1:
				assert.ErrorIs(t, err, WitnessMissInputType)
			case i%3 == 0:
				assert.ErrorIs(t, err, PubkeyHashMismatch, "check %d", i)
			default:
				assert.NoError(t, err, "check %d", i)
			}
		}
	}
}

func TestVerifyBatch_Canceled(t *testing.T) {
	v := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := v.VerifyBatch(ctx, make([]Check, 5), 2)
	require.Len(t, results, 5)
	for _, err := range results {
		assert.ErrorIs(t, err, context.Canceled)
	}

	assert.Empty(t, v.VerifyBatch(context.Background(), nil, 2))
}

// cancelingRecoverer cancels its context during the first recovery, after
// giving the batch time to queue the next check.
type cancelingRecoverer struct {
	ecdsa.Recoverer
	once   sync.Once
	cancel context.CancelFunc
}

func (r *cancelingRecoverer) Recover(digest hash.Digest, sig ecdsa.Signature) (ecdsa.PublicKey, error) {
	r.once.Do(func() {
		time.Sleep(20 * time.Millisecond)
		r.cancel()
	})
	return r.Recoverer.Recover(digest, sig)
}

func TestVerifyBatch_CanceledWhileRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v := New(WithRecoverer(&cancelingRecoverer{Recoverer: ecdsa.DefaultRecoverer(), cancel: cancel}))

	sk := testKey(t)
	check := Check{
		Fingerprint: v.Fingerprint(sk.Public()),
		Payload:     []byte("test"),
		Witness:     sign(v, sk, []byte("test")),
	}
	checks := []Check{check, check, check, check}

	// with a single worker, the second check is queued while the first one runs
	results := v.VerifyBatch(ctx, checks, 1)
	require.Len(t, results, len(checks))
	assert.NoError(t, results[0])
	for i := 1; i < len(checks); i++ {
		assert.ErrorIs(t, results[i], context.Canceled, "check %d", i)
	}
}
