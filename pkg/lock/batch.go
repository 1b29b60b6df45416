package lock

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taurusgroup/cell-lock/pkg/hash"
)

// Check is one independent verification.
type Check struct {
	Fingerprint hash.Digest
	Payload     []byte
	Witness     []byte
}

// VerifyBatch verifies every check, with at most workers running at the same time.
//
// If workers <= 0, the number of available CPUs is used instead.
// The i-th returned error is the result of checks[i]. Checks that had not
// started when ctx was done report ctx.Err().
func (v *Verifier) VerifyBatch(ctx context.Context, checks []Check, workers int) []error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]error, len(checks))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range checks {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(checks); j++ {
				results[j] = err
			}
			break
		}
		i := i // per-iteration copy; the module targets go 1.21 loop semantics
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			c := &checks[i]
			results[i] = v.Verify(c.Fingerprint, c.Payload, c.Witness)
			// a rejection concerns only its own check
			return nil
		})
	}
	_ = g.Wait()

	v.log.Debug().Int("checks", len(checks)).Int("workers", workers).Msg("batch verified")
	return results
}
