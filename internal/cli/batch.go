package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taurusgroup/cell-lock/pkg/hash"
	"github.com/taurusgroup/cell-lock/pkg/lock"
)

type batchOptions struct {
	checks     []string
	checksFile string
}

func addBatchCommand(root *cobra.Command, a *app) {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Verify many independent checks in parallel",
		Long: `Each check is written FINGERPRINT:PAYLOAD:WITNESS, all in hex. An empty
WITNESS means the check has no witness at all.

Checks are read from --check flags, then from the lines of --checks
(blank lines and lines starting with # are skipped). They run on at most
batch.workers goroutines. Exit status is 0 if every check is authorized, and
the code of the first rejected check otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, &opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.checks, "check", nil, "a check, FINGERPRINT:PAYLOAD:WITNESS (repeatable)")
	cmd.Flags().StringVar(&opts.checksFile, "checks", "", "file with one check per line")
	root.AddCommand(cmd)
}

func runBatch(cmd *cobra.Command, a *app, opts *batchOptions) error {
	lines := opts.checks
	if opts.checksFile != "" {
		fileLines, err := readCheckLines(opts.checksFile)
		if err != nil {
			return err
		}
		lines = append(lines, fileLines...)
	}
	if len(lines) == 0 {
		return fmt.Errorf("no checks given, use --check or --checks")
	}
	checks := make([]lock.Check, 0, len(lines))
	for i, line := range lines {
		c, err := parseCheck(line)
		if err != nil {
			return fmt.Errorf("check %d: %w", i, err)
		}
		checks = append(checks, c)
	}

	v, err := a.verifier()
	if err != nil {
		return err
	}
	a.logger.Debug().
		Int("checks", len(checks)).
		Int("workers", a.cfg.Batch.Workers).
		Msg("running batch")
	results := v.VerifyBatch(cmd.Context(), checks, a.cfg.Batch.Workers)

	var first error
	for i, err := range results {
		if err == nil {
			_, _ = fmt.Fprintf(a.stdout, "%d: authorized\n", i)
			continue
		}
		code, ok := lock.CodeOf(err)
		if !ok {
			// the batch was canceled before this check ran
			return err
		}
		_, _ = fmt.Fprintf(a.stdout, "%d: rejected: %s (%d)\n", i, code, int8(code))
		if first == nil {
			first = err
		}
	}
	return first
}

// parseCheck decodes FINGERPRINT:PAYLOAD:WITNESS.
func parseCheck(s string) (lock.Check, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return lock.Check{}, fmt.Errorf("want FINGERPRINT:PAYLOAD:WITNESS, got %d fields", len(parts))
	}
	fingerprint, err := hash.DigestFromHex(parts[0])
	if err != nil {
		return lock.Check{}, fmt.Errorf("fingerprint: %w", err)
	}
	payload, err := decodeHex("payload", parts[1])
	if err != nil {
		return lock.Check{}, err
	}
	c := lock.Check{Fingerprint: fingerprint, Payload: payload}
	if parts[2] != "" {
		if c.Witness, err = decodeHex("witness", parts[2]); err != nil {
			return lock.Check{}, err
		}
	}
	return c, nil
}

func readCheckLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("--checks: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("--checks: %w", err)
	}
	return lines, nil
}
