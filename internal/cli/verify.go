package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taurusgroup/cell-lock/pkg/hash"
	"github.com/taurusgroup/cell-lock/pkg/lock"
)

type verifyOptions struct {
	fingerprint string
	payload     string
	payloadFile string
	witness     string
	noWitness   bool
}

func addVerifyCommand(root *cobra.Command, a *app) {
	var opts verifyOptions
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a witness against a payload and an expected key fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(a, &opts)
		},
	}
	cmd.Flags().StringVar(&opts.fingerprint, "fingerprint", "", "expected public key fingerprint (hex, 32 bytes)")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "payload (hex)")
	cmd.Flags().StringVar(&opts.payloadFile, "payload-file", "", "file holding the raw payload")
	cmd.Flags().StringVar(&opts.witness, "witness", "", "witness: r ‖ s ‖ recovery id (hex)")
	cmd.Flags().BoolVar(&opts.noWitness, "no-witness", false, "verify without any witness")
	_ = cmd.MarkFlagRequired("fingerprint")
	cmd.MarkFlagsMutuallyExclusive("witness", "no-witness")
	root.AddCommand(cmd)
}

func runVerify(a *app, opts *verifyOptions) error {
	fingerprint, err := hash.DigestFromHex(opts.fingerprint)
	if err != nil {
		return fmt.Errorf("--fingerprint: %w", err)
	}
	payload, err := readPayload(opts.payload, opts.payloadFile)
	if err != nil {
		return err
	}
	var witness []byte
	if !opts.noWitness {
		if witness, err = decodeHex("witness", opts.witness); err != nil {
			return err
		}
	}

	v, err := a.verifier()
	if err != nil {
		return err
	}
	err = v.Verify(fingerprint, payload, witness)
	report(a, err)
	return err
}

// report prints the decision on stdout.
func report(a *app, err error) {
	if err == nil {
		_, _ = fmt.Fprintln(a.stdout, "authorized")
		return
	}
	if code, ok := lock.CodeOf(err); ok {
		_, _ = fmt.Fprintf(a.stdout, "rejected: %s (%d)\n", code, int8(code))
		a.logger.Info().Err(err).Msg("rejected")
	}
}
