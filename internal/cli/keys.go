package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taurusgroup/cell-lock/pkg/ecdsa"
)

func addFingerprintCommand(root *cobra.Command, a *app) {
	var pubkey, secretKey string
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint a lock expects for a public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pk ecdsa.PublicKey
			switch {
			case pubkey != "":
				var err error
				if pk, err = ecdsa.PublicKeyFromHex(pubkey); err != nil {
					return fmt.Errorf("--pubkey: %w", err)
				}
			case secretKey != "":
				sk, err := ecdsa.SecretKeyFromHex(secretKey)
				if err != nil {
					return fmt.Errorf("--secret-key: %w", err)
				}
				pk = sk.Public()
			default:
				return errors.New("one of --pubkey and --secret-key is required")
			}
			v, err := a.verifier()
			if err != nil {
				return err
			}
			a.logger.Debug().Stringer("pubkey", pk).Msg("fingerprinting")
			_, _ = fmt.Fprintln(a.stdout, v.Fingerprint(pk))
			return nil
		},
	}
	cmd.Flags().StringVar(&pubkey, "pubkey", "", "compressed public key (hex)")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "secret key (hex)")
	cmd.MarkFlagsMutuallyExclusive("pubkey", "secret-key")
	root.AddCommand(cmd)
}

func addSignCommand(root *cobra.Command, a *app) {
	var secretKey, payloadHex, payloadFile string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print a witness signing the hash of a payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sk, err := ecdsa.SecretKeyFromHex(secretKey)
			if err != nil {
				return fmt.Errorf("--secret-key: %w", err)
			}
			payload, err := readPayload(payloadHex, payloadFile)
			if err != nil {
				return err
			}
			v, err := a.verifier()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, sk.Sign(v.Digest(payload)))
			return nil
		},
	}
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "secret key (hex)")
	cmd.Flags().StringVar(&payloadHex, "payload", "", "payload (hex)")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "file holding the raw payload")
	_ = cmd.MarkFlagRequired("secret-key")
	root.AddCommand(cmd)
}
