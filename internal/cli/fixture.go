package cli

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/taurusgroup/cell-lock/pkg/ecdsa"
	"github.com/taurusgroup/cell-lock/pkg/host"
	"github.com/taurusgroup/cell-lock/pkg/lock"
)

// LockCodeName is hashed into the code hash of fixture scripts.
const LockCodeName = "cell-lock"

// MarshalBinary encodes the fixture as CBOR.
func (fx *Fixture) MarshalBinary() ([]byte, error) {
	type plain Fixture
	return cbor.Marshal((*plain)(fx))
}

// UnmarshalBinary decodes a CBOR fixture.
func (fx *Fixture) UnmarshalBinary(data []byte) error {
	type plain Fixture
	if err := cbor.Unmarshal(data, (*plain)(fx)); err != nil {
		return fmt.Errorf("fixture: %w", err)
	}
	return nil
}

// NewFixture builds a transaction consuming one cell holding payload, locked
// to the key of sk, with a witness signed by sk.
func NewFixture(v *lock.Verifier, sk *ecdsa.SecretKey, payload []byte) (*Fixture, error) {
	script := host.Script{
		CodeHash: v.Digest([]byte(LockCodeName)).Bytes(),
		Args:     v.Fingerprint(sk.Public()).Bytes(),
	}
	witness, err := host.WitnessArgs{
		InputType: sk.Sign(v.Digest(payload)).Bytes(),
	}.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &Fixture{
		Tx: host.Transaction{
			Inputs:    []host.Cell{{Data: payload, Type: &script}},
			Outputs:   []host.Cell{{Data: []byte{}, Type: &script}},
			Witnesses: [][]byte{witness},
		},
		Script: script,
	}, nil
}

func addFixtureCommand(root *cobra.Command, a *app) {
	var secretKey, payloadHex, payloadFile, out string
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Write a signed one-input transaction fixture for the run command",
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
			fx, err := NewFixture(v, sk, payload)
			if err != nil {
				return err
			}
			data, err := fx.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("fixture: %w", err)
			}
			a.logger.Info().Str("path", out).Int("bytes", len(data)).Msg("fixture written")
			return nil
		},
	}
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "secret key (hex)")
	cmd.Flags().StringVar(&payloadHex, "payload", "", "payload (hex)")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "file holding the raw payload")
	cmd.Flags().StringVar(&out, "out", "", "where to write the fixture")
	_ = cmd.MarkFlagRequired("secret-key")
	_ = cmd.MarkFlagRequired("out")
	root.AddCommand(cmd)
}
