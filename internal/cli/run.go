package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taurusgroup/cell-lock/pkg/host"
)

// Fixture is a transaction together with the script being executed, as
// written by the fixture command.
type Fixture struct {
	Tx     host.Transaction `cbor:"1,keyasint"`
	Script host.Script      `cbor:"2,keyasint"`
}

func addRunCommand(root *cobra.Command, a *app) {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the lock against a CBOR transaction fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := readFixture(path)
			if err != nil {
				return err
			}
			v, err := a.verifier()
			if err != nil {
				return err
			}
			a.logger.Debug().
				Int("inputs", len(fx.Tx.Inputs)).
				Int("witnesses", len(fx.Tx.Witnesses)).
				Msg("running lock")
			err = v.Run(host.NewMemory(&fx.Tx, &fx.Script))
			report(a, err)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "tx", "", "path to the fixture")
	_ = cmd.MarkFlagRequired("tx")
	root.AddCommand(cmd)
}

func readFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	var fx Fixture
	if err := fx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &fx, nil
}
