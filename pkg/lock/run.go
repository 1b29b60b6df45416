package lock

import (
	"github.com/taurusgroup/cell-lock/pkg/hash"
	"github.com/taurusgroup/cell-lock/pkg/host"
)

// Run loads the inputs of a verification from env and verifies them:
//
//   - the witness is the input_type field of the WitnessArgs of input 0,
//   - the payload is the data of the first cell of the script group,
//   - the expected fingerprint is the script arguments.
//
// Faults raised by env are reported with the matching Code, and unknown
// faults panic, see FromSysError.
func (v *Verifier) Run(env host.Environment) error {
	witnessArgs, err := env.LoadWitnessArgs(0, host.Input)
	if err != nil {
		return v.rejectHost(err)
	}
	if witnessArgs.InputType == nil {
		return v.logged(reject(WitnessMissInputType, nil))
	}

	payload, err := env.LoadCellData(0, host.GroupInput)
	if err != nil {
		return v.rejectHost(err)
	}

	args, err := env.LoadScriptArgs()
	if err != nil {
		return v.rejectHost(err)
	}
	// arguments of any other length can never match a fingerprint
	fingerprint, err := hash.DigestFromBytes(args)
	if err != nil {
		return v.logged(reject(PubkeyHashMismatch, err))
	}

	return v.Verify(fingerprint, payload, witnessArgs.InputType)
}

// Run calls Run on a Verifier with the default configuration.
func Run(env host.Environment) error {
	return defaultVerifier.Run(env)
}

func (v *Verifier) rejectHost(err error) error {
	return v.logged(fromHost(err))
}

func (v *Verifier) logged(err error) error {
	code, _ := CodeOf(err)
	v.log.Debug().Int("code", int(code)).Err(err).Msg("lock rejected")
	return err
}
