package host

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Script identifies a lock or type script: the code to run and its arguments.
type Script struct {
	CodeHash []byte `cbor:"1,keyasint"`
	Args     []byte `cbor:"2,keyasint"`
}

// Equal reports whether s and other refer to the same code with the same arguments.
func (s *Script) Equal(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.CodeHash, other.CodeHash) && bytes.Equal(s.Args, other.Args)
}

// Cell is a piece of state, guarded by its type script.
type Cell struct {
	Data []byte  `cbor:"1,keyasint"`
	Type *Script `cbor:"2,keyasint,omitempty"`
}

// Transaction is the part of a transaction visible to a lock.
//
// Witnesses are molecule encoded WitnessArgs, Witnesses[i] belonging to Inputs[i].
type Transaction struct {
	Inputs    []Cell   `cbor:"1,keyasint"`
	Outputs   []Cell   `cbor:"2,keyasint"`
	CellDeps  []Cell   `cbor:"3,keyasint"`
	Witnesses [][]byte `cbor:"4,keyasint"`
}

// MarshalBinary encodes tx as CBOR.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	type plain Transaction
	return cbor.Marshal((*plain)(tx))
}

// UnmarshalBinary decodes a CBOR encoded transaction.
func (tx *Transaction) UnmarshalBinary(data []byte) error {
	type plain Transaction
	if err := cbor.Unmarshal(data, (*plain)(tx)); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}

// Memory serves Environment reads from a Transaction, as seen by Script.
type Memory struct {
	Tx     *Transaction
	Script *Script
}

var _ Environment = (*Memory)(nil)

// NewMemory creates an Environment executing script within tx.
func NewMemory(tx *Transaction, script *Script) *Memory {
	return &Memory{Tx: tx, Script: script}
}

// LoadWitnessArgs implements Environment.
//
// For GroupInput, index counts only the inputs in the script group, and the
// witness at the matching input position is returned.
func (m *Memory) LoadWitnessArgs(index int, source Source) (WitnessArgs, error) {
	var w WitnessArgs
	i, err := m.witnessIndex(index, source)
	if err != nil {
		return w, err
	}
	if i >= len(m.Tx.Witnesses) {
		return w, ErrIndexOutOfBound
	}
	if err := w.UnmarshalBinary(m.Tx.Witnesses[i]); err != nil {
		return w, ErrEncoding
	}
	return w, nil
}

// LoadCellData implements Environment.
func (m *Memory) LoadCellData(index int, source Source) ([]byte, error) {
	cells, err := m.cells(source)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cells) {
		return nil, ErrIndexOutOfBound
	}
	out := make([]byte, len(cells[index].Data))
	copy(out, cells[index].Data)
	return out, nil
}

// LoadScriptArgs implements Environment.
func (m *Memory) LoadScriptArgs() ([]byte, error) {
	if m.Script == nil {
		return nil, ErrItemMissing
	}
	out := make([]byte, len(m.Script.Args))
	copy(out, m.Script.Args)
	return out, nil
}

func (m *Memory) witnessIndex(index int, source Source) (int, error) {
	if index < 0 {
		return 0, ErrIndexOutOfBound
	}
	switch source {
	case Input, Output:
		return index, nil
	case GroupInput, GroupOutput:
		positions := m.group(m.all(source))
		if index >= len(positions) {
			return 0, ErrIndexOutOfBound
		}
		return positions[index], nil
	default:
		return 0, ErrIndexOutOfBound
	}
}

func (m *Memory) cells(source Source) ([]Cell, error) {
	switch source {
	case Input, Output, CellDep:
		return m.all(source), nil
	case GroupInput, GroupOutput:
		all := m.all(source)
		positions := m.group(all)
		out := make([]Cell, 0, len(positions))
		for _, i := range positions {
			out = append(out, all[i])
		}
		return out, nil
	default:
		return nil, ErrIndexOutOfBound
	}
}

func (m *Memory) all(source Source) []Cell {
	switch source {
	case Input, GroupInput:
		return m.Tx.Inputs
	case Output, GroupOutput:
		return m.Tx.Outputs
	case CellDep:
		return m.Tx.CellDeps
	}
	return nil
}

// group returns the positions of the cells whose type script is the running script.
func (m *Memory) group(cells []Cell) []int {
	var positions []int
	for i := range cells {
		if cells[i].Type != nil && cells[i].Type.Equal(m.Script) {
			positions = append(positions, i)
		}
	}
	return positions
}
