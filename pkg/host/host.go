// Package host describes the read primitives a lock consumes from the chain it
// runs on, and provides an in-memory implementation of them.
//
// A lock never fetches anything itself: the executing environment resolves
// witnesses, cell data and the running script's arguments, and hands them over
// through Environment.
package host

import "fmt"

// Source selects which collection of cells an index refers to.
type Source uint64

const (
	Input     Source = 1
	Output    Source = 2
	CellDep   Source = 3
	HeaderDep Source = 4

	// GroupInput and GroupOutput only see the cells running the current script.
	GroupInput  Source = 0x0100000000000001
	GroupOutput Source = 0x0100000000000002
)

func (s Source) String() string {
	switch s {
	case Input:
		return "input"
	case Output:
		return "output"
	case CellDep:
		return "cell_dep"
	case HeaderDep:
		return "header_dep"
	case GroupInput:
		return "group_input"
	case GroupOutput:
		return "group_output"
	default:
		return fmt.Sprintf("source(%#x)", uint64(s))
	}
}

// Environment is the narrow read contract a lock is given.
type Environment interface {
	// LoadWitnessArgs decodes the witness at index of source as WitnessArgs.
	LoadWitnessArgs(index int, source Source) (WitnessArgs, error)
	// LoadCellData returns the data of the cell at index of source.
	LoadCellData(index int, source Source) ([]byte, error)
	// LoadScriptArgs returns the arguments of the running script.
	LoadScriptArgs() ([]byte, error)
}

// Fault codes returned by the environment.
const (
	CodeIndexOutOfBound uint64 = 1
	CodeItemMissing     uint64 = 2
	CodeLengthNotEnough uint64 = 3
	CodeEncoding        uint64 = 4
)

// SysError is a fault raised by the environment while serving a read.
//
// Codes other than the Code* constants are possible, and have no defined meaning.
type SysError struct {
	Code uint64
	// Length is the full size of the item for CodeLengthNotEnough.
	Length int
}

func (e *SysError) Error() string {
	switch e.Code {
	case CodeIndexOutOfBound:
		return "host: index out of bound"
	case CodeItemMissing:
		return "host: item missing"
	case CodeLengthNotEnough:
		return fmt.Sprintf("host: length not enough (item is %d bytes)", e.Length)
	case CodeEncoding:
		return "host: encoding"
	default:
		return fmt.Sprintf("host: unknown error %d", e.Code)
	}
}

// Known reports whether e carries one of the documented fault codes.
func (e *SysError) Known() bool {
	switch e.Code {
	case CodeIndexOutOfBound, CodeItemMissing, CodeLengthNotEnough, CodeEncoding:
		return true
	}
	return false
}

var (
	ErrIndexOutOfBound = &SysError{Code: CodeIndexOutOfBound}
	ErrItemMissing     = &SysError{Code: CodeItemMissing}
	ErrEncoding        = &SysError{Code: CodeEncoding}
)

// Is lets errors.Is match faults by code.
func (e *SysError) Is(target error) bool {
	t, ok := target.(*SysError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
