package host

import (
	"encoding/binary"
	"fmt"
)

const (
	molNumberBytes = 4

	witnessArgsFields     = 3
	witnessArgsHeaderSize = molNumberBytes * (witnessArgsFields + 1)
)

// WitnessArgs is the structured witness attached to an input.
//
// A nil field is absent, which is distinct from a present but empty field.
type WitnessArgs struct {
	Lock       []byte
	InputType  []byte
	OutputType []byte
}

// MarshalBinary encodes w as the molecule table
//
//	table WitnessArgs { lock: BytesOpt, input_type: BytesOpt, output_type: BytesOpt }
//
// All numbers are little-endian uint32s.
func (w WitnessArgs) MarshalBinary() ([]byte, error) {
	fields := [witnessArgsFields][]byte{
		encodeBytesOpt(w.Lock),
		encodeBytesOpt(w.InputType),
		encodeBytesOpt(w.OutputType),
	}
	total := witnessArgsHeaderSize
	for _, f := range fields {
		total += len(f)
	}

	out := make([]byte, witnessArgsHeaderSize, total)
	binary.LittleEndian.PutUint32(out, uint32(total))
	offset := witnessArgsHeaderSize
	for i, f := range fields {
		binary.LittleEndian.PutUint32(out[molNumberBytes*(i+1):], uint32(offset))
		offset += len(f)
	}
	for _, f := range fields {
		out = append(out, f...)
	}
	return out, nil
}

// UnmarshalBinary decodes a molecule WitnessArgs table, rejecting any
// structural inconsistency and tables with extra fields.
func (w *WitnessArgs) UnmarshalBinary(data []byte) error {
	if len(data) < molNumberBytes {
		return fmt.Errorf("witness args: header is broken")
	}
	total := int(binary.LittleEndian.Uint32(data))
	if total != len(data) {
		return fmt.Errorf("witness args: total size %d does not match %d bytes", total, len(data))
	}
	if len(data) < 2*molNumberBytes {
		return fmt.Errorf("witness args: header is broken")
	}
	first := int(binary.LittleEndian.Uint32(data[molNumberBytes:]))
	if first%molNumberBytes != 0 || first < 2*molNumberBytes {
		return fmt.Errorf("witness args: first offset %d is broken", first)
	}
	if count := first/molNumberBytes - 1; count != witnessArgsFields {
		return fmt.Errorf("witness args: expected %d fields, found %d", witnessArgsFields, count)
	}
	if len(data) < witnessArgsHeaderSize {
		return fmt.Errorf("witness args: header is broken")
	}

	offsets := make([]int, witnessArgsFields+1)
	for i := 0; i < witnessArgsFields; i++ {
		offsets[i] = int(binary.LittleEndian.Uint32(data[molNumberBytes*(i+1):]))
	}
	offsets[witnessArgsFields] = total
	for i := 0; i < witnessArgsFields; i++ {
		if offsets[i] > offsets[i+1] {
			return fmt.Errorf("witness args: offset %d is broken", i)
		}
	}

	var fields [witnessArgsFields][]byte
	for i := range fields {
		f, err := decodeBytesOpt(data[offsets[i]:offsets[i+1]])
		if err != nil {
			return fmt.Errorf("witness args: field %d: %w", i, err)
		}
		fields[i] = f
	}
	w.Lock, w.InputType, w.OutputType = fields[0], fields[1], fields[2]
	return nil
}

func encodeBytesOpt(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, molNumberBytes+len(b))
	binary.LittleEndian.PutUint32(out, uint32(len(b)))
	copy(out[molNumberBytes:], b)
	return out
}

func decodeBytesOpt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < molNumberBytes {
		return nil, fmt.Errorf("bytes header is broken")
	}
	n := int(binary.LittleEndian.Uint32(data))
	if molNumberBytes+n != len(data) {
		return nil, fmt.Errorf("bytes length %d does not match %d bytes", n, len(data)-molNumberBytes)
	}
	out := make([]byte, n)
	copy(out, data[molNumberBytes:])
	return out, nil
}
