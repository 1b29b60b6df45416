package lock

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurusgroup/cell-lock/pkg/host"
)

func TestCode_Values(t *testing.T) {
	assert.EqualValues(t, 100, IndexOutOfBound)
	assert.EqualValues(t, 101, ItemMissing)
	assert.EqualValues(t, 102, LengthNotEnough)
	assert.EqualValues(t, 103, Encoding)
	assert.EqualValues(t, 104, WitnessMissInputType)
	assert.EqualValues(t, 105, InvalidSignature)
	assert.EqualValues(t, 106, PubkeyHashMismatch)
}

func TestFromSysError(t *testing.T) {
	tests := []struct {
		code uint64
		want Code
	}{
		{host.CodeIndexOutOfBound, IndexOutOfBound},
		{host.CodeItemMissing, ItemMissing},
		{host.CodeLengthNotEnough, LengthNotEnough},
		{host.CodeEncoding, Encoding},
	}
	for _, tt := range tests {
		sysErr := &host.SysError{Code: tt.code, Length: 10}
		require.True(t, sysErr.Known())
		assert.Equal(t, tt.want, FromSysError(sysErr))
	}

	for _, code := range []uint64{0, 5, 42, 1 << 63} {
		require.False(t, (&host.SysError{Code: code}).Known())
		assert.PanicsWithValue(t, fmt.Sprintf("unexpected sys error %d", code), func() {
			FromSysError(&host.SysError{Code: code})
		})
	}
}

func TestError_Wrapping(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("context: %w", reject(InvalidSignature, cause))

	assert.ErrorIs(t, err, InvalidSignature)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, PubkeyHashMismatch)
	assert.Contains(t, err.Error(), "invalid signature (105): cause")

	var lockErr *Error
	assert.True(t, errors.As(err, &lockErr))
	assert.Equal(t, InvalidSignature, lockErr.Code)

	assert.Equal(t, "lock: encoding (103)", reject(Encoding, nil).Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 106, ExitCode(reject(PubkeyHashMismatch, nil)))
	assert.Equal(t, 104, ExitCode(fmt.Errorf("wrapped: %w", reject(WitnessMissInputType, nil))))
	assert.Equal(t, 1, ExitCode(errors.New("flag parsing failed")))

	_, ok := CodeOf(errors.New("plain"))
	assert.False(t, ok)
}
