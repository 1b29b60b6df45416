package ecdsa

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurusgroup/cell-lock/pkg/hash"
)

const testSecretKey = "d00c06bfd800d27397002dca6fb0993d5ba6399b4238b2f29ee9deb97593d2b0"

func testDigest(msg string) hash.Digest {
	return hash.MustBlake2b(hash.CKBDefault).Sum([]byte(msg))
}

func TestSecretKey_Public(t *testing.T) {
	one := make([]byte, 32)
	one[31] = 1
	sk, err := SecretKeyFromBytes(one)
	require.NoError(t, err)

	// the generator G
	g, err := PublicKeyFromHex("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	require.NoError(t, err)
	assert.Equal(t, g, sk.Public())
}

func TestSecretKeyFromBytes(t *testing.T) {
	_, err := SecretKeyFromBytes(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidSecretKey)

	_, err = SecretKeyFromBytes(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidSecretKey)

	_, err = SecretKeyFromHex(orderHex)
	assert.ErrorIs(t, err, ErrInvalidSecretKey)

	_, err = SecretKeyFromHex("0x" + testSecretKey)
	assert.NoError(t, err)
}

func TestSecretKey_SignDeterministic(t *testing.T) {
	sk, err := SecretKeyFromHex(testSecretKey)
	require.NoError(t, err)

	d := testDigest("test")
	sig1 := sk.Sign(d)
	sig2 := sk.Sign(d)
	assert.Equal(t, sig1, sig2)
	assert.NoError(t, sig1.Validate())
	assert.LessOrEqual(t, sig1.RecoveryID(), byte(1))
}

func TestPublicKeyFromBytes(t *testing.T) {
	sk, err := GenerateSecretKey(rand.Reader)
	require.NoError(t, err)
	pk := sk.Public()

	parsed, err := PublicKeyFromBytes(pk.Bytes())
	require.NoError(t, err)
	assert.Equal(t, pk, parsed)
	assert.Contains(t, []byte{2, 3}, pk[0])

	bad := pk.Bytes()
	bad[0] = 0x04
	_, err = PublicKeyFromBytes(bad)
	assert.Error(t, err)

	_, err = PublicKeyFromBytes(pk[:32])
	assert.Error(t, err)

	// x = 0 is not on the curve
	notOnCurve := make([]byte, 33)
	notOnCurve[0] = 2
	_, err = PublicKeyFromBytes(notOnCurve)
	assert.Error(t, err)
}
