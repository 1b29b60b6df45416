package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "d00c06bfd800d27397002dca6fb0993d5ba6399b4238b2f29ee9deb97593d2b0"

var testPayload = hex.EncodeToString([]byte("test"))

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, strings.TrimSpace(stdout.String()), stderr.String()
}

func TestVerifyCommand(t *testing.T) {
	code, fingerprint, _ := execute(t, "fingerprint", "--secret-key", testSecretKey)
	require.Equal(t, 0, code)
	require.Len(t, fingerprint, 66)

	code, witness, _ := execute(t, "sign", "--secret-key", testSecretKey, "--payload", testPayload)
	require.Equal(t, 0, code)
	require.Len(t, witness, 2+2*65)

	code, out, _ := execute(t, "verify", "--fingerprint", fingerprint, "--payload", testPayload, "--witness", witness)
	assert.Equal(t, 0, code)
	assert.Equal(t, "authorized", out)

	flipped := []byte(fingerprint)
	if flipped[len(flipped)-1] == '0' {
		flipped[len(flipped)-1] = '1'
	} else {
		flipped[len(flipped)-1] = '0'
	}
	code, out, _ = execute(t, "verify", "--fingerprint", string(flipped), "--payload", testPayload, "--witness", witness)
	assert.Equal(t, 106, code)
	assert.Equal(t, "rejected: public key hash mismatch (106)", out)

	code, _, _ = execute(t, "verify", "--fingerprint", fingerprint, "--payload", testPayload, "--witness", witness[:100])
	assert.Equal(t, 102, code)

	code, _, _ = execute(t, "verify", "--fingerprint", fingerprint, "--payload", testPayload, "--no-witness")
	assert.Equal(t, 104, code)

	bad := witness[:len(witness)-2] + "07"
	code, _, _ = execute(t, "verify", "--fingerprint", fingerprint, "--payload", testPayload, "--witness", bad)
	assert.Equal(t, 105, code)
}

func TestVerifyCommand_PayloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o600))

	_, fingerprint, _ := execute(t, "fingerprint", "--secret-key", testSecretKey)
	_, witness, _ := execute(t, "sign", "--secret-key", testSecretKey, "--payload-file", path)

	code, out, _ := execute(t, "verify", "--fingerprint", fingerprint, "--payload-file", path, "--witness", witness)
	assert.Equal(t, 0, code)
	assert.Equal(t, "authorized", out)
}

func TestVerifyCommand_BadInput(t *testing.T) {
	code, _, stderr := execute(t, "verify", "--fingerprint", "0x1234", "--payload", testPayload, "--witness", "00")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--fingerprint")

	code, _, stderr = execute(t, "verify", "--fingerprint", strings.Repeat("00", 32), "--witness", "00")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--payload")
}

func TestFixtureAndRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.cbor")

	code, _, _ := execute(t, "fixture", "--secret-key", testSecretKey, "--payload", testPayload, "--out", path)
	require.Equal(t, 0, code)

	code, out, _ := execute(t, "run", "--tx", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "authorized", out)

	// a fixture signed under another tag is rejected by the default configuration
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("hash:\n  personalization: other-tag\n"), 0o600))
	code, _, _ = execute(t, "--config", cfgPath, "fixture", "--secret-key", testSecretKey, "--payload", testPayload, "--out", path)
	require.Equal(t, 0, code)

	code, _, _ = execute(t, "run", "--tx", path)
	assert.Equal(t, 106, code)

	code, out, _ = execute(t, "--config", cfgPath, "run", "--tx", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "authorized", out)
}

func TestRunCommand_BadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.cbor")
	require.NoError(t, os.WriteFile(path, []byte{0xff}, 0o600))
	code, _, _ := execute(t, "run", "--tx", path)
	assert.Equal(t, 1, code)
}

func TestVerboseLogging(t *testing.T) {
	_, fingerprint, _ := execute(t, "fingerprint", "--secret-key", testSecretKey)
	code, _, stderr := execute(t, "-v", "verify", "--fingerprint", fingerprint, "--payload", testPayload, "--no-witness")
	assert.Equal(t, 104, code)
	assert.Contains(t, stderr, "lock rejected")
	assert.Contains(t, stderr, "configuration loaded")
}

func TestBatchCommand(t *testing.T) {
	_, fingerprint, _ := execute(t, "fingerprint", "--secret-key", testSecretKey)
	_, witness, _ := execute(t, "sign", "--secret-key", testSecretKey, "--payload", testPayload)
	good := fingerprint + ":" + testPayload + ":" + witness
	noWitness := fingerprint + ":" + testPayload + ":"
	otherPayload := fingerprint + ":" + hex.EncodeToString([]byte("tset")) + ":" + witness

	code, out, _ := execute(t, "batch", "--check", good, "--check", good)
	assert.Equal(t, 0, code)
	assert.Equal(t, "0: authorized\n1: authorized", out)

	path := filepath.Join(t.TempDir(), "checks")
	content := "# fingerprint:payload:witness\n" + good + "\n\n" + noWitness + "\n" + otherPayload + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	code, out, _ = execute(t, "batch", "--check", good, "--checks", path)
	assert.Equal(t, 104, code)
	assert.Equal(t, strings.Join([]string{
		"0: authorized",
		"1: authorized",
		"2: rejected: witness is missing input type (104)",
		"3: rejected: public key hash mismatch (106)",
	}, "\n"), out)

	code, _, stderr := execute(t, "batch")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no checks")

	code, _, stderr = execute(t, "batch", "--check", fingerprint+":"+testPayload)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "check 0")
}

func TestBatchCommand_Workers(t *testing.T) {
	_, fingerprint, _ := execute(t, "fingerprint", "--secret-key", testSecretKey)
	_, witness, _ := execute(t, "sign", "--secret-key", testSecretKey, "--payload", testPayload)
	check := fingerprint + ":" + testPayload + ":" + witness

	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("batch:\n  workers: 3\n"), 0o600))
	code, _, stderr := execute(t, "-v", "--config", cfgPath, "batch", "--check", check)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "running batch")
	assert.Contains(t, stderr, "workers=3")

	t.Setenv("CELL_LOCK_BATCH_WORKERS", "2")
	code, _, stderr = execute(t, "-v", "batch", "--check", check)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "workers=2")
}
