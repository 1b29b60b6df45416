package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

var errPayloadSource = errors.New("exactly one of --payload and --payload-file is required")

func decodeHex(name, s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return b, nil
}

// readPayload returns the payload given either inline as hex, or as a file path.
func readPayload(payloadHex, payloadFile string) ([]byte, error) {
	switch {
	case payloadHex != "" && payloadFile != "":
		return nil, errPayloadSource
	case payloadFile != "":
		b, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("--payload-file: %w", err)
		}
		return b, nil
	case payloadHex != "":
		return decodeHex("payload", payloadHex)
	default:
		return nil, errPayloadSource
	}
}
