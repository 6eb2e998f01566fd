package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope decode errors.
var (
	// ErrMalformedEnvelope is returned when message bytes cannot be decoded
	// into an envelope, even after best-effort recovery.
	ErrMalformedEnvelope = errors.New("malformed event envelope")

	// ErrIncompleteEnvelope is returned when required identity fields
	// (network, type, txId) are missing.
	ErrIncompleteEnvelope = errors.New("incomplete event envelope")
)

// DecodeEnvelope parses raw message bytes into an Envelope. Control
// characters are stripped first; if plain JSON parsing fails, a best-effort
// recovery slices from the first '{' to the last '}' and retries once
// before giving up.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	cleaned := stripControlChars(data)

	var env Envelope
	if err := json.Unmarshal(cleaned, &env); err != nil {
		recovered, ok := sliceBraces(cleaned)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		if err := json.Unmarshal(recovered, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
	}

	if env.Network == "" || env.Type == "" || env.TxID == "" {
		return nil, ErrIncompleteEnvelope
	}

	return &env, nil
}

// stripControlChars removes bytes below 0x20 except the JSON whitespace
// characters, which the decoder handles on its own.
func stripControlChars(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			continue
		}
		out = append(out, b)
	}
	return out
}

// sliceBraces extracts the region between the first '{' and the last '}',
// recovering envelopes wrapped in log noise or truncation artifacts.
func sliceBraces(data []byte) ([]byte, bool) {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	return data[start : end+1], true
}
