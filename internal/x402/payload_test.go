package x402

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() *PaymentPayload {
	return &PaymentPayload{
		X402Version: X402Version,
		Scheme:      SchemeExact,
		Network:     "sepolia",
		Payload: ExactPayload{
			From:     "0x111",
			To:       "0x222",
			Token:    "0x333",
			Amount:   "1000",
			Nonce:    "0x444",
			Deadline: "1700000000",
			Signature: Signature{
				R: "0xaaa",
				S: "0xbbb",
			},
		},
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	header, err := EncodeHeader(samplePayload())
	require.NoError(t, err)

	// The header must be transport-safe base64.
	_, err = base64.StdEncoding.DecodeString(header)
	require.NoError(t, err)

	decoded, err := DecodeHeader(header)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), decoded)
}

func TestDecodeHeader_InvalidBase64(t *testing.T) {
	_, err := DecodeHeader("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeHeader_InvalidJSON(t *testing.T) {
	header := base64.StdEncoding.EncodeToString([]byte("not json"))
	_, err := DecodeHeader(header)
	assert.Error(t, err)
}
