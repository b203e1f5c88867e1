package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "e0b2c4f", truncate("e0b2c4f1a2b3c4d5", 7))
	assert.Equal(t, "short", truncate("short", 7))
	assert.Equal(t, "", truncate("", 7))
}

func TestParseApproveAmount(t *testing.T) {
	knownToken := "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

	// Known tokens take human units.
	amount, err := parseApproveAmount("sepolia", knownToken, "0.5")
	assert.NoError(t, err)
	assert.Equal(t, "500000000000000000", amount.String())

	// Unknown tokens take raw units only.
	amount, err = parseApproveAmount("sepolia", "0xdeadbeef", "1000")
	assert.NoError(t, err)
	assert.Equal(t, "1000", amount.String())

	_, err = parseApproveAmount("sepolia", "0xdeadbeef", "0.5")
	assert.Error(t, err, "fractional amounts need token decimals")

	_, err = parseApproveAmount("sepolia", "0xdeadbeef", "abc")
	assert.Error(t, err)
}
