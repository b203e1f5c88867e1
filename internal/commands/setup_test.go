package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stark402/x402-cli/internal/x402"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"https passthrough", "https://api.example.com/a", "https://api.example.com/a", false},
		{"http passthrough", "http://localhost:8080/a", "http://localhost:8080/a", false},
		{"scheme added", "api.example.com/a", "https://api.example.com/a", false},
		{"whitespace trimmed", "  https://api.example.com  ", "https://api.example.com", false},
		{"empty", "", "", true},
		{"bad scheme", "ftp://example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHeaderFlags(t *testing.T) {
	headers := parseHeaderFlags([]string{
		"Authorization: Bearer token",
		"X-Custom:value",
		"malformed-no-colon",
	})

	assert.Equal(t, "Bearer token", headers["Authorization"])
	assert.Equal(t, "value", headers["X-Custom"])
	assert.Len(t, headers, 2, "entries without a colon are dropped")
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"transport", x402.ErrTransport, exitNetwork},
		{"missing requirements", x402.ErrMissingRequirements, exitProtocol},
		{"missing spender", x402.ErrMissingSpender, exitProtocol},
		{"verification rejected", x402.ErrVerificationRejected, exitRejected},
		{"settlement failed", x402.ErrSettlementFailed, exitRejected},
		{"chain rejected", x402.ErrChainRejected, exitChain},
		{"approval timeout", x402.ErrApprovalTimeout, exitChain},
		{"unknown", errors.New("boom"), exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}
