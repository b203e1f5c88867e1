package facilitator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stark402/x402-cli/internal/x402"
)

func testRequirements() x402.PaymentRequirements {
	return x402.PaymentRequirements{
		Scheme:            "exact",
		Network:           "sepolia",
		MaxAmountRequired: "10000",
		Asset:             "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
		PayTo:             "0x0123456789abcdef",
	}
}

func TestVerify_Valid(t *testing.T) {
	var gotBody request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(x402.VerificationResult{IsValid: true})
	}))
	defer server.Close()

	client := New(server.URL)
	result, err := client.Verify(context.Background(), "payment-header", testRequirements())
	require.NoError(t, err)
	assert.True(t, result.IsValid)

	// The request carries the header and requirements verbatim.
	assert.Equal(t, x402.X402Version, gotBody.X402Version)
	assert.Equal(t, "payment-header", gotBody.PaymentHeader)
	assert.Equal(t, testRequirements(), gotBody.PaymentRequirements)
}

func TestVerify_InvalidReasonSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(x402.VerificationResult{
			IsValid:       false,
			InvalidReason: "signature expired",
		})
	}))
	defer server.Close()

	result, err := New(server.URL).Verify(context.Background(), "h", testRequirements())
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "signature expired", result.InvalidReason)
}

func TestSettle_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settle", r.URL.Path)
		json.NewEncoder(w).Encode(x402.SettlementResult{Success: true, TxHash: "0xdead"})
	}))
	defer server.Close()

	result, err := New(server.URL).Settle(context.Background(), "h", testRequirements())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0xdead", result.TxHash)
}

func TestSettle_AbsentSuccessIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No success field at all.
		w.Write([]byte(`{"txHash":"0xdead"}`))
	}))
	defer server.Close()

	result, err := New(server.URL).Settle(context.Background(), "h", testRequirements())
	require.NoError(t, err)
	assert.False(t, result.Success, "a settlement without an explicit success flag is not trusted")
}

func TestPost_Non200ExtractsReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"invalidReason":"unsupported network"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Verify(context.Background(), "h", testRequirements())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported network")
	assert.Contains(t, err.Error(), "400")
}

func TestPost_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := New(server.URL).Verify(context.Background(), "h", testRequirements())
	assert.ErrorIs(t, err, x402.ErrTransport)
}

func TestErrorReason(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalidReason key", `{"invalidReason":"bad sig"}`, "bad sig"},
		{"error key", `{"error":"boom"}`, "boom"},
		{"message key", `{"message":"nope"}`, "nope"},
		{"raw short body", `plain text`, "plain text"},
		{"empty body", ``, "no error detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorReason([]byte(tt.body)))
		})
	}
}
