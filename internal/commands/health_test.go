package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/x402"
)

// createMock402Server returns a valid 402 challenge for every request.
func createMock402Server(t *testing.T, paymentReq *x402.PaymentRequiredResponse) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(paymentReq)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckHealth_Success(t *testing.T) {
	paymentReq := &x402.PaymentRequiredResponse{
		X402Version: 1,
		Accepts: []x402.PaymentRequirements{{
			Scheme:            "exact",
			Network:           "sepolia",
			MaxAmountRequired: "1000000",
			Asset:             "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
			PayTo:             "0x0123456789abcdef",
			MaxTimeoutSeconds: 300,
		}},
	}

	server := createMock402Server(t, paymentReq)

	result := checkHealth(context.Background(), server.URL, 30*time.Second, "GET")

	assert.Equal(t, exitOK, result.ExitCode)
	assert.Equal(t, http.StatusPaymentRequired, result.Status)
	require.Len(t, result.PaymentOptions, 1)
	assert.True(t, result.PaymentOptions[0].Supported)
	assert.Contains(t, result.PaymentOptions[0].AmountHuman, "ETH")

	for _, check := range result.Checks {
		assert.NotEqual(t, output.StatusFail, check.Status, "Check %s failed: %s", check.Name, check.Message)
	}
}

func TestCheckHealth_NoPaymentRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	t.Cleanup(server.Close)

	result := checkHealth(context.Background(), server.URL, 30*time.Second, "GET")

	// Not a failure, just a warning.
	assert.Equal(t, exitOK, result.ExitCode)

	var foundWarn bool
	for _, check := range result.Checks {
		if check.Name == "Returns 402" && check.Status == output.StatusWarn {
			foundWarn = true
		}
	}
	assert.True(t, foundWarn, "should warn about 200 response")
}

func TestCheckHealth_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	result := checkHealth(context.Background(), server.URL, 30*time.Second, "GET")

	assert.Equal(t, exitGeneric, result.ExitCode)
}

func TestCheckHealth_EmptyAccepts(t *testing.T) {
	server := createMock402Server(t, &x402.PaymentRequiredResponse{X402Version: 1})

	result := checkHealth(context.Background(), server.URL, 30*time.Second, "GET")

	assert.Equal(t, exitProtocol, result.ExitCode)

	var foundFail bool
	for _, check := range result.Checks {
		if check.Name == "Valid payment body" && check.Status == output.StatusFail {
			foundFail = true
		}
	}
	assert.True(t, foundFail)
}

func TestCheckHealth_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	result := checkHealth(context.Background(), server.URL, 5*time.Second, "GET")

	assert.Equal(t, exitNetwork, result.ExitCode)
	assert.NotEmpty(t, result.Error)
}

func TestCheckHealth_UnknownNetworkWarns(t *testing.T) {
	paymentReq := &x402.PaymentRequiredResponse{
		X402Version: 1,
		Accepts: []x402.PaymentRequirements{{
			Scheme:            "exact",
			Network:           "eip155:8453",
			MaxAmountRequired: "1000000",
			Asset:             "0x036cbd53842c5426634e7929541ec2318f3dcf7e",
			PayTo:             "0x0123456789abcdef",
		}},
	}

	server := createMock402Server(t, paymentReq)

	result := checkHealth(context.Background(), server.URL, 30*time.Second, "GET")

	assert.Equal(t, exitOK, result.ExitCode)
	require.Len(t, result.PaymentOptions, 1)
	assert.False(t, result.PaymentOptions[0].Supported)

	var foundWarn bool
	for _, check := range result.Checks {
		if check.Name == "Supported network" && check.Status == output.StatusWarn {
			foundWarn = true
		}
	}
	assert.True(t, foundWarn)
}
