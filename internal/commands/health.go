package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/client"
	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/tokens"
	"github.com/stark402/x402-cli/internal/x402"
)

var (
	healthTimeout int
	healthMethod  string
)

var healthCmd = &cobra.Command{
	Use:   "health <url>",
	Short: "Check if an endpoint is x402-enabled",
	Long: `Health check for x402-enabled endpoints. No wallet required.

Validates:
  - Endpoint is reachable
  - Returns 402 Payment Required
  - Has valid payment requirements
  - Uses a supported network
  - Uses known tokens

Examples:
  x402 health https://api.example.com/endpoint
  x402 health https://api.example.com/endpoint --json
  x402 health https://api.example.com/endpoint --verbose
  x402 health https://api.example.com/endpoint --method POST`,
	Args: cobra.ExactArgs(1),
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().IntVar(&healthTimeout, "timeout", 30, "Request timeout in seconds")
	healthCmd.Flags().StringVarP(&healthMethod, "method", "X", "GET", "HTTP method")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	endpoint, err := normalizeURL(args[0])
	if err != nil {
		return fmt.Errorf("normalizing endpoint URL: %w", err)
	}
	timeout := time.Duration(healthTimeout) * time.Second

	result := checkHealth(cmd.Context(), endpoint, timeout, healthMethod)

	if GetJSONOutput() {
		return output.PrintJSON(result)
	}

	output.PrintHealthResult(result, GetVerbose())

	if result.ExitCode != 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("health check failed")
	}

	return nil
}

func checkHealth(ctx context.Context, url string, timeout time.Duration, method string) *output.HealthResult {
	result := &output.HealthResult{
		URL:      url,
		Method:   method,
		Checks:   []output.Check{},
		ExitCode: exitOK,
	}

	// Create HTTP client
	httpClient := client.New(client.WithTimeout(timeout))

	// Make request and measure latency
	reqResult, err := httpClient.TimedRequest(ctx, method, url, nil, nil)
	if err != nil {
		result.Checks = append(result.Checks, output.Check{
			Name:    "Endpoint reachable",
			Status:  output.StatusFail,
			Message: fmt.Sprintf("Connection failed: %v", err),
		})
		result.Error = err.Error()
		result.ExitCode = exitNetwork
		return result
	}
	defer reqResult.Response.Body.Close()

	result.LatencyMs = reqResult.LatencyMs
	result.Status = reqResult.Response.StatusCode
	result.StatusText = reqResult.Response.Status

	// Check 1: Endpoint reachable
	result.Checks = append(result.Checks, output.Check{
		Name:    "Endpoint reachable",
		Status:  output.StatusPass,
		Message: fmt.Sprintf("Connected in %dms", result.LatencyMs),
	})

	// Check 2: Returns 402
	switch reqResult.Response.StatusCode {
	case http.StatusPaymentRequired:
		result.Checks = append(result.Checks, output.Check{
			Name:    "Returns 402",
			Status:  output.StatusPass,
			Message: "402 Payment Required",
		})
	case http.StatusOK:
		result.Checks = append(result.Checks, output.Check{
			Name:    "Returns 402",
			Status:  output.StatusWarn,
			Message: fmt.Sprintf("Got %d - endpoint may not require payment", reqResult.Response.StatusCode),
		})
		return result
	case http.StatusTooManyRequests:
		retryAfter := client.ParseRetryAfter(reqResult.Response)
		msg := "Rate limited (429)"
		if retryAfter > 0 {
			msg = fmt.Sprintf("Rate limited (429) - retry after %v", retryAfter)
		}
		result.Checks = append(result.Checks, output.Check{
			Name:    "Returns 402",
			Status:  output.StatusFail,
			Message: msg,
		})
		result.ExitCode = exitGeneric
		return result
	default:
		result.Checks = append(result.Checks, output.Check{
			Name:    "Returns 402",
			Status:  output.StatusFail,
			Message: fmt.Sprintf("Got %d instead of 402", reqResult.Response.StatusCode),
		})
		result.ExitCode = exitGeneric
		return result
	}

	// Check 3: Parse payment requirements
	parseResult, err := x402.ParsePaymentRequired(reqResult.Response)
	if err != nil {
		result.Checks = append(result.Checks, output.Check{
			Name:    "Valid payment body",
			Status:  output.StatusFail,
			Message: err.Error(),
		})
		result.ExitCode = exitProtocol
		return result
	}
	result.Checks = append(result.Checks, output.Check{
		Name:    "Valid payment body",
		Status:  output.StatusPass,
		Message: "Response body parsed as JSON successfully",
	})

	// Check 4: Has payment options
	result.Checks = append(result.Checks, output.Check{
		Name:    "Has payment options",
		Status:  output.StatusPass,
		Message: fmt.Sprintf("%d payment option(s) found", len(parseResult.PaymentRequired.Accepts)),
	})

	// Process payment options
	hasSupportedNetwork := false
	hasKnownToken := false

	for i, opt := range parseResult.PaymentRequired.Accepts {
		po := output.PaymentOptionDisplay{
			Index:   i + 1,
			Scheme:  opt.Scheme,
			Network: opt.Network,
			Amount:  opt.MaxAmountRequired,
			Asset:   opt.Asset,
			PayTo:   opt.PayTo,
		}

		if n, err := chain.ParseNetwork(opt.Network); err == nil {
			po.NetworkName = fmt.Sprintf("%s (%s)", n.Name(), opt.Network)
			po.Supported = true
			hasSupportedNetwork = true
		} else {
			po.NetworkName = opt.Network
		}

		// Look up token info
		if human, known := tokens.FormatAmountWithToken(opt.MaxAmountRequired, opt.Network, opt.Asset); known {
			po.AmountHuman = human
			hasKnownToken = true
		} else {
			po.AmountHuman = fmt.Sprintf("%s raw units", opt.MaxAmountRequired)
		}

		result.PaymentOptions = append(result.PaymentOptions, po)
	}

	// Check 5: Supported network
	if hasSupportedNetwork {
		result.Checks = append(result.Checks, output.Check{
			Name:    "Supported network",
			Status:  output.StatusPass,
			Message: "Starknet network option found",
		})
	} else {
		result.Checks = append(result.Checks, output.Check{
			Name:    "Supported network",
			Status:  output.StatusWarn,
			Message: "No supported network options found",
		})
	}

	// Check 6: Known token
	if hasKnownToken {
		result.Checks = append(result.Checks, output.Check{
			Name:    "Known token",
			Status:  output.StatusPass,
			Message: "Token recognized in registry",
		})
	} else {
		result.Checks = append(result.Checks, output.Check{
			Name:    "Known token",
			Status:  output.StatusWarn,
			Message: "Token not in registry (amount displayed as raw units)",
		})
	}

	return result
}
