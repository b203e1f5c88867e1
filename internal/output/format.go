package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/stark402/x402-cli/internal/x402"
)

// CheckStatus represents the result of a validation check.
type CheckStatus string

const (
	StatusPass CheckStatus = "pass"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
)

// Check represents a single validation check result.
type Check struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
}

// PaymentOptionDisplay contains formatted payment option info for display.
type PaymentOptionDisplay struct {
	Index       int    `json:"index"`
	Scheme      string `json:"scheme"`
	Network     string `json:"network"`
	NetworkName string `json:"networkName"`
	Amount      string `json:"amount"`
	AmountHuman string `json:"amountHuman"`
	Asset       string `json:"asset"`
	PayTo       string `json:"payTo"`
	Supported   bool   `json:"supported"`
}

// HealthResult contains the complete health check result.
type HealthResult struct {
	URL            string                 `json:"url"`
	Method         string                 `json:"method"`
	Status         int                    `json:"status"`
	StatusText     string                 `json:"statusText"`
	LatencyMs      int64                  `json:"latencyMs"`
	PaymentOptions []PaymentOptionDisplay `json:"paymentOptions,omitempty"`
	Checks         []Check                `json:"checks"`
	ExitCode       int                    `json:"exitCode"`
	Error          string                 `json:"error,omitempty"`
}

// PayResult contains the complete payment flow result.
type PayResult struct {
	URL            string                 `json:"url"`
	Status         int                    `json:"status"`
	StatusText     string                 `json:"statusText"`
	PaymentOption  PaymentOptionDisplay   `json:"paymentOption"`
	ApproveTxHash  string                 `json:"approveTxHash,omitempty"`
	ApproveTxURL   string                 `json:"approveTxUrl,omitempty"`
	Settlement     *x402.SettlementResult `json:"settlement,omitempty"`
	SettlementURL  string                 `json:"settlementUrl,omitempty"`
	ResponseBody   string                 `json:"responseBody,omitempty"`
	DryRun         bool                   `json:"dryRun,omitempty"`
	ExitCode       int                    `json:"exitCode"`
	Error          string                 `json:"error,omitempty"`
}

// PrintHealthResult outputs the health check result in human-readable format.
func PrintHealthResult(result *HealthResult, verbose bool) {
	failCount, warnCount := countChecks(result.Checks)

	if failCount > 0 {
		fmt.Printf("✗ %s\n", result.URL)
	} else if warnCount > 0 {
		fmt.Printf("⚠ %s\n", result.URL)
	} else {
		fmt.Printf("✓ %s\n", result.URL)
	}

	fmt.Println()
	if result.Status > 0 {
		fmt.Printf("  Status:   %s\n", result.StatusText)
	}
	fmt.Printf("  Latency:  %dms\n", result.LatencyMs)

	// Payment - consolidated single line
	if len(result.PaymentOptions) > 0 {
		opt := result.PaymentOptions[0]
		fmt.Printf("  Payment:  %s on %s\n", opt.AmountHuman, opt.NetworkName)

		if verbose && len(result.PaymentOptions) > 1 {
			for i, opt := range result.PaymentOptions[1:] {
				fmt.Printf("            [%d] %s on %s\n", i+2, opt.AmountHuman, opt.NetworkName)
			}
		}
	}

	fmt.Println()
	fmt.Println("  Checks:")
	for _, check := range result.Checks {
		icon := statusIcon(check.Status)
		fmt.Printf("    %s %s\n", icon, check.Name)
		if check.Status != StatusPass {
			fmt.Printf("      %s\n", check.Message)
		}
	}

	if failCount > 0 {
		fmt.Println()
		fmt.Printf("Error: endpoint is not x402-enabled\n")
	}
}

// PrintPayResult outputs the payment flow result in human-readable format.
func PrintPayResult(result *PayResult, verbose bool) {
	if result.Error != "" {
		fmt.Println("✗ Payment failed")
	} else if result.DryRun {
		fmt.Println("• Dry run complete")
	} else {
		fmt.Println("✓ Payment successful")
	}

	fmt.Println()
	fmt.Printf("  URL:      %s\n", result.URL)
	if result.StatusText != "" {
		fmt.Printf("  Status:   %s\n", result.StatusText)
	}
	fmt.Printf("  Payment:  %s on %s\n", result.PaymentOption.AmountHuman, result.PaymentOption.NetworkName)

	if result.ApproveTxHash != "" {
		fmt.Printf("  Approve:  %s\n", result.ApproveTxHash)
		if result.ApproveTxURL != "" {
			fmt.Printf("            %s\n", result.ApproveTxURL)
		}
	}

	if result.Settlement != nil && result.Settlement.TxHash != "" {
		fmt.Printf("  TxHash:   %s\n", result.Settlement.TxHash)
		if result.SettlementURL != "" {
			fmt.Printf("  View:     %s\n", result.SettlementURL)
		}
	}

	if result.ResponseBody != "" && !result.DryRun && result.Error == "" {
		fmt.Println()
		fmt.Println("Response:")
		fmt.Println(formatResponseBody(result.ResponseBody))
	}

	if result.DryRun {
		fmt.Println()
		fmt.Println("No payment was made (dry run)")
	}

	if result.Error != "" {
		fmt.Println()
		fmt.Printf("Error: %s\n", result.Error)
		if result.ApproveTxHash != "" {
			fmt.Println("Note:  an allowance approval was already submitted (see Approve above)")
		}
	}
}

// PrintError outputs an error message to stderr.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// PrintWarning outputs a warning message to stderr.
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// PromptConfirm prompts the user for yes/no confirmation.
// Returns true if user enters y/Y/yes.
func PromptConfirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)

	var response string
	fmt.Scanln(&response)

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Helper functions

func statusIcon(status CheckStatus) string {
	switch status {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

func countChecks(checks []Check) (failCount, warnCount int) {
	for _, check := range checks {
		switch check.Status {
		case StatusFail:
			failCount++
		case StatusWarn:
			warnCount++
		}
	}
	return
}

// maxPrettyPrintSize is the maximum response size (in bytes) to pretty-print.
// Larger responses are returned raw to avoid terminal lag.
const maxPrettyPrintSize = 50 * 1024 // 50KB

// formatResponseBody pretty-prints JSON when outputting to a terminal,
// otherwise returns the raw body for piping to other tools.
func formatResponseBody(body string) string {
	if !IsTTY() || len(body) > maxPrettyPrintSize {
		return body
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(body), "", "  "); err != nil {
		return body
	}
	return pretty.String()
}
