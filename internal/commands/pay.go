package commands

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/NethermindEth/starknet.go/utils"
	"github.com/spf13/cobra"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/client"
	"github.com/stark402/x402-cli/internal/facilitator"
	"github.com/stark402/x402-cli/internal/flow"
	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/tokens"
	"github.com/stark402/x402-cli/internal/x402"
)

// Pay command flags
var (
	payNetwork              string
	payRPCURL               string
	payAccount              string
	payPrivateKey           string
	payFacilitatorURL       string
	payNoFacilitator        bool
	payMethod               string
	payData                 string
	payHeaders              []string
	payTimeout              int
	payAmount               string
	payMaxAmount            string
	payAutoApprove          bool
	paySpender              string
	payApprovalTimeout      int
	payDryRun               bool
	skipPaymentConfirmation bool
)

var payCmd = &cobra.Command{
	Use:   "pay <url>",
	Short: "Pay for and fetch an x402-gated resource",
	Long: `Run the full payment flow for an x402 endpoint.

This command:
  1. Makes an initial request to get payment requirements
  2. Optionally approves a token allowance for the settlement spender
  3. Signs the typed payment message with the account's stark-curve key
  4. Verifies and settles the payment through the facilitator
  5. Retries with the X-PAYMENT header and displays the result

Examples:
  # Pay with key from environment (STARKNET_ACCOUNT, STARKNET_PRIVATE_KEY)
  x402 pay https://api.example.com/endpoint

  # Explicit account and key
  x402 pay https://api.example.com/endpoint --account 0x... --private-key 0x...

  # Approve the allowance automatically before paying
  x402 pay https://api.example.com/endpoint --auto-approve --spender 0x...

  # Dry run (show payment details without paying)
  x402 pay https://api.example.com/endpoint --dry-run

  # Skip confirmation prompt (for scripting)
  x402 pay https://api.example.com/endpoint --skip-payment-confirmation

  # Cap the payment amount
  x402 pay https://api.example.com/endpoint --max-amount 0.05`,
	Args: cobra.ExactArgs(1),
	RunE: runPay,
}

func init() {
	payCmd.Flags().StringVar(&payNetwork, "network", "", "Network to pay on (sepolia, mainnet)")
	payCmd.Flags().StringVar(&payRPCURL, "rpc", "", "JSON-RPC endpoint (or STARKNET_RPC_URL env)")
	payCmd.Flags().StringVar(&payAccount, "account", "", "Account contract address (or STARKNET_ACCOUNT env)")
	payCmd.Flags().StringVar(&payPrivateKey, "private-key", "", "Hex private key (or STARKNET_PRIVATE_KEY env, or pipe to stdin)")
	payCmd.Flags().StringVar(&payFacilitatorURL, "facilitator", "", "Facilitator base URL (or X402_FACILITATOR_URL env)")
	payCmd.Flags().BoolVar(&payNoFacilitator, "no-facilitator", false, "Skip the facilitator verify/settle handshake")
	payCmd.Flags().StringVarP(&payMethod, "method", "X", "GET", "HTTP method")
	payCmd.Flags().StringVarP(&payData, "data", "d", "", "Request body data")
	payCmd.Flags().StringArrayVarP(&payHeaders, "header", "H", nil, "Custom headers (repeatable)")
	payCmd.Flags().IntVar(&payTimeout, "timeout", 30, "Request timeout in seconds")
	payCmd.Flags().StringVar(&payAmount, "amount", "", "Override payment amount in raw token units")
	payCmd.Flags().StringVar(&payMaxAmount, "max-amount", "", "Maximum payment amount (e.g., 0.05)")
	payCmd.Flags().BoolVar(&payAutoApprove, "auto-approve", false, "Approve the token allowance if insufficient")
	payCmd.Flags().StringVar(&paySpender, "spender", "", "Settlement spender contract for --auto-approve (or X402_SPENDER env)")
	payCmd.Flags().IntVar(&payApprovalTimeout, "approval-timeout", 120, "Approval inclusion timeout in seconds")
	payCmd.Flags().BoolVar(&payDryRun, "dry-run", false, "Show payment details without paying")
	payCmd.Flags().BoolVar(&skipPaymentConfirmation, "skip-payment-confirmation", false, "Skip payment confirmation prompt")

	rootCmd.AddCommand(payCmd)
}

func runPay(cmd *cobra.Command, args []string) error {
	endpoint, err := normalizeURL(args[0])
	if err != nil {
		return fmt.Errorf("normalizing endpoint URL: %w", err)
	}
	timeout := time.Duration(payTimeout) * time.Second

	httpClient := client.New(client.WithTimeout(timeout))
	headers := parseHeaderFlags(payHeaders)

	var body []byte
	if payData != "" {
		body = []byte(payData)
	}

	// Set up interrupt handler. Once the signed payment has left the
	// process the server may settle it regardless of what we do here.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	var paymentSent atomic.Bool

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr)
		if paymentSent.Load() {
			fmt.Fprintln(os.Stderr, "⚠ Warning: The signed payment was already sent.")
			fmt.Fprintln(os.Stderr, "  It may still settle. Check your wallet balance.")
		} else {
			fmt.Fprintln(os.Stderr, "Cancelled by user. No payment was made.")
		}
		os.Exit(1)
	}()

	// Step 1: preflight request to discover the payment requirements, so the
	// user can inspect and confirm before anything is signed.
	if GetVerbose() && !GetJSONOutput() {
		fmt.Fprintln(os.Stderr, "• Fetching payment requirements...")
	}

	reqResult, err := httpClient.TimedRequest(cmd.Context(), payMethod, endpoint, headers, body)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer reqResult.Response.Body.Close()

	if reqResult.Response.StatusCode != http.StatusPaymentRequired {
		return handleNonPaymentResponse(endpoint, reqResult.Response)
	}

	parseResult, err := x402.ParsePaymentRequired(reqResult.Response)
	if err != nil {
		return fmt.Errorf("failed to parse payment requirements: %w", err)
	}
	requirements := parseResult.FirstRequirement()
	if err := x402.ValidateRequirements(requirements); err != nil {
		return fmt.Errorf("invalid payment requirements: %w", err)
	}

	// Resolve the display amount, honoring --amount.
	rawAmount := requirements.MaxAmountRequired
	if payAmount != "" {
		if _, ok := new(big.Int).SetString(payAmount, 10); !ok {
			return fmt.Errorf("invalid --amount: %q is not a decimal integer", payAmount)
		}
		rawAmount = payAmount
	}

	amountHuman, tokenKnown := tokens.FormatAmountWithToken(rawAmount, requirements.Network, requirements.Asset)
	networkName := requirements.Network
	if n, err := chain.ParseNetwork(requirements.Network); err == nil {
		networkName = n.Name()
	}

	// Check --max-amount against the requested amount.
	if payMaxAmount != "" {
		if !tokenKnown {
			return fmt.Errorf("--max-amount requires a known token (asset %s is not in the registry)", requirements.Asset)
		}
		tokenInfo := tokens.GetTokenInfo(requirements.Network, requirements.Asset)
		maxRaw, err := tokens.ParseHumanAmount(payMaxAmount, tokenInfo.Decimals)
		if err != nil {
			return fmt.Errorf("invalid --max-amount: %w", err)
		}
		if tokens.CompareAmounts(rawAmount, maxRaw) > 0 {
			return fmt.Errorf("payment amount %s exceeds maximum %s %s", amountHuman, payMaxAmount, tokenInfo.Symbol)
		}
	}

	result := &output.PayResult{
		URL:        endpoint,
		Status:     reqResult.Response.StatusCode,
		StatusText: reqResult.Response.Status,
		PaymentOption: output.PaymentOptionDisplay{
			Index:       1,
			Scheme:      requirements.Scheme,
			Network:     requirements.Network,
			NetworkName: networkName,
			Amount:      rawAmount,
			AmountHuman: amountHuman,
			Asset:       requirements.Asset,
			PayTo:       requirements.PayTo,
			Supported:   true,
		},
		DryRun: payDryRun,
	}

	if !GetJSONOutput() {
		fmt.Println()
		fmt.Printf("  Payment:  %s → %s\n", amountHuman, tokens.FormatShortAddress(requirements.PayTo))
		fmt.Printf("  Network:  %s\n", networkName)
		if !tokenKnown {
			fmt.Println()
			output.PrintWarning("Unknown token - verify amount manually before proceeding")
		}
		fmt.Println()
	}

	if payDryRun {
		if GetJSONOutput() {
			return output.PrintJSON(result)
		}
		fmt.Println("(Dry run - no payment will be made)")
		return nil
	}

	// Step 2: resolve chain access and the signing account.
	if GetVerbose() && !GetJSONOutput() {
		fmt.Fprintln(os.Stderr, "• Loading wallet...")
	}

	setup, err := resolveChain(payNetwork, payRPCURL, payAccount, payPrivateKey, true)
	if err != nil {
		return err
	}

	if GetVerbose() && !GetJSONOutput() {
		fmt.Fprintf(os.Stderr, "  Account: %s\n", setup.AccountAddress)
	}

	// Confirmation prompt
	if !skipPaymentConfirmation && output.IsTTY() {
		if !output.PromptConfirm("Proceed with payment?") {
			fmt.Println("Cancelled by user. No payment was made.")
			return nil
		}
		fmt.Println()
	}

	// Step 3: build the flow options.
	opts := flow.Options{
		Network:         setup.Network,
		Provider:        setup.Provider,
		Account:         setup.Account,
		HTTP:            httpClient,
		AutoApprove:     payAutoApprove,
		Spender:         setup.Spender,
		ApprovalTimeout: time.Duration(payApprovalTimeout) * time.Second,
		Progress: func(step string) {
			if step == "Retrying with payment" {
				paymentSent.Store(true)
			}
			if GetVerbose() && !GetJSONOutput() {
				fmt.Fprintf(os.Stderr, "• %s...\n", step)
			}
		},
	}

	if payAmount != "" {
		amount, _ := new(big.Int).SetString(payAmount, 10)
		opts.AmountOverride = amount
	}

	if paySpender != "" {
		spender, err := utils.HexToFelt(paySpender)
		if err != nil {
			return fmt.Errorf("invalid --spender: %w", err)
		}
		opts.Spender = spender
	}

	if !payNoFacilitator {
		facilitatorURL := payFacilitatorURL
		if facilitatorURL == "" {
			facilitatorURL = setup.FacilitatorURL
		}
		opts.Facilitator = facilitator.New(facilitatorURL, facilitator.WithTimeout(timeout))
	}

	// Step 4: run the flow.
	flowResult, flowErr := flow.Execute(cmd.Context(), opts, flow.Request{
		Method:  payMethod,
		URL:     endpoint,
		Headers: headers,
		Body:    body,
	})

	if flowResult != nil {
		result.ApproveTxHash = flowResult.ApproveTxHash
		if result.ApproveTxHash != "" {
			result.ApproveTxURL = tokens.GetExplorerURL(requirements.Network, result.ApproveTxHash)
		}
		result.Settlement = flowResult.Settlement
		if result.Settlement != nil && result.Settlement.TxHash != "" {
			result.SettlementURL = tokens.GetExplorerURL(requirements.Network, result.Settlement.TxHash)
		}
		if flowResult.Response != nil {
			defer flowResult.Response.Body.Close()
			responseBody, _ := io.ReadAll(flowResult.Response.Body)
			result.ResponseBody = string(responseBody)
			result.Status = flowResult.Response.StatusCode
			result.StatusText = flowResult.Response.Status
		}
	}

	if flowErr != nil {
		result.ExitCode = exitCodeFor(flowErr)
		result.Error = flowErr.Error()

		if GetJSONOutput() {
			return output.PrintJSON(result)
		}
		output.PrintPayResult(result, GetVerbose())
		return flowErr
	}

	// The retried request got through the payment gate, but the server has
	// the last word on the resource itself.
	if flowResult.Response != nil && flowResult.Response.StatusCode != http.StatusOK {
		result.ExitCode = exitRejected
		result.Error = fmt.Sprintf("payment sent but server returned %s", flowResult.Response.Status)

		if GetJSONOutput() {
			return output.PrintJSON(result)
		}
		output.PrintPayResult(result, GetVerbose())
		return errors.New(result.Error)
	}

	if GetJSONOutput() {
		return output.PrintJSON(result)
	}

	if output.IsTTY() {
		output.PrintPayResult(result, GetVerbose())
	} else {
		// Pipe mode: response body to stdout, summary to stderr
		fmt.Print(result.ResponseBody)
		if result.Settlement != nil && result.Settlement.TxHash != "" {
			fmt.Fprintf(os.Stderr, "Transaction: %s\n", result.Settlement.TxHash)
			if result.SettlementURL != "" {
				fmt.Fprintf(os.Stderr, "View: %s\n", result.SettlementURL)
			}
		}
	}

	return nil
}

// handleNonPaymentResponse reports endpoints that answered the preflight with
// something other than a 402.
func handleNonPaymentResponse(endpoint string, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		if GetJSONOutput() {
			return output.PrintJSON(map[string]interface{}{
				"url":      endpoint,
				"status":   resp.StatusCode,
				"message":  "Endpoint does not require payment",
				"body":     string(bodyBytes),
				"exitCode": exitOK,
			})
		}
		fmt.Printf("Endpoint returned 200 OK (no payment required)\n")
		fmt.Printf("Response: %s\n", string(bodyBytes))
		return nil
	}
	return fmt.Errorf("expected 402 Payment Required, got %d", resp.StatusCode)
}
