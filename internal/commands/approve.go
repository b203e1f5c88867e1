package commands

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/NethermindEth/starknet.go/utils"
	"github.com/spf13/cobra"

	"github.com/stark402/x402-cli/internal/erc20"
	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/tokens"
)

var (
	approveNetwork    string
	approveRPCURL     string
	approveAccount    string
	approvePrivateKey string
	approveSpender    string
	approveAmount     string
	approveTimeout    int
	approveNoWait     bool
)

var approveCmd = &cobra.Command{
	Use:   "approve <token>",
	Short: "Raise a token allowance",
	Long: `Submit an ERC-20 approve transaction and wait for inclusion.

The token may be a contract address or a known symbol (STRK, ETH, USDC).
For known tokens --amount is in human units (e.g. 0.05); for unknown
tokens it must be in raw units.

Examples:
  x402 approve STRK --spender 0x... --amount 10
  x402 approve 0x049d36... --spender 0x... --amount 50000000000000000
  x402 approve STRK --spender 0x... --amount 10 --no-wait`,
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

func init() {
	approveCmd.Flags().StringVar(&approveNetwork, "network", "", "Network to use (sepolia, mainnet)")
	approveCmd.Flags().StringVar(&approveRPCURL, "rpc", "", "JSON-RPC endpoint (or STARKNET_RPC_URL env)")
	approveCmd.Flags().StringVar(&approveAccount, "account", "", "Account contract address (or STARKNET_ACCOUNT env)")
	approveCmd.Flags().StringVar(&approvePrivateKey, "private-key", "", "Hex private key (or STARKNET_PRIVATE_KEY env, or pipe to stdin)")
	approveCmd.Flags().StringVar(&approveSpender, "spender", "", "Spender address (or X402_SPENDER env)")
	approveCmd.Flags().StringVar(&approveAmount, "amount", "", "Amount to approve (required)")
	approveCmd.Flags().IntVar(&approveTimeout, "timeout", 120, "Inclusion wait timeout in seconds")
	approveCmd.Flags().BoolVar(&approveNoWait, "no-wait", false, "Return after submission without waiting for inclusion")
	approveCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, args []string) error {
	setup, err := resolveChain(approveNetwork, approveRPCURL, approveAccount, approvePrivateKey, true)
	if err != nil {
		return err
	}

	token, tokenAddr, err := resolveToken(setup.Network, args[0])
	if err != nil {
		return err
	}

	spender := setup.Spender
	if approveSpender != "" {
		spender, err = utils.HexToFelt(approveSpender)
		if err != nil {
			return fmt.Errorf("invalid --spender: %w", err)
		}
	}
	if spender == nil {
		return fmt.Errorf("no spender address provided (use --spender or X402_SPENDER env)")
	}

	amount, err := parseApproveAmount(string(setup.Network), tokenAddr, approveAmount)
	if err != nil {
		return err
	}

	if GetVerbose() && !GetJSONOutput() {
		fmt.Fprintln(os.Stderr, "• Submitting approve transaction...")
	}

	txHash, err := erc20.Approve(cmd.Context(), setup.Account, token, spender, amount)
	if err != nil {
		return err
	}

	txURL := tokens.GetExplorerURL(string(setup.Network), txHash.String())

	if approveNoWait {
		if GetJSONOutput() {
			return output.PrintJSON(map[string]interface{}{
				"txHash":   txHash.String(),
				"txUrl":    txURL,
				"included": false,
			})
		}
		fmt.Printf("✓ Approve submitted\n")
		fmt.Printf("  TxHash: %s\n", txHash)
		fmt.Printf("  View:   %s\n", txURL)
		return nil
	}

	if GetVerbose() && !GetJSONOutput() {
		fmt.Fprintln(os.Stderr, "• Waiting for inclusion...")
	}

	waitCtx, cancel := context.WithTimeout(cmd.Context(), time.Duration(approveTimeout)*time.Second)
	defer cancel()

	receipt, err := setup.Account.WaitForTransaction(waitCtx, txHash)
	if err != nil {
		return fmt.Errorf("approve submitted as %s but inclusion wait failed: %w", txHash, err)
	}
	if !receipt.Succeeded {
		return fmt.Errorf("approve transaction %s reverted: %s", txHash, receipt.RevertReason)
	}

	human, _ := tokens.FormatAmountWithToken(amount.String(), string(setup.Network), tokenAddr)

	if GetJSONOutput() {
		return output.PrintJSON(map[string]interface{}{
			"txHash":   txHash.String(),
			"txUrl":    txURL,
			"amount":   amount.String(),
			"human":    human,
			"included": true,
		})
	}

	fmt.Printf("✓ Approved %s\n", human)
	fmt.Printf("  Spender: %s\n", tokens.FormatShortAddress(spender.String()))
	fmt.Printf("  TxHash:  %s\n", txHash)
	fmt.Printf("  View:    %s\n", txURL)
	return nil
}

// parseApproveAmount parses --amount as human units for known tokens and raw
// units otherwise.
func parseApproveAmount(network, tokenAddr, amountStr string) (*big.Int, error) {
	if info := tokens.GetTokenInfo(network, tokenAddr); info != nil {
		raw, err := tokens.ParseHumanAmount(amountStr, info.Decimals)
		if err != nil {
			return nil, fmt.Errorf("invalid --amount: %w", err)
		}
		amount, _ := new(big.Int).SetString(raw, 10)
		return amount, nil
	}

	if strings.Contains(amountStr, ".") {
		return nil, fmt.Errorf("token not in registry; --amount must be in raw units")
	}
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid --amount: %q is not a decimal integer", amountStr)
	}
	return amount, nil
}
