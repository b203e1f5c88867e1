package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stark402/x402-cli/internal/erc20"
	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/tokens"
)

var (
	balanceNetwork string
	balanceRPCURL  string
	balanceAddress string
)

var balanceCmd = &cobra.Command{
	Use:   "balance <token>",
	Short: "Read a token balance",
	Long: `Read the ERC-20 balance of an address.

The token may be a contract address or a known symbol (STRK, ETH, USDC).
The address defaults to the configured account address.

Examples:
  x402 balance STRK
  x402 balance USDC --address 0x...
  x402 balance 0x049d36... --network mainnet`,
	Args: cobra.ExactArgs(1),
	RunE: runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceNetwork, "network", "", "Network to query (sepolia, mainnet)")
	balanceCmd.Flags().StringVar(&balanceRPCURL, "rpc", "", "JSON-RPC endpoint (or STARKNET_RPC_URL env)")
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Address to query (default: configured account)")
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	setup, err := resolveChain(balanceNetwork, balanceRPCURL, balanceAddress, "", false)
	if err != nil {
		return err
	}

	token, tokenAddr, err := resolveToken(setup.Network, args[0])
	if err != nil {
		return err
	}

	owner := setup.AccountAddress
	if owner == nil {
		return fmt.Errorf("no address provided (use --address or STARKNET_ACCOUNT env)")
	}

	balance, err := erc20.BalanceOf(cmd.Context(), setup.Provider, token, owner)
	if err != nil {
		return err
	}

	raw := balance.String()
	human, _ := tokens.FormatAmountWithToken(raw, string(setup.Network), tokenAddr)

	if GetJSONOutput() {
		return output.PrintJSON(map[string]interface{}{
			"network": string(setup.Network),
			"token":   tokenAddr,
			"address": owner.String(),
			"balance": raw,
			"human":   human,
		})
	}

	fmt.Printf("Balance: %s\n", human)
	fmt.Printf("  Token:   %s\n", tokens.FormatShortAddress(tokenAddr))
	fmt.Printf("  Address: %s\n", tokens.FormatShortAddress(owner.String()))
	return nil
}
