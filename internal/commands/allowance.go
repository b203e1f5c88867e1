package commands

import (
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/spf13/cobra"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/erc20"
	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/tokens"
)

var (
	allowanceNetwork string
	allowanceRPCURL  string
	allowanceOwner   string
	allowanceSpender string
)

var allowanceCmd = &cobra.Command{
	Use:   "allowance <token>",
	Short: "Read a token allowance",
	Long: `Read the current ERC-20 allowance granted by an owner to a spender.

The token may be a contract address or a known symbol (STRK, ETH, USDC).
The owner defaults to the configured account address.

Examples:
  x402 allowance STRK --spender 0x...
  x402 allowance 0x049d36... --owner 0x... --spender 0x...`,
	Args: cobra.ExactArgs(1),
	RunE: runAllowance,
}

func init() {
	allowanceCmd.Flags().StringVar(&allowanceNetwork, "network", "", "Network to query (sepolia, mainnet)")
	allowanceCmd.Flags().StringVar(&allowanceRPCURL, "rpc", "", "JSON-RPC endpoint (or STARKNET_RPC_URL env)")
	allowanceCmd.Flags().StringVar(&allowanceOwner, "owner", "", "Owner address (default: configured account)")
	allowanceCmd.Flags().StringVar(&allowanceSpender, "spender", "", "Spender address (or X402_SPENDER env)")
	rootCmd.AddCommand(allowanceCmd)
}

func runAllowance(cmd *cobra.Command, args []string) error {
	setup, err := resolveChain(allowanceNetwork, allowanceRPCURL, allowanceOwner, "", false)
	if err != nil {
		return err
	}

	token, tokenAddr, err := resolveToken(setup.Network, args[0])
	if err != nil {
		return err
	}

	owner := setup.AccountAddress
	if owner == nil {
		return fmt.Errorf("no owner address provided (use --owner or STARKNET_ACCOUNT env)")
	}

	spender := setup.Spender
	if allowanceSpender != "" {
		spender, err = utils.HexToFelt(allowanceSpender)
		if err != nil {
			return fmt.Errorf("invalid --spender: %w", err)
		}
	}
	if spender == nil {
		return fmt.Errorf("no spender address provided (use --spender or X402_SPENDER env)")
	}

	allowance, err := erc20.Allowance(cmd.Context(), setup.Provider, token, owner, spender)
	if err != nil {
		return err
	}

	raw := allowance.String()
	human, _ := tokens.FormatAmountWithToken(raw, string(setup.Network), tokenAddr)

	if GetJSONOutput() {
		return output.PrintJSON(map[string]interface{}{
			"network":   string(setup.Network),
			"token":     tokenAddr,
			"owner":     owner.String(),
			"spender":   spender.String(),
			"allowance": raw,
			"human":     human,
		})
	}

	fmt.Printf("Allowance: %s\n", human)
	fmt.Printf("  Token:   %s\n", tokens.FormatShortAddress(tokenAddr))
	fmt.Printf("  Owner:   %s\n", tokens.FormatShortAddress(owner.String()))
	fmt.Printf("  Spender: %s\n", tokens.FormatShortAddress(spender.String()))
	return nil
}

// resolveToken turns a token argument (address or known symbol) into a felt
// and its canonical hex address on the given network.
func resolveToken(network chain.Network, arg string) (*felt.Felt, string, error) {
	addr := arg
	if !strings.HasPrefix(strings.ToLower(arg), "0x") {
		addr = tokens.FindTokenBySymbol(string(network), arg)
		if addr == "" {
			return nil, "", fmt.Errorf("unknown token %q on %s (use a contract address)", arg, network)
		}
	}
	token, err := utils.HexToFelt(addr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid token address %q: %w", addr, err)
	}
	return token, addr, nil
}
