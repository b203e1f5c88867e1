package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/tokens"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List supported networks",
	Long: `List all supported Starknet networks with their chain identifiers,
tokens, facilitators, and block explorer URLs.

Examples:
  x402 networks
  x402 networks --json`,
	Args: cobra.NoArgs,
	RunE: runNetworks,
}

func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(cmd *cobra.Command, args []string) error {
	entries := tokens.ListNetworks()

	if GetJSONOutput() {
		return output.PrintJSON(entries)
	}

	fmt.Println("Supported Networks")
	fmt.Println()

	for _, e := range entries {
		explorer := tokens.GetExplorerHost(e.ID)
		testnet := ""
		if e.IsTestnet {
			testnet = "  (testnet)"
		}

		tokenStr := e.Tokens
		if tokenStr == "" {
			tokenStr = "-"
		}

		fmt.Printf("  %-18s %-12s %-16s %s%s\n", e.Name, e.ChainID, tokenStr, explorer, testnet)
		if GetVerbose() {
			fmt.Printf("    %-16s %s\n", "facilitator:", e.Facilitator)
		}
	}

	fmt.Println()
	return nil
}
