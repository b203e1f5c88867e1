// Package commands implements the CLI commands using Cobra.
package commands

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version information (set at build time via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Global flags
var (
	verbose    bool
	jsonOutput bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "x402",
	Short: "CLI for paying x402 payment-gated APIs on Starknet",
	Long: `x402 is a command-line client for APIs that use the x402 payment protocol.

The x402 protocol uses HTTP 402 (Payment Required) status codes with signed
off-chain payment authorizations to gate access to resources. Payments are
SNIP-12 typed messages signed with a stark-curve key and settled through a
facilitator service.

Commands:
  pay        Pay for and fetch an x402-gated resource
  health     Check if an endpoint is x402-enabled (no wallet needed)
  allowance  Read a token allowance
  approve    Raise a token allowance
  balance    Read a token balance
  networks   List supported networks
  version    Show version information

Examples:
  # Check if an endpoint requires payment
  x402 health https://api.example.com/endpoint

  # Pay for a resource
  x402 pay https://api.example.com/endpoint --account 0x... --private-key 0x...

  # Pay with automatic allowance approval
  x402 pay https://api.example.com/endpoint --auto-approve --spender 0x...`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}

// GetVerbose returns the verbose flag value.
func GetVerbose() bool {
	return verbose
}

// GetJSONOutput returns the json output flag value.
func GetJSONOutput() bool {
	return jsonOutput
}
