package tokens

import (
	"fmt"
	"strings"

	"github.com/stark402/x402-cli/internal/chain"
)

// GetExplorerURL returns the block explorer URL for a transaction.
// Returns empty string for an unknown network.
func GetExplorerURL(network, txHash string) string {
	n, err := chain.ParseNetwork(network)
	if err != nil {
		return ""
	}
	return n.ExplorerTxURL(txHash)
}

// GetAddressExplorerURL returns the block explorer URL for an address.
func GetAddressExplorerURL(network, address string) string {
	n, err := chain.ParseNetwork(network)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/contract/%s", n.ExplorerURL(), address)
}

// GetExplorerHost returns the explorer hostname for display.
func GetExplorerHost(network string) string {
	n, err := chain.ParseNetwork(network)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(n.ExplorerURL(), "https://")
}
