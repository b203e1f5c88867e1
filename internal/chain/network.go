// Package chain defines the boundary to the Starknet chain client: the
// network constants table, entrypoint selectors, u256 limb handling, and the
// Provider/Account interfaces the payment core depends on.
package chain

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
)

// Network identifies a supported Starknet network.
type Network string

const (
	// Sepolia is the Starknet Sepolia testnet.
	Sepolia Network = "sepolia"
	// Mainnet is the Starknet mainnet.
	Mainnet Network = "mainnet"
)

// networkParams holds the chain-specific constants for one network.
// Every value the payment flow needs per network lives here, not in
// scattered string literals.
type networkParams struct {
	Name           string
	ChainID        string // short-string chain id, e.g. "SN_SEPOLIA"
	RPCURL         string
	FacilitatorURL string
	ExplorerURL    string
	IsTestnet      bool
}

var networkTable = map[Network]networkParams{
	Sepolia: {
		Name:           "Starknet Sepolia",
		ChainID:        "SN_SEPOLIA",
		RPCURL:         "https://free-rpc.nethermind.io/sepolia-juno",
		FacilitatorURL: "https://facilitator-sepolia.stark402.dev",
		ExplorerURL:    "https://sepolia.voyager.online",
		IsTestnet:      true,
	},
	Mainnet: {
		Name:           "Starknet Mainnet",
		ChainID:        "SN_MAIN",
		RPCURL:         "https://free-rpc.nethermind.io/mainnet-juno",
		FacilitatorURL: "https://facilitator.stark402.dev",
		ExplorerURL:    "https://voyager.online",
		IsTestnet:      false,
	},
}

// Networks returns all supported networks in display order.
func Networks() []Network {
	return []Network{Sepolia, Mainnet}
}

// ParseNetwork resolves a network string, failing closed on anything
// outside the table.
func ParseNetwork(s string) (Network, error) {
	n := Network(s)
	if _, ok := networkTable[n]; !ok {
		return "", fmt.Errorf("unknown network: %q (supported: sepolia, mainnet)", s)
	}
	return n, nil
}

// Name returns the human-readable network name.
func (n Network) Name() string {
	return networkTable[n].Name
}

// ChainID returns the short-string-encoded chain identifier felt used in the
// typed-data domain.
func (n Network) ChainID() *felt.Felt {
	return ShortString(networkTable[n].ChainID)
}

// ChainIDString returns the raw chain id short string (e.g. "SN_SEPOLIA").
func (n Network) ChainIDString() string {
	return networkTable[n].ChainID
}

// DefaultRPCURL returns the default JSON-RPC endpoint for the network.
func (n Network) DefaultRPCURL() string {
	return networkTable[n].RPCURL
}

// DefaultFacilitatorURL returns the default facilitator base URL.
func (n Network) DefaultFacilitatorURL() string {
	return networkTable[n].FacilitatorURL
}

// ExplorerURL returns the block explorer base URL.
func (n Network) ExplorerURL() string {
	return networkTable[n].ExplorerURL
}

// ExplorerTxURL returns the block explorer URL for a transaction hash.
func (n Network) ExplorerTxURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", networkTable[n].ExplorerURL, txHash)
}

// IsTestnet reports whether the network is a testnet.
func (n Network) IsTestnet() bool {
	return networkTable[n].IsTestnet
}

// ShortString encodes an ASCII string of at most 31 characters as a felt,
// big-endian, the Cairo short-string convention.
func ShortString(s string) *felt.Felt {
	if len(s) > 31 {
		s = s[:31]
	}
	return new(felt.Felt).SetBytes([]byte(s))
}
