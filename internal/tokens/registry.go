// Package tokens provides token metadata, amount formatting, and block
// explorer URLs for the supported Starknet networks.
package tokens

import (
	"strings"

	"github.com/stark402/x402-cli/internal/chain"
)

// TokenInfo contains metadata for a known token.
type TokenInfo struct {
	Symbol   string
	Decimals int
	Name     string
}

// knownTokens maps "network:asset" to token metadata. Keys are lowercase for
// case-insensitive lookup; asset addresses are the canonical zero-padded
// felt hex form.
var knownTokens = map[string]TokenInfo{
	// Starknet Mainnet
	"mainnet:0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d": {
		Symbol:   "STRK",
		Decimals: 18,
		Name:     "Starknet Token",
	},
	"mainnet:0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7": {
		Symbol:   "ETH",
		Decimals: 18,
		Name:     "Ether",
	},
	"mainnet:0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8": {
		Symbol:   "USDC",
		Decimals: 6,
		Name:     "USD Coin",
	},

	// Starknet Sepolia (STRK and ETH share mainnet addresses)
	"sepolia:0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d": {
		Symbol:   "STRK",
		Decimals: 18,
		Name:     "Starknet Token (Testnet)",
	},
	"sepolia:0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7": {
		Symbol:   "ETH",
		Decimals: 18,
		Name:     "Ether (Testnet)",
	},
	"sepolia:0x053b40a647cedfca6ca84f542a0fe36736031905a9639a7f19a3c1e66bfd5080": {
		Symbol:   "USDC",
		Decimals: 6,
		Name:     "USDC (Testnet)",
	},
}

// GetTokenInfo looks up token metadata by network and asset address.
// Returns nil if the token is not in the registry.
func GetTokenInfo(network, asset string) *TokenInfo {
	key := strings.ToLower(network + ":" + normalizeAddress(asset))
	if info, ok := knownTokens[key]; ok {
		return &info
	}
	return nil
}

// normalizeAddress zero-pads a 0x address to the 64-hex-digit canonical form
// so lookups survive leading-zero differences.
func normalizeAddress(addr string) string {
	hexPart := strings.TrimPrefix(strings.ToLower(addr), "0x")
	if len(hexPart) == 0 || len(hexPart) > 64 {
		return addr
	}
	return "0x" + strings.Repeat("0", 64-len(hexPart)) + hexPart
}

// FindTokenBySymbol resolves a token symbol (e.g. "STRK") to its contract
// address on the given network. Returns empty string when not found.
func FindTokenBySymbol(network, symbol string) string {
	prefix := strings.ToLower(network) + ":"
	symbol = strings.ToUpper(symbol)
	for key, info := range knownTokens {
		if strings.HasPrefix(key, prefix) && info.Symbol == symbol {
			return strings.TrimPrefix(key, prefix)
		}
	}
	return ""
}

// NetworkEntry is one row of the networks listing.
type NetworkEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ChainID     string `json:"chainId"`
	Explorer    string `json:"explorer"`
	Facilitator string `json:"facilitator"`
	IsTestnet   bool   `json:"isTestnet"`
	Tokens      string `json:"tokens"`
}

// ListNetworks returns display entries for all supported networks.
func ListNetworks() []NetworkEntry {
	entries := make([]NetworkEntry, 0, len(chain.Networks()))
	for _, n := range chain.Networks() {
		var symbols []string
		prefix := string(n) + ":"
		for key, info := range knownTokens {
			if strings.HasPrefix(key, prefix) {
				symbols = append(symbols, info.Symbol)
			}
		}
		entries = append(entries, NetworkEntry{
			ID:          string(n),
			Name:        n.Name(),
			ChainID:     n.ChainIDString(),
			Explorer:    n.ExplorerURL(),
			Facilitator: n.DefaultFacilitatorURL(),
			IsTestnet:   n.IsTestnet(),
			Tokens:      strings.Join(sortSymbols(symbols), ", "),
		})
	}
	return entries
}

// sortSymbols orders token symbols alphabetically for stable output.
func sortSymbols(symbols []string) []string {
	for i := 1; i < len(symbols); i++ {
		for j := i; j > 0 && symbols[j] < symbols[j-1]; j-- {
			symbols[j], symbols[j-1] = symbols[j-1], symbols[j]
		}
	}
	return symbols
}
