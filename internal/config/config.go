// Package config loads environment-sourced defaults for the CLI. Flags
// always win; these values fill the gaps.
package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds the environment-sourced defaults.
type Config struct {
	// Network selects the default network when --network is not given.
	Network string `env:"X402_NETWORK,default=sepolia"`

	// RPCURL overrides the network's default JSON-RPC endpoint.
	RPCURL string `env:"STARKNET_RPC_URL,default="`

	// AccountAddress is the signing account contract address.
	AccountAddress string `env:"STARKNET_ACCOUNT,default="`

	// PrivateKey is the signing key; flags and stdin take precedence.
	PrivateKey string `env:"STARKNET_PRIVATE_KEY,default="`

	// FacilitatorURL overrides the network's default facilitator.
	FacilitatorURL string `env:"X402_FACILITATOR_URL,default="`

	// Spender is the default spender for auto-approve.
	Spender string `env:"X402_SPENDER,default="`
}

// Load reads a .env file when present, then decodes the environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding environment config: %w", err)
	}
	return &cfg, nil
}
