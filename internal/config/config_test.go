package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("X402_NETWORK", "")
	t.Setenv("STARKNET_RPC_URL", "")
	t.Setenv("STARKNET_ACCOUNT", "")
	t.Setenv("STARKNET_PRIVATE_KEY", "")
	t.Setenv("X402_FACILITATOR_URL", "")
	t.Setenv("X402_SPENDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sepolia", cfg.Network)
	assert.Empty(t, cfg.RPCURL)
	assert.Empty(t, cfg.AccountAddress)
	assert.Empty(t, cfg.FacilitatorURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("X402_NETWORK", "mainnet")
	t.Setenv("STARKNET_RPC_URL", "https://rpc.example.com")
	t.Setenv("STARKNET_ACCOUNT", "0x111")
	t.Setenv("X402_FACILITATOR_URL", "https://facilitator.example.com")
	t.Setenv("X402_SPENDER", "0x555")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "https://rpc.example.com", cfg.RPCURL)
	assert.Equal(t, "0x111", cfg.AccountAddress)
	assert.Equal(t, "https://facilitator.example.com", cfg.FacilitatorURL)
	assert.Equal(t, "0x555", cfg.Spender)
}
