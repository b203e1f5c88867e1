package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sepoliaETH = "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

func TestGetTokenInfo(t *testing.T) {
	info := GetTokenInfo("sepolia", sepoliaETH)
	require.NotNil(t, info)
	assert.Equal(t, "ETH", info.Symbol)
	assert.Equal(t, 18, info.Decimals)
}

func TestGetTokenInfo_NormalizesLeadingZeros(t *testing.T) {
	// Same address without the leading zero after 0x.
	unpadded := "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"
	info := GetTokenInfo("sepolia", unpadded)
	require.NotNil(t, info)
	assert.Equal(t, "ETH", info.Symbol)
}

func TestGetTokenInfo_CaseInsensitive(t *testing.T) {
	upper := "0x049D36570D4E46F48E99674BD3FCC84644DDD6B96F7C741B1562B82F9E004DC7"
	info := GetTokenInfo("sepolia", upper)
	require.NotNil(t, info)
	assert.Equal(t, "ETH", info.Symbol)
}

func TestGetTokenInfo_Unknown(t *testing.T) {
	assert.Nil(t, GetTokenInfo("sepolia", "0xdeadbeef"))
	assert.Nil(t, GetTokenInfo("goerli", sepoliaETH))
}

func TestFindTokenBySymbol(t *testing.T) {
	addr := FindTokenBySymbol("sepolia", "ETH")
	assert.Equal(t, sepoliaETH, addr)

	// Symbol lookup is case-insensitive.
	assert.Equal(t, sepoliaETH, FindTokenBySymbol("sepolia", "eth"))

	assert.Empty(t, FindTokenBySymbol("sepolia", "DOGE"))
	assert.Empty(t, FindTokenBySymbol("goerli", "ETH"))
}

func TestListNetworks(t *testing.T) {
	entries := ListNetworks()
	require.Len(t, entries, 2)

	assert.Equal(t, "sepolia", entries[0].ID)
	assert.Equal(t, "SN_SEPOLIA", entries[0].ChainID)
	assert.True(t, entries[0].IsTestnet)
	assert.Contains(t, entries[0].Tokens, "STRK")
	assert.Contains(t, entries[0].Tokens, "USDC")

	assert.Equal(t, "mainnet", entries[1].ID)
	assert.False(t, entries[1].IsTestnet)
	assert.NotEmpty(t, entries[1].Facilitator)
}

func TestGetExplorerURL(t *testing.T) {
	assert.Equal(t,
		"https://sepolia.voyager.online/tx/0xabc",
		GetExplorerURL("sepolia", "0xabc"))
	assert.Equal(t,
		"https://voyager.online/contract/0x123",
		GetAddressExplorerURL("mainnet", "0x123"))
	assert.Empty(t, GetExplorerURL("goerli", "0xabc"))
	assert.Equal(t, "sepolia.voyager.online", GetExplorerHost("sepolia"))
}
