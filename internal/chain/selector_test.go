package chain

import (
	"testing"

	"github.com/NethermindEth/starknet.go/utils"
	"github.com/stretchr/testify/assert"
)

func TestSelector_KnownEntrypoints(t *testing.T) {
	// Well-known selector values from deployed token contracts.
	tests := []struct {
		name     string
		expected string
	}{
		{"transfer", "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e"},
		{"approve", "0x219209e083275171774dab1df80982e9df2096516f06319c5c6d71ae0a8480c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Selector(tt.name).String())
		})
	}
}

func TestSelector_Deterministic(t *testing.T) {
	a := Selector("balance_of")
	b := Selector("balance_of")
	assert.True(t, a.Equal(b))
}

func TestSelector_FitsInField(t *testing.T) {
	// The 250-bit truncation guarantees the selector is a valid felt
	// regardless of the input name.
	names := []string{"transfer", "approve", "allowance", "balance_of", "a_very_long_entrypoint_name_that_hashes_high"}
	for _, name := range names {
		sel := Selector(name)
		assert.LessOrEqual(t, utils.FeltToBigInt(sel).BitLen(), 250, "selector for %q", name)
	}
}
