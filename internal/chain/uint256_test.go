package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitUint256(t *testing.T) {
	tests := []struct {
		name     string
		value    *big.Int
		wantLow  string
		wantHigh string
	}{
		{"zero", big.NewInt(0), "0x0", "0x0"},
		{"small", big.NewInt(1000), "0x3e8", "0x0"},
		{"limb boundary", new(big.Int).Lsh(big.NewInt(1), 128), "0x0", "0x1"},
		{"both limbs", new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(5)), "0x5", "0x1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high, err := SplitUint256(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLow, low.String())
			assert.Equal(t, tt.wantHigh, high.String())
		})
	}
}

func TestSplitUint256_Rejects(t *testing.T) {
	_, _, err := SplitUint256(nil)
	assert.Error(t, err)

	_, _, err = SplitUint256(big.NewInt(-1))
	assert.Error(t, err)

	over := new(big.Int).Lsh(big.NewInt(1), 256)
	_, _, err = SplitUint256(over)
	assert.Error(t, err)
}

func TestUint256_RoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(1000000),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
		new(big.Int).Lsh(big.NewInt(1), 128),
		new(big.Int).Lsh(big.NewInt(1), 200),
	}

	for _, v := range values {
		low, high, err := SplitUint256(v)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Cmp(CombineUint256(low, high)), "round trip of %s", v)
	}
}
