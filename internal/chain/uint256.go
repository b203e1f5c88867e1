package chain

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
)

// limbShift is 2^128, the boundary between the low and high limbs of a
// Cairo u256.
var limbShift = new(big.Int).Lsh(big.NewInt(1), 128)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// SplitUint256 splits an unsigned integer into the (low, high) 128-bit limbs
// Cairo contracts take as a u256 argument.
func SplitUint256(v *big.Int) (low, high *felt.Felt, err error) {
	if v == nil || v.Sign() < 0 {
		return nil, nil, fmt.Errorf("u256 value must be non-negative")
	}
	if v.Cmp(maxUint256) > 0 {
		return nil, nil, fmt.Errorf("value exceeds u256 range: %s", v)
	}
	l := new(big.Int).Mod(v, limbShift)
	h := new(big.Int).Div(v, limbShift)
	return utils.BigIntToFelt(l), utils.BigIntToFelt(h), nil
}

// CombineUint256 reassembles a u256 from its (low, high) limbs as returned
// by read-only contract calls.
func CombineUint256(low, high *felt.Felt) *big.Int {
	v := new(big.Int).Mul(utils.FeltToBigInt(high), limbShift)
	return v.Add(v, utils.FeltToBigInt(low))
}
