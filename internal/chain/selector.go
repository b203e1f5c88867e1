package chain

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/ethereum/go-ethereum/crypto"
)

// felt250Mask keeps the low 250 bits of a keccak256 digest, the sn_keccak
// truncation that makes the result a valid field element.
var felt250Mask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// Selector computes the Starknet entrypoint selector for a name:
// keccak256(name) truncated to 250 bits.
func Selector(name string) *felt.Felt {
	digest := crypto.Keccak256([]byte(name))
	v := new(big.Int).SetBytes(digest)
	v.And(v, felt250Mask)
	return utils.BigIntToFelt(v)
}
