// Package erc20 wraps the fungible-token contract operations the payment
// flow needs: allowance reads, exact-amount approvals, and balance reads.
package erc20

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	log "github.com/sirupsen/logrus"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/x402"
)

// Token contract entrypoints.
const (
	entrypointAllowance = "allowance"
	entrypointApprove   = "approve"
	entrypointBalanceOf = "balance_of"
)

// Allowance reads the current spending authorization owner has granted
// spender on the token contract. The contract returns a u256 as two 128-bit
// limbs.
func Allowance(ctx context.Context, provider chain.Provider, token, owner, spender *felt.Felt) (*big.Int, error) {
	res, err := provider.CallContract(ctx, chain.Call{
		ContractAddress: token,
		EntryPoint:      entrypointAllowance,
		Calldata:        []*felt.Felt{owner, spender},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", x402.ErrChainRejected, err)
	}
	if len(res.Values) < 2 {
		return nil, fmt.Errorf("%w: allowance returned %d values, want 2 limbs", x402.ErrChainRejected, len(res.Values))
	}
	return chain.CombineUint256(res.Values[0], res.Values[1]), nil
}

// BalanceOf reads the token balance of an address.
func BalanceOf(ctx context.Context, provider chain.Provider, token, owner *felt.Felt) (*big.Int, error) {
	res, err := provider.CallContract(ctx, chain.Call{
		ContractAddress: token,
		EntryPoint:      entrypointBalanceOf,
		Calldata:        []*felt.Felt{owner},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", x402.ErrChainRejected, err)
	}
	if len(res.Values) < 2 {
		return nil, fmt.Errorf("%w: balance_of returned %d values, want 2 limbs", x402.ErrChainRejected, len(res.Values))
	}
	return chain.CombineUint256(res.Values[0], res.Values[1]), nil
}

// Approve submits a transaction authorizing spender to move exactly amount
// of the token. Exact-amount on purpose: a compromised spender can never
// move more than one payment's worth. Returns the transaction hash; the
// caller decides how long to wait for inclusion.
func Approve(ctx context.Context, account chain.Account, token, spender *felt.Felt, amount *big.Int) (*felt.Felt, error) {
	low, high, err := chain.SplitUint256(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid approval amount: %w", err)
	}

	log.WithFields(log.Fields{
		"token":   token.String(),
		"spender": spender.String(),
		"amount":  amount.String(),
	}).Debug("submitting approval")

	result, err := account.Execute(ctx, []chain.Call{{
		ContractAddress: token,
		EntryPoint:      entrypointApprove,
		Calldata:        []*felt.Felt{spender, low, high},
	}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", x402.ErrChainRejected, err)
	}
	return result.TransactionHash, nil
}
