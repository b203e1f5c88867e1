package starknet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/curve"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	log "github.com/sirupsen/logrus"

	"github.com/stark402/x402-cli/internal/chain"
)

// receiptPollInterval is how often the inclusion wait polls the node.
const receiptPollInterval = 2 * time.Second

// feeMultiplier pads the estimated fee so transactions survive small
// gas-price moves between estimate and inclusion.
const feeMultiplier = 1.5

// Account implements chain.Account with a locally held stark-curve key.
type Account struct {
	acnt       *account.Account
	address    *felt.Felt
	privateKey *big.Int
}

// NewAccount wraps an account contract address and its signing key.
func NewAccount(provider *Provider, address *felt.Felt, privateKey *big.Int) (*Account, error) {
	pubX, _, err := curve.Curve.PrivateToPoint(privateKey)
	if err != nil {
		return nil, fmt.Errorf("deriving public key: %w", err)
	}
	pub := utils.BigIntToFelt(pubX).String()

	ks := account.NewMemKeystore()
	ks.Put(pub, privateKey)

	acnt, err := account.NewAccount(provider.inner(), address, pub, ks, 2)
	if err != nil {
		return nil, fmt.Errorf("initializing account %s: %w", address, err)
	}

	return &Account{acnt: acnt, address: address, privateKey: privateKey}, nil
}

// Address returns the account contract address.
func (a *Account) Address() *felt.Felt {
	return a.address
}

// SignTypedData signs the message hash bound to this account's address.
func (a *Account) SignTypedData(td chain.TypedData) (*chain.Signature, error) {
	hash := td.Hash(a.address)
	r, s, err := curve.Curve.Sign(utils.FeltToBigInt(hash), a.privateKey)
	if err != nil {
		return nil, fmt.Errorf("signing typed data: %w", err)
	}
	return &chain.Signature{
		R: utils.BigIntToFelt(r),
		S: utils.BigIntToFelt(s),
	}, nil
}

// Execute submits an invoke transaction for the given calls.
func (a *Account) Execute(ctx context.Context, calls []chain.Call) (*chain.InvokeResult, error) {
	fnCalls := make([]rpc.InvokeFunctionCall, len(calls))
	for i, c := range calls {
		fnCalls[i] = rpc.InvokeFunctionCall{
			ContractAddress: c.ContractAddress,
			FunctionName:    c.EntryPoint,
			CallData:        c.Calldata,
		}
	}

	resp, err := a.acnt.BuildAndSendInvokeTxn(ctx, fnCalls, feeMultiplier)
	if err != nil {
		return nil, fmt.Errorf("submitting invoke: %w", err)
	}

	log.WithField("tx_hash", resp.TransactionHash.String()).Debug("invoke submitted")
	return &chain.InvokeResult{TransactionHash: resp.TransactionHash}, nil
}

// WaitForTransaction blocks until the transaction is included or ctx is done.
func (a *Account) WaitForTransaction(ctx context.Context, txHash *felt.Felt) (*chain.Receipt, error) {
	receipt, err := a.acnt.WaitForTransactionReceipt(ctx, txHash, receiptPollInterval)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", txHash, err)
	}

	succeeded := receipt.ExecutionStatus == rpc.TxnExecutionStatusSUCCEEDED
	log.WithFields(log.Fields{
		"tx_hash":   txHash.String(),
		"succeeded": succeeded,
	}).Debug("transaction included")

	return &chain.Receipt{
		TransactionHash: txHash,
		Succeeded:       succeeded,
		RevertReason:    receipt.RevertReason,
	}, nil
}
