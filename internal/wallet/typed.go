// Package wallet builds and signs x402 payment authorizations.
package wallet

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/curve"

	"github.com/stark402/x402-cli/internal/chain"
)

// Typed-data domain constants. Every payment authorization is bound to this
// application name and version plus the network's chain id, so a signature
// can never be replayed in another context.
const (
	DomainName    = "x402 Payment"
	DomainVersion = "1"
)

// Type hashes are the sn_keccak of the encoded type strings, the felt
// analogue of EIP-712 type hashes.
var (
	messagePrefix   = chain.ShortString("StarkNet Message")
	domainTypeHash  = chain.Selector("StarkNetDomain(name:felt,version:felt,chainId:felt)")
	paymentTypeHash = chain.Selector("Payment(from:felt,to:felt,token:felt,amount:felt,nonce:felt,deadline:felt)")
)

// TypedPaymentMessage is a domain-separated payment intent: the signing input
// for one x402 payment. Ephemeral; never persisted.
type TypedPaymentMessage struct {
	ChainID *felt.Felt

	From     *felt.Felt
	To       *felt.Felt
	Token    *felt.Felt
	Amount   *felt.Felt
	Nonce    *felt.Felt
	Deadline *felt.Felt
}

// PaymentParams are the inputs to the typed message builder.
type PaymentParams struct {
	Network  chain.Network
	From     *felt.Felt
	To       *felt.Felt
	Token    *felt.Felt
	Amount   *felt.Felt
	Nonce    *felt.Felt
	Deadline *felt.Felt
}

// BuildTypedPayment constructs the typed message for a payment intent. Pure
// and deterministic: identical inputs always produce an identical message,
// which is what makes signatures reproducible under a pinned nonce and
// deadline. The caller must have resolved Network already; no validation
// happens here.
func BuildTypedPayment(p PaymentParams) *TypedPaymentMessage {
	return &TypedPaymentMessage{
		ChainID:  p.Network.ChainID(),
		From:     p.From,
		To:       p.To,
		Token:    p.Token,
		Amount:   p.Amount,
		Nonce:    p.Nonce,
		Deadline: p.Deadline,
	}
}

// domainHash hashes the StarkNetDomain struct.
func (m *TypedPaymentMessage) domainHash() *felt.Felt {
	return curve.PedersenArray(
		domainTypeHash,
		chain.ShortString(DomainName),
		chain.ShortString(DomainVersion),
		m.ChainID,
	)
}

// structHash hashes the Payment struct with its six ordered fields.
func (m *TypedPaymentMessage) structHash() *felt.Felt {
	return curve.PedersenArray(
		paymentTypeHash,
		m.From,
		m.To,
		m.Token,
		m.Amount,
		m.Nonce,
		m.Deadline,
	)
}

// Hash computes the final signable hash for the given account:
// pedersen("StarkNet Message", domainHash, account, structHash).
func (m *TypedPaymentMessage) Hash(account *felt.Felt) *felt.Felt {
	return curve.PedersenArray(
		messagePrefix,
		m.domainHash(),
		account,
		m.structHash(),
	)
}
