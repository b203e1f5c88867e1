package chain

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
)

// Call describes one contract invocation, for reads and writes alike.
// The entrypoint is given by name; adapters derive the selector.
type Call struct {
	ContractAddress *felt.Felt
	EntryPoint      string
	Calldata        []*felt.Felt
}

// CallResult is the normalized result of a read-only contract call. Adapters
// translate whatever their client library returns into this one shape so the
// rest of the code never touches client-specific types.
type CallResult struct {
	Values []*felt.Felt
}

// InvokeResult is the normalized result of a submitted transaction.
type InvokeResult struct {
	TransactionHash *felt.Felt
}

// Receipt is the normalized inclusion result for a transaction.
type Receipt struct {
	TransactionHash *felt.Felt
	Succeeded       bool
	RevertReason    string
}

// Signature is a stark-curve signature over a typed-data hash.
type Signature struct {
	R *felt.Felt
	S *felt.Felt
}

// TypedData is a domain-separated message that can be hashed for a specific
// signing account.
type TypedData interface {
	Hash(account *felt.Felt) *felt.Felt
}

// Provider is the read-only chain boundary.
type Provider interface {
	// CallContract executes a read-only call against the latest state.
	CallContract(ctx context.Context, call Call) (*CallResult, error)
}

// Account is the signing and writing chain boundary. Implementations wrap an
// account contract plus its signing key; the payment core depends only on
// these operations.
type Account interface {
	// Address returns the account contract address.
	Address() *felt.Felt

	// SignTypedData signs the hash of a domain-separated message.
	SignTypedData(td TypedData) (*Signature, error)

	// Execute submits an invoke transaction for the given calls.
	Execute(ctx context.Context, calls []Call) (*InvokeResult, error)

	// WaitForTransaction blocks until the transaction is included or the
	// context is done.
	WaitForTransaction(ctx context.Context, txHash *felt.Felt) (*Receipt, error)
}
