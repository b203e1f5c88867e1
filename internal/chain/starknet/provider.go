// Package starknet binds the chain boundary interfaces to a live Starknet
// node via starknet.go. This is the only package that touches the RPC client
// types; everything above it sees the normalized chain package shapes.
package starknet

import (
	"context"
	"fmt"

	"github.com/NethermindEth/starknet.go/rpc"
	log "github.com/sirupsen/logrus"

	"github.com/stark402/x402-cli/internal/chain"
)

// Provider implements chain.Provider over Starknet JSON-RPC.
type Provider struct {
	rpc *rpc.Provider
	url string
}

// NewProvider connects to a Starknet JSON-RPC endpoint.
func NewProvider(url string) (*Provider, error) {
	p, err := rpc.NewProvider(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return &Provider{rpc: p, url: url}, nil
}

// CallContract executes a read-only call against the latest state.
func (p *Provider) CallContract(ctx context.Context, call chain.Call) (*chain.CallResult, error) {
	log.WithFields(log.Fields{
		"contract":   call.ContractAddress.String(),
		"entrypoint": call.EntryPoint,
	}).Debug("calling contract")

	res, err := p.rpc.Call(ctx, rpc.FunctionCall{
		ContractAddress:    call.ContractAddress,
		EntryPointSelector: chain.Selector(call.EntryPoint),
		Calldata:           call.Calldata,
	}, rpc.WithBlockTag("latest"))
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", call.EntryPoint, call.ContractAddress, err)
	}
	return &chain.CallResult{Values: res}, nil
}

// inner exposes the underlying RPC provider to the account adapter.
func (p *Provider) inner() *rpc.Provider {
	return p.rpc
}
