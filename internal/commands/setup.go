package commands

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/chain/starknet"
	"github.com/stark402/x402-cli/internal/config"
	"github.com/stark402/x402-cli/internal/output"
	"github.com/stark402/x402-cli/internal/wallet"
	"github.com/stark402/x402-cli/internal/x402"
)

// Exit codes reported in JSON output.
const (
	exitOK       = 0
	exitGeneric  = 1
	exitNetwork  = 3
	exitProtocol = 4
	exitRejected = 5
	exitChain    = 6
)

// chainSetup is the resolved per-command chain configuration: flags win,
// then environment, then the network's built-in defaults.
type chainSetup struct {
	Network        chain.Network
	RPCURL         string
	FacilitatorURL string
	Account        *starknet.Account
	AccountAddress *felt.Felt
	Provider       *starknet.Provider
	Spender        *felt.Felt
}

// resolveNetwork picks the network from the flag, falling back to the
// environment default.
func resolveNetwork(flagValue string, cfg *config.Config) (chain.Network, error) {
	s := flagValue
	if s == "" {
		s = cfg.Network
	}
	return chain.ParseNetwork(s)
}

// resolveChain builds the provider and, when withSigner is set, the signing
// account. The account address and private key come from flags or the
// environment; the key may also arrive on piped stdin.
func resolveChain(networkFlag, rpcFlag, accountFlag, keyFlag string, withSigner bool) (*chainSetup, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	network, err := resolveNetwork(networkFlag, cfg)
	if err != nil {
		return nil, err
	}

	setup := &chainSetup{Network: network}

	setup.RPCURL = rpcFlag
	if setup.RPCURL == "" {
		setup.RPCURL = cfg.RPCURL
	}
	if setup.RPCURL == "" {
		setup.RPCURL = network.DefaultRPCURL()
	}

	setup.FacilitatorURL = cfg.FacilitatorURL
	if setup.FacilitatorURL == "" {
		setup.FacilitatorURL = network.DefaultFacilitatorURL()
	}

	provider, err := starknet.NewProvider(setup.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", setup.RPCURL, err)
	}
	setup.Provider = provider

	addrStr := accountFlag
	if addrStr == "" {
		addrStr = cfg.AccountAddress
	}
	if addrStr != "" {
		addr, err := utils.HexToFelt(addrStr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address %q: %w", addrStr, err)
		}
		setup.AccountAddress = addr
	}

	if cfg.Spender != "" {
		spender, err := utils.HexToFelt(cfg.Spender)
		if err != nil {
			return nil, fmt.Errorf("invalid X402_SPENDER %q: %w", cfg.Spender, err)
		}
		setup.Spender = spender
	}

	if !withSigner {
		return setup, nil
	}

	if setup.AccountAddress == nil {
		return nil, fmt.Errorf("no account address provided (use --account or STARKNET_ACCOUNT env)")
	}

	privateKey, err := wallet.LoadPrivateKey(keyFlag, !output.IsStdinTTY())
	if err != nil {
		return nil, err
	}

	account, err := starknet.NewAccount(provider, setup.AccountAddress, privateKey)
	if err != nil {
		return nil, err
	}
	setup.Account = account

	return setup, nil
}

// normalizeURL validates an endpoint URL, defaulting the scheme to https.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in URL")
	}
	return u.String(), nil
}

// parseHeaderFlags converts repeated "Key: Value" flags to a header map.
func parseHeaderFlags(flags []string) map[string]string {
	headers := make(map[string]string)
	for _, h := range flags {
		if key, value, found := strings.Cut(h, ":"); found {
			headers[key] = strings.TrimPrefix(value, " ")
		}
	}
	return headers
}

// exitCodeFor maps payment flow errors to CLI exit codes.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, x402.ErrTransport):
		return exitNetwork
	case errors.Is(err, x402.ErrMissingRequirements), errors.Is(err, x402.ErrMissingSpender):
		return exitProtocol
	case errors.Is(err, x402.ErrVerificationRejected), errors.Is(err, x402.ErrSettlementFailed):
		return exitRejected
	case errors.Is(err, x402.ErrChainRejected), errors.Is(err, x402.ErrApprovalTimeout):
		return exitChain
	default:
		return exitGeneric
	}
}
