package x402

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"regexp"
	"strings"
)

// ParseResult contains the parsed payment requirements plus the raw body for
// diagnostics.
type ParseResult struct {
	PaymentRequired *PaymentRequiredResponse
	RawBody         []byte
}

// ParsePaymentRequired extracts payment requirements from the JSON body of a
// 402 response. Fails with ErrMissingRequirements when accepts[] is empty.
func ParsePaymentRequired(resp *http.Response) (*ParseResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty 402 response body", ErrMissingRequirements)
	}

	var pr PaymentRequiredResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("invalid JSON in 402 response body: %w", err)
	}

	if len(pr.Accepts) == 0 {
		return nil, fmt.Errorf("%w: accepts[] is empty", ErrMissingRequirements)
	}

	return &ParseResult{PaymentRequired: &pr, RawBody: body}, nil
}

// FirstRequirement returns the payment option the client will satisfy: the
// first entry of accepts[].
func (r *ParseResult) FirstRequirement() *PaymentRequirements {
	return &r.PaymentRequired.Accepts[0]
}

// addressPattern matches a 0x-prefixed hex field element address.
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// ValidateRequirements checks the invariants the rest of the flow relies on:
// a non-negative decimal amount and well-formed on-chain addresses.
func ValidateRequirements(req *PaymentRequirements) error {
	if req.Scheme != SchemeExact {
		return fmt.Errorf("unsupported payment scheme: %q", req.Scheme)
	}
	amount, ok := new(big.Int).SetString(strings.TrimSpace(req.MaxAmountRequired), 10)
	if !ok || amount.Sign() < 0 {
		return fmt.Errorf("maxAmountRequired is not a non-negative decimal integer: %q", req.MaxAmountRequired)
	}
	if !addressPattern.MatchString(req.Asset) {
		return fmt.Errorf("asset is not a valid address: %q", req.Asset)
	}
	if !addressPattern.MatchString(req.PayTo) {
		return fmt.Errorf("payTo is not a valid address: %q", req.PayTo)
	}
	return nil
}
