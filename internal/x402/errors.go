package x402

import "errors"

// Error taxonomy for the payment flow. Every step fails the whole flow with
// one of these sentinels; callers match with errors.Is and the wrapped
// message carries the upstream detail.
var (
	// ErrMissingRequirements indicates a 402 response with no usable
	// payment option in accepts[].
	ErrMissingRequirements = errors.New("x402: no payment requirements in 402 response")

	// ErrMissingSpender indicates auto-approve was requested without a
	// spender address to approve.
	ErrMissingSpender = errors.New("x402: auto-approve requires a spender address")

	// ErrSignerUnavailable indicates the account cannot produce signatures.
	ErrSignerUnavailable = errors.New("x402: signer unavailable")

	// ErrVerificationRejected indicates the facilitator rejected the
	// payment during /verify.
	ErrVerificationRejected = errors.New("x402: payment verification rejected")

	// ErrSettlementFailed indicates the facilitator did not report a
	// successful /settle.
	ErrSettlementFailed = errors.New("x402: payment settlement failed")

	// ErrApprovalTimeout indicates the allowance approval transaction was
	// not included before the confirmation wait expired.
	ErrApprovalTimeout = errors.New("x402: approval confirmation timed out")

	// ErrChainRejected indicates the chain client rejected a call or
	// transaction.
	ErrChainRejected = errors.New("x402: chain rejected operation")

	// ErrTransport indicates a network-level failure on an HTTP call.
	ErrTransport = errors.New("x402: transport error")
)
