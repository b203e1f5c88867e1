// Package flow drives the end-to-end x402 challenge/response protocol:
// issue the request, detect 402, build and sign the payment, optionally
// approve an allowance and settle through a facilitator, then retry the
// request with proof of payment attached.
package flow

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	log "github.com/sirupsen/logrus"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/client"
	"github.com/stark402/x402-cli/internal/erc20"
	"github.com/stark402/x402-cli/internal/wallet"
	"github.com/stark402/x402-cli/internal/x402"
)

// defaultApprovalTimeout bounds the wait for an approval transaction to be
// included before the flow gives up with ErrApprovalTimeout.
const defaultApprovalTimeout = 2 * time.Minute

// Facilitator is the two-phase verify/settle exchange. Nil disables the
// facilitator steps entirely.
type Facilitator interface {
	Verify(ctx context.Context, paymentHeader string, requirements x402.PaymentRequirements) (*x402.VerificationResult, error)
	Settle(ctx context.Context, paymentHeader string, requirements x402.PaymentRequirements) (*x402.SettlementResult, error)
}

// Options configures one payment flow invocation. A flow owns no shared
// mutable state; every invocation is independent.
type Options struct {
	Network  chain.Network
	Provider chain.Provider
	Account  chain.Account

	// Facilitator enables the verify/settle handshake when non-nil.
	Facilitator Facilitator

	// HTTP performs the resource requests.
	HTTP *client.Client

	// AmountOverride replaces the server's maxAmountRequired when non-nil.
	AmountOverride *big.Int

	// AutoApprove raises the token allowance for Spender when the current
	// allowance is below the payment amount.
	AutoApprove bool
	Spender     *felt.Felt

	// ApprovalTimeout bounds the inclusion wait for the approval
	// transaction. Zero means the default.
	ApprovalTimeout time.Duration

	// Progress, when set, receives a short line per protocol step.
	Progress func(step string)
}

// Request describes the original HTTP request; the retry clones it exactly,
// adding only the X-PAYMENT header.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Result is returned to the caller after the flow finishes or fails. On
// failure the populated fields describe how far the flow got — in
// particular ApproveTxHash lets a human reconcile a submitted approval.
type Result struct {
	// Response is the final HTTP response: the retried request's response
	// after payment, or the original response when it was not a 402.
	Response *http.Response

	// Paid reports whether a payment was signed and sent.
	Paid bool

	PaymentHeader string
	Payment       *x402.PaymentPayload
	Requirements  *x402.PaymentRequirements
	Settlement    *x402.SettlementResult
	Amount        *big.Int
	ApproveTxHash string
}

// Execute runs the payment flow for one request. Every step gates the next;
// the first failure aborts the whole flow with a taxonomy error, and the
// partial Result is returned alongside it.
func Execute(ctx context.Context, opts Options, req Request) (*Result, error) {
	result := &Result{}

	// Step 1: the original request, exactly as given. Anything other than
	// a 402 is passed through untouched.
	opts.progress("Requesting resource")
	resp, err := opts.HTTP.Request(ctx, req.Method, req.URL, req.Headers, req.Body)
	if err != nil {
		return result, fmt.Errorf("%w: %v", x402.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusPaymentRequired {
		result.Response = resp
		return result, nil
	}

	// Step 2: parse the challenge and take the first payment option.
	opts.progress("Parsing payment requirements")
	parsed, err := x402.ParsePaymentRequired(resp)
	resp.Body.Close()
	if err != nil {
		return result, err
	}
	requirements := parsed.FirstRequirement()
	if err := x402.ValidateRequirements(requirements); err != nil {
		return result, fmt.Errorf("%w: %v", x402.ErrMissingRequirements, err)
	}
	result.Requirements = requirements

	if string(opts.Network) != requirements.Network {
		return result, fmt.Errorf("%w: server wants network %q, client configured for %q",
			x402.ErrMissingRequirements, requirements.Network, opts.Network)
	}

	token, err := utils.HexToFelt(requirements.Asset)
	if err != nil {
		return result, fmt.Errorf("%w: invalid asset address: %v", x402.ErrMissingRequirements, err)
	}
	payTo, err := utils.HexToFelt(requirements.PayTo)
	if err != nil {
		return result, fmt.Errorf("%w: invalid payTo address: %v", x402.ErrMissingRequirements, err)
	}

	// Step 3: resolve the amount.
	amount := opts.AmountOverride
	if amount == nil {
		var ok bool
		amount, ok = new(big.Int).SetString(strings.TrimSpace(requirements.MaxAmountRequired), 10)
		if !ok {
			return result, fmt.Errorf("%w: maxAmountRequired %q is not a decimal integer",
				x402.ErrMissingRequirements, requirements.MaxAmountRequired)
		}
	}
	result.Amount = amount

	if opts.Account == nil {
		return result, fmt.Errorf("%w: no signing account configured", x402.ErrSignerUnavailable)
	}

	// Step 4: optional allowance approval, blocking until mined. The
	// current allowance is re-read every run; a sufficient allowance from
	// a prior run means no new transaction.
	if opts.AutoApprove {
		if err := approveIfNeeded(ctx, opts, token, amount, result); err != nil {
			return result, err
		}
	}

	// Step 5: sign the payment.
	opts.progress("Signing payment")
	signed, err := wallet.SignPayment(opts.Account, wallet.SignParams{
		Network: opts.Network,
		To:      payTo,
		Token:   token,
		Amount:  amount,
	})
	if err != nil {
		return result, err
	}
	result.Payment = signed.Payment
	result.PaymentHeader = signed.Header

	// Step 6: optional facilitator verify/settle.
	if opts.Facilitator != nil {
		if err := verifyAndSettle(ctx, opts, signed.Header, requirements, result); err != nil {
			return result, err
		}
	}

	// Step 7: retry the original request with proof of payment. No loop:
	// if the server rejects the paid request, that response is final.
	opts.progress("Retrying with payment")
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[x402.HeaderXPayment] = signed.Header

	retryResp, err := opts.HTTP.Request(ctx, req.Method, req.URL, headers, req.Body)
	if err != nil {
		return result, fmt.Errorf("%w: retry request: %v", x402.ErrTransport, err)
	}

	result.Response = retryResp
	result.Paid = true
	return result, nil
}

// approveIfNeeded checks the live allowance and submits an exact-amount
// approval only when it falls short, then blocks until inclusion.
// Settlement would try to move funds immediately after, so proceeding on an
// unconfirmed approval is not an option.
func approveIfNeeded(ctx context.Context, opts Options, token *felt.Felt, amount *big.Int, result *Result) error {
	if opts.Spender == nil {
		return x402.ErrMissingSpender
	}

	opts.progress("Checking allowance")
	allowance, err := erc20.Allowance(ctx, opts.Provider, token, opts.Account.Address(), opts.Spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) >= 0 {
		log.WithFields(log.Fields{
			"allowance": allowance.String(),
			"required":  amount.String(),
		}).Debug("allowance sufficient, skipping approval")
		return nil
	}

	opts.progress("Approving allowance")
	txHash, err := erc20.Approve(ctx, opts.Account, token, opts.Spender, amount)
	if err != nil {
		return err
	}
	result.ApproveTxHash = txHash.String()

	timeout := opts.ApprovalTimeout
	if timeout == 0 {
		timeout = defaultApprovalTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts.progress("Waiting for approval confirmation")
	receipt, err := opts.Account.WaitForTransaction(waitCtx, txHash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || waitCtx.Err() != nil {
			return fmt.Errorf("%w: tx %s", x402.ErrApprovalTimeout, txHash)
		}
		return fmt.Errorf("%w: %v", x402.ErrChainRejected, err)
	}
	if !receipt.Succeeded {
		return fmt.Errorf("%w: approval reverted: %s", x402.ErrChainRejected, receipt.RevertReason)
	}
	return nil
}

// verifyAndSettle runs the two-phase facilitator handshake, aborting on the
// first failure. Settle is never called when verify rejects.
func verifyAndSettle(ctx context.Context, opts Options, paymentHeader string, requirements *x402.PaymentRequirements, result *Result) error {
	opts.progress("Verifying payment with facilitator")
	verification, err := opts.Facilitator.Verify(ctx, paymentHeader, *requirements)
	if err != nil {
		return err
	}
	if !verification.IsValid {
		return fmt.Errorf("%w: %s", x402.ErrVerificationRejected, verification.InvalidReason)
	}

	opts.progress("Settling payment")
	settlement, err := opts.Facilitator.Settle(ctx, paymentHeader, *requirements)
	if err != nil {
		return err
	}
	result.Settlement = settlement
	if !settlement.Success {
		reason := settlement.Error
		if reason == "" {
			reason = "facilitator did not report success"
		}
		return fmt.Errorf("%w: %s", x402.ErrSettlementFailed, reason)
	}
	return nil
}

// progress invokes the step callback when configured.
func (o Options) progress(step string) {
	if o.Progress != nil {
		o.Progress(step)
	}
	log.WithField("step", step).Debug("payment flow")
}
