package wallet

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/x402"
)

// nonceBytes is the random nonce width. 31 bytes keeps the value strictly
// below the field modulus; a full 32-byte value could land at or above it,
// which the signing scheme must never see.
const nonceBytes = 31

// defaultDeadline is how long a signed authorization stays valid when the
// caller does not pin a deadline.
const defaultDeadline = 300 * time.Second

// SignParams are the inputs to SignPayment. Nonce and Deadline are optional;
// fresh values are generated when absent.
type SignParams struct {
	Network chain.Network
	To      *felt.Felt
	Token   *felt.Felt
	Amount  *big.Int

	// Nonce overrides the random nonce. Reusing a {from, nonce} pair for a
	// different amount or recipient breaks the anti-replay contract; leave
	// unset outside of tests.
	Nonce *felt.Felt

	// Deadline is a unix timestamp; zero means now + 300s.
	Deadline int64
}

// SignResult is the signed payment in both structured and header form.
type SignResult struct {
	Payment *x402.PaymentPayload
	Header  string
	Message *TypedPaymentMessage
}

// NewNonce generates a cryptographically random nonce felt.
func NewNonce() (*felt.Felt, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return new(felt.Felt).SetBytes(buf), nil
}

// SignPayment builds the typed payment message, signs it with the account,
// and packages the result into the X-PAYMENT transport envelope.
func SignPayment(account chain.Account, params SignParams) (*SignResult, error) {
	if account == nil {
		return nil, fmt.Errorf("%w: no signing account configured", x402.ErrSignerUnavailable)
	}

	nonce := params.Nonce
	if nonce == nil {
		var err error
		nonce, err = NewNonce()
		if err != nil {
			return nil, err
		}
	}

	deadline := params.Deadline
	if deadline == 0 {
		deadline = time.Now().Add(defaultDeadline).Unix()
	}

	message := BuildTypedPayment(PaymentParams{
		Network:  params.Network,
		From:     account.Address(),
		To:       params.To,
		Token:    params.Token,
		Amount:   utils.BigIntToFelt(params.Amount),
		Nonce:    nonce,
		Deadline: utils.BigIntToFelt(big.NewInt(deadline)),
	})

	sig, err := account.SignTypedData(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", x402.ErrSignerUnavailable, err)
	}

	payment := &x402.PaymentPayload{
		X402Version: x402.X402Version,
		Scheme:      x402.SchemeExact,
		Network:     string(params.Network),
		Payload: x402.ExactPayload{
			From:     account.Address().String(),
			To:       params.To.String(),
			Token:    params.Token.String(),
			Amount:   params.Amount.String(),
			Nonce:    nonce.String(),
			Deadline: fmt.Sprintf("%d", deadline),
			Signature: x402.Signature{
				R: sig.R.String(),
				S: sig.S.String(),
			},
		},
	}

	header, err := x402.EncodeHeader(payment)
	if err != nil {
		return nil, err
	}

	return &SignResult{Payment: payment, Header: header, Message: message}, nil
}
