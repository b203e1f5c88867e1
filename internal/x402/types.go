// Package x402 implements the x402 payment protocol types and parsing.
package x402

// X402Version is the protocol version this client speaks.
const X402Version = 1

// SchemeExact is the only payment scheme supported: the signed authorization
// covers exactly the required amount.
const SchemeExact = "exact"

// HeaderXPayment carries the base64-encoded payment payload on the retried
// request.
const HeaderXPayment = "X-PAYMENT"

// PaymentRequirements is a single payment option from the accepts[] array of
// a 402 response. Immutable once received.
type PaymentRequirements struct {
	Scheme            string                 `json:"scheme"`
	Network           string                 `json:"network"`
	MaxAmountRequired string                 `json:"maxAmountRequired"`
	Asset             string                 `json:"asset"`
	PayTo             string                 `json:"payTo"`
	Resource          string                 `json:"resource,omitempty"`
	Description       string                 `json:"description,omitempty"`
	MimeType          string                 `json:"mimeType,omitempty"`
	MaxTimeoutSeconds int                    `json:"maxTimeoutSeconds,omitempty"`
	Extra             map[string]interface{} `json:"extra,omitempty"`
}

// PaymentRequiredResponse is the JSON body of a 402 response.
type PaymentRequiredResponse struct {
	X402Version int                   `json:"x402Version"`
	Accepts     []PaymentRequirements `json:"accepts"`
	Error       string                `json:"error,omitempty"`
}

// Signature is a stark-curve signature in wire form.
type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
}

// ExactPayload is the signed payment authorization inside a PaymentPayload.
// Amount and deadline are decimal strings; addresses and the nonce are
// 0x-prefixed hex.
type ExactPayload struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Token     string    `json:"token"`
	Amount    string    `json:"amount"`
	Nonce     string    `json:"nonce"`
	Deadline  string    `json:"deadline"`
	Signature Signature `json:"signature"`
}

// PaymentPayload is the full payment proof sent in the X-PAYMENT header.
// Created once per attempt and never reused: the fresh nonce makes each
// payload a distinct authorization.
type PaymentPayload struct {
	X402Version int          `json:"x402Version"`
	Scheme      string       `json:"scheme"`
	Network     string       `json:"network"`
	Payload     ExactPayload `json:"payload"`
}

// VerificationResult is the facilitator /verify response. Pass-through from
// the facilitator; only the fields the flow inspects are typed.
type VerificationResult struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
}

// SettlementResult is the facilitator /settle response. A missing success
// flag decodes to false and fails the flow; an ambiguous settlement is not
// trusted.
type SettlementResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Error   string `json:"error,omitempty"`
}
