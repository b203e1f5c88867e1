package x402

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// EncodeHeader serializes a payment payload to the base64-encoded JSON form
// carried in the X-PAYMENT header.
func EncodeHeader(payload *PaymentPayload) (string, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(jsonBytes), nil
}

// DecodeHeader parses an X-PAYMENT header value back into a PaymentPayload.
func DecodeHeader(header string) (*PaymentPayload, error) {
	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 in payment header: %w", err)
	}
	var payload PaymentPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in payment header: %w", err)
	}
	return &payload, nil
}
