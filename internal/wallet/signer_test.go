package wallet

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stark402/x402-cli/internal/chain"
	"github.com/stark402/x402-cli/internal/x402"
)

// fakeAccount records the hashes it is asked to sign.
type fakeAccount struct {
	address  *felt.Felt
	signErr  error
	lastHash *felt.Felt
}

func (f *fakeAccount) Address() *felt.Felt { return f.address }

func (f *fakeAccount) SignTypedData(td chain.TypedData) (*chain.Signature, error) {
	if f.signErr != nil {
		return nil, f.signErr
	}
	f.lastHash = td.Hash(f.address)
	return &chain.Signature{R: feltFrom(0xaaa), S: feltFrom(0xbbb)}, nil
}

func (f *fakeAccount) Execute(ctx context.Context, calls []chain.Call) (*chain.InvokeResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAccount) WaitForTransaction(ctx context.Context, txHash *felt.Felt) (*chain.Receipt, error) {
	return nil, errors.New("not implemented")
}

func signParams() SignParams {
	return SignParams{
		Network: chain.Sepolia,
		To:      feltFrom(0x222),
		Token:   feltFrom(0x333),
		Amount:  big.NewInt(1000),
	}
}

func TestSignPayment_NilAccount(t *testing.T) {
	_, err := SignPayment(nil, signParams())
	assert.ErrorIs(t, err, x402.ErrSignerUnavailable)
}

func TestSignPayment_SignFailureWrapsSignerUnavailable(t *testing.T) {
	account := &fakeAccount{address: feltFrom(0x111), signErr: errors.New("keystore locked")}

	_, err := SignPayment(account, signParams())
	assert.ErrorIs(t, err, x402.ErrSignerUnavailable)
	assert.Contains(t, err.Error(), "keystore locked")
}

func TestSignPayment_PayloadShape(t *testing.T) {
	account := &fakeAccount{address: feltFrom(0x111)}

	result, err := SignPayment(account, signParams())
	require.NoError(t, err)

	payload := result.Payment
	assert.Equal(t, x402.X402Version, payload.X402Version)
	assert.Equal(t, x402.SchemeExact, payload.Scheme)
	assert.Equal(t, "sepolia", payload.Network)

	inner := payload.Payload
	assert.Equal(t, account.address.String(), inner.From)
	assert.Equal(t, "0x222", inner.To)
	assert.Equal(t, "0x333", inner.Token)
	assert.Equal(t, "1000", inner.Amount, "amount is a decimal string")
	assert.True(t, strings.HasPrefix(inner.Nonce, "0x"), "nonce is 0x-prefixed hex")
	assert.NotEmpty(t, inner.Deadline)
	assert.Equal(t, "0xaaa", inner.Signature.R)
	assert.Equal(t, "0xbbb", inner.Signature.S)
}

func TestSignPayment_HeaderRoundTrip(t *testing.T) {
	account := &fakeAccount{address: feltFrom(0x111)}

	result, err := SignPayment(account, signParams())
	require.NoError(t, err)
	require.NotEmpty(t, result.Header)

	decoded, err := x402.DecodeHeader(result.Header)
	require.NoError(t, err)
	assert.Equal(t, result.Payment, decoded)
}

func TestSignPayment_FreshNoncePerCall(t *testing.T) {
	account := &fakeAccount{address: feltFrom(0x111)}

	a, err := SignPayment(account, signParams())
	require.NoError(t, err)
	b, err := SignPayment(account, signParams())
	require.NoError(t, err)

	assert.NotEqual(t, a.Payment.Payload.Nonce, b.Payment.Payload.Nonce,
		"each payment must carry a fresh nonce")
}

func TestSignPayment_PinnedNonceAndDeadlineIsStable(t *testing.T) {
	account := &fakeAccount{address: feltFrom(0x111)}

	params := signParams()
	params.Nonce = feltFrom(0x444)
	params.Deadline = 1700000000

	first, err := SignPayment(account, params)
	require.NoError(t, err)
	firstHash := account.lastHash

	second, err := SignPayment(account, params)
	require.NoError(t, err)

	assert.True(t, firstHash.Equal(account.lastHash), "pinned inputs must produce the same signable hash")
	assert.Equal(t, first.Payment.Payload, second.Payment.Payload)
}

func TestNewNonce_BelowFieldModulus(t *testing.T) {
	for i := 0; i < 32; i++ {
		nonce, err := NewNonce()
		require.NoError(t, err)
		// 31 random bytes keep the value under 2^248, comfortably below the
		// field modulus.
		assert.LessOrEqual(t, utils.FeltToBigInt(nonce).BitLen(), 248)
	}
}

func TestParsePrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"hex", "0xff", 255, false},
		{"hex upper prefix", "0XFF", 255, false},
		{"decimal", "1234", 1234, false},
		{"whitespace", "  0x10  ", 16, false},
		{"zero", "0x0", 0, true},
		{"garbage", "not-a-key", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrivateKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestLoadPrivateKey_EnvFallback(t *testing.T) {
	t.Setenv("STARKNET_PRIVATE_KEY", "0xdead")

	key, err := LoadPrivateKey("", false)
	require.NoError(t, err)
	assert.Equal(t, int64(0xdead), key.Int64())

	// An explicit key wins over the environment.
	key, err = LoadPrivateKey("0x1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), key.Int64())
}
