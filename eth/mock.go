package eth

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// SentCall records a submission made through the mock.
type SentCall struct {
	Token      bool
	PrivateKey string
	To         string
	Amount     string
}

// MockClient is a configurable in-memory gateway for tests.
type MockClient struct {
	Keypair        *Keypair
	KeypairErr     error
	NativeBalances map[string]string
	TokenBalances  map[string]string
	NativeFee      *Fee
	TokenFee       *Fee
	// AddressValid overrides ValidateAddress; the default is hex
	// address syntax.
	AddressValid func(address string) bool
	Result       *SubmitResult
	SubmitErr    error
	Sent         []SentCall
	NativeLedger []Transfer
	TokenLedger  []Transfer
	LedgerErr    error
	Confs        map[string]uint64
	ConfsErr     error
}

// NewMockClient creates a mock with empty state.
func NewMockClient() *MockClient {
	return &MockClient{
		NativeBalances: make(map[string]string),
		TokenBalances:  make(map[string]string),
		NativeFee:      &Fee{Amount: "0.00042"},
		TokenFee:       &Fee{Amount: "0.0009", Max: "0.0024"},
		Confs:          make(map[string]uint64),
	}
}

func (c *MockClient) GenerateKeypair() (*Keypair, error) {
	if c.KeypairErr != nil {
		return nil, c.KeypairErr
	}
	if c.Keypair != nil {
		return c.Keypair, nil
	}
	return &Keypair{
		Address:    "0x00000000000000000000000000000000DeaDBeef",
		PrivateKey: "mock-key",
		PublicKey:  "mock-pub",
	}, nil
}

func (c *MockClient) NativeBalance(
	ctx context.Context, address string) (string, error) {
	if b, ok := c.NativeBalances[address]; ok {
		return b, nil
	}
	return "0", nil
}

func (c *MockClient) TokenBalance(
	ctx context.Context, address string) (string, error) {
	if b, ok := c.TokenBalances[address]; ok {
		return b, nil
	}
	return "0", nil
}

func (c *MockClient) EstimateNativeFee(ctx context.Context) (*Fee, error) {
	return c.NativeFee, nil
}

func (c *MockClient) EstimateTokenFee(ctx context.Context) (*Fee, error) {
	return c.TokenFee, nil
}

func (c *MockClient) ValidateAddress(address string) bool {
	if c.AddressValid != nil {
		return c.AddressValid(address)
	}
	return common.IsHexAddress(address)
}

func (c *MockClient) SendNative(ctx context.Context,
	privateKey, to, amount string) (*SubmitResult, error) {
	return c.send(false, privateKey, to, amount)
}

func (c *MockClient) SendToken(ctx context.Context,
	privateKey, to, amount string) (*SubmitResult, error) {
	return c.send(true, privateKey, to, amount)
}

func (c *MockClient) send(
	token bool, privateKey, to, amount string) (*SubmitResult, error) {
	if c.SubmitErr != nil {
		return nil, c.SubmitErr
	}

	c.Sent = append(c.Sent, SentCall{
		Token:      token,
		PrivateKey: privateKey,
		To:         to,
		Amount:     amount,
	})

	if c.Result != nil {
		return c.Result, nil
	}
	return &SubmitResult{Hash: "0xmockhash", Success: true}, nil
}

func (c *MockClient) NativeTransfers(
	ctx context.Context, address string) ([]Transfer, error) {
	if c.LedgerErr != nil {
		return nil, c.LedgerErr
	}
	return c.NativeLedger, nil
}

func (c *MockClient) TokenTransfers(
	ctx context.Context, address string) ([]Transfer, error) {
	if c.LedgerErr != nil {
		return nil, c.LedgerErr
	}
	return c.TokenLedger, nil
}

func (c *MockClient) Confirmations(
	ctx context.Context, hash string) (uint64, error) {
	if c.ConfsErr != nil {
		return 0, c.ConfsErr
	}
	return c.Confs[hash], nil
}
