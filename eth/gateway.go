package eth

import "context"

// GatewayClient describes the ledger gateway consumed by the wallet
// backend. The real implementation talks to an Ethereum node; tests use
// MockClient.
//
// Balance queries fail safe: a transient node failure yields "0", not
// an error. Submission failures always surface, reported through
// SubmitResult rather than an error when the node rejected the
// transfer. Signing keys are accepted per call and never retained.
type GatewayClient interface {
	// GenerateKeypair creates a fresh keypair for a new wallet.
	GenerateKeypair() (*Keypair, error)

	// NativeBalance returns the native coin balance of address as a
	// decimal string in display units.
	NativeBalance(ctx context.Context, address string) (string, error)

	// TokenBalance returns the token balance of address as a decimal
	// string in display units.
	TokenBalance(ctx context.Context, address string) (string, error)

	// EstimateNativeFee estimates the fee of a native transfer.
	EstimateNativeFee(ctx context.Context) (*Fee, error)

	// EstimateTokenFee estimates the fee of a token transfer. Token
	// fees vary with network congestion and come back as a range.
	EstimateTokenFee(ctx context.Context) (*Fee, error)

	// ValidateAddress reports whether address is well-formed for the
	// chain's address format.
	ValidateAddress(address string) bool

	// SendNative signs and submits a native transfer.
	SendNative(ctx context.Context,
		privateKey, to, amount string) (*SubmitResult, error)

	// SendToken signs and submits a token transfer through the token
	// contract.
	SendToken(ctx context.Context,
		privateKey, to, amount string) (*SubmitResult, error)

	// NativeTransfers lists recent native transfers touching address,
	// newest first, bounded by the configured scan window.
	NativeTransfers(ctx context.Context, address string) ([]Transfer, error)

	// TokenTransfers lists recent token transfers touching address,
	// newest first, bounded by the configured scan window.
	TokenTransfers(ctx context.Context, address string) ([]Transfer, error)

	// Confirmations returns the confirmation count of a transaction,
	// zero when it is not yet included in a block.
	Confirmations(ctx context.Context, hash string) (uint64, error)
}

// Keypair is a freshly generated wallet keypair. The private key is
// plaintext hex and must be encrypted before it is stored anywhere.
type Keypair struct {
	Address    string
	PrivateKey string
	PublicKey  string
}

// Fee is a fee estimate in native units. Max is set when the estimate
// is a range rather than a single amount.
type Fee struct {
	Amount string
	Max    string
}

// String renders the estimate for display, "min~max" for ranges.
func (f *Fee) String() string {
	if f.Max != "" {
		return f.Amount + "~" + f.Max
	}
	return f.Amount
}

// UpperBound returns the worst case of the estimate, used by solvency
// checks.
func (f *Fee) UpperBound() string {
	if f.Max != "" {
		return f.Max
	}
	return f.Amount
}

// SubmitResult is the outcome of a transfer submission. When the node
// rejected the transfer Success is false and Error carries the reason.
type SubmitResult struct {
	Hash    string
	Success bool
	Error   string
}

// TransferKind tags a raw ledger transfer record.
type TransferKind int

const (
	// TransferNative is a plain native coin transfer.
	TransferNative TransferKind = iota
	// TransferToken is a token transfer through the token contract.
	TransferToken
	// TransferSkip marks a record of an unrecognized shape. Consumers
	// skip it instead of guessing at its fields.
	TransferSkip
)

// Transfer is a raw ledger transfer record as seen during a
// reconciliation scan.
type Transfer struct {
	Kind          TransferKind
	Hash          string
	From          string
	To            string
	Amount        string // Decimal string in display units.
	Block         uint64
	Confirmations uint64
	Timestamp     uint64
}
