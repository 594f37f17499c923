//go:generate reform

package data

import "time"

// Token types supported by the platform. ETH is the native coin of the
// network and pays all transaction fees; USDT is an ERC-20 token
// transferred through contract calls.
const (
	TokenETH  = "ETH"
	TokenUSDT = "USDT"
)

// ValidToken reports whether t is one of the supported token types.
func ValidToken(t string) bool {
	return t == TokenETH || t == TokenUSDT
}

// Transaction statuses. Pending transitions to confirmed or failed;
// both are terminal.
const (
	TxPending   = "pending"
	TxConfirmed = "confirmed"
	TxFailed    = "failed"
)

// Transaction directions relative to the owning wallet.
const (
	DirectionSend    = "send"
	DirectionReceive = "receive"
)

//reform:users
type User struct {
	ID    string `json:"id" reform:"id,pk"`
	Email string `json:"email" reform:"email"`
	// The field is not exported to JSON.
	PasswordHash string    `reform:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" reform:"created_at"`
}

//reform:wallets
type Wallet struct {
	ID      string `json:"id" reform:"id,pk"`
	UserID  string `json:"userId" reform:"user_id"`
	Address string `json:"address" reform:"address"`
	// The field is not exported to JSON. Only ever stored encrypted.
	PrivateKeyEncrypted string    `reform:"private_key_encrypted"`
	PublicKey           string    `json:"publicKey" reform:"public_key"`
	CreatedAt           time.Time `json:"createdAt" reform:"created_at"`
}

//reform:balances
type Balance struct {
	ID        string `json:"id" reform:"id,pk"`
	WalletID  string `json:"walletId" reform:"wallet_id"`
	TokenType string `json:"tokenType" reform:"token_type"`
	// Decimal string in display units. A cache of ledger truth.
	Balance     string    `json:"balance" reform:"balance"`
	LastUpdated time.Time `json:"lastUpdated" reform:"last_updated"`
}

//reform:transactions
type Transaction struct {
	ID          string `json:"id" reform:"id,pk"`
	UserID      string `json:"userId" reform:"user_id"`
	WalletID    string `json:"walletId" reform:"wallet_id"`
	Hash        string `json:"txHash" reform:"tx_hash"`
	FromAddress string `json:"fromAddress" reform:"from_address"`
	ToAddress   string `json:"toAddress" reform:"to_address"`
	// Decimal string in display units.
	Amount        string     `json:"amount" reform:"amount"`
	TokenType     string     `json:"tokenType" reform:"token_type"`
	Direction     string     `json:"type" reform:"direction"`
	Status        string     `json:"status" reform:"status"`
	BlockNumber   *uint64    `json:"blockNumber" reform:"block_number"`
	Fee           *string    `json:"fee" reform:"fee"`
	Confirmations uint64     `json:"confirmations" reform:"confirmations"`
	CreatedAt     time.Time  `json:"createdAt" reform:"created_at"`
	ConfirmedAt   *time.Time `json:"confirmedAt" reform:"confirmed_at"`
}
