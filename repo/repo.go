// Package repo persists users, wallets, balances and transactions.
// Absence is reported as ErrNotFound; duplicate transaction hashes and
// repeated balance upserts are tolerated rather than treated as
// failures.
package repo

import (
	"fmt"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gopkg.in/reform.v1"

	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/gen"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repo: not found")

// ErrDuplicate is returned when an insert collides with a unique
// constraint the caller cares about.
var ErrDuplicate = errors.New("repo: duplicate")

// Postgres unique violation.
const uniqueViolation = "23505"

// Repository provides access to wallet backend persistence.
type Repository struct {
	db *reform.DB
}

// New creates a repository over a reform database handle.
func New(db *reform.DB) *Repository {
	return &Repository{db: db}
}

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

func notFound(err error) error {
	if err == reform.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// GetUser returns a user by id.
func (r *Repository) GetUser(id string) (*data.User, error) {
	user := &data.User{}
	if err := r.db.FindByPrimaryKeyTo(user, id); err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// GetUserByEmail returns a user by email.
func (r *Repository) GetUserByEmail(email string) (*data.User, error) {
	user := &data.User{}
	if err := r.db.FindOneTo(user, "email", email); err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// CreateUser inserts a new user. A duplicate email is reported as
// ErrDuplicate so that registration can reject it even when two
// attempts race past the pre-check.
func (r *Repository) CreateUser(user *data.User) error {
	err := r.db.Insert(user)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// DeleteUser removes a user row. Used by the registration rollback
// path.
func (r *Repository) DeleteUser(id string) error {
	return r.db.Delete(&data.User{ID: id})
}

// UpdateUserPassword replaces a user's password hash.
func (r *Repository) UpdateUserPassword(id, hash string) error {
	user, err := r.GetUser(id)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return r.db.Save(user)
}

// GetWalletByUser returns the wallet owned by a user.
func (r *Repository) GetWalletByUser(userID string) (*data.Wallet, error) {
	wallet := &data.Wallet{}
	if err := r.db.FindOneTo(wallet, "user_id", userID); err != nil {
		return nil, notFound(err)
	}
	return wallet, nil
}

// GetWalletByAddress returns a wallet by its public address.
func (r *Repository) GetWalletByAddress(
	address string) (*data.Wallet, error) {
	wallet := &data.Wallet{}
	if err := r.db.FindOneTo(wallet, "address", address); err != nil {
		return nil, notFound(err)
	}
	return wallet, nil
}

// CreateWallet inserts a new wallet.
func (r *Repository) CreateWallet(wallet *data.Wallet) error {
	return r.db.Insert(wallet)
}

// ListWallets returns all wallets, used by the background refresher.
func (r *Repository) ListWallets() ([]*data.Wallet, error) {
	items, err := r.db.SelectAllFrom(data.WalletTable, "")
	if err != nil {
		return nil, err
	}

	wallets := make([]*data.Wallet, len(items))
	for k, item := range items {
		wallets[k] = item.(*data.Wallet)
	}
	return wallets, nil
}

// GetBalances returns all cached balances of a wallet.
func (r *Repository) GetBalances(walletID string) ([]*data.Balance, error) {
	tail := fmt.Sprintf("WHERE wallet_id = %s ORDER BY token_type",
		r.db.Placeholder(1))

	items, err := r.db.SelectAllFrom(data.BalanceTable, tail, walletID)
	if err != nil {
		return nil, err
	}

	balances := make([]*data.Balance, len(items))
	for k, item := range items {
		balances[k] = item.(*data.Balance)
	}
	return balances, nil
}

// GetBalance returns the cached balance of a wallet for one token.
func (r *Repository) GetBalance(
	walletID, tokenType string) (*data.Balance, error) {
	tail := fmt.Sprintf("WHERE wallet_id = %s AND token_type = %s",
		r.db.Placeholder(1), r.db.Placeholder(2))

	item, err := r.db.SelectOneFrom(data.BalanceTable, tail,
		walletID, tokenType)
	if err != nil {
		return nil, notFound(err)
	}
	return item.(*data.Balance), nil
}

// UpsertBalance inserts or updates the (wallet, token) balance row.
// Balances are a cache of ledger truth, so concurrent writers resolve
// as last write wins.
func (r *Repository) UpsertBalance(
	walletID, tokenType, amount string) (*data.Balance, error) {
	balance, err := r.GetBalance(walletID, tokenType)
	if err == ErrNotFound {
		balance = &data.Balance{
			ID:          gen.NewUUID(),
			WalletID:    walletID,
			TokenType:   tokenType,
			Balance:     amount,
			LastUpdated: time.Now(),
		}
		err = r.db.Insert(balance)
		if isUniqueViolation(err) {
			// Lost the insert race, update the winner's row.
			balance, err = r.GetBalance(walletID, tokenType)
			if err != nil {
				return nil, err
			}
		} else {
			return balance, err
		}
	} else if err != nil {
		return nil, err
	}

	balance.Balance = amount
	balance.LastUpdated = time.Now()
	if err := r.db.Save(balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// GetTransactionsByUser returns a user's transactions, newest first.
func (r *Repository) GetTransactionsByUser(
	userID string, limit, offset uint64) ([]*data.Transaction, error) {
	tail := fmt.Sprintf(
		"WHERE user_id = %s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		r.db.Placeholder(1), r.db.Placeholder(2), r.db.Placeholder(3))

	items, err := r.db.SelectAllFrom(data.TransactionTable, tail,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}

	txs := make([]*data.Transaction, len(items))
	for k, item := range items {
		txs[k] = item.(*data.Transaction)
	}
	return txs, nil
}

// GetTransactionByHash returns a transaction by its ledger hash.
func (r *Repository) GetTransactionByHash(
	hash string) (*data.Transaction, error) {
	tx := &data.Transaction{}
	if err := r.db.FindOneTo(tx, "tx_hash", hash); err != nil {
		return nil, notFound(err)
	}
	return tx, nil
}

// ListPendingTransactions returns pending transactions, oldest first,
// for the confirmation sweeper.
func (r *Repository) ListPendingTransactions(
	limit uint64) ([]*data.Transaction, error) {
	tail := fmt.Sprintf(
		"WHERE status = %s ORDER BY created_at ASC LIMIT %s",
		r.db.Placeholder(1), r.db.Placeholder(2))

	items, err := r.db.SelectAllFrom(data.TransactionTable, tail,
		data.TxPending, limit)
	if err != nil {
		return nil, err
	}

	txs := make([]*data.Transaction, len(items))
	for k, item := range items {
		txs[k] = item.(*data.Transaction)
	}
	return txs, nil
}

// CreateTransaction inserts a transaction row. The ledger hash is the
// idempotency key: inserting an already-seen hash is a no-op success,
// reported through the created flag.
func (r *Repository) CreateTransaction(
	tx *data.Transaction) (created bool, err error) {
	if _, err := r.GetTransactionByHash(tx.Hash); err == nil {
		return false, nil
	} else if err != ErrNotFound {
		return false, err
	}

	err = r.db.Insert(tx)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateTransactionStatus moves a transaction's status. Transitions
// are monotonic: confirmed and failed are terminal, a row in either
// keeps it, and the confirmation count never decreases.
func (r *Repository) UpdateTransactionStatus(hash, status string,
	confirmations *uint64) (*data.Transaction, error) {
	tx, err := r.GetTransactionByHash(hash)
	if err != nil {
		return nil, err
	}

	if tx.Status == data.TxConfirmed || tx.Status == data.TxFailed {
		status = tx.Status
	}

	tx.Status = status
	if confirmations != nil && *confirmations > tx.Confirmations {
		tx.Confirmations = *confirmations
	}
	if status == data.TxConfirmed && tx.ConfirmedAt == nil {
		tx.ConfirmedAt = pointer.ToTime(time.Now())
	}

	if err := r.db.Save(tx); err != nil {
		return nil, err
	}
	return tx, nil
}
