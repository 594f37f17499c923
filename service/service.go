// Package service implements the wallet custody operations: user
// registration with key generation, transfer orchestration and balance
// reconciliation against the ledger.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vigneshbunny/crypto-pay/config"
	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/eth"
	"github.com/vigneshbunny/crypto-pay/gen"
	"github.com/vigneshbunny/crypto-pay/repo"
	"github.com/vigneshbunny/crypto-pay/vault"
)

// Notifier fans a "wallet changed" signal out to connected clients.
// The signal carries no data; clients re-fetch on receipt.
type Notifier interface {
	WalletChanged(userID string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// WalletChanged implements Notifier.
func (NopNotifier) WalletChanged(string) {}

// Service wires the repository, the ledger gateway, the credential
// vault and the notification channel together.
type Service struct {
	cfg    *config.Config
	db     *repo.Repository
	gw     eth.GatewayClient
	vault  *vault.Vault
	notify Notifier
	logger zerolog.Logger
}

// NewService creates a service.
func NewService(cfg *config.Config, db *repo.Repository,
	gw eth.GatewayClient, v *vault.Vault, notify Notifier,
	logger zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		db:     db,
		gw:     gw,
		vault:  v,
		notify: notify,
		logger: logger.With().Str("component", "service").Logger(),
	}
}

// NotifyUser emits a wallet-changed signal for a user. Used by
// background tasks that mutate wallet state outside a request.
func (s *Service) NotifyUser(userID string) {
	s.notify.WalletChanged(userID)
}

// Register creates a user with a freshly generated wallet. User and
// wallet creation are linked at the application level: if wallet
// creation fails the user row is deleted again so that the email can
// retry.
func (s *Service) Register(ctx context.Context,
	email, password string) (*data.User, *data.Wallet, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, &ValidationError{Msg: "invalid email"}
	}
	if len(password) < 6 {
		return nil, nil, &ValidationError{
			Msg: "password must be at least 6 characters"}
	}

	existing, err := s.db.GetUserByEmail(email)
	if err != nil && err != repo.ErrNotFound {
		return nil, nil, err
	}
	if existing != nil {
		if _, err := s.db.GetWalletByUser(existing.ID); err == nil {
			return nil, nil, &DuplicateError{Resource: "user"}
		} else if err != repo.ErrNotFound {
			return nil, nil, err
		}

		// A user without a wallet is an incomplete registration.
		// Clean it up and let this attempt retry.
		s.logger.Info().Str("email", email).
			Msg("cleaning up incomplete registration")
		if err := s.db.DeleteUser(existing.ID); err != nil {
			return nil, nil, errors.Wrap(err,
				"clean up incomplete registration")
		}
	}

	user := &data.User{
		ID:           gen.NewUUID(),
		Email:        email,
		PasswordHash: s.vault.HashPassword(password),
		CreatedAt:    time.Now(),
	}
	if err := s.db.CreateUser(user); err != nil {
		if err == repo.ErrDuplicate {
			// Lost a race with a concurrent registration of the
			// same email.
			return nil, nil, &DuplicateError{Resource: "user"}
		}
		return nil, nil, err
	}

	wallet, err := s.createWallet(user)
	if err != nil {
		// Compensating deletion, best effort: an error here is
		// logged, not returned, to avoid masking the original one.
		if delErr := s.db.DeleteUser(user.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("user", user.ID).
				Msg("rollback of partially registered user failed")
		}
		return nil, nil, err
	}

	s.notify.WalletChanged(user.ID)

	return user, wallet, nil
}

func (s *Service) createWallet(user *data.User) (*data.Wallet, error) {
	kp, err := s.gw.GenerateKeypair()
	if err != nil {
		return nil, errors.Wrap(err, "generate keypair")
	}

	encrypted, err := s.vault.Encrypt(kp.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt private key")
	}

	wallet := &data.Wallet{
		ID:                  gen.NewUUID(),
		UserID:              user.ID,
		Address:             kp.Address,
		PrivateKeyEncrypted: encrypted,
		PublicKey:           kp.PublicKey,
		CreatedAt:           time.Now(),
	}
	if err := s.db.CreateWallet(wallet); err != nil {
		return nil, errors.Wrap(err, "create wallet")
	}

	for _, token := range []string{data.TokenETH, data.TokenUSDT} {
		if _, err := s.db.UpsertBalance(wallet.ID, token, "0"); err != nil {
			return nil, errors.Wrap(err, "seed balance")
		}
	}

	return wallet, nil
}

// Login checks credentials. The wallet is nil when the user has none.
func (s *Service) Login(ctx context.Context,
	email, password string) (*data.User, *data.Wallet, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.db.GetUserByEmail(email)
	if err == repo.ErrNotFound {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if !s.vault.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	wallet, err := s.db.GetWalletByUser(user.ID)
	if err == repo.ErrNotFound {
		wallet = nil
	} else if err != nil {
		return nil, nil, err
	}

	return user, wallet, nil
}

// ChangePassword rotates a user's password hash after checking the
// current password.
func (s *Service) ChangePassword(ctx context.Context,
	userID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return &ValidationError{
			Msg: "password must be at least 6 characters"}
	}

	user, err := s.db.GetUser(userID)
	if err == repo.ErrNotFound {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if !s.vault.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	return s.db.UpdateUserPassword(userID, s.vault.HashPassword(newPassword))
}

// ExportPrivateKey re-authenticates with the password and returns the
// decrypted private key. The highest-sensitivity operation in the
// system.
func (s *Service) ExportPrivateKey(ctx context.Context,
	userID, password string) (string, error) {
	user, err := s.db.GetUser(userID)
	if err == repo.ErrNotFound {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !s.vault.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	wallet, err := s.db.GetWalletByUser(userID)
	if err == repo.ErrNotFound {
		return "", &NotFoundError{Resource: "wallet"}
	}
	if err != nil {
		return "", err
	}

	return s.vault.Decrypt(wallet.PrivateKeyEncrypted)
}

// WalletSummary returns a wallet's address and cached balances.
func (s *Service) WalletSummary(ctx context.Context,
	userID string) (string, map[string]string, error) {
	wallet, err := s.db.GetWalletByUser(userID)
	if err == repo.ErrNotFound {
		return "", nil, &NotFoundError{Resource: "wallet"}
	}
	if err != nil {
		return "", nil, err
	}

	balances, err := s.db.GetBalances(wallet.ID)
	if err != nil {
		return "", nil, err
	}

	out := make(map[string]string, len(balances))
	for _, b := range balances {
		out[b.TokenType] = b.Balance
	}

	return wallet.Address, out, nil
}

// Transactions returns a user's transaction history, newest first.
func (s *Service) Transactions(ctx context.Context,
	userID string, limit, offset uint64) ([]*data.Transaction, error) {
	if limit == 0 || limit > 100 {
		limit = 50
	}
	return s.db.GetTransactionsByUser(userID, limit, offset)
}

// TransactionByHash returns a single transaction.
func (s *Service) TransactionByHash(ctx context.Context,
	hash string) (*data.Transaction, error) {
	tx, err := s.db.GetTransactionByHash(hash)
	if err == repo.ErrNotFound {
		return nil, &NotFoundError{Resource: "transaction"}
	}
	return tx, err
}

// SetTransactionStatus updates a transaction's status, keeping the
// monotonic transition rule.
func (s *Service) SetTransactionStatus(ctx context.Context,
	hash, status string) (*data.Transaction, error) {
	switch status {
	case data.TxPending, data.TxConfirmed, data.TxFailed:
	default:
		return nil, &ValidationError{Msg: "invalid status"}
	}

	tx, err := s.db.UpdateTransactionStatus(hash, status, nil)
	if err == repo.ErrNotFound {
		return nil, &NotFoundError{Resource: "transaction"}
	}
	return tx, err
}

// EstimateFee returns the fee estimate for a token type.
func (s *Service) EstimateFee(ctx context.Context,
	tokenType string) (*eth.Fee, error) {
	switch tokenType {
	case data.TokenETH:
		return s.gw.EstimateNativeFee(ctx)
	case data.TokenUSDT:
		return s.gw.EstimateTokenFee(ctx)
	default:
		return nil, &ValidationError{Msg: "unsupported token type"}
	}
}
