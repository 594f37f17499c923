package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/reform.v1"

	"github.com/vigneshbunny/crypto-pay/config"
	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/db"
	"github.com/vigneshbunny/crypto-pay/eth"
	"github.com/vigneshbunny/crypto-pay/gen"
	"github.com/vigneshbunny/crypto-pay/repo"
	"github.com/vigneshbunny/crypto-pay/service"
	"github.com/vigneshbunny/crypto-pay/vault"
)

var (
	userColumns = []string{"o_id", "o_email", "o_password_hash",
		"o_created_at"}
	walletColumns = []string{"o_id", "o_user_id", "o_address",
		"o_private_key_encrypted", "o_public_key", "o_created_at"}
	balanceColumns = []string{"o_id", "o_wallet_id", "o_token_type",
		"o_balance", "o_last_updated"}
	transactionColumns = []string{"o_id", "o_user_id", "o_wallet_id",
		"o_tx_hash", "o_from_address", "o_to_address", "o_amount",
		"o_token_type", "o_direction", "o_status", "o_block_number",
		"o_fee", "o_confirmations", "o_created_at", "o_confirmed_at"}
)

type testEnv struct {
	svc      *service.Service
	sqlMock  sqlmock.Sqlmock
	gw       *eth.MockClient
	vault    *vault.Vault
	cfg      *config.Config
	dataBase *reform.DB
}

func newTestEnv(t *testing.T) *testEnv {
	var err error
	var sqlDB *sql.DB

	env := &testEnv{}

	sqlDB, env.sqlMock, err = sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	env.dataBase, err = db.NewDB(sqlDB)
	if err != nil {
		t.Fatal(err)
	}

	env.cfg = config.NewConfig()
	env.gw = eth.NewMockClient()
	env.vault = vault.New("test-secret", "test-salt")

	env.svc = service.NewService(env.cfg, repo.New(env.dataBase),
		env.gw, env.vault, service.NopNotifier{}, zerolog.Nop())

	return env
}

func (e *testEnv) close() {
	db.CloseDB(e.dataBase)
}

func (e *testEnv) done(t *testing.T) {
	if err := e.sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// expectWallet queues a wallet lookup result holding privateKey
// encrypted under the test vault.
func (e *testEnv) expectWallet(t *testing.T, userID, address,
	privateKey string) *data.Wallet {
	encrypted, err := e.vault.Encrypt(privateKey)
	if err != nil {
		t.Fatal(err)
	}

	wallet := &data.Wallet{
		ID:                  gen.NewUUID(),
		UserID:              userID,
		Address:             address,
		PrivateKeyEncrypted: encrypted,
		PublicKey:           "pub",
		CreatedAt:           time.Now(),
	}

	e.sqlMock.ExpectQuery(`SELECT (.+) FROM "wallets"`).
		WithArgs(userID).WillReturnRows(
		sqlmock.NewRows(walletColumns).AddRow(
			wallet.ID, wallet.UserID, wallet.Address,
			wallet.PrivateKeyEncrypted, wallet.PublicKey,
			wallet.CreatedAt))

	return wallet
}

func transactionRows(tx *data.Transaction) *sqlmock.Rows {
	var block, fee, confirmedAt interface{}
	if tx.BlockNumber != nil {
		block = *tx.BlockNumber
	}
	if tx.Fee != nil {
		fee = *tx.Fee
	}
	if tx.ConfirmedAt != nil {
		confirmedAt = *tx.ConfirmedAt
	}

	return sqlmock.NewRows(transactionColumns).AddRow(
		tx.ID, tx.UserID, tx.WalletID, tx.Hash, tx.FromAddress,
		tx.ToAddress, tx.Amount, tx.TokenType, tx.Direction, tx.Status,
		block, fee, tx.Confirmations, tx.CreatedAt, confirmedAt)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	env.sqlMock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(gen.NewUUID()))
	env.sqlMock.ExpectQuery(`INSERT INTO "wallets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(gen.NewUUID()))
	for range []string{data.TokenETH, data.TokenUSDT} {
		env.sqlMock.ExpectQuery(`SELECT (.+) FROM "balances"`).
			WillReturnRows(sqlmock.NewRows(balanceColumns))
		env.sqlMock.ExpectQuery(`INSERT INTO "balances"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).
				AddRow(gen.NewUUID()))
	}

	user, wallet, err := env.svc.Register(context.Background(),
		" Alice@Example.com ", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if wallet.Address == "" || wallet.PrivateKeyEncrypted == "" {
		t.Fatal("expected wallet with encrypted key material")
	}

	// The stored key must decrypt back to the generated one.
	key, err := env.vault.Decrypt(wallet.PrivateKeyEncrypted)
	if err != nil {
		t.Fatal(err)
	}
	if key != "mock-key" {
		t.Fatalf("unexpected decrypted key: %s", key)
	}

	env.done(t)
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	userID := gen.NewUUID()
	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("alice@example.com").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow(
			userID, "alice@example.com", "hash", time.Now()))
	env.expectWallet(t, userID,
		"0xe7dc9fe68da458b54f648146a817126053eeef66", "key")

	_, _, err := env.svc.Register(context.Background(),
		"alice@example.com", "hunter22")

	var dup *service.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}

	env.done(t)
}

func TestRegisterDuplicateRace(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	// The pre-check sees no user, but a concurrent registration wins
	// the insert. The unique violation surfaces as a duplicate, not
	// an internal error.
	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	env.sqlMock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, _, err := env.svc.Register(context.Background(),
		"alice@example.com", "hunter22")

	var dup *service.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}

	env.done(t)
}

func TestRegisterRollback(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.gw.KeypairErr = errors.New("node unavailable")

	// Wallet creation fails after the user insert, so the user row
	// is deleted again.
	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	env.sqlMock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(gen.NewUUID()))
	env.sqlMock.ExpectExec(`DELETE FROM "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, _, err := env.svc.Register(context.Background(),
		"bob@example.com", "hunter22")
	if err == nil {
		t.Fatal("expected registration to fail")
	}

	env.done(t)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	cases := []struct {
		email    string
		password string
	}{
		{"", "hunter22"},
		{"not-an-email", "hunter22"},
		{"alice@example.com", "short"},
	}

	for _, c := range cases {
		_, _, err := env.svc.Register(context.Background(),
			c.email, c.password)

		var validation *service.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("email %q password %q: expected ValidationError,"+
				" got %v", c.email, c.password, err)
		}
	}

	env.done(t)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	userID := gen.NewUUID()
	hash := env.vault.HashPassword("hunter22")

	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows(userColumns).AddRow(
			userID, "alice@example.com", hash, time.Now())
	}

	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("alice@example.com").WillReturnRows(userRows())
	env.expectWallet(t, userID,
		"0xe7dc9fe68da458b54f648146a817126053eeef66", "key")

	user, wallet, err := env.svc.Login(context.Background(),
		"alice@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != userID || wallet == nil {
		t.Fatal("unexpected login result")
	}

	// Wrong password.
	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("alice@example.com").WillReturnRows(userRows())

	_, _, err = env.svc.Login(context.Background(),
		"alice@example.com", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// Unknown email maps to the same error.
	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, _, err = env.svc.Login(context.Background(),
		"nobody@example.com", "hunter22")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	env.done(t)
}

func TestExportPrivateKey(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	userID := gen.NewUUID()
	hash := env.vault.HashPassword("hunter22")
	key := "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs(userID).WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow(
			userID, "alice@example.com", hash, time.Now()))
	env.expectWallet(t, userID,
		"0xe7dc9fe68da458b54f648146a817126053eeef66", key)

	got, err := env.svc.ExportPrivateKey(
		context.Background(), userID, "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if got != key {
		t.Fatalf("expected %s, got %s", key, got)
	}

	// Export re-authenticates; a wrong password never reaches the
	// vault.
	env.sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs(userID).WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow(
			userID, "alice@example.com", hash, time.Now()))

	_, err = env.svc.ExportPrivateKey(
		context.Background(), userID, "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	env.done(t)
}

func TestSetTransactionStatusInvalid(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	_, err := env.svc.SetTransactionStatus(
		context.Background(), "0xdeadbeef", "cancelled")

	var validation *service.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	env.done(t)
}
