package repo_test

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gopkg.in/reform.v1"

	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/db"
	"github.com/vigneshbunny/crypto-pay/gen"
	"github.com/vigneshbunny/crypto-pay/repo"
)

var (
	repository *repo.Repository
	dataBase   *reform.DB
	sqlMock    sqlmock.Sqlmock
)

var (
	userColumns = []string{"o_id", "o_email", "o_password_hash",
		"o_created_at"}
	balanceColumns = []string{"o_id", "o_wallet_id", "o_token_type",
		"o_balance", "o_last_updated"}
	transactionColumns = []string{"o_id", "o_user_id", "o_wallet_id",
		"o_tx_hash", "o_from_address", "o_to_address", "o_amount",
		"o_token_type", "o_direction", "o_status", "o_block_number",
		"o_fee", "o_confirmations", "o_created_at", "o_confirmed_at"}
)

func TestGetUserNotFound(t *testing.T) {
	sqlMock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("missing").WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repository.GetUser("missing")
	if err != repo.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpsertBalance(t *testing.T) {
	walletID := gen.NewUUID()

	// No row yet, the upsert inserts.
	sqlMock.ExpectQuery(`SELECT (.+) FROM "balances"`).
		WithArgs(walletID, data.TokenETH).
		WillReturnRows(sqlmock.NewRows(balanceColumns))
	sqlMock.ExpectQuery(`INSERT INTO "balances"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(gen.NewUUID()))

	balance, err := repository.UpsertBalance(walletID, data.TokenETH, "1.5")
	if err != nil {
		t.Fatal(err)
	}
	if balance.Balance != "1.5" {
		t.Fatalf("expected balance 1.5, got %s", balance.Balance)
	}

	// Row exists, the upsert overwrites it in place.
	sqlMock.ExpectQuery(`SELECT (.+) FROM "balances"`).
		WithArgs(walletID, data.TokenETH).
		WillReturnRows(sqlmock.NewRows(balanceColumns).AddRow(
			balance.ID, walletID, data.TokenETH, "1.5", time.Now()))
	sqlMock.ExpectExec(`UPDATE "balances"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	balance, err = repository.UpsertBalance(walletID, data.TokenETH, "2.25")
	if err != nil {
		t.Fatal(err)
	}
	if balance.Balance != "2.25" {
		t.Fatalf("expected balance 2.25, got %s", balance.Balance)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateTransaction(t *testing.T) {
	tx := &data.Transaction{
		ID:          gen.NewUUID(),
		UserID:      gen.NewUUID(),
		WalletID:    gen.NewUUID(),
		Hash:        "0x64e604787cbf194841e7b68d7cd28786f6c9a0a3ab9f8b0a0e87cb4387ab0107",
		FromAddress: "0xe7dc9fe68da458b54f648146a817126053eeef66",
		ToAddress:   "0xa7dba6053a0d631177340e8061bc12f5009ba453",
		Amount:      "0.5",
		TokenType:   data.TokenETH,
		Direction:   data.DirectionSend,
		Status:      data.TxPending,
		CreatedAt:   time.Now(),
	}

	// Unseen hash, the row is inserted.
	sqlMock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WithArgs(tx.Hash).
		WillReturnRows(sqlmock.NewRows(transactionColumns))
	sqlMock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tx.ID))

	created, err := repository.CreateTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected transaction to be created")
	}

	// Same hash again is a no-op, not an error.
	sqlMock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WithArgs(tx.Hash).
		WillReturnRows(transactionRows(tx))

	created, err = repository.CreateTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("expected duplicate hash to be a no-op")
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpdateTransactionStatusMonotonic(t *testing.T) {
	confirmedAt := time.Now()
	tx := &data.Transaction{
		ID:            gen.NewUUID(),
		UserID:        gen.NewUUID(),
		WalletID:      gen.NewUUID(),
		Hash:          "0xa0b1c2d3e4f5a0b1c2d3e4f5a0b1c2d3e4f5a0b1c2d3e4f5a0b1c2d3e4f5a0b1",
		FromAddress:   "0xe7dc9fe68da458b54f648146a817126053eeef66",
		ToAddress:     "0xa7dba6053a0d631177340e8061bc12f5009ba453",
		Amount:        "10",
		TokenType:     data.TokenUSDT,
		Direction:     data.DirectionReceive,
		Status:        data.TxConfirmed,
		Confirmations: 25,
		CreatedAt:     time.Now(),
		ConfirmedAt:   &confirmedAt,
	}

	// A confirmed row is never demoted and confirmations never
	// decrease.
	sqlMock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WithArgs(tx.Hash).
		WillReturnRows(transactionRows(tx))
	sqlMock.ExpectExec(`UPDATE "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stale := uint64(3)
	updated, err := repository.UpdateTransactionStatus(
		tx.Hash, data.TxPending, &stale)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != data.TxConfirmed {
		t.Fatalf("expected status %s, got %s",
			data.TxConfirmed, updated.Status)
	}
	if updated.Confirmations != 25 {
		t.Fatalf("expected confirmations 25, got %d",
			updated.Confirmations)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpdateTransactionStatusTerminal(t *testing.T) {
	confirmedAt := time.Now()

	// Confirmed and failed are both terminal; writes against either
	// keep the stored status.
	cases := []struct {
		current string
		next    string
	}{
		{data.TxFailed, data.TxConfirmed},
		{data.TxConfirmed, data.TxFailed},
	}

	for _, c := range cases {
		tx := &data.Transaction{
			ID:          gen.NewUUID(),
			UserID:      gen.NewUUID(),
			WalletID:    gen.NewUUID(),
			Hash:        "0xb1c2d3e4f5a0b1c2d3e4f5a0b1c2d3e4f5a0b1c2d3e4f5a0b1c2d3e4f5a0b1a0",
			FromAddress: "0xe7dc9fe68da458b54f648146a817126053eeef66",
			ToAddress:   "0xa7dba6053a0d631177340e8061bc12f5009ba453",
			Amount:      "1",
			TokenType:   data.TokenETH,
			Direction:   data.DirectionSend,
			Status:      c.current,
			CreatedAt:   time.Now(),
		}
		if c.current == data.TxConfirmed {
			tx.ConfirmedAt = &confirmedAt
		}

		sqlMock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
			WithArgs(tx.Hash).
			WillReturnRows(transactionRows(tx))
		sqlMock.ExpectExec(`UPDATE "transactions"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repository.UpdateTransactionStatus(
			tx.Hash, c.next, nil)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Status != c.current {
			t.Fatalf("%s -> %s: expected status to stay %s, got %s",
				c.current, c.next, c.current, updated.Status)
		}
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpdateTransactionStatusUnknownHash(t *testing.T) {
	sqlMock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WithArgs("0xdeadbeef").
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	_, err := repository.UpdateTransactionStatus(
		"0xdeadbeef", data.TxConfirmed, nil)
	if err != repo.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
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

func testMain(m *testing.M) int {
	var err error
	var sqlDB *sql.DB

	sqlDB, sqlMock, err = sqlmock.New()
	if err != nil {
		return 1
	}

	dataBase, err = db.NewDB(sqlDB)
	if err != nil {
		return 1
	}

	defer db.CloseDB(dataBase)

	repository = repo.New(dataBase)

	return m.Run()
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}
