package service

import (
	"context"
	"time"

	"github.com/AlekSi/pointer"

	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/eth"
	"github.com/vigneshbunny/crypto-pay/gen"
	"github.com/vigneshbunny/crypto-pay/repo"
)

// DetectionSummary reports the outcome of a transaction-detection run.
type DetectionSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// RefreshBalances pulls authoritative balances from the ledger and
// writes them through the repository. Gateway failures on a single
// token degrade to "no change" for that token; only an unresolvable
// wallet is an error.
func (s *Service) RefreshBalances(ctx context.Context,
	userID string) (map[string]string, error) {
	wallet, err := s.db.GetWalletByUser(userID)
	if err == repo.ErrNotFound {
		return nil, &NotFoundError{Resource: "wallet"}
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, 2)

	queries := []struct {
		token string
		query func(context.Context, string) (string, error)
	}{
		{data.TokenETH, s.gw.NativeBalance},
		{data.TokenUSDT, s.gw.TokenBalance},
	}

	for _, q := range queries {
		balance, err := q.query(ctx, wallet.Address)
		if err != nil {
			s.logger.Warn().Err(err).Str("token", q.token).
				Str("address", wallet.Address).
				Msg("balance query failed, keeping cached value")
			continue
		}

		if _, err := s.db.UpsertBalance(
			wallet.ID, q.token, balance); err != nil {
			return nil, err
		}
		out[q.token] = balance
	}

	s.notify.WalletChanged(userID)

	return out, nil
}

// DetectTransactions scans recent ledger transfers for the wallet and
// merges them into the local transaction ledger. Each row write is
// independent and stays committed even when a later gateway failure
// aborts the rest of the batch. Re-running the scan on an unchanged
// history changes nothing.
func (s *Service) DetectTransactions(ctx context.Context,
	userID string) (*DetectionSummary, error) {
	wallet, err := s.db.GetWalletByUser(userID)
	if err == repo.ErrNotFound {
		return nil, &NotFoundError{Resource: "wallet"}
	}
	if err != nil {
		return nil, err
	}

	summary := &DetectionSummary{}

	native, err := s.gw.NativeTransfers(ctx, wallet.Address)
	if err != nil {
		return nil, &ReconciliationError{Err: err}
	}
	if err := s.applyTransfers(wallet, native,
		data.TokenETH, summary); err != nil {
		return nil, err
	}

	token, err := s.gw.TokenTransfers(ctx, wallet.Address)
	if err != nil {
		// Native rows already written stay committed.
		return nil, &ReconciliationError{Err: err}
	}
	if err := s.applyTransfers(wallet, token,
		data.TokenUSDT, summary); err != nil {
		return nil, err
	}

	s.notify.WalletChanged(userID)

	return summary, nil
}

func (s *Service) applyTransfers(wallet *data.Wallet,
	transfers []eth.Transfer, tokenType string,
	summary *DetectionSummary) error {
	for _, t := range transfers {
		if t.Kind == eth.TransferSkip {
			summary.Skipped++
			continue
		}

		var direction string
		switch wallet.Address {
		case t.From:
			direction = data.DirectionSend
		case t.To:
			direction = data.DirectionReceive
		default:
			summary.Skipped++
			continue
		}

		status := data.TxPending
		if t.Confirmations >= s.cfg.Eth.Confirmations {
			status = data.TxConfirmed
		}

		// Ledger block time, when the scan carries one, keeps the
		// history ordered by chain time rather than detection time.
		createdAt := time.Now()
		if t.Timestamp != 0 {
			createdAt = time.Unix(int64(t.Timestamp), 0)
		}

		created, err := s.db.CreateTransaction(&data.Transaction{
			ID:            gen.NewUUID(),
			UserID:        wallet.UserID,
			WalletID:      wallet.ID,
			Hash:          t.Hash,
			FromAddress:   t.From,
			ToAddress:     t.To,
			Amount:        t.Amount,
			TokenType:     tokenType,
			Direction:     direction,
			Status:        status,
			BlockNumber:   pointer.ToUint64(t.Block),
			Confirmations: t.Confirmations,
			CreatedAt:     createdAt,
		})
		if err != nil {
			return err
		}
		if created {
			summary.Created++
			continue
		}

		confirmations := t.Confirmations
		if _, err := s.db.UpdateTransactionStatus(
			t.Hash, status, &confirmations); err != nil {
			return err
		}
		summary.Updated++
	}

	return nil
}

// RecordReceive records an inbound transfer reported out of band,
// idempotent by hash. Returns the row and whether it was newly
// created.
func (s *Service) RecordReceive(ctx context.Context, userID, hash,
	fromAddress, amount, tokenType string) (*data.Transaction, bool, error) {
	if !data.ValidToken(tokenType) {
		return nil, false, &ValidationError{Msg: "unsupported token type"}
	}
	if hash == "" {
		return nil, false, &ValidationError{Msg: "missing transaction hash"}
	}
	if amt, err := eth.ToBase(amount,
		s.tokenDecimals(tokenType)); err != nil || amt.Sign() <= 0 {
		return nil, false, &ValidationError{
			Msg: "amount must be a positive decimal"}
	}

	wallet, err := s.db.GetWalletByUser(userID)
	if err == repo.ErrNotFound {
		return nil, false, &NotFoundError{Resource: "wallet"}
	}
	if err != nil {
		return nil, false, err
	}

	if existing, err := s.db.GetTransactionByHash(hash); err == nil {
		return existing, false, nil
	} else if err != repo.ErrNotFound {
		return nil, false, err
	}

	tx := &data.Transaction{
		ID:          gen.NewUUID(),
		UserID:      userID,
		WalletID:    wallet.ID,
		Hash:        hash,
		FromAddress: fromAddress,
		ToAddress:   wallet.Address,
		Amount:      amount,
		TokenType:   tokenType,
		Direction:   data.DirectionReceive,
		Status:      data.TxConfirmed,
		ConfirmedAt: pointer.ToTime(time.Now()),
		CreatedAt:   time.Now(),
	}
	created, err := s.db.CreateTransaction(tx)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// Lost a race with the reconciler; return the winner's row.
		existing, err := s.db.GetTransactionByHash(hash)
		return existing, false, err
	}

	s.notify.WalletChanged(userID)

	return tx, true, nil
}
