// Package proc runs the background reconciliation tasks: periodic
// balance refresh across all wallets and a sweep that promotes pending
// transactions once they pass the confirmation threshold.
package proc

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vigneshbunny/crypto-pay/config"
	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/eth"
	"github.com/vigneshbunny/crypto-pay/repo"
	"github.com/vigneshbunny/crypto-pay/service"
)

const sweepBatchSize = 100

// Scheduler is the background task scheduler.
type Scheduler struct {
	cfg    *config.Config
	db     *repo.Repository
	svc    *service.Service
	gw     eth.GatewayClient
	cancel context.CancelFunc
	ctx    context.Context
	logger zerolog.Logger

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler bound to ctx.
func NewScheduler(ctx context.Context, cfg *config.Config,
	db *repo.Repository, svc *service.Service, gw eth.GatewayClient,
	logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)

	return &Scheduler{
		cfg:    cfg,
		db:     db,
		svc:    svc,
		gw:     gw,
		cancel: cancel,
		ctx:    ctx,
		logger: logger.With().Str("component", "proc").Logger(),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)

	go s.refreshBalances()
	go s.sweepPending()
}

// Close stops the scheduler and waits for running tasks.
func (s *Scheduler) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) refreshBalances() {
	defer s.wg.Done()

	tic := time.NewTicker(time.Millisecond *
		time.Duration(s.cfg.Proc.RefreshPause))
	defer tic.Stop()

	for {
		select {
		case <-tic.C:
			if err := s.refreshAll(); err != nil {
				s.logger.Error().Err(err).
					Msg("balance refresh cycle failed")
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) refreshAll() error {
	wallets, err := s.db.ListWallets()
	if err != nil {
		return err
	}

	for _, w := range wallets {
		select {
		case <-s.ctx.Done():
			return nil
		default:
		}

		if _, err := s.svc.RefreshBalances(s.ctx, w.UserID); err != nil {
			s.logger.Warn().Err(err).Str("wallet", w.ID).
				Msg("failed to refresh wallet balances")
		}
	}

	return nil
}

func (s *Scheduler) sweepPending() {
	defer s.wg.Done()

	tic := time.NewTicker(time.Millisecond *
		time.Duration(s.cfg.Proc.SweepPause))
	defer tic.Stop()

	for {
		select {
		case <-tic.C:
			if err := s.sweep(); err != nil {
				s.logger.Error().Err(err).
					Msg("confirmation sweep failed")
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// sweep re-checks every pending transaction against the ledger and
// confirms those past the threshold. Status updates go through the
// repository's monotonic transition rule.
func (s *Scheduler) sweep() error {
	pending, err := s.db.ListPendingTransactions(sweepBatchSize)
	if err != nil {
		return err
	}

	for _, tx := range pending {
		select {
		case <-s.ctx.Done():
			return nil
		default:
		}

		confirmations, err := s.gw.Confirmations(s.ctx, tx.Hash)
		if err != nil {
			s.logger.Warn().Err(err).Str("hash", tx.Hash).
				Msg("confirmation query failed")
			continue
		}

		status := data.TxPending
		if confirmations >= s.cfg.Eth.Confirmations {
			status = data.TxConfirmed
		}

		if status == tx.Status && confirmations <= tx.Confirmations {
			continue
		}

		if _, err := s.db.UpdateTransactionStatus(
			tx.Hash, status, &confirmations); err != nil {
			s.logger.Warn().Err(err).Str("hash", tx.Hash).
				Msg("failed to update transaction status")
			continue
		}

		if status == data.TxConfirmed {
			s.logger.Info().Str("hash", tx.Hash).
				Uint64("confirmations", confirmations).
				Msg("transaction confirmed")
			s.svc.NotifyUser(tx.UserID)
		}
	}

	return nil
}
