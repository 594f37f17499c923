package service

import (
	"context"
	"math/big"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/pkg/errors"

	"github.com/vigneshbunny/crypto-pay/data"
	"github.com/vigneshbunny/crypto-pay/eth"
	"github.com/vigneshbunny/crypto-pay/gen"
	"github.com/vigneshbunny/crypto-pay/repo"
)

// Send validates, funds-checks, signs and submits an outbound
// transfer, then records it as a pending transaction. There is no
// automatic retry: a ledger transfer is not safely idempotent, so
// retries are client-initiated re-submissions.
func (s *Service) Send(ctx context.Context, userID, recipient, amount,
	tokenType string) (*data.Transaction, error) {
	if !data.ValidToken(tokenType) {
		return nil, &ValidationError{Msg: "unsupported token type"}
	}

	decimals := s.tokenDecimals(tokenType)
	amt, err := eth.ToBase(amount, decimals)
	if err != nil || amt.Sign() <= 0 {
		return nil, &ValidationError{Msg: "amount must be a positive decimal"}
	}

	if !s.gw.ValidateAddress(recipient) {
		return nil, &InvalidAddressError{Address: recipient}
	}

	wallet, err := s.db.GetWalletByUser(userID)
	if err == repo.ErrNotFound {
		return nil, &NotFoundError{Resource: "wallet"}
	}
	if err != nil {
		return nil, err
	}

	fee, err := s.EstimateFee(ctx, tokenType)
	if err != nil {
		return nil, errors.Wrap(err, "estimate fee")
	}

	if err := s.checkSolvency(ctx, wallet.Address, amt, fee,
		tokenType); err != nil {
		return nil, err
	}

	// Fatal on failure: the key must never be used when its
	// integrity is in doubt.
	privateKey, err := s.vault.Decrypt(wallet.PrivateKeyEncrypted)
	if err != nil {
		return nil, err
	}

	var result *eth.SubmitResult
	if tokenType == data.TokenETH {
		result, err = s.gw.SendNative(ctx, privateKey, recipient, amount)
	} else {
		result, err = s.gw.SendToken(ctx, privateKey, recipient, amount)
	}
	if err != nil {
		return nil, errors.Wrap(err, "submit transfer")
	}
	if !result.Success {
		return nil, &TransferRejectedError{Reason: result.Error}
	}

	tx := &data.Transaction{
		ID:          gen.NewUUID(),
		UserID:      userID,
		WalletID:    wallet.ID,
		Hash:        result.Hash,
		FromAddress: wallet.Address,
		ToAddress:   recipient,
		Amount:      amount,
		TokenType:   tokenType,
		Direction:   data.DirectionSend,
		Status:      data.TxPending,
		Fee:         pointer.ToString(fee.String()),
		CreatedAt:   time.Now(),
	}
	if _, err := s.db.CreateTransaction(tx); err != nil {
		// The transfer is on chain but the local record failed; the
		// reconciler will pick it up on the next scan.
		return nil, errors.Wrap(err, "record pending transaction")
	}

	s.notify.WalletChanged(userID)

	return tx, nil
}

// checkSolvency verifies live balances cover principal and fee. The
// fee is always paid in the native coin; token sends therefore check
// both balances. Range fees are checked against their upper bound.
func (s *Service) checkSolvency(ctx context.Context, address string,
	amt *big.Int, fee *eth.Fee, tokenType string) error {
	feeAmt, err := eth.ToBase(fee.UpperBound(), s.cfg.Eth.NativeDecimals)
	if err != nil {
		return errors.Wrap(err, "parse fee estimate")
	}

	nativeStr, err := s.gw.NativeBalance(ctx, address)
	if err != nil {
		return errors.Wrap(err, "query native balance")
	}
	native, err := eth.ToBase(nativeStr, s.cfg.Eth.NativeDecimals)
	if err != nil {
		return errors.Wrap(err, "parse native balance")
	}

	if tokenType == data.TokenETH {
		if amt.Cmp(native) > 0 {
			return &InsufficientFundsError{
				Reason: ReasonPrincipal, Token: tokenType}
		}
		if new(big.Int).Add(amt, feeAmt).Cmp(native) > 0 {
			return &InsufficientFundsError{
				Reason: ReasonFee, Token: tokenType}
		}
		return nil
	}

	tokenStr, err := s.gw.TokenBalance(ctx, address)
	if err != nil {
		return errors.Wrap(err, "query token balance")
	}
	token, err := eth.ToBase(tokenStr, s.cfg.Eth.TokenDecimals)
	if err != nil {
		return errors.Wrap(err, "parse token balance")
	}

	if amt.Cmp(token) > 0 {
		return &InsufficientFundsError{
			Reason: ReasonPrincipal, Token: tokenType}
	}
	if feeAmt.Cmp(native) > 0 {
		return &InsufficientFundsError{
			Reason: ReasonFee, Token: tokenType}
	}

	return nil
}

func (s *Service) tokenDecimals(tokenType string) int {
	if tokenType == data.TokenUSDT {
		return s.cfg.Eth.TokenDecimals
	}
	return s.cfg.Eth.NativeDecimals
}
