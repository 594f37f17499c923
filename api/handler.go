// Package api exposes the wallet backend over HTTP and websocket.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vigneshbunny/crypto-pay/notify"
	"github.com/vigneshbunny/crypto-pay/service"
	"github.com/vigneshbunny/crypto-pay/vault"
)

// Machine-readable rejection reasons returned alongside error
// messages.
const (
	reasonValidation            = "validation_error"
	reasonNotFound              = "not_found"
	reasonInvalidAddress        = "invalid_address"
	reasonInsufficientPrincipal = "insufficient_funds_principal"
	reasonInsufficientFee       = "insufficient_funds_fee"
	reasonDecryption            = "decryption_error"
	reasonTransferRejected      = "transfer_rejected"
	reasonDuplicate             = "duplicate_resource"
	reasonInvalidCredentials    = "invalid_credentials"
	reasonGateway               = "gateway_error"
	reasonInternal              = "internal_error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler is the HTTP API handler.
type Handler struct {
	svc    *service.Service
	hub    *notify.Hub
	logger zerolog.Logger
}

// NewHandler creates a handler.
func NewHandler(svc *service.Service, hub *notify.Hub,
	logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		hub:    hub,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Router builds the route table.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Get("/wallet/{userID}", h.getWallet)
		r.Post("/wallet/{userID}/update-balances", h.updateBalances)
		r.Post("/wallet/{userID}/detect-transactions", h.detectTransactions)
		r.Post("/wallet/{userID}/private-key", h.exportPrivateKey)

		r.Post("/transactions/send", h.send)
		r.Get("/transactions/{userID}", h.listTransactions)
		r.Post("/transactions/receive", h.recordReceive)
		r.Post("/transactions/receive-manual", h.recordReceive)
		r.Get("/transactions/hash/{txHash}", h.getTransaction)
		r.Put("/transactions/{txHash}/status", h.updateTransactionStatus)

		r.Get("/gas-fee/{tokenType}", h.gasFee)

		r.Post("/user/{userID}/change-password", h.changePassword)

		r.Get("/ws/{userID}", h.websocket)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	user, wallet, err := h.svc.Register(r.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
		},
		"wallet": map[string]string{
			"address": wallet.Address,
		},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	user, wallet, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := map[string]interface{}{
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
		},
		"wallet": nil,
	}
	if wallet != nil {
		resp["wallet"] = map[string]string{"address": wallet.Address}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getWallet(w http.ResponseWriter, r *http.Request) {
	address, balances, err := h.svc.WalletSummary(
		r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":  address,
		"balances": balances,
	})
}

func (h *Handler) updateBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.RefreshBalances(
		r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, balances)
}

func (h *Handler) detectTransactions(
	w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DetectTransactions(
		r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "transaction detection completed",
		"summary": summary,
	})
}

func (h *Handler) exportPrivateKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	privateKey, err := h.svc.ExportPrivateKey(
		r.Context(), chi.URLParam(r, "userID"), body.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"privateKey": privateKey,
	})
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID           string `json:"userId"`
		RecipientAddress string `json:"recipientAddress"`
		Amount           string `json:"amount"`
		TokenType        string `json:"tokenType"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	tx, err := h.svc.Send(r.Context(), body.UserID,
		body.RecipientAddress, body.Amount, body.TokenType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"hash":        tx.Hash,
		"transaction": tx,
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryUint(r, "limit")
	offset := queryUint(r, "offset")

	txs, err := h.svc.Transactions(
		r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) recordReceive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID      string `json:"userId"`
		TxHash      string `json:"txHash"`
		FromAddress string `json:"fromAddress"`
		Amount      string `json:"amount"`
		TokenType   string `json:"tokenType"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	tx, created, err := h.svc.RecordReceive(r.Context(), body.UserID,
		body.TxHash, body.FromAddress, body.Amount, body.TokenType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	message := "transaction recorded"
	if !created {
		message = "transaction already recorded"
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     message,
		"transaction": tx,
	})
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.TransactionByHash(
		r.Context(), chi.URLParam(r, "txHash"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) updateTransactionStatus(
	w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	tx, err := h.svc.SetTransactionStatus(
		r.Context(), chi.URLParam(r, "txHash"), body.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "transaction status updated",
		"status":  tx.Status,
	})
}

func (h *Handler) gasFee(w http.ResponseWriter, r *http.Request) {
	tokenType := chi.URLParam(r, "tokenType")

	fee, err := h.svc.EstimateFee(r.Context(), tokenType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"fee":       fee.String(),
		"tokenType": tokenType,
	})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	if err := h.svc.ChangePassword(r.Context(),
		chi.URLParam(r, "userID"),
		body.CurrentPassword, body.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "password updated",
	})
}

func (h *Handler) websocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request,
	v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "invalid JSON body",
			"reason":  reasonValidation,
		})
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int,
	v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write response")
	}
}

// writeError maps the error taxonomy to HTTP statuses and
// machine-readable reasons.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	reason := reasonInternal

	var (
		validationErr   *service.ValidationError
		notFoundErr     *service.NotFoundError
		addressErr      *service.InvalidAddressError
		fundsErr        *service.InsufficientFundsError
		rejectedErr     *service.TransferRejectedError
		duplicateErr    *service.DuplicateError
		reconcileErr    *service.ReconciliationError
		decryptionError *vault.DecryptionError
	)

	switch {
	case errors.As(err, &validationErr):
		status, reason = http.StatusBadRequest, reasonValidation
	case errors.As(err, &notFoundErr):
		status, reason = http.StatusNotFound, reasonNotFound
	case errors.As(err, &addressErr):
		status, reason = http.StatusBadRequest, reasonInvalidAddress
	case errors.As(err, &fundsErr):
		status = http.StatusBadRequest
		reason = reasonInsufficientPrincipal
		if fundsErr.Reason == service.ReasonFee {
			reason = reasonInsufficientFee
		}
	case errors.As(err, &rejectedErr):
		status, reason = http.StatusBadRequest, reasonTransferRejected
	case errors.As(err, &duplicateErr):
		status, reason = http.StatusBadRequest, reasonDuplicate
	case errors.As(err, &reconcileErr):
		status, reason = http.StatusBadGateway, reasonGateway
	case errors.As(err, &decryptionError):
		status, reason = http.StatusInternalServerError, reasonDecryption
	case errors.Is(err, service.ErrInvalidCredentials):
		status, reason = http.StatusUnauthorized, reasonInvalidCredentials
	}

	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("request failed")
	}

	h.writeJSON(w, status, map[string]string{
		"message": err.Error(),
		"reason":  reason,
	})
}

func queryUint(r *http.Request, name string) uint64 {
	v, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
