package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ton-exchange/internal/common/clientprotocol"
	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/internal/exchange/service"
	"ton-exchange/pkg/logging"
)

type PaymentCreationService interface {
	CreatePayment(ctx context.Context, fiatAmount decimal.Decimal, destinationAddress string) (service.CreatedOrder, error)
}

type PaymentCreationHandler struct {
	service PaymentCreationService
	logger  *logging.ZapLogger
}

func NewPaymentCreationHandler(service PaymentCreationService, logger *logging.ZapLogger) *PaymentCreationHandler {
	return &PaymentCreationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	request, err := decodeJSON[clientprotocol.CreatePaymentRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "Malformed create payment request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed request body", h.logger, r)
		return
	}

	amount := decimal.NewFromFloat(request.RubAmount)
	if amount.LessThanOrEqual(decimal.Zero) || request.UserAddress == "" {
		writeError(w, http.StatusBadRequest, "rub_amount and user_address are required", h.logger, r)
		return
	}

	created, err := h.service.CreatePayment(r.Context(), amount, request.UserAddress)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error(), h.logger, r)
		return
	case err != nil:
		h.logger.ErrorCtx(r.Context(), "Failed to create payment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error(), h.logger, r)
		return
	}

	response := clientprotocol.CreatePaymentResponse{
		URL:       created.PaymentURL,
		PaymentID: created.Order.GatewayPaymentID,
		OrderID:   created.Order.ID,
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing create payment response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string, logger *logging.ZapLogger, r *http.Request) {
	res, err := json.Marshal(clientprotocol.ErrorResponse{Error: message})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(res); err != nil {
		logger.ErrorCtx(r.Context(), "Error writing error response", zap.Error(err))
	}
}
