package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ton-exchange/internal/common/clientprotocol"
	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/pkg/logging"
)

type ReconciliationService interface {
	CheckAndSettle(ctx context.Context, orderID, gatewayPaymentID string) (ledger.Order, error)
	ForceCheck(ctx context.Context, orderID, gatewayPaymentID string) (ledger.Order, error)
}

type PaymentCheckHandler struct {
	service ReconciliationService
	logger  *logging.ZapLogger
}

func NewPaymentCheckHandler(service ReconciliationService, logger *logging.ZapLogger) *PaymentCheckHandler {
	return &PaymentCheckHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("id")
	orderID := r.URL.Query().Get("order_id")
	if paymentID == "" || orderID == "" {
		writeCheckResponse(w, r, clientprotocol.CheckPaymentResponse{
			Status:  clientprotocol.Error,
			Message: "missing parameters",
		}, h.logger)
		return
	}

	order, err := h.service.CheckAndSettle(r.Context(), orderID, paymentID)
	writeCheckResponse(w, r, checkResponseFor(order, err), h.logger)
}

// checkResponseFor folds the order state and reconciliation error into the
// status triple the front end polls for. The front end expects a 200 with
// status "error" rather than an HTTP error code.
func checkResponseFor(order ledger.Order, err error) clientprotocol.CheckPaymentResponse {
	switch {
	case errors.Is(err, ledger.ErrOrderNotFound):
		return clientprotocol.CheckPaymentResponse{
			Status:  clientprotocol.Error,
			Message: "order not found",
		}
	case err != nil:
		return clientprotocol.CheckPaymentResponse{
			Status:  clientprotocol.Error,
			Message: err.Error(),
		}
	case order.State == ledger.Completed:
		return clientprotocol.CheckPaymentResponse{
			Status:    clientprotocol.Completed,
			Tx:        order.SettlementReceipt,
			TonAmount: order.SettlementAmount.InexactFloat64(),
		}
	default:
		return clientprotocol.CheckPaymentResponse{
			Status: clientprotocol.Pending,
		}
	}
}

func writeCheckResponse(w http.ResponseWriter, r *http.Request, response clientprotocol.CheckPaymentResponse, logger *logging.ZapLogger) {
	if err := tryWriteResponseJSON(w, response); err != nil {
		logger.ErrorCtx(r.Context(), "Error writing check payment response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
