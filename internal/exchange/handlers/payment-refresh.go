package handlers

import (
	"net/http"

	"ton-exchange/internal/common/clientprotocol"
	"ton-exchange/pkg/logging"
)

// PaymentRefreshHandler is the operator escape hatch for a suspected stale
// cached verdict: it bypasses the cache freshness short-circuit and checks
// the gateway live.
type PaymentRefreshHandler struct {
	service ReconciliationService
	logger  *logging.ZapLogger
}

func NewPaymentRefreshHandler(service ReconciliationService, logger *logging.ZapLogger) *PaymentRefreshHandler {
	return &PaymentRefreshHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentRefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("id")
	orderID := r.URL.Query().Get("order_id")
	if paymentID == "" || orderID == "" {
		writeCheckResponse(w, r, clientprotocol.CheckPaymentResponse{
			Status:  clientprotocol.Error,
			Message: "missing parameters",
		}, h.logger)
		return
	}

	order, err := h.service.ForceCheck(r.Context(), orderID, paymentID)
	writeCheckResponse(w, r, checkResponseFor(order, err), h.logger)
}
