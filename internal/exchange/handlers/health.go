package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ton-exchange/internal/common/clientprotocol"
	"ton-exchange/pkg/logging"
)

const serviceVersion = "1.0.0"

type HealthHandler struct {
	rate   decimal.Decimal
	logger *logging.ZapLogger
}

func NewHealthHandler(rate decimal.Decimal, logger *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{
		rate:   rate,
		logger: logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := clientprotocol.HealthResponse{
		Status:  "TON Exchange API is running",
		Version: serviceVersion,
		TonRate: h.rate.InexactFloat64(),
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing health response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
