package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ton-exchange/internal/common/clientprotocol"
	"ton-exchange/pkg/logging"
)

type PriceGettingHandler struct {
	rate   decimal.Decimal
	logger *logging.ZapLogger
}

func NewPriceGettingHandler(rate decimal.Decimal, logger *logging.ZapLogger) *PriceGettingHandler {
	return &PriceGettingHandler{
		rate:   rate,
		logger: logger,
	}
}

func (h *PriceGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := clientprotocol.PriceResponse{
		Price: h.rate.InexactFloat64(),
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "Error writing price response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
