package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ton-exchange/internal/common/clientprotocol"
	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/internal/exchange/service"
	"ton-exchange/internal/exchange/settlement"
	"ton-exchange/pkg/logging"
)

type fakeCreationService struct {
	created service.CreatedOrder
	err     error
}

func (f *fakeCreationService) CreatePayment(_ context.Context, _ decimal.Decimal, _ string) (service.CreatedOrder, error) {
	return f.created, f.err
}

type fakeReconciliationService struct {
	order      ledger.Order
	err        error
	forceCalls int
}

func (f *fakeReconciliationService) CheckAndSettle(_ context.Context, _, _ string) (ledger.Order, error) {
	return f.order, f.err
}

func (f *fakeReconciliationService) ForceCheck(_ context.Context, _, _ string) (ledger.Order, error) {
	f.forceCalls++
	return f.order, f.err
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPaymentCreationHandler(t *testing.T) {
	svc := &fakeCreationService{
		created: service.CreatedOrder{
			Order: ledger.Order{
				ID:               "order-1",
				GatewayPaymentID: "pay-1",
			},
			PaymentURL: "https://gw/pay-1",
		},
	}
	h := NewPaymentCreationHandler(svc, logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/create-payment",
		strings.NewReader(`{"rub_amount": 1000, "user_address": "addrX"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	response := decodeBody[clientprotocol.CreatePaymentResponse](t, rec)
	assert.Equal(t, "https://gw/pay-1", response.URL)
	assert.Equal(t, "pay-1", response.PaymentID)
	assert.Equal(t, "order-1", response.OrderID)
}

func TestPaymentCreationHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"rub_amount": `},
		{name: "unknown field", body: `{"rub_amount": 100, "user_address": "a", "extra": 1}`},
		{name: "missing address", body: `{"rub_amount": 100}`},
		{name: "non-positive amount", body: `{"rub_amount": 0, "user_address": "a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPaymentCreationHandler(&fakeCreationService{}, logging.NewNop())
			req := httptest.NewRequest(http.MethodPost, "/create-payment", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPaymentCreationHandlerInvalidAmount(t *testing.T) {
	svc := &fakeCreationService{err: ledger.ErrInvalidAmount}
	h := NewPaymentCreationHandler(svc, logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/create-payment",
		strings.NewReader(`{"rub_amount": 5, "user_address": "addrX"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	response := decodeBody[clientprotocol.ErrorResponse](t, rec)
	assert.NotEmpty(t, response.Error)
}

func TestPaymentCheckHandler(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		order        ledger.Order
		err          error
		expectStatus clientprotocol.PaymentStatus
	}{
		{
			name:         "missing parameters",
			target:       "/check-payment?id=pay-1",
			expectStatus: clientprotocol.Error,
		},
		{
			name:         "order not found",
			target:       "/check-payment?id=pay-1&order_id=order-1",
			err:          ledger.ErrOrderNotFound,
			expectStatus: clientprotocol.Error,
		},
		{
			name:         "pending",
			target:       "/check-payment?id=pay-1&order_id=order-1",
			order:        ledger.Order{State: ledger.Pending},
			expectStatus: clientprotocol.Pending,
		},
		{
			name:   "completed",
			target: "/check-payment?id=pay-1&order_id=order-1",
			order: ledger.Order{
				State:             ledger.Completed,
				SettlementReceipt: "tx-1",
				SettlementAmount:  decimal.NewFromInt(4),
			},
			expectStatus: clientprotocol.Completed,
		},
		{
			name:         "settlement failed",
			target:       "/check-payment?id=pay-1&order_id=order-1",
			err:          settlement.ErrSettlementFailed,
			expectStatus: clientprotocol.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReconciliationService{order: tt.order, err: tt.err}
			h := NewPaymentCheckHandler(svc, logging.NewNop())

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			// the polling front end expects 200 with a status field
			require.Equal(t, http.StatusOK, rec.Code)
			response := decodeBody[clientprotocol.CheckPaymentResponse](t, rec)
			assert.Equal(t, tt.expectStatus, response.Status)
			if tt.expectStatus == clientprotocol.Completed {
				assert.Equal(t, "tx-1", response.Tx)
				assert.Equal(t, 4.0, response.TonAmount)
			}
		})
	}
}

func TestPaymentRefreshHandlerUsesForcePath(t *testing.T) {
	svc := &fakeReconciliationService{order: ledger.Order{State: ledger.Pending}}
	h := NewPaymentRefreshHandler(svc, logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/refresh-payment?id=pay-1&order_id=order-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.forceCalls)
}
