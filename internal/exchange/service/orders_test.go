package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ton-exchange/internal/common/gatewayprotocol"
	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/pkg/logging"
)

type fakeGateway struct {
	link gatewayprotocol.PaymentLink
	err  error
}

func (f *fakeGateway) CreatePaymentLink(_ context.Context, _ decimal.Decimal, _ string) (gatewayprotocol.PaymentLink, error) {
	return f.link, f.err
}

func TestCreatePayment(t *testing.T) {
	orderLedger := ledger.New(decimal.NewFromInt(10))
	gw := &fakeGateway{link: gatewayprotocol.PaymentLink{ID: "pay-1", URL: "https://gw/pay-1"}}
	orders := NewOrders(orderLedger, gw, decimal.NewFromInt(250), logging.NewNop())

	created, err := orders.CreatePayment(context.Background(), decimal.NewFromInt(1000), "addrX")
	require.NoError(t, err)
	assert.Equal(t, "https://gw/pay-1", created.PaymentURL)
	assert.Equal(t, "pay-1", created.Order.GatewayPaymentID)
	assert.True(t, created.Order.SettlementAmount.Equal(decimal.NewFromInt(4)))

	stored, err := orderLedger.Get(created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Pending, stored.State)
	assert.Equal(t, "pay-1", stored.GatewayPaymentID)
}

func TestCreatePaymentBelowMinimum(t *testing.T) {
	orderLedger := ledger.New(decimal.NewFromInt(10))
	orders := NewOrders(orderLedger, &fakeGateway{}, decimal.NewFromInt(250), logging.NewNop())

	_, err := orders.CreatePayment(context.Background(), decimal.NewFromInt(5), "addrX")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestCreatePaymentGatewayFailure(t *testing.T) {
	orderLedger := ledger.New(decimal.NewFromInt(10))
	gw := &fakeGateway{err: errors.New("gateway 500")}
	orders := NewOrders(orderLedger, gw, decimal.NewFromInt(250), logging.NewNop())

	_, err := orders.CreatePayment(context.Background(), decimal.NewFromInt(1000), "addrX")
	assert.Error(t, err)
}
