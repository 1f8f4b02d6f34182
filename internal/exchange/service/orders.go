package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ton-exchange/internal/common/gatewayprotocol"
	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/pkg/logging"
)

type GatewayClient interface {
	CreatePaymentLink(ctx context.Context, amount decimal.Decimal, orderID string) (gatewayprotocol.PaymentLink, error)
}

type CreatedOrder struct {
	Order      ledger.Order
	PaymentURL string
}

type Orders struct {
	ledger  *ledger.Ledger
	gateway GatewayClient
	rate    decimal.Decimal
	logger  *logging.ZapLogger
}

func NewOrders(orderLedger *ledger.Ledger, gateway GatewayClient, rate decimal.Decimal, logger *logging.ZapLogger) *Orders {
	return &Orders{
		ledger:  orderLedger,
		gateway: gateway,
		rate:    rate,
		logger:  logger,
	}
}

// CreatePayment reserves an order and asks the gateway for a payment link.
// A gateway failure buries the order as Failed; nothing was charged yet, so
// the caller simply retries with a new order.
func (o *Orders) CreatePayment(ctx context.Context, fiatAmount decimal.Decimal, destinationAddress string) (CreatedOrder, error) {
	order, err := o.ledger.Create(fiatAmount, destinationAddress, o.rate)
	if err != nil {
		return CreatedOrder{}, err
	}

	link, err := o.gateway.CreatePaymentLink(ctx, order.FiatAmount, order.ID)
	if err != nil {
		if _, failErr := o.ledger.MarkFailed(order.ID, "payment link creation failed"); failErr != nil {
			o.logger.ErrorCtx(ctx, "Failed to mark order failed", zap.Error(failErr))
		}
		return CreatedOrder{}, fmt.Errorf("creating payment link failed: %w", err)
	}

	if err := o.ledger.SetGatewayPayment(order.ID, link.ID); err != nil {
		return CreatedOrder{}, fmt.Errorf("storing gateway payment id failed: %w", err)
	}
	order.GatewayPaymentID = link.ID

	o.logger.InfoCtx(ctx, "Order created",
		zap.String("orderID", order.ID),
		zap.String("paymentID", link.ID),
		zap.String("fiatAmount", order.FiatAmount.String()),
		zap.String("settlementAmount", order.SettlementAmount.String()),
	)
	return CreatedOrder{Order: order, PaymentURL: link.URL}, nil
}
