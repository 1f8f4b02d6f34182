package service

import (
	"context"

	"go.uber.org/zap"

	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/internal/exchange/settlement"
	"ton-exchange/internal/exchange/statuscache"
	"ton-exchange/pkg/logging"
	"ton-exchange/pkg/nanoton"
	"ton-exchange/pkg/threadsafe"
)

type StatusOracle interface {
	IsCleared(ctx context.Context, paymentID string, forceRefresh bool) bool
}

type TransferDispatcher interface {
	Transfer(ctx context.Context, destinationAddress string, amountNano uint64) (settlement.Receipt, error)
}

// Reconciliation drives an order from a cleared fiat payment to a settled
// blockchain transfer. Calls for the same order serialize on a per-order
// lock so the dispatcher runs at most once per order; calls for different
// orders never block one another.
type Reconciliation struct {
	ledger     *ledger.Ledger
	cache      *statuscache.Cache
	oracle     StatusOracle
	dispatcher TransferDispatcher
	orderLocks *threadsafe.KeyedMutex[string]
	logger     *logging.ZapLogger
}

func NewReconciliation(
	orderLedger *ledger.Ledger,
	cache *statuscache.Cache,
	statusOracle StatusOracle,
	dispatcher TransferDispatcher,
	logger *logging.ZapLogger,
) *Reconciliation {
	return &Reconciliation{
		ledger:     orderLedger,
		cache:      cache,
		oracle:     statusOracle,
		dispatcher: dispatcher,
		orderLocks: threadsafe.NewKeyedMutex[string](),
		logger:     logger,
	}
}

// CheckAndSettle reports the order's current state, settling it first when
// the oracle confirms the fiat payment cleared. Reading a Completed order is
// idempotent.
func (r *Reconciliation) CheckAndSettle(ctx context.Context, orderID, gatewayPaymentID string) (ledger.Order, error) {
	return r.check(ctx, orderID, gatewayPaymentID, false)
}

// ForceCheck evicts the cached gateway status and re-runs the check against
// a live fetch, for callers that suspect a stale cached verdict.
func (r *Reconciliation) ForceCheck(ctx context.Context, orderID, gatewayPaymentID string) (ledger.Order, error) {
	r.cache.Evict(gatewayPaymentID)
	return r.check(ctx, orderID, gatewayPaymentID, true)
}

func (r *Reconciliation) check(ctx context.Context, orderID, gatewayPaymentID string, forceRefresh bool) (ledger.Order, error) {
	r.orderLocks.Lock(orderID)
	defer r.orderLocks.Unlock(orderID)

	order, err := r.ledger.Get(orderID)
	if err != nil {
		return ledger.Order{}, err
	}
	if order.State == ledger.Completed {
		return order, nil
	}

	r.cache.Sweep()

	if !r.oracle.IsCleared(ctx, gatewayPaymentID, forceRefresh) {
		return order, nil
	}
	if order.State != ledger.Pending {
		return order, nil
	}

	started, err := r.ledger.BeginSettlement(orderID)
	if err != nil {
		return ledger.Order{}, err
	}
	if !started {
		return r.ledger.Get(orderID)
	}

	// Once triggered, the transfer runs to completion or exhausts its retry
	// budget even if the polling client disconnects; only the per-call
	// timeouts inside the dispatcher bound it.
	receipt, err := r.dispatcher.Transfer(context.WithoutCancel(ctx), order.DestinationAddress, nanoton.ToNano(order.SettlementAmount))
	if err != nil {
		// The fiat payment is already captured: keep the order Pending so a
		// later check retries the transfer instead of dropping it.
		r.ledger.AbortSettlement(orderID)
		r.logger.ErrorCtx(ctx, "Settlement dispatch failed, order left pending",
			zap.String("orderID", orderID),
			zap.Error(err),
		)
		return order, err
	}

	completed, err := r.ledger.MarkCompleted(orderID, receipt.TxHash)
	if err != nil {
		return completed, err
	}
	r.logger.InfoCtx(ctx, "Order settled",
		zap.String("orderID", orderID),
		zap.String("tx", receipt.TxHash),
	)
	return completed, nil
}
