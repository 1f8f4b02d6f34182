// Package ledger owns the in-process order book of the exchange. Orders
// never leave the package by reference: every query returns a value copy.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Pending   State = "PENDING"
	Completed State = "COMPLETED"
	Failed    State = "FAILED"
)

type State string

type Order struct {
	CreatedAt          time.Time
	ID                 string
	GatewayPaymentID   string
	DestinationAddress string
	SettlementReceipt  string
	FailureReason      string
	FiatAmount         decimal.Decimal
	SettlementAmount   decimal.Decimal
	State              State
}

type record struct {
	order    Order
	settling bool
}

type Ledger struct {
	mux       *sync.Mutex
	records   map[string]*record
	minAmount decimal.Decimal
	now       func() time.Time
}

func New(minAmount decimal.Decimal) *Ledger {
	return &Ledger{
		mux:       &sync.Mutex{},
		records:   make(map[string]*record),
		minAmount: minAmount,
		now:       time.Now,
	}
}

// Create validates the fiat amount, fixes the settlement amount at the
// current exchange rate and inserts a Pending order. The settlement amount
// never changes afterwards, even if the configured rate does.
func (l *Ledger) Create(fiatAmount decimal.Decimal, destinationAddress string, rate decimal.Decimal) (Order, error) {
	if fiatAmount.LessThan(l.minAmount) {
		return Order{}, ErrInvalidAmount
	}

	order := Order{
		CreatedAt:          l.now(),
		ID:                 uuid.NewString(),
		DestinationAddress: destinationAddress,
		FiatAmount:         fiatAmount,
		SettlementAmount:   fiatAmount.Div(rate),
		State:              Pending,
	}

	l.mux.Lock()
	defer l.mux.Unlock()
	l.records[order.ID] = &record{order: order}
	return order, nil
}

func (l *Ledger) Get(orderID string) (Order, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	rec, ok := l.records[orderID]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return rec.order, nil
}

// SetGatewayPayment records the payment id the gateway assigned to the order.
func (l *Ledger) SetGatewayPayment(orderID, gatewayPaymentID string) error {
	l.mux.Lock()
	defer l.mux.Unlock()
	rec, ok := l.records[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	rec.order.GatewayPaymentID = gatewayPaymentID
	return nil
}

// BeginSettlement claims the order for a settlement attempt. It reports true
// exactly once per in-flight attempt: a second caller sees false until
// AbortSettlement or a terminal transition releases the claim.
func (l *Ledger) BeginSettlement(orderID string) (bool, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	rec, ok := l.records[orderID]
	if !ok {
		return false, ErrOrderNotFound
	}
	if rec.order.State != Pending || rec.settling {
		return false, nil
	}
	rec.settling = true
	return true, nil
}

// AbortSettlement rolls a failed settlement attempt back to plain Pending so
// a later check may retry the transfer.
func (l *Ledger) AbortSettlement(orderID string) {
	l.mux.Lock()
	defer l.mux.Unlock()
	if rec, ok := l.records[orderID]; ok {
		rec.settling = false
	}
}

// MarkCompleted moves a Pending order to Completed and stores the settlement
// receipt. Calling it on an order that is already Completed is a no-op
// returning the current state; a Failed order cannot complete.
func (l *Ledger) MarkCompleted(orderID, receipt string) (Order, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	rec, ok := l.records[orderID]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	switch rec.order.State {
	case Completed:
		return rec.order, nil
	case Failed:
		return rec.order, ErrInvalidTransition
	}
	rec.order.State = Completed
	rec.order.SettlementReceipt = receipt
	rec.settling = false
	return rec.order, nil
}

// MarkFailed moves a Pending order to Failed. Terminal orders are left
// untouched.
func (l *Ledger) MarkFailed(orderID, reason string) (Order, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	rec, ok := l.records[orderID]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	if rec.order.State != Pending {
		return rec.order, nil
	}
	rec.order.State = Failed
	rec.order.FailureReason = reason
	rec.settling = false
	return rec.order, nil
}
