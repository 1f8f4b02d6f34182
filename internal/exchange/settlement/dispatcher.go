// Package settlement executes the blockchain leg of an exchange order:
// provider failover, balance verification and the transfer itself, with a
// bounded retry budget.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"ton-exchange/pkg/logging"
	"ton-exchange/pkg/timeutils"
)

// FallbackTxToken is stored in the receipt when the provider's result
// carries no distinguishable transaction hash.
const FallbackTxToken = "submitted"

type Config struct {
	MaxAttempts    int
	AttemptBackoff time.Duration
	ConnectTimeout time.Duration
	FeeReserveNano uint64
	SeedWordCount  int
}

type Dispatcher struct {
	cfg        Config
	seedWords  []string
	strategies []ConnectFunc
	logger     *logging.ZapLogger
}

func NewDispatcher(cfg Config, seedPhrase string, strategies []ConnectFunc, logger *logging.ZapLogger) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		seedWords:  strings.Fields(seedPhrase),
		strategies: strategies,
		logger:     logger,
	}
}

// Transfer sends amountNano to destinationAddress, retrying up to the
// configured attempt budget with a fixed backoff. The caller is responsible
// for invoking it at most once per order.
func (d *Dispatcher) Transfer(ctx context.Context, destinationAddress string, amountNano uint64) (Receipt, error) {
	if len(d.seedWords) != d.cfg.SeedWordCount {
		return Receipt{}, fmt.Errorf("%w: seed phrase must be %d words, got %d",
			ErrInvalidCredential, d.cfg.SeedWordCount, len(d.seedWords))
	}

	var lastErr error
	receipt, err := timeutils.Retry(
		ctx,
		timeutils.FixedDelays(d.cfg.MaxAttempts, d.cfg.AttemptBackoff),
		func(ctx context.Context) (Receipt, error) {
			return d.attempt(ctx, destinationAddress, amountNano)
		},
		func(_ Receipt, err error) bool {
			if err == nil {
				return false
			}
			lastErr = err
			d.logger.WarnCtx(ctx, "Settlement attempt failed", zap.Error(err))
			// A definitive low balance will not change on retry.
			return !errors.Is(err, ErrInsufficientBalance)
		},
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		if errors.Is(lastErr, ErrInsufficientBalance) {
			return Receipt{}, lastErr
		}
		return Receipt{}, fmt.Errorf("%w: %w", ErrSettlementFailed, lastErr)
	}
	return receipt, nil
}

func (d *Dispatcher) attempt(ctx context.Context, destinationAddress string, amountNano uint64) (Receipt, error) {
	provider, err := d.connect(ctx)
	if err != nil {
		return Receipt{}, err
	}
	defer provider.Close()

	wallet, err := provider.LoadWallet(ctx, d.seedWords)
	if err != nil {
		return Receipt{}, fmt.Errorf("loading wallet failed: %w", err)
	}

	if err := wallet.EnsureDeployed(ctx); err != nil {
		return Receipt{}, fmt.Errorf("ensuring wallet deployment failed: %w", err)
	}

	// A failed balance query is an attempt failure, not proof of a low
	// balance.
	balance, err := wallet.BalanceNano(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("balance query failed: %w", err)
	}
	required := amountNano + d.cfg.FeeReserveNano
	if balance < required {
		return Receipt{}, fmt.Errorf("%w: have %d nano, need %d nano", ErrInsufficientBalance, balance, required)
	}

	receipt, err := wallet.Transfer(ctx, destinationAddress, amountNano)
	if err != nil {
		if !errors.Is(err, ErrSeqnoConflict) {
			return Receipt{}, fmt.Errorf("transfer failed: %w", err)
		}
		d.logger.InfoCtx(ctx, "Seqno conflict on transfer, redeploying and retrying once")
		if err := wallet.EnsureDeployed(ctx); err != nil {
			return Receipt{}, fmt.Errorf("redeploy after seqno conflict failed: %w", err)
		}
		receipt, err = wallet.Transfer(ctx, destinationAddress, amountNano)
		if err != nil {
			return Receipt{}, fmt.Errorf("transfer retry after seqno conflict failed: %w", err)
		}
	}

	if receipt.TxHash == "" {
		receipt.TxHash = FallbackTxToken
	}
	return receipt, nil
}

// connect tries the acquisition strategies in randomized order, each within
// the configured timeout, and returns the first provider that connects.
func (d *Dispatcher) connect(ctx context.Context) (Provider, error) {
	for _, i := range rand.Perm(len(d.strategies)) {
		connectCtx, cancel := context.WithTimeout(ctx, d.cfg.ConnectTimeout)
		provider, err := d.strategies[i](connectCtx)
		cancel()
		if err == nil {
			return provider, nil
		}
		d.logger.DebugCtx(ctx, "Provider strategy failed",
			zap.Int("strategy", i),
			zap.Error(err),
		)
	}
	return nil, ErrNoProviderAvailable
}
