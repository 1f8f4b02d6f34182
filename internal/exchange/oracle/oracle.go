// Package oracle decides whether the fiat payment behind an order has
// cleared. It consults the status cache first and falls back to a live
// gateway call, absorbing gateway outages and rate limits along the way.
package oracle

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"ton-exchange/internal/common/gatewayprotocol"
	"ton-exchange/internal/exchange/statuscache"
	"ton-exchange/pkg/logging"
)

type GatewayClient interface {
	FetchStatus(ctx context.Context, paymentID string) (string, error)
}

type Oracle struct {
	cache   *statuscache.Cache
	gateway GatewayClient
	logger  *logging.ZapLogger
}

func New(cache *statuscache.Cache, gateway GatewayClient, logger *logging.ZapLogger) *Oracle {
	return &Oracle{
		cache:   cache,
		gateway: gateway,
		logger:  logger,
	}
}

// IsCleared reports whether the gateway has confirmed the payment as closed.
// Gateway only reports forward-progressing statuses, so a cached "closed" is
// always safe to serve; a cached "opened" at worst delays settlement. With no
// evidence at all the answer is false: the engine never assumes clearance.
func (o *Oracle) IsCleared(ctx context.Context, paymentID string, forceRefresh bool) bool {
	if !forceRefresh {
		if status, fresh, ok := o.cache.Get(paymentID); ok && fresh {
			return cleared(status)
		}
	}

	status, err := o.gateway.FetchStatus(ctx, paymentID)
	if err != nil {
		if cachedStatus, _, ok := o.cache.Get(paymentID); ok {
			o.logger.DebugCtx(ctx, "Gateway fetch failed, serving cached verdict",
				zap.String("paymentID", paymentID),
				zap.String("cachedStatus", cachedStatus),
				zap.Error(err),
			)
			return cleared(cachedStatus)
		}
		o.logger.WarnCtx(ctx, "Gateway fetch failed with no cached status, treating payment as pending",
			zap.String("paymentID", paymentID),
			zap.Error(err),
		)
		return false
	}

	normalized := strings.ToLower(status)
	o.cache.Put(paymentID, normalized)
	return cleared(normalized)
}

func cleared(status string) bool {
	return status == string(gatewayprotocol.Closed)
}
