package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ton-exchange/internal/exchange/gateway"
	"ton-exchange/internal/exchange/statuscache"
	"ton-exchange/pkg/logging"
)

type fakeGateway struct {
	status string
	err    error
	calls  int
}

func (f *fakeGateway) FetchStatus(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.status, f.err
}

func newTestOracle(gw *fakeGateway) (*Oracle, *statuscache.Cache) {
	cache := statuscache.New(30 * time.Second)
	return New(cache, gw, logging.NewNop()), cache
}

func TestIsClearedFreshCacheHitSkipsGateway(t *testing.T) {
	gw := &fakeGateway{status: "opened"}
	o, cache := newTestOracle(gw)
	cache.Put("pay-1", "closed")

	assert.True(t, o.IsCleared(context.Background(), "pay-1", false))
	assert.Zero(t, gw.calls)
}

func TestIsClearedLiveFetchNormalizesAndCaches(t *testing.T) {
	gw := &fakeGateway{status: "Closed"}
	o, cache := newTestOracle(gw)

	assert.True(t, o.IsCleared(context.Background(), "pay-1", false))
	assert.Equal(t, 1, gw.calls)

	status, fresh, ok := cache.Get("pay-1")
	assert.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, "closed", status)
}

func TestIsClearedRateLimitFallsBackToCache(t *testing.T) {
	gw := &fakeGateway{err: gateway.ErrRateLimited}
	o, cache := newTestOracle(gw)
	cache.Put("pay-1", "closed")

	assert.True(t, o.IsCleared(context.Background(), "pay-1", true))
}

func TestIsClearedGatewayDownWithCachedPending(t *testing.T) {
	gw := &fakeGateway{err: gateway.ErrUnavailable}
	o, cache := newTestOracle(gw)
	cache.Put("pay-1", "opened")

	assert.False(t, o.IsCleared(context.Background(), "pay-1", true))
}

func TestIsClearedGatewayDownWithoutCacheIsPending(t *testing.T) {
	gw := &fakeGateway{err: gateway.ErrUnavailable}
	o, _ := newTestOracle(gw)

	// absence of evidence is never clearance
	assert.False(t, o.IsCleared(context.Background(), "pay-1", false))
}

func TestIsClearedForceRefreshBypassesFreshEntry(t *testing.T) {
	gw := &fakeGateway{status: "closed"}
	o, cache := newTestOracle(gw)
	cache.Put("pay-1", "opened")

	assert.True(t, o.IsCleared(context.Background(), "pay-1", true))
	assert.Equal(t, 1, gw.calls)
}

func TestIsClearedNonClosedStatus(t *testing.T) {
	gw := &fakeGateway{status: "declined"}
	o, _ := newTestOracle(gw)

	assert.False(t, o.IsCleared(context.Background(), "pay-1", false))
}
