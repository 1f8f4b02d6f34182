// Package tonchain implements the settlement collaborator interfaces on top
// of tonutils-go liteservers.
package tonchain

import (
	"context"
	"fmt"

	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"ton-exchange/internal/exchange/settlement"
)

// Liteserver is one known-good built-in liteserver endpoint.
type Liteserver struct {
	Addr string
	Key  string
}

type Provider struct {
	pool *liteclient.ConnectionPool
	api  ton.APIClientWrapped
}

// RemoteConfigStrategy connects through liteservers listed in the network
// global config fetched from configURL.
func RemoteConfigStrategy(configURL string) settlement.ConnectFunc {
	return func(ctx context.Context) (settlement.Provider, error) {
		pool := liteclient.NewConnectionPool()
		if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
			return nil, fmt.Errorf("connecting from global config failed: %w", err)
		}
		return newProvider(pool), nil
	}
}

// StaticStrategy connects to a single built-in liteserver.
func StaticStrategy(server Liteserver) settlement.ConnectFunc {
	return func(ctx context.Context) (settlement.Provider, error) {
		pool := liteclient.NewConnectionPool()
		if err := pool.AddConnection(ctx, server.Addr, server.Key); err != nil {
			return nil, fmt.Errorf("connecting to liteserver %s failed: %w", server.Addr, err)
		}
		return newProvider(pool), nil
	}
}

// Strategies bundles the remote-config strategy with one static strategy per
// built-in liteserver, in that order. The dispatcher randomizes the order it
// tries them in.
func Strategies(configURL string, servers []Liteserver) []settlement.ConnectFunc {
	strategies := make([]settlement.ConnectFunc, 0, len(servers)+1)
	strategies = append(strategies, RemoteConfigStrategy(configURL))
	for _, server := range servers {
		strategies = append(strategies, StaticStrategy(server))
	}
	return strategies
}

func newProvider(pool *liteclient.ConnectionPool) *Provider {
	return &Provider{
		pool: pool,
		api:  ton.NewAPIClient(pool).WithRetry(),
	}
}

func (p *Provider) LoadWallet(ctx context.Context, seedWords []string) (settlement.Wallet, error) {
	w, err := wallet.FromSeed(p.api, seedWords, wallet.V4R2)
	if err != nil {
		return nil, fmt.Errorf("deriving wallet from seed failed: %w", err)
	}
	return &Wallet{api: p.api, inner: w}, nil
}

func (p *Provider) Close() {
	p.pool.Stop()
}
