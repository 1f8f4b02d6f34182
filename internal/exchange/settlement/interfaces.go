package settlement

import "context"

// Receipt is the proof of a submitted settlement transfer.
type Receipt struct {
	TxHash string
}

// Wallet is the settlement wallet on one connected provider.
type Wallet interface {
	// EnsureDeployed initializes the wallet's on-chain account if needed.
	// Idempotent; safe to call on an already deployed account.
	EnsureDeployed(ctx context.Context) error
	BalanceNano(ctx context.Context) (uint64, error)
	Transfer(ctx context.Context, destinationAddress string, amountNano uint64) (Receipt, error)
}

// Provider is a connected settlement network endpoint.
type Provider interface {
	LoadWallet(ctx context.Context, seedWords []string) (Wallet, error)
	Close()
}

// ConnectFunc is one provider acquisition strategy. The dispatcher tries its
// strategies in randomized order until one connects.
type ConnectFunc func(ctx context.Context) (Provider, error)
