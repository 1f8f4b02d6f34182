package tonchain

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"ton-exchange/internal/exchange/settlement"
)

type Wallet struct {
	api   ton.APIClientWrapped
	inner *wallet.Wallet
}

func (w *Wallet) BalanceNano(ctx context.Context) (uint64, error) {
	master, err := w.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting masterchain info failed: %w", err)
	}
	balance, err := w.inner.GetBalance(ctx, master)
	if err != nil {
		return 0, fmt.Errorf("getting wallet balance failed: %w", err)
	}
	return balance.Nano().Uint64(), nil
}

// EnsureDeployed initializes the wallet contract if the account is not yet
// active. Deployment on TON rides on an outgoing message carrying the state
// init, so an inactive account is deployed by a zero-value transfer to self.
func (w *Wallet) EnsureDeployed(ctx context.Context) error {
	master, err := w.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return fmt.Errorf("getting masterchain info failed: %w", err)
	}
	account, err := w.api.GetAccount(ctx, master, w.inner.WalletAddress())
	if err != nil {
		return fmt.Errorf("getting wallet account failed: %w", err)
	}
	if account.IsActive {
		return nil
	}
	deploy, err := w.inner.BuildTransfer(w.inner.WalletAddress(), tlb.MustFromTON("0"), false, "")
	if err != nil {
		return fmt.Errorf("building deploy message failed: %w", err)
	}
	if err := w.inner.Send(ctx, deploy, true); err != nil {
		return fmt.Errorf("sending deploy message failed: %w", err)
	}
	return nil
}

func (w *Wallet) Transfer(ctx context.Context, destinationAddress string, amountNano uint64) (settlement.Receipt, error) {
	to, err := address.ParseAddr(destinationAddress)
	if err != nil {
		return settlement.Receipt{}, fmt.Errorf("parsing destination address failed: %w", err)
	}
	transfer, err := w.inner.BuildTransfer(to, tlb.FromNanoTONU(amountNano), false, "")
	if err != nil {
		return settlement.Receipt{}, fmt.Errorf("building transfer failed: %w", err)
	}
	seqnoUsed, seqnoErr := w.seqno(ctx)
	tx, _, err := w.inner.SendWaitTransaction(ctx, transfer)
	if err != nil {
		if seqnoErr != nil {
			return settlement.Receipt{}, fmt.Errorf("sending transfer failed: %w", err)
		}
		seqnoNow, nowErr := w.seqno(ctx)
		return settlement.Receipt{}, classifySendErr(err, seqnoUsed, seqnoNow, nowErr == nil)
	}
	if tx == nil || len(tx.Hash) == 0 {
		return settlement.Receipt{}, nil
	}
	return settlement.Receipt{TxHash: base64.StdEncoding.EncodeToString(tx.Hash)}, nil
}

func (w *Wallet) seqno(ctx context.Context) (uint64, error) {
	master, err := w.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting masterchain info failed: %w", err)
	}
	res, err := w.api.RunGetMethod(ctx, master, w.inner.WalletAddress(), "seqno")
	if err != nil {
		return 0, fmt.Errorf("reading wallet seqno failed: %w", err)
	}
	value, err := res.Int(0)
	if err != nil {
		return 0, fmt.Errorf("decoding wallet seqno failed: %w", err)
	}
	return value.Uint64(), nil
}

// classifySendErr maps a failed submit to the dispatcher's distinguished
// seqno-conflict error only when the wallet's transaction counter is known
// to have moved past the value the message was built with. A message built
// with an outdated counter can never be accepted by the contract, so only
// then is a fresh send safe; any murkier failure (counter unchanged or
// unreadable) must not be resent inline, since the original message may
// still land.
func classifySendErr(err error, seqnoUsed, seqnoNow uint64, seqnoKnown bool) error {
	if seqnoKnown && seqnoNow > seqnoUsed {
		return fmt.Errorf("%w: %v", settlement.ErrSeqnoConflict, err)
	}
	return fmt.Errorf("sending transfer failed: %w", err)
}
