package settlement

import "errors"

var (
	ErrNoProviderAvailable = errors.New("no settlement network provider available")
	ErrInvalidCredential   = errors.New("invalid settlement credential")
	ErrInsufficientBalance = errors.New("insufficient settlement wallet balance")
	ErrSettlementFailed    = errors.New("settlement failed")

	// ErrSeqnoConflict is returned by a Wallet when the account's transaction
	// counter advanced between read and submit. The race is benign and the
	// dispatcher retries the transfer once inline.
	ErrSeqnoConflict = errors.New("wallet seqno advanced concurrently")
)
