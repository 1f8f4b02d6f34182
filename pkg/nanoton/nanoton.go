package nanoton

import "github.com/shopspring/decimal"

// One nanoTON is 1e-9 TON.
const Decimals = 9

var nanoPerTon = decimal.New(1, Decimals)

// ToNano converts a TON amount to whole nanoTON units, truncating any
// precision below one nanoTON.
func ToNano(ton decimal.Decimal) uint64 {
	return uint64(ton.Mul(nanoPerTon).IntPart())
}

// FromNano converts nanoTON units back to a TON amount.
func FromNano(nano uint64) decimal.Decimal {
	return decimal.New(int64(nano), -Decimals)
}
