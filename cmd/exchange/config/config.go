package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"ton-exchange/internal/exchange"
	"ton-exchange/internal/exchange/gateway"
	"ton-exchange/internal/exchange/settlement"
	"ton-exchange/internal/exchange/tonchain"
	"ton-exchange/pkg/nanoton"
)

const (
	serverAddressFlag    = "a"
	serverAddressEnv     = "RUN_ADDRESS"
	serverAddressDefault = "localhost:5001"

	gatewayAddressFlag    = "g"
	gatewayAddressEnv     = "WATA_BASE_URL"
	gatewayAddressDefault = "https://api.wata.pro"

	gatewayTokenEnv = "WATA_TOKEN"
	seedPhraseEnv   = "SERVICE_SEED"

	exchangeRateEnv     = "TON_RATE_RUB"
	exchangeRateDefault = "248.05"

	minOrderAmountEnv     = "MIN_ORDER_RUB"
	minOrderAmountDefault = "10"

	tonConfigURLEnv     = "TON_CONFIG_URL"
	tonConfigURLDefault = "https://ton.org/global.config.json"

	feeReserveTonEnv     = "FEE_RESERVE_TON"
	feeReserveTonDefault = "0.05"

	paymentDescription = "RUB to TON exchange"
)

// Known-good mainnet liteservers tried when fetching the remote global
// config fails or loses the strategy shuffle.
var builtinLiteservers = []tonchain.Liteserver{
	{Addr: "135.181.140.212:13206", Key: "K0t3+IWLOXHYMvMcrGZDPs+pn58a17LFbnXoQkKc2xw="},
	{Addr: "5.9.10.47:19949", Key: "n4VDnSCUuSpjnCyUk9e3QOOd6o0ItSWYbTnW3Wnn8wk="},
}

type Config struct {
	Server          exchange.Config
	Gateway         gateway.Config
	Settlement      settlement.Config
	SeedPhrase      string
	TonConfigURL    string
	Liteservers     []tonchain.Liteserver
	ExchangeRate    decimal.Decimal
	MinOrderAmount  decimal.Decimal
	CacheTTL        time.Duration
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	gatewayAddress := flag.String(
		gatewayAddressFlag,
		gatewayAddressDefault,
		"Payment gateway base URL",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(gatewayAddressEnv); ok {
		*gatewayAddress = valStr
	}

	rate, err := decimalFromEnv(exchangeRateEnv, exchangeRateDefault)
	if err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%s must be positive, got %s", exchangeRateEnv, rate)
	}

	minOrderAmount, err := decimalFromEnv(minOrderAmountEnv, minOrderAmountDefault)
	if err != nil {
		return nil, err
	}

	feeReserve, err := decimalFromEnv(feeReserveTonEnv, feeReserveTonDefault)
	if err != nil {
		return nil, err
	}

	tonConfigURL := tonConfigURLDefault
	if valStr, ok := os.LookupEnv(tonConfigURLEnv); ok {
		tonConfigURL = valStr
	}

	return &Config{
		Server: exchange.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
		},
		Gateway: gateway.Config{
			BaseURL:        *gatewayAddress,
			Token:          os.Getenv(gatewayTokenEnv),
			Description:    paymentDescription,
			RequestTimeout: time.Second * 10,
		},
		Settlement: settlement.Config{
			MaxAttempts:    3,
			AttemptBackoff: time.Second * 2,
			ConnectTimeout: time.Second * 10,
			FeeReserveNano: nanoton.ToNano(feeReserve),
			SeedWordCount:  24,
		},
		SeedPhrase:      os.Getenv(seedPhraseEnv),
		TonConfigURL:    tonConfigURL,
		Liteservers:     builtinLiteservers,
		ExchangeRate:    rate,
		MinOrderAmount:  minOrderAmount,
		CacheTTL:        time.Second * 30,
		ShutdownTimeout: time.Second * 5,
	}, nil
}

func decimalFromEnv(env, defaultValue string) (decimal.Decimal, error) {
	valStr := defaultValue
	if fromEnv, ok := os.LookupEnv(env); ok {
		valStr = fromEnv
	}
	val, err := decimal.NewFromString(valStr)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s failed: %w", env, err)
	}
	return val, nil
}
