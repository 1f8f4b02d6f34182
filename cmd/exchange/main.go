package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"ton-exchange/cmd/exchange/config"
	"ton-exchange/internal/exchange"
	"ton-exchange/internal/exchange/gateway"
	"ton-exchange/internal/exchange/ledger"
	"ton-exchange/internal/exchange/oracle"
	"ton-exchange/internal/exchange/service"
	"ton-exchange/internal/exchange/settlement"
	"ton-exchange/internal/exchange/statuscache"
	"ton-exchange/internal/exchange/tonchain"
	"ton-exchange/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(zapcore.DebugLevel)
	if err != nil {
		log.Fatal(err)
	}

	orderLedger := ledger.New(cfg.MinOrderAmount)
	cache := statuscache.New(cfg.CacheTTL)
	gatewayClient := gateway.NewClient(cfg.Gateway, logger)
	statusOracle := oracle.New(cache, gatewayClient, logger)
	dispatcher := settlement.NewDispatcher(
		cfg.Settlement,
		cfg.SeedPhrase,
		tonchain.Strategies(cfg.TonConfigURL, cfg.Liteservers),
		logger,
	)

	ordersService := service.NewOrders(orderLedger, gatewayClient, cfg.ExchangeRate, logger)
	reconciliationService := service.NewReconciliation(orderLedger, cache, statusOracle, dispatcher, logger)

	server := exchange.New(cfg.Server, cfg.ExchangeRate, ordersService, reconciliationService, logger)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(rootCtx context.Context, cfg *config.Config, server *exchange.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
