package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arbscout/api"
	"arbscout/internal/config"
	"arbscout/internal/database"
	"arbscout/internal/tools"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	scanMin   float64
	scanFees  bool
	scanCoins []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arbscout",
		Short: "Cross-venue crypto arbitrage scanner",
		Long:  `Quotes tokens across on-chain and centralized venues, detects price gaps and simulates trades against them`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".", "config file or directory containing config.yaml")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the operations over HTTP",
		RunE:  runServe,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch quotes once, detect opportunities and print them as JSON",
		RunE:  runScan,
	}
	scanCmd.Flags().Float64Var(&scanMin, "min-profit", tools.DefaultMinProfitPercent, "minimum net profit percent")
	scanCmd.Flags().BoolVar(&scanFees, "fees", tools.DefaultIncludeFees, "deduct venue fees")
	scanCmd.Flags().StringSliceVar(&scanCoins, "tokens", []string{"ETH", "BTC", "SOL"}, "tokens to quote")

	rootCmd.AddCommand(serveCmd, scanCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// setup loads config and wires the toolkit. The returned func releases the ledger.
func setup(ctx context.Context) (*tools.Toolkit, *slog.Logger, config.Config, func(), error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, cfg, nil, fmt.Errorf("cannot load config: %w", err)
	}
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	var ledger database.Repository = database.NewMemoryRepository()
	closeLedger := func() {}
	if cfg.Database.Enabled {
		pg, err := database.NewPostgresRepository(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, cfg, nil, fmt.Errorf("connect ledger: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, cfg, nil, fmt.Errorf("migrate ledger: %w", err)
		}
		ledger = pg
		closeLedger = pg.Close
		logger.Info("Using PostgreSQL trade ledger", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	}

	tk, err := tools.New(logger, cfg, ledger, tools.Options{})
	if err != nil {
		closeLedger()
		return nil, nil, cfg, nil, err
	}
	return tk, logger, cfg, closeLedger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tk, logger, cfg, closeLedger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()

	srv := api.NewAPIHandler(tk, logger).NewServer(cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("API server stopped")
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tk, _, _, closeLedger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()

	fetch := tools.FetchPricesParams{Tokens: scanCoins}
	if _, err := tk.FetchDexPrices(ctx, fetch); err != nil {
		return err
	}
	if _, err := tk.FetchCexPrices(ctx, fetch); err != nil {
		return err
	}
	res, err := tk.DetectArbitrage(ctx, tools.DetectParams{MinProfitPercent: scanMin, IncludeFees: scanFees})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
