package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stableTvl/internal/aggregate"
	"stableTvl/internal/chain"
	"stableTvl/internal/config"
	"stableTvl/internal/dex"
	"stableTvl/internal/price"
)

func main() {
	root := &cobra.Command{
		Use:          "tvlapi",
		Short:        "Stableswap TVL and LP holdings API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			return config.LoadDotenv(envFile)
		},
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the TVL API over HTTP",
		RunE:  runServe,
	}
	addCommonFlags(serveCmd)
	serveCmd.Flags().Int("port", 3000, "HTTP listen port")

	root.AddCommand(serveCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Compute pool and user TVL once and persist it",
		RunE:  runSnapshot,
	}
	addCommonFlags(snapshotCmd)
	snapshotCmd.Flags().String("out", "", "output snapshots JSONL")
	snapshotCmd.Flags().String("pg-dsn", "", "Postgres DSN")

	root.AddCommand(snapshotCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc-url", "", "toncenter v3 REST base URL (jetton holders)")
	cmd.Flags().String("ton-v4-api-url", "", "TON v4 HTTP API base URL (get methods)")
	cmd.Flags().String("price-api-url", price.DefaultEndpoint, "DeDust GraphQL endpoint")
	cmd.Flags().Duration("http-timeout", chain.DefaultTimeout, "timeout of upstream HTTP calls")
	cmd.Flags().Int("holders-page-size", chain.DefaultPageSize, "jetton wallets per indexer page")
	cmd.Flags().String("triton-address", config.DefaultTritonAddress, "3TON pool address")
	cmd.Flags().String("aquausd-usdt-address", config.DefaultAquaUSDUSDTAddress, "AquaUSD/USDT pool address")
	cmd.Flags().String("done-usdt-address", config.DefaultDoneUSDTAddress, "DONE/USDT pool address")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newEngine(cfg config.Config, reg prometheus.Registerer, logger *zap.Logger) (*aggregate.Engine, error) {
	poolReader, err := chain.NewClient(cfg.TonV4APIURL, cfg.HTTPTimeout, logger.Named("v4"))
	if err != nil {
		return nil, fmt.Errorf("ton v4 client: %w", err)
	}
	indexer, err := chain.NewIndexer(cfg.RPCURL, cfg.HoldersPageSize, cfg.HTTPTimeout, logger.Named("indexer"))
	if err != nil {
		return nil, fmt.Errorf("indexer client: %w", err)
	}
	prices := price.NewClient(cfg.PriceAPIURL, cfg.HTTPTimeout, logger.Named("price"))

	return aggregate.NewEngine(aggregate.Config{
		Pools:      cfg.Pools,
		LPMetadata: dex.LPMetadata,
		Metadata:   dex.LookupJetton,
		Registerer: reg,
	}, poolReader, indexer, prices, logger.Named("engine"))
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
