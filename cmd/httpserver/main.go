package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/maci-signup/api/enrollmenthandler"
	"github.com/ruteri/maci-signup/cmd/flags"
	"github.com/ruteri/maci-signup/enrollment"
	"github.com/ruteri/maci-signup/httpserver"
	"github.com/ruteri/maci-signup/metrics"
	"github.com/ruteri/maci-signup/registry"
	"github.com/urfave/cli/v2"
)

var flagListenAddr = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}

func main() {
	appFlags := []cli.Flag{
		flags.RpcAddrFlag,
		flagListenAddr,
		flags.ArchiveFlag,
		flags.LogServiceFlagFn("maci-signup-relayer"),
	}
	appFlags = append(appFlags, flags.CommonFlags...)
	appFlags = append(appFlags, flags.SignerFlags...)

	app := &cli.App{
		Name:   "maci-signup-relayer",
		Usage:  "Relay MACI sign-ups and serve registration lookups",
		Flags:  appFlags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)
	cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flagListenAddr.Name))

	rpcAddress := cCtx.String(flags.RpcAddrFlag.Name)
	logger.Info("Connecting to Ethereum RPC", "address", rpcAddress)
	ethClient, err := ethclient.Dial(rpcAddress)
	if err != nil {
		logger.Error("Failed to dial RPC", "err", err)
		return err
	}
	defer ethClient.Close()

	metricsSrv, err := metrics.New(cfg.MetricsAddr)
	if err != nil {
		logger.Error("Failed to create metrics server", "err", err)
		return err
	}

	registryFactory := registry.NewRegistryFactory(ethClient, ethClient)
	service := enrollment.NewService(registryFactory, enrollment.NewSlogPresenter(logger), logger).
		WithMetrics(metricsSrv.SignUps())
	handler := enrollmenthandler.NewHandler(service, logger)

	auth, err := flags.SetupSigner(cCtx, ethClient)
	switch {
	case errors.Is(err, flags.ErrNoSigner):
		logger.Warn("No relayer key configured, only lookups are served")
	case err != nil:
		logger.Error("Failed to configure relayer signer", "err", err)
		return err
	default:
		logger.Info("Relaying sign-ups", "account", auth.From.Hex())
		handler.WithSigner(auth)
	}

	archive, err := flags.SetupArchive(cCtx, logger)
	if err != nil {
		logger.Error("Failed to configure receipt archive", "err", err)
		return err
	}
	if archive != nil {
		logger.Info("Archiving receipts", "backend", archive.Backend().Name())
		handler.WithArchive(archive)
	}

	server, err := httpserver.New(cfg, handler, metricsSrv)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Starting server")
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}
