package flags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/ruteri/maci-signup/api"
	"github.com/ruteri/maci-signup/common"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/storage"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, listenAddr string) *api.HTTPServerConfig {
	cfg := api.DefaultHTTPServerConfig(listenAddr, logger)
	cfg.MetricsAddr = cCtx.String(MetricsAddrFlag.Name)
	cfg.EnablePprof = cCtx.Bool(PprofFlag.Name)
	cfg.DrainDuration = time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second
	cfg.WriteTimeout = time.Duration(cCtx.Int64(WriteTimeoutSecondsFlag.Name)) * time.Second
	return cfg
}

// ChainIDReader is implemented by ethclient.Client.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// ErrNoSigner is returned by SetupSigner when no signer flag is set.
var ErrNoSigner = errors.New("no signer configured: set --private-key or --keystore")

// SetupSigner builds transaction options from either the private key or the
// keystore flags. The chain id is read from the node.
func SetupSigner(cCtx *cli.Context, chain ChainIDReader) (*bind.TransactOpts, error) {
	privateKey := strings.TrimPrefix(strings.TrimSpace(cCtx.String(PrivateKeyFlag.Name)), "0x")
	keystorePath := cCtx.String(KeystoreFlag.Name)

	if privateKey == "" && keystorePath == "" {
		return nil, ErrNoSigner
	}
	if privateKey != "" && keystorePath != "" {
		return nil, errors.New("--private-key and --keystore are mutually exclusive")
	}

	chainID, err := chain.ChainID(cCtx.Context)
	if err != nil {
		return nil, fmt.Errorf("could not read chain id: %w", err)
	}

	if privateKey != "" {
		key, err := crypto.HexToECDSA(privateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return bind.NewKeyedTransactorWithChainID(key, chainID)
	}

	keyJSON, err := os.Open(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("could not open keystore: %w", err)
	}
	defer keyJSON.Close()

	var password string
	if passwordFile := cCtx.String(KeystorePasswordFileFlag.Name); passwordFile != "" {
		raw, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("could not read keystore password: %w", err)
		}
		password = strings.TrimRight(string(raw), "\r\n")
	}

	return bind.NewTransactorWithChainID(keyJSON, password, chainID)
}

// MaciAddress parses the --maci-address flag.
func MaciAddress(cCtx *cli.Context) (interfaces.ContractAddress, error) {
	addr, err := interfaces.NewContractAddressFromHex(cCtx.String(MaciAddressFlag.Name))
	if err != nil {
		return interfaces.ContractAddress{}, fmt.Errorf("could not parse MACI contract address: %w", err)
	}
	return addr, nil
}

// SetupArchive builds a receipt archive over the --archive backends, or returns nil if none is set.
func SetupArchive(cCtx *cli.Context, logger *slog.Logger) (*storage.ReceiptArchive, error) {
	uris := cCtx.StringSlice(ArchiveFlag.Name)
	if len(uris) == 0 {
		return nil, nil
	}

	backend, err := storage.NewStorageBackendFactory(logger).BackendFromURIs(uris)
	if err != nil {
		return nil, fmt.Errorf("could not configure receipt archive: %w", err)
	}
	return storage.NewReceiptArchive(backend, logger), nil
}

var RpcAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	Value:   "http://127.0.0.1:8545",
	Usage:   "address to connect to RPC",
	EnvVars: []string{"MACI_RPC_ADDR"},
}

var MaciAddressFlag = &cli.StringFlag{
	Name:     "maci-address",
	Required: true,
	Usage:    "MACI contract address, 40-char hex string with optional 0x prefix",
}

var PubKeyFlag = &cli.StringFlag{
	Name:     "pubkey",
	Required: true,
	Usage:    "serialized MACI public key (macipk.<hex>)",
}

var PrivateKeyFlag = &cli.StringFlag{
	Name:    "private-key",
	Usage:   "hex-encoded secp256k1 key used to sign transactions",
	EnvVars: []string{"MACI_SIGNER_KEY"},
}

var KeystoreFlag = &cli.StringFlag{
	Name:  "keystore",
	Usage: "path to an encrypted JSON keystore file used to sign transactions",
}

var KeystorePasswordFileFlag = &cli.StringFlag{
	Name:  "keystore-password-file",
	Usage: "file containing the keystore password",
}

var ArchiveFlag = &cli.StringSliceFlag{
	Name:  "archive",
	Usage: "receipt archive backend URI (file://, s3://, ipfs://, vault://), may be repeated",
}

var SignerFlags = []cli.Flag{
	PrivateKeyFlag,
	KeystoreFlag,
	KeystorePasswordFileFlag,
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}
var WriteTimeoutSecondsFlag = &cli.Int64Flag{
	Name:  "write-timeout-seconds",
	Value: 120,
	Usage: "HTTP write timeout, must cover the time a sign-up takes to be mined",
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
	WriteTimeoutSecondsFlag,
}
