package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/maci-signup/cmd/flags"
	"github.com/ruteri/maci-signup/enrollment"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/registry"
	"github.com/urfave/cli/v2"
)

var flagSignUpGatekeeperData = &cli.StringFlag{
	Name:  "sg-data",
	Value: interfaces.DefaultSignUpGatekeeperData,
	Usage: "signup gatekeeper data, 0x-prefixed 32-byte hex",
}

var flagInitialVoiceCreditProxyData = &cli.StringFlag{
	Name:  "ivcp-data",
	Value: interfaces.DefaultInitialVoiceCreditProxyData,
	Usage: "initial voice credit proxy data, 0x-prefixed 32-byte hex",
}

var flagQuiet = &cli.BoolFlag{
	Name:  "quiet",
	Value: true,
	Usage: "only print the JSON result, set --quiet=false to report progress",
}

var flagTimeout = &cli.DurationFlag{
	Name:  "timeout",
	Value: 5 * time.Minute,
	Usage: "give up waiting for the node after this long, 0 to wait indefinitely",
}

var flagReceiptID = &cli.StringFlag{
	Name:     "id",
	Required: true,
	Usage:    "content id of the archived receipt",
}

func main() {
	app := &cli.App{
		Name:  "maci-signup",
		Usage: "Sign up MACI public keys and query their registration",
		Flags: append([]cli.Flag{
			flags.RpcAddrFlag,
			flagQuiet,
			flagTimeout,
			flags.LogServiceFlagFn("maci-signup"),
		}, flags.LogFlags...),
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "sign up a MACI public key and print its state index",
				Flags: append([]cli.Flag{
					flags.MaciAddressFlag,
					flags.PubKeyFlag,
					flagSignUpGatekeeperData,
					flagInitialVoiceCreditProxyData,
					flags.ArchiveFlag,
				}, flags.SignerFlags...),
				Action: runSignUp,
			},
			{
				Name:  "is-registered",
				Usage: "check whether a MACI public key is signed up",
				Flags: []cli.Flag{
					flags.MaciAddressFlag,
					flags.PubKeyFlag,
				},
				Action: runIsRegistered,
			},
			{
				Name:  "receipt",
				Usage: "fetch an archived sign-up receipt",
				Flags: []cli.Flag{
					flags.ArchiveFlag,
					flagReceiptID,
				},
				Action: runReceipt,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type commandEnv struct {
	log     *slog.Logger
	client  *ethclient.Client
	service *enrollment.Service
}

func setup(cCtx *cli.Context) (*commandEnv, error) {
	logger := flags.SetupLogger(cCtx)

	rpcAddr := cCtx.String(flags.RpcAddrFlag.Name)
	client, err := ethclient.DialContext(cCtx.Context, rpcAddr)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s: %w", rpcAddr, err)
	}

	var presenter interfaces.Presenter = enrollment.NopPresenter{}
	if !cCtx.Bool(flagQuiet.Name) {
		presenter = enrollment.NewSlogPresenter(logger)
	}

	service := enrollment.NewService(registry.NewRegistryFactory(client, client), presenter, logger)
	return &commandEnv{log: logger, client: client, service: service}, nil
}

func withTimeout(cCtx *cli.Context) (context.Context, context.CancelFunc) {
	if timeout := cCtx.Duration(flagTimeout.Name); timeout > 0 {
		return context.WithTimeout(cCtx.Context, timeout)
	}
	return context.WithCancel(cCtx.Context)
}

func runSignUp(cCtx *cli.Context) error {
	env, err := setup(cCtx)
	if err != nil {
		return err
	}
	defer env.client.Close()

	maciAddress, err := flags.MaciAddress(cCtx)
	if err != nil {
		return err
	}

	archive, err := flags.SetupArchive(cCtx, env.log)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cCtx)
	defer cancel()

	auth, err := flags.SetupSigner(cCtx, env.client)
	if err != nil {
		return err
	}

	result, err := env.service.SignUp(ctx, enrollment.SignUpArgs{
		ValidateArgs: enrollment.ValidateArgs{
			PublicKey:                   cCtx.String(flags.PubKeyFlag.Name),
			Registry:                    maciAddress,
			SignUpGatekeeperData:        cCtx.String(flagSignUpGatekeeperData.Name),
			InitialVoiceCreditProxyData: cCtx.String(flagInitialVoiceCreditProxyData.Name),
		},
		Auth: auth,
	})
	if err != nil {
		if result.Hash != "" {
			return fmt.Errorf("%w (transaction %s)", err, result.Hash)
		}
		return err
	}

	output := struct {
		interfaces.SignUpResult
		ReceiptID string `json:"receiptId,omitempty"`
	}{SignUpResult: result}

	if archive != nil {
		id, err := archive.Archive(ctx, interfaces.SignUpReceipt{
			Registry:   maciAddress.String(),
			PublicKey:  cCtx.String(flags.PubKeyFlag.Name),
			StateIndex: result.StateIndex,
			Hash:       result.Hash,
			Timestamp:  time.Now().Unix(),
		})
		if err != nil {
			env.log.Warn("Failed to archive receipt", "err", err)
		} else {
			output.ReceiptID = id.String()
		}
	}

	return printJSON(output)
}

func runIsRegistered(cCtx *cli.Context) error {
	env, err := setup(cCtx)
	if err != nil {
		return err
	}
	defer env.client.Close()

	maciAddress, err := flags.MaciAddress(cCtx)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cCtx)
	defer cancel()

	result, err := env.service.Lookup(ctx, cCtx.String(flags.PubKeyFlag.Name), maciAddress)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runReceipt(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	archive, err := flags.SetupArchive(cCtx, logger)
	if err != nil {
		return err
	}
	if archive == nil {
		return errors.New("at least one --archive backend is required")
	}

	id, err := interfaces.NewContentIDFromHex(cCtx.String(flagReceiptID.Name))
	if err != nil {
		return fmt.Errorf("could not parse receipt id: %w", err)
	}

	ctx, cancel := withTimeout(cCtx)
	defer cancel()

	receipt, err := archive.Receipt(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(receipt)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
