// Package registry provides an interface to interact with deployed MACI
// contracts for participant sign-up and sign-up lookups.
//
// The package implements the interfaces.EnrollmentRegistry interface on top of
// the bindings/maci contract binding, allowing applications to register voters
// with a MACI instance deployed on any Ethereum-compatible chain.
//
// # Operations
//
//	type EnrollmentRegistry interface {
//	    Exists(ctx context.Context) (bool, error)
//	    SignUp(ctx context.Context, auth *bind.TransactOpts, pubKey PublicKey, signUpGatekeeperData, initialVoiceCreditProxyData []byte) (PendingSignUp, error)
//	    ParseSignUp(log types.Log) (*SignUpEvent, error)
//	    FilterSignUps(ctx context.Context, pubKey PublicKey) ([]types.Log, error)
//	}
//
// Exists probes the address for deployed code. It does not check that the code
// is actually a MACI contract.
//
// SignUp dispatches the signUp transaction and returns a PendingSignUp, whose
// hash is known immediately and whose Wait method blocks until the transaction
// is mined.
//
// FilterSignUps scans SignUp logs from genesis to the latest block, matching on
// the two indexed public key coordinates.
//
// # Usage
//
//	client, err := ethclient.Dial("http://localhost:8545")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	factory := registry.NewRegistryFactory(client, client)
//	maci, err := factory.RegistryFor(address)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pending, err := maci.SignUp(ctx, auth, pubKey, sgData, ivcpData)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	receipt, err := pending.Wait(ctx)
//
// # Testing
//
// MockRegistryClient and MockRegistryClientFactory provide an in-memory
// registry with MACI-like behaviour. MockRegistry and friends are testify
// mocks for exercising individual failure paths.
//
// SetupTestChain, DeployRuntimeCode and the fixture code helpers run the real
// client against a simulated chain without a Solidity toolchain.
package registry
