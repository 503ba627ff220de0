package registry

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ruteri/maci-signup/bindings/maci"
	"github.com/ruteri/maci-signup/interfaces"
)

// ErrNoTransactOpts is returned when a transaction is attempted without transaction options.
var ErrNoTransactOpts = errors.New("no authorized transactor available")

// OnchainRegistryClient implements the interfaces.EnrollmentRegistry interface for
// interacting with a MACI contract deployed on a blockchain.
type OnchainRegistryClient struct {
	contract *maci.MACI
	client   bind.ContractBackend
	backend  bind.DeployBackend
	address  common.Address
	auth     *bind.TransactOpts
}

// NewOnchainRegistryClient creates a new client for the MACI contract at the specified address.
// It requires a ContractBackend for reading from the blockchain and a DeployBackend for
// code probes and receipt polling.
func NewOnchainRegistryClient(client bind.ContractBackend, backend bind.DeployBackend, address common.Address) (*OnchainRegistryClient, error) {
	contract, err := maci.NewMACI(address, client)
	if err != nil {
		return nil, err
	}

	return &OnchainRegistryClient{
		contract: contract,
		client:   client,
		backend:  backend,
		address:  address,
	}, nil
}

// SetTransactOpts sets default transaction options, used when SignUp is called without any.
func (c *OnchainRegistryClient) SetTransactOpts(auth *bind.TransactOpts) {
	c.auth = auth
}

// Address returns the registry contract address.
func (c *OnchainRegistryClient) Address() common.Address {
	return c.address
}

// Exists checks whether any contract code is deployed at the registry address.
func (c *OnchainRegistryClient) Exists(ctx context.Context) (bool, error) {
	code, err := c.backend.CodeAt(ctx, c.address, nil)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

// SignUp sends the signUp transaction. The returned handle can be used to
// wait for the receipt; the transaction hash is known immediately.
func (c *OnchainRegistryClient) SignUp(ctx context.Context, auth *bind.TransactOpts, pubKey interfaces.PublicKey, signUpGatekeeperData, initialVoiceCreditProxyData []byte) (interfaces.PendingSignUp, error) {
	if auth == nil {
		auth = c.auth
	}
	if auth == nil {
		return nil, ErrNoTransactOpts
	}

	opts := *auth
	opts.Context = ctx

	tx, err := c.contract.SignUp(&opts, pubKey.AsContractParam(), signUpGatekeeperData, initialVoiceCreditProxyData)
	if err != nil {
		return nil, err
	}

	return &pendingSignUp{tx: tx, backend: c.backend}, nil
}

// ParseSignUp decodes a log with the SignUp event schema.
func (c *OnchainRegistryClient) ParseSignUp(log types.Log) (*interfaces.SignUpEvent, error) {
	return c.contract.ParseSignUp(log)
}

// FilterSignUps queries SignUp logs from genesis to the latest block whose
// indexed coordinates equal the given key.
func (c *OnchainRegistryClient) FilterSignUps(ctx context.Context, pubKey interfaces.PublicKey) ([]types.Log, error) {
	opts := &bind.FilterOpts{Start: 0, Context: ctx}
	return c.contract.SignUpLogs(opts, []*big.Int{pubKey.X}, []*big.Int{pubKey.Y})
}

type pendingSignUp struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

func (p *pendingSignUp) Hash() common.Hash {
	return p.tx.Hash()
}

func (p *pendingSignUp) Wait(ctx context.Context) (*types.Receipt, error) {
	return bind.WaitMined(ctx, p.backend, p.tx)
}

// RegistryFactory creates EnrollmentRegistry instances for different contract addresses.
type RegistryFactory struct {
	client  bind.ContractBackend
	backend bind.DeployBackend
}

// NewRegistryFactory creates a new factory for registry clients.
func NewRegistryFactory(client bind.ContractBackend, backend bind.DeployBackend) *RegistryFactory {
	return &RegistryFactory{client: client, backend: backend}
}

// RegistryFor returns an EnrollmentRegistry instance for the specified contract address.
func (f *RegistryFactory) RegistryFor(address interfaces.ContractAddress) (interfaces.EnrollmentRegistry, error) {
	return NewOnchainRegistryClient(f.client, f.backend, common.Address(address))
}
