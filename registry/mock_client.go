package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/maci-signup/bindings/maci"
	"github.com/ruteri/maci-signup/interfaces"
)

// DefaultMockVoiceCreditBalance is the balance reported in SignUp events emitted by the mock.
const DefaultMockVoiceCreditBalance = 100

// MockRegistryClient provides a simple in-memory implementation of the EnrollmentRegistry
// interface for testing purposes without requiring a blockchain connection.
// It assigns sequential state indices, emits ABI-encoded SignUp logs and answers
// historical queries from memory. Like the MACI contract it rejects (reverts)
// a second sign-up with an already registered key.
type MockRegistryClient struct {
	mutex    sync.RWMutex
	address  common.Address
	deployed bool
	abi      abi.ABI
	contract *maci.MACI
	logs     []types.Log
	signedUp map[[2]string]bool
	nonce    uint64
}

// NewMockRegistryClient creates a deployed mock registry with no sign-ups.
func NewMockRegistryClient(address common.Address) (*MockRegistryClient, error) {
	parsed, err := maci.ParsedABI()
	if err != nil {
		return nil, err
	}

	// Only used for log decoding, so no backend is required
	contract, err := maci.NewMACI(address, nil)
	if err != nil {
		return nil, err
	}

	return &MockRegistryClient{
		address:  address,
		deployed: true,
		abi:      parsed,
		contract: contract,
		signedUp: make(map[[2]string]bool),
	}, nil
}

// SetDeployed controls the outcome of the existence probe.
func (m *MockRegistryClient) SetDeployed(deployed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.deployed = deployed
}

// NumSignUps returns the number of successful sign-ups.
func (m *MockRegistryClient) NumSignUps() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.logs)
}

// Exists reports the configured deployment state.
func (m *MockRegistryClient) Exists(ctx context.Context) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.deployed, nil
}

// SignUp records the sign-up and returns an already resolved pending handle.
func (m *MockRegistryClient) SignUp(ctx context.Context, auth *bind.TransactOpts, pubKey interfaces.PublicKey, signUpGatekeeperData, initialVoiceCreditProxyData []byte) (interfaces.PendingSignUp, error) {
	if auth == nil {
		return nil, ErrNoTransactOpts
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.deployed {
		return nil, errors.New("no contract code at given address")
	}

	m.nonce++
	txHash := crypto.Keccak256Hash(m.address.Bytes(), new(big.Int).SetUint64(m.nonce).Bytes(), pubKey.X.Bytes(), pubKey.Y.Bytes())

	key := [2]string{pubKey.X.String(), pubKey.Y.String()}
	if m.signedUp[key] {
		return &mockPendingSignUp{hash: txHash, receipt: &types.Receipt{
			Status: types.ReceiptStatusFailed,
			TxHash: txHash,
		}}, nil
	}

	stateIndex := big.NewInt(int64(len(m.logs)))
	data, err := m.abi.Events[maci.SignUpEventName].Inputs.NonIndexed().Pack(
		stateIndex,
		big.NewInt(DefaultMockVoiceCreditBalance),
		big.NewInt(time.Now().Unix()),
	)
	if err != nil {
		return nil, fmt.Errorf("could not encode SignUp event: %w", err)
	}

	log := types.Log{
		Address: m.address,
		Topics: []common.Hash{
			m.abi.Events[maci.SignUpEventName].ID,
			common.BigToHash(pubKey.X),
			common.BigToHash(pubKey.Y),
		},
		Data:        data,
		BlockNumber: m.nonce,
		TxHash:      txHash,
		Index:       uint(len(m.logs)),
	}
	m.logs = append(m.logs, log)
	m.signedUp[key] = true

	return &mockPendingSignUp{hash: txHash, receipt: &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      txHash,
		Logs:        []*types.Log{&log},
		BlockNumber: new(big.Int).SetUint64(m.nonce),
	}}, nil
}

// ParseSignUp decodes a log with the SignUp event schema.
func (m *MockRegistryClient) ParseSignUp(log types.Log) (*interfaces.SignUpEvent, error) {
	return m.contract.ParseSignUp(log)
}

// FilterSignUps returns the recorded logs matching the key, oldest first.
func (m *MockRegistryClient) FilterSignUps(ctx context.Context, pubKey interfaces.PublicKey) ([]types.Log, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	x, y := common.BigToHash(pubKey.X), common.BigToHash(pubKey.Y)
	var matches []types.Log
	for _, log := range m.logs {
		if log.Topics[1] == x && log.Topics[2] == y {
			matches = append(matches, log)
		}
	}
	return matches, nil
}

type mockPendingSignUp struct {
	hash    common.Hash
	receipt *types.Receipt
}

func (p *mockPendingSignUp) Hash() common.Hash {
	return p.hash
}

func (p *mockPendingSignUp) Wait(ctx context.Context) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.receipt, nil
}

// MockRegistryClientFactory hands out one in-memory registry per address.
type MockRegistryClientFactory struct {
	mutex      sync.Mutex
	registries map[interfaces.ContractAddress]*MockRegistryClient
}

// NewMockRegistryClientFactory creates a factory where every address is a deployed, empty registry.
func NewMockRegistryClientFactory() *MockRegistryClientFactory {
	return &MockRegistryClientFactory{
		registries: make(map[interfaces.ContractAddress]*MockRegistryClient),
	}
}

// RegistryFor returns the in-memory registry for the address, creating it on first use.
func (f *MockRegistryClientFactory) RegistryFor(address interfaces.ContractAddress) (interfaces.EnrollmentRegistry, error) {
	return f.Registry(address)
}

// Registry is RegistryFor with the concrete mock type, for test setup.
func (f *MockRegistryClientFactory) Registry(address interfaces.ContractAddress) (*MockRegistryClient, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if r, ok := f.registries[address]; ok {
		return r, nil
	}

	r, err := NewMockRegistryClient(common.Address(address))
	if err != nil {
		return nil, err
	}
	f.registries[address] = r
	return r, nil
}
