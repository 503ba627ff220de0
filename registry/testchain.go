package registry

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ruteri/maci-signup/bindings/maci"
)

// SimulatedChainID is the chain id used by the simulated backend.
const SimulatedChainID = 1337

// SetupTestChain creates a simulated blockchain for testing purposes.
// It returns:
// - The simulated backend for direct control (commit blocks, etc.)
// - The transaction auth with the funded account
// - The private key for the funded account
func SetupTestChain() (*simulated.Backend, *bind.TransactOpts, *ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, big.NewInt(SimulatedChainID))
	if err != nil {
		return nil, nil, nil, err
	}

	balance := new(big.Int)
	balance.SetString("10000000000000000000", 10) // 10 ETH

	genesisAlloc := map[common.Address]types.Account{
		auth.From: {
			Balance: balance,
		},
	}

	blockGasLimit := uint64(8000000)
	backend := simulated.NewBackend(genesisAlloc, simulated.WithBlockGasLimit(blockGasLimit))

	return backend, auth, privateKey, nil
}

// DeployRuntimeCode deploys a contract whose runtime code is exactly the given
// bytes and waits for it to be mined.
func DeployRuntimeCode(backend *simulated.Backend, auth *bind.TransactOpts, runtime []byte) (common.Address, error) {
	if len(runtime) > 0xff {
		return common.Address{}, fmt.Errorf("runtime code too long: %d bytes", len(runtime))
	}

	// PUSH1 len PUSH1 12 PUSH1 0 CODECOPY PUSH1 len PUSH1 0 RETURN, followed by the runtime
	initCode := []byte{
		0x60, byte(len(runtime)), 0x60, 0x0c, 0x60, 0x00, 0x39,
		0x60, byte(len(runtime)), 0x60, 0x00, 0xf3,
	}
	initCode = append(initCode, runtime...)

	contractAddr, tx, _, err := bind.DeployContract(auth, abi.ABI{}, initCode, backend.Client())
	if err != nil {
		return common.Address{}, err
	}

	backend.Commit()

	receipt, err := backend.Client().TransactionReceipt(context.Background(), tx.Hash())
	if err != nil {
		return common.Address{}, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Address{}, fmt.Errorf("contract deployment failed")
	}

	return contractAddr, nil
}

// SignUpFixtureCode returns runtime code that behaves like the sign-up path of
// MACI: every call emits SignUp(stateIndex, x, y, 100, block.timestamp) with x
// and y read from the first two calldata words, and increments the state index.
// It does not dispatch on the selector and does not enforce key uniqueness.
func SignUpFixtureCode() ([]byte, error) {
	parsed, err := maci.ParsedABI()
	if err != nil {
		return nil, err
	}
	eventID := parsed.Events[maci.SignUpEventName].ID

	code := []byte{
		// SLOAD(0): current state index, kept on the stack
		0x60, 0x00, 0x54, 0x80,
		// MSTORE(0x00, index)
		0x60, 0x00, 0x52,
		// MSTORE(0x20, 100): voice credit balance
		0x60, 0x64, 0x60, 0x20, 0x52,
		// MSTORE(0x40, TIMESTAMP)
		0x42, 0x60, 0x40, 0x52,
		// SSTORE(0, index+1)
		0x60, 0x01, 0x01, 0x60, 0x00, 0x55,
		// topics: y = CALLDATALOAD(0x24), x = CALLDATALOAD(0x04), event id
		0x60, 0x24, 0x35,
		0x60, 0x04, 0x35,
		0x7f,
	}
	code = append(code, eventID.Bytes()...)
	// LOG3(0x00, 0x60, id, x, y); STOP
	code = append(code, 0x60, 0x60, 0x60, 0x00, 0xa3, 0x00)
	return code, nil
}

// RevertingFixtureCode returns runtime code that reverts on every call.
func RevertingFixtureCode() []byte {
	return []byte{0x60, 0x00, 0x60, 0x00, 0xfd}
}

// SilentFixtureCode returns runtime code that succeeds without emitting logs.
func SilentFixtureCode() []byte {
	return []byte{0x00}
}

// AutoCommit mines a block on the simulated backend at the given interval
// until the returned stop function is called.
func AutoCommit(backend *simulated.Backend, interval time.Duration) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
