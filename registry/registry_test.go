package registry

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPublicKey() interfaces.PublicKey {
	sk := babyjub.NewRandPrivKey()
	pk := sk.Public()
	return interfaces.PublicKey{X: pk.X, Y: pk.Y}
}

var zeroData = make([]byte, 32)

// TestRegistryContract_Exists tests the code probe used to detect deployed registries
func TestRegistryContract_Exists(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	contractAddr, err := DeployRuntimeCode(backend, auth, SilentFixtureCode())
	require.NoError(t, err)

	regClient, err := NewOnchainRegistryClient(backend.Client(), backend.Client(), contractAddr)
	require.NoError(t, err)

	exists, err := regClient.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)

	// An externally owned account has no code
	eoaClient, err := NewOnchainRegistryClient(backend.Client(), backend.Client(), auth.From)
	require.NoError(t, err)

	exists, err = eoaClient.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestRegistryContract_SignUpAndFilter tests sign-up transactions, receipt decoding and log filtering
func TestRegistryContract_SignUpAndFilter(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	code, err := SignUpFixtureCode()
	require.NoError(t, err)
	contractAddr, err := DeployRuntimeCode(backend, auth, code)
	require.NoError(t, err)

	regClient, err := NewOnchainRegistryClient(backend.Client(), backend.Client(), contractAddr)
	require.NoError(t, err)
	regClient.SetTransactOpts(auth)

	keys := []interfaces.PublicKey{randomPublicKey(), randomPublicKey(), randomPublicKey()}

	for i, key := range keys {
		pending, err := regClient.SignUp(context.Background(), nil, key, zeroData, zeroData)
		require.NoError(t, err)
		assert.NotEqual(t, common.Hash{}, pending.Hash())
		backend.Commit()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		receipt, err := pending.Wait(ctx)
		cancel()
		require.NoError(t, err)
		require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
		require.Len(t, receipt.Logs, 1)

		event, err := regClient.ParseSignUp(*receipt.Logs[0])
		require.NoError(t, err)
		assert.Equal(t, int64(i), event.StateIndex.Int64())
		assert.Equal(t, 0, key.X.Cmp(event.UserPubKeyX))
		assert.Equal(t, 0, key.Y.Cmp(event.UserPubKeyY))
		assert.Equal(t, int64(100), event.VoiceCreditBalance.Int64())
	}

	// Every key finds exactly its own log
	for i, key := range keys {
		logs, err := regClient.FilterSignUps(context.Background(), key)
		require.NoError(t, err)
		require.Len(t, logs, 1)

		event, err := regClient.ParseSignUp(logs[0])
		require.NoError(t, err)
		assert.Equal(t, int64(i), event.StateIndex.Int64())
	}

	// Unknown keys find nothing
	logs, err := regClient.FilterSignUps(context.Background(), randomPublicKey())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

// TestRegistryContract_SignUpRequiresTransactOpts tests that sign-ups are refused without a signer
func TestRegistryContract_SignUpRequiresTransactOpts(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	contractAddr, err := DeployRuntimeCode(backend, auth, SilentFixtureCode())
	require.NoError(t, err)

	regClient, err := NewOnchainRegistryClient(backend.Client(), backend.Client(), contractAddr)
	require.NoError(t, err)

	_, err = regClient.SignUp(context.Background(), nil, randomPublicKey(), zeroData, zeroData)
	assert.ErrorIs(t, err, ErrNoTransactOpts)
}

// TestRegistryContract_RevertedSignUp tests that a reverted sign-up yields a failed receipt
func TestRegistryContract_RevertedSignUp(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	contractAddr, err := DeployRuntimeCode(backend, auth, RevertingFixtureCode())
	require.NoError(t, err)

	regClient, err := NewOnchainRegistryClient(backend.Client(), backend.Client(), contractAddr)
	require.NoError(t, err)

	// A fixed gas limit skips estimation, which would reject the call up front
	fixedGas := *auth
	fixedGas.GasLimit = 200000

	pending, err := regClient.SignUp(context.Background(), &fixedGas, randomPublicKey(), zeroData, zeroData)
	require.NoError(t, err)
	backend.Commit()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	receipt, err := pending.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	assert.Empty(t, receipt.Logs)
}

// TestParseSignUp_SchemaMismatch tests that foreign logs are rejected by the decoder
func TestParseSignUp_SchemaMismatch(t *testing.T) {
	regClient, err := NewOnchainRegistryClient(nil, nil, common.HexToAddress("0x01"))
	require.NoError(t, err)

	_, err = regClient.ParseSignUp(types.Log{})
	assert.Error(t, err, "log without topics")

	_, err = regClient.ParseSignUp(types.Log{
		Topics: []common.Hash{common.HexToHash("0xdeadbeef"), {}, {}},
		Data:   make([]byte, 96),
	})
	assert.Error(t, err, "log with a foreign event id")
}

// TestMockRegistryClient tests the in-memory registry used by higher level tests
func TestMockRegistryClient(t *testing.T) {
	mockRegistry, err := NewMockRegistryClient(common.HexToAddress("0xaaaa"))
	require.NoError(t, err)

	auth := &bind.TransactOpts{}

	key := randomPublicKey()
	pending, err := mockRegistry.SignUp(context.Background(), auth, key, zeroData, zeroData)
	require.NoError(t, err)

	receipt, err := pending.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Len(t, receipt.Logs, 1)

	event, err := mockRegistry.ParseSignUp(*receipt.Logs[0])
	require.NoError(t, err)
	assert.Equal(t, "0", event.StateIndex.String())

	// Duplicate keys are rejected like the contract would
	pending, err = mockRegistry.SignUp(context.Background(), auth, key, zeroData, zeroData)
	require.NoError(t, err)
	receipt, err = pending.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, 1, mockRegistry.NumSignUps())

	logs, err := mockRegistry.FilterSignUps(context.Background(), key)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	mockRegistry.SetDeployed(false)
	exists, err := mockRegistry.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}
