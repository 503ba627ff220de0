package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSignUp_SimulatedChain runs the full flow against fixture contracts on a simulated chain.
func TestSignUp_SimulatedChain(t *testing.T) {
	backend, auth, _, err := registry.SetupTestChain()
	require.NoError(t, err)
	defer backend.Close()

	signUpCode, err := registry.SignUpFixtureCode()
	require.NoError(t, err)
	maciAddr, err := registry.DeployRuntimeCode(backend, auth, signUpCode)
	require.NoError(t, err)
	revertingAddr, err := registry.DeployRuntimeCode(backend, auth, registry.RevertingFixtureCode())
	require.NoError(t, err)
	silentAddr, err := registry.DeployRuntimeCode(backend, auth, registry.SilentFixtureCode())
	require.NoError(t, err)

	stop := registry.AutoCommit(backend, 100*time.Millisecond)
	defer stop()

	client := backend.Client()
	svc := NewService(registry.NewRegistryFactory(client, client), NopPresenter{}, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maci := interfaces.ContractAddress(maciAddr)

	t.Run("sign-up assigns sequential indices", func(t *testing.T) {
		first, _ := randomSerializedKey()
		result, err := svc.SignUp(ctx, SignUpArgs{ValidateArgs: ValidateArgs{PublicKey: first, Registry: maci}, Auth: auth})
		require.NoError(t, err)
		assert.Equal(t, "0", result.StateIndex)
		assert.Len(t, result.Hash, 66)

		second, _ := randomSerializedKey()
		result, err = svc.SignUp(ctx, SignUpArgs{ValidateArgs: ValidateArgs{PublicKey: second, Registry: maci}, Auth: auth})
		require.NoError(t, err)
		assert.Equal(t, "1", result.StateIndex)

		lookup, err := svc.Lookup(ctx, first, maci)
		require.NoError(t, err)
		assert.True(t, lookup.IsRegistered)
		assert.Equal(t, "0", *lookup.StateIndex)

		lookup, err = svc.Lookup(ctx, second, maci)
		require.NoError(t, err)
		assert.True(t, lookup.IsRegistered)
		assert.Equal(t, "1", *lookup.StateIndex)
	})

	t.Run("never enrolled key", func(t *testing.T) {
		key, _ := randomSerializedKey()
		lookup, err := svc.Lookup(ctx, key, maci)
		require.NoError(t, err)
		assert.False(t, lookup.IsRegistered)
		assert.Nil(t, lookup.StateIndex)
	})

	t.Run("address without code", func(t *testing.T) {
		key, _ := randomSerializedKey()
		noCode := interfaces.ContractAddress(common.HexToAddress("0x000000000000000000000000000000000000dEaD"))
		_, err := svc.SignUp(ctx, SignUpArgs{ValidateArgs: ValidateArgs{PublicKey: key, Registry: noCode}, Auth: auth})
		assert.ErrorIs(t, err, ErrRegistryNotFound)
	})

	t.Run("reverted transaction", func(t *testing.T) {
		key, _ := randomSerializedKey()
		fixedGas := *auth
		fixedGas.GasLimit = 200000

		result, err := svc.SignUp(ctx, SignUpArgs{
			ValidateArgs: ValidateArgs{PublicKey: key, Registry: interfaces.ContractAddress(revertingAddr)},
			Auth:         &fixedGas,
		})
		assert.ErrorIs(t, err, ErrTransactionFailed)
		assert.Empty(t, result.StateIndex)
		assert.NotEmpty(t, result.Hash)
	})

	t.Run("successful transaction without logs", func(t *testing.T) {
		key, _ := randomSerializedKey()
		result, err := svc.SignUp(ctx, SignUpArgs{
			ValidateArgs: ValidateArgs{PublicKey: key, Registry: interfaces.ContractAddress(silentAddr)},
			Auth:         auth,
		})
		assert.ErrorIs(t, err, ErrReceiptUnavailable)
		assert.Empty(t, result.StateIndex)
		assert.NotEmpty(t, result.Hash)
	})

	t.Run("cancelled wait", func(t *testing.T) {
		stop()

		key, _ := randomSerializedKey()
		waitCtx, waitCancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer waitCancel()

		req, err := svc.Validate(waitCtx, ValidateArgs{PublicKey: key, Registry: maci})
		require.NoError(t, err)

		result, err := svc.Submit(waitCtx, req, auth)
		assert.ErrorIs(t, err, ErrOutcomeUnknown)
		assert.NotEmpty(t, result.Hash)
		assert.Empty(t, result.StateIndex)
	})
}
