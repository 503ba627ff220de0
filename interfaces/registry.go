package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ruteri/maci-signup/bindings/maci"
)

// SignUpEvent is the decoded SignUp log emitted by the registry.
type SignUpEvent = maci.MACISignUp

// EnrollmentRegistry is a handle to one deployed MACI registry.
type EnrollmentRegistry interface {
	// Exists reports whether contract code is deployed at the registry address.
	Exists(ctx context.Context) (bool, error)

	// SignUp dispatches the signUp transaction. It does not wait for inclusion.
	SignUp(ctx context.Context, auth *bind.TransactOpts, pubKey PublicKey, signUpGatekeeperData, initialVoiceCreditProxyData []byte) (PendingSignUp, error)

	// ParseSignUp decodes a log using the SignUp event schema.
	ParseSignUp(log types.Log) (*SignUpEvent, error)

	// FilterSignUps returns all historical SignUp logs for the given key, oldest first.
	FilterSignUps(ctx context.Context, pubKey PublicKey) ([]types.Log, error)
}

// PendingSignUp is a dispatched sign-up transaction.
type PendingSignUp interface {
	// Hash is available immediately after dispatch.
	Hash() common.Hash

	// Wait blocks until the transaction is included and returns its receipt.
	Wait(ctx context.Context) (*types.Receipt, error)
}

// RegistryFactory creates EnrollmentRegistry instances.
type RegistryFactory interface {
	// RegistryFor returns a registry handle for the specified contract.
	RegistryFor(ContractAddress) (EnrollmentRegistry, error)
}

// Presenter receives human-readable status lines. It has no influence on control flow.
type Presenter interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}
