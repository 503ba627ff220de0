package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockRegistry mocks the EnrollmentRegistry interface
type MockRegistry struct {
	mock.Mock
}

// Exists mocks the Exists method
func (m *MockRegistry) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// SignUp mocks the SignUp method
func (m *MockRegistry) SignUp(ctx context.Context, auth *bind.TransactOpts, pubKey interfaces.PublicKey, signUpGatekeeperData, initialVoiceCreditProxyData []byte) (interfaces.PendingSignUp, error) {
	args := m.Called(ctx, auth, pubKey, signUpGatekeeperData, initialVoiceCreditProxyData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(interfaces.PendingSignUp), args.Error(1)
}

// ParseSignUp mocks the ParseSignUp method
func (m *MockRegistry) ParseSignUp(log types.Log) (*interfaces.SignUpEvent, error) {
	args := m.Called(log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SignUpEvent), args.Error(1)
}

// FilterSignUps mocks the FilterSignUps method
func (m *MockRegistry) FilterSignUps(ctx context.Context, pubKey interfaces.PublicKey) ([]types.Log, error) {
	args := m.Called(ctx, pubKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Log), args.Error(1)
}

// MockPendingSignUp mocks the PendingSignUp interface
type MockPendingSignUp struct {
	mock.Mock
}

// Hash mocks the Hash method
func (m *MockPendingSignUp) Hash() common.Hash {
	args := m.Called()
	return args.Get(0).(common.Hash)
}

// Wait mocks the Wait method
func (m *MockPendingSignUp) Wait(ctx context.Context) (*types.Receipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

// MockRegistryFactory mocks the RegistryFactory interface
type MockRegistryFactory struct {
	mock.Mock
}

// RegistryFor mocks the RegistryFor method
func (m *MockRegistryFactory) RegistryFor(address interfaces.ContractAddress) (interfaces.EnrollmentRegistry, error) {
	args := m.Called(address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(interfaces.EnrollmentRegistry), args.Error(1)
}
