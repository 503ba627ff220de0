// Package maci contains a Go binding for the subset of the MACI contract used
// by sign-up clients: the signUp transaction and the SignUp event.
package maci

import (
	"context"
	"errors"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MACIABI is the input ABI used to generate the binding from.
const MACIABI = `[
  {
    "inputs": [
      {
        "components": [
          {"internalType": "uint256", "name": "x", "type": "uint256"},
          {"internalType": "uint256", "name": "y", "type": "uint256"}
        ],
        "internalType": "struct DomainObjs.PubKey",
        "name": "_pubKey",
        "type": "tuple"
      },
      {"internalType": "bytes", "name": "_signUpGatekeeperData", "type": "bytes"},
      {"internalType": "bytes", "name": "_initialVoiceCreditProxyData", "type": "bytes"}
    ],
    "name": "signUp",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "_stateIndex", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "_userPubKeyX", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "_userPubKeyY", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "_voiceCreditBalance", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "_timestamp", "type": "uint256"}
    ],
    "name": "SignUp",
    "type": "event"
  }
]`

// SignUpEventName is the ABI name of the sign-up event.
const SignUpEventName = "SignUp"

var errNoFilterer = errors.New("contract filterer not configured")

// DomainObjsPubKey is an auto generated low-level Go binding around an user-defined struct.
type DomainObjsPubKey struct {
	X *big.Int
	Y *big.Int
}

// MACISignUp represents a SignUp event raised by the MACI contract.
type MACISignUp struct {
	StateIndex         *big.Int
	UserPubKeyX        *big.Int
	UserPubKeyY        *big.Int
	VoiceCreditBalance *big.Int
	Timestamp          *big.Int
	Raw                types.Log // Blockchain specific contextual infos
}

// MACI is a binding around the MACI contract.
type MACI struct {
	MACITransactor
	MACIFilterer
}

// MACITransactor is a write-only binding around the MACI contract.
type MACITransactor struct {
	contract *bind.BoundContract
}

// MACIFilterer is a log filtering binding around the MACI contract events.
type MACIFilterer struct {
	contract *bind.BoundContract
	abi      abi.ABI
	address  common.Address
	filterer bind.ContractFilterer
}

// ParsedABI returns the parsed MACI ABI.
func ParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(MACIABI))
}

// NewMACI creates a new instance of MACI, bound to a specific deployed contract.
func NewMACI(address common.Address, backend bind.ContractBackend) (*MACI, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}

	contract := bind.NewBoundContract(address, parsed, backend, backend, backend)
	return &MACI{
		MACITransactor: MACITransactor{contract: contract},
		MACIFilterer: MACIFilterer{
			contract: contract,
			abi:      parsed,
			address:  address,
			filterer: backend,
		},
	}, nil
}

// SignUp is a paid mutator transaction binding the contract method signUp((uint256,uint256),bytes,bytes).
func (_MACI *MACITransactor) SignUp(opts *bind.TransactOpts, _pubKey DomainObjsPubKey, _signUpGatekeeperData []byte, _initialVoiceCreditProxyData []byte) (*types.Transaction, error) {
	return _MACI.contract.Transact(opts, "signUp", _pubKey, _signUpGatekeeperData, _initialVoiceCreditProxyData)
}

// SignUpEventID returns the topic identifying SignUp logs.
func (_MACI *MACIFilterer) SignUpEventID() common.Hash {
	return _MACI.abi.Events[SignUpEventName].ID
}

// SignUpLogs retrieves the raw SignUp logs matching the given indexed coordinates.
// Empty coordinate lists match any value.
func (_MACI *MACIFilterer) SignUpLogs(opts *bind.FilterOpts, _userPubKeyX []*big.Int, _userPubKeyY []*big.Int) ([]types.Log, error) {
	if _MACI.filterer == nil {
		return nil, errNoFilterer
	}

	var xRule []interface{}
	for _, x := range _userPubKeyX {
		xRule = append(xRule, x)
	}
	var yRule []interface{}
	for _, y := range _userPubKeyY {
		yRule = append(yRule, y)
	}

	topics, err := abi.MakeTopics([]interface{}{_MACI.SignUpEventID()}, xRule, yRule)
	if err != nil {
		return nil, err
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{_MACI.address},
		Topics:    topics,
	}
	if opts == nil {
		opts = &bind.FilterOpts{}
	}
	query.FromBlock = new(big.Int).SetUint64(opts.Start)
	if opts.End != nil {
		query.ToBlock = new(big.Int).SetUint64(*opts.End)
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return _MACI.filterer.FilterLogs(ctx, query)
}

// ParseSignUp is a log parse operation binding the contract event SignUp.
func (_MACI *MACIFilterer) ParseSignUp(log types.Log) (*MACISignUp, error) {
	event := new(MACISignUp)
	if err := _MACI.contract.UnpackLog(event, SignUpEventName, log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}
