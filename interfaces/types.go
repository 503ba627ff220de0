package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ruteri/maci-signup/bindings/maci"
)

// SnarkFieldModulus is the order of the BN254 scalar field. Public key
// coordinates are elements of this field.
var SnarkFieldModulus, _ = new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// Default opaque data passed to the sign-up gatekeeper and the initial
// voice credit proxy when the caller does not provide any.
const (
	DefaultSignUpGatekeeperData        = "0x0000000000000000000000000000000000000000000000000000000000000000"
	DefaultInitialVoiceCreditProxyData = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// ContractAddress represents an Ethereum contract address.
type ContractAddress [20]byte

// NewContractAddressFromBytes creates a new contract address from a byte slice.
func NewContractAddressFromBytes(addr []byte) (ContractAddress, error) {
	if len(addr) != 20 {
		return ContractAddress{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res ContractAddress
	copy(res[:], addr)
	return res, nil
}

// NewContractAddressFromHex parses a 40-character hex address, with or without 0x prefix.
func NewContractAddressFromHex(addr string) (ContractAddress, error) {
	clean := strings.TrimPrefix(addr, "0x")
	if len(clean) != 40 {
		return ContractAddress{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContractAddress{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewContractAddressFromBytes(addrBytes)
}

// String returns the hex string representation of the contract address.
func (addr ContractAddress) String() string {
	return hex.EncodeToString(addr[:])
}

// Bytes returns the raw 20-byte address.
func (addr ContractAddress) Bytes() []byte {
	return addr[:]
}

// PublicKey is a Baby Jubjub point identifying a MACI participant.
type PublicKey struct {
	X *big.Int
	Y *big.Int
}

// AsContractParam converts the key into the tuple expected by the MACI contract.
func (pk PublicKey) AsContractParam() maci.DomainObjsPubKey {
	return maci.DomainObjsPubKey{
		X: new(big.Int).Set(pk.X),
		Y: new(big.Int).Set(pk.Y),
	}
}

// Equal reports whether both coordinates match.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.X.Cmp(other.X) == 0 && pk.Y.Cmp(other.Y) == 0
}

// SignUpRequest is a validated sign-up, ready to be submitted.
// The opaque data fields are kept exactly as the caller provided them
// (or as the defaults, when omitted).
type SignUpRequest struct {
	PublicKey                   PublicKey
	SerializedPublicKey         string
	Registry                    ContractAddress
	SignUpGatekeeperData        string
	InitialVoiceCreditProxyData string
}

// SignUpResult is the outcome of a sign-up submission.
// StateIndex is empty on every failure path.
type SignUpResult struct {
	StateIndex string `json:"stateIndex"`
	Hash       string `json:"hash"`
}

// LookupResult reports whether a public key was ever signed up.
type LookupResult struct {
	IsRegistered bool    `json:"isRegistered"`
	StateIndex   *string `json:"stateIndex,omitempty"`
}

// SignUpReceipt is the archived record of a confirmed sign-up.
type SignUpReceipt struct {
	Registry   string `json:"registry"`
	PublicKey  string `json:"publicKey"`
	StateIndex string `json:"stateIndex"`
	Hash       string `json:"hash"`
	Timestamp  int64  `json:"timestamp"`
}
