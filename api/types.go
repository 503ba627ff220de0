package api

import (
	"context"

	"github.com/ruteri/maci-signup/interfaces"
)

// SignUpRequest is the body of a relayed sign-up.
// Empty data fields are replaced with the zero defaults.
type SignUpRequest struct {
	PubKey                      string `json:"pubKey"`
	SignUpGatekeeperData        string `json:"signUpGatekeeperData,omitempty"`
	InitialVoiceCreditProxyData string `json:"initialVoiceCreditProxyData,omitempty"`
}

// SignUpResponse is returned for a confirmed sign-up.
type SignUpResponse struct {
	interfaces.SignUpResult

	// ReceiptID is the content id of the archived receipt, if archiving is enabled and succeeded.
	ReceiptID string `json:"receiptId,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`

	// Kind is the enrollment error kind, empty for transport-level failures.
	Kind string `json:"kind,omitempty"`

	// Hash is set when a transaction was dispatched before the failure.
	Hash string `json:"hash,omitempty"`
}

// SignUpProvider abstracts the relayer for clients.
type SignUpProvider interface {
	// SignUp relays a sign-up to the registry and waits for its state index.
	SignUp(ctx context.Context, registry interfaces.ContractAddress, req SignUpRequest) (*SignUpResponse, error)

	// Lookup checks whether the serialized public key is signed up to the registry.
	Lookup(ctx context.Context, registry interfaces.ContractAddress, pubKey string) (*interfaces.LookupResult, error)
}

// ReceiptProvider gives access to archived receipts.
type ReceiptProvider interface {
	Receipt(ctx context.Context, id interfaces.ContentID) (*interfaces.SignUpReceipt, error)
}
