package enrollment

import "errors"

// Kind categorizes enrollment failures independently of the transport layer.
type Kind string

const (
	KindInvalidPublicKey       Kind = "invalid_public_key"
	KindRegistryNotFound       Kind = "registry_not_found"
	KindInvalidGatewayData     Kind = "invalid_gateway_data"
	KindInvalidVoiceCreditData Kind = "invalid_voice_credit_data"
	KindTransactionFailed      Kind = "transaction_failed"
	KindReceiptUnavailable     Kind = "receipt_unavailable"

	// KindOutcomeUnknown means the transaction was dispatched but waiting for
	// its receipt failed. The sign-up may or may not have been included.
	KindOutcomeUnknown Kind = "outcome_unknown"

	// KindQueryFailed means the historical log query could not be completed.
	KindQueryFailed Kind = "query_failed"
)

var kindMessages = map[Kind]string{
	KindInvalidPublicKey:       "invalid MACI public key",
	KindRegistryNotFound:       "there is no contract deployed at the specified address",
	KindInvalidGatewayData:     "invalid signup gateway data",
	KindInvalidVoiceCreditData: "invalid initial voice credit proxy data",
	KindTransactionFailed:      "the transaction failed",
	KindReceiptUnavailable:     "unable to retrieve the transaction receipt",
	KindOutcomeUnknown:         "the transaction outcome is unknown",
	KindQueryFailed:            "unable to query sign-up events",
}

// Error is an enrollment failure with a stable kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidPublicKey       = &Error{Kind: KindInvalidPublicKey, Message: kindMessages[KindInvalidPublicKey]}
	ErrRegistryNotFound       = &Error{Kind: KindRegistryNotFound, Message: kindMessages[KindRegistryNotFound]}
	ErrInvalidGatewayData     = &Error{Kind: KindInvalidGatewayData, Message: kindMessages[KindInvalidGatewayData]}
	ErrInvalidVoiceCreditData = &Error{Kind: KindInvalidVoiceCreditData, Message: kindMessages[KindInvalidVoiceCreditData]}
	ErrTransactionFailed      = &Error{Kind: KindTransactionFailed, Message: kindMessages[KindTransactionFailed]}
	ErrReceiptUnavailable     = &Error{Kind: KindReceiptUnavailable, Message: kindMessages[KindReceiptUnavailable]}
	ErrOutcomeUnknown         = &Error{Kind: KindOutcomeUnknown, Message: kindMessages[KindOutcomeUnknown]}
	ErrQueryFailed            = &Error{Kind: KindQueryFailed, Message: kindMessages[KindQueryFailed]}
)

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: kindMessages[kind], Err: cause}
}

// KindOf returns the kind of an enrollment error anywhere in the chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
