package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/metrics"
)

var errNilRequest = errors.New("no sign-up request")

// Submit sends the signUp transaction for a validated request, waits for it
// to be mined and decodes the assigned state index from the first receipt log.
//
// Once a transaction has been dispatched its hash is returned on every path.
// StateIndex is only set on success. Submit never retries: after an
// ErrOutcomeUnknown the caller should Lookup before trying again.
func (s *Service) Submit(ctx context.Context, req *interfaces.SignUpRequest, auth *bind.TransactOpts) (interfaces.SignUpResult, error) {
	result, err := s.submit(ctx, req, auth)
	if err != nil {
		s.metrics.IncrementSubmissions(string(KindOf(err)))
		return result, err
	}
	s.metrics.IncrementSubmissions(metrics.OutcomeSuccess)
	return result, nil
}

func (s *Service) submit(ctx context.Context, req *interfaces.SignUpRequest, auth *bind.TransactOpts) (interfaces.SignUpResult, error) {
	if req == nil {
		return interfaces.SignUpResult{}, s.fail(newError(KindInvalidPublicKey, errNilRequest))
	}
	sgData, err := hexutil.Decode(req.SignUpGatekeeperData)
	if err != nil {
		return interfaces.SignUpResult{}, s.fail(newError(KindInvalidGatewayData, err))
	}
	ivcpData, err := hexutil.Decode(req.InitialVoiceCreditProxyData)
	if err != nil {
		return interfaces.SignUpResult{}, s.fail(newError(KindInvalidVoiceCreditData, err))
	}

	registry, err := s.registries.RegistryFor(req.Registry)
	if err != nil {
		return interfaces.SignUpResult{}, s.fail(newError(KindRegistryNotFound, err))
	}

	pending, err := registry.SignUp(ctx, auth, req.PublicKey, sgData, ivcpData)
	if err != nil {
		s.log.Error("could not dispatch sign-up", "registry", req.Registry.String(), "err", err)
		return interfaces.SignUpResult{}, s.fail(newError(KindTransactionFailed, err))
	}
	dispatched := time.Now()

	result := interfaces.SignUpResult{Hash: pending.Hash().Hex()}
	s.presenter.Info("Transaction hash: " + result.Hash)
	s.log.Debug("sign-up dispatched", "registry", req.Registry.String(), "hash", result.Hash)

	receipt, err := pending.Wait(ctx)
	if err != nil {
		s.log.Warn("sign-up outcome unknown", "hash", result.Hash, "err", err)
		return result, s.fail(newError(KindOutcomeUnknown, err))
	}
	s.metrics.ObserveConfirmation(dispatched)

	if receipt == nil {
		return result, s.fail(newError(KindReceiptUnavailable, nil))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return result, s.fail(newError(KindTransactionFailed, nil))
	}

	// The first log is assumed to be the SignUp event of this transaction.
	if len(receipt.Logs) == 0 || receipt.Logs[0] == nil {
		return result, s.fail(newError(KindReceiptUnavailable, nil))
	}
	event, err := registry.ParseSignUp(*receipt.Logs[0])
	if err != nil {
		return result, s.fail(newError(KindReceiptUnavailable, err))
	}

	result.StateIndex = event.StateIndex.String()
	s.presenter.Success("State index: " + result.StateIndex)
	s.log.Info("signed up", "registry", req.Registry.String(), "stateIndex", result.StateIndex, "hash", result.Hash)

	return result, nil
}
