package enrollment

import (
	"context"
	"fmt"

	"github.com/ruteri/maci-signup/cryptoutils"
	"github.com/ruteri/maci-signup/interfaces"
)

// Lookup reports whether the serialized key was ever signed up to the
// registry and, if so, its state index. The full history is queried on every
// call; nothing is cached.
func (s *Service) Lookup(ctx context.Context, serializedKey string, registry interfaces.ContractAddress) (interfaces.LookupResult, error) {
	pubKey, err := cryptoutils.ParsePublicKey(serializedKey)
	if err != nil {
		return interfaces.LookupResult{}, s.fail(newError(KindInvalidPublicKey, err))
	}

	reg, err := s.registries.RegistryFor(registry)
	if err != nil {
		return interfaces.LookupResult{}, s.fail(newError(KindQueryFailed, err))
	}

	logs, err := reg.FilterSignUps(ctx, pubKey)
	if err != nil {
		s.log.Warn("sign-up query failed", "registry", registry.String(), "err", err)
		return interfaces.LookupResult{}, s.fail(newError(KindQueryFailed, err))
	}

	if len(logs) == 0 {
		s.metrics.IncrementLookups(false)
		s.presenter.Success("State index: undefined, registered: false")
		return interfaces.LookupResult{IsRegistered: false}, nil
	}

	event, err := reg.ParseSignUp(logs[0])
	if err != nil {
		return interfaces.LookupResult{}, s.fail(newError(KindReceiptUnavailable, err))
	}

	stateIndex := event.StateIndex.String()
	s.metrics.IncrementLookups(true)
	s.presenter.Success(fmt.Sprintf("State index: %s, registered: true", stateIndex))
	return interfaces.LookupResult{IsRegistered: true, StateIndex: &stateIndex}, nil
}
