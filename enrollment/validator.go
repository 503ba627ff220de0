package enrollment

import (
	"context"
	"regexp"

	"github.com/ruteri/maci-signup/cryptoutils"
	"github.com/ruteri/maci-signup/interfaces"
)

var regex32ByteHex = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)

// ValidateArgs are the raw, unvalidated sign-up inputs.
type ValidateArgs struct {
	// PublicKey is the serialized MACI public key ("macipk.<hex>").
	PublicKey string

	// Registry is the MACI contract address.
	Registry interfaces.ContractAddress

	// SignUpGatekeeperData defaults to DefaultSignUpGatekeeperData when empty.
	SignUpGatekeeperData string

	// InitialVoiceCreditProxyData defaults to DefaultInitialVoiceCreditProxyData when empty.
	InitialVoiceCreditProxyData string
}

// Validate checks the sign-up inputs in order (key, registry, gatekeeper data,
// voice credit data) and stops at the first failure. Only the registry check
// touches the network.
func (s *Service) Validate(ctx context.Context, args ValidateArgs) (*interfaces.SignUpRequest, error) {
	pubKey, err := cryptoutils.ParsePublicKey(args.PublicKey)
	if err != nil {
		return nil, s.fail(newError(KindInvalidPublicKey, err))
	}
	s.presenter.Info("MACI public key is valid")

	registry, err := s.registries.RegistryFor(args.Registry)
	if err != nil {
		return nil, s.fail(newError(KindRegistryNotFound, err))
	}

	exists, err := registry.Exists(ctx)
	if err != nil {
		s.log.Warn("registry code probe failed", "registry", args.Registry.String(), "err", err)
		return nil, s.fail(newError(KindRegistryNotFound, err))
	}
	if !exists {
		return nil, s.fail(newError(KindRegistryNotFound, nil))
	}
	s.presenter.Info("MACI contract found at 0x" + args.Registry.String())

	sgData := args.SignUpGatekeeperData
	if sgData == "" {
		sgData = interfaces.DefaultSignUpGatekeeperData
	}
	if !regex32ByteHex.MatchString(sgData) {
		return nil, s.fail(newError(KindInvalidGatewayData, nil))
	}

	ivcpData := args.InitialVoiceCreditProxyData
	if ivcpData == "" {
		ivcpData = interfaces.DefaultInitialVoiceCreditProxyData
	}
	if !regex32ByteHex.MatchString(ivcpData) {
		return nil, s.fail(newError(KindInvalidVoiceCreditData, nil))
	}

	return &interfaces.SignUpRequest{
		PublicKey:                   pubKey,
		SerializedPublicKey:         args.PublicKey,
		Registry:                    args.Registry,
		SignUpGatekeeperData:        sgData,
		InitialVoiceCreditProxyData: ivcpData,
	}, nil
}

// fail reports the error through the presenter and returns it unchanged.
func (s *Service) fail(err *Error) error {
	s.presenter.Error(err.Error())
	return err
}
