package enrollment

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/ruteri/maci-signup/metrics"
)

// Service validates, submits and looks up MACI sign-ups.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	registries interfaces.RegistryFactory
	presenter  interfaces.Presenter
	log        *slog.Logger
	metrics    *metrics.SignUpMetrics
}

// NewService creates a sign-up service. A nil presenter is replaced with NopPresenter.
func NewService(registries interfaces.RegistryFactory, presenter interfaces.Presenter, log *slog.Logger) *Service {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Service{
		registries: registries,
		presenter:  presenter,
		log:        log,
	}
}

// WithMetrics makes the service record submission and lookup metrics.
func (s *Service) WithMetrics(m *metrics.SignUpMetrics) *Service {
	s.metrics = m
	return s
}

// SignUpArgs are the raw inputs of a complete sign-up.
type SignUpArgs struct {
	ValidateArgs

	// Auth signs the signUp transaction.
	Auth *bind.TransactOpts
}

// SignUp validates the arguments and, if they are valid, submits the sign-up.
func (s *Service) SignUp(ctx context.Context, args SignUpArgs) (interfaces.SignUpResult, error) {
	req, err := s.Validate(ctx, args.ValidateArgs)
	if err != nil {
		s.metrics.IncrementSubmissions(string(KindOf(err)))
		return interfaces.SignUpResult{}, err
	}
	return s.Submit(ctx, req, args.Auth)
}
