package enrollment

import (
	"log/slog"

	"github.com/ruteri/maci-signup/interfaces"
)

// NopPresenter discards all status lines. It is used in quiet mode.
type NopPresenter struct{}

func (NopPresenter) Info(string)    {}
func (NopPresenter) Success(string) {}
func (NopPresenter) Warn(string)    {}
func (NopPresenter) Error(string)   {}

// SlogPresenter forwards status lines to a structured logger.
type SlogPresenter struct {
	log *slog.Logger
}

// NewSlogPresenter creates a presenter writing to log.
func NewSlogPresenter(log *slog.Logger) interfaces.Presenter {
	return &SlogPresenter{log: log}
}

func (p *SlogPresenter) Info(msg string) {
	p.log.Info(msg)
}

func (p *SlogPresenter) Success(msg string) {
	p.log.Info(msg, "status", "success")
}

func (p *SlogPresenter) Warn(msg string) {
	p.log.Warn(msg)
}

func (p *SlogPresenter) Error(msg string) {
	p.log.Error(msg)
}
