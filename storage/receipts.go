package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ruteri/maci-signup/interfaces"
)

// ReceiptArchive stores sign-up receipts as JSON in a content-addressed backend.
type ReceiptArchive struct {
	backend interfaces.StorageBackend
	log     *slog.Logger
}

// NewReceiptArchive creates an archive on top of the given backend.
func NewReceiptArchive(backend interfaces.StorageBackend, log *slog.Logger) *ReceiptArchive {
	return &ReceiptArchive{backend: backend, log: log}
}

// Archive stores the receipt and returns its content id.
// Archiving the same receipt twice yields the same id.
func (a *ReceiptArchive) Archive(ctx context.Context, receipt interfaces.SignUpReceipt) (interfaces.ContentID, error) {
	data, err := json.Marshal(receipt)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("could not encode receipt: %w", err)
	}

	id, err := a.backend.Store(ctx, data, interfaces.ReceiptType)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("could not archive receipt: %w", err)
	}

	a.log.Info("Archived sign-up receipt",
		slog.String("contentID", id.String()),
		slog.String("backend", a.backend.Name()),
		slog.String("stateIndex", receipt.StateIndex))

	return id, nil
}

// Receipt fetches an archived receipt. The content is checked against the id
// before decoding.
func (a *ReceiptArchive) Receipt(ctx context.Context, id interfaces.ContentID) (*interfaces.SignUpReceipt, error) {
	data, err := a.backend.Fetch(ctx, id, interfaces.ReceiptType)
	if err != nil {
		return nil, err
	}

	if !id.Matches(data) {
		return nil, fmt.Errorf("archived content does not match id %s", id)
	}

	var receipt interfaces.SignUpReceipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("could not decode receipt: %w", err)
	}

	return &receipt, nil
}

// Backend returns the underlying storage backend.
func (a *ReceiptArchive) Backend() interfaces.StorageBackend {
	return a.backend
}
