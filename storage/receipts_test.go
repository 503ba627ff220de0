package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/maci-signup/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testReceipt() interfaces.SignUpReceipt {
	return interfaces.SignUpReceipt{
		Registry:   "5fbdb2315678afecb367f032d93f642f64180aa3",
		PublicKey:  "macipk.9d5bd8ea8a1ee3d69b0ff00f5c1bfa9a8fde2ef0f0ebb9ff3ed1f4d1e1c1b2a",
		StateIndex: "3",
		Hash:       "0x3f2a0b83e1e84aef04a9d0df3ff51a1ae30e0b0fa9f9c5f2e73c7c1c6b1a4c61",
		Timestamp:  1700000000,
	}
}

func TestReceiptArchive_FileBackend(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), discardLogger())
	require.NoError(t, err)

	archive := NewReceiptArchive(backend, discardLogger())
	receipt := testReceipt()

	id, err := archive.Archive(context.Background(), receipt)
	require.NoError(t, err)

	// Content addressing makes archiving idempotent
	again, err := archive.Archive(context.Background(), receipt)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	fetched, err := archive.Receipt(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, receipt, *fetched)

	_, err = archive.Receipt(context.Background(), interfaces.ContentID{0xff})
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestReceiptArchive_TamperedContent(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, discardLogger())
	require.NoError(t, err)

	archive := NewReceiptArchive(backend, discardLogger())
	id, err := archive.Archive(context.Background(), testReceipt())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "receipts", id.String()), []byte(`{"stateIndex":"0"}`), 0644))

	_, err = archive.Receipt(context.Background(), id)
	assert.ErrorContains(t, err, "does not match")
}

func TestReceiptArchive_StoreFailure(t *testing.T) {
	failing := &MockStorageBackend{name: "failing"}
	failing.On("Store", mock.Anything, mock.Anything, interfaces.ReceiptType).
		Return(interfaces.ContentID{}, interfaces.ErrBackendUnavailable)

	archive := NewReceiptArchive(failing, discardLogger())
	_, err := archive.Archive(context.Background(), testReceipt())
	assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, discardLogger())
	require.NoError(t, err)

	assert.True(t, backend.Available(context.Background()))
	assert.Equal(t, "file://"+dir, backend.LocationURI())

	data := []byte("receipt")
	id, err := backend.Store(context.Background(), data, interfaces.ReceiptType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(data), id)

	stored, err := os.ReadFile(filepath.Join(dir, "receipts", id.String()))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	// No temporary files are left behind
	entries, err := os.ReadDir(filepath.Join(dir, "receipts"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = backend.Store(context.Background(), data, interfaces.ContentType("config"))
	assert.Error(t, err)

	require.NoError(t, os.RemoveAll(dir))
	assert.False(t, backend.Available(context.Background()))
}
