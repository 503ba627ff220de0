package interfaces

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ContentID addresses archived content by the SHA-256 hash of its bytes.
type ContentID [32]byte

// NewContentIDFromHex parses a 64-character hex id, with or without 0x prefix.
func NewContentIDFromHex(source string) (ContentID, error) {
	var id ContentID
	raw, err := hex.DecodeString(strings.TrimPrefix(source, "0x"))
	if err != nil {
		return id, fmt.Errorf("invalid content id %q: %w", source, err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("invalid content id %q: want %d bytes, got %d", source, len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// ComputeID returns the id under which data is stored.
func ComputeID(data []byte) ContentID {
	return sha256.Sum256(data)
}

func (id ContentID) String() string {
	return hex.EncodeToString(id[:])
}

// Matches reports whether data hashes to id.
func (id ContentID) Matches(data []byte) bool {
	return ComputeID(data) == id
}

// ContentType is the namespace content is archived under.
type ContentType string

// ReceiptType holds JSON-encoded SignUpReceipt records.
const ReceiptType ContentType = "receipt"

func (ct ContentType) String() string {
	return string(ct)
}

// Supported storage URI schemes.
const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeIPFS  = "ipfs"
	SchemeVault = "vault"
)

// StorageBackendLocation is a parsed archive backend URI of the form
// scheme://[auth@]host[:port][/path][?params].
type StorageBackendLocation struct {
	Raw    string
	Scheme string
	Host   string
	Path   string
	Query  url.Values

	// Auth is the userinfo part, still percent-encoded.
	Auth string
}

// NewStorageBackendLocation parses uri and rejects unsupported schemes.
func NewStorageBackendLocation(uri string) (StorageBackendLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return StorageBackendLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case SchemeFile, SchemeS3, SchemeIPFS, SchemeVault:
	default:
		return StorageBackendLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	loc := StorageBackendLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
	}
	if parsed.User != nil {
		loc.Auth = parsed.User.String()
	}
	return loc, nil
}

func (loc StorageBackendLocation) String() string {
	return loc.Raw
}

// GetParam returns the query parameter name, or "".
func (loc StorageBackendLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool treats "true", "1" and "yes" as set.
func (loc StorageBackendLocation) GetParamBool(name string) bool {
	switch loc.Query.Get(name) {
	case "true", "1", "yes":
		return true
	}
	return false
}

var (
	ErrContentNotFound    = errors.New("content not found")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)

// StorageBackend stores content under its ContentID.
type StorageBackend interface {
	// Fetch returns ErrContentNotFound when id is not stored.
	Fetch(ctx context.Context, id ContentID, contentType ContentType) ([]byte, error)
	Store(ctx context.Context, data []byte, contentType ContentType) (ContentID, error)
	Available(ctx context.Context) bool

	// Name identifies the backend in logs.
	Name() string
	LocationURI() string
}

// StorageBackendFactory builds backends from parsed locations.
type StorageBackendFactory interface {
	StorageBackendFor(location StorageBackendLocation) (StorageBackend, error)
	CreateMultiBackend(locations []StorageBackendLocation) (StorageBackend, error)
}
