package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ruteri/maci-signup/interfaces"
)

// StorageBackendFactory creates storage backends from location URIs.
type StorageBackendFactory struct {
	log *slog.Logger
}

// NewStorageBackendFactory creates a new factory instance.
func NewStorageBackendFactory(logger *slog.Logger) *StorageBackendFactory {
	return &StorageBackendFactory{log: logger}
}

// StorageBackendFor creates a storage backend from a location.
//
// Supported schemes:
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - ipfs:// - IPFS mutable file system
//   - vault:// - HashiCorp Vault KV v2
func (sf *StorageBackendFactory) StorageBackendFor(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	switch strings.ToLower(loc.Scheme) {
	case interfaces.SchemeFile:
		return sf.createFileBackend(loc)
	case interfaces.SchemeS3:
		return sf.createS3Backend(loc)
	case interfaces.SchemeIPFS:
		return sf.createIPFSBackend(loc)
	case interfaces.SchemeVault:
		return sf.createVaultBackend(loc)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %q", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
}

// CreateMultiBackend creates a multi-storage backend from a list of locations.
// Locations that fail to produce a backend are logged and skipped.
// Returns an error if no valid backends could be created.
func (sf *StorageBackendFactory) CreateMultiBackend(locations []interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	backends := make([]interfaces.StorageBackend, 0, len(locations))

	for _, loc := range locations {
		backend, err := sf.StorageBackendFor(loc)
		if err != nil {
			sf.log.Warn("Failed to create storage backend",
				"err", err,
				slog.String("locationURI", redactLocation(loc)))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no valid storage backends created")
	}

	return NewMultiStorageBackend(backends, sf.log), nil
}

// BackendFromURIs parses the URIs and builds a single backend, or a
// multi-backend when more than one URI is given.
func (sf *StorageBackendFactory) BackendFromURIs(uris []string) (interfaces.StorageBackend, error) {
	locations := make([]interfaces.StorageBackendLocation, 0, len(uris))
	for _, uri := range uris {
		loc, err := interfaces.NewStorageBackendLocation(uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
		}
		locations = append(locations, loc)
	}

	switch len(locations) {
	case 0:
		return nil, fmt.Errorf("no storage locations configured")
	case 1:
		return sf.StorageBackendFor(locations[0])
	default:
		return sf.CreateMultiBackend(locations)
	}
}

// createFileBackend handles file:///absolute/path and file://./relative/path.
func (sf *StorageBackendFactory) createFileBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating file backend", slog.String("uri", loc.Raw))

	path := loc.Path
	if loc.Host != "" {
		path = loc.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %s", interfaces.ErrInvalidLocationURI, loc.Raw)
	}

	return NewFileBackend(path, sf.log)
}

// createS3Backend handles
// s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix/?region=us-west-2&endpoint=custom.s3.com&path_style=true
func (sf *StorageBackendFactory) createS3Backend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	opts := S3Options{
		Bucket:    loc.Host,
		Prefix:    strings.TrimPrefix(loc.Path, "/"),
		Region:    loc.GetParam("region"),
		Endpoint:  loc.GetParam("endpoint"),
		PathStyle: loc.GetParamBool("path_style"),
	}

	if loc.Auth != "" {
		user, secret, _ := strings.Cut(loc.Auth, ":")
		opts.AccessKey, _ = url.PathUnescape(user)
		opts.SecretKey, _ = url.PathUnescape(secret)
	}

	sf.log.Debug("Creating S3 backend",
		slog.String("bucket", opts.Bucket),
		slog.Bool("credentials", opts.AccessKey != ""))

	return NewS3Backend(opts, sf.log)
}

// createIPFSBackend handles ipfs://host:port/?root=/maci-signup&timeout=30s.
func (sf *StorageBackendFactory) createIPFSBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating IPFS backend", slog.String("uri", loc.Raw))

	host, port, found := strings.Cut(loc.Host, ":")
	if !found || port == "" {
		port = "5001"
	}

	timeout := 30 * time.Second
	if raw := loc.GetParam("timeout"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid IPFS timeout: %v", interfaces.ErrInvalidLocationURI, err)
		}
		timeout = parsed
	}

	return NewIPFSBackend(host, port, loc.GetParam("root"), timeout, sf.log)
}

// createVaultBackend handles vault://host:port/mount/path?token=...&tls=false.
// TLS is used unless tls=false is given.
func (sf *StorageBackendFactory) createVaultBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating Vault backend", slog.String("host", loc.Host))

	if loc.Host == "" {
		return nil, fmt.Errorf("%w: empty Vault host", interfaces.ErrInvalidLocationURI)
	}

	scheme := "https"
	if loc.GetParam("tls") == "false" {
		scheme = "http"
	}

	mountPath, dataPath, _ := strings.Cut(strings.TrimPrefix(loc.Path, "/"), "/")

	return NewVaultBackend(scheme+"://"+loc.Host, loc.GetParam("token"), mountPath, dataPath, sf.log)
}

// redactLocation drops credentials from a location for logging.
func redactLocation(loc interfaces.StorageBackendLocation) string {
	redacted := loc.Scheme + "://" + loc.Host + loc.Path
	if loc.Auth != "" {
		redacted = loc.Scheme + "://***@" + loc.Host + loc.Path
	}
	return redacted
}
