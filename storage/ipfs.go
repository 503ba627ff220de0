package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/ruteri/maci-signup/interfaces"
)

// DefaultIPFSRoot is the mutable file system directory receipts are written under.
const DefaultIPFSRoot = "/maci-signup"

// IPFSBackend implements a storage backend on top of an IPFS node's mutable
// file system (MFS). Content is addressed by its SHA-256 id, not its IPFS CID,
// so it is kept at a predictable MFS path: <root>/<content type>/<id>.
type IPFSBackend struct {
	shell       *shell.Shell
	apiAddr     string
	root        string
	timeout     time.Duration
	log         *slog.Logger
	locationURI string
}

// NewIPFSBackend creates an IPFS storage backend talking to the node API at host:port.
func NewIPFSBackend(host, port, root string, timeout time.Duration, log *slog.Logger) (*IPFSBackend, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: empty IPFS host", interfaces.ErrInvalidLocationURI)
	}
	if root == "" {
		root = DefaultIPFSRoot
	}
	root = "/" + strings.Trim(root, "/")

	apiAddr := fmt.Sprintf("%s:%s", host, port)
	sh := shell.NewShell(apiAddr)
	sh.SetTimeout(timeout)

	return &IPFSBackend{
		shell:       sh,
		apiAddr:     apiAddr,
		root:        root,
		timeout:     timeout,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s/?root=%s&timeout=%s", apiAddr, root, timeout),
	}, nil
}

// Fetch reads the content from the node's mutable file system.
// Returns ErrContentNotFound if no such file exists.
func (b *IPFSBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	start := time.Now()
	mfsPath := b.mfsPath(id, contentType)

	reader, err := b.shell.FilesRead(ctx, mfsPath)
	if err != nil {
		if isIPFSNotFound(err) {
			b.log.Debug("Content not found in IPFS",
				slog.String("path", mfsPath),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrContentNotFound
		}

		b.log.Error("Failed to fetch data from IPFS",
			slog.String("path", mfsPath),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	b.log.Debug("Fetched content from IPFS",
		slog.String("path", mfsPath),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Store writes the data to the node's mutable file system, creating parent
// directories as needed.
func (b *IPFSBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	mfsPath := b.mfsPath(id, contentType)

	err := b.shell.FilesWrite(ctx, mfsPath, bytes.NewReader(data),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true),
	)
	if err != nil {
		return id, fmt.Errorf("failed to write data to IPFS: %w", err)
	}

	b.log.Debug("Stored content in IPFS",
		slog.String("path", mfsPath),
		slog.String("contentID", id.String()))

	return id, nil
}

// Available checks if the IPFS node API is reachable.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s", b.apiAddr)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}

func (b *IPFSBackend) mfsPath(id interfaces.ContentID, contentType interfaces.ContentType) string {
	return path.Join(b.root, contentType.String(), id.String())
}

func isIPFSNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "file does not exist") || strings.Contains(msg, "no link named")
}
