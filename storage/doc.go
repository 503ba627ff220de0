// Package storage provides content-addressed archival of sign-up receipts with
// pluggable backends.
//
// Content is identified by the SHA-256 hash of the stored bytes and namespaced
// by content type:
//
//   - File system storage for local deployments and testing
//   - S3-compatible object storage
//   - IPFS, through the node's mutable file system
//   - HashiCorp Vault KV v2, with token authentication
//
// # Storage URI Format
//
// Storage backends are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/maci-signup/
//   - s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/prefix/?region=us-west-2&endpoint=minio.local:9000
//   - ipfs://localhost:5001/?root=/maci-signup
//   - vault://vault.example.com:8200/secret/maci-signup?token=...&tls=true
//
// StorageBackendFactory builds backends from these URIs. CreateMultiBackend
// combines several into a MultiStorageBackend, which writes to every
// available backend and reads from the first one holding the content.
//
// # Receipts
//
// ReceiptArchive stores interfaces.SignUpReceipt values as JSON under
// interfaces.ReceiptType and returns their content id:
//
//	archive := storage.NewReceiptArchive(backend, log)
//	id, err := archive.Archive(ctx, receipt)
//	...
//	receipt, err := archive.Receipt(ctx, id)
package storage
