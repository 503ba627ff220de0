// Package interfaces defines the core interfaces and types for the MACI sign-up
// client, separating interface definitions from implementations.
//
// # Registry Interfaces
//
// EnrollmentRegistry: the on-chain MACI contract surface used for sign-ups. It can
// probe for deployed code, send signUp, decode SignUp logs and filter them by key.
//
// PendingSignUp: a dispatched sign-up transaction whose hash is known before it
// is mined.
//
// RegistryFactory: creates EnrollmentRegistry instances per contract address.
//
// Presenter: receives human-readable progress messages during validation and
// submission.
//
// # Storage Interfaces
//
// StorageBackend: content-addressed storage for archived sign-up receipts across
// file, S3, IPFS and Vault backends.
//
// StorageBackendFactory: creates storage backends from URI strings.
//
// # Types
//
//   - PublicKey: a Baby Jubjub point (x, y)
//   - ContractAddress: 20-byte Ethereum address
//   - ContentID: 32-byte SHA-256 hash for content addressing
//   - SignUpRequest, SignUpResult, LookupResult, SignUpReceipt
package interfaces
