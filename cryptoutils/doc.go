// Package cryptoutils parses and serializes MACI public keys.
//
// A serialized key has the form "macipk.<hex>", where the hex string is the
// packed Baby Jubjub point read as a big-endian integer. ParsePublicKey decodes
// it into the point coordinates passed to the contract; SerializePublicKey is
// its inverse.
package cryptoutils
