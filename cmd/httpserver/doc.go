// Package main (cmd/httpserver) runs the MACI sign-up relayer.
//
// The relayer sends sign-up transactions on behalf of users from its own
// account and answers registration lookups:
//
//	POST /api/signup/{contract_address}            relay a sign-up
//	GET  /api/signup/{contract_address}/{pub_key}  registration lookup
//	GET  /api/receipts/{content_id}                archived receipt
//
// Without --private-key or --keystore only lookups are served. Receipts are
// archived when at least one --archive backend is configured, for example:
//
//	--archive file:///var/lib/maci-signup
//	--archive "s3://AKID:SECRET@bucket/receipts?region=eu-west-1"
//	--archive "ipfs://127.0.0.1:5001/?timeout=30s"
//	--archive "vault://vault.internal:8200/secret/maci?token=..."
//
// Sign-ups from the relayer account are sent one at a time. The HTTP write
// timeout (--write-timeout-seconds) must exceed the block time of the chain.
//
// Prometheus metrics are served on --metrics-addr.
package main
