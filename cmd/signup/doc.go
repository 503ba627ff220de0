// Package main (cmd/signup) signs up MACI public keys from the command line.
//
// Commands:
//
//	signup         validate the key and the data blobs, send signUp and print
//	               the transaction hash and state index as JSON
//	is-registered  print whether the key was ever signed up, and its state index
//	receipt        fetch a receipt archived by a previous signup --archive
//
// Transactions are signed with --private-key (or MACI_SIGNER_KEY), or with an
// encrypted --keystore file. The chain id is read from the node at --rpc-addr.
//
// Progress messages are suppressed by default; pass --quiet=false to log them.
//
// Example:
//
//	maci-signup signup \
//	  --maci-address 0x5FbDB2315678afecb367f032d93F642f64180aa3 \
//	  --pubkey macipk.2ae5... \
//	  --archive file:///var/lib/maci-signup
package main
