/*
Package api contains the HTTP surface of the MACI sign-up relayer.

Subpackages:

 1. enrollmenthandler - Request handlers for sign-ups, lookups and archived receipts, and a client for them

This package holds the shared request and response types and the server
configuration consumed by the httpserver package.

# Endpoints

	POST /api/signup/{contract_address}            - relay a sign-up, signed by the relayer key
	GET  /api/signup/{contract_address}/{pub_key}  - check whether a public key is signed up
	GET  /api/receipts/{content_id}                - fetch an archived sign-up receipt
	GET  /livez, /readyz, /drain, /undrain         - health and draining

Errors are returned as JSON-encoded ErrorResponse values carrying the
enrollment error kind, so that clients can match them with errors.Is.
*/
package api
