// Package enrollmenthandler serves MACI sign-ups and sign-up lookups over HTTP.
//
// The relayer signs sign-up transactions with its own key, so participants do
// not need a funded account. Sign-up relaying is only enabled when a signer is
// configured, and receipt retrieval only when an archive is. Lookups are
// always served.
//
// Routes:
//
//	POST /api/signup/{contract_address}
//	GET  /api/signup/{contract_address}/{pub_key}
//	GET  /api/receipts/{content_id}
//
// Enrollment failures are mapped to HTTP statuses as follows:
//
//	invalid_public_key, invalid_gateway_data, invalid_voice_credit_data  400
//	registry_not_found                                                  404
//	transaction_failed, receipt_unavailable, query_failed               502
//	outcome_unknown                                                     504
//
// Client wraps these endpoints and turns error responses back into
// *enrollment.Error values.
package enrollmenthandler
