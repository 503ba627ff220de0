// Package enrollment signs participants up to a MACI registry.
//
// A Service bundles three operations:
//
//   - Validate checks a serialized public key, the registry address and the two
//     opaque 32-byte data blobs, in that order, before anything is sent.
//   - Submit dispatches the signUp transaction, waits for the receipt and
//     decodes the assigned state index from the SignUp event.
//   - Lookup answers whether a key is already signed up by querying historical
//     SignUp events.
//
// Every failure is returned as an *Error whose Kind can be matched with
// errors.Is against the package sentinels (ErrInvalidPublicKey,
// ErrRegistryNotFound, ...). Nothing is retried.
//
// Example:
//
//	svc := enrollment.NewService(registry.NewRegistryFactory(client, client), enrollment.NopPresenter{}, log)
//	result, err := svc.SignUp(ctx, enrollment.SignUpArgs{
//	    ValidateArgs: enrollment.ValidateArgs{PublicKey: "macipk.2c8f...", Registry: address},
//	    Auth:         auth,
//	})
//	if errors.Is(err, enrollment.ErrOutcomeUnknown) {
//	    // the transaction may still be mined; check with Lookup before retrying
//	}
package enrollment
