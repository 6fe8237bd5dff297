package signature

import "errors"

var (
	// ErrMissingSecret is returned by New when the signing secret is empty.
	ErrMissingSecret = errors.New("signature: signing secret is required")

	ErrEncodePayload = errors.New("signature: failed to encode payload")
	ErrInvalidUTF8   = errors.New("signature: payload field is not valid utf-8")
)
