package auth

import "errors"

var (
	ErrMissingSigningKey = errors.New("auth: signing key is required")
	ErrInvalidToken      = errors.New("auth: invalid token")
	ErrMissingSubject    = errors.New("auth: token subject is required")
	ErrUnauthenticated   = errors.New("auth: unauthenticated")
)
