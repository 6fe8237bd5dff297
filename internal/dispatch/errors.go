package dispatch

import "errors"

var (
	ErrMissingInAppAdapter = errors.New("dispatch: in-app adapter is required")
	ErrMissingSigner       = errors.New("dispatch: signer is required")
	ErrMissingStore        = errors.New("dispatch: record store is required")
	ErrMissingUser         = errors.New("dispatch: user id is required")
	ErrMissingEventType    = errors.New("dispatch: event type is required")
	ErrInvalidPriority     = errors.New("dispatch: invalid priority")
	ErrInvalidText         = errors.New("dispatch: request text is not valid utf-8")
	ErrSignFailed          = errors.New("dispatch: failed to sign record")
	ErrPersistFailed       = errors.New("dispatch: failed to persist record")
	ErrIllegalTransition   = errors.New("dispatch: illegal state transition")
)
