package inbox

import "errors"

var (
	ErrHubClosed     = errors.New("inbox: hub is closed")
	ErrEmptyUserID   = errors.New("inbox: user id is required")
	ErrRelayEncoding = errors.New("inbox: failed to encode relay envelope")
)
