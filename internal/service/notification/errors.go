package notification

import "errors"

var (
	ErrNotFound    = errors.New("notification not found")
	ErrUnknownKind = errors.New("unknown appointment event kind")
)
