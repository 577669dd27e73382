package widget

import (
	"errors"

	"github.com/pthm/widget/lib/encoding"
)

// Sentinel errors for hub operations.
var (
	ErrBroadcastDepth = errors.New("widget: broadcast nested too deeply")
	ErrInvalidPayload = errors.New("widget: payload must be a map or struct")
)

// IsBroadcastDepth checks if err was caused by runaway re-entrant emits.
func IsBroadcastDepth(err error) bool {
	return errors.Is(err, ErrBroadcastDepth)
}

// IsInvalidPayload checks if err was caused by a payload that has no fields.
func IsInvalidPayload(err error) bool {
	return errors.Is(err, ErrInvalidPayload) || errors.Is(err, encoding.ErrInvalidPayload)
}
