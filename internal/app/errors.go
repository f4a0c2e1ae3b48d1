package app

import (
	"errors"
	"fmt"
)

// ErrUnknownKind indicates an unrecognized run kind.
var ErrUnknownKind = errors.New("unknown run kind")

func wrapUnknownKind(s string) error {
	return fmt.Errorf("%w: %q (want raw, derived or both)", ErrUnknownKind, s)
}
