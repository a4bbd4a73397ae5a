package s1l0

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/s1l0/internal/decodeerr"
)

// Kind identifies one of the error categories: Truncation,
// CorruptValue, SyncMismatch, UnsupportedMode, InvalidConfig. It is an alias
// of internal/decodeerr.Kind so that errors produced deep inside payload/
// and header/ compare equal, via errors.As, to the Kind values exported here.
type Kind = decodeerr.Kind

// Error kinds, re-exported from internal/decodeerr.
const (
	Truncation      = decodeerr.Truncation
	CorruptValue    = decodeerr.CorruptValue
	SyncMismatch    = decodeerr.SyncMismatch
	UnsupportedMode = decodeerr.UnsupportedMode
	InvalidConfig   = decodeerr.InvalidConfig
)

// DecodeError is a decode failure tagged with a Kind and, where meaningful,
// a byte offset. It is an alias of internal/decodeerr.Error so that
// errors.As(err, &derr), with derr a *s1l0.DecodeError, works against errors
// surfaced from any layer of the decoder.
type DecodeError = decodeerr.Error

// wrapf builds a DecodeError whose cause is wrapped with
// github.com/pkg/errors, never a bare fmt.Errorf, so the wrap chain stays
// inspectable via errors.Is/errors.As and pkg/errors.Cause alike.
func wrapf(kind Kind, cause error, format string, args ...interface{}) error {
	return &DecodeError{Kind: kind, Offset: -1, Cause: errors.Wrapf(cause, format, args...)}
}

// newf builds a DecodeError with no underlying cause, formatting its own
// message via github.com/pkg/errors.Errorf so the resulting error still
// carries a stack trace.
func newf(kind Kind, format string, args ...interface{}) error {
	return &DecodeError{Kind: kind, Offset: -1, Cause: errors.Errorf(format, args...)}
}
