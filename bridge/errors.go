package bridge

import (
	"github.com/pkg/errors"

	"zkp.mleku.dev"
)

// Tag names the kind of a failure crossing the boundary.
type Tag string

const (
	TagParse           Tag = "ParseError"
	TagInvalidKey      Tag = "InvalidKey"
	TagInvalidInput    Tag = "InvalidInput"
	TagEmptyInput      Tag = "EmptyInput"
	TagMismatch        Tag = "Mismatch"
	TagRewindFailed    Tag = "RewindFailed"
	TagInitialization  Tag = "InitializationError"
	TagTweakOutOfRange Tag = "TweakOutOfRange"
	TagNonceReused     Tag = "NonceReused"
)

// Error is a tagged failure with a human-readable message.
type Error struct {
	Tag     Tag
	Message string
}

func (e *Error) Error() string {
	return string(e.Tag) + ": " + e.Message
}

var tagged = []struct {
	err error
	tag Tag
}{
	{zkp.ErrParse, TagParse},
	{zkp.ErrInvalidKey, TagInvalidKey},
	{zkp.ErrInvalidInput, TagInvalidInput},
	{zkp.ErrEmptyInput, TagEmptyInput},
	{zkp.ErrMismatch, TagMismatch},
	{zkp.ErrRewindFailed, TagRewindFailed},
	{zkp.ErrInitialization, TagInitialization},
	{zkp.ErrTweakOutOfRange, TagTweakOutOfRange},
	{zkp.ErrNonceReused, TagNonceReused},
}

// toError converts an error from the protocol layer into an *Error. Errors
// that match no kind are reported as InvalidInput.
func toError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, t := range tagged {
		if errors.Is(err, t.err) {
			return &Error{Tag: t.tag, Message: err.Error()}
		}
	}
	return &Error{Tag: TagInvalidInput, Message: err.Error()}
}

func parseError(format string, args ...interface{}) error {
	return &Error{Tag: TagParse, Message: errors.Errorf(format, args...).Error()}
}
