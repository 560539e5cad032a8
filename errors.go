package cropview

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the pipeline stage failure.
type ErrorKind int

const (
	KindOversizedFile ErrorKind = iota + 1
	KindUnsupportedType
	KindReadFailure
	KindDecodeTimeout
	KindDecodeFailure
	KindUnsupportedSignature
	KindDimensionOverflow
	KindMemoryOverflow
	KindEncodeFailure
)

var kindNames = map[ErrorKind]string{
	KindOversizedFile:        "OversizedFile",
	KindUnsupportedType:      "UnsupportedType",
	KindReadFailure:          "ReadFailure",
	KindDecodeTimeout:        "DecodeTimeout",
	KindDecodeFailure:        "DecodeFailure",
	KindUnsupportedSignature: "UnsupportedSignature",
	KindDimensionOverflow:    "DimensionOverflow",
	KindMemoryOverflow:       "MemoryOverflow",
	KindEncodeFailure:        "EncodeFailure",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for use with errors.Is. Any *Error of the same kind matches.
var (
	ErrOversizedFile        = &Error{Kind: KindOversizedFile, Msg: "file too large"}
	ErrUnsupportedType      = &Error{Kind: KindUnsupportedType, Msg: "file is not an image"}
	ErrReadFailure          = &Error{Kind: KindReadFailure, Msg: "failed to read file"}
	ErrDecodeTimeout        = &Error{Kind: KindDecodeTimeout, Msg: "image decoding timed out"}
	ErrDecodeFailure        = &Error{Kind: KindDecodeFailure, Msg: "failed to decode image"}
	ErrUnsupportedSignature = &Error{Kind: KindUnsupportedSignature, Msg: "unrecognized image format"}
	ErrDimensionOverflow    = &Error{Kind: KindDimensionOverflow, Msg: "image too wide"}
	ErrMemoryOverflow       = &Error{Kind: KindMemoryOverflow, Msg: "image too large to crop"}
	ErrEncodeFailure        = &Error{Kind: KindEncodeFailure, Msg: "failed to encode preview"}
)

var (
	// ErrBusy is returned by Process when the pipeline is not Idle.
	ErrBusy = errors.New("pipeline busy, reset before processing another file")
	// ErrAborted is returned by Process when Reset is called mid-run.
	ErrAborted = errors.New("pipeline reset while processing")
)

// Error is a pipeline failure. Msg is safe to show to a user. The wrapped
// cause, if any, is kept for logs and never holds image bytes.
type Error struct {
	Kind ErrorKind
	Msg  string
	err  error
}

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		err:  cause,
	}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Msg, e.err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the ErrorKind of err, or 0 if err is not a pipeline error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
