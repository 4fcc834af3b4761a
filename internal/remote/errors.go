package remote

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"syscall"
)

// Kind tells the retry logic whether a failure may go away after a reconnect.
type Kind int

const (
	KindPermanent Kind = iota
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	default:
		return "permanent"
	}
}

var (
	ErrTransient = errors.New("transient remote error")
	ErrPermanent = errors.New("permanent remote error")

	errNoSession = errors.New("no active session")
)

// Error is returned by every Client operation.
type Error struct {
	Op   string
	Path string
	Kind Kind
	// Code is the FTP reply code, 0 when the failure was not a reply.
	Code int
	Err  error
}

func newError(op, path string, err error) *Error {
	e := &Error{Op: op, Path: path, Kind: Classify(err), Err: err}
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		e.Code = tpErr.Code
	}
	return e
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("remote %s (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("remote %s %s (%s): %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrPermanent:
		return e.Kind == KindPermanent
	}
	return false
}

// Classify maps a transport error to a Kind. FTP 4xx replies and a dropped
// control connection are transient; everything else is permanent.
func Classify(err error) Kind {
	if err == nil {
		return KindPermanent
	}

	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		if tpErr.Code >= 400 && tpErr.Code < 500 {
			return KindTransient
		}
		return KindPermanent
	}

	switch {
	case errors.Is(err, errNoSession),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}

	return KindPermanent
}
