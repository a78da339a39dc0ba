// Package illexerr defines the typed error kinds shared across the producer,
// server, and client packages.
package illexerr

import "fmt"

// Kind classifies an Error so callers can branch on failure category
// without string matching.
type Kind int

const (
	// Generic covers errors that do not fit a more specific kind.
	Generic Kind = iota
	// Cli covers invalid configuration supplied by the caller.
	Cli
	// Io covers local file/stream I/O failures.
	Io
	// Server covers failures in the TCP server's accept/drain loop.
	Server
	// Client covers failures in a receive loop (buffering or queueing).
	Client
)

func (k Kind) String() string {
	switch k {
	case Cli:
		return "Cli"
	case Io:
		return "Io"
	case Server:
		return "ServerError"
	case Client:
		return "ClientError"
	default:
		return "Generic"
	}
}

// Error is the typed error carried through the system. It always has a
// message and a Kind; it may wrap an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Newf builds a Generic error with a formatted message.
func Newf(format string, args ...any) *Error {
	return newErr(Generic, fmt.Sprintf(format, args...), nil)
}

// CliError reports invalid configuration.
func CliError(msg string) *Error { return newErr(Cli, msg, nil) }

// IoError wraps a local I/O failure.
func IoError(msg string, err error) *Error { return newErr(Io, msg, err) }

// ServerError reports a failure in the server's accept/drain loop.
func ServerError(msg string) *Error { return newErr(Server, msg, nil) }

// ServerErrorf reports a formatted server failure.
func ServerErrorf(format string, args ...any) *Error {
	return newErr(Server, fmt.Sprintf(format, args...), nil)
}

// ClientError reports a failure in a receive loop.
func ClientError(msg string) *Error { return newErr(Client, msg, nil) }

// ClientErrorf reports a formatted client failure.
func ClientErrorf(format string, args ...any) *Error {
	return newErr(Client, fmt.Sprintf(format, args...), nil)
}
