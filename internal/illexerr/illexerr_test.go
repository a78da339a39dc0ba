package illexerr

import (
	"errors"
	"io"
	"testing"
)

func TestErrorMessageIncludesKindAndCause(t *testing.T) {
	err := IoError("read failed", io.EOF)
	want := "Io: read failed: EOF"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := CliError("bad flag")
	want := "Cli: bad flag"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	err := IoError("write failed", io.ErrClosedPipe)
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected errors.Is to see through to the wrapped cause")
	}
}

func TestErrorsAsRecoversKind(t *testing.T) {
	wrapped := errors.New("wrapping: " + ServerError("accept failed").Error())
	_ = wrapped

	var target *Error
	err := ServerError("accept failed")
	if !errors.As(err, &target) {
		t.Fatal("expected errors.As to match *Error")
	}
	if target.Kind != Server {
		t.Errorf("Kind = %v, want Server", target.Kind)
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		Generic: "Generic",
		Cli:     "Cli",
		Io:      "Io",
		Server:  "ServerError",
		Client:  "ClientError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
