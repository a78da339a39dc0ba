package jsonwriter

import (
	"testing"

	"github.com/SigmaX-ai/illex/internal/value"
)

// TestPrettyObjectMatchesE5 reproduces spec.md's E5 scenario literally:
// schema {a: null, b: null}, one record, pretty mode.
func TestPrettyObjectMatchesE5(t *testing.T) {
	w := Writer{Pretty: true}
	buf := Get()
	defer Put(buf)

	obj := value.Object{Members: []value.Member{
		{Name: "a", Value: nil},
		{Name: "b", Value: nil},
	}}
	w.Write(buf, obj)
	buf.WriteByte('\n')

	want := "{\n    \"a\": null,\n    \"b\": null\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompactObjectHasNoWhitespace(t *testing.T) {
	w := Writer{Pretty: false}
	buf := Get()
	defer Put(buf)

	obj := value.Object{Members: []value.Member{
		{Name: "test", Value: int64(0)},
	}}
	w.Write(buf, obj)

	want := `{"test":0}`
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmptyObjectIsBraces(t *testing.T) {
	w := Writer{Pretty: true}
	buf := Get()
	defer Put(buf)

	w.Write(buf, value.Object{})
	if got := buf.String(); got != "{}" {
		t.Errorf("got %q, want {}", got)
	}
}

func TestArraysAreAlwaysSingleLine(t *testing.T) {
	w := Writer{Pretty: true}
	buf := Get()
	defer Put(buf)

	w.Write(buf, []value.JSON{int64(1), int64(2), int64(3)})
	if got := buf.String(); got != "[1, 2, 3]" {
		t.Errorf("got %q, want [1, 2, 3]", got)
	}
}

func TestStringEscapesNewlineAndQuote(t *testing.T) {
	w := Writer{Pretty: false}
	buf := Get()
	defer Put(buf)

	w.Write(buf, "a\"b\nc")
	want := `"a\"b\nc"`
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPutResetsBufferForReuse(t *testing.T) {
	buf := Get()
	buf.WriteString("leftover")
	Put(buf)

	buf2 := Get()
	if buf2.Len() != 0 {
		t.Errorf("expected a reused buffer to start empty, got len %d", buf2.Len())
	}
}
