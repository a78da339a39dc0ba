// Package jsonwriter emits compact or pretty JSON text for a value.JSON
// into a reusable *bytes.Buffer. Buffers are drawn from a sync.Pool, the
// same reuse pattern the buffer_pool in the example pack uses to spare
// per-record allocations under load.
package jsonwriter

import (
	"bytes"
	"strconv"
	"sync"

	"github.com/SigmaX-ai/illex/internal/value"
)

const defaultBufferCapacity = 4 * 1024

var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, defaultBufferCapacity))
	},
}

// Get returns a reset, ready-to-write buffer from the pool.
func Get() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

// Put returns buf to the pool after clearing it. Do not use buf after
// calling Put.
func Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bufPool.Put(buf)
}

// Writer emits value.JSON trees into a buffer as compact or pretty text.
// It never emits a raw newline inside a string value — the system's
// newline-delimited wire format depends on that invariant.
type Writer struct {
	Pretty bool
}

// Write appends v to buf as one JSON document, with no trailing
// terminator. Callers append the configured whitespace terminator
// themselves (spec.md §4.1).
func (w Writer) Write(buf *bytes.Buffer, v value.JSON) {
	w.writeValue(buf, v, 0)
}

func (w Writer) writeValue(buf *bytes.Buffer, v value.JSON, depth int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case string:
		w.writeString(buf, t)
	case []value.JSON:
		w.writeArray(buf, t, depth)
	case value.Object:
		w.writeObject(buf, t, depth)
	default:
		// Schema-driven generators only ever produce the kinds above.
		panic("jsonwriter: unsupported value type")
	}
}

func (w Writer) writeArray(buf *bytes.Buffer, arr []value.JSON, depth int) {
	buf.WriteByte('[')
	// Pretty form uses single-line arrays (spec.md §4.1), so arrays never
	// indent their elements regardless of depth.
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
			if w.Pretty {
				buf.WriteByte(' ')
			}
		}
		w.writeValue(buf, item, depth+1)
	}
	buf.WriteByte(']')
}

func (w Writer) writeObject(buf *bytes.Buffer, obj value.Object, depth int) {
	if len(obj.Members) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteByte('{')
	inner := depth + 1
	for i, m := range obj.Members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if w.Pretty {
			buf.WriteByte('\n')
			writeIndent(buf, inner)
		}
		w.writeString(buf, m.Name)
		buf.WriteByte(':')
		if w.Pretty {
			buf.WriteByte(' ')
		}
		w.writeValue(buf, m.Value, inner)
	}
	if w.Pretty {
		buf.WriteByte('\n')
		writeIndent(buf, depth)
	}
	buf.WriteByte('}')
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
}

// writeString escapes s per the JSON string grammar. Generated strings are
// restricted to ['a'-'z'] and ISO-8601 date characters, so escaping is a
// defensive pass rather than a load-bearing one, but it keeps the writer
// correct for any future generator that emits richer text.
func (w Writer) writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			// Never emit a raw newline inside a string value: it is the
			// sole record delimiter on the wire (spec.md §4.1, §6).
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
