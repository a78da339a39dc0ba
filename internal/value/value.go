// Package value implements the ValueGenerator tree: a set of generator
// nodes, one per schema.Node, that each produce a freshly constructed JSON
// value on every Get call. Generators are deterministic given a seed: the
// same (seed, schema) pair always yields the same sequence of values.
package value

import (
	"fmt"
	"math/rand/v2"

	"github.com/SigmaX-ai/illex/internal/schema"
)

// JSON is the dynamic value a generator produces. It mirrors the shapes
// that encoding/json already knows how to marshal, so the jsonwriter
// package can stay format-agnostic.
type JSON any

// Generator produces one JSON value per call, reading from a shared
// *rand.Rand. It never mutates the schema it was built from.
type Generator interface {
	Get(r *rand.Rand) JSON
}

// lowerAlpha is the character set used by String generators, per spec:
// chars uniform over ['a'..'z'].
const lowerAlpha = "abcdefghijklmnopqrstuvwxyz"

// New builds a Generator tree mirroring the given schema node.
func New(n *schema.Node) Generator {
	switch n.Kind {
	case schema.KindNull:
		return nullGen{}
	case schema.KindBool:
		return boolGen{}
	case schema.KindInteger:
		lo, hi := n.Int64Range()
		return intGen{min: lo, max: hi}
	case schema.KindString:
		lenMin, lenMax := n.StrLenMin, n.StrLenMax
		if lenMax == 0 {
			lenMax = lenMin
		}
		return stringGen{lenMin: lenMin, lenMax: lenMax}
	case schema.KindDateString:
		return dateGen{}
	case schema.KindArray:
		return arrayGen{lenMin: n.ArrLenMin, lenMax: n.ArrLenMax, item: New(n.Item)}
	case schema.KindFixedArray:
		return fixedArrayGen{len: n.FixedLen, item: New(n.Item)}
	case schema.KindObject:
		members := make([]memberGen, len(n.Members))
		for i := range n.Members {
			members[i] = memberGen{name: n.Members[i].Name, gen: New(&n.Members[i])}
		}
		return objectGen{members: members}
	default:
		panic(fmt.Sprintf("value: unknown schema kind %d", n.Kind))
	}
}

// NewRand constructs the seeded PRNG a Generator tree is driven by.
// Thread isolation (spec.md §4.1): callers diverge concurrent producer
// threads by adding the thread index to the base seed before calling this.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

type nullGen struct{}

func (nullGen) Get(*rand.Rand) JSON { return nil }

type boolGen struct{}

func (boolGen) Get(r *rand.Rand) JSON { return r.IntN(2) == 1 }

type intGen struct{ min, max int64 }

func (g intGen) Get(r *rand.Rand) JSON {
	if g.max <= g.min {
		return g.min
	}
	span := uint64(g.max - g.min)
	return g.min + int64(r.Uint64N(span+1))
}

type stringGen struct{ lenMin, lenMax int }

func (g stringGen) Get(r *rand.Rand) JSON {
	n := g.lenMin
	if g.lenMax > g.lenMin {
		n = g.lenMin + r.IntN(g.lenMax-g.lenMin+1)
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = lowerAlpha[r.IntN(len(lowerAlpha))]
	}
	return string(buf)
}

// dateGen produces an ISO-8601-like string:
// YYYY-MM-DDTHH:MM:SS±HH:00, year in [2000,2020], month [1,12], day [1,28],
// hour [0,23], minute/sec [0,59], timezone offset [-12,+12].
type dateGen struct{}

func (dateGen) Get(r *rand.Rand) JSON {
	year := 2000 + r.IntN(21)
	month := 1 + r.IntN(12)
	day := 1 + r.IntN(28)
	hour := r.IntN(24)
	minute := r.IntN(60)
	sec := r.IntN(60)
	tz := -12 + r.IntN(25)

	sign := byte('+')
	if tz < 0 {
		sign = '-'
		tz = -tz
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d%c%02d:00",
		year, month, day, hour, minute, sec, sign, tz)
}

type arrayGen struct {
	lenMin, lenMax int
	item           Generator
}

func (g arrayGen) Get(r *rand.Rand) JSON {
	n := g.lenMin
	if g.lenMax > g.lenMin {
		n = g.lenMin + r.IntN(g.lenMax-g.lenMin+1)
	}
	out := make([]JSON, n)
	for i := range out {
		out[i] = g.item.Get(r)
	}
	return out
}

type fixedArrayGen struct {
	len  int
	item Generator
}

func (g fixedArrayGen) Get(r *rand.Rand) JSON {
	out := make([]JSON, g.len)
	for i := range out {
		out[i] = g.item.Get(r)
	}
	return out
}

type memberGen struct {
	name string
	gen  Generator
}

// objectGen preserves declaration order: members are walked and written
// in the order they appear in the schema, never re-sorted.
type objectGen struct {
	members []memberGen
}

// Member is one named field of a synthesized object, in declaration order.
type Member struct {
	Name  string
	Value JSON
}

// Object is an ordered record: encoding/json would sort a map's keys, so
// the writer walks this slice directly to preserve schema order.
type Object struct {
	Members []Member
}

func (g objectGen) Get(r *rand.Rand) JSON {
	obj := Object{Members: make([]Member, len(g.members))}
	for i, m := range g.members {
		obj.Members[i] = Member{Name: m.name, Value: m.gen.Get(r)}
	}
	return obj
}
