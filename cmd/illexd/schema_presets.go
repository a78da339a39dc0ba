package main

import "github.com/SigmaX-ai/illex/internal/schema"

// Schema deserialization from disk is a supplied non-goal (spec.md §1): the
// schema tree itself is built in code. These presets cover the shapes used
// by the testable properties in spec.md §8 and give the CLI something
// concrete to point --schema at until a richer schema source is wired in.
var schemaPresets = map[string]*schema.Node{
	"counter": {
		Kind: schema.KindObject,
		Members: []schema.Node{
			{Kind: schema.KindInteger, Name: "test", IntRangeSet: true, IntMin: 0, IntMax: 1 << 62},
		},
	},
	"pair": {
		Kind: schema.KindObject,
		Members: []schema.Node{
			{Kind: schema.KindNull, Name: "a"},
			{Kind: schema.KindNull, Name: "b"},
		},
	},
	"profile": {
		Kind: schema.KindObject,
		Members: []schema.Node{
			{Kind: schema.KindString, Name: "id", StrLenMin: 8, StrLenMax: 8},
			{Kind: schema.KindInteger, Name: "age", IntRangeSet: true, IntMin: 0, IntMax: 120},
			{Kind: schema.KindBool, Name: "active"},
			{Kind: schema.KindDateString, Name: "signed_up"},
			{Kind: schema.KindArray, Name: "tags", ArrLenMin: 0, ArrLenMax: 5,
				Item: &schema.Node{Kind: schema.KindString, StrLenMin: 3, StrLenMax: 10}},
			{Kind: schema.KindFixedArray, Name: "scores", FixedLen: 3,
				Item: &schema.Node{Kind: schema.KindInteger, IntRangeSet: true, IntMin: 0, IntMax: 100}},
		},
	},
}

func lookupSchema(name string) (*schema.Node, bool) {
	n, ok := schemaPresets[name]
	return n, ok
}
