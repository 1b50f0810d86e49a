package generator

import (
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

// Synthesize produces one record for schema. index is the zero-based
// position of the record in its dataset.
//
// Synthesize never fails: unknown tags, malformed specs and producers that
// reject their arguments all yield the fallback alphanumeric value.
func Synthesize(r *Rand, s schema.Schema, index int) record.Record {
	var rec record.Record
	for _, f := range s {
		rec.Set(f.Name, value(r, f.Name, f.Spec, index))
	}
	return rec
}

func value(r *Rand, name string, spec schema.Spec, index int) any {
	switch sp := spec.(type) {
	case schema.Nested:
		return Synthesize(r, sp.Schema, index)
	case schema.Leaf:
		if !sp.Parameterized() && name == string(KindID) && sp.Tag == string(KindID) {
			return index + 1
		}
		produce, ok := Lookup(sp.Tag)
		if !ok {
			return Fallback(r)
		}
		v, err := produce(r, ArgsFrom(sp.Params))
		if err != nil {
			return Fallback(r)
		}
		return v
	default:
		return Fallback(r)
	}
}
