package generator

import (
	"errors"
	"sort"
)

// Kind is a registered generator tag.
type Kind string

// Producer yields one value. Zero-argument generators ignore args.
// A producer that cannot honour its args returns an error and the
// synthesizer substitutes the fallback value.
type Producer func(r *Rand, args Args) (any, error)

// Descriptor describes a registered generator for listings.
type Descriptor struct {
	Kind          Kind   `json:"kind"`
	Parameterized bool   `json:"parameterized"`
	Description   string `json:"description"`
}

type entry struct {
	produce Producer
	desc    Descriptor
}

// ErrBadArgs is returned by parameterized producers given unusable arguments.
var ErrBadArgs = errors.New("invalid generator arguments")

// FallbackLength is the length of the value produced for unknown tags.
const FallbackLength = 10

// ── Registry ───────────────────────────────────────────────
// Populated once from the catalogue at package init and never mutated
// afterwards, so lookups need no locking.

var registry = func() map[Kind]entry {
	m := make(map[Kind]entry, len(catalogue))
	for _, e := range catalogue {
		m[e.desc.Kind] = e
	}
	return m
}()

// Lookup returns the producer registered for tag.
func Lookup(tag string) (Producer, bool) {
	e, ok := registry[Kind(tag)]
	if !ok {
		return nil, false
	}
	return e.produce, true
}

// Describe returns the descriptor registered for tag.
func Describe(tag string) (Descriptor, bool) {
	e, ok := registry[Kind(tag)]
	return e.desc, ok
}

// List returns every registered generator sorted by kind.
func List() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Fallback produces the default value used for unknown tags and malformed specs.
func Fallback(r *Rand) string {
	return r.Alphanumeric(FallbackLength)
}

func fixed(kind Kind, desc string, fn func(r *Rand) any) entry {
	return entry{
		produce: func(r *Rand, _ Args) (any, error) { return fn(r), nil },
		desc:    Descriptor{Kind: kind, Description: desc},
	}
}

func param(kind Kind, desc string, fn Producer) entry {
	return entry{produce: fn, desc: Descriptor{Kind: kind, Parameterized: true, Description: desc}}
}
