package etl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ── Sink ───────────────────────────────────────────────────
// A Sink is a place generated datasets can be delivered to.
// Implementations live in etl/sinks/, one file per sink family.

// ErrUnknownSink is returned by GetSink for unregistered types.
var ErrUnknownSink = errors.New("unknown sink type")

// SinkConfig is an opaque configuration map parsed per sink type.
type SinkConfig map[string]any

// String returns the config value for key, or "".
func (c SinkConfig) String(key string) string {
	if v, ok := c[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// ConfigField describes a single configuration input for a sink.
type ConfigField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // "string" | "select" | "password" | "file" | "connection"
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // for "select" type
	Default  string   `json:"default,omitempty"`
	Help     string   `json:"help,omitempty"`
}

// SinkSpec describes a sink type: its label, target meaning and config fields.
type SinkSpec struct {
	Type         string        `json:"type"`
	Label        string        `json:"label"`
	Target       string        `json:"target"` // what Job.Target names: "path" | "table" | "collection" | "bucket"
	ConfigFields []ConfigField `json:"configFields"`
}

// Sink is the interface every sink type must implement.
type Sink interface {
	// Spec returns metadata about this sink type.
	Spec() SinkSpec

	// Open connects to the sink. The caller closes the returned destination.
	Open(ctx context.Context, cfg SinkConfig) (Destination, error)
}

// ── Sink Registry ──────────────────────────────────────────
// Compile-time registration via init() in each sink file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Sink{}
)

// RegisterSink registers a sink by its spec type.
// Called from init() in each sink implementation file.
func RegisterSink(s Sink) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// GetSink returns a registered sink by type.
func GetSink(typ string) (Sink, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, typ)
	}
	return s, nil
}

// ListSinks returns the specs of all registered sinks sorted by type.
func ListSinks() []SinkSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]SinkSpec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Type < specs[j].Type })
	return specs
}
