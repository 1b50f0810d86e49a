package generator

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

// ErrNegativeCount is returned when a dataset of fewer than zero records is requested.
var ErrNegativeCount = errors.New("count must be >= 0")

// Options controls a single generation run.
type Options struct {
	// Seed makes the run reproducible. Nil seeds from the runtime's entropy.
	Seed *int64
	// Format selects the serialization used when OutputPath is set.
	Format format.Format
	// OutputPath, when set, receives the serialized dataset.
	OutputPath string
	// AdditionalData is merged into every record, overriding synthesized keys.
	AdditionalData record.Record
	// Now anchors relative dates. Zero means time.Now() for unseeded runs
	// and a fixed epoch for seeded ones.
	Now time.Time
	// Progress, when set, is called after each record.
	Progress func(done, total int)
}

// Seed is a convenience for filling Options.Seed.
func Seed(v int64) *int64 { return &v }

// NewRandFor returns the handle a run with opts would use.
func NewRandFor(opts Options) *Rand {
	now := opts.Now
	if opts.Seed != nil {
		if now.IsZero() {
			now = seededEpoch
		}
		return NewRand(*opts.Seed, now)
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return NewEntropyRand(now)
}

// Build generates count records in index order. It has no side effects;
// OutputPath is ignored.
func Build(count int, s schema.Schema, opts Options) (record.Dataset, error) {
	if count < 0 {
		return nil, fmt.Errorf("build %d records: %w", count, ErrNegativeCount)
	}
	r := NewRandFor(opts)
	ds := make(record.Dataset, 0, count)
	for i := 0; i < count; i++ {
		rec := Synthesize(r, s, i)
		if opts.AdditionalData.Len() > 0 {
			rec.Merge(opts.AdditionalData.Clone())
		}
		ds = append(ds, rec)
		if opts.Progress != nil {
			opts.Progress(i+1, count)
		}
	}
	return ds, nil
}

// GenerateData builds count records and, when opts.OutputPath is set,
// writes them in opts.Format. A write failure is returned and no dataset.
func GenerateData(count int, s schema.Schema, opts Options) (record.Dataset, error) {
	ds, err := Build(count, s, opts)
	if err != nil {
		return nil, err
	}
	if opts.OutputPath == "" {
		return ds, nil
	}
	if err := format.WriteFile(opts.OutputPath, ds, opts.Format); err != nil {
		return nil, err
	}
	log.Printf("[GENERATE] Generated %d records and saved to %s", len(ds), opts.OutputPath)
	return ds, nil
}
