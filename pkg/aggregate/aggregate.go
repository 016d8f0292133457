// Package aggregate holds the per-station running summary and the
// operations that combine summaries across parallel shards.
//
// An Aggregate is seeded from the first observed measurement and mutated
// in place by every later one. Combining two Aggregates for the same
// station is associative and commutative, which is what allows shards
// processed by independent workers to be folded together in any order
// (floating-point summation order may perturb the least-significant bits
// of Sum; Min, Max and Count are exact).
package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// Aggregate is the running min/max/sum/count summary for one station.
type Aggregate struct {
	Min   float64
	Max   float64
	Sum   float64
	Count int64
}

// New seeds an aggregate from the first measurement of a station.
func New(measurement float64) *Aggregate {
	return &Aggregate{
		Min:   measurement,
		Max:   measurement,
		Sum:   measurement,
		Count: 1,
	}
}

// Push folds one more measurement into the aggregate.
func (a *Aggregate) Push(measurement float64) {
	if measurement < a.Min {
		a.Min = measurement
	} else if measurement > a.Max {
		a.Max = measurement
	}
	a.Sum += measurement
	a.Count++
}

// Merge folds another aggregate for the same station into this one.
func (a *Aggregate) Merge(b *Aggregate) {
	if b.Min < a.Min {
		a.Min = b.Min
	}
	if b.Max > a.Max {
		a.Max = b.Max
	}
	a.Sum += b.Sum
	a.Count += b.Count
}

// Avg returns the arithmetic mean. Computed once at finalization, not
// tracked incrementally.
func (a *Aggregate) Avg() float64 {
	return a.Sum / float64(a.Count)
}

// Map is a station-keyed collection of aggregates. It is owned exclusively
// by the engine that builds it until handed to MergeAll or Finalize; it is
// not safe for concurrent mutation.
type Map map[string]*Aggregate

// NewMap creates an empty aggregation map.
func NewMap() Map {
	return make(Map)
}

// Push records a measurement for a station, creating its aggregate on
// first observation.
func (m Map) Push(station string, measurement float64) {
	if agg, ok := m[station]; ok {
		agg.Push(measurement)
		return
	}
	m[station] = New(measurement)
}

// MergeAll combines per-shard maps into one, folding aggregates for
// stations present in more than one shard. Ownership of the input maps
// transfers to MergeAll; they must not be touched afterwards.
func MergeAll(maps ...Map) Map {
	if len(maps) == 0 {
		return NewMap()
	}

	merged := maps[0]
	if merged == nil {
		merged = NewMap()
	}
	for _, m := range maps[1:] {
		for station, agg := range m {
			if existing, ok := merged[station]; ok {
				existing.Merge(agg)
			} else {
				merged[station] = agg
			}
		}
	}
	return merged
}

// Summary is the finalized result for one station.
type Summary struct {
	Station string  `json:"station"`
	Min     float64 `json:"min"`
	Avg     float64 `json:"avg"`
	Max     float64 `json:"max"`
}

// String renders the summary in the canonical display format, values
// rounded to one decimal place.
func (s Summary) String() string {
	return fmt.Sprintf("%s=%.1f/%.1f/%.1f", s.Station, s.Min, s.Avg, s.Max)
}

// Finalize converts a map into summaries sorted ascending by station name
// (byte-wise lexicographic). Full precision is retained; rounding happens
// only in String.
func Finalize(m Map) []Summary {
	summaries := make([]Summary, 0, len(m))
	for station, agg := range m {
		summaries = append(summaries, Summary{
			Station: station,
			Min:     agg.Min,
			Avg:     agg.Avg(),
			Max:     agg.Max,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Station < summaries[j].Station
	})
	return summaries
}

// FormatText renders summaries as the canonical single-line listing.
func FormatText(summaries []Summary) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range summaries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteByte('}')
	return b.String()
}
