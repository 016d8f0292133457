package aggregate

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// relEqual compares floats with the documented relative tolerance for
// summation-order effects.
func relEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= 1e-6*scale
}

func measurementGen() gopter.Gen {
	return gen.Float64Range(-999.9, 999.9)
}

// Merging shards must agree with a single-pass fold: min/max/count exactly,
// sum within the floating-point tolerance.
func TestMergePropertyShardingInvariance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("any 2-way split merges to the whole", prop.ForAll(
		func(values []float64, splitAt int) bool {
			if len(values) == 0 {
				return true
			}
			splitAt = splitAt % (len(values) + 1)
			if splitAt < 0 {
				splitAt += len(values) + 1
			}

			whole := NewMap()
			for _, v := range values {
				whole.Push("s", v)
			}

			left, right := NewMap(), NewMap()
			for _, v := range values[:splitAt] {
				left.Push("s", v)
			}
			for _, v := range values[splitAt:] {
				right.Push("s", v)
			}
			merged := MergeAll(left, right)

			w, m := whole["s"], merged["s"]
			return w.Min == m.Min && w.Max == m.Max && w.Count == m.Count &&
				relEqual(w.Sum, m.Sum)
		},
		gen.SliceOf(measurementGen()),
		gen.Int(),
	))

	properties.Property("merge is commutative", prop.ForAll(
		func(xs, ys []float64) bool {
			build := func(values []float64) *Aggregate {
				if len(values) == 0 {
					return nil
				}
				a := New(values[0])
				for _, v := range values[1:] {
					a.Push(v)
				}
				return a
			}
			a1, b1 := build(xs), build(ys)
			a2, b2 := build(xs), build(ys)
			if a1 == nil || b1 == nil {
				return true
			}

			a1.Merge(b1) // a ⊕ b
			b2.Merge(a2) // b ⊕ a
			return a1.Min == b2.Min && a1.Max == b2.Max &&
				a1.Count == b2.Count && relEqual(a1.Sum, b2.Sum)
		},
		gen.SliceOf(measurementGen()),
		gen.SliceOf(measurementGen()),
	))

	properties.TestingRun(t)
}

func TestFinalizeInvariantProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("min <= avg <= max and count >= 1", prop.ForAll(
		func(values []float64) bool {
			if len(values) == 0 {
				return true
			}
			m := NewMap()
			for _, v := range values {
				m.Push("s", v)
			}
			for _, s := range Finalize(m) {
				agg := m[s.Station]
				if agg.Count < 1 {
					return false
				}
				// Allow for rounding at the avg boundary.
				if s.Avg < s.Min && !relEqual(s.Avg, s.Min) {
					return false
				}
				if s.Avg > s.Max && !relEqual(s.Avg, s.Max) {
					return false
				}
				if s.Min > s.Max {
					return false
				}
			}
			return true
		},
		gen.SliceOf(measurementGen()),
	))

	properties.TestingRun(t)
}
