package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSeedAndPush(t *testing.T) {
	a := New(30.3)
	assert.Equal(t, 30.3, a.Min)
	assert.Equal(t, 30.3, a.Max)
	assert.Equal(t, 30.3, a.Sum)
	assert.Equal(t, int64(1), a.Count)

	a.Push(74.9)
	a.Push(27.5)
	a.Push(20.9)

	assert.Equal(t, 20.9, a.Min)
	assert.Equal(t, 74.9, a.Max)
	assert.Equal(t, int64(4), a.Count)
	assert.InDelta(t, 38.4, a.Avg(), 1e-9)
}

func TestAggregateMerge(t *testing.T) {
	a := New(-47.5)
	b := New(6.6)

	a.Merge(b)
	assert.Equal(t, -47.5, a.Min)
	assert.Equal(t, 6.6, a.Max)
	assert.Equal(t, int64(2), a.Count)
	assert.InDelta(t, -20.45, a.Avg(), 1e-9)
}

func TestMapPush(t *testing.T) {
	m := NewMap()
	m.Push("Shimanto", 30.3)
	m.Push("Shimanto", 74.9)
	m.Push("Zverevo", 98.1)

	require.Len(t, m, 2)
	assert.Equal(t, int64(2), m["Shimanto"].Count)
	assert.Equal(t, int64(1), m["Zverevo"].Count)
}

func TestMergeAll(t *testing.T) {
	m1 := NewMap()
	m1.Push("a", 1)
	m1.Push("b", 2)

	m2 := NewMap()
	m2.Push("b", 4)
	m2.Push("c", 8)

	m3 := NewMap()
	m3.Push("b", 6)

	merged := MergeAll(m1, m2, m3)
	require.Len(t, merged, 3)

	b := merged["b"]
	assert.Equal(t, 2.0, b.Min)
	assert.Equal(t, 6.0, b.Max)
	assert.Equal(t, 12.0, b.Sum)
	assert.Equal(t, int64(3), b.Count)

	assert.Equal(t, int64(1), merged["a"].Count)
	assert.Equal(t, int64(1), merged["c"].Count)
}

func TestMergeAllEmpty(t *testing.T) {
	assert.Empty(t, MergeAll())
	assert.Empty(t, MergeAll(NewMap(), NewMap()))
}

func TestFinalizeSortsByStation(t *testing.T) {
	m := NewMap()
	m.Push("Zverevo", 98.1)
	m.Push("Aïn el Mediour", 47.6)
	m.Push("Glens Falls", -47.5)
	m.Push("Paidiipalli", 91.1)

	summaries := Finalize(m)
	require.Len(t, summaries, 4)

	stations := make([]string, len(summaries))
	for i, s := range summaries {
		stations[i] = s.Station
	}
	assert.Equal(t, []string{"Aïn el Mediour", "Glens Falls", "Paidiipalli", "Zverevo"}, stations)
}

func TestFinalizeEmptyMap(t *testing.T) {
	assert.Empty(t, Finalize(NewMap()))
}

func TestSummaryString(t *testing.T) {
	s := Summary{Station: "Paidiipalli", Min: 91.1, Avg: 91.1, Max: 91.1}
	assert.Equal(t, "Paidiipalli=91.1/91.1/91.1", s.String())

	neg := Summary{Station: "Glens Falls", Min: -47.5, Avg: -20.5, Max: 6.6}
	assert.Equal(t, "Glens Falls=-47.5/-20.5/6.6", neg.String())
}

func TestFormatText(t *testing.T) {
	summaries := []Summary{
		{Station: "a", Min: 1, Avg: 1, Max: 1},
		{Station: "b", Min: 2, Avg: 2.5, Max: 3},
	}
	assert.Equal(t, "{a=1.0/1.0/1.0, b=2.0/2.5/3.0}", FormatText(summaries))
	assert.Equal(t, "{}", FormatText(nil))
}
