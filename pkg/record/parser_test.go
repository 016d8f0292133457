package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-io/windrose/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		station string
		value   float64
	}{
		{"positive", "Shimanto;30.3", "Shimanto", 30.3},
		{"negative", "Glens Falls;-47.5", "Glens Falls", -47.5},
		{"zero", "Zverevo;0", "Zverevo", 0},
		{"integer value", "Paidiipalli;91", "Paidiipalli", 91},
		{"unicode station", "Aïn el Mediour;5.7", "Aïn el Mediour", 5.7},
		{"scientific notation", "Shimanto;3.03e1", "Shimanto", 30.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			station, value, err := Parse([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.station, station)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing separator", "Shimanto 30.3"},
		{"empty line", ""},
		{"empty key", ";30.3"},
		{"empty value", "Shimanto;"},
		{"non-numeric value", "Shimanto;warm"},
		{"second separator corrupts value", "Shimanto;1;2"},
		{"NaN rejected", "Shimanto;NaN"},
		{"positive infinity rejected", "Shimanto;+Inf"},
		{"negative infinity rejected", "Shimanto;-Inf"},
		{"whitespace not trimmed", "Shimanto; 30.3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.line))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeMalformed), "expected malformed_record, got %v", err)
		})
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	_, _, err := Parse([]byte("no separator here"))
	require.Error(t, err)

	line, ok := errors.Detail(err, "line")
	require.True(t, ok)
	assert.Equal(t, "no separator here", line)
}
