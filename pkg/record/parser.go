// Package record parses individual measurement records.
//
// A record is a single line of the form <station>;<value>, where the
// station name is arbitrary UTF-8 without embedded separators or newlines
// and the value is a finite decimal number. Parsing is a pure function;
// any deviation from the format is a fatal malformed_record error, never
// skipped.
package record

import (
	"bytes"
	"math"
	"strconv"

	"github.com/windrose-io/windrose/pkg/errors"
)

// Separator divides the station name from the measurement within a line.
const Separator = ';'

// Parse splits one line (without its trailing newline) into a station key
// and a measurement. It fails when the separator is absent, the key is
// empty, or the value is not a finite decimal number. No whitespace
// trimming is performed.
func Parse(line []byte) (string, float64, error) {
	idx := bytes.IndexByte(line, Separator)
	if idx < 0 {
		return "", 0, errors.New(errors.ErrorTypeMalformed, "missing separator").
			WithDetail("line", string(line))
	}
	if idx == 0 {
		return "", 0, errors.New(errors.ErrorTypeMalformed, "empty station key").
			WithDetail("line", string(line))
	}

	value, err := strconv.ParseFloat(string(line[idx+1:]), 64)
	if err != nil {
		return "", 0, errors.Wrap(err, errors.ErrorTypeMalformed, "invalid measurement").
			WithDetail("line", string(line))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", 0, errors.New(errors.ErrorTypeMalformed, "non-finite measurement").
			WithDetail("line", string(line))
	}

	return string(line[:idx]), value, nil
}
