// Package testutil provides testing utilities for windrose
package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// FixtureInput is the canonical 11-record input used across tests.
const FixtureInput = `Glens Falls;-47.5
Shimanto;30.3
Zverevo;98.1
Shimanto;74.9
Zverevo;87.6
Aïn el Mediour;47.6
Paidiipalli;91.1
Shimanto;27.5
Aïn el Mediour;5.7
Shimanto;20.9
Glens Falls;6.6
`

// ExpectedStation holds the mathematically expected result for one station.
type ExpectedStation struct {
	Station string
	Min     float64
	Avg     float64
	Max     float64
}

// FixtureExpected is the sorted expected result of aggregating FixtureInput.
// Avg values are exact in decimal; compare with a small tolerance.
var FixtureExpected = []ExpectedStation{
	{"Aïn el Mediour", 5.7, 26.65, 47.6},
	{"Glens Falls", -47.5, -20.45, 6.6},
	{"Paidiipalli", 91.1, 91.1, 91.1},
	{"Shimanto", 20.9, 38.4, 74.9},
	{"Zverevo", 87.6, 92.85, 98.1},
}

// WriteTempFile writes content to a file in the test's temp directory and
// returns its path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// RandomInput generates n well-formed records over the given station names
// with measurements in [-99.9, 99.9], deterministically from seed.
func RandomInput(seed int64, stations []string, n int) string {
	rng := rand.New(rand.NewSource(seed))
	var b strings.Builder
	for i := 0; i < n; i++ {
		station := stations[rng.Intn(len(stations))]
		value := (rng.Float64() - 0.5) * 199.8
		fmt.Fprintf(&b, "%s;%.1f\n", station, value)
	}
	return b.String()
}
