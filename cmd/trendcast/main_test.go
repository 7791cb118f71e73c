package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"TrendCast/internal/model"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`
log:
  level: error
data_source:
  provider: mock
  lookback_days: 200
database:
  sqlite_path: %s
export:
  csv_dir: %s
`, filepath.Join(dir, "trendcast.db"), filepath.Join(dir, "historical_data"))
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--config", writeTestConfig(t), "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("trendcast %v: %v", args, err)
	}
	return out.String()
}

func TestForecastCommand_Table(t *testing.T) {
	out := run(t, "forecast", "aapl", "--horizon", "5")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "AAPL") {
		t.Errorf("header = %q", lines[0])
	}
	// two summary lines, a blank, the table header and five rows
	if len(lines) != 9 {
		t.Errorf("got %d lines:\n%s", len(lines), out)
	}
}

func TestForecastCommand_JSON(t *testing.T) {
	out := run(t, "forecast", "MSFT", "--horizon", "3", "--z", "2.58", "--json")
	var f model.Forecast
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(f.Points) != 3 || f.ConfidenceZ != 2.58 {
		t.Errorf("forecast = %+v", f)
	}
}

func TestFetchCommand(t *testing.T) {
	out := run(t, "fetch", "IBM")
	if !strings.Contains(out, "IBM:") || !strings.Contains(out, "SMA20") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestForecastCommand_InvalidRatio(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", writeTestConfig(t), "forecast", "AAPL", "--ratio", "1.2"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for ratio outside (0, 1)")
	}
}
