package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/logger"
	appsvcs "github.com/ghuser/stockledger/services/inventory/application/services"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/audit"
)

type testEnv struct {
	*Env
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestEnv(t *testing.T, input string) *testEnv {
	t.Helper()
	svc, err := appsvcs.NewInventoryService(nil, nil, logger.Discard(), appsvcs.Options{
		Limits:            models.DefaultLimits(),
		LowStockThreshold: 10,
		TracerProvider:    tracenoop.NewTracerProvider(),
		MeterProvider:     metricnoop.NewMeterProvider(),
	})
	if err != nil {
		t.Fatalf("NewInventoryService: %v", err)
	}

	dir := t.TempDir()
	te := &testEnv{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	te.Env = &Env{
		Service:   svc,
		Audit:     audit.NewFileLog(filepath.Join(dir, "audit.log")),
		Log:       logger.Discard(),
		Currency:  "USD",
		Style:     config.StylePlain,
		ReportDir: filepath.Join(dir, "reports"),
		In:        strings.NewReader(input),
		Out:       te.out,
		Err:       te.errOut,
	}
	return te
}

// run executes one command line against env the way main does.
func (te *testEnv) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("stockledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := subcommands.NewCommander(fs, "stockledger")
	c.Output = io.Discard
	c.Error = io.Discard
	Register(c, te.Env)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return c.Execute(context.Background())
}

func (te *testEnv) reset() {
	te.out.Reset()
	te.errOut.Reset()
}

func TestCommands_ItemLifecycle(t *testing.T) {
	te := newTestEnv(t, "")

	if got := te.run(t, "add", "-name", "Mango", "-quantity", "67", "-price", "120.00"); got != subcommands.ExitSuccess {
		t.Fatalf("add: expected success, got %d (stderr %q)", got, te.errOut)
	}
	if !strings.Contains(te.out.String(), `Added "Mango" at position 1`) {
		t.Errorf("unexpected add output %q", te.out)
	}
	if !strings.Contains(te.out.String(), "$8,040.00") {
		t.Errorf("expected total value in %q", te.out)
	}

	te.reset()
	if got := te.run(t, "update", "-mode", "add", "-amount", "5", "1"); got != subcommands.ExitSuccess {
		t.Fatalf("update: expected success, got %d (stderr %q)", got, te.errOut)
	}
	if !strings.Contains(te.out.String(), `Updated "Mango": 67 -> 72`) {
		t.Errorf("unexpected update output %q", te.out)
	}

	te.reset()
	if got := te.run(t, "find", "mango"); got != subcommands.ExitSuccess {
		t.Fatalf("find: expected success, got %d", got)
	}
	if !strings.Contains(te.out.String(), "**Quantity:** 72") {
		t.Errorf("unexpected find output %q", te.out)
	}

	te.reset()
	if got := te.run(t, "remove", "Mango"); got != subcommands.ExitSuccess {
		t.Fatalf("remove: expected success, got %d", got)
	}
	if !strings.Contains(te.out.String(), `Removed "Mango"`) {
		t.Errorf("unexpected remove output %q", te.out)
	}

	te.reset()
	te.run(t, "list")
	if !strings.Contains(te.out.String(), "_No items found._") {
		t.Errorf("expected empty list, got %q", te.out)
	}
}

func TestCommands_Rejections(t *testing.T) {
	te := newTestEnv(t, "")
	te.run(t, "add", "-name", "Mango", "-quantity", "67", "-price", "120.00")

	tests := []struct {
		name       string
		args       []string
		wantStatus subcommands.ExitStatus
		wantErr    string
	}{
		{"duplicate name", []string{"add", "-name", "MANGO", "-quantity", "1", "-price", "1"}, subcommands.ExitUsageError, "duplicate item name"},
		{"price not numeric", []string{"add", "-name", "Kiwi", "-quantity", "1", "-price", "abc"}, subcommands.ExitUsageError, "price"},
		{"price too small", []string{"add", "-name", "Kiwi", "-quantity", "1", "-price", "0"}, subcommands.ExitUsageError, "invalid price"},
		{"quantity too large", []string{"add", "-name", "Kiwi", "-quantity", "10001", "-price", "1"}, subcommands.ExitUsageError, "invalid quantity"},
		{"missing flags", []string{"add"}, subcommands.ExitUsageError, "required"},
		{"subtract below zero", []string{"update", "-mode", "subtract", "-amount", "100", "Mango"}, subcommands.ExitUsageError, "invalid quantity"},
		{"unknown mode", []string{"update", "-mode", "double", "-amount", "1", "Mango"}, subcommands.ExitUsageError, "unknown adjust mode"},
		{"update missing item", []string{"update", "-amount", "1", "Kiwi"}, subcommands.ExitFailure, "item not found"},
		{"find missing item", []string{"find", "Kiwi"}, subcommands.ExitFailure, "item not found"},
		{"remove missing item", []string{"remove", "2"}, subcommands.ExitFailure, "item not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te.reset()
			if got := te.run(t, tt.args...); got != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (stderr %q)", tt.wantStatus, got, te.errOut)
			}
			if !strings.HasPrefix(te.errOut.String(), "error: ") {
				t.Errorf("expected error line, got %q", te.errOut)
			}
			if !strings.Contains(te.errOut.String(), tt.wantErr) {
				t.Errorf("expected %q in %q", tt.wantErr, te.errOut)
			}
		})
	}

	e, err := te.Service.Find(context.Background(), "Mango")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if e.Item.Quantity() != 67 {
		t.Errorf("rejected update changed quantity to %d", e.Item.Quantity())
	}
	if n := len(te.Service.List(context.Background(), appsvcs.ListFilter{})); n != 1 {
		t.Errorf("expected 1 item after rejections, got %d", n)
	}
}

func TestCommands_FindWithoutTerm(t *testing.T) {
	te := newTestEnv(t, "")
	for _, name := range []string{"find", "remove"} {
		te.reset()
		if got := te.run(t, name); got != subcommands.ExitUsageError {
			t.Errorf("%s: expected usage error, got %d", name, got)
		}
		if !strings.Contains(te.errOut.String(), "stockledger "+name) {
			t.Errorf("%s: expected usage text, got %q", name, te.errOut)
		}
	}
}

func TestCommands_ListFilters(t *testing.T) {
	te := newTestEnv(t, "")
	if _, err := te.Service.Seed(context.Background(), appsvcs.DefaultFixtures); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	te.reset()
	te.run(t, "list", "-low")
	out := te.out.String()
	for _, name := range []string{"Basmati Rice", "Green Tea"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s in low-stock list %q", name, out)
		}
	}
	if strings.Contains(out, "Mango") {
		t.Errorf("Mango is not low stock: %q", out)
	}

	te.reset()
	te.run(t, "list", "-q", "TEA")
	out = te.out.String()
	if !strings.Contains(out, "| 4 | Green Tea |") {
		t.Errorf("expected Green Tea at position 4 in %q", out)
	}
	if strings.Contains(out, "Honey") {
		t.Errorf("query should exclude Honey: %q", out)
	}
}

func TestCommands_Stats(t *testing.T) {
	te := newTestEnv(t, "")
	te.run(t, "stats")
	if !strings.Contains(te.out.String(), "| Most expensive | none |") {
		t.Errorf("expected none for empty inventory, got %q", te.out)
	}

	te.Service.Seed(context.Background(), appsvcs.DefaultFixtures)
	te.reset()
	te.run(t, "stats")
	out := te.out.String()
	for _, want := range []string{"| Products | 5 |", "| Units | 145 |", "| Most expensive | Mango ($120.00) |", "| Lowest stock | Green Tea (5 units) |"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestCommands_Report(t *testing.T) {
	te := newTestEnv(t, "")
	te.Service.Seed(context.Background(), appsvcs.DefaultFixtures)
	dir := t.TempDir()

	if got := te.run(t, "report", "-o", dir); got != subcommands.ExitSuccess {
		t.Fatalf("expected success, got %d (stderr %q)", got, te.errOut)
	}
	for _, ext := range []string{"json", "md"} {
		matches, err := filepath.Glob(filepath.Join(dir, "inventory_report_*."+ext))
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 1 {
			t.Errorf("expected one .%s report, got %v", ext, matches)
		}
	}
	if !strings.Contains(te.out.String(), "Report written to") {
		t.Errorf("unexpected output %q", te.out)
	}
}

func TestCommands_History(t *testing.T) {
	te := newTestEnv(t, "")

	te.run(t, "history")
	if !strings.Contains(te.out.String(), "_No audit entries._") {
		t.Errorf("expected empty history, got %q", te.out)
	}

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, action := range []string{"add", "update_quantity", "remove_failed"} {
		if err := te.Audit.Append(audit.Entry{Timestamp: ts, Action: action, Detail: "name=\"Mango\""}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	te.reset()
	te.run(t, "history", "-n", "2")
	out := te.out.String()
	if strings.Contains(out, "| add |") {
		t.Errorf("limit should drop the oldest entry: %q", out)
	}
	if !strings.Contains(out, "| remove_failed |") {
		t.Errorf("expected newest entry in %q", out)
	}
}
