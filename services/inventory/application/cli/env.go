// Package cli is the operator-facing presentation layer: one subcommand per
// inventory operation plus an interactive menu. It owns all reading,
// re-prompting, and rendering; the inventory service never touches the
// terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/errcli"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/telemetry"
	appsvcs "github.com/ghuser/stockledger/services/inventory/application/services"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/audit"
)

// Env carries everything the commands need. As a CLI the process is short
// lived, so one Env is built in main and shared by every command.
type Env struct {
	Service   *appsvcs.InventoryService
	Audit     *audit.FileLog
	Log       logger.Logger
	Currency  string
	Style     string // glamour style name, or config.StylePlain
	ReportDir string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Register adds every inventory command to c.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&menuCmd{env: env}, "")

	c.Register(&addCmd{env: env}, "items")
	c.Register(&listCmd{env: env}, "items")
	c.Register(&findCmd{env: env}, "items")
	c.Register(&updateCmd{env: env}, "items")
	c.Register(&removeCmd{env: env}, "items")

	c.Register(&statsCmd{env: env}, "reports")
	c.Register(&reportCmd{env: env}, "reports")
	c.Register(&historyCmd{env: env}, "reports")
}

// fail prints err and maps it to an exit status. Unexpected errors are
// also sent to Sentry.
func (e *Env) fail(ctx context.Context, command string, err error) subcommands.ExitStatus {
	if !errcli.Expected(err) {
		e.Log.ErrorContext(ctx, "command failed", "command", command, "error", err)
		telemetry.CaptureError(command, err)
	}
	return errcli.WriteError(e.Err, err)
}

// warnNotSaved reports a mutation that stood in memory but was not persisted.
// It returns true when err was such a warning.
func (e *Env) warnNotSaved(err error) bool {
	if !errors.Is(err, appsvcs.ErrNotSaved) {
		return false
	}
	fmt.Fprintf(e.Err, "warning: %s\n", errcli.Message(err))
	return true
}

// printMarkdown renders md with glamour, falling back to the raw text when
// rendering is disabled or fails.
func (e *Env) printMarkdown(md string) {
	if e.Style == "" || e.Style == config.StylePlain {
		fmt.Fprint(e.Out, md)
		return
	}

	style := glamour.WithStandardStyle(e.Style)
	if e.Style == "auto" {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(e.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(e.Out, md)
		return
	}
	fmt.Fprint(e.Out, out)
}
