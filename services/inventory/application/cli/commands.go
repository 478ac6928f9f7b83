package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	appsvcs "github.com/ghuser/stockledger/services/inventory/application/services"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/export"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	env      *Env
	name     string
	quantity string
	price    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a new item to the inventory" }
func (*addCmd) Usage() string {
	return `stockledger add -name <name> -quantity <n> -price <amount>

  Adds an item. Names are unique ignoring case, quantities are whole numbers
  within the configured bounds, and prices range from 0.01 to 999999.99.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Item name (1-50 characters)")
	f.StringVar(&c.quantity, "quantity", "", "Units in stock")
	f.StringVar(&c.price, "price", "", "Unit price, at most two decimal places")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := addForm{Name: c.name, Quantity: c.quantity, Price: c.price}.parse()
	if err != nil {
		return c.env.fail(ctx, c.Name(), err)
	}
	e, err := c.env.Service.Add(ctx, in.name, in.quantity, in.price)
	if err != nil && !c.env.warnNotSaved(err) {
		return c.env.fail(ctx, c.Name(), err)
	}
	fmt.Fprintf(c.env.Out, "Added %q at position %d (total value %s)\n",
		e.Item.Name().String(), e.Position, models.FormatMoney(e.Item.TotalValue(), c.env.Currency))
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct {
	env   *Env
	query string
	low   bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list items, optionally filtered" }
func (*listCmd) Usage() string {
	return `stockledger list [-q <text>] [-low]

  Lists items in insertion order with their current positions.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Only items whose name contains this text, ignoring case")
	f.BoolVar(&c.low, "low", false, "Only items at or below the low-stock threshold")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	entries := c.env.Service.List(ctx, appsvcs.ListFilter{Query: c.query, LowStockOnly: c.low})
	c.env.printMarkdown(itemsMarkdown(entries, c.env.Currency, c.env.Service.LowStockThreshold()))
	return subcommands.ExitSuccess
}

// findCmd looks up a single item.
type findCmd struct {
	env *Env
}

func (*findCmd) Name() string     { return "find" }
func (*findCmd) Synopsis() string { return "show one item by position or exact name" }
func (*findCmd) Usage() string {
	return `stockledger find <position|name>

  A number within 1..count selects by position; anything else must match a
  name exactly, ignoring case. Use 'list -q' for partial matches.
`
}

func (*findCmd) SetFlags(*flag.FlagSet) {}

func (c *findCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	term := strings.Join(f.Args(), " ")
	if strings.TrimSpace(term) == "" {
		fmt.Fprint(c.env.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	e, err := c.env.Service.Find(ctx, term)
	if err != nil {
		return c.env.fail(ctx, c.Name(), err)
	}
	c.env.printMarkdown(itemMarkdown(e, c.env.Currency, c.env.Service.LowStockThreshold()))
	return subcommands.ExitSuccess
}

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	env    *Env
	mode   string
	amount string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change an item's quantity" }
func (*updateCmd) Usage() string {
	return `stockledger update [-mode set|add|subtract] -amount <n> <position|name>

  Sets the quantity, or adds or subtracts a delta. Results outside the
  configured bounds are rejected and the stored quantity is kept.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", "set", "One of set, add, subtract")
	f.StringVar(&c.amount, "amount", "", "New quantity (set) or delta (add, subtract)")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := adjustForm{Term: strings.Join(f.Args(), " "), Mode: c.mode, Amount: c.amount}.parse()
	if err != nil {
		return c.env.fail(ctx, c.Name(), err)
	}
	adj, err := c.env.Service.Adjust(ctx, in.term, in.mode, in.amount)
	if err != nil && !c.env.warnNotSaved(err) {
		return c.env.fail(ctx, c.Name(), err)
	}
	fmt.Fprintf(c.env.Out, "Updated %q: %d -> %d\n", adj.Item.Name().String(), adj.Previous, adj.Item.Quantity())
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// removeCmd deletes an item.
type removeCmd struct {
	env *Env
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove an item by position or exact name" }
func (*removeCmd) Usage() string {
	return `stockledger remove <position|name>

  Removes the item. Items after it move up one position.
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	term := strings.Join(f.Args(), " ")
	if strings.TrimSpace(term) == "" {
		fmt.Fprint(c.env.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	item, err := c.env.Service.Remove(ctx, term)
	if err != nil && !c.env.warnNotSaved(err) {
		return c.env.fail(ctx, c.Name(), err)
	}
	fmt.Fprintf(c.env.Out, "Removed %q\n", item.Name().String())
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// statsCmd prints the aggregates.
type statsCmd struct {
	env *Env
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display inventory statistics" }
func (*statsCmd) Usage() string {
	return `stockledger stats

  Displays counts, totals, and the most expensive, most valuable, and
  lowest-stocked items.
`
}

func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.env.printMarkdown(statsMarkdown(c.env.Service.Stats(ctx), c.env.Currency))
	return subcommands.ExitSuccess
}

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	env *Env
	dir string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "export an inventory report" }
func (*reportCmd) Usage() string {
	return `stockledger report [-o <dir>]

  Writes inventory_report_<timestamp>.json and .md and displays the report.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "o", "", "Output directory. Defaults to REPORT_DIR.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir := c.dir
	if dir == "" {
		dir = c.env.ReportDir
	}
	return c.env.exportReport(ctx, c.Name(), dir)
}

func (e *Env) exportReport(ctx context.Context, command, dir string) subcommands.ExitStatus {
	report := e.Service.Report(ctx)
	jsonPath, err := export.WriteJSON(dir, report, e.Currency)
	if err != nil {
		return e.fail(ctx, command, err)
	}
	mdPath, err := export.WriteMarkdown(dir, report, e.Currency)
	if err != nil {
		return e.fail(ctx, command, err)
	}
	e.printMarkdown(export.Markdown(report, e.Currency))
	fmt.Fprintf(e.Out, "Report written to %s and %s\n", jsonPath, mdPath)
	return subcommands.ExitSuccess
}

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	env   *Env
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display recent audit log entries" }
func (*historyCmd) Usage() string {
	return `stockledger history [-n <count>]

  Displays the most recent audit entries, oldest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "Number of entries; 0 shows all")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.showHistory(ctx, c.Name(), c.limit)
}

func (e *Env) showHistory(ctx context.Context, command string, limit int) subcommands.ExitStatus {
	entries, err := e.Audit.Tail(limit)
	if err != nil {
		return e.fail(ctx, command, err)
	}
	e.printMarkdown(historyMarkdown(entries))
	return subcommands.ExitSuccess
}
