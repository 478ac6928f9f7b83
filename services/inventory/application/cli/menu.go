package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/pkg/errcli"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/telemetry"
	appsvcs "github.com/ghuser/stockledger/services/inventory/application/services"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/stockledger/services/inventory/domain/services"
)

const menuText = `
== Stock Ledger ==
1) Add item
2) List items
3) Search items
4) Update quantity
5) Remove item
6) Statistics
7) Export report
8) Audit history
0) Quit
`

// menuCmd runs the interactive loop.
type menuCmd struct {
	env *Env
}

func (*menuCmd) Name() string     { return "menu" }
func (*menuCmd) Synopsis() string { return "run the interactive menu (default)" }
func (*menuCmd) Usage() string {
	return `stockledger menu

  Starts the interactive menu. Every prompt repeats until the input is valid;
  end of input leaves the menu.
`
}

func (*menuCmd) SetFlags(*flag.FlagSet) {}

func (c *menuCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.RunMenu(ctx)
}

// session is one run of the menu over a line scanner.
type session struct {
	env *Env
	in  *bufio.Scanner
	eof bool
}

// RunMenu reads choices from e.In until quit or end of input.
func (e *Env) RunMenu(ctx context.Context) subcommands.ExitStatus {
	s := &session{env: e, in: bufio.NewScanner(e.In)}
	for !s.eof {
		fmt.Fprint(e.Out, menuText)
		choice, ok := s.prompt("Choose an option")
		if !ok {
			break
		}
		switch choice {
		case "1":
			s.run(ctx, "add", s.add)
		case "2":
			s.run(ctx, "list", s.list)
		case "3":
			s.run(ctx, "search", s.search)
		case "4":
			s.run(ctx, "update", s.update)
		case "5":
			s.run(ctx, "remove", s.remove)
		case "6":
			s.run(ctx, "stats", func(ctx context.Context) {
				e.printMarkdown(statsMarkdown(e.Service.Stats(ctx), e.Currency))
			})
		case "7":
			s.run(ctx, "report", func(ctx context.Context) { e.exportReport(ctx, "report", e.ReportDir) })
		case "8":
			s.run(ctx, "history", func(ctx context.Context) { e.showHistory(ctx, "history", 20) })
		case "0", "q", "quit", "exit":
			fmt.Fprintln(e.Out, "Goodbye.")
			return subcommands.ExitSuccess
		default:
			fmt.Fprintf(e.Out, "Unknown option %q.\n", choice)
		}
	}
	fmt.Fprintln(e.Out)
	return subcommands.ExitSuccess
}

// run executes one menu action. A panic is logged, reported, and turned
// into a message so the menu keeps going.
func (s *session) run(ctx context.Context, action string, fn func(context.Context)) {
	if r := logger.Recover(ctx, s.env.Log, func() { fn(ctx) }); r != nil {
		telemetry.CapturePanic(r)
		fmt.Fprintf(s.env.Err, "error: %s failed unexpectedly; see the log for details\n", action)
	}
}

func (s *session) prompt(label string) (string, bool) {
	fmt.Fprintf(s.env.Out, "%s: ", label)
	if !s.in.Scan() {
		s.eof = true
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptUntil repeats the prompt until check accepts the answer.
func (s *session) promptUntil(label string, check func(string) error) (string, bool) {
	for {
		v, ok := s.prompt(label)
		if !ok {
			return "", false
		}
		if err := check(v); err != nil {
			fmt.Fprintf(s.env.Out, "  %s\n", errcli.Message(err))
			continue
		}
		return v, true
	}
}

func (s *session) report(ctx context.Context, action string, err error) {
	if s.env.warnNotSaved(err) {
		return
	}
	s.env.fail(ctx, action, err)
}

func (s *session) add(ctx context.Context) {
	name, ok := s.promptUntil("Name", func(v string) error {
		_, err := models.NewItemName(v)
		return err
	})
	if !ok {
		return
	}
	qty, ok := s.promptUntil("Quantity", func(v string) error {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		return s.env.Service.Limits().CheckQuantity(q)
	})
	if !ok {
		return
	}
	price, ok := s.promptUntil("Unit price", func(v string) error {
		_, err := models.ParsePrice(v)
		return err
	})
	if !ok {
		return
	}

	in, err := addForm{Name: name, Quantity: qty, Price: price}.parse()
	if err != nil {
		s.report(ctx, "add", err)
		return
	}
	e, err := s.env.Service.Add(ctx, in.name, in.quantity, in.price)
	if err != nil && !s.env.warnNotSaved(err) {
		s.env.fail(ctx, "add", err)
		return
	}
	fmt.Fprintf(s.env.Out, "Added %q at position %d.\n", e.Item.Name().String(), e.Position)
}

func (s *session) list(ctx context.Context) {
	entries := s.env.Service.List(ctx, appsvcs.ListFilter{})
	s.env.printMarkdown(itemsMarkdown(entries, s.env.Currency, s.env.Service.LowStockThreshold()))
}

func (s *session) search(ctx context.Context) {
	query, ok := s.prompt("Search text (empty lists all)")
	if !ok {
		return
	}
	entries := s.env.Service.List(ctx, appsvcs.ListFilter{Query: query})
	s.env.printMarkdown(itemsMarkdown(entries, s.env.Currency, s.env.Service.LowStockThreshold()))
}

// pick resolves an item by position or exact name, reporting a miss.
func (s *session) pick(ctx context.Context, action string) (appsvcs.Entry, bool) {
	term, ok := s.prompt("Item position or name")
	if !ok {
		return appsvcs.Entry{}, false
	}
	e, err := s.env.Service.Find(ctx, term)
	if err != nil {
		s.report(ctx, action, err)
		return appsvcs.Entry{}, false
	}
	return e, true
}

func (s *session) update(ctx context.Context) {
	e, ok := s.pick(ctx, "update")
	if !ok {
		return
	}
	current := e.Item.Quantity()
	fmt.Fprintf(s.env.Out, "%q has %d units.\n", e.Item.Name().String(), current)

	var mode domainsvcs.AdjustMode
	if _, ok := s.promptUntil("Mode [1=set, 2=add, 3=subtract]", func(v string) error {
		var err error
		mode, err = domainsvcs.ParseAdjustMode(v)
		return err
	}); !ok {
		return
	}
	amount, ok := s.promptUntil("Amount", func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		_, err = domainsvcs.ResolveQuantity(current, mode, n, s.env.Service.Limits())
		return err
	})
	if !ok {
		return
	}

	in, err := adjustForm{Term: e.Item.ID().String(), Mode: string(mode), Amount: amount}.parse()
	if err != nil {
		s.report(ctx, "update", err)
		return
	}
	// The picked item is addressed by id; its name may look like a position.
	adj, err := s.env.Service.AdjustByID(ctx, e.Item.ID(), in.mode, in.amount)
	if err != nil && !s.env.warnNotSaved(err) {
		s.env.fail(ctx, "update", err)
		return
	}
	fmt.Fprintf(s.env.Out, "Updated %q: %d -> %d.\n", adj.Item.Name().String(), adj.Previous, adj.Item.Quantity())
}

func (s *session) remove(ctx context.Context) {
	e, ok := s.pick(ctx, "remove")
	if !ok {
		return
	}
	answer, ok := s.prompt(fmt.Sprintf("Remove %q? [y/N]", e.Item.Name().String()))
	if !ok {
		return
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(s.env.Out, "Cancelled.")
		return
	}
	item, err := s.env.Service.RemoveByID(ctx, e.Item.ID())
	if err != nil && !s.env.warnNotSaved(err) {
		s.env.fail(ctx, "remove", err)
		return
	}
	fmt.Fprintf(s.env.Out, "Removed %q.\n", item.Name().String())
}
