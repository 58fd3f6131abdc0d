// Package console implements the line-oriented front end: an interactive
// session reading commands from a reader, and one-shot command execution.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"expensetracker/internal/codec"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// Service is the subset of services.ExpenseService the console drives.
type Service interface {
	Add(ctx context.Context, e core.Expense) error
	Expenses() []core.Expense
	Total(f core.Filter) decimal.Decimal
	Summary(f core.Filter) core.Summary
	Categories() []string
	Save(ctx context.Context) error
	Load(ctx context.Context) (int, error)
}

// ErrUsage is returned for unknown commands and malformed arguments.
var ErrUsage = errors.New("usage")

const prompt = "> "

// Session runs commands against one Service.
type Session struct {
	svc    Service
	out    io.Writer
	logger *applog.Logger
}

func NewSession(svc Service, out io.Writer, logger *applog.Logger) *Session {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Session{svc: svc, out: out, logger: logger.WithComponent(applog.ComponentConsole)}
}

// Run reads commands from in until quit, EOF or ctx is done. Command errors
// are printed and the session continues; only a read failure is returned.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, `Expense tracker. Type "help" for commands.`)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		args, err := SplitArgs(scanner.Text())
		if err != nil {
			s.printError(err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		quit, err := s.Exec(ctx, args)
		if err != nil {
			s.printError(err)
		}
		if quit {
			return nil
		}
	}
}

// RunOnce executes a single command against the persisted list: it loads,
// runs the command and saves again when the command changed the list.
func (s *Session) RunOnce(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	if _, err := s.svc.Load(ctx); err != nil {
		return err
	}
	if _, err := s.Exec(ctx, args); err != nil {
		return err
	}
	if mutates(args[0]) {
		return s.svc.Save(ctx)
	}
	return nil
}

func mutates(cmd string) bool {
	return strings.EqualFold(cmd, "add")
}

// Exec runs one already tokenized command. quit reports whether the session
// should end.
func (s *Session) Exec(ctx context.Context, args []string) (quit bool, err error) {
	cmd, rest := strings.ToLower(args[0]), args[1:]
	s.logger.DebugContext(ctx, "Command received", applog.FieldOperation, cmd)

	switch cmd {
	case "add":
		return false, s.add(ctx, rest)
	case "list", "ls":
		return false, s.list()
	case "total":
		return false, s.total(rest)
	case "summary":
		return false, s.summary(rest)
	case "categories":
		for _, c := range s.svc.Categories() {
			fmt.Fprintln(s.out, c)
		}
		return false, nil
	case "save":
		if err := s.svc.Save(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "Expenses saved.")
		return false, nil
	case "load":
		n, err := s.svc.Load(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Loaded %d expenses.\n", n)
		return false, nil
	case "help", "?":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (s *Session) add(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("%w: add <amount> <category> <YYYY-MM-DD> <description...>", ErrUsage)
	}
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return fmt.Errorf("amount %q: %w", args[0], err)
	}
	date, err := core.ParseDate(args[2])
	if err != nil {
		return fmt.Errorf("date %q: %w", args[2], core.ErrInvalidDate)
	}
	e := core.Expense{
		Description: strings.Join(args[3:], " "),
		Amount:      amount,
		Category:    args[1],
		Date:        date,
	}
	if err := s.svc.Add(ctx, e); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added %s %s on %s: %s\n", core.FormatAmount(e.Amount), e.Category, e.Date, e.Description)
	return nil
}

func (s *Session) list() error {
	items := s.svc.Expenses()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No expenses.")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Date, e.Category, core.FormatAmount(e.Amount), e.Description)
	}
	return tw.Flush()
}

func (s *Session) total(args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, core.FormatTotal(s.svc.Total(f)))
	return nil
}

func (s *Session) summary(args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	if f.Category != "" {
		return fmt.Errorf("%w: summary [YYYY-MM-DD]", ErrUsage)
	}
	sum := s.svc.Summary(f)
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, c := range sum.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, core.FormatAmount(c.Amount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d expenses. %s\n", sum.Count, core.FormatTotal(sum.Total))
	return nil
}

// parseFilter reads an optional date and an optional category from args.
// Words that are not a date form the category, so "All Categories" needs no
// quoting. "All" is shorthand for AllCategories.
func parseFilter(args []string) (core.Filter, error) {
	var f core.Filter
	var words []string
	for _, a := range args {
		if d, err := core.ParseDate(a); err == nil {
			if !f.Date.IsEmpty() {
				return f, fmt.Errorf("%w: more than one date given", ErrUsage)
			}
			f.Date = d
			continue
		}
		words = append(words, a)
	}
	if len(words) > 0 {
		f.Category = normalizeCategory(strings.Join(words, " "))
	}
	return f, nil
}

func normalizeCategory(c string) string {
	if strings.EqualFold(c, "all") || strings.EqualFold(c, core.AllCategories) {
		return core.AllCategories
	}
	return c
}

func (s *Session) printError(err error) {
	fmt.Fprintln(s.out, Describe(err))
}

// Describe renders err as a single line for the user.
func Describe(err error) string {
	var fe *codec.FormatError
	var ioe *storage.IOError
	switch {
	case errors.As(err, &fe):
		return "Error: the saved data is corrupt (" + fe.Error() + "). Nothing was loaded."
	case errors.As(err, &ioe):
		return "Error: cannot access storage: " + ioe.Error()
	default:
		return "Error: " + err.Error()
	}
}

const helpText = `Commands:
  add <amount> <category> <YYYY-MM-DD> <description...>
  list
  total [category|All] [YYYY-MM-DD]
  summary [YYYY-MM-DD]
  categories
  save
  load
  help
  quit
Quote a category containing spaces when adding, e.g. add 3.20 "Day Trip" 2024-03-01 bus.
`
