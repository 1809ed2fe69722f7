package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/turnover-report/internal/domain/rental"
)

// DefaultLookbackDays is how far back the readiness window reaches when a
// property has no known checkout.
const DefaultLookbackDays = 90

const (
	noCheckIns    = "No check-ins today."
	noCheckOuts   = "No check-outs today."
	noPending     = "No pending cleanings today."
	noYesterday   = "No cleanings yesterday."
	notAssigned   = "Not assigned"
	unknownStatus = "Unknown"
	unknownName   = "Unknown"
	statusDone    = "Completed"
	statusNotDone = "Not completed"
)

// Report is the assembled daily report.
type Report struct {
	Date      string
	Yesterday string

	CheckIns       []string
	CheckOuts      []string
	Pending        []string
	YesterdayLines []string
}

// String renders the report as a single message.
func (r Report) String() string {
	sections := []string{
		fmt.Sprintf("Today’s Cleaning Summary (%s)", r.Date),
		section("Check-ins today:", r.CheckIns, noCheckIns),
		section("Check-outs today:", r.CheckOuts, noCheckOuts),
		section("Pending cleanings:", r.Pending, noPending),
		section(fmt.Sprintf("Yesterday’s Cleaning Summary (%s)", r.Yesterday), r.YesterdayLines, noYesterday),
	}
	return strings.Join(sections, "\n\n")
}

// section renders header and lines. nil lines get the placeholder; an empty
// non-nil slice means there was input but nothing to list.
func section(header string, lines []string, placeholder string) string {
	if lines == nil {
		lines = []string{placeholder}
	}
	if len(lines) == 0 {
		return header
	}
	return header + "\n" + strings.Join(lines, "\n")
}

// Builder assembles the report sections.
type Builder struct {
	pager    *Pager
	tasks    *TaskIndex
	resolver *Resolver
	lookback int
	log      *zap.Logger
}

type BuilderConfig struct {
	PageLimit         int
	DetailConcurrency int
	LookbackDays      int
}

func NewBuilder(src Source, cfg BuilderConfig, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = DefaultLookbackDays
	}
	p := NewPager(src, cfg.PageLimit, log)
	return &Builder{
		pager:    p,
		tasks:    NewTaskIndex(p),
		resolver: NewResolver(src, p, cfg.DetailConcurrency, log),
		lookback: cfg.LookbackDays,
		log:      log,
	}
}

// Build produces the report for the calendar day of today.
func (b *Builder) Build(ctx context.Context, today time.Time) Report {
	r := Report{
		Date:      rental.Day(today),
		Yesterday: rental.Day(today.AddDate(0, 0, -1)),
	}

	catalog := LoadCatalog(ctx, b.pager)
	b.log.Info("loaded properties", zap.Int("active", catalog.Len()))

	checkins := Reservations(ctx, b.pager, r.Date, rental.CheckIn)
	checkouts := Reservations(ctx, b.pager, r.Date, rental.CheckOut)
	b.log.Info("loaded reservations", zap.Int("checkins", len(checkins)), zap.Int("checkouts", len(checkouts)))

	fallback := rental.Day(today.AddDate(0, 0, -b.lookback))
	r.CheckIns = b.checkIns(ctx, catalog, checkins, checkouts, r.Date, fallback)
	r.CheckOuts, r.Pending = b.checkOuts(ctx, catalog, checkouts, r.Date)
	r.YesterdayLines = b.yesterday(ctx, catalog, r.Yesterday)
	return r
}

// checkIns reports readiness once per property name. A nil result means
// there were no check-in reservations at all.
func (b *Builder) checkIns(ctx context.Context, catalog Catalog, checkins, checkouts []rental.Reservation, today, fallback string) []string {
	if len(checkins) == 0 {
		return nil
	}
	lines := []string{}
	seen := make(map[string]bool)
	for _, res := range checkins {
		prop, ok := catalog.Lookup(res.PropertyID)
		if !ok || seen[prop.Name] {
			continue
		}
		last, ok := rental.LastCheckout(checkouts, prop.ID)
		if !ok {
			last = fallback
		}
		verdict := b.resolver.Resolve(ctx, prop.ID, last, today)
		lines = append(lines, fmt.Sprintf("- %s - %s", prop.Name, verdict))
		seen[prop.Name] = true
	}
	return lines
}

// cleaningMap holds today's task lines per property name in catalog order.
type cleaningMap struct {
	names []string
	lines map[string][]string
}

func (b *Builder) todaysCleanings(ctx context.Context, catalog Catalog, today string) cleaningMap {
	m := cleaningMap{lines: make(map[string][]string)}
	for _, prop := range catalog.All() {
		tasks := b.tasks.Tasks(ctx, prop.ID, today)
		if len(tasks) == 0 {
			continue
		}
		if _, ok := m.lines[prop.Name]; !ok {
			m.names = append(m.names, prop.Name)
		}
		for _, t := range tasks {
			if len(t.Assignments) == 0 {
				m.lines[prop.Name] = append(m.lines[prop.Name], fmt.Sprintf("%s - %s - %s", prop.Name, t.Label, notAssigned))
				continue
			}
			for _, a := range t.Assignments {
				m.lines[prop.Name] = append(m.lines[prop.Name], fmt.Sprintf("%s - %s - %s - %s",
					prop.Name, t.Label, a.NameOr(notAssigned), a.StatusOr(unknownStatus)))
			}
		}
	}
	return m
}

// checkOuts lists departures with their cleanings, and the cleanings of
// properties nobody leaves today as pending.
func (b *Builder) checkOuts(ctx context.Context, catalog Catalog, checkouts []rental.Reservation, today string) (out, pending []string) {
	cleanings := b.todaysCleanings(ctx, catalog, today)

	departed := make(map[string]bool)
	if len(checkouts) > 0 {
		out = []string{}
	}
	for _, res := range checkouts {
		prop, ok := catalog.Lookup(res.PropertyID)
		if !ok {
			continue
		}
		departed[prop.Name] = true
		lines, ok := cleanings.lines[prop.Name]
		if !ok {
			out = append(out, "- "+prop.Name)
			continue
		}
		for _, l := range lines {
			out = append(out, "- "+l)
		}
	}

	for _, name := range cleanings.names {
		if departed[name] {
			continue
		}
		pending = append(pending, cleanings.lines[name]...)
	}
	return out, pending
}

// yesterday summarizes yesterday's assigned housekeeping tasks. Tasks nobody
// was assigned to are not listed.
func (b *Builder) yesterday(ctx context.Context, catalog Catalog, date string) []string {
	var lines []string
	for _, prop := range catalog.All() {
		for _, t := range b.tasks.Tasks(ctx, prop.ID, date) {
			for _, a := range t.Assignments {
				status := statusNotDone
				if a.Completed() || t.Finished() {
					status = statusDone
				}
				lines = append(lines, fmt.Sprintf("- %s - %s - %s - %s", prop.Name, t.Label, a.NameOr(unknownName), status))
			}
		}
	}
	return lines
}
