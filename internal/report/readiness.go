package report

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/domain/rental"
)

const (
	VerdictDirty   = "Dirty"
	unknownCleaner = "Unknown cleaner"

	// DefaultDetailConcurrency bounds parallel task detail requests.
	DefaultDetailConcurrency = 4
)

// Resolver decides whether a property is ready for an incoming guest.
type Resolver struct {
	src         Source
	pager       *Pager
	concurrency int
	log         *zap.Logger
}

func NewResolver(src Source, p *Pager, concurrency int, log *zap.Logger) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultDetailConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{src: src, pager: p, concurrency: concurrency, log: log}
}

// Resolve returns "Dirty" unless a housekeeping task scheduled between
// lastCheckout and today has finished, in which case the most recently
// finished one is reported.
func (r *Resolver) Resolve(ctx context.Context, property rental.ID, lastCheckout, today string) string {
	filters := url.Values{
		"home_id":         {property.String()},
		"type_department": {rental.DepartmentHousekeeping},
		"scheduled_date":  {dateRange(lastCheckout, today)},
	}
	tasks := housekeeping(decodeAll(r.pager.Window(ctx, breezeway.ResourceTask, filters), rental.DecodeTask, r.log))
	if len(tasks) == 0 {
		return VerdictDirty
	}

	detailed := r.details(ctx, tasks)
	if len(detailed) == 0 {
		return VerdictDirty
	}

	last, ok := latestFinished(detailed)
	if !ok {
		return VerdictDirty
	}
	cleaner := unknownCleaner
	if len(last.Assignments) > 0 {
		cleaner = last.Assignments[0].NameOr(unknownCleaner)
	}
	return fmt.Sprintf("Ready - %s - Cleaned by %s - %s", last.Label, cleaner, last.FinishedDate())
}

// details fetches the full record of each task. Tasks without an id or whose
// fetch fails are left out.
func (r *Resolver) details(ctx context.Context, tasks []rental.Task) []rental.Task {
	slots := make([]*rental.Task, len(tasks))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, t := range tasks {
		if t.ID == "" {
			continue
		}
		g.Go(func() error {
			raw, err := r.src.Get(ctx, breezeway.TaskDetail(t.ID))
			if err != nil {
				r.log.Warn("task detail fetch failed", zap.String("task_id", t.ID.String()), zap.Error(err))
				return nil
			}
			d, err := rental.DecodeTask(raw)
			if err != nil {
				r.log.Warn("task detail undecodable", zap.String("task_id", t.ID.String()), zap.Error(err))
				return nil
			}
			slots[i] = &d
			return nil
		})
	}
	_ = g.Wait()

	out := make([]rental.Task, 0, len(slots))
	for _, d := range slots {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// latestFinished picks the finished task with the largest finished_at.
func latestFinished(tasks []rental.Task) (rental.Task, bool) {
	var (
		best  rental.Task
		found bool
	)
	for _, t := range tasks {
		if !t.Finished() {
			continue
		}
		if !found || t.FinishedAt > best.FinishedAt {
			best, found = t, true
		}
	}
	return best, found
}
