package report

import (
	"context"
	"net/url"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/domain/rental"
)

// Reservations returns every reservation checking in (or out) on date.
// Several reservations for one property are all returned.
func Reservations(ctx context.Context, p *Pager, date string, dir rental.Direction) []rental.Reservation {
	prefix := "checkin_date"
	if dir == rental.CheckOut {
		prefix = "checkout_date"
	}
	filters := url.Values{
		prefix + "_ge": {date},
		prefix + "_le": {date},
	}
	return decodeAll(p.Pages(ctx, breezeway.ResourceReservation, filters), rental.DecodeReservation, p.log)
}

// TaskIndex looks up the housekeeping tasks of a property. The API cannot
// filter this listing by department, so other departments are dropped here.
type TaskIndex struct {
	pager *Pager
}

func NewTaskIndex(p *Pager) *TaskIndex { return &TaskIndex{pager: p} }

// Tasks returns the housekeeping tasks scheduled for property on date.
func (x *TaskIndex) Tasks(ctx context.Context, property rental.ID, date string) []rental.Task {
	filters := url.Values{
		"home_id":        {property.String()},
		"scheduled_date": {dateRange(date, date)},
	}
	tasks := decodeAll(x.pager.Pages(ctx, breezeway.ResourceTask, filters), rental.DecodeTask, x.pager.log)
	return housekeeping(tasks)
}

func housekeeping(tasks []rental.Task) []rental.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if t.Housekeeping() {
			out = append(out, t)
		}
	}
	return out
}

func dateRange(from, to string) string { return from + "," + to }
