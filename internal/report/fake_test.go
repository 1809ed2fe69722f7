package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/domain/rental"
)

type record map[string]any

// fakeSource serves in-memory records with the filtering and pagination
// behavior of the inventory API.
type fakeSource struct {
	mu           sync.Mutex
	properties   []record
	reservations []record
	tasks        []record
	details      map[string]record

	failPage   map[string]int
	failDetail map[string]bool
	listCalls  map[string]int
	queries    []url.Values

	detailDelay time.Duration
	inflight    int32
	maxInflight int32
	detailCalls int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		details:    make(map[string]record),
		failPage:   make(map[string]int),
		failDetail: make(map[string]bool),
		listCalls:  make(map[string]int),
	}
}

func (f *fakeSource) addProperty(id int, name, status string) {
	r := record{"id": id, "status": status}
	if name != "" {
		r["name"] = name
	}
	f.properties = append(f.properties, r)
}

func (f *fakeSource) addReservation(propertyID int, checkin, checkout string) {
	f.reservations = append(f.reservations, record{
		"property_id":   propertyID,
		"checkin_date":  checkin,
		"checkout_date": checkout,
	})
}

type assignment struct{ name, status string }

func (f *fakeSource) addTask(id, homeID int, department, scheduled, finished, label string, assignments ...assignment) {
	r := record{
		"id":              id,
		"home_id":         homeID,
		"type_department": department,
		"scheduled_date":  scheduled,
		"name":            label,
	}
	var as []record
	for _, a := range assignments {
		ar := record{}
		if a.name != "" {
			ar["name"] = a.name
		}
		if a.status != "" {
			ar["type_task_user_status"] = a.status
		}
		as = append(as, ar)
	}
	r["assignments"] = as
	if finished != "" {
		r["finished_at"] = finished
	}
	f.tasks = append(f.tasks, r)
}

func (f *fakeSource) List(_ context.Context, resource string, q url.Values) (breezeway.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	f.listCalls[resource]++
	f.queries = append(f.queries, q)

	if p, ok := f.failPage[resource]; ok && p == page {
		return breezeway.Page{}, &breezeway.StatusError{Status: http.StatusInternalServerError}
	}

	var pool []record
	switch resource {
	case breezeway.ResourceProperty:
		pool = f.properties
	case breezeway.ResourceReservation:
		pool = filterReservations(f.reservations, q)
	case breezeway.ResourceTask:
		pool = filterTasks(f.tasks, q)
	default:
		return breezeway.Page{}, fmt.Errorf("unknown resource %s", resource)
	}

	total := (len(pool) + limit - 1) / limit
	if total == 0 {
		total = 1
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(pool) {
		start = len(pool)
	}
	if end > len(pool) {
		end = len(pool)
	}
	out := breezeway.Page{Page: page, TotalPages: total, Results: []json.RawMessage{}}
	for _, r := range pool[start:end] {
		out.Results = append(out.Results, mustJSON(r))
	}
	return out, nil
}

func (f *fakeSource) Get(_ context.Context, resource string) (json.RawMessage, error) {
	atomic.AddInt32(&f.detailCalls, 1)
	n := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		m := atomic.LoadInt32(&f.maxInflight)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxInflight, m, n) {
			break
		}
	}
	if f.detailDelay > 0 {
		time.Sleep(f.detailDelay)
	}

	id := strings.TrimPrefix(resource, breezeway.ResourceTask+"/")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDetail[id] {
		return nil, &breezeway.StatusError{Status: http.StatusNotFound}
	}
	if d, ok := f.details[id]; ok {
		return mustJSON(d), nil
	}
	for _, t := range f.tasks {
		if fmt.Sprint(t["id"]) == id {
			return mustJSON(t), nil
		}
	}
	return nil, &breezeway.StatusError{Status: http.StatusNotFound}
}

func filterReservations(rs []record, q url.Values) []record {
	var out []record
	for _, r := range rs {
		ok := true
		for _, field := range []string{"checkin_date", "checkout_date"} {
			if !q.Has(field + "_ge") {
				continue
			}
			v, _ := r[field].(string)
			if v < q.Get(field+"_ge") || v > q.Get(field+"_le") {
				ok = false
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

func filterTasks(ts []record, q url.Values) []record {
	from, to, _ := strings.Cut(q.Get("scheduled_date"), ",")
	var out []record
	for _, t := range ts {
		if home := q.Get("home_id"); home != "" && fmt.Sprint(t["home_id"]) != home {
			continue
		}
		if d := q.Get("type_department"); d != "" && t["type_department"] != d {
			continue
		}
		s, _ := t["scheduled_date"].(string)
		if from != "" && (s < from || s > to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

var testToday = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

func day(offset int) string {
	return rental.Day(testToday.AddDate(0, 0, offset))
}
