// Package report reconciles properties, reservations and housekeeping tasks
// into the daily cleaning report.
package report

import (
	"context"
	"encoding/json"
	"iter"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/example/turnover-report/internal/breezeway"
)

// DefaultPageLimit is the page size used when none is configured.
const DefaultPageLimit = 100

// Source is the paginated record source.
type Source interface {
	List(ctx context.Context, resource string, query url.Values) (breezeway.Page, error)
	Get(ctx context.Context, resource string) (json.RawMessage, error)
}

type stopRule int

const (
	// stopOnShortPage ends after a page with fewer records than the limit.
	stopOnShortPage stopRule = iota
	// stopOnLastPage ends once the reported page reaches total_pages.
	stopOnLastPage
)

// Pager walks a collection page by page. A failed page ends the sequence
// without an error; whatever was read before it is kept.
type Pager struct {
	src   Source
	limit int
	log   *zap.Logger
}

func NewPager(src Source, limit int, log *zap.Logger) *Pager {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pager{src: src, limit: limit, log: log}
}

// Pages yields record batches until a short page.
func (p *Pager) Pages(ctx context.Context, resource string, filters url.Values) iter.Seq[[]json.RawMessage] {
	return p.pages(ctx, resource, filters, stopOnShortPage)
}

// Window yields record batches until the page counter reaches total_pages.
func (p *Pager) Window(ctx context.Context, resource string, filters url.Values) iter.Seq[[]json.RawMessage] {
	return p.pages(ctx, resource, filters, stopOnLastPage)
}

func (p *Pager) pages(ctx context.Context, resource string, filters url.Values, rule stopRule) iter.Seq[[]json.RawMessage] {
	return func(yield func([]json.RawMessage) bool) {
		for page := 1; ; page++ {
			if ctx.Err() != nil {
				return
			}
			q := make(url.Values, len(filters)+2)
			for k, v := range filters {
				q[k] = v
			}
			q.Set("page", strconv.Itoa(page))
			q.Set("limit", strconv.Itoa(p.limit))

			res, err := p.src.List(ctx, resource, q)
			if err != nil {
				p.log.Warn("page fetch failed, truncating collection",
					zap.String("resource", resource), zap.Int("page", page), zap.Error(err))
				return
			}
			if !yield(res.Results) {
				return
			}

			switch rule {
			case stopOnShortPage:
				if len(res.Results) < p.limit {
					return
				}
			case stopOnLastPage:
				current, total := res.Page, res.TotalPages
				if current == 0 {
					current = page
				}
				if total == 0 {
					total = 1
				}
				if current >= total || page >= total {
					return
				}
				if current > page {
					page = current
				}
			}
		}
	}
}

// decodeAll flattens batches and decodes each record, dropping records that
// do not decode.
func decodeAll[T any](seq iter.Seq[[]json.RawMessage], decode func(json.RawMessage) (T, error), log *zap.Logger) []T {
	var out []T
	for batch := range seq {
		for _, raw := range batch {
			v, err := decode(raw)
			if err != nil {
				log.Warn("skipping undecodable record", zap.Error(err))
				continue
			}
			out = append(out, v)
		}
	}
	return out
}
