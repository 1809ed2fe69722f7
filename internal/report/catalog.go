package report

import (
	"context"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/domain/rental"
)

// Catalog holds the active properties in the order the API listed them.
type Catalog struct {
	order []rental.ID
	byID  map[rental.ID]rental.Property
}

// LoadCatalog reads every property and keeps the active ones.
func LoadCatalog(ctx context.Context, p *Pager) Catalog {
	c := Catalog{byID: make(map[rental.ID]rental.Property)}
	props := decodeAll(p.Pages(ctx, breezeway.ResourceProperty, nil), rental.DecodeProperty, p.log)
	for _, prop := range props {
		if !prop.Active() {
			continue
		}
		if _, dup := c.byID[prop.ID]; !dup {
			c.order = append(c.order, prop.ID)
		}
		c.byID[prop.ID] = prop
	}
	return c
}

func (c Catalog) Lookup(id rental.ID) (rental.Property, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c Catalog) Len() int { return len(c.order) }

// All returns the properties in listing order.
func (c Catalog) All() []rental.Property {
	out := make([]rental.Property, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
