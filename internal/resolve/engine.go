// Package resolve expands a customer's order against a catalog index:
// validating slot selections, resolving shell items to concrete children,
// pricing every line and evaluating discounts. A resolution run either
// completes or fails atomically; no partial prices are ever emitted.
package resolve

import (
	"time"

	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/discount"
	"github.com/terryberlin/carbonmenu/internal/order"
	"github.com/terryberlin/carbonmenu/internal/pricing"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// Engine resolves orders against one immutable catalog index. It holds no
// per-run state and may be shared across concurrent resolutions.
type Engine struct {
	cat *catalog.Index
}

func New(cat *catalog.Index) *Engine {
	return &Engine{cat: cat}
}

// Resolve validates and prices the order at the injected clock value.
func (e *Engine) Resolve(ord order.Order, now time.Time) (*order.Resolved, error) {
	if len(ord.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line")
	}

	priceResolver := pricing.NewResolver(e.cat, now)

	res := &order.Resolved{}
	for i := range ord.Lines {
		line, err := e.resolveLine(priceResolver, ord.Lines[i])
		if err != nil {
			return nil, err
		}
		res.Lines = append(res.Lines, line)
		res.SubtotalCents += line.LineTotalCents
	}

	res.Eligible = discount.Eligible(e.cat, res.Lines, res.SubtotalCents, now)

	applied, total, err := discount.Apply(res.SubtotalCents, res.Eligible, ord.ApplyDiscounts)
	if err != nil {
		return nil, err
	}
	res.Applied = applied
	res.TotalCents = total

	return res, nil
}
