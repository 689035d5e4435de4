// Package query filters and sorts the working set according to a Directive.
package query

import (
	"errors"
	"sort"
	"strings"

	"github.com/hyperjump/lapbot/internal/models"
)

// ErrEmptyResult is returned when a single-result mode has nothing left after filtering.
var ErrEmptyResult = errors.New("no listings matched the query")

// DefaultLimit is the result size of a query without a recognized keyword or limit.
const DefaultLimit = 5

// Engine applies Directives to a working set.
type Engine struct {
	defaultLimit int
}

// NewEngine returns an Engine. A non-positive defaultLimit means DefaultLimit.
func NewEngine(defaultLimit int) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Engine{defaultLimit: defaultLimit}
}

// Run filters working by brand, RAM and price ceiling, in that order, then resolves the mode.
// working is not modified. Sorting is stable, so equal keys keep working's order.
func (e *Engine) Run(working []*models.Listing, d models.Directive) ([]*models.Listing, error) {
	set := Filter(working, d)

	switch d.Mode {
	case models.ModeHighestRating:
		return first(byRatingDesc(set))
	case models.ModeCheapest:
		return first(byPriceAsc(set))
	case models.ModeMostExpensive:
		return first(byPriceDesc(set))
	case models.ModeLimitedRanked:
		limit := 0
		if d.Limit != nil {
			limit = *d.Limit
		}
		if d.RankByRating {
			return head(byRatingDesc(set), limit), nil
		}
		return head(byPriceAsc(set), limit), nil
	default:
		return head(byPriceAsc(set), e.defaultLimit), nil
	}
}

// Filter returns the listings of working that pass the Directive's brand, RAM and price filters.
func Filter(working []*models.Listing, d models.Directive) []*models.Listing {
	out := make([]*models.Listing, 0, len(working))
	for _, l := range working {
		if d.Brand != nil && !strings.EqualFold(l.Manufacturer(), *d.Brand) {
			continue
		}
		if d.RAM != nil && (l.RAM == nil || *l.RAM != float64(*d.RAM)) {
			continue
		}
		if d.PriceCeiling != nil && (l.Price == nil || *l.Price > *d.PriceCeiling) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func first(set []*models.Listing) ([]*models.Listing, error) {
	if len(set) == 0 {
		return nil, ErrEmptyResult
	}
	return set[:1], nil
}

func head(set []*models.Listing, n int) []*models.Listing {
	if n < 0 {
		n = 0
	}
	if n < len(set) {
		return set[:n]
	}
	return set
}

func byPriceAsc(set []*models.Listing) []*models.Listing {
	sort.SliceStable(set, func(i, j int) bool {
		return priceLess(set[i], set[j])
	})
	return set
}

func byPriceDesc(set []*models.Listing) []*models.Listing {
	sort.SliceStable(set, func(i, j int) bool {
		return priceLess(set[j], set[i])
	})
	return set
}

// byRatingDesc puts missing and non-numeric ratings last.
func byRatingDesc(set []*models.Listing) []*models.Listing {
	sort.SliceStable(set, func(i, j int) bool {
		ri, oki := set[i].RatingValue()
		rj, okj := set[j].RatingValue()
		if oki != okj {
			return oki
		}
		return oki && ri > rj
	})
	return set
}

// priceLess orders by price; the working set only holds priced listings.
func priceLess(a, b *models.Listing) bool {
	if a.Price == nil || b.Price == nil {
		return a.Price != nil
	}
	return *a.Price < *b.Price
}
