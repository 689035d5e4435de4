// Package render turns listings into HTML cards and assembles the chat transcript.
package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/hyperjump/lapbot/internal/models"
)

// ScrollAnchor is the id of the element the transcript scrolls to after each update.
const ScrollAnchor = "bottom-scroll-anchor"

const (
	openLabel   = "🔗 Open on Amazon"
	searchLabel = "🔍 Search this model on Amazon"
)

// Options configures a Renderer.
type Options struct {
	// MarketplaceDomain marks product links that are used as-is.
	MarketplaceDomain string
	// SearchURL is prefixed to the query-escaped model label for other listings.
	SearchURL string
	// EscapeFields HTML-escapes values taken from the listing table.
	EscapeFields bool
}

// Renderer builds HTML fragments.
type Renderer struct {
	opts Options
}

// NewRenderer returns a Renderer, filling in Amazon defaults for empty options.
func NewRenderer(opts Options) *Renderer {
	if opts.MarketplaceDomain == "" {
		opts.MarketplaceDomain = "amazon.com"
	}
	if opts.SearchURL == "" {
		opts.SearchURL = "https://www.amazon.com/s?k="
	}
	return &Renderer{opts: opts}
}

// field passes a table value through, escaping it only when EscapeFields is set.
func (r *Renderer) field(s string) string {
	if r.opts.EscapeFields {
		return html.EscapeString(s)
	}
	return s
}

// ProductLink returns the link target and label for a listing.
func (r *Renderer) ProductLink(l *models.Listing) (href, label string) {
	if l.ProductURL != nil && strings.Contains(*l.ProductURL, r.opts.MarketplaceDomain) {
		return *l.ProductURL, openLabel
	}
	return r.opts.SearchURL + url.QueryEscape(l.ModelLabel()), searchLabel
}

// Card renders one listing. A rank of 0 or less omits the rank heading.
func (r *Renderer) Card(l *models.Listing, rank int) string {
	rankLabel := ""
	if rank > 0 {
		rankLabel = fmt.Sprintf("<h3 style='margin: 0 0 6px 0;'>#%d</h3>", rank)
	}
	href, label := r.ProductLink(l)

	var b strings.Builder
	b.WriteString(`
    <div style='display: flex; align-items: flex-start; border: 1px solid #444;
                border-radius: 10px; padding: 14px; margin: 15px 0;
                background: #1b1b1b; color: #f5f5f5;
                box-shadow: 0 0 4px rgba(0,0,0,0.35);'>`)
	fmt.Fprintf(&b, `
        <img src="%s" alt="Product photo"
             style="width: 120px; height: auto; margin-right: 15px; border-radius: 6px;">
        <div>
            %s
            <h4 style='margin: 0 0 8px 0;'>%s — %s</h4>
            <p><strong>Price:</strong> %s</p>
            <p><strong>Specifications:</strong> %s, %s</p>
            <p><strong>Rating:</strong> %s ⭐ (%s reviews)</p>
            <p>
              <a href="%s" target="_blank"
                 style="display:inline-block; padding:6px 12px; background:#0a84ff; color:white;
                        border-radius:6px; text-decoration:none; font-weight:bold;">
                 %s
              </a>
            </p>
        </div>
    </div>
    `,
		r.field(orEmpty(l.ImageURL)),
		rankLabel,
		r.field(l.Manufacturer()), r.field(l.ModelLabel()),
		FormatPrice(l.Price),
		r.field(orNA(l.Processor)), FormatRAM(l.RAM),
		r.field(orNA(l.Rating)), r.field(FormatReviews(l.ReviewCount)),
		r.field(href),
		label,
	)
	return b.String()
}

// Cards renders listings in order. When ranked, cards are numbered from 1.
func (r *Renderer) Cards(listings []*models.Listing, ranked bool) string {
	var b strings.Builder
	for i, l := range listings {
		rank := 0
		if ranked {
			rank = i + 1
		}
		b.WriteString(r.Card(l, rank))
	}
	return b.String()
}
