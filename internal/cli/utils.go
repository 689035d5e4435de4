// Package cli provides output helpers for the lapbot command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/lapbot/internal/catalog"
	"github.com/hyperjump/lapbot/internal/models"
	"github.com/hyperjump/lapbot/internal/render"
	"github.com/hyperjump/lapbot/pkg/utils"
)

// OutputFormat is the format for answer output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputHTML is the card fragment the chat page would show.
	OutputHTML OutputFormat = "html"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputText, OutputJSON, OutputHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or html)", s)
	}
}

// maxLabel bounds the model label in text output.
const maxLabel = 80

// WriteAnswer writes ans to w in the given format. r builds product links.
func WriteAnswer(w io.Writer, ans *models.Answer, r *render.Renderer, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ans)
	case OutputHTML:
		_, err := fmt.Fprintln(w, ans.HTML)
		return err
	default:
		writeAnswerText(w, ans, r)
		return nil
	}
}

func writeAnswerText(w io.Writer, ans *models.Answer, r *render.Renderer) {
	fmt.Fprintf(w, "\n%d laptop(s) [%s]\n\n", len(ans.Listings), ans.Directive.Mode)
	for i, l := range ans.Listings {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		if ans.Ranked {
			fmt.Fprintf(w, "#%d ", i+1)
		}
		fmt.Fprintf(w, "%s — %s\n", l.Manufacturer(), utils.Truncate(l.ModelLabel(), maxLabel))
		fmt.Fprintf(w, "Price: %s | Specs: %s | Rating: %s (%s reviews)\n",
			render.FormatPrice(l.Price), render.FormatRAM(l.RAM), ratingText(l), render.FormatReviews(l.ReviewCount))
		href, _ := r.ProductLink(l)
		fmt.Fprintf(w, "Link: %s\n", href)
	}
	fmt.Fprintln(w)
}

func ratingText(l *models.Listing) string {
	if l.Rating == nil {
		return render.NotAvailable
	}
	return *l.Rating
}

// WriteError writes a query error in the given format.
func WriteError(w io.Writer, icon, message string, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"error": message})
	case OutputHTML:
		_, err := fmt.Fprintln(w, render.ErrorEntry(icon, message))
		return err
	default:
		_, err := fmt.Fprintf(w, "%s %s\n", icon, message)
		return err
	}
}

// WriteStatus writes sum in the given format. OutputHTML falls back to text.
func WriteStatus(w io.Writer, sum catalog.Summary, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	fmt.Fprintf(w, "Source: %s\n", sum.Source)
	if sum.LoadError != "" {
		fmt.Fprintf(w, "Load error: %s\n", sum.LoadError)
		return nil
	}
	fmt.Fprintf(w, "Listings: %d (%d with a price)\n", sum.Listings, sum.Working)
	fmt.Fprintf(w, "Manufacturers: %s\n", strings.Join(sum.Manufacturers, ", "))
	return nil
}
