// Package models holds the data types shared by the catalog, query and render packages.
package models

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Listing is one normalized row of the laptop table.
// Optional values are nil when the source cell was blank, NA-like or not numeric.
// Display defaults ("Unknown", "N/A") are applied by the accessors and the renderer, not at load time.
type Listing struct {
	Row         int      `json:"row"`
	Company     *string  `json:"company,omitempty"`
	Processor   *string  `json:"processor,omitempty"`
	Memory      *string  `json:"memory,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	RAM         *float64 `json:"ram_gb,omitempty"`
	Rating      *string  `json:"rating,omitempty"`
	ReviewCount *string  `json:"review_count,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	ProductURL  *string  `json:"product_url,omitempty"`
}

// Unknown is shown for a missing manufacturer, processor or memory value.
const Unknown = "Unknown"

// Manufacturer returns the title-cased company, or "Unknown".
func (l *Listing) Manufacturer() string {
	if l.Company == nil {
		return Unknown
	}
	return TitleCase(*l.Company)
}

// ModelLabel returns "processor - memory" with "Unknown" for either missing half.
func (l *Listing) ModelLabel() string {
	return orUnknown(l.Processor) + " - " + orUnknown(l.Memory)
}

// Eligible reports whether the listing takes part in queries.
func (l *Listing) Eligible() bool {
	return l.Price != nil && l.ModelLabel() != ""
}

// RatingValue parses the rating for sorting. ok is false for missing or non-numeric ratings.
func (l *Listing) RatingValue() (v float64, ok bool) {
	if l.Rating == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*l.Rating), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func orUnknown(s *string) string {
	if s == nil {
		return Unknown
	}
	return *s
}

// TitleCase upper-cases every letter that follows a non-letter and lower-cases the rest,
// so "hp" becomes "Hp" and "ASUS" becomes "Asus".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
