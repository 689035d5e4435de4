package models

// Mode selects how the filtered working set is turned into a result.
type Mode int

const (
	// ModeDefaultTop5 returns the cheapest few listings.
	ModeDefaultTop5 Mode = iota
	// ModeHighestRating returns the single best-rated listing.
	ModeHighestRating
	// ModeCheapest returns the single cheapest listing.
	ModeCheapest
	// ModeMostExpensive returns the single most expensive listing.
	ModeMostExpensive
	// ModeLimitedRanked returns the first Limit listings.
	ModeLimitedRanked
)

func (m Mode) String() string {
	switch m {
	case ModeHighestRating:
		return "highest_rating"
	case ModeCheapest:
		return "cheapest"
	case ModeMostExpensive:
		return "most_expensive"
	case ModeLimitedRanked:
		return "limited_ranked"
	default:
		return "default_top5"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Superlative reports whether the mode returns exactly one listing.
func (m Mode) Superlative() bool {
	return m == ModeHighestRating || m == ModeCheapest || m == ModeMostExpensive
}

// Directive is the structured form of one user query.
type Directive struct {
	Text         string   `json:"text"`
	Brand        *string  `json:"brand,omitempty"`
	RAM          *int     `json:"ram,omitempty"`
	PriceCeiling *float64 `json:"price_ceiling,omitempty"`
	Limit        *int     `json:"limit,omitempty"`
	Mode         Mode     `json:"mode"`
	// RankByRating is set when the text contains "top" or "best" anywhere,
	// including inside words such as "laptops".
	RankByRating bool `json:"rank_by_rating"`
}

// Answer is the outcome of running one query through the pipeline.
type Answer struct {
	Directive Directive  `json:"directive"`
	Listings  []*Listing `json:"listings"`
	// Ranked is true when cards carry a #n rank heading.
	Ranked bool   `json:"ranked"`
	HTML   string `json:"-"`
}
