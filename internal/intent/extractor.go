// Package intent turns a raw chat query into a models.Directive using a fixed, ordered rule table.
package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/lapbot/internal/models"
)

// Rule fills in one part of a Directive from the lower-cased query text.
// Rules run in table order; a rule may read fields set by earlier rules.
type Rule struct {
	Name  string
	Apply func(text string, manufacturers []string, d *models.Directive)
}

// limitPatterns are tried in order; the first that matches sets the limit.
var limitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)top (\d+)`),
	regexp.MustCompile(`(?i)first\s+(\d+)`),
	regexp.MustCompile(`(?i)best\s+(\d+)`),
}

var (
	ramPattern   = regexp.MustCompile(`(\d+)\s*gb\s*ram`)
	pricePattern = regexp.MustCompile(`under\s+(\d+)`)
)

// ModeRule maps any of its keywords to a mode.
type ModeRule struct {
	Mode     models.Mode
	Keywords []string
}

// ModeRules are checked in order; the first rule with a keyword in the text wins.
var ModeRules = []ModeRule{
	{Mode: models.ModeHighestRating, Keywords: []string{"highest rating", "best rated"}},
	{Mode: models.ModeCheapest, Keywords: []string{"cheapest", "lowest price"}},
	{Mode: models.ModeMostExpensive, Keywords: []string{"most expensive", "highest price"}},
}

// rankKeywords switch limited results from price order to rating order.
var rankKeywords = []string{"top", "best"}

// DefaultRules is the rule table in evaluation order.
var DefaultRules = []Rule{
	{Name: "limit", Apply: extractLimit},
	{Name: "brand", Apply: extractBrand},
	{Name: "ram", Apply: extractRAM},
	{Name: "price_ceiling", Apply: extractPriceCeiling},
	{Name: "rank_by_rating", Apply: extractRankByRating},
	{Name: "mode", Apply: selectMode},
}

// Extractor applies a rule table to queries.
type Extractor struct {
	rules []Rule
}

// NewExtractor returns an Extractor over DefaultRules.
func NewExtractor() *Extractor {
	return &Extractor{rules: DefaultRules}
}

// Rules returns the rule table in evaluation order.
func (e *Extractor) Rules() []Rule {
	return e.rules
}

// Extract parses text into a Directive. manufacturers are the candidate brands in store order.
func (e *Extractor) Extract(text string, manufacturers []string) models.Directive {
	d := models.Directive{Text: strings.ToLower(text)}
	for _, r := range e.rules {
		r.Apply(d.Text, manufacturers, &d)
	}
	return d
}

func extractLimit(text string, _ []string, d *models.Directive) {
	for _, re := range limitPatterns {
		if n, ok := firstInt(re, text); ok {
			d.Limit = &n
			return
		}
	}
}

func extractBrand(text string, manufacturers []string, d *models.Directive) {
	for _, m := range manufacturers {
		if strings.Contains(text, strings.ToLower(m)) {
			brand := m
			d.Brand = &brand
			return
		}
	}
}

func extractRAM(text string, _ []string, d *models.Directive) {
	if n, ok := firstInt(ramPattern, text); ok {
		d.RAM = &n
	}
}

func extractPriceCeiling(text string, _ []string, d *models.Directive) {
	if n, ok := firstInt(pricePattern, text); ok {
		ceiling := float64(n)
		d.PriceCeiling = &ceiling
	}
}

func extractRankByRating(text string, _ []string, d *models.Directive) {
	d.RankByRating = containsAny(text, rankKeywords)
}

// selectMode must run after extractLimit. A zero limit does not select LimitedRanked.
func selectMode(text string, _ []string, d *models.Directive) {
	for _, r := range ModeRules {
		if containsAny(text, r.Keywords) {
			d.Mode = r.Mode
			return
		}
	}
	if d.Limit != nil && *d.Limit > 0 {
		d.Mode = models.ModeLimitedRanked
		return
	}
	d.Mode = models.ModeDefaultTop5
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// firstInt returns the first capture group of re in text. Values too large for int saturate.
func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt, true
	}
	return n, true
}
