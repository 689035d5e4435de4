package render

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown for missing price, RAM, rating and processor values.
const NotAvailable = "N/A"

// FormatPrice renders "$1,234.50", or "N/A" when price is nil.
func FormatPrice(price *float64) string {
	if price == nil {
		return NotAvailable
	}
	v := *price
	switch {
	case math.IsNaN(v):
		return "$nan"
	case math.IsInf(v, 1):
		return "$inf"
	case math.IsInf(v, -1):
		return "$-inf"
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return "$" + sign + s
	}
	return "$" + sign + humanize.BigComma(n) + "." + frac
}

// FormatRAM renders "16GB RAM" (the value truncated to an integer), or "N/A" when ram is nil.
func FormatRAM(ram *float64) string {
	if ram == nil {
		return NotAvailable
	}
	return humanize.Comma(int64(*ram)) + "GB RAM"
}

// FormatReviews adds thousands separators to an integer count, shows any other value
// verbatim, and shows "0" when the count is missing. Integral floats such as "1200.0"
// count as integers.
func FormatReviews(count *string) string {
	if count == nil {
		return "0"
	}
	s := strings.TrimSpace(*count)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return humanize.Comma(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) &&
		f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return humanize.Comma(int64(f))
	}
	return *count
}

func orNA(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return *s
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
