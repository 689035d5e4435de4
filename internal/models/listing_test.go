package models

import (
	"encoding/json"
	"testing"
)

func strp(s string) *string { return &s }

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hp", "Hp"},
		{"ASUS", "Asus"},
		{"acer aspire", "Acer Aspire"},
		{"3com", "3Com"},
		{"micro-star", "Micro-Star"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListing_ManufacturerAndModelLabel(t *testing.T) {
	l := &Listing{Company: strp("lenovo"), Processor: strp("Intel Core i5")}
	if got := l.Manufacturer(); got != "Lenovo" {
		t.Errorf("Manufacturer() = %q", got)
	}
	if got := l.ModelLabel(); got != "Intel Core i5 - Unknown" {
		t.Errorf("ModelLabel() = %q", got)
	}

	empty := &Listing{}
	if got := empty.Manufacturer(); got != Unknown {
		t.Errorf("missing company: got %q", got)
	}
	if got := empty.ModelLabel(); got != "Unknown - Unknown" {
		t.Errorf("missing processor and memory: got %q", got)
	}
}

func TestListing_Eligible(t *testing.T) {
	price := 499.0
	if (&Listing{}).Eligible() {
		t.Error("listing without price should not be eligible")
	}
	if !(&Listing{Price: &price}).Eligible() {
		t.Error("listing with price should be eligible")
	}
}

func TestListing_RatingValue(t *testing.T) {
	tests := []struct {
		name   string
		rating *string
		want   float64
		wantOK bool
	}{
		{"missing", nil, 0, false},
		{"numeric", strp("4.5"), 4.5, true},
		{"padded", strp(" 3 "), 3, true},
		{"text", strp("great"), 0, false},
		{"nan", strp("NaN"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := (&Listing{Rating: tt.rating}).RatingValue()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("RatingValue() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMode_Superlative(t *testing.T) {
	for _, m := range []Mode{ModeHighestRating, ModeCheapest, ModeMostExpensive} {
		if !m.Superlative() {
			t.Errorf("%s should be superlative", m)
		}
	}
	for _, m := range []Mode{ModeLimitedRanked, ModeDefaultTop5} {
		if m.Superlative() {
			t.Errorf("%s should not be superlative", m)
		}
	}
}

func TestDirective_JSONModeName(t *testing.T) {
	out, err := json.Marshal(Directive{Text: "cheapest", Mode: ModeCheapest})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"text":"cheapest","mode":"cheapest","rank_by_rating":false}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}
