package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/lapbot/internal/catalog"
	"github.com/hyperjump/lapbot/internal/models"
	"github.com/hyperjump/lapbot/internal/render"
)

func strp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }

func sampleAnswer() *models.Answer {
	r := render.NewRenderer(render.Options{})
	listings := []*models.Listing{
		{Row: 2, Company: strp("hp"), Processor: strp("Ryzen 5"), Memory: strp("256 GB SSD"), Price: fp(480), RAM: fp(8), Rating: strp("4.0"), ReviewCount: strp("1200")},
		{Row: 0, Company: strp("HP"), Processor: strp("Intel i5"), Memory: strp("512 GB SSD"), Price: fp(650), RAM: fp(8)},
	}
	return &models.Answer{
		Directive: models.Directive{Text: "top 2 hp laptops", Mode: models.ModeLimitedRanked},
		Listings:  listings,
		Ranked:    true,
		HTML:      r.Cards(listings, true),
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, in := range []string{"text", "JSON", "html"} {
		if _, err := ParseOutputFormat(in); err != nil {
			t.Errorf("ParseOutputFormat(%q): %v", in, err)
		}
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteAnswer_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAnswer(), render.NewRenderer(render.Options{}), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"2 laptop(s) [limited_ranked]",
		"#1 Hp — Ryzen 5 - 256 GB SSD",
		"Price: $480.00 | Specs: 8GB RAM | Rating: 4.0 (1,200 reviews)",
		"#2 Hp — Intel i5 - 512 GB SSD",
		"Rating: N/A (0 reviews)",
		"Link: https://www.amazon.com/s?k=Ryzen+5+-+256+GB+SSD",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "#1") > strings.Index(out, "#2") {
		t.Error("listings should print in answer order")
	}
}

func TestWriteAnswer_TextUnranked(t *testing.T) {
	ans := sampleAnswer()
	ans.Ranked = false
	ans.Listings = ans.Listings[:1]
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, ans, render.NewRenderer(render.Options{}), OutputText); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "#1") {
		t.Errorf("unranked output should have no rank:\n%s", buf.String())
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAnswer(), render.NewRenderer(render.Options{}), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Directive struct {
			Text string `json:"text"`
			Mode string `json:"mode"`
		} `json:"directive"`
		Listings []models.Listing `json:"listings"`
		Ranked   bool             `json:"ranked"`
		HTML     *string          `json:"html"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Directive.Mode != "limited_ranked" || len(decoded.Listings) != 2 || !decoded.Ranked {
		t.Errorf("unexpected decoded answer: %+v", decoded)
	}
	if decoded.Listings[0].Row != 2 {
		t.Errorf("first listing row = %d, want 2", decoded.Listings[0].Row)
	}
	if decoded.HTML != nil {
		t.Error("JSON output should not include the HTML fragment")
	}
}

func TestWriteAnswer_HTML(t *testing.T) {
	ans := sampleAnswer()
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, ans, render.NewRenderer(render.Options{}), OutputHTML); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != strings.TrimSpace(ans.HTML) {
		t.Error("HTML output should be the card fragment")
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{OutputText, "⚠️ No laptops matched your query.\n"},
		{OutputJSON, "{\n  \"error\": \"No laptops matched your query.\"\n}\n"},
		{OutputHTML, "<div style='color:red;'>⚠️ No laptops matched your query.</div>\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteError(&buf, "⚠️", "No laptops matched your query.", tt.format); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("WriteError(%s) = %q, want %q", tt.format, buf.String(), tt.want)
		}
	}
}

func TestWriteStatus(t *testing.T) {
	sum := catalog.Summary{Source: "/data/laptops.csv", Listings: 3, Working: 2, Manufacturers: []string{"Hp", "Dell"}}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, sum, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Listings: 3 (2 with a price)") || !strings.Contains(out, "Manufacturers: Hp, Dell") {
		t.Errorf("unexpected status output:\n%s", out)
	}

	buf.Reset()
	sum.LoadError = "boom"
	if err := WriteStatus(&buf, sum, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Load error: boom") {
		t.Errorf("load error not shown:\n%s", buf.String())
	}
}
