// Package renderer renders divyield reports to markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// Now is the current time used in reports.
// Tests set DIVYIELD_TESTING_NOW to get a stable output.
func Now() time.Time {
	if s := os.Getenv("DIVYIELD_TESTING_NOW"); s != "" {
		t, err := time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// RenderYieldSummary renders the YieldSummary struct to a markdown string.
func RenderYieldSummary(s *YieldSummary) string {
	partials := map[string]string{
		"yield_summary_stats":     "yield_summary_stats.md",
		"yield_summary_dividends": "yield_summary_dividends.md",
	}
	if len(s.Dividends) == 0 {
		partials["yield_summary_dividends"] = "yield_summary_no_dividends.md"
	}
	return renderTemplate("yieldSummary", "yield_summary.md", partials, s)
}

var funcs = template.FuncMap{
	"money":   formatMoney,
	"percent": func(d decimal.Decimal) string { return d.StringFixed(2) + "%" },
}

// formatMoney formats amount in currency, like "$1.76". Unknown currencies are
// printed as a plain number followed by their code.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if currency == "" || cur == nil {
		return strings.TrimSpace(amount.String() + " " + currency)
	}
	// keep sub cent amounts, dividends per share often have 3 or 4 digits.
	if exp := -amount.Exponent(); exp > int32(cur.Fraction) {
		return cur.Grapheme + amount.String()
	}
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).IntPart())
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
