package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var resultTemplate = template.Must(template.ParseFS(templateFS, "templates/referral_result.html"))

// Result is the view model of a referral outcome page.
type Result struct {
	Headline  string
	Message   string
	RetryLink string
	Success   bool
}

// RenderResult writes the referral result page. The headline is title-cased.
func RenderResult(w io.Writer, r Result) error {
	// Casers keep state and cannot be shared across goroutines.
	r.Headline = cases.Title(language.English).String(r.Headline)
	if err := resultTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("pages: render result: %w", err)
	}
	return nil
}

// ReferralForm prefills the referral form, e.g. from a retry link.
type ReferralForm struct {
	UserID       string
	ReferralCode string
}

// RenderPage executes page, a template read from the loader, with data.
func RenderPage(w io.Writer, name string, page []byte, data any) error {
	tmpl, err := template.New(name).Parse(string(page))
	if err != nil {
		return fmt.Errorf("pages: parse %s: %w", name, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("pages: render %s: %w", name, err)
	}
	return nil
}
