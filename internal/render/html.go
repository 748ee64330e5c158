package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"golang.org/x/text/language"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

//go:embed templates/digest.html
var digestTemplate string

// htmlTemplate is parsed once; template.Template is safe for concurrent Execute.
var htmlTemplate = template.Must(template.New("digest").Parse(digestTemplate))

// HTMLRenderer renders the digest as a standalone HTML page suitable for e-mail.
// All values are escaped by html/template.
type HTMLRenderer struct {
	counter counter
}

// NewHTMLRenderer creates an HTMLRenderer that formats counts for lang.
func NewHTMLRenderer(lang language.Tag) *HTMLRenderer {
	return &HTMLRenderer{counter: newCounter(lang)}
}

// htmlRow is one ranked table row.
type htmlRow struct {
	Rank  int
	Label string
	Count string
}

type htmlPage struct {
	Title     string
	Start     string
	End       string
	Generated string
	Total     string
	Domains   []htmlRow
	Reasons   []htmlRow
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(w io.Writer, digest model.DigestResult) error {
	page := htmlPage{
		Title:     Title,
		Start:     formatTime(digest.Start),
		End:       formatTime(digest.End),
		Generated: formatTime(digest.GeneratedAt),
		Total:     r.counter.format(digest.Total),
		Domains:   make([]htmlRow, 0, len(digest.TopDomains)),
		Reasons:   make([]htmlRow, 0, len(digest.TopReasons)),
	}
	for i, d := range digest.TopDomains {
		page.Domains = append(page.Domains, htmlRow{Rank: i + 1, Label: displayDomain(d.Domain), Count: r.counter.format(d.Count)})
	}
	for i, rc := range digest.TopReasons {
		page.Reasons = append(page.Reasons, htmlRow{Rank: i + 1, Label: rc.Reason, Count: r.counter.format(rc.Count)})
	}

	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render html digest: %w", err)
	}
	return nil
}

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Extension implements Renderer.
func (r *HTMLRenderer) Extension() string {
	return "html"
}
