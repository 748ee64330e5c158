package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

const ruleWidth = 70

// TextRenderer outputs a plain text digest for terminal display.
type TextRenderer struct {
	counter counter
}

// NewTextRenderer creates a TextRenderer that formats counts for lang.
func NewTextRenderer(lang language.Tag) *TextRenderer {
	return &TextRenderer{counter: newCounter(lang)}
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, digest model.DigestResult) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(centered(strings.ToUpper(Title), ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Window:        %s -> %s\n", formatTime(digest.Start), formatTime(digest.End))
	fmt.Fprintf(&sb, "Total Reports: %s\n", r.counter.format(digest.Total))
	sb.WriteString("\n")

	r.writeSection(&sb, "TOP DOMAINS", len(digest.TopDomains), func(i int) (string, int) {
		return displayDomain(digest.TopDomains[i].Domain), digest.TopDomains[i].Count
	})
	r.writeSection(&sb, "TOP REASONS", len(digest.TopReasons), func(i int) (string, int) {
		return digest.TopReasons[i].Reason, digest.TopReasons[i].Count
	})

	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Generated: %s\n", formatTime(digest.GeneratedAt))

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSection writes one ranked list; entry returns the label and count of row i.
func (r *TextRenderer) writeSection(sb *strings.Builder, header string, n int, entry func(i int) (string, int)) {
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(header)))
	sb.WriteString("\n")

	if n == 0 {
		sb.WriteString("  (none)\n\n")
		return
	}
	for i := range n {
		label, count := entry(i)
		fmt.Fprintf(sb, "  %2d. %-50s %8s\n", i+1, truncateString(label, 50), r.counter.format(count))
	}
	sb.WriteString("\n")
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

// ContentType implements Renderer.
func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Extension implements Renderer.
func (r *TextRenderer) Extension() string {
	return "txt"
}
