package render

import (
	"strings"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Title is the heading used by every document format.
const Title = "PhishGuard Lite Weekly Digest"

const timeLayout = "2006-01-02 15:04:05 MST"

// counter formats counts with locale digit grouping, e.g. 12,345.
type counter struct {
	printer *message.Printer
}

func newCounter(tag language.Tag) counter {
	return counter{printer: message.NewPrinter(tag)}
}

func (c counter) format(n int) string {
	return c.printer.Sprintf("%d", n)
}

// displayDomain shows punycode hosts in their Unicode form followed by the
// ASCII form, so homoglyphs stay visible to the reader.
func displayDomain(domain string) string {
	if !strings.Contains(domain, "xn--") {
		return domain
	}
	display, err := idna.ToUnicode(domain)
	if err != nil || display == domain {
		return domain
	}
	return display + " (" + domain + ")"
}

// cellReplacer keeps user text inside one Markdown table cell.
var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// TableCell escapes s for use as a Markdown table cell. Pipes are escaped
// and line breaks become spaces, so the row keeps its column count.
func TableCell(s string) string {
	return cellReplacer.Replace(s)
}

// chartReplacer keeps a label inside the quoted mermaid pie chart syntax.
var chartReplacer = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ")

func chartLabel(s string) string {
	return chartReplacer.Replace(s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
