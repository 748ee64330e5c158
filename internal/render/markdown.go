package render

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/language"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// maxChartSlices caps the reasons drawn in the pie chart; the table keeps all of them.
const maxChartSlices = 8

// MarkdownRenderer renders the digest as GitHub flavored Markdown with a
// mermaid pie chart of the top reasons.
type MarkdownRenderer struct {
	counter counter
}

// NewMarkdownRenderer creates a MarkdownRenderer that formats counts for lang.
func NewMarkdownRenderer(lang language.Tag) *MarkdownRenderer {
	return &MarkdownRenderer{counter: newCounter(lang)}
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(w io.Writer, digest model.DigestResult) error {
	md := markdown.NewMarkdown(w)

	r.writeHeader(md, digest)
	r.writeDomains(md, digest)
	r.writeReasons(md, digest)
	r.writeFooter(md, digest)

	return md.Build()
}

// writeHeader writes the title, window table and a one-line verdict.
func (r *MarkdownRenderer) writeHeader(md *markdown.Markdown, digest model.DigestResult) {
	md.H1(Title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Window Start", formatTime(digest.Start)},
			{"Window End", formatTime(digest.End)},
			{"Total Reports", r.counter.format(digest.Total)},
		},
	})
	md.PlainText("")

	if digest.Empty() {
		md.Tip("No phishing reports were received in this window.")
	} else {
		md.Warningf("%s suspicious link(s) were reported in this window.", r.counter.format(digest.Total))
	}
	md.PlainText("")
}

func (r *MarkdownRenderer) writeDomains(md *markdown.Markdown, digest model.DigestResult) {
	md.H2("Top Domains")
	md.PlainText("")

	if len(digest.TopDomains) == 0 {
		md.PlainText("No domains reported.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(digest.TopDomains))
	for i, d := range digest.TopDomains {
		rows[i] = []string{strconv.Itoa(i + 1), "`" + TableCell(displayDomain(d.Domain)) + "`", r.counter.format(d.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Domain", "Reports"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (r *MarkdownRenderer) writeReasons(md *markdown.Markdown, digest model.DigestResult) {
	md.H2("Top Reasons")
	md.PlainText("")

	if len(digest.TopReasons) == 0 {
		md.PlainText("No reasons recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(digest.TopReasons))
	for i, rc := range digest.TopReasons {
		rows[i] = []string{strconv.Itoa(i + 1), TableCell(truncateString(rc.Reason, 80)), r.counter.format(rc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Reason", "Reports"},
		Rows:   rows,
	})
	md.PlainText("")

	r.writePieChart(md, digest.TopReasons)
}

// writePieChart writes a mermaid pie chart of the reason distribution.
func (r *MarkdownRenderer) writePieChart(md *markdown.Markdown, reasons []model.ReasonCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Reason Distribution"),
		piechart.WithShowData(true),
	)
	for i, rc := range reasons {
		if i == maxChartSlices {
			break
		}
		chart.LabelAndIntValue(chartLabel(truncateString(rc.Reason, 40)), uint64(rc.Count)) //nolint:gosec // counts are positive
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (r *MarkdownRenderer) writeFooter(md *markdown.Markdown, digest model.DigestResult) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated %s by PhishGuard Lite*", formatTime(digest.GeneratedAt))
}

// ContentType implements Renderer.
func (r *MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// Extension implements Renderer.
func (r *MarkdownRenderer) Extension() string {
	return "md"
}
