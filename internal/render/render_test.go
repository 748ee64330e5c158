package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

func sampleDigest() model.DigestResult {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.DigestResult{
		Start: start,
		End:   start.AddDate(0, 0, 7),
		Total: 1234,
		TopDomains: []model.DomainCount{
			{Domain: "bit.ly", Count: 900},
			{Domain: "xn--pple-43d.com", Count: 300},
			{Domain: "(unknown)", Count: 34},
		},
		TopReasons: []model.ReasonCount{
			{Reason: "URL shortener host", Count: 900},
			{Reason: "Punycode/homoglyph in hostname", Count: 300},
			{Reason: "<script>alert(1)</script>", Count: 1},
		},
		GeneratedAt: start.AddDate(0, 0, 7),
	}
}

func emptyDigest() model.DigestResult {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.DigestResult{
		Start:       start,
		End:         start.AddDate(0, 0, 7),
		TopDomains:  []model.DomainCount{},
		TopReasons:  []model.ReasonCount{},
		GeneratedAt: start.AddDate(0, 0, 7),
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "html", want: FormatHTML},
		{in: "", want: FormatHTML},
		{in: "MD", want: FormatMarkdown},
		{in: "markdown", want: FormatMarkdown},
		{in: "json", want: FormatJSON},
		{in: "txt", want: FormatText},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRendererExtensions(t *testing.T) {
	t.Parallel()

	want := map[Format]string{
		FormatHTML:     "html",
		FormatMarkdown: "md",
		FormatJSON:     "json",
		FormatText:     "txt",
	}
	for f, ext := range want {
		r, err := New(f)
		if err != nil {
			t.Fatalf("New(%q) error = %v", f, err)
		}
		if r.Extension() != ext {
			t.Errorf("New(%q).Extension() = %q, want %q", f, r.Extension(), ext)
		}
		if r.ContentType() == "" {
			t.Errorf("New(%q).ContentType() is empty", f)
		}
	}

	if _, err := New(Format("pdf")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("New(pdf) error = %v, want ErrUnknownFormat", err)
	}
}

func TestHTMLRenderer(t *testing.T) {
	t.Parallel()

	t.Run("renders counts, domains and escapes reasons", func(t *testing.T) {
		t.Parallel()

		out, err := Bytes(NewHTMLRenderer(language.English), sampleDigest())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		html := string(out)

		for _, want := range []string{
			Title,
			"1,234",
			"bit.ly",
			"аpple.com (xn--pple-43d.com)",
			"&lt;script&gt;",
			"2025-01-01 00:00:00 UTC",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("html output should contain %q", want)
			}
		}
		if strings.Contains(html, "<script>alert") {
			t.Error("reason text must be escaped")
		}
	})

	t.Run("empty digest", func(t *testing.T) {
		t.Parallel()

		out, err := Bytes(NewHTMLRenderer(language.English), emptyDigest())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(string(out), "No reports in this window.") {
			t.Error("empty digest should say there were no reports")
		}
	})
}

func TestMarkdownRenderer(t *testing.T) {
	t.Parallel()

	t.Run("renders tables and chart", func(t *testing.T) {
		t.Parallel()

		out, err := Bytes(NewMarkdownRenderer(language.English), sampleDigest())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		md := string(out)

		for _, want := range []string{
			"# " + Title,
			"## Top Domains",
			"## Top Reasons",
			"1,234",
			"`bit.ly`",
			"```mermaid",
			"Reason Distribution",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("markdown output should contain %q", want)
			}
		}
	})

	t.Run("user text keeps the table shape", func(t *testing.T) {
		t.Parallel()

		d := sampleDigest()
		d.TopDomains = []model.DomainCount{{Domain: "evil.tk|x", Count: 5}}
		d.TopReasons = []model.ReasonCount{
			{Reason: "a | b", Count: 7},
			{Reason: "first line\nsecond \"line\"", Count: 2},
		}

		out, err := Bytes(NewMarkdownRenderer(language.English), d)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}

		for _, tc := range []struct {
			marker string
			count  string
		}{
			{marker: `evil.tk\|x`, count: "5"},
			{marker: `a \| b`, count: "7"},
			{marker: "first line second", count: "2"},
		} {
			row := lineContaining(string(out), tc.marker)
			if row == "" {
				t.Errorf("no table row contains %q:\n%s", tc.marker, out)
				continue
			}
			cells := tableCells(row)
			if len(cells) != 3 {
				t.Errorf("row %q has %d cells, want 3", row, len(cells))
				continue
			}
			if cells[2] != tc.count {
				t.Errorf("row %q reports %q, want %q", row, cells[2], tc.count)
			}
		}

		if !strings.Contains(string(out), `first line second 'line'`) {
			t.Errorf("chart label should drop line breaks and double quotes:\n%s", out)
		}
	})

	t.Run("empty digest has no chart", func(t *testing.T) {
		t.Parallel()

		out, err := Bytes(NewMarkdownRenderer(language.English), emptyDigest())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		md := string(out)
		if strings.Contains(md, "mermaid") {
			t.Error("empty digest should not draw a chart")
		}
		if !strings.Contains(md, "No domains reported.") {
			t.Error("empty digest should say no domains were reported")
		}
	})
}

func TestJSONRenderer(t *testing.T) {
	t.Parallel()

	for _, pretty := range []bool{false, true} {
		out, err := Bytes(NewJSONRenderer(pretty), sampleDigest())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.HasSuffix(string(out), "\n") {
			t.Error("JSON output should end with a newline")
		}

		var decoded model.DigestResult
		if err := json.Unmarshal(out, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Total != 1234 || len(decoded.TopDomains) != 3 {
			t.Errorf("decoded = %+v, numbers must be unchanged", decoded)
		}
		if pretty != strings.Contains(string(out), "\n  ") {
			t.Errorf("pretty=%v but indentation presence mismatched", pretty)
		}
	}

	t.Run("empty lists stay arrays", func(t *testing.T) {
		t.Parallel()

		out, err := Bytes(NewJSONRenderer(false), emptyDigest())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(string(out), `"topDomains":[]`) {
			t.Errorf("empty topDomains should be [], got %s", out)
		}
	})
}

func TestTextRenderer(t *testing.T) {
	t.Parallel()

	out, err := Bytes(NewTextRenderer(language.English), sampleDigest())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	text := string(out)
	for _, want := range []string{"TOP DOMAINS", "TOP REASONS", "1. bit.ly", "1,234"} {
		if !strings.Contains(text, want) {
			t.Errorf("text output should contain %q", want)
		}
	}

	out, err = Bytes(NewTextRenderer(language.English), emptyDigest())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out), "(none)") {
		t.Error("empty sections should print (none)")
	}
}

func TestDisplayDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "example.com"},
		{in: "xn--pple-43d.com", want: "аpple.com (xn--pple-43d.com)"},
		{in: "(unknown)", want: "(unknown)"},
	}
	for _, tt := range tests {
		if got := displayDomain(tt.in); got != tt.want {
			t.Errorf("displayDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString() = %q", got)
	}
	if got := truncateString("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("truncateString() = %q, want %q", got, "abcde...")
	}
	if got := truncateString("abcdef", 2); got != "ab" {
		t.Errorf("truncateString() = %q, want %q", got, "ab")
	}
}

func TestTableCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "URL shortener host", want: "URL shortener host"},
		{in: "a | b", want: `a \| b`},
		{in: "one\ntwo\r\nthree\rfour", want: "one two three four"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := TableCell(tt.in); got != tt.want {
			t.Errorf("TableCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// lineContaining returns the first line of s containing substr.
func lineContaining(s, substr string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// tableCells splits a Markdown table row on unescaped pipes and trims each cell.
func tableCells(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(row); i++ {
		if row[i] == '|' && (i == 0 || row[i-1] != '\\') {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
			continue
		}
		cell.WriteByte(row[i])
	}
	return append(cells, strings.TrimSpace(cell.String()))
}
