package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// Format names a digest presentation.
type Format string

const (
	// FormatHTML is the e-mail friendly HTML digest.
	FormatHTML Format = "html"

	// FormatMarkdown is a Markdown digest with a mermaid chart of reasons.
	FormatMarkdown Format = "markdown"

	// FormatJSON is the raw DigestResult as JSON.
	FormatJSON Format = "json"

	// FormatText is plain text for terminal display.
	FormatText Format = "text"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown digest format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatHTML), string(FormatMarkdown), string(FormatJSON), string(FormatText)}
}

// ParseFormat converts a user supplied name into a Format.
// "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
}

// Renderer turns a DigestResult into a document. Renderers never change
// the numbers they are given.
type Renderer interface {
	// Render writes the document for digest to w.
	Render(w io.Writer, digest model.DigestResult) error

	// ContentType is the MIME type of the rendered document.
	ContentType() string

	// Extension is the file extension used in artifact names, without a dot.
	Extension() string
}

// settings holds the options shared by all renderers.
type settings struct {
	lang   language.Tag
	pretty bool
}

// Option configures a Renderer created by New.
type Option func(*settings)

// WithLanguage sets the language used to format counts.
func WithLanguage(tag language.Tag) Option {
	return func(s *settings) {
		s.lang = tag
	}
}

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() Option {
	return func(s *settings) {
		s.pretty = true
	}
}

// New returns the Renderer for f.
func New(f Format, opts ...Option) (Renderer, error) {
	s := settings{lang: language.English}
	for _, opt := range opts {
		opt(&s)
	}

	switch f {
	case FormatHTML:
		return NewHTMLRenderer(s.lang), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(s.lang), nil
	case FormatJSON:
		return NewJSONRenderer(s.pretty), nil
	case FormatText:
		return NewTextRenderer(s.lang), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Bytes renders digest into memory.
func Bytes(r Renderer, digest model.DigestResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, digest); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
