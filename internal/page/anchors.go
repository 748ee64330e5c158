package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is one anchor found in a document.
type Link struct {
	// URL is the absolute http(s) target of the anchor.
	URL string `json:"url"`

	// Text is the visible text of the anchor with whitespace collapsed.
	Text string `json:"text"`
}

// Extractor collects anchors from HTML documents.
type Extractor struct {
	// base resolves relative hrefs. Nil keeps only absolute links.
	base *url.URL
}

// NewExtractor creates an Extractor that resolves relative links against
// baseURL. An empty baseURL keeps only absolute links.
func NewExtractor(baseURL string) (*Extractor, error) {
	if baseURL == "" {
		return &Extractor{}, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid base url %q: must be absolute", baseURL)
	}
	return &Extractor{base: u}, nil
}

// ExtractLinks is a shorthand for NewExtractor(baseURL) followed by Extract.
func ExtractLinks(r io.Reader, baseURL string) ([]Link, error) {
	e, err := NewExtractor(baseURL)
	if err != nil {
		return nil, err
	}
	return e.Extract(r)
}

// Extract returns the http(s) anchors of the document in document order.
// A <base href> element in the document overrides the extractor's base
// for the anchors that follow it.
func (e *Extractor) Extract(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	base := e.base
	links := make([]Link, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Base:
				if href := getAttr(n, "href"); href != "" {
					if u := resolve(base, href); u != nil {
						base = u
					}
				}
			case atom.A:
				if u := resolve(base, getAttr(n, "href")); u != nil && isWeb(u) {
					links = append(links, Link{URL: u.String(), Text: textContent(n)})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolve parses href and resolves it against base. It returns nil for
// empty, fragment-only or unparsable hrefs, and for relative hrefs without a base.
func resolve(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if u.IsAbs() {
		return u
	}
	if base == nil {
		return nil
	}
	return base.ResolveReference(u)
}

func isWeb(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// textContent joins the text of all descendants of n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
