package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cypherswwayinc/phishguardlite/internal/config"
	"github.com/cypherswwayinc/phishguardlite/internal/pipeline"
)

const linksPage = `<html><body>
<a href="https://example.com/about">About</a>
<a href="http://evil.tk/login">paypal.com</a>
<a href="/inbox">Inbox</a>
<a href="mailto:someone@example.com">Mail</a>
</body></html>`

func TestLinksCmd(t *testing.T) {
	t.Parallel()

	base := []string{"links", "--backend", "memory", "--base", "https://mail.example.com/"}

	t.Run("text output lists flagged links", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, linksPage, base...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "1 of 3 links flagged") {
			t.Errorf("unexpected summary:\n%s", stdout)
		}
		if !strings.Contains(stdout, "http://evil.tk/login") {
			t.Errorf("expected evil.tk to be listed:\n%s", stdout)
		}
		if strings.Contains(stdout, "https://example.com/about") {
			t.Errorf("safe link should be hidden:\n%s", stdout)
		}
	})

	t.Run("min score zero lists every link", func(t *testing.T) {
		t.Parallel()

		args := append(append([]string{}, base...), "--min-score", "0", "--json")
		stdout, _, err := runCLI(t, linksPage, args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var results []pipeline.LinkResult
		if err := json.Unmarshal([]byte(stdout), &results); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, stdout)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		urls := make([]string, len(results))
		for i, r := range results {
			urls[i] = r.URL
		}
		if !contains(urls, "https://mail.example.com/inbox") {
			t.Errorf("relative link should be resolved against --base, got %v", urls)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()

		args := append(append([]string{}, base...), "--markdown")
		stdout, _, err := runCLI(t, linksPage, args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"## Flagged Links", "http://evil.tk/login", "### Reasons"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("markdown should contain %q, got:\n%s", want, stdout)
			}
		}
		if !strings.Contains(strings.ToLower(stdout), "| score") {
			t.Errorf("markdown should contain a score table, got:\n%s", stdout)
		}
	})

	t.Run("markdown keeps pipes in link text inside one cell", func(t *testing.T) {
		t.Parallel()

		page := `<a href="http://evil.tk/x">pay | pal.com</a>`
		stdout, _, err := runCLI(t, page, "links", "--backend", "memory", "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var row string
		for _, line := range strings.Split(stdout, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "|") && strings.Contains(line, "evil.tk/x") {
				row = line
				break
			}
		}
		if row == "" {
			t.Fatalf("no table row for the flagged link:\n%s", stdout)
		}
		if !strings.Contains(row, `pay \| pal.com`) {
			t.Errorf("pipe in link text should be escaped, got %q", row)
		}
		if got := strings.Count(row, "|") - strings.Count(row, `\|`); got != 5 {
			t.Errorf("row %q has %d column separators, want 5", row, got)
		}
	})

	t.Run("reads the page from a file", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "page.html", linksPage)
		stdout, _, err := runCLI(t, "", "links", "--backend", "memory", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "1 of 2 links flagged") {
			t.Errorf("relative link should be dropped without --base:\n%s", stdout)
		}
	})

	t.Run("json and markdown conflict", func(t *testing.T) {
		t.Parallel()

		args := append(append([]string{}, base...), "--json", "--markdown")
		_, _, err := runCLI(t, linksPage, args...)
		if !errors.Is(err, config.ErrConflictingFormats) {
			t.Errorf("expected ErrConflictingFormats, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := runCLI(t, "", "links", "--backend", "memory", "/nonexistent/page.html"); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
