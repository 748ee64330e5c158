package render

import (
	"encoding/json"
	"io"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// JSONRenderer outputs the DigestResult as JSON for tool integration.
type JSONRenderer struct {
	// pretty enables two-space indentation.
	pretty bool
}

// NewJSONRenderer creates a JSONRenderer. When pretty is true the output is indented.
func NewJSONRenderer(pretty bool) *JSONRenderer {
	return &JSONRenderer{pretty: pretty}
}

// Render implements Renderer. The output ends with a newline.
func (r *JSONRenderer) Render(w io.Writer, digest model.DigestResult) error {
	enc := json.NewEncoder(w)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(digest)
}

// ContentType implements Renderer.
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}

// Extension implements Renderer.
func (r *JSONRenderer) Extension() string {
	return "json"
}
