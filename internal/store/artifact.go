package store

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// Artifact is a rendered digest.
type Artifact struct {
	// Name is a plain file name such as weekly_digest_20250105.html.
	Name string `json:"name"`

	// ContentType is the MIME type of Body.
	ContentType string `json:"contentType"`

	// Body is the rendered content.
	Body []byte `json:"-"`

	// Checksum is the SHA3-256 hex digest of Body.
	Checksum string `json:"checksum"`

	// CreatedAt is when the artifact was stored.
	CreatedAt time.Time `json:"createdAt"`
}

// ArtifactInfo describes a stored artifact without its body.
type ArtifactInfo struct {
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	Checksum    string    `json:"checksum"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Info returns the metadata of a.
func (a Artifact) Info() ArtifactInfo {
	return ArtifactInfo{
		Name:        a.Name,
		ContentType: a.ContentType,
		Size:        len(a.Body),
		Checksum:    a.Checksum,
		CreatedAt:   a.CreatedAt,
	}
}

// Checksum returns the SHA3-256 hex digest of body.
func Checksum(body []byte) string {
	sum := sha3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// ValidateName rejects names that could escape the artifact directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// prepareArtifact validates a and fills in the derived fields.
func prepareArtifact(a Artifact, now time.Time) (Artifact, error) {
	if err := ValidateName(a.Name); err != nil {
		return Artifact{}, err
	}
	a.Checksum = Checksum(a.Body)
	if a.ContentType == "" {
		a.ContentType = contentTypeForName(a.Name)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now.UTC()
	}
	return a, nil
}

// contentTypeForName guesses a MIME type from a file extension.
func contentTypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
