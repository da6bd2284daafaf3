// Package storage persists design artifacts and loads the block catalog from
// a local directory, an S3 bucket or a NATS key-value bucket.
package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/export"
)

// ArtifactKind names one of the files saved for a design.
type ArtifactKind string

const (
	ArtifactWorkspace ArtifactKind = "workspace"
	ArtifactTurtle    ArtifactKind = "turtle"
	ArtifactGraph     ArtifactKind = "graph"
)

// ArtifactKinds lists the design artifacts in upload order.
var ArtifactKinds = []ArtifactKind{ArtifactWorkspace, ArtifactTurtle, ArtifactGraph}

// FileName returns the object name the artifact is stored under.
func (k ArtifactKind) FileName() string {
	switch k {
	case ArtifactWorkspace:
		return "workspace.json"
	case ArtifactTurtle:
		return "abox.ttl"
	case ArtifactGraph:
		return "abox.json"
	default:
		return string(k)
	}
}

// ContentType returns the MIME type recorded with the artifact.
func (k ArtifactKind) ContentType() string {
	switch k {
	case ArtifactTurtle:
		return export.FormatRegistry[export.FormatTurtle].MIMEType
	case ArtifactGraph:
		return export.FormatRegistry[export.FormatGraphJSON].MIMEType
	default:
		return "application/json"
	}
}

// ParseArtifactKind parses an artifact kind or its file name.
func ParseArtifactKind(s string) (ArtifactKind, error) {
	for _, k := range ArtifactKinds {
		if s == string(k) || s == k.FileName() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown artifact kind: %s", s)
}

// Artifacts is the set of files written when a design is saved. Nil entries
// are skipped.
type Artifacts struct {
	Workspace []byte
	Turtle    []byte
	Graph     []byte
}

// Get returns the content for one artifact kind.
func (a Artifacts) Get(k ArtifactKind) []byte {
	switch k {
	case ArtifactWorkspace:
		return a.Workspace
	case ArtifactTurtle:
		return a.Turtle
	case ArtifactGraph:
		return a.Graph
	default:
		return nil
	}
}

// Layout builds object keys below an optional prefix.
type Layout struct {
	Prefix string
}

// DefaultLayout keeps everything under public/, as the web client expects.
var DefaultLayout = Layout{Prefix: "public"}

// DesignPrefix returns the key prefix holding a design's artifacts.
func (l Layout) DesignPrefix(rootID string) (string, error) {
	if err := checkSegment(rootID); err != nil {
		return "", err
	}
	return l.join("smarthomes", rootID, "design"), nil
}

// DesignKey returns the key of one design artifact.
func (l Layout) DesignKey(rootID string, kind ArtifactKind) (string, error) {
	p, err := l.DesignPrefix(rootID)
	if err != nil {
		return "", err
	}
	return path.Join(p, kind.FileName()), nil
}

// CatalogKey returns the key of the block catalog. An empty version or
// "latest" selects the latest published ontology.
func (l Layout) CatalogKey(version string) (string, error) {
	dir := "latest"
	if v := strings.TrimPrefix(strings.TrimSpace(version), "v"); v != "" && v != "latest" {
		if err := checkSegment(v); err != nil {
			return "", err
		}
		dir = "v" + v
	}
	return l.join("ontology", dir, "blockly-blocks.json"), nil
}

func (l Layout) join(parts ...string) string {
	if p := strings.Trim(l.Prefix, "/"); p != "" {
		parts = append([]string{p}, parts...)
	}
	return path.Join(parts...)
}

func checkSegment(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return nil
}
