package export

import (
	"fmt"
	"strings"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/abox"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
	FormatGraphJSON: {
		Name:        FormatGraphJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Graph JSON - nodes and links for visualization",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat looks up a format by name or file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for name, info := range FormatRegistry {
		if s == string(name) || s == info.Extension || "."+s == info.Extension {
			return name, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// TurtleWriter writes records in the triple text layout.
type TurtleWriter struct {
	prefixes []dhc.Prefix
	sb       strings.Builder
}

// NewTurtleWriter creates a writer that declares prefixes in the given order.
func NewTurtleWriter(prefixes []dhc.Prefix) *TurtleWriter {
	return &TurtleWriter{prefixes: prefixes}
}

// WritePrefixes writes prefix declarations followed by a blank line.
func (w *TurtleWriter) WritePrefixes() {
	for _, p := range w.prefixes {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", p.Name, p.IRI))
	}
	w.sb.WriteString("\n")
}

// WriteRecord writes one subject block and its trailing blank line.
func (w *TurtleWriter) WriteRecord(r abox.Record) {
	lines := make([]string, 0, 1+len(r.Attributes)+len(r.Relations))
	lines = append(lines, "a "+r.Class)
	for _, a := range r.Attributes {
		lines = append(lines, a.Property+" "+formatObject(a))
	}
	for _, rel := range r.Relations {
		lines = append(lines, rel.Property+" "+rel.Target)
	}

	w.sb.WriteString(r.IRI)
	w.sb.WriteString("\n")
	for i, line := range lines {
		terminator := " ;"
		if i == len(lines)-1 {
			terminator = " ."
		}
		w.sb.WriteString("  " + line + terminator + "\n")
	}
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	prefixes []dhc.Prefix
	sb       strings.Builder
}

// NewNTriplesWriter creates a writer that expands the given prefixes.
func NewNTriplesWriter(prefixes []dhc.Prefix) *NTriplesWriter {
	return &NTriplesWriter{prefixes: prefixes}
}

// Expand turns a prefixed name into a full IRI. Names with an unknown
// prefix are returned unchanged.
func (w *NTriplesWriter) Expand(name string) string {
	return expand(w.prefixes, name)
}

// WriteTriple writes a single triple. object must already be formatted.
func (w *NTriplesWriter) WriteTriple(subject, predicate, object string) {
	w.sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", subject, predicate, object))
}

// WriteTypeTriple writes a type assertion triple.
func (w *NTriplesWriter) WriteTypeTriple(subject, typeIRI string) {
	w.sb.WriteString(fmt.Sprintf("<%s> <%stype> <%s> .\n", subject, dhc.RDFNamespace, typeIRI))
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

func expand(prefixes []dhc.Prefix, name string) string {
	i := strings.IndexByte(name, ':')
	if i < 0 {
		return name
	}
	for _, p := range prefixes {
		if p.Name == name[:i] {
			return p.IRI + name[i+1:]
		}
	}
	return name
}
