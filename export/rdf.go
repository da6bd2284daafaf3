// Package export serializes compiled design records as Turtle triple text,
// N-Triples, JSON-LD and a node/link graph for visualization.
package export

import (
	"fmt"
	"strings"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/abox"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) triple text.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"

	// FormatGraphJSON produces the {nodes, links} visualization graph.
	FormatGraphJSON Format = "graph"
)

// Exporter serializes records using the namespaces and design views of a
// registry.
type Exporter struct {
	reg *dhc.Registry
}

// NewExporter creates an exporter for reg.
func NewExporter(reg *dhc.Registry) *Exporter {
	return &Exporter{reg: reg}
}

// Export serializes records to the specified format.
func (e *Exporter) Export(format Format, records []abox.Record) ([]byte, error) {
	switch format {
	case FormatTurtle:
		return []byte(TripleText(records, e.reg.Prefixes())), nil
	case FormatNTriples:
		return []byte(NTriples(records, e.reg.Prefixes())), nil
	case FormatJSONLD:
		return JSONLD(records, e.reg.Prefixes())
	case FormatGraphJSON:
		return GraphJSON(records, e.reg).Marshal()
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// TripleText renders records as Turtle: one @prefix line per namespace in
// the given order, a blank line, then one block per record. Every line of a
// block but the last ends in " ;" and the last ends in " .".
func TripleText(records []abox.Record, prefixes []dhc.Prefix) string {
	w := NewTurtleWriter(prefixes)
	w.WritePrefixes()
	for _, r := range records {
		w.WriteRecord(r)
	}
	return w.String()
}

// NTriples renders records with every prefixed name expanded to a full IRI.
func NTriples(records []abox.Record, prefixes []dhc.Prefix) string {
	w := NewNTriplesWriter(prefixes)
	for _, r := range records {
		subject := w.Expand(r.IRI)
		w.WriteTypeTriple(subject, w.Expand(r.Class))
		for _, a := range r.Attributes {
			w.WriteTriple(subject, w.Expand(a.Property), formatLiteralNTriples(a))
		}
		for _, rel := range r.Relations {
			w.WriteTriple(subject, w.Expand(rel.Property), "<"+w.Expand(rel.Target)+">")
		}
	}
	return w.String()
}

// formatObject formats an attribute value for Turtle output. Numbers and
// booleans are bare; everything else is a quoted string.
func formatObject(a abox.Attribute) string {
	switch a.Kind {
	case abox.Numeric, abox.Boolean:
		return a.Value
	default:
		return fmt.Sprintf("\"%s\"", escapeString(a.Value))
	}
}

// formatLiteralNTriples formats an attribute value as a typed N-Triples literal.
func formatLiteralNTriples(a abox.Attribute) string {
	switch a.Kind {
	case abox.Numeric:
		return fmt.Sprintf("\"%s\"^^<%s%s>", a.Value, dhc.XSDNamespace, numericDatatype(a.Value))
	case abox.Boolean:
		return fmt.Sprintf("\"%s\"^^<%sboolean>", a.Value, dhc.XSDNamespace)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(a.Value))
	}
}

// numericDatatype picks the narrowest XSD type for a numeric literal.
func numericDatatype(v string) string {
	switch {
	case strings.ContainsAny(v, "eE"):
		return "double"
	case strings.Contains(v, "."):
		return "decimal"
	default:
		return "integer"
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
