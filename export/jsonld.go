package export

import (
	"encoding/json"
	"strconv"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/abox"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLD renders records as a compact JSON-LD document using the prefixes
// as its context. Properties with several values become arrays.
func JSONLD(records []abox.Record, prefixes []dhc.Prefix) ([]byte, error) {
	doc := JSONLDDocument{
		Context: make(map[string]any, len(prefixes)),
		Graph:   make([]JSONLDNode, 0, len(records)),
	}
	for _, p := range prefixes {
		doc.Context[p.Name] = p.IRI
	}

	for _, r := range records {
		node := JSONLDNode{
			ID:         r.IRI,
			Type:       []string{r.Class},
			Properties: make(map[string]any),
		}
		for _, a := range r.Attributes {
			addValue(node.Properties, a.Property, jsonLDLiteral(a))
		}
		for _, rel := range r.Relations {
			addValue(node.Properties, rel.Property, map[string]string{"@id": rel.Target})
		}
		doc.Graph = append(doc.Graph, node)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func addValue(props map[string]any, key string, v any) {
	existing, ok := props[key]
	if !ok {
		props[key] = v
		return
	}
	if list, ok := existing.([]any); ok {
		props[key] = append(list, v)
		return
	}
	props[key] = []any{existing, v}
}

func jsonLDLiteral(a abox.Attribute) any {
	switch a.Kind {
	case abox.Numeric:
		if json.Valid([]byte(a.Value)) {
			return json.Number(a.Value)
		}
		if f, err := strconv.ParseFloat(a.Value, 64); err == nil {
			return f
		}
		return a.Value
	case abox.Boolean:
		return a.Value == "true"
	default:
		return a.Value
	}
}
