package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/abox"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Graph is the {nodes, links} visualization of a compiled design.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// GraphNode is one individual in the visualization graph.
type GraphNode struct {
	ID         string         `json:"id"`
	NodeID     string         `json:"nodeId"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	DesignView dhc.DesignView `json:"designView"`
	Properties Properties     `json:"properties"`
}

// GraphLink is one relation between two individuals.
type GraphLink struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Label  string       `json:"label"`
	Type   dhc.SlotKind `json:"type"`
}

// GraphJSON builds the visualization graph for records. Links carry the
// relation property without its namespace prefix.
func GraphJSON(records []abox.Record, reg *dhc.Registry) Graph {
	g := Graph{
		Nodes: make([]GraphNode, 0, len(records)),
		Links: []GraphLink{},
	}
	for _, r := range records {
		g.Nodes = append(g.Nodes, GraphNode{
			ID:         r.IRI,
			NodeID:     r.NodeID,
			Type:       r.Class,
			Label:      r.Label(),
			DesignView: reg.DesignView(r.Type),
			Properties: Properties(r.Fields),
		})
		for _, rel := range r.Relations {
			g.Links = append(g.Links, GraphLink{
				Source: r.IRI,
				Target: rel.Target,
				Label:  abox.LocalName(rel.Property),
				Type:   rel.Kind,
			})
		}
	}
	return g
}

// Marshal encodes the graph as indented JSON.
func (g Graph) Marshal() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Properties are raw field values, encoded as a JSON object in field order.
type Properties []design.Field

// Get returns the value of the named property.
func (p Properties) Get(name string) (string, bool) {
	for _, f := range p {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON implements custom JSON marshaling that keeps field order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a properties object, keeping key order. Non-string
// values keep their JSON text.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	var out Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("properties: value of %q: %w", key, err)
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
		out = append(out, design.Field{Name: key, Value: s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}
