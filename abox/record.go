package abox

import (
	"strings"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// ValueKind is the literal type of an attribute value.
type ValueKind string

// Value kinds.
const (
	Numeric ValueKind = "numeric"
	Boolean ValueKind = "boolean"
	String  ValueKind = "string"
)

// Attribute is one datatype property value of an individual. Numeric
// values hold the trimmed literal text and boolean values are lower-case.
type Attribute struct {
	Property string
	Value    string
	Kind     ValueKind
}

// Relation is one object property edge to another individual.
type Relation struct {
	Property string
	Target   string
	Kind     dhc.SlotKind
}

// Record is the individual compiled from one block.
type Record struct {
	IRI        string
	NodeID     string
	Type       string
	Class      string
	Attributes []Attribute
	Relations  []Relation
	// Fields are the block's raw field values, including empty ones.
	Fields []design.Field
}

// Label returns the LABEL field, or the class name without its prefix.
func (r Record) Label() string {
	for _, f := range r.Fields {
		if f.Name == dhc.FieldLabel && f.Value != "" {
			return f.Value
		}
	}
	return LocalName(r.Class)
}

// classify types a non-empty field value.
func classify(v string) (string, ValueKind) {
	if _, ok := design.ParseNumber(v); ok {
		return strings.TrimSpace(v), Numeric
	}
	if design.IsBoolean(v) {
		return strings.ToLower(v), Boolean
	}
	return v, String
}
