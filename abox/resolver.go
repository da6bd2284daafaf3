package abox

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Resolver maps block types, field names and slot names to ontology terms.
type Resolver struct {
	reg *dhc.Registry
}

// NewResolver creates a resolver backed by reg.
func NewResolver(reg *dhc.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// ClassOf returns the prefixed class name for a block type. It returns
// false for types outside the recognized namespace.
func (r *Resolver) ClassOf(blockType string) (string, bool) {
	if !r.reg.IsManaged(blockType) {
		return "", false
	}
	if class, ok := r.reg.CuratedClass(blockType); ok {
		return class, true
	}
	if m, ok := r.reg.ModuleOf(blockType); ok {
		return m.Name + ":" + pascalCase(strings.TrimPrefix(blockType, m.TypePrefix)), true
	}
	return dhc.PrefixDHC + ":" + pascalCase(strings.TrimPrefix(blockType, dhc.TypePrefix)), true
}

// PropertyOf returns the datatype property for a field name.
func (r *Resolver) PropertyOf(field string) string {
	if field == dhc.FieldLabel {
		return dhc.LabelProperty
	}
	return dhc.PrefixDHC + ":" + camelCase(field)
}

// RelationPropertyOf returns the object property for a slot name. Slots
// missing from the curated table only get their first character lowered.
func (r *Resolver) RelationPropertyOf(slot string) string {
	if prop, ok := r.reg.RelationProperty(slot); ok {
		return dhc.PrefixDHC + ":" + prop
	}
	return dhc.PrefixDHC + ":" + lowerFirst(slot)
}

// IRI returns the instance IRI of a block within one design.
func (r *Resolver) IRI(rootID, blockType, nodeID string) string {
	return dhc.PrefixInstance + ":" + rootID + "/" + blockType + "/" + nodeID
}

// LocalName strips the namespace prefix from a prefixed name.
func LocalName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// pascalCase turns snake_case into PascalCase, upper-casing the first
// character of every part and keeping the rest.
func pascalCase(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		b.WriteString(upperFirst(part))
	}
	return b.String()
}

// camelCase turns UPPER_SNAKE_CASE into camelCase.
func camelCase(s string) string {
	parts := strings.Split(strings.ToLower(s), "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		b.WriteString(upperFirst(part))
	}
	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
