// Package design holds the in-memory block graph of a building design and
// the guarded walks the compiler and the rules share.
package design

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Field is one named scalar value on a block, in declaration order.
type Field struct {
	Name  string
	Value string
}

// Input is one named slot on a block. Block is the head of the slot's
// sibling chain for containment slots, or the single target for reference
// slots. A nil Block means the slot is empty.
type Input struct {
	Name  string
	Kind  dhc.SlotKind
	Block *Node
}

// Node is one design element. Nodes are owned by the editor and read-only
// to everything in this module.
type Node struct {
	ID     string
	Type   string
	Fields []Field
	Inputs []Input
	// Next is the following sibling within the parent's containment slot.
	Next *Node
}

// Field returns the value of the named field.
func (n *Node) Field(name string) (string, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Input returns the named slot.
func (n *Node) Input(name string) (Input, bool) {
	for _, in := range n.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Label returns the LABEL field, or "unnamed" when it is empty.
func (n *Node) Label() string {
	if v, ok := n.Field(dhc.FieldLabel); ok && v != "" {
		return v
	}
	return "unnamed"
}

// numberLiteral matches plain decimal and exponent notation. Hex floats,
// digit separators and a bare trailing dot are not numbers here.
var numberLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// ParseNumber parses a field value as a finite number written in decimal
// or exponent notation. Surrounding whitespace is ignored; empty values
// are not numbers.
func ParseNumber(v string) (float64, bool) {
	s := strings.TrimSpace(v)
	if !numberLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsBoolean reports whether a field value is a boolean literal as the
// editor stores them. Lower-case text stays a string.
func IsBoolean(v string) bool {
	return v == "TRUE" || v == "FALSE"
}

// FormatNumber renders a number without a trailing ".0".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
