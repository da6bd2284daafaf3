// Package designtest builds design trees for tests.
package designtest

import (
	"strconv"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Option configures a node under construction.
type Option func(*design.Node)

// Block creates a node with the given type and id.
func Block(blockType, id string, opts ...Option) *design.Node {
	n := &design.Node{ID: id, Type: blockType}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Field appends a field.
func Field(name, value string) Option {
	return func(n *design.Node) {
		n.Fields = append(n.Fields, design.Field{Name: name, Value: value})
	}
}

// Label appends a LABEL field.
func Label(value string) Option {
	return Field(dhc.FieldLabel, value)
}

// Children appends a containment slot holding children linked in order.
func Children(slot string, children ...*design.Node) Option {
	return func(n *design.Node) {
		n.Inputs = append(n.Inputs, design.Input{Name: slot, Kind: dhc.Containment, Block: link(children)})
	}
}

// Ref appends a reference slot holding target, which may be nil.
func Ref(slot string, target *design.Node) Option {
	return func(n *design.Node) {
		n.Inputs = append(n.Inputs, design.Input{Name: slot, Kind: dhc.Reference, Block: target})
	}
}

func link(nodes []*design.Node) *design.Node {
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].Next = nodes[i+1]
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Equipment returns count blocks of one type with ids prefix-1..prefix-count.
func Equipment(blockType, prefix string, count int) []*design.Node {
	out := make([]*design.Node, count)
	for i := range out {
		out[i] = Block(blockType, prefix+"-"+strconv.Itoa(i+1))
	}
	return out
}

