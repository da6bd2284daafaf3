package design

import (
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// defaultMaxPoints applies when a circuit has no usable MAX_POINTS value.
const defaultMaxPoints = 8

// Block is the capability set shared by every node variant.
type Block interface {
	ID() string
	Type() string
	Label() string
	Fields() []Field
	Field(name string) (string, bool)
	Slots() []Input
	Children(slot string) ([]*Node, error)
	Reference(slot string) *Node
	Node() *Node
}

type base struct {
	n *Node
}

func (b base) ID() string                       { return b.n.ID }
func (b base) Type() string                     { return b.n.Type }
func (b base) Label() string                    { return b.n.Label() }
func (b base) Fields() []Field                  { return b.n.Fields }
func (b base) Field(name string) (string, bool) { return b.n.Field(name) }
func (b base) Slots() []Input                   { return b.n.Inputs }
func (b base) Node() *Node                      { return b.n }

// Children returns the chain held by a slot, or nil if the block has no
// such slot. A reference slot yields its single target.
func (b base) Children(slot string) ([]*Node, error) {
	in, ok := b.n.Input(slot)
	if !ok || in.Block == nil {
		return nil, nil
	}
	return Chain(in.Block)
}

// Reference returns the block attached to a slot, or nil.
func (b base) Reference(slot string) *Node {
	in, ok := b.n.Input(slot)
	if !ok {
		return nil
	}
	return in.Block
}

// number reads a field as a number, defaulting to zero.
func (b base) number(name string) float64 {
	v, _ := b.n.Field(name)
	f, _ := ParseNumber(v)
	return f
}

// Generic is the fallback variant for blocks with no specialised accessors.
type Generic struct{ base }

// Equipment is a load point fed by a circuit.
type Equipment struct{ base }

// ProtectionDevice is a breaker attached to a circuit.
type ProtectionDevice struct{ base }

// RatedCurrent returns the device rating in amperes, zero when unset.
func (p ProtectionDevice) RatedCurrent() float64 {
	return p.number(dhc.FieldRatedCurrent)
}

// WiringSegment is one conductor run of a circuit.
type WiringSegment struct{ base }

// CrossSection returns the conductor cross-section in mm², zero when unset.
func (w WiringSegment) CrossSection() float64 {
	return w.number(dhc.FieldCrossSection)
}

// Circuit is a core circuit or a module circuit subclass.
type Circuit struct {
	base
	module bool
}

// IsModule reports whether the circuit belongs to a regional module namespace.
func (c Circuit) IsModule() bool {
	return c.module
}

// MaxPoints returns the configured point limit, or 8 when MAX_POINTS is
// unset, zero or not a number.
func (c Circuit) MaxPoints() float64 {
	if v := c.number(dhc.FieldMaxPoints); v != 0 {
		return v
	}
	return defaultMaxPoints
}

// Equipment returns the feeds-equipment chain.
func (c Circuit) Equipment() ([]*Node, error) {
	return c.Children(dhc.SlotFeedsEquipment)
}

// Protection returns the attached protection device.
func (c Circuit) Protection() (ProtectionDevice, bool) {
	n := c.Reference(dhc.SlotHasProtection)
	if n == nil {
		return ProtectionDevice{}, false
	}
	return ProtectionDevice{base{n}}, true
}

// Wiring returns the has-wiring chain as wiring segments.
func (c Circuit) Wiring() ([]WiringSegment, error) {
	nodes, err := c.Children(dhc.SlotHasWiring)
	if err != nil {
		return nil, err
	}
	out := make([]WiringSegment, len(nodes))
	for i, n := range nodes {
		out[i] = WiringSegment{base{n}}
	}
	return out, nil
}

// MandatedRating returns the RATED_CURRENT a module circuit carries itself.
func (c Circuit) MandatedRating() (float64, bool) {
	v, _ := c.Field(dhc.FieldRatedCurrent)
	return ParseNumber(v)
}

// MandatedCrossSection returns the CROSS_SECTION a module circuit carries itself.
func (c Circuit) MandatedCrossSection() (float64, bool) {
	v, _ := c.Field(dhc.FieldCrossSection)
	return ParseNumber(v)
}

// Wrap returns the variant matching a node's type.
func Wrap(n *Node, reg *dhc.Registry) Block {
	switch {
	case reg.IsCircuit(n.Type):
		return Circuit{base: base{n}, module: reg.IsModuleCircuit(n.Type)}
	case n.Type == dhc.TypeProtectionDevice:
		return ProtectionDevice{base{n}}
	case reg.IsEquipment(n.Type):
		return Equipment{base{n}}
	case n.Type == dhc.TypeWiring:
		return WiringSegment{base{n}}
	default:
		return Generic{base{n}}
	}
}

// Circuits returns every circuit among nodes, in order.
func Circuits(nodes []*Node, reg *dhc.Registry) []Circuit {
	var out []Circuit
	for _, n := range nodes {
		if c, ok := Wrap(n, reg).(Circuit); ok {
			out = append(out, c)
		}
	}
	return out
}
