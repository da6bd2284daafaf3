package dhc

import (
	"strings"
)

// Prefix is one namespace declaration in triple text output.
type Prefix struct {
	Name string
	IRI  string
}

// Registry holds the type and property lookup tables for one process.
// It is built once by NewRegistry and never modified afterwards.
type Registry struct {
	instanceNamespace string
	modules           []Module
	classes           map[string]string
	relations         map[string]string
	referenceSlots    map[string]bool
	catalog           *Catalog
}

// Option configures a Registry under construction.
type Option func(*Registry)

// WithInstanceNamespace overrides the IRI bound to the dhc-instance prefix.
func WithInstanceNamespace(iri string) Option {
	return func(r *Registry) {
		if iri != "" {
			r.instanceNamespace = iri
		}
	}
}

// WithModule registers a regional module. A module with the same name
// replaces the existing entry in place.
func WithModule(m Module) Option {
	return func(r *Registry) {
		for i, existing := range r.modules {
			if existing.Name == m.Name {
				r.modules[i] = m
				return
			}
		}
		r.modules = append(r.modules, m)
	}
}

// WithClass adds a curated type → class entry.
func WithClass(blockType, class string) Option {
	return func(r *Registry) {
		r.classes[blockType] = class
	}
}

// WithRelation adds a curated slot → object property entry.
func WithRelation(slot, property string) Option {
	return func(r *Registry) {
		r.relations[slot] = property
	}
}

// WithCatalog attaches block definitions loaded from the editor catalog.
// Catalog slot kinds take precedence over ReferenceSlots.
func WithCatalog(c *Catalog) Option {
	return func(r *Registry) {
		r.catalog = c
	}
}

// NewRegistry creates a registry seeded with the package defaults.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		instanceNamespace: InstanceNamespace,
		modules:           append([]Module(nil), DefaultModules...),
		classes:           copyStrings(ClassMap),
		relations:         copyStrings(RelationPropertyMap),
		referenceSlots:    make(map[string]bool, len(ReferenceSlots)),
	}
	for slot, ref := range ReferenceSlots {
		r.referenceSlots[slot] = ref
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// InstanceNamespace returns the IRI bound to the dhc-instance prefix.
func (r *Registry) InstanceNamespace() string {
	return r.instanceNamespace
}

// Modules returns the registered modules in header order.
func (r *Registry) Modules() []Module {
	return append([]Module(nil), r.modules...)
}

// Catalog returns the attached block catalog, or nil.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Prefixes returns the namespace declarations in their fixed output order.
func (r *Registry) Prefixes() []Prefix {
	prefixes := []Prefix{
		{Name: PrefixDHC, IRI: Namespace},
		{Name: PrefixInstance, IRI: r.instanceNamespace},
		{Name: PrefixRDF, IRI: RDFNamespace},
		{Name: PrefixRDFS, IRI: RDFSNamespace},
		{Name: PrefixXSD, IRI: XSDNamespace},
	}
	for _, m := range r.modules {
		prefixes = append(prefixes, Prefix{Name: m.Name, IRI: m.Namespace})
	}
	return prefixes
}

// IsManaged reports whether a block type belongs to the recognized namespace.
func (r *Registry) IsManaged(blockType string) bool {
	return strings.HasPrefix(blockType, TypePrefix)
}

// ModuleOf returns the module owning a block type.
func (r *Registry) ModuleOf(blockType string) (Module, bool) {
	for _, m := range r.modules {
		if strings.HasPrefix(blockType, m.TypePrefix) {
			return m, true
		}
	}
	return Module{}, false
}

// InModule reports whether a block type belongs to the named module.
func (r *Registry) InModule(blockType, module string) bool {
	m, ok := r.ModuleOf(blockType)
	return ok && m.Name == module
}

// CuratedClass looks up a block type in the curated class table.
func (r *Registry) CuratedClass(blockType string) (string, bool) {
	class, ok := r.classes[blockType]
	return class, ok
}

// RelationProperty looks up a slot name in the curated relation table.
func (r *Registry) RelationProperty(slot string) (string, bool) {
	prop, ok := r.relations[slot]
	return prop, ok
}

// SlotKind returns whether a slot on a block type is containment or reference.
func (r *Registry) SlotKind(blockType, slot string) SlotKind {
	if r.catalog != nil {
		if kind, ok := r.catalog.SlotKind(blockType, slot); ok {
			return kind
		}
	}
	if r.referenceSlots[slot] {
		return Reference
	}
	return Containment
}

// IsCircuit reports whether a block type is a circuit: the core circuit
// type or any type under a circuit-bearing module prefix.
func (r *Registry) IsCircuit(blockType string) bool {
	return blockType == TypeCircuit || r.IsModuleCircuit(blockType)
}

// IsModuleCircuit reports whether a block type is a module circuit subclass.
func (r *Registry) IsModuleCircuit(blockType string) bool {
	m, ok := r.ModuleOf(blockType)
	return ok && m.Circuits
}

// IsEquipment reports whether a block type is core equipment.
func (r *Registry) IsEquipment(blockType string) bool {
	for _, t := range EquipmentTypes {
		if t == blockType {
			return true
		}
	}
	return false
}

// IsElectricalTechnicalSpace reports whether a block type is an electrical
// technical space, including the module GTL variants.
func (r *Registry) IsElectricalTechnicalSpace(blockType string) bool {
	return blockType == TypeElectricalTechnicalSpace || strings.HasPrefix(blockType, TypeGTL)
}

// DesignView classifies a block type for visualization. Module types are
// always electrical.
func (r *Registry) DesignView(blockType string) DesignView {
	if _, ok := r.ModuleOf(blockType); ok {
		return ViewElectrical
	}
	for _, p := range spatialPatterns {
		if strings.Contains(blockType, p) {
			return ViewSpatial
		}
	}
	for _, p := range electricalPatterns {
		if strings.Contains(blockType, p) {
			return ViewElectrical
		}
	}
	return ViewShared
}
