// Package dhc provides the DigitalHome.Cloud design vocabulary: namespaces,
// block type and slot names, and the curated tables used to lower a block
// graph into ontology individuals.
//
// # Naming Convention
//
// Block types are namespaced strings. Managed types start with "dhc_"; types
// owned by a regional module carry an extra module segment:
//
//	Block Type                              → Class
//	dhc_circuit                             → dhc:Circuit
//	dhc_distribution_board                  → dhc:DistributionBoard
//	dhc_nfc15100_lighting_circuit           → nfc15100:LightingCircuit
//	dhc_nfc14100_nf14_energy_meter          → nfc14100:NF14EnergyMeter (curated)
//	controls_if                             → (unmanaged, excluded)
//
// Field names are UPPER_SNAKE_CASE and map to camelCase datatype properties
// under the dhc namespace, except LABEL which maps to rdfs:label. Slot names
// map to object properties through RelationPropertyMap.
//
// # Registry
//
// The curated tables are package-level defaults. Consumers never read them
// directly; they receive a *Registry built once at startup:
//
//	reg := dhc.NewRegistry(dhc.WithCatalog(catalog))
//	compiler := abox.NewCompiler(reg, logger)
//	engine := validation.NewEngine(reg, logger)
//
// A Registry is read-only after construction and safe for concurrent use.
package dhc
