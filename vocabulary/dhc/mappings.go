package dhc

// SlotKind distinguishes containment slots (ordered child chains) from
// reference slots (a single non-containing target).
type SlotKind string

// Slot kinds, also used to tag compiled relations.
const (
	Containment SlotKind = "containment"
	Reference   SlotKind = "reference"
)

// DesignView is the visualization bucket a block type belongs to.
type DesignView string

// Design views.
const (
	ViewSpatial    DesignView = "spatial"
	ViewElectrical DesignView = "electrical"
	ViewShared     DesignView = "shared"
)

// Module describes a regional rule-set extension recognized by a type prefix.
type Module struct {
	// Name is the namespace prefix used in class names (e.g. "nfc15100").
	Name string
	// TypePrefix is the block type prefix owned by the module (e.g. "dhc_nfc15100_").
	TypePrefix string
	// Namespace is the module ontology IRI.
	Namespace string
	// Circuits marks modules whose blocks are circuit subclasses.
	Circuits bool
}

// DefaultModules lists the built-in regional modules in header order.
var DefaultModules = []Module{
	{
		Name:       PrefixNFC14100,
		TypePrefix: ModulePrefixNFC14100,
		Namespace:  ModuleNamespaceBase + PrefixNFC14100 + "#",
	},
	{
		Name:       PrefixNFC15100,
		TypePrefix: ModulePrefixNFC15100,
		Namespace:  ModuleNamespaceBase + PrefixNFC15100 + "#",
		Circuits:   true,
	},
}

// ClassMap maps block types whose class name does not follow the
// snake_case → PascalCase convention.
var ClassMap = map[string]string{
	TypeGTL:                     PrefixNFC15100 + ":GTL",
	TypeNF14EnergyMeter:         PrefixNFC14100 + ":NF14EnergyMeter",
	TypeNF14EmergencyDisconnect: PrefixNFC14100 + ":NF14EmergencyDisconnect",
	"dhc_wifi_ap":               PrefixDHC + ":WiFiAccessPoint",
	"dhc_lan_switch":            PrefixDHC + ":LANSwitch",
}

// RelationPropertyMap maps slot names to object property local names.
var RelationPropertyMap = map[string]string{
	SlotHasArea:              "hasArea",
	SlotHasFloor:             "hasFloor",
	SlotHasSpace:             "hasSpace",
	SlotHasCircuit:           "hasCircuit",
	SlotFeedsEquipment:       "feedsEquipment",
	SlotHasEquipment:         "hasEquipment",
	SlotHasBuildingElement:   "hasBuildingElement",
	SlotHasWiring:            "hasWiring",
	SlotBelongsToZone:        "belongsToZone",
	SlotHasEquipmentType:     "hasEquipmentType",
	SlotHasProtection:        "hasProtection",
	SlotHasCircuitType:       "hasCircuitType",
	SlotConnectedToNetwork:   "connectedToNetwork",
	SlotHasPart:              "hasPart",
	SlotHasDistributionBoard: "hasDistributionBoard",
	SlotFeeds:                "feeds",
}

// ReferenceSlots lists slots that hold a single reference when no block
// catalog says otherwise. Every other slot is containment.
var ReferenceSlots = map[string]bool{
	SlotHasProtection:      true,
	SlotBelongsToZone:      true,
	SlotHasEquipmentType:   true,
	SlotHasCircuitType:     true,
	SlotConnectedToNetwork: true,
	SlotFeeds:              true,
}

// EquipmentTypes lists the core equipment block types.
var EquipmentTypes = []string{
	TypeSocket,
	TypeSwitch,
	TypeLight,
	TypeHeater,
	TypeEquipment,
}

// spatialPatterns and electricalPatterns are matched as substrings of the
// block type, spatial first.
var (
	spatialPatterns    = []string{"floor", "space", "zone", "area", "real_estate"}
	electricalPatterns = []string{"circuit", "distribution", "protection", "wiring", "socket", "switch", "light", "heater"}
)
