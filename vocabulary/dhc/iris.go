package dhc

// Namespace is the base IRI for DigitalHome.Cloud ontology terms.
const Namespace = "https://digitalhome.cloud/ontology#"

// InstanceNamespace is the default base IRI for design instances.
const InstanceNamespace = "https://digitalhome.cloud/instance#"

// ModuleNamespaceBase is the base IRI under which regional module ontologies live.
const ModuleNamespaceBase = "https://digitalhome.cloud/ontology/modules/"

// Namespace prefixes used in triple text output.
const (
	PrefixDHC      = "dhc"
	PrefixInstance = "dhc-instance"
	PrefixRDF      = "rdf"
	PrefixRDFS     = "rdfs"
	PrefixXSD      = "xsd"
	PrefixNFC14100 = "nfc14100"
	PrefixNFC15100 = "nfc15100"
)

// Standard vocabulary IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// LabelProperty is the human-readable label property.
const LabelProperty = PrefixRDFS + ":label"

// TypePrefix marks a block type as managed by the DigitalHome.Cloud ontology.
const TypePrefix = "dhc_"

// Module type prefixes.
const (
	ModulePrefixNFC14100 = "dhc_nfc14100_"
	ModulePrefixNFC15100 = "dhc_nfc15100_"
)

// Block types the rules and the shell generator refer to by name.
const (
	TypeCircuit                  = "dhc_circuit"
	TypeDistributionBoard        = "dhc_distribution_board"
	TypeProtectionDevice         = "dhc_protection_device"
	TypeEnergyDelivery           = "dhc_energy_delivery"
	TypeElectricalTechnicalSpace = "dhc_electrical_technical_space"
	TypeEquipment                = "dhc_equipment"
	TypeSocket                   = "dhc_socket"
	TypeSwitch                   = "dhc_switch"
	TypeLight                    = "dhc_light"
	TypeHeater                   = "dhc_heater"
	TypeFloor                    = "dhc_floor"
	TypeArea                     = "dhc_area"
	TypeSpace                    = "dhc_space"
	TypeZone                     = "dhc_zone"
	TypeWiring                   = "dhc_wiring"

	TypeNF14EnergyMeter         = "dhc_nfc14100_nf14_energy_meter"
	TypeNF14EmergencyDisconnect = "dhc_nfc14100_nf14_emergency_disconnect"
	TypeGTL                     = "dhc_nfc15100_gtl"
)

// Field names.
const (
	FieldLabel         = "LABEL"
	FieldMaxPoints     = "MAX_POINTS"
	FieldRatedCurrent  = "RATED_CURRENT"
	FieldCrossSection  = "CROSS_SECTION"
	FieldCurrentType   = "CURRENT_TYPE"
	FieldBoardType     = "DISTRIBUTION_BOARD_TYPE"
	FieldContractedKVA = "CONTRACTED_POWER_K_V_A"
)

// Slot names.
const (
	SlotHasArea              = "HASAREA"
	SlotHasFloor             = "HASFLOOR"
	SlotHasSpace             = "HASSPACE"
	SlotHasCircuit           = "HASCIRCUIT"
	SlotFeedsEquipment       = "FEEDSEQUIPMENT"
	SlotHasEquipment         = "HASEQUIPMENT"
	SlotHasBuildingElement   = "HASBUILDINGELEMENT"
	SlotHasWiring            = "HASWIRING"
	SlotBelongsToZone        = "BELONGSTOZONE"
	SlotHasEquipmentType     = "HASEQUIPMENTTYPE"
	SlotHasProtection        = "HASPROTECTION"
	SlotHasCircuitType       = "HASCIRCUITTYPE"
	SlotConnectedToNetwork   = "CONNECTEDTONETWORK"
	SlotHasPart              = "HASPART"
	SlotHasDistributionBoard = "HASDISTRIBUTIONBOARD"
	SlotFeeds                = "FEEDS"
)
