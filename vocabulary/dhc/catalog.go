package dhc

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Blockly argument types that declare slots.
const (
	argInputStatement = "input_statement"
	argInputValue     = "input_value"
)

// SlotDef is one slot declared by a block definition.
type SlotDef struct {
	Name string
	Kind SlotKind
}

// BlockDef is the part of an editor block definition the core consumes.
type BlockDef struct {
	Type   string
	Fields []string
	Slots  []SlotDef
}

// Catalog is the set of block definitions registered by the editor.
type Catalog struct {
	defs  map[string]*BlockDef
	order []string
}

type blockArg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// LoadCatalog parses a Blockly block definition array (blockly-blocks.json).
// Definitions without a type are skipped; a later definition for the same
// type is ignored, matching first-registration-wins in the editor.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var raw []map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode block definitions: %w", err)
	}

	c := &Catalog{defs: make(map[string]*BlockDef, len(raw))}
	for i, obj := range raw {
		var blockType string
		if t, ok := obj["type"]; ok {
			if err := json.Unmarshal(t, &blockType); err != nil {
				return nil, fmt.Errorf("block definition %d: type: %w", i, err)
			}
		}
		if blockType == "" {
			continue
		}
		if _, exists := c.defs[blockType]; exists {
			continue
		}

		def := &BlockDef{Type: blockType}
		for _, key := range argKeys(obj) {
			var args []blockArg
			if err := json.Unmarshal(obj[key], &args); err != nil {
				return nil, fmt.Errorf("block %s: %s: %w", blockType, key, err)
			}
			for _, arg := range args {
				if arg.Name == "" {
					continue
				}
				switch {
				case arg.Type == argInputStatement:
					def.Slots = append(def.Slots, SlotDef{Name: arg.Name, Kind: Containment})
				case arg.Type == argInputValue:
					def.Slots = append(def.Slots, SlotDef{Name: arg.Name, Kind: Reference})
				case strings.HasPrefix(arg.Type, "field_"):
					def.Fields = append(def.Fields, arg.Name)
				}
			}
		}
		c.defs[blockType] = def
		c.order = append(c.order, blockType)
	}
	return c, nil
}

// argKeys returns the argsN keys of a definition in numeric order.
func argKeys(obj map[string]json.RawMessage) []string {
	type indexed struct {
		key string
		n   int
	}
	var keys []indexed
	for k := range obj {
		if !strings.HasPrefix(k, "args") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(k, "args"))
		if err != nil {
			continue
		}
		keys = append(keys, indexed{key: k, n: n})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].n < keys[j].n })

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.key
	}
	return out
}

// Types returns the registered block types in definition order.
func (c *Catalog) Types() []string {
	return append([]string(nil), c.order...)
}

// Lookup returns the definition for a block type.
func (c *Catalog) Lookup(blockType string) (*BlockDef, bool) {
	def, ok := c.defs[blockType]
	return def, ok
}

// SlotKind returns the declared kind of a slot on a block type.
func (c *Catalog) SlotKind(blockType, slot string) (SlotKind, bool) {
	def, ok := c.defs[blockType]
	if !ok {
		return "", false
	}
	for _, s := range def.Slots {
		if s.Name == slot {
			return s.Kind, true
		}
	}
	return "", false
}
