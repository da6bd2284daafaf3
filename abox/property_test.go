package abox

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	dt "github.com/DigitalHome-cloud/digitalhome-cloud-designer/design/designtest"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// buildFloor creates a floor holding one space per label, each space
// feeding one socket.
func buildFloor(labels []string) *design.Tree {
	spaces := make([]*design.Node, len(labels))
	for i, label := range labels {
		socket := dt.Block(dhc.TypeSocket, fmt.Sprintf("socket-%d", i))
		spaces[i] = dt.Block(dhc.TypeSpace, fmt.Sprintf("space-%d", i),
			dt.Label(label),
			dt.Children(dhc.SlotHasEquipment, socket),
		)
	}
	return design.NewTree(dt.Block(dhc.TypeFloor, "floor", dt.Children(dhc.SlotHasSpace, spaces...)))
}

func TestCompilerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	reg := dhc.NewRegistry()
	compiler := NewCompiler(reg)

	properties.Property("compiling twice yields identical records", prop.ForAll(
		func(labels []string) bool {
			tree := buildFloor(labels)
			first, err := compiler.Compile(context.Background(), tree, rootID)
			if err != nil {
				return false
			}
			second, err := compiler.Compile(context.Background(), tree, rootID)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(first, second)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("IRIs are unique within one compile", prop.ForAll(
		func(labels []string) bool {
			records, err := compiler.Compile(context.Background(), buildFloor(labels), rootID)
			if err != nil || len(records) != 1+2*len(labels) {
				return false
			}
			seen := make(map[string]bool, len(records))
			for _, r := range records {
				if seen[r.IRI] {
					return false
				}
				seen[r.IRI] = true
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("unknown slots lower only the first character", prop.ForAll(
		func(slot string) bool {
			if _, curated := reg.RelationProperty(slot); curated {
				return true
			}
			got := compiler.Resolver().RelationPropertyOf(slot)
			return got == "dhc:"+strings.ToLower(slot[:1])+slot[1:]
		},
		gen.RegexMatch(`^[A-Z][A-Z]{2,15}$`),
	))

	properties.Property("managed types always resolve to a prefixed PascalCase class", prop.ForAll(
		func(local string) bool {
			class, ok := compiler.Resolver().ClassOf(dhc.TypePrefix + local)
			if !ok {
				return false
			}
			name := LocalName(class)
			return strings.Contains(class, ":") && name != "" && strings.ToUpper(name[:1]) == name[:1]
		},
		gen.RegexMatch(`^[a-z]{1,8}(_[a-z]{1,8}){0,3}$`),
	))

	properties.TestingRun(t)
}
