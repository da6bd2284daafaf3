// Package abox lowers a design tree into ontology individuals.
//
// A Resolver names classes and properties for block types, fields and
// slots. A Compiler walks the tree depth-first and emits one Record per
// managed block:
//
//	reg := dhc.NewRegistry()
//	c := abox.NewCompiler(reg)
//	records, err := c.Compile(ctx, tree, "FR-75001-ABC12-01")
//
// Blocks whose type lies outside the dhc_ namespace are skipped together
// with everything below them. IRIs have the form
//
//	dhc-instance:<rootID>/<blockType>/<blockID>
//
// and are stable for as long as block ids are.
package abox
