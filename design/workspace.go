package design

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// SlotKinds resolves whether a slot on a block type is containment or reference.
// *dhc.Registry implements it.
type SlotKinds interface {
	SlotKind(blockType, slot string) dhc.SlotKind
}

// Layout of top-level blocks written by EncodeWorkspace.
const (
	layoutX     = 50
	layoutStart = 50
	layoutStep  = 200
)

type workspaceDoc struct {
	Blocks struct {
		LanguageVersion int        `json:"languageVersion"`
		Blocks          []rawBlock `json:"blocks"`
	} `json:"blocks"`
}

type rawBlock struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	X      *float64       `json:"x,omitempty"`
	Y      *float64       `json:"y,omitempty"`
	Fields orderedObject  `json:"fields,omitempty"`
	Inputs orderedObject  `json:"inputs,omitempty"`
	Next   *rawConnection `json:"next,omitempty"`
}

type rawConnection struct {
	Block  *rawBlock `json:"block,omitempty"`
	Shadow *rawBlock `json:"shadow,omitempty"`
}

type member struct {
	Key   string
	Value json.RawMessage
}

// orderedObject is a JSON object decoded with its key order preserved.
type orderedObject []member

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	var out orderedObject
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		out = append(out, member{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeWorkspace reads a Blockly workspace document into a tree. Field and
// slot order follow the document; shadow blocks are ignored.
func DecodeWorkspace(data []byte, kinds SlotKinds) (*Tree, error) {
	var doc workspaceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode workspace: %w", err)
	}

	d := &decoder{kinds: kinds, ids: make(map[string]bool)}
	tree := &Tree{}
	for i := range doc.Blocks.Blocks {
		n, err := d.block(&doc.Blocks.Blocks[i])
		if err != nil {
			return nil, err
		}
		tree.Roots = append(tree.Roots, n)
	}
	return tree, nil
}

type decoder struct {
	kinds SlotKinds
	ids   map[string]bool
}

func (d *decoder) block(raw *rawBlock) (*Node, error) {
	if raw.Type == "" {
		return nil, errors.New("decode workspace: block without type")
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("decode workspace: %s block without id", raw.Type)
	}
	if d.ids[raw.ID] {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, raw.ID)
	}
	d.ids[raw.ID] = true

	n := &Node{ID: raw.ID, Type: raw.Type}
	for _, f := range raw.Fields {
		value, err := fieldValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("block %s field %s: %w", raw.ID, f.Key, err)
		}
		n.Fields = append(n.Fields, Field{Name: f.Key, Value: value})
	}

	for _, in := range raw.Inputs {
		var conn rawConnection
		if err := json.Unmarshal(in.Value, &conn); err != nil {
			return nil, fmt.Errorf("block %s input %s: %w", raw.ID, in.Key, err)
		}
		input := Input{Name: in.Key, Kind: d.kinds.SlotKind(raw.Type, in.Key)}
		if conn.Block != nil {
			child, err := d.block(conn.Block)
			if err != nil {
				return nil, err
			}
			input.Block = child
		}
		n.Inputs = append(n.Inputs, input)
	}

	if raw.Next != nil && raw.Next.Block != nil {
		next, err := d.block(raw.Next.Block)
		if err != nil {
			return nil, err
		}
		n.Next = next
	}
	return n, nil
}

// fieldValue converts a serialized field value to its string form.
// Numbers keep their literal text and booleans become TRUE/FALSE.
func fieldValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't':
		return "TRUE", nil
	case 'f':
		return "FALSE", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(trimmed), nil
	}
}

// EncodeWorkspace writes a tree in the Blockly workspace format. Top-level
// blocks are stacked vertically; numeric field values are written as JSON
// numbers.
func EncodeWorkspace(tree *Tree) ([]byte, error) {
	var doc workspaceDoc
	seen := make(Visited)
	for i, root := range tree.Roots {
		raw, err := encodeBlock(root, seen)
		if err != nil {
			return nil, err
		}
		x, y := float64(layoutX), float64(layoutStart+i*layoutStep)
		raw.X, raw.Y = &x, &y
		doc.Blocks.Blocks = append(doc.Blocks.Blocks, *raw)
	}
	if doc.Blocks.Blocks == nil {
		doc.Blocks.Blocks = []rawBlock{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeBlock(n *Node, seen Visited) (*rawBlock, error) {
	if err := seen.Enter(n); err != nil {
		return nil, err
	}
	raw := &rawBlock{Type: n.Type, ID: n.ID}

	for _, f := range n.Fields {
		value, err := encodeFieldValue(f.Value)
		if err != nil {
			return nil, err
		}
		raw.Fields = append(raw.Fields, member{Key: f.Name, Value: value})
	}

	for _, in := range n.Inputs {
		conn := rawConnection{}
		if in.Block != nil {
			child, err := encodeBlock(in.Block, seen)
			if err != nil {
				return nil, err
			}
			conn.Block = child
		}
		value, err := json.Marshal(conn)
		if err != nil {
			return nil, err
		}
		raw.Inputs = append(raw.Inputs, member{Key: in.Name, Value: value})
	}

	if n.Next != nil {
		next, err := encodeBlock(n.Next, seen)
		if err != nil {
			return nil, err
		}
		raw.Next = &rawConnection{Block: next}
	}
	return raw, nil
}

func encodeFieldValue(v string) (json.RawMessage, error) {
	if _, ok := ParseNumber(v); ok && json.Valid([]byte(v)) {
		return json.RawMessage(v), nil
	}
	return json.Marshal(v)
}
