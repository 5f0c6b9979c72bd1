package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeProgram parses a JSON-encoded IR program — the `.ir.json` format the
// `run` CLI's file-load path reads (SPEC_FULL.md §10/§11) — into the
// top-level statement list EvalProgram expects. The format is a JSON array
// of statement nodes; each node is itself a JSON array whose first element
// is the tag name and whose remaining elements are operands, recursively
// either nested node arrays or JSON leaf values (string/number/bool/null).
// An array that is empty or starts with a nested array is an untagged list
// (such as a call's argument list): every element is an operand.
//
// Example: `[["let", ["d", ["symbol", "x"], ["number", 1]]], ["expr-stmt", ["symbol", "x"]]]`.
func DecodeProgram(data []byte) ([]*Cell, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ir: decode json program: %w", err)
	}
	stmts := make([]*Cell, 0, len(raw))
	for i, node := range raw {
		c, err := nodeFromJSON(node)
		if err != nil {
			return nil, fmt.Errorf("ir: statement %d: %w", i, err)
		}
		stmts = append(stmts, c)
	}
	return stmts, nil
}

// DecodeNode parses a single JSON-encoded node, the shape used when a tool
// wants one expression cell rather than a full statement list (e.g.
// round-tripping a single `--dump-ir` node in a test).
func DecodeNode(data []byte) (*Cell, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ir: decode json node: %w", err)
	}
	return nodeFromJSON(raw)
}

func nodeFromJSON(v any) (*Cell, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a [tag, ...operands] array, got %T", v)
	}
	var head any
	operands := arr
	tagName := ""
	if len(arr) > 0 {
		if _, nested := arr[0].([]any); !nested {
			name, ok := arr[0].(string)
			if !ok {
				return nil, fmt.Errorf("node tag must be a string, got %T", arr[0])
			}
			tagName, head, operands = name, Intern(name), arr[1:]
		}
	}
	var rest *Cell
	for i := len(operands) - 1; i >= 0; i-- {
		op, err := operandFromJSON(operands[i])
		if err != nil {
			return nil, fmt.Errorf("operand %d of %q: %w", i, tagName, err)
		}
		rest = Cons(op, rest)
	}
	return Cons(head, rest), nil
}

// operandFromJSON decodes one operand position: a nested node array becomes
// a *Cell (stored directly as a cons Head, the same shape cellHead unwraps),
// anything else is kept as the raw leaf value.
func operandFromJSON(v any) (any, error) {
	switch vv := v.(type) {
	case []any:
		return nodeFromJSON(vv)
	case json.Number:
		f, err := vv.Float64()
		if err != nil {
			return nil, fmt.Errorf("leaf number %q: %w", vv.String(), err)
		}
		return f, nil
	case string, bool, nil:
		return vv, nil
	default:
		return nil, fmt.Errorf("unsupported leaf type %T", v)
	}
}

// EncodeProgram serializes a statement list back to the JSON node format
// DecodeProgram reads, used by `run --dump-ir` to print the IR a program was
// loaded into (or, for an inline `-e` expression, the tree it was parsed
// into before evaluation).
func EncodeProgram(stmts []*Cell) ([]byte, error) {
	nodes := make([]any, len(stmts))
	for i, s := range stmts {
		nodes[i] = nodeToJSON(s)
	}
	return json.MarshalIndent(nodes, "", "  ")
}

func nodeToJSON(c *Cell) any {
	if c == nil {
		return nil
	}
	if tag := c.Tag(); tag != nil {
		arr := make([]any, 0, c.Len()+1)
		arr = append(arr, tag.String())
		cur := c.Rest
		for cur != nil {
			arr = append(arr, operandToJSON(cur.Head))
			cur = cur.Rest
		}
		return arr
	}
	if c.Head == nil {
		arr := make([]any, 0, c.Len())
		for cur := c.Rest; cur != nil; cur = cur.Rest {
			arr = append(arr, operandToJSON(cur.Head))
		}
		return arr
	}
	return c.Head
}

func operandToJSON(head any) any {
	if inner, ok := head.(*Cell); ok {
		return nodeToJSON(inner)
	}
	return head
}
