package csvresponse

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeRows decodes a JSON or YAML document whose top level is an array into
// rows suitable for Build. Objects become Records that keep the document's key
// order, arrays become []any and scalars keep their natural Go type. An empty
// document yields no rows.
func DecodeRows(data []byte) ([]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return nil, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: top-level value must be an array, got %s", ErrUnsupportedInput, nodeKindName(root.Kind))
	}

	rows := make([]any, 0, len(root.Content))
	for i, n := range root.Content {
		v, err := nodeValue(n)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrUnsupportedInput, i, err)
		}
		rows = append(rows, v)
	}
	return rows, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		rec := make(Record, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			rec = append(rec, Field{Name: n.Content[i].Value, Value: v})
		}
		return rec, nil
	case yaml.SequenceNode:
		values := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return nodeValue(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unexpected %s", n.Line, nodeKindName(n.Kind))
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "empty value"
}
