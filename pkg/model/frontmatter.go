package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes front matter. A keywords list is joined with ","
// into one keywords string, the same text the list renders as in a template.
func (f *Frontmatter) UnmarshalYAML(node *yaml.Node) error {
	type plain Frontmatter
	if node.Kind == yaml.MappingNode {
		joined, err := joinKeywordsList(node)
		if err != nil {
			return err
		}
		node = joined
	}
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*f = Frontmatter(out)
	return nil
}

// joinKeywordsList returns node with a sequence-valued keywords entry
// replaced by its joined scalar. node itself is not modified.
func joinKeywordsList(node *yaml.Node) (*yaml.Node, error) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value != "keywords" || value.Kind != yaml.SequenceNode {
			continue
		}
		text, err := joinSequence(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: keywords: %w", value.Line, err)
		}
		copied := *node
		copied.Content = append([]*yaml.Node(nil), node.Content...)
		copied.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: text, Line: value.Line, Column: value.Column}
		return &copied, nil
	}
	return node, nil
}

func joinSequence(seq *yaml.Node) (string, error) {
	parts := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			if item.Tag == "!!null" {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, item.Value)
		case yaml.SequenceNode:
			nested, err := joinSequence(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, nested)
		default:
			return "", fmt.Errorf("list items must be strings")
		}
	}
	return strings.Join(parts, ","), nil
}
