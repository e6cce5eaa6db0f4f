package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Attr is one attribute of a head tag. Attributes keep their source order.
type Attr struct {
	Key   string
	Value string
}

// HeadTag is a structured entry destined for a page's <head>.
//
// The wire form is the tuple [tag, {attrs}] or [tag, {attrs}, content]. A
// mapping form {tag:, attrs:, content:} is accepted on input.
type HeadTag struct {
	Tag     string
	Attrs   []Attr
	Content string
}

// NewHeadTag builds a tag from alternating key/value pairs.
func NewHeadTag(tag string, kv ...string) HeadTag {
	out := HeadTag{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		out.Attrs = append(out.Attrs, Attr{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

// Attr returns the value of the first attribute named key (case-insensitive).
func (t HeadTag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if strings.EqualFold(a.Key, key) {
			return a.Value, true
		}
	}
	return "", false
}

// IsMetaNamed reports whether t is <meta name="name" ...>.
func (t HeadTag) IsMetaNamed(name string) bool {
	if !strings.EqualFold(t.Tag, "meta") {
		return false
	}
	v, ok := t.Attr("name")
	return ok && strings.EqualFold(strings.TrimSpace(v), name)
}

var headElements = map[string]bool{
	"base":     true,
	"link":     true,
	"meta":     true,
	"noscript": true,
	"script":   true,
	"style":    true,
	"title":    true,
}

// ElementName returns the lower-cased, trimmed tag name.
func (t HeadTag) ElementName() string {
	return strings.ToLower(strings.TrimSpace(t.Tag))
}

// IsVoid reports whether t is an element that cannot carry content.
func (t HeadTag) IsVoid() bool {
	switch t.ElementName() {
	case "base", "link", "meta":
		return true
	}
	return false
}

// Validate checks that t can be emitted inside <head>: a known head element,
// non-empty attribute names, no content on void elements and no closing tag
// inside script or style text.
func (t HeadTag) Validate() error {
	name := t.ElementName()
	if name == "" {
		return fmt.Errorf("tag name is required")
	}
	if !headElements[name] {
		return fmt.Errorf("tag %q is not allowed in head", t.Tag)
	}
	for _, a := range t.Attrs {
		if strings.TrimSpace(a.Key) == "" {
			return fmt.Errorf("<%s> has an empty attribute name", name)
		}
	}
	if t.Content == "" {
		return nil
	}
	if t.IsVoid() {
		return fmt.Errorf("<%s> cannot have content", name)
	}
	if (name == "script" || name == "style") && strings.Contains(strings.ToLower(t.Content), "</"+name) {
		// Raw text elements end at the first closing tag.
		return fmt.Errorf("<%s> content contains a closing tag", name)
	}
	return nil
}

func (t HeadTag) MarshalYAML() (any, error) {
	attrs := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range t.Attrs {
		attrs.Content = append(attrs.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Value},
		)
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t.Tag}, attrs)
	if t.Content != "" {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t.Content})
	}
	return seq, nil
}

func (t *HeadTag) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return t.fromSequence(node)
	case yaml.MappingNode:
		var raw struct {
			Tag     string    `yaml:"tag"`
			Attrs   yaml.Node `yaml:"attrs"`
			Content string    `yaml:"content"`
		}
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("decode head tag: %w", err)
		}
		attrs, err := decodeAttrs(&raw.Attrs)
		if err != nil {
			return err
		}
		*t = HeadTag{Tag: raw.Tag, Attrs: attrs, Content: raw.Content}
		return nil
	default:
		return fmt.Errorf("line %d: head tag must be a sequence or mapping", node.Line)
	}
}

func (t *HeadTag) fromSequence(node *yaml.Node) error {
	if len(node.Content) < 1 || len(node.Content) > 3 {
		return fmt.Errorf("line %d: head tag must have 1 to 3 elements, got %d", node.Line, len(node.Content))
	}
	var out HeadTag
	if err := node.Content[0].Decode(&out.Tag); err != nil {
		return fmt.Errorf("line %d: decode head tag name: %w", node.Line, err)
	}
	if len(node.Content) > 1 {
		attrs, err := decodeAttrs(node.Content[1])
		if err != nil {
			return err
		}
		out.Attrs = attrs
	}
	if len(node.Content) > 2 {
		if err := node.Content[2].Decode(&out.Content); err != nil {
			return fmt.Errorf("line %d: decode head tag content: %w", node.Line, err)
		}
	}
	*t = out
	return nil
}

func decodeAttrs(node *yaml.Node) ([]Attr, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: head tag attributes must be a mapping", node.Line)
	}
	attrs := make([]Attr, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, value string
		if err := node.Content[i].Decode(&key); err != nil {
			return nil, fmt.Errorf("line %d: decode attribute name: %w", node.Content[i].Line, err)
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: decode attribute %q: %w", node.Content[i+1].Line, key, err)
		}
		attrs = append(attrs, Attr{Key: key, Value: value})
	}
	return attrs, nil
}

func (t HeadTag) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteString("{")
	for i, a := range t.Attrs {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(":")
		buf.Write(v)
	}
	buf.WriteString("}")

	tuple := []json.RawMessage{nil, json.RawMessage(buf.String())}
	name, err := json.Marshal(t.Tag)
	if err != nil {
		return nil, err
	}
	tuple[0] = name
	if t.Content != "" {
		content, err := json.Marshal(t.Content)
		if err != nil {
			return nil, err
		}
		tuple = append(tuple, content)
	}
	return json.Marshal(tuple)
}
