package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/like-buer/blog/pkg/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHead serializes the site head entries followed by the page's head
// entries, one tag per line, preserving order.
func RenderHead(site *model.Site, page model.PageData) ([]byte, error) {
	var tags []model.HeadTag
	if site != nil {
		tags = append(tags, site.Head...)
	}
	tags = append(tags, page.Frontmatter.Head...)
	return RenderHeadTags(tags)
}

// RenderHeadTags serializes tags into an HTML fragment.
func RenderHeadTags(tags []model.HeadTag) ([]byte, error) {
	var buf bytes.Buffer
	for i, tag := range tags {
		node, err := headNode(tag)
		if err != nil {
			return nil, fmt.Errorf("render head tag %d: %w", i, err)
		}
		buf.WriteString("  ")
		if err := html.Render(&buf, node); err != nil {
			return nil, fmt.Errorf("render head tag %d <%s>: %w", i, tag.Tag, err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func headNode(tag model.HeadTag) (*html.Node, error) {
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	name := tag.ElementName()
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
	for _, attr := range tag.Attrs {
		node.Attr = append(node.Attr, html.Attribute{Key: strings.TrimSpace(attr.Key), Val: attr.Value})
	}
	if tag.Content != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: tag.Content})
	}
	return node, nil
}
