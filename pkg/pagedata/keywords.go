// Package pagedata holds the page-data transforms run once per page between
// front-matter parsing and HTML emission.
package pagedata

import (
	"strings"

	"github.com/like-buer/blog/pkg/model"
)

const (
	// DefaultKeywords is used when a page's front matter has no keywords.
	DefaultKeywords = "博客,学习,生活,书单,记录,blog"
	// DefaultSiteSuffix brands every derived keyword list with the site name.
	DefaultSiteSuffix = "不二博客"
)

// KeywordsTransform defaults a page's head and keywords and appends a
// <meta name="keywords"> tag built from them.
type KeywordsTransform struct {
	Default string
	Suffix  string
}

// NewKeywordsTransform builds the transform from site configuration, falling
// back to the package defaults for unset values.
func NewKeywordsTransform(cfg model.KeywordsConfig) KeywordsTransform {
	t := KeywordsTransform{Default: cfg.Default, Suffix: cfg.Suffix}
	if strings.TrimSpace(t.Default) == "" {
		t.Default = DefaultKeywords
	}
	if strings.TrimSpace(t.Suffix) == "" {
		t.Suffix = DefaultSiteSuffix
	}
	return t
}

// Normalize returns a copy of fm with Head and Keywords present and one
// keywords meta tag appended to Head.
//
// Keywords already present, including the empty string, are kept. The append
// is not idempotent: normalizing the result again appends a second tag.
func (t KeywordsTransform) Normalize(fm model.Frontmatter) model.Frontmatter {
	out := fm

	head := make([]model.HeadTag, len(fm.Head), len(fm.Head)+1)
	copy(head, fm.Head)

	if out.Keywords == nil {
		kw := t.Default
		out.Keywords = &kw
	} else {
		kw := *out.Keywords
		out.Keywords = &kw
	}

	out.Head = append(head, model.NewHeadTag("meta",
		"name", "keywords",
		"content", *out.Keywords+","+t.Suffix,
	))
	return out
}

// TransformPageData implements Transform.
func (t KeywordsTransform) TransformPageData(page model.PageData) model.PageData {
	page.Frontmatter = t.Normalize(page.Frontmatter)
	return page
}

// KeywordsMeta returns the content of the last keywords meta tag in head and
// how many such tags head carries.
func KeywordsMeta(head []model.HeadTag) (string, int) {
	var content string
	count := 0
	for _, tag := range head {
		if !tag.IsMetaNamed("keywords") {
			continue
		}
		count++
		content, _ = tag.Attr("content")
	}
	return content, count
}
