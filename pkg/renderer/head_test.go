package renderer

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/like-buer/blog/pkg/model"
)

func TestRenderHeadOrderAndFields(t *testing.T) {
	site := &model.Site{
		Head: []model.HeadTag{
			model.NewHeadTag("link", "rel", "icon", "href", "/favicon.ico"),
			model.NewHeadTag("meta", "name", "baidu-site-verification", "content", "codeva-1"),
			{Tag: "script", Content: `var _hmt = _hmt || []; if (a < b && c) {}`},
		},
	}
	page := model.PageData{
		Route: "/docs/study/web/nvm",
		Frontmatter: model.Frontmatter{
			Head: []model.HeadTag{
				model.NewHeadTag("meta", "name", "author", "content", "buer"),
				model.NewHeadTag("meta", "name", "keywords", "content", "博客,学习,不二博客"),
			},
		},
	}

	out, err := RenderHead(site, page)
	if err != nil {
		t.Fatalf("RenderHead() error = %v", err)
	}

	got := string(out)
	needles := []string{
		`<link rel="icon" href="/favicon.ico"/>`,
		`<meta name="baidu-site-verification" content="codeva-1"/>`,
		`<script>var _hmt = _hmt || []; if (a < b && c) {}</script>`,
		`<meta name="author" content="buer"/>`,
		`<meta name="keywords" content="博客,学习,不二博客"/>`,
	}
	last := -1
	for _, needle := range needles {
		idx := strings.Index(got, needle)
		if idx < 0 {
			t.Fatalf("expected output to contain %q, got:\n%s", needle, got)
		}
		if idx <= last {
			t.Fatalf("expected %q after previous tag, got:\n%s", needle, got)
		}
		last = idx
	}
	if lines := strings.Count(got, "\n"); lines != len(needles) {
		t.Fatalf("expected one line per tag, got %d lines", lines)
	}
}

func TestRenderHeadEscapesAttributes(t *testing.T) {
	out, err := RenderHeadTags([]model.HeadTag{
		model.NewHeadTag("meta", "name", "description", "content", `"><script>alert(1)</script>`),
	})
	if err != nil {
		t.Fatalf("RenderHeadTags() error = %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected attribute value to be escaped, got %s", out)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head>" + string(out) + "</head></html>"))
	if err != nil {
		t.Fatalf("parse rendered head: %v", err)
	}
	content, _ := doc.Find(`head meta[name="description"]`).Attr("content")
	if content != `"><script>alert(1)</script>` {
		t.Fatalf("unexpected round-tripped content %q", content)
	}
}

func TestRenderHeadRejectsInvalidTags(t *testing.T) {
	cases := []struct {
		name string
		tag  model.HeadTag
	}{
		{name: "body element", tag: model.HeadTag{Tag: "div"}},
		{name: "empty tag", tag: model.HeadTag{Tag: " "}},
		{name: "empty attr", tag: model.NewHeadTag("meta", "", "x")},
		{name: "void with content", tag: model.HeadTag{Tag: "meta", Content: "x"}},
		{name: "script breakout", tag: model.HeadTag{Tag: "script", Content: "a</SCRIPT><b>"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RenderHeadTags([]model.HeadTag{tc.tag}); err == nil {
				t.Fatalf("expected error for %#v", tc.tag)
			}
		})
	}
}

func TestRenderHeadNilSite(t *testing.T) {
	out, err := RenderHead(nil, model.PageData{})
	if err != nil {
		t.Fatalf("RenderHead() error = %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %q", out)
	}
}
