package pagedata

import (
	"reflect"
	"testing"

	"github.com/like-buer/blog/pkg/model"
)

const (
	testBaseline = "blog,study,life"
	testSuffix   = "Buer Blog"
)

func testTransform() KeywordsTransform {
	return KeywordsTransform{Default: testBaseline, Suffix: testSuffix}
}

func strPtr(s string) *string { return &s }

func keywordsContent(t *testing.T, tag model.HeadTag) string {
	t.Helper()
	if !tag.IsMetaNamed("keywords") {
		t.Fatalf("expected meta keywords tag, got %#v", tag)
	}
	v, ok := tag.Attr("content")
	if !ok {
		t.Fatalf("keywords tag has no content attribute: %#v", tag)
	}
	return v
}

func TestNormalizeAbsentHeadGetsSingleEntry(t *testing.T) {
	out := testTransform().Normalize(model.Frontmatter{})
	if out.Head == nil {
		t.Fatalf("expected head to be present")
	}
	if len(out.Head) != 1 {
		t.Fatalf("len(Head) = %d, want 1", len(out.Head))
	}
}

func TestNormalizeKeepsExistingEntriesInOrder(t *testing.T) {
	existing := []model.HeadTag{
		model.NewHeadTag("link", "rel", "icon", "href", "/favicon.ico"),
		model.NewHeadTag("meta", "name", "author", "content", "buer"),
		{Tag: "script", Content: "init()"},
	}
	in := model.Frontmatter{Head: append([]model.HeadTag(nil), existing...)}

	out := testTransform().Normalize(in)

	if len(out.Head) != len(existing)+1 {
		t.Fatalf("len(Head) = %d, want %d", len(out.Head), len(existing)+1)
	}
	if !reflect.DeepEqual(out.Head[:len(existing)], existing) {
		t.Fatalf("existing entries changed: %#v", out.Head[:len(existing)])
	}
	keywordsContent(t, out.Head[len(out.Head)-1])
}

func TestNormalizeDefaultsAbsentKeywords(t *testing.T) {
	out := testTransform().Normalize(model.Frontmatter{})
	if out.Keywords == nil || *out.Keywords != testBaseline {
		t.Fatalf("Keywords = %v, want %q", out.Keywords, testBaseline)
	}
}

func TestNormalizeKeepsPresentKeywords(t *testing.T) {
	out := testTransform().Normalize(model.Frontmatter{Keywords: strPtr("a,b")})
	if out.Keywords == nil || *out.Keywords != "a,b" {
		t.Fatalf("Keywords = %v, want %q", out.Keywords, "a,b")
	}
	if got := keywordsContent(t, out.Head[0]); got != "a,b,"+testSuffix {
		t.Fatalf("content = %q, want %q", got, "a,b,"+testSuffix)
	}
}

func TestNormalizeKeepsEmptyKeywords(t *testing.T) {
	out := testTransform().Normalize(model.Frontmatter{Keywords: strPtr("")})
	if out.Keywords == nil || *out.Keywords != "" {
		t.Fatalf("expected empty keywords to be kept, got %v", out.Keywords)
	}
	if got := keywordsContent(t, out.Head[0]); got != ","+testSuffix {
		t.Fatalf("content = %q", got)
	}
}

func TestNormalizeIsNotIdempotent(t *testing.T) {
	in := model.Frontmatter{Head: []model.HeadTag{model.NewHeadTag("meta", "name", "author", "content", "buer")}}
	tr := testTransform()

	out := tr.Normalize(tr.Normalize(in))

	if len(out.Head) != 3 {
		t.Fatalf("len(Head) = %d, want 3", len(out.Head))
	}
	first := keywordsContent(t, out.Head[1])
	second := keywordsContent(t, out.Head[2])
	if first != second {
		t.Fatalf("expected duplicate tags with equal content, got %q and %q", first, second)
	}
}

func TestNormalizeScenarioAllAbsent(t *testing.T) {
	out := testTransform().Normalize(model.Frontmatter{})

	want := model.Frontmatter{
		Head: []model.HeadTag{
			model.NewHeadTag("meta", "name", "keywords", "content", testBaseline+","+testSuffix),
		},
		Keywords: strPtr(testBaseline),
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Normalize() = %#v, want %#v", out, want)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	backing := make([]model.HeadTag, 1, 4)
	backing[0] = model.NewHeadTag("meta", "name", "author", "content", "buer")
	kw := "a"
	in := model.Frontmatter{Head: backing, Keywords: &kw}

	out := testTransform().Normalize(in)

	if len(in.Head) != 1 {
		t.Fatalf("input head length changed to %d", len(in.Head))
	}
	if extended := backing[:2]; extended[1].Tag != "" {
		t.Fatalf("input backing array was written: %#v", extended[1])
	}
	*out.Keywords = "changed"
	if kw != "a" {
		t.Fatalf("output keywords alias the input")
	}
}

func TestNewKeywordsTransformDefaults(t *testing.T) {
	tr := NewKeywordsTransform(model.KeywordsConfig{})
	if tr.Default != DefaultKeywords || tr.Suffix != DefaultSiteSuffix {
		t.Fatalf("unexpected defaults: %#v", tr)
	}

	tr = NewKeywordsTransform(model.KeywordsConfig{Default: "go", Suffix: "Site"})
	if tr.Default != "go" || tr.Suffix != "Site" {
		t.Fatalf("unexpected configured transform: %#v", tr)
	}

	out := tr.Normalize(model.Frontmatter{})
	if got := keywordsContent(t, out.Head[0]); got != "go,Site" {
		t.Fatalf("content = %q, want %q", got, "go,Site")
	}
}

func TestKeywordsTransformLeavesOtherFieldsAlone(t *testing.T) {
	page := model.PageData{
		Route:       "/docs/study/web/nvm",
		Frontmatter: model.Frontmatter{Title: "nvm", Description: "node versions", Extra: map[string]any{"outline": "deep"}},
	}
	out := testTransform().TransformPageData(page)

	if out.Route != page.Route || out.Frontmatter.Title != "nvm" || out.Frontmatter.Description != "node versions" {
		t.Fatalf("unexpected page after transform: %#v", out)
	}
	if out.Frontmatter.Extra["outline"] != "deep" {
		t.Fatalf("extra keys lost: %#v", out.Frontmatter.Extra)
	}
}

func TestKeywordsMeta(t *testing.T) {
	head := []model.HeadTag{
		model.NewHeadTag("meta", "name", "author", "content", "buer"),
		model.NewHeadTag("meta", "name", "keywords", "content", "a,不二博客"),
		model.NewHeadTag("meta", "name", "Keywords", "content", "b,不二博客"),
	}
	content, count := KeywordsMeta(head)
	if content != "b,不二博客" || count != 2 {
		t.Fatalf("KeywordsMeta() = %q, %d", content, count)
	}
	if content, count := KeywordsMeta(nil); content != "" || count != 0 {
		t.Fatalf("KeywordsMeta(nil) = %q, %d", content, count)
	}
}
