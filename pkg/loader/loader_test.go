package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSiteValidSite(t *testing.T) {
	site, err := LoadSite(filepath.Join("..", "..", "testdata", "blog-site"))
	if err != nil {
		t.Fatalf("LoadSite() error = %v", err)
	}

	if site.Title != "不二博客" || site.Lang != "zh-CN" {
		t.Fatalf("unexpected site identity: %q %q", site.Title, site.Lang)
	}
	if len(site.Head) != 4 {
		t.Fatalf("expected 4 site head tags, got %d", len(site.Head))
	}
	if site.Head[3].Tag != "script" || !strings.Contains(site.Head[3].Content, "hm.baidu.com") {
		t.Fatalf("expected analytics script head tag, got %#v", site.Head[3])
	}
	if site.Sitemap.Hostname != "https://www.buerblog.cn" {
		t.Fatalf("unexpected sitemap hostname: %q", site.Sitemap.Hostname)
	}
	if site.Transform.Keywords.Suffix != "不二博客" {
		t.Fatalf("unexpected keywords suffix: %q", site.Transform.Keywords.Suffix)
	}
	if !filepath.IsAbs(site.RootDir) {
		t.Fatalf("expected absolute root dir, got %q", site.RootDir)
	}
}

func TestLoadPagesRoutesAndFrontmatter(t *testing.T) {
	bundle, err := Load(filepath.Join("..", "..", "testdata", "blog-site"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantRoutes := []string{
		"/",
		"/docs/life/draft",
		"/docs/study/",
		"/docs/study/web/git-flow",
		"/docs/study/web/nvm",
	}
	if len(bundle.Pages) != len(wantRoutes) {
		routes := make([]string, 0, len(bundle.Pages))
		for _, p := range bundle.Pages {
			routes = append(routes, p.Route)
		}
		t.Fatalf("unexpected routes %v, want %v", routes, wantRoutes)
	}
	for i, want := range wantRoutes {
		if bundle.Pages[i].Route != want {
			t.Fatalf("Pages[%d].Route = %q, want %q", i, bundle.Pages[i].Route, want)
		}
	}

	byRoute := map[string]int{}
	for i, p := range bundle.Pages {
		byRoute[p.Route] = i
	}

	home := bundle.Pages[byRoute["/"]]
	if home.Frontmatter.Layout != "home" || home.Frontmatter.Head != nil || home.Frontmatter.Keywords != nil {
		t.Fatalf("unexpected home front matter: %#v", home.Frontmatter)
	}
	if home.RelativePath != "index.md" || home.LastUpdated.IsZero() {
		t.Fatalf("unexpected home source info: %#v", home)
	}

	study := bundle.Pages[byRoute["/docs/study/"]]
	if study.Frontmatter.Keywords == nil || *study.Frontmatter.Keywords != "学习,前端" {
		t.Fatalf("expected study keywords, got %v", study.Frontmatter.Keywords)
	}

	nvm := bundle.Pages[byRoute["/docs/study/web/nvm"]]
	if len(nvm.Frontmatter.Head) != 1 || !nvm.Frontmatter.Head[0].IsMetaNamed("author") {
		t.Fatalf("expected author head tag, got %#v", nvm.Frontmatter.Head)
	}

	gitFlow := bundle.Pages[byRoute["/docs/study/web/git-flow"]]
	if gitFlow.Frontmatter.Title != "" || gitFlow.Frontmatter.Head != nil {
		t.Fatalf("expected empty front matter for page without block, got %#v", gitFlow.Frontmatter)
	}
}

func TestLoadSiteInvalidSite(t *testing.T) {
	_, err := LoadSite(filepath.Join("..", "..", "testdata", "invalid-site"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestLoadSiteRejectsUnrenderableHeadTags(t *testing.T) {
	for _, head := range []string{"[div, {class: x}]", "[meta, {name: x}, text]"} {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\nhead:\n  - "+head+"\n")

		_, err := LoadSite(root)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("head %s: expected *ValidationError, got %T: %v", head, err, err)
		}
	}
}

func TestLoadPagesRejectsUnrenderableHeadTags(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\n")
	writeFile(t, filepath.Join(root, "src", "post.md"), "---\nhead:\n  - [body]\n---\n")

	_, err := Load(root)
	if err == nil || !strings.Contains(err.Error(), "post.md") || !strings.Contains(err.Error(), "not allowed in head") {
		t.Fatalf("expected page head error naming post.md, got %v", err)
	}
}

func TestLoadPagesJoinsKeywordsList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\n")
	writeFile(t, filepath.Join(root, "src", "index.md"), "---\nkeywords: [a, b]\n---\n")

	bundle, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if kw := bundle.Pages[0].Frontmatter.Keywords; kw == nil || *kw != "a,b" {
		t.Fatalf("expected joined keywords, got %v", kw)
	}
}

func TestLoadSiteMissingConfig(t *testing.T) {
	_, err := LoadSite(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "required file missing") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestLoadSiteAppliesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\nsitemap:\n  hostname: https://example.com/\n")

	site, err := LoadSite(root)
	if err != nil {
		t.Fatalf("LoadSite() error = %v", err)
	}
	if site.SrcDir != "src" || site.OutDir != "dist" || site.Lang != "en-US" {
		t.Fatalf("unexpected defaults: src=%q out=%q lang=%q", site.SrcDir, site.OutDir, site.Lang)
	}
	if site.Sitemap.Hostname != "https://example.com" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", site.Sitemap.Hostname)
	}
}

func TestLoadPagesFileAndDirectoryIndexAreDistinct(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\ncleanUrls: true\n")
	writeFile(t, filepath.Join(root, "src", "guide.md"), "# guide\n")
	writeFile(t, filepath.Join(root, "src", "guide", "index.md"), "# guide index\n")
	writeFile(t, filepath.Join(root, "src", ".vitepress", "cache.md"), "# hidden\n")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "not markdown\n")

	bundle, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(bundle.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(bundle.Pages))
	}
	if bundle.Pages[0].Route != "/guide" || bundle.Pages[1].Route != "/guide/" {
		t.Fatalf("unexpected routes %q %q", bundle.Pages[0].Route, bundle.Pages[1].Route)
	}
}

func TestLoadPagesMalformedFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\n")
	writeFile(t, filepath.Join(root, "src", "bad.md"), "---\nhead: [[meta, {}, a, b]]\n---\n")

	_, err := Load(root)
	if err == nil {
		t.Fatalf("expected front matter error")
	}
	if !strings.Contains(err.Error(), "bad.md") {
		t.Fatalf("expected error to name the page, got %v", err)
	}
}

func TestLoadPagesMissingSourceDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SiteFileName), "title: Blog\n")

	_, err := Load(root)
	if err == nil || !strings.Contains(err.Error(), "source directory missing") {
		t.Fatalf("expected missing source dir error, got %v", err)
	}
}

func TestParseFrontmatterCRLF(t *testing.T) {
	fm, err := ParseFrontmatter([]byte("---\r\ntitle: Hello\r\nkeywords: a,b\r\n---\r\nbody\r\n"))
	if err != nil {
		t.Fatalf("ParseFrontmatter() error = %v", err)
	}
	if fm.Title != "Hello" || fm.Keywords == nil || *fm.Keywords != "a,b" {
		t.Fatalf("unexpected front matter: %#v", fm)
	}
}

func TestRouteForPath(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		clean bool
		out   string
	}{
		{name: "root index", in: "index.md", clean: true, out: "/"},
		{name: "nested index", in: "docs/study/index.md", clean: true, out: "/docs/study/"},
		{name: "clean page", in: "docs/study/web/nvm.md", clean: true, out: "/docs/study/web/nvm"},
		{name: "html page", in: "docs/study/web/nvm.md", clean: false, out: "/docs/study/web/nvm.html"},
		{name: "html index", in: "docs/index.md", clean: false, out: "/docs/"},
		{name: "leading slash", in: "/about.md", clean: true, out: "/about"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RouteForPath(tc.in, tc.clean); got != tc.out {
				t.Fatalf("RouteForPath(%q, %v) = %q, want %q", tc.in, tc.clean, got, tc.out)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
