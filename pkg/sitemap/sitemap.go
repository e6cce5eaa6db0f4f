package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/like-buer/blog/pkg/model"
)

const (
	FileName  = "sitemap.xml"
	xmlns     = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateStamp = "2006-01-02"
)

// Logger receives non-fatal notes about skipped pages.
type Logger interface {
	Addf(format string, args ...any)
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Generate renders a sitemap for pages under hostname. It returns nil when
// no hostname is configured. Pages marked noindex, and pages whose canonical
// link points outside hostname, are left out.
func Generate(hostname string, pages []model.PageData, log Logger) ([]byte, int, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return nil, 0, nil
	}
	baseURL, err := url.Parse(hostname)
	if err != nil {
		return nil, 0, fmt.Errorf("parse sitemap hostname %q: %w", hostname, err)
	}
	if !baseURL.IsAbs() || baseURL.Host == "" {
		return nil, 0, fmt.Errorf("sitemap hostname %q must be an absolute URL", hostname)
	}

	entries := make([]urlEntry, 0, len(pages))
	for _, page := range pages {
		if ShouldExclude(robotsMeta(page.Frontmatter.Head)) {
			continue
		}
		loc, include := effectiveURL(baseURL, page, log)
		if !include {
			continue
		}
		entry := urlEntry{Loc: loc}
		if !page.LastUpdated.IsZero() {
			entry.LastMod = page.LastUpdated.UTC().Format(dateStamp)
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Loc < entries[j].Loc
	})

	payload, err := xml.MarshalIndent(urlSet{XMLNS: xmlns, URLs: entries}, "", "  ")
	if err != nil {
		return nil, 0, fmt.Errorf("marshal sitemap xml: %w", err)
	}
	out := append([]byte(xml.Header), payload...)
	out = append(out, '\n')
	return out, len(entries), nil
}

// ShouldExclude reports whether a robots meta value forbids indexing.
func ShouldExclude(robotsMeta string) bool {
	for _, raw := range strings.Split(robotsMeta, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "noindex" || token == "none" {
			return true
		}
	}
	return false
}

func robotsMeta(head []model.HeadTag) string {
	for _, tag := range head {
		if tag.IsMetaNamed("robots") {
			v, _ := tag.Attr("content")
			return v
		}
	}
	return ""
}

func canonicalHref(head []model.HeadTag) string {
	for _, tag := range head {
		if !strings.EqualFold(tag.Tag, "link") {
			continue
		}
		if rel, _ := tag.Attr("rel"); strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			href, _ := tag.Attr("href")
			return strings.TrimSpace(href)
		}
	}
	return ""
}

func effectiveURL(baseURL *url.URL, page model.PageData, log Logger) (string, bool) {
	canonical := canonicalHref(page.Frontmatter.Head)
	if canonical == "" {
		return deriveURL(baseURL, page.Route), true
	}

	parsed, err := url.Parse(canonical)
	if err != nil {
		return deriveURL(baseURL, page.Route), true
	}
	switch {
	case parsed.IsAbs():
	case strings.HasPrefix(parsed.Path, "/") && parsed.Host == "":
		parsed = &url.URL{
			Scheme:   baseURL.Scheme,
			Host:     baseURL.Host,
			Path:     parsed.Path,
			RawQuery: parsed.RawQuery,
		}
	default:
		return deriveURL(baseURL, page.Route), true
	}
	if !withinScope(baseURL, parsed) {
		if log != nil {
			log.Addf("warning: page=%s skipped from sitemap because canonical %q is outside %q", page.Route, canonical, baseURL.String())
		}
		return "", false
	}
	return parsed.String(), true
}

func deriveURL(baseURL *url.URL, route string) string {
	derived := *baseURL
	derived.Path = strings.TrimRight(derived.Path, "/") + route
	if derived.Path == "" {
		derived.Path = "/"
	}
	return derived.String()
}

func withinScope(baseURL, candidate *url.URL) bool {
	if !strings.EqualFold(baseURL.Scheme, candidate.Scheme) {
		return false
	}
	if !strings.EqualFold(baseURL.Hostname(), candidate.Hostname()) {
		return false
	}
	if baseURL.Port() != candidate.Port() {
		return false
	}
	basePath := cleanPath(baseURL.Path)
	if basePath == "/" {
		return true
	}
	candidatePath := cleanPath(candidate.Path)
	return candidatePath == basePath || strings.HasPrefix(candidatePath, basePath+"/")
}

func cleanPath(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return path.Clean(value)
}
