// Package audit checks emitted HTML for the keywords meta tag the page-data
// pass is expected to add exactly once per page.
package audit

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	FindingMissing   = "missing"
	FindingDuplicate = "duplicate"
)

type Finding struct {
	Path     string   `json:"path" yaml:"path"`
	Kind     string   `json:"kind" yaml:"kind"`
	Count    int      `json:"count" yaml:"count"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

type Report struct {
	Dir      string    `json:"dir" yaml:"dir"`
	Files    int       `json:"files" yaml:"files"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Options narrows which files are audited. Exclude holds slash-separated glob
// patterns matched against paths relative to the audited directory.
type Options struct {
	Exclude []string
}

// Dir audits every *.html file below dir. Findings are sorted by path.
func Dir(ctx context.Context, dir string, opts Options) (Report, error) {
	report := Report{Dir: dir, Findings: []Finding{}}
	info, err := os.Stat(dir)
	if err != nil {
		return report, fmt.Errorf("stat audit directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("audit target %s is not a directory", dir)
	}
	for _, pattern := range opts.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return report, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, opts.Exclude) {
			return nil
		}

		keywords, err := fileKeywords(p)
		if err != nil {
			return fmt.Errorf("audit %s: %w", rel, err)
		}
		report.Files++
		switch {
		case len(keywords) == 0:
			report.Findings = append(report.Findings, Finding{Path: rel, Kind: FindingMissing})
		case len(keywords) > 1:
			report.Findings = append(report.Findings, Finding{Path: rel, Kind: FindingDuplicate, Count: len(keywords), Keywords: keywords})
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		return report.Findings[i].Path < report.Findings[j].Path
	})
	return report, nil
}

// HeadKeywords returns the content of every <meta name="keywords"> in the
// document's head, in document order.
func HeadKeywords(doc *goquery.Document) []string {
	var out []string
	doc.Find("head meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "keywords") {
			return
		}
		content, _ := s.Attr("content")
		out = append(out, content)
	})
	return out
}

func fileKeywords(p string) ([]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return HeadKeywords(doc), nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
