package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/like-buer/blog/pkg/model"
	"gopkg.in/yaml.v3"
)

const (
	SiteFileName = "site.yaml"

	defaultSrcDir = "src"
	defaultOutDir = "dist"
	defaultLang   = "en-US"
)

// yamlFrontmatter decodes front matter with yaml.v3 so head tuples go through
// model.HeadTag's decoder.
var yamlFrontmatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Load parses a site directory into its configuration and page records.
func Load(dirPath string) (*model.PageBundle, error) {
	site, err := LoadSite(dirPath)
	if err != nil {
		return nil, err
	}
	pages, err := LoadPages(site)
	if err != nil {
		return nil, err
	}
	return &model.PageBundle{Site: *site, Pages: pages}, nil
}

// LoadSite reads, defaults and validates <dir>/site.yaml.
func LoadSite(dirPath string) (*model.Site, error) {
	root, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("resolve site path: %w", err)
	}

	path := filepath.Join(root, SiteFileName)
	if err := mustFile(path); err != nil {
		return nil, err
	}

	var site model.Site
	if err := decodeYAMLFile(path, &site); err != nil {
		return nil, err
	}
	site.RootDir = root
	applyDefaults(&site)

	if err := ValidateSite(&site); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}
	return &site, nil
}

func applyDefaults(site *model.Site) {
	if strings.TrimSpace(site.SrcDir) == "" {
		site.SrcDir = defaultSrcDir
	}
	if strings.TrimSpace(site.OutDir) == "" {
		site.OutDir = defaultOutDir
	}
	if strings.TrimSpace(site.Lang) == "" {
		site.Lang = defaultLang
	}
	site.Sitemap.Hostname = strings.TrimRight(strings.TrimSpace(site.Sitemap.Hostname), "/")
}

// LoadPages walks the site's source directory and parses the front matter of
// every markdown file. Bodies are not parsed.
func LoadPages(site *model.Site) ([]model.PageData, error) {
	if site == nil {
		return nil, fmt.Errorf("site is nil")
	}
	srcRoot := site.SrcDir
	if !filepath.IsAbs(srcRoot) {
		srcRoot = filepath.Join(site.RootDir, srcRoot)
	}
	if _, err := os.Stat(srcRoot); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("source directory missing: %s", srcRoot)
		}
		return nil, fmt.Errorf("stat source directory %s: %w", srcRoot, err)
	}

	pages := []model.PageData{}
	routes := map[string]string{}
	err := filepath.WalkDir(srcRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != srcRoot && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		page, err := loadPage(p, rel, site.CleanURLs)
		if err != nil {
			return err
		}
		if existing, ok := routes[page.Route]; ok {
			return fmt.Errorf("duplicate route %q in %s and %s", page.Route, existing, rel)
		}
		routes[page.Route] = rel
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk source directory %s: %w", srcRoot, err)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Route < pages[j].Route
	})
	return pages, nil
}

func loadPage(absPath, relPath string, cleanURLs bool) (model.PageData, error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return model.PageData{}, fmt.Errorf("read page file %s: %w", absPath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return model.PageData{}, fmt.Errorf("stat page file %s: %w", absPath, err)
	}

	fm, err := ParseFrontmatter(content)
	if err != nil {
		return model.PageData{}, fmt.Errorf("page %s: %w", relPath, err)
	}
	for i, tag := range fm.Head {
		if err := tag.Validate(); err != nil {
			return model.PageData{}, fmt.Errorf("page %s: head[%d]: %w", relPath, i, err)
		}
	}

	return model.PageData{
		Route:        RouteForPath(relPath, cleanURLs),
		RelativePath: relPath,
		LastUpdated:  info.ModTime().UTC(),
		Frontmatter:  fm,
	}, nil
}

// ParseFrontmatter extracts the YAML front matter block of a markdown source.
// A source without front matter yields an empty record.
func ParseFrontmatter(content []byte) (model.Frontmatter, error) {
	var fm model.Frontmatter
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if _, err := frontmatter.Parse(bytes.NewReader(content), &fm, yamlFrontmatter); err != nil {
		return model.Frontmatter{}, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, nil
}

// RouteForPath maps a source path relative to the source directory to the
// page route. index.md maps to its directory.
func RouteForPath(relPath string, cleanURLs bool) string {
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "/")
	dir, file := path.Split(relPath)
	name := strings.TrimSuffix(file, path.Ext(file))

	if name == "index" {
		if dir == "" {
			return "/"
		}
		return "/" + dir
	}
	route := "/" + dir + name
	if !cleanURLs {
		route += ".html"
	}
	return route
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "public"
}

func decodeYAMLFile(path string, out any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read yaml file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, out); err != nil {
		return fmt.Errorf("parse yaml file %s: %w", path, err)
	}

	return nil
}

func mustFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("required file missing: %s", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("required file is a directory: %s", path)
	}
	return nil
}
