package model

import "time"

// Site is the site-wide configuration loaded from site.yaml.
type Site struct {
	OutDir      string      `yaml:"outDir" json:"outDir"`
	SrcDir      string      `yaml:"srcDir" json:"srcDir"`
	Lang        string      `yaml:"lang" json:"lang"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description"`
	CleanURLs   bool        `yaml:"cleanUrls" json:"cleanUrls"`
	Head        []HeadTag   `yaml:"head,omitempty" json:"head,omitempty"`
	Theme       ThemeConfig `yaml:"themeConfig" json:"themeConfig"`
	Sitemap     Sitemap     `yaml:"sitemap" json:"sitemap"`
	Transform   Transform   `yaml:"transform" json:"transform"`

	// RootDir is the directory containing site.yaml (set at load time).
	RootDir string `yaml:"-" json:"-"`
}

type ThemeConfig struct {
	Logo             string                    `yaml:"logo,omitempty" json:"logo,omitempty"`
	Nav              []NavItem                 `yaml:"nav,omitempty" json:"nav,omitempty"`
	Sidebar          map[string][]SidebarGroup `yaml:"sidebar,omitempty" json:"sidebar,omitempty"`
	SocialLinks      []SocialLink              `yaml:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	Footer           Footer                    `yaml:"footer" json:"footer"`
	OutlineTitle     string                    `yaml:"outlineTitle,omitempty" json:"outlineTitle,omitempty"`
	LastUpdated      LastUpdated               `yaml:"lastUpdated" json:"lastUpdated"`
	SidebarMenuLabel string                    `yaml:"sidebarMenuLabel,omitempty" json:"sidebarMenuLabel,omitempty"`
	ReturnToTopLabel string                    `yaml:"returnToTopLabel,omitempty" json:"returnToTopLabel,omitempty"`
	DocFooter        DocFooter                 `yaml:"docFooter" json:"docFooter"`
	NotFound         NotFound                  `yaml:"notFound" json:"notFound"`
}

type NavItem struct {
	Text        string `yaml:"text" json:"text"`
	Link        string `yaml:"link" json:"link"`
	ActiveMatch string `yaml:"activeMatch,omitempty" json:"activeMatch,omitempty"`
}

type SidebarGroup struct {
	Text      string        `yaml:"text" json:"text"`
	Collapsed bool          `yaml:"collapsed" json:"collapsed"`
	Items     []SidebarItem `yaml:"items,omitempty" json:"items,omitempty"`
}

type SidebarItem struct {
	Text string `yaml:"text" json:"text"`
	Link string `yaml:"link" json:"link"`
}

type SocialLink struct {
	Icon string `yaml:"icon" json:"icon"`
	Link string `yaml:"link" json:"link"`
}

type Footer struct {
	Message   string `yaml:"message,omitempty" json:"message,omitempty"`
	Copyright string `yaml:"copyright,omitempty" json:"copyright,omitempty"`
}

type LastUpdated struct {
	Text          string        `yaml:"text,omitempty" json:"text,omitempty"`
	FormatOptions FormatOptions `yaml:"formatOptions" json:"formatOptions"`
}

type FormatOptions struct {
	Locale    string `yaml:"locale,omitempty" json:"locale,omitempty"`
	DateStyle string `yaml:"dateStyle,omitempty" json:"dateStyle,omitempty"`
	TimeStyle string `yaml:"timeStyle,omitempty" json:"timeStyle,omitempty"`
}

type DocFooter struct {
	Prev string `yaml:"prev,omitempty" json:"prev,omitempty"`
	Next string `yaml:"next,omitempty" json:"next,omitempty"`
}

type NotFound struct {
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Quote    string `yaml:"quote,omitempty" json:"quote,omitempty"`
	LinkText string `yaml:"linkText,omitempty" json:"linkText,omitempty"`
}

type Sitemap struct {
	Hostname string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
}

// Transform configures the page-data transform applied once per page.
type Transform struct {
	Keywords KeywordsConfig `yaml:"keywords" json:"keywords"`
}

type KeywordsConfig struct {
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
	Suffix  string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

// Frontmatter is the per-page metadata block parsed from a source file.
//
// A nil Head or Keywords means the field was absent from the source, which
// is distinct from present-but-empty.
type Frontmatter struct {
	Title       string         `yaml:"title,omitempty" json:"title,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Layout      string         `yaml:"layout,omitempty" json:"layout,omitempty"`
	Head        []HeadTag      `yaml:"head,omitempty" json:"head,omitempty"`
	Keywords    *string        `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"extra,omitempty"`
}

// PageData is one page as handed to page-data transforms during a build.
type PageData struct {
	Route        string      `yaml:"route" json:"route"`
	RelativePath string      `yaml:"relativePath" json:"relativePath"`
	LastUpdated  time.Time   `yaml:"lastUpdated" json:"lastUpdated"`
	Frontmatter  Frontmatter `yaml:"frontmatter" json:"frontmatter"`
}

// PageBundle is the build output consumed by the rendering stage.
type PageBundle struct {
	Site  Site       `yaml:"site" json:"site"`
	Pages []PageData `yaml:"pages" json:"pages"`
}
