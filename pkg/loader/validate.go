package loader

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/like-buer/blog/pkg/model"
)

// ValidationError reports an invalid site.yaml.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid site config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidateSite checks the structural rules site.yaml must satisfy.
func ValidateSite(site *model.Site) error {
	if site == nil {
		return fmt.Errorf("site is nil")
	}

	if err := validation.ValidateStruct(site,
		validation.Field(&site.Title, validation.Required),
		validation.Field(&site.Lang, validation.Required),
		validation.Field(&site.SrcDir, validation.Required, validation.By(relativeDir)),
		validation.Field(&site.OutDir, validation.Required),
		validation.Field(&site.Head, validation.Each(validation.By(headTagRule))),
	); err != nil {
		return err
	}

	theme := &site.Theme
	if err := validation.ValidateStruct(theme,
		validation.Field(&theme.Nav, validation.Each(validation.By(navItemRule))),
		validation.Field(&theme.Sidebar, validation.By(sidebarRule)),
		validation.Field(&theme.SocialLinks, validation.Each(validation.By(socialLinkRule))),
	); err != nil {
		return validation.Errors{"themeConfig": err}
	}

	sitemap := &site.Sitemap
	if err := validation.ValidateStruct(sitemap,
		validation.Field(&sitemap.Hostname, validation.By(absoluteHTTPURL)),
	); err != nil {
		return validation.Errors{"sitemap": err}
	}

	return nil
}

func relativeDir(value any) error {
	dir, _ := value.(string)
	if filepath.IsAbs(dir) {
		return nil
	}
	clean := filepath.ToSlash(filepath.Clean(dir))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("must not escape the site directory")
	}
	return nil
}

func headTagRule(value any) error {
	tag, ok := value.(model.HeadTag)
	if !ok {
		return errors.New("must be a head tag")
	}
	return tag.Validate()
}

func navItemRule(value any) error {
	item, ok := value.(model.NavItem)
	if !ok {
		return errors.New("must be a nav item")
	}
	return validation.ValidateStruct(&item,
		validation.Field(&item.Text, validation.Required),
		validation.Field(&item.Link, validation.Required),
	)
}

func socialLinkRule(value any) error {
	link, ok := value.(model.SocialLink)
	if !ok {
		return errors.New("must be a social link")
	}
	return validation.ValidateStruct(&link,
		validation.Field(&link.Icon, validation.Required),
		validation.Field(&link.Link, validation.Required),
	)
}

func sidebarRule(value any) error {
	sidebar, _ := value.(map[string][]model.SidebarGroup)
	prefixes := make([]string, 0, len(sidebar))
	for prefix := range sidebar {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("sidebar key %q must start with /", prefix)
		}
		for gi, group := range sidebar[prefix] {
			for ii, item := range group.Items {
				if strings.TrimSpace(item.Text) == "" {
					return fmt.Errorf("sidebar %q group %d item %d: text is required", prefix, gi, ii)
				}
			}
		}
	}
	return nil
}

func absoluteHTTPURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}
