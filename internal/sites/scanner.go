// Package sites discovers the mini apps hosted under the sites directory.
package sites

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigFile holds per-site overrides, keyed by directory name. It is looked
// up next to the sites directory.
const ConfigFile = "websites-config.json"

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Scan lists every directory under sitesDir that has an index.html or
// index.php, sorted by title. A missing directory yields no sites.
func Scan(sitesDir string) ([]Site, error) {
	entries, err := os.ReadDir(sitesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	overrides := loadOverrides(filepath.Join(filepath.Dir(sitesDir), ConfigFile))

	var sites []Site
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || skipDirs[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if !hasIndex(filepath.Join(sitesDir, name)) {
			continue
		}

		site := Site{
			Name:        name,
			Title:       titleFromName(name),
			Description: guessDescription(name),
			Path:        "sites/" + name + "/index.html",
			Category:    "general",
		}
		if o, ok := overrides[name]; ok {
			// Configured sites keep their raw name as a fallback title.
			site.Title = ucfirst(name)
			site.Description = "Web application"
			if o.Title != "" {
				site.Title = o.Title
			}
			if o.Description != "" {
				site.Description = o.Description
			}
			if o.Category != "" {
				site.Category = o.Category
			}
		}
		sites = append(sites, site)
	}

	sort.SliceStable(sites, func(i, j int) bool { return sites[i].Title < sites[j].Title })
	return sites, nil
}

func hasIndex(dir string) bool {
	for _, f := range []string{"index.html", "index.php"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			return true
		}
	}
	return false
}

// loadOverrides returns nil when the file is missing or malformed.
func loadOverrides(path string) map[string]Override {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured sites dir
	if err != nil {
		return nil
	}
	var out map[string]Override
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// titleFromName turns "my-cool_site" into "My cool site".
func titleFromName(name string) string {
	return ucfirst(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// guessDescription matches on the directory name; first hit wins.
func guessDescription(name string) string {
	switch {
	case strings.Contains(name, "admin"):
		return "Administration panel"
	case strings.Contains(name, "shop"):
		return "Online shopping"
	case strings.Contains(name, "blog"):
		return "Blog and articles"
	case strings.Contains(name, "dashboard"):
		return "Analytics dashboard"
	default:
		return "Web application"
	}
}

// Search returns the sites whose name, title or description contains query,
// ignoring case. An empty query returns all sites.
func Search(sites []Site, query string) []Site {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return sites
	}
	var out []Site
	for _, s := range sites {
		if strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Title), query) ||
			strings.Contains(strings.ToLower(s.Description), query) {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the site with the given directory name.
func Find(sites []Site, name string) (Site, bool) {
	for _, s := range sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

// Equal reports whether two scans found the same sites in the same order.
func Equal(a, b []Site) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
