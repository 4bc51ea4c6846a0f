// Package browser models the tab shell: tabs that each keep a back/forward
// history of opened sites.
package browser

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/msj/internal/sites"
)

// HomeURL is the pseudo-address of the site list.
const HomeURL = "home"

// NewTabTitle is shown for tabs on the home page.
const NewTabTitle = "New Tab"

// Tab is one browser tab.
type Tab struct {
	ID           string
	Title        string
	URL          string
	History      []string
	HistoryIndex int
}

// CanGoBack reports whether Back would move.
func (t *Tab) CanGoBack() bool { return t.HistoryIndex > 0 }

// CanGoForward reports whether Forward would move.
func (t *Tab) CanGoForward() bool { return t.HistoryIndex < len(t.History)-1 }

// Browser holds the open tabs and the site catalog used to title them.
type Browser struct {
	tabs    []*Tab
	active  string
	counter int
	catalog []sites.Site
}

// New returns a browser with one home tab.
func New(catalog []sites.Site) *Browser {
	b := &Browser{catalog: catalog}
	b.NewTab()
	return b
}

// SetCatalog replaces the known sites, e.g. after a rescan.
func (b *Browser) SetCatalog(catalog []sites.Site) {
	b.catalog = catalog
}

// Catalog returns the known sites.
func (b *Browser) Catalog() []sites.Site {
	return b.catalog
}

// Tabs returns the open tabs in display order.
func (b *Browser) Tabs() []*Tab {
	return b.tabs
}

// Active returns the focused tab.
func (b *Browser) Active() *Tab {
	for _, t := range b.tabs {
		if t.ID == b.active {
			return t
		}
	}
	return nil
}

// ActiveIndex returns the position of the focused tab.
func (b *Browser) ActiveIndex() int {
	for i, t := range b.tabs {
		if t.ID == b.active {
			return i
		}
	}
	return -1
}

// NewTab opens a home tab and focuses it.
func (b *Browser) NewTab() *Tab {
	t := &Tab{
		ID:      fmt.Sprintf("tab-%d", b.counter),
		Title:   NewTabTitle,
		URL:     HomeURL,
		History: []string{HomeURL},
	}
	b.counter++
	b.tabs = append(b.tabs, t)
	b.active = t.ID
	return t
}

// Switch focuses the tab with the given id. Unknown ids are ignored.
func (b *Browser) Switch(id string) {
	for _, t := range b.tabs {
		if t.ID == id {
			b.active = id
			return
		}
	}
}

// SwitchIndex focuses the tab at position i, wrapping around.
func (b *Browser) SwitchIndex(i int) {
	if len(b.tabs) == 0 {
		return
	}
	i = ((i % len(b.tabs)) + len(b.tabs)) % len(b.tabs)
	b.active = b.tabs[i].ID
}

// Close removes the tab. Closing the last tab opens a fresh one; closing the
// focused tab focuses the tab that slides into its position.
func (b *Browser) Close(id string) {
	idx := -1
	for i, t := range b.tabs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	b.tabs = append(b.tabs[:idx], b.tabs[idx+1:]...)
	if len(b.tabs) == 0 {
		b.NewTab()
		return
	}
	if b.active == id {
		b.active = b.tabs[min(idx, len(b.tabs)-1)].ID
	}
}

// Open navigates the focused tab to the named site, dropping any forward history.
func (b *Browser) Open(name string) {
	t := b.Active()
	if t == nil {
		return
	}
	site, ok := sites.Find(b.catalog, name)
	if !ok {
		return
	}
	b.push(t, site.Name)
	t.URL = site.Name
	t.Title = site.Title
}

// OpenFirstMatch opens the first site whose name or title contains query.
// It reports whether a site was opened.
func (b *Browser) OpenFirstMatch(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return false
	}
	for _, s := range b.catalog {
		if strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Title), query) {
			b.Open(s.Name)
			return true
		}
	}
	return false
}

// Back moves the focused tab one step back in its history.
func (b *Browser) Back() {
	t := b.Active()
	if t == nil || !t.CanGoBack() {
		return
	}
	t.HistoryIndex--
	b.restore(t)
}

// Forward moves the focused tab one step forward in its history.
func (b *Browser) Forward() {
	t := b.Active()
	if t == nil || !t.CanGoForward() {
		return
	}
	t.HistoryIndex++
	b.restore(t)
}

// Home sends the focused tab to the site list unless it is already there.
func (b *Browser) Home() {
	t := b.Active()
	if t == nil || t.URL == HomeURL {
		return
	}
	b.push(t, HomeURL)
	t.URL = HomeURL
	t.Title = NewTabTitle
}

func (b *Browser) push(t *Tab, url string) {
	if t.HistoryIndex < len(t.History)-1 {
		t.History = t.History[:t.HistoryIndex+1]
	}
	t.History = append(t.History, url)
	t.HistoryIndex = len(t.History) - 1
}

// restore loads the URL at the current history index. Sites that vanished
// from the catalog leave the tab unchanged, except for the index.
func (b *Browser) restore(t *Tab) {
	url := t.History[t.HistoryIndex]
	if url == HomeURL {
		t.URL = HomeURL
		t.Title = NewTabTitle
		return
	}
	if site, ok := sites.Find(b.catalog, url); ok {
		t.URL = site.Name
		t.Title = site.Title
	}
}

// Page is what a tab currently shows.
type Page struct {
	Home     bool
	Site     sites.Site
	NotFound string
}

// Resolve returns the page for the focused tab.
func (b *Browser) Resolve() Page {
	t := b.Active()
	if t == nil || t.URL == HomeURL {
		return Page{Home: true}
	}
	if site, ok := sites.Find(b.catalog, t.URL); ok {
		return Page{Site: site}
	}
	return Page{NotFound: t.URL}
}
