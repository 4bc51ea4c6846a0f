package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/msj/internal/sites"
)

var catalog = []sites.Site{
	{Name: "journal", Title: "Journal"},
	{Name: "maintainer", Title: "Savings Maintainer"},
}

func TestNewBrowserHasHomeTab(t *testing.T) {
	b := New(catalog)
	require.Len(t, b.Tabs(), 1)

	tab := b.Active()
	assert.Equal(t, "tab-0", tab.ID)
	assert.Equal(t, HomeURL, tab.URL)
	assert.Equal(t, NewTabTitle, tab.Title)
	assert.Equal(t, []string{HomeURL}, tab.History)
	assert.True(t, b.Resolve().Home)
}

func TestOpenBackForward(t *testing.T) {
	b := New(catalog)
	b.Open("journal")
	b.Open("maintainer")

	tab := b.Active()
	assert.Equal(t, []string{HomeURL, "journal", "maintainer"}, tab.History)
	assert.Equal(t, "Savings Maintainer", tab.Title)

	b.Back()
	assert.Equal(t, "journal", tab.URL)
	assert.Equal(t, "Journal", tab.Title)
	b.Back()
	assert.Equal(t, HomeURL, tab.URL)
	assert.Equal(t, NewTabTitle, tab.Title)
	b.Back()
	assert.Equal(t, 0, tab.HistoryIndex, "back at start is a no-op")

	b.Forward()
	assert.Equal(t, "journal", tab.URL)

	// Opening from the middle drops forward entries.
	b.Open("maintainer")
	assert.Equal(t, []string{HomeURL, "journal", "maintainer"}, tab.History)
	assert.False(t, tab.CanGoForward())

	b.Open("unknown")
	assert.Equal(t, "maintainer", tab.URL, "unknown sites are ignored")
}

func TestHome(t *testing.T) {
	b := New(catalog)
	b.Home()
	assert.Len(t, b.Active().History, 1, "home on home is a no-op")

	b.Open("journal")
	b.Home()
	tab := b.Active()
	assert.Equal(t, []string{HomeURL, "journal", HomeURL}, tab.History)
	assert.Equal(t, NewTabTitle, tab.Title)
}

func TestCloseTabs(t *testing.T) {
	b := New(catalog)
	b.NewTab()
	b.NewTab()
	require.Len(t, b.Tabs(), 3)

	b.Switch("tab-1")
	b.Close("tab-1")
	assert.Equal(t, "tab-2", b.Active().ID, "neighbour slides into place")

	b.Close("tab-2")
	assert.Equal(t, "tab-0", b.Active().ID)

	b.Close("tab-0")
	require.Len(t, b.Tabs(), 1)
	assert.Equal(t, "tab-3", b.Active().ID, "closing the last tab opens a new one")
}

func TestCloseInactiveKeepsFocus(t *testing.T) {
	b := New(catalog)
	b.NewTab()
	b.Close("tab-0")
	assert.Equal(t, "tab-1", b.Active().ID)
}

func TestSwitchIndexWraps(t *testing.T) {
	b := New(catalog)
	b.NewTab()
	b.SwitchIndex(-1)
	assert.Equal(t, 1, b.ActiveIndex())
	b.SwitchIndex(2)
	assert.Equal(t, 0, b.ActiveIndex())
}

func TestOpenFirstMatchAndResolve(t *testing.T) {
	b := New(catalog)
	assert.False(t, b.OpenFirstMatch(""))
	assert.True(t, b.OpenFirstMatch("SAVINGS"))
	assert.Equal(t, "maintainer", b.Resolve().Site.Name)

	b.SetCatalog(catalog[:1])
	assert.Equal(t, "maintainer", b.Resolve().NotFound)
}
