package palette

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/msj/internal/kvstore"
)

func TestHexToRGBA(t *testing.T) {
	assert.Equal(t, "rgba(224,86,154,0.12)", HexToRGBA("#E0569A", 0.12))
	assert.Equal(t, "rgba(255,176,184,0.08)", HexToRGBA("ffb0b8", 0.08))
	assert.Equal(t, "rgba(0,0,0,0.5)", HexToRGBA("#fff", 0.5))
	assert.Equal(t, "rgba(0,0,0,1)", HexToRGBA("", 1))
}

func TestDeriveVioletRose(t *testing.T) {
	v := Derive(VioletRose)

	assert.Equal(t, Version, v.Version)
	assert.Equal(t, "#E0569A", v.Primary)
	assert.Equal(t, "#2D155A", v.CardBg)
	assert.Equal(t, "#34d399", v.Success)
	assert.Equal(t, "linear-gradient(0deg, #FCE7F3, #FCE7F3)", v.HeadingFill)
	assert.Equal(t, "linear-gradient(90deg, #FFB0B8, #E0569A)", v.MiniHeadingFill)
	assert.Equal(t, "linear-gradient(135deg, #E0569A, #FFB0B8)", v.ThemeFill)
	assert.Equal(t,
		"linear-gradient(180deg, rgba(224,86,154,0.12), rgba(255,176,184,0.08) 60%, #FFB0B8)",
		v.SidebarBg)
	assert.Equal(t, VioletRose, v.Simple())
}

func TestCSS(t *testing.T) {
	css := Derive(VioletRose).CSS()
	assert.True(t, strings.HasPrefix(css, ":root {\n"))
	assert.Contains(t, css, "  --primary-color: #E0569A;\n")
	assert.Contains(t, css, "  --calendar-bg: #2D155A;\n")
}

func TestValidHex(t *testing.T) {
	assert.True(t, ValidHex("#a1B2c3"))
	assert.False(t, ValidHex("a1b2c3"))
	assert.False(t, ValidHex("#abc"))
}

func TestLoadWritesPresetWhenMissingOrStale(t *testing.T) {
	store := kvstore.Open(t.TempDir())

	v, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, Derive(VioletRose), v)
	_, err = os.Stat(store.Path(kvstore.KeyTheme))
	require.NoError(t, err, "preset persisted")

	require.NoError(t, store.Put(kvstore.KeyTheme, []byte(`{"version":"old","primary":"#000000"}`)))
	v, err = Load(store)
	require.NoError(t, err)
	assert.Equal(t, "#E0569A", v.Primary)
}

func TestApplyPersists(t *testing.T) {
	store := kvstore.Open(t.TempDir())
	custom := Simple{Primary: "#112233", Secondary: "#445566", Bg: "#000000", Text: "#ffffff"}

	_, err := Apply(store, custom)
	require.NoError(t, err)

	v, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, custom, v.Simple())
	assert.Equal(t, "rgba(17,34,51,0.12)", HexToRGBA(v.Primary, 0.12))
}
