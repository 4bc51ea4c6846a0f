// Package theme defines color themes for the msj TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/theirongolddev/msj/internal/palette"
)

// PaletteName is the theme that follows the stored site palette.
const PaletteName = "violet-rose"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Selected row, active tab
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderBright  lipgloss.Color
	BorderAccent  lipgloss.Color // Focused cards
	TextDim       lipgloss.Color // Hints, disabled
	TextMuted     lipgloss.Color // Labels, metadata
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	AccentDim     lipgloss.Color
	Green         lipgloss.Color
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Blue          lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// FromPalette maps site theme variables onto TUI color roles. Surfaces are
// blended from the background toward the text color.
func FromPalette(name string, v palette.Vars) Theme {
	return Theme{
		Name:          name,
		Background:    lipgloss.Color(v.Bg),
		Surface:       blend(v.Bg, v.Text, 0.06),
		SurfaceHover:  blend(v.Bg, v.Text, 0.12),
		SurfaceBright: blend(v.Bg, v.Text, 0.18),
		Border:        blend(v.Bg, v.Text, 0.25),
		BorderBright:  blend(v.Bg, v.Text, 0.40),
		BorderAccent:  lipgloss.Color(v.Primary),
		TextDim:       blend(v.Bg, v.TextMuted, 0.55),
		TextMuted:     lipgloss.Color(v.TextMuted),
		TextPrimary:   lipgloss.Color(v.Text),
		Accent:        lipgloss.Color(v.Primary),
		AccentBright:  lipgloss.Color(v.Secondary),
		AccentDim:     blend(v.Bg, v.Primary, 0.30),
		Green:         lipgloss.Color(v.Success),
		GreenBright:   blend(v.Success, "#ffffff", 0.30),
		Orange:        lipgloss.Color(v.Warning),
		Red:           lipgloss.Color(v.Danger),
		Blue:          lipgloss.Color(v.Info),
		Yellow:        lipgloss.Color(v.Warning),
		Magenta:       lipgloss.Color(v.Primary),
		Cyan:          lipgloss.Color(v.Info),
	}
}

// blend mixes two "#rrggbb" colors in Lab space. Unparseable input yields a.
func blend(a, b string, t float64) lipgloss.Color {
	ca, err := colorful.Hex(a)
	if err != nil {
		return lipgloss.Color(a)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return lipgloss.Color(a)
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// VioletRose is the default theme, derived from the built-in site palette.
var VioletRose = FromPalette(PaletteName, palette.Derive(palette.VioletRose))

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderBright:  lipgloss.Color("#575653"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	AccentDim:     lipgloss.Color("#1A3533"),
	Green:         lipgloss.Color("#879A39"),
	GreenBright:   lipgloss.Color("#A3B859"),
	Orange:        lipgloss.Color("#DA702C"),
	Red:           lipgloss.Color("#D14D41"),
	Blue:          lipgloss.Color("#4385BE"),
	Yellow:        lipgloss.Color("#D0A215"),
	Magenta:       lipgloss.Color("#CE5D97"),
	Cyan:          lipgloss.Color("#24837B"),
}

// Terminal uses the 16 ANSI colors so the terminal's own scheme shows through.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("5"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("5"),
	AccentBright:  lipgloss.Color("13"),
	AccentDim:     lipgloss.Color("0"),
	Green:         lipgloss.Color("2"),
	GreenBright:   lipgloss.Color("10"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Blue:          lipgloss.Color("4"),
	Yellow:        lipgloss.Color("3"),
	Magenta:       lipgloss.Color("5"),
	Cyan:          lipgloss.Color("6"),
}

// Active is the currently selected theme.
var Active = VioletRose

// All available themes.
var All = []Theme{VioletRose, FlexokiDark, Terminal}

// ByName returns a theme by its name, defaulting to VioletRose.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return All[0]
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// SetPalette rebuilds the palette theme from stored site variables.
func SetPalette(v palette.Vars) {
	t := FromPalette(PaletteName, v)
	for i := range All {
		if All[i].Name == PaletteName {
			All[i] = t
		}
	}
	if Active.Name == PaletteName {
		Active = t
	}
}
