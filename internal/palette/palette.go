// Package palette derives the full set of theme variables from four base colors.
package palette

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version tags vars produced by Derive. Stored vars with another version are replaced.
const Version = "simple-v1"

// Simple is the user-editable part of a theme.
type Simple struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Bg        string `json:"bg"`
	Text      string `json:"text"`
}

// Vars is the complete theme document stored under themeVars.
type Vars struct {
	Version           string `json:"version"`
	Primary           string `json:"primary"`
	PrimaryDark       string `json:"primaryDark"`
	Secondary         string `json:"secondary"`
	Success           string `json:"success"`
	Info              string `json:"info"`
	Warning           string `json:"warning"`
	Danger            string `json:"danger"`
	Light             string `json:"light"`
	Dark              string `json:"dark"`
	Bg                string `json:"bg"`
	CardBg            string `json:"cardBg"`
	CardHover         string `json:"cardHover"`
	Text              string `json:"text"`
	TextMuted         string `json:"textMuted"`
	Border            string `json:"border"`
	GlassBg           string `json:"glassBg"`
	GlassBorder       string `json:"glassBorder"`
	SidebarBgHex      string `json:"sidebarBgHex"`
	CalendarBgHex     string `json:"calendarBgHex"`
	HeadingMode       string `json:"headingMode"`
	HeadingColor1     string `json:"headingColor1"`
	HeadingColor2     string `json:"headingColor2"`
	MiniHeadingMode   string `json:"miniHeadingMode"`
	MiniHeadingColor1 string `json:"miniHeadingColor1"`
	MiniHeadingColor2 string `json:"miniHeadingColor2"`
	ThemeMode         string `json:"themeMode"`
	ThemeColor1       string `json:"themeColor1"`
	ThemeColor2       string `json:"themeColor2"`
	CommonText        string `json:"commonText"`

	HeadingFill     string `json:"headingFill"`
	MiniHeadingFill string `json:"miniHeadingFill"`
	ThemeFill       string `json:"themeFill"`
	SidebarBg       string `json:"sidebarBg"`
	CalendarBg      string `json:"calendarBg"`
}

// VioletRose is the built-in preset.
var VioletRose = Simple{
	Primary:   "#E0569A",
	Secondary: "#FFB0B8",
	Bg:        "#2D155A",
	Text:      "#FCE7F3",
}

// Derive expands s into a full theme. Accent colors are fixed.
func Derive(s Simple) Vars {
	v := Vars{
		Version:           Version,
		Primary:           s.Primary,
		PrimaryDark:       s.Primary,
		Secondary:         s.Secondary,
		Success:           "#34d399",
		Info:              "#c4b5fd",
		Warning:           "#fbbf24",
		Danger:            "#ef4444",
		Light:             "#fde7f3",
		Dark:              s.Bg,
		Bg:                s.Bg,
		CardBg:            s.Bg,
		CardHover:         s.Bg,
		Text:              s.Text,
		TextMuted:         "#D8B4E2",
		Border:            "#ffffff1f",
		GlassBg:           "rgba(45,21,90,0.72)",
		GlassBorder:       "#ffffff1f",
		SidebarBgHex:      s.Secondary,
		CalendarBgHex:     s.Bg,
		HeadingMode:       "static",
		HeadingColor1:     s.Text,
		HeadingColor2:     s.Primary,
		MiniHeadingMode:   "gradient",
		MiniHeadingColor1: s.Secondary,
		MiniHeadingColor2: s.Primary,
		ThemeMode:         "gradient",
		ThemeColor1:       s.Primary,
		ThemeColor2:       s.Secondary,
		CommonText:        s.Text,
	}
	v.HeadingFill = fmt.Sprintf("linear-gradient(0deg, %s, %s)", v.HeadingColor1, v.HeadingColor1)
	v.MiniHeadingFill = fmt.Sprintf("linear-gradient(90deg, %s, %s)", v.MiniHeadingColor1, v.MiniHeadingColor2)
	v.ThemeFill = fmt.Sprintf("linear-gradient(135deg, %s, %s)", v.ThemeColor1, v.ThemeColor2)
	v.SidebarBg = fmt.Sprintf("linear-gradient(180deg, %s, %s 60%%, %s)",
		HexToRGBA(s.Primary, 0.12), HexToRGBA(s.Secondary, 0.08), v.SidebarBgHex)
	v.CalendarBg = v.Bg
	return v
}

// Simple returns the four base colors of v.
func (v Vars) Simple() Simple {
	return Simple{Primary: v.Primary, Secondary: v.Secondary, Bg: v.Bg, Text: v.Text}
}

var hexRe = regexp.MustCompile(`^(?i)#?([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})$`)

// HexToRGBA converts "#rrggbb" to "rgba(r,g,b,a)". Anything else is black.
func HexToRGBA(hex string, alpha float64) string {
	a := strconv.FormatFloat(alpha, 'f', -1, 64)
	m := hexRe.FindStringSubmatch(hex)
	if m == nil {
		return "rgba(0,0,0," + a + ")"
	}
	r, _ := strconv.ParseUint(m[1], 16, 8)
	g, _ := strconv.ParseUint(m[2], 16, 8)
	b, _ := strconv.ParseUint(m[3], 16, 8)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, a)
}

// ValidHex reports whether s is a "#rrggbb" color.
func ValidHex(s string) bool {
	return strings.HasPrefix(s, "#") && hexRe.MatchString(s)
}

// CSS renders v as custom properties on :root.
func (v Vars) CSS() string {
	props := []struct{ name, value string }{
		{"--primary-color", v.Primary},
		{"--primary-dark", v.PrimaryDark},
		{"--secondary-color", v.Secondary},
		{"--bg-color", v.Bg},
		{"--text-color", v.Text},
		{"--success-color", v.Success},
		{"--info-color", v.Info},
		{"--warning-color", v.Warning},
		{"--danger-color", v.Danger},
		{"--light-color", v.Light},
		{"--dark-color", v.Dark},
		{"--card-bg", v.CardBg},
		{"--card-hover", v.CardHover},
		{"--text-muted", v.TextMuted},
		{"--border-color", v.Border},
		{"--glass-bg", v.GlassBg},
		{"--glass-border", v.GlassBorder},
		{"--heading-fill", v.HeadingFill},
		{"--mini-heading-fill", v.MiniHeadingFill},
		{"--theme-fill", v.ThemeFill},
		{"--sidebar-bg", v.SidebarBg},
		{"--calendar-bg", v.CalendarBg},
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, p := range props {
		if p.value == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s: %s;\n", p.name, p.value)
	}
	b.WriteString("}\n")
	return b.String()
}
