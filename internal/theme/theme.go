// Package theme derives the TUI colors from the terminal's own config, so
// the browser blends in with whatever the operator already uses.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the small set of colors every style is built from.
type Palette struct {
	BG       string
	FG       string
	Muted    string
	Accent   string // selection marker, "move" badges
	AccentBg string // selected row
	Warning  string
	Error    string
}

// DefaultPalette is used when no terminal config is found.
func DefaultPalette() Palette {
	return Palette{
		BG:       "#101418",
		FG:       "#d8dee9",
		Muted:    "#6c7480",
		Accent:   "#88c0d0",
		AccentBg: "#2e3440",
		Warning:  "#ebcb8b",
		Error:    "#bf616a",
	}
}

// Styles are the lipgloss styles used by the browser.
type Styles struct {
	Header      lipgloss.Style
	Breadcrumb  lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Dir         lipgloss.Style
	Muted       lipgloss.Style
	MoveBadge   lipgloss.Style
	DeleteBadge lipgloss.Style
	StatusBar   lipgloss.Style
	Info        lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	Option      lipgloss.Style
	OptionOn    lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// NewStyles builds the styles for p.
func NewStyles(p Palette) Styles {
	fg := lipgloss.Color(p.FG)
	muted := lipgloss.Color(p.Muted)
	accent := lipgloss.Color(p.Accent)

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true).
			Padding(0, 1),
		Breadcrumb: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Item:     lipgloss.NewStyle().Foreground(fg),
		Selected: lipgloss.NewStyle().Foreground(fg).Background(lipgloss.Color(p.AccentBg)).Bold(true),
		Dir:      lipgloss.NewStyle().Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		MoveBadge: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		DeleteBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Info:    lipgloss.NewStyle().Foreground(fg),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		Dialog: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		DialogTitle: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),
		Option:   lipgloss.NewStyle().Foreground(muted),
		OptionOn: lipgloss.NewStyle().Foreground(fg).Background(lipgloss.Color(p.AccentBg)).Bold(true),
		HelpKey:  lipgloss.NewStyle().Foreground(accent),
		HelpDesc: lipgloss.NewStyle().Foreground(muted),
	}
}

// Load detects the palette for the current user and builds its styles.
func Load() (Palette, Styles) {
	p := Detect()
	return p, NewStyles(p)
}
