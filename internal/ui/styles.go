package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("36")  // Teal
	ColorSecondary = lipgloss.Color("244") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorInk       = lipgloss.Color("236") // Near black
	ColorBlue      = lipgloss.Color("75")  // Blue for assistant replies
)

// Theme is one colour scheme of the dashboard.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
}

var (
	LightTheme = Theme{
		Name:    "light",
		Primary: ColorPrimary,
		Muted:   ColorSecondary,
		Text:    ColorInk,
		Success: lipgloss.Color("28"),
		Error:   ColorError,
		Warning: lipgloss.Color("166"),
		Accent:  lipgloss.Color("25"),
		Border:  lipgloss.Color("250"),
	}
	DarkTheme = Theme{
		Name:    "dark",
		Primary: lipgloss.Color("43"),
		Muted:   lipgloss.Color("241"),
		Text:    ColorText,
		Success: ColorSuccess,
		Error:   lipgloss.Color("203"),
		Warning: ColorWarning,
		Accent:  ColorBlue,
		Border:  lipgloss.Color("238"),
	}
)

// ThemeFor picks the scheme for the dark-mode flag.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Theme Theme

	Title        lipgloss.Style
	Subtle       lipgloss.Style
	Primary      lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Text         lipgloss.Style
	Accent       lipgloss.Style
	SectionTitle lipgloss.Style

	Card      lipgloss.Style
	CardMuted lipgloss.Style
	CardBest  lipgloss.Style

	SidebarItem   lipgloss.Style
	SidebarActive lipgloss.Style

	Notice lipgloss.Style
	Input  lipgloss.Style
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return Styles{
		Theme: t,

		Title:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		Primary: lipgloss.NewStyle().Foreground(t.Primary),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Text:    lipgloss.NewStyle().Foreground(t.Text),
		Accent:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		SectionTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Underline(true),

		Card:      card,
		CardMuted: card.Foreground(t.Muted),
		CardBest:  card.BorderForeground(t.Primary),

		SidebarItem: lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		SidebarActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Notice: lipgloss.NewStyle().Foreground(t.Success).Italic(true),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
