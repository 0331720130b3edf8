package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name        string
	Susceptible lipgloss.Color
	Infected    lipgloss.Color
	Recovered   lipgloss.Color
	Accent      lipgloss.Color
	Muted       lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:        "classic",
		Susceptible: lipgloss.Color("#1f77b4"),
		Infected:    lipgloss.Color("#d62728"),
		Recovered:   lipgloss.Color("#2ca02c"),
		Accent:      lipgloss.Color("#00ffff"),
		Muted:       lipgloss.Color("#666688"),
	}

	ThemeNeon = Theme{
		Name:        "neon",
		Susceptible: lipgloss.Color("#00ffff"),
		Infected:    lipgloss.Color("#ff00ff"),
		Recovered:   lipgloss.Color("#ffff00"),
		Accent:      lipgloss.Color("#ff00ff"),
		Muted:       lipgloss.Color("#666666"),
	}

	ThemeSunset = Theme{
		Name:        "sunset",
		Susceptible: lipgloss.Color("#feca57"),
		Infected:    lipgloss.Color("#ff4757"),
		Recovered:   lipgloss.Color("#5fd068"),
		Accent:      lipgloss.Color("#ff9ff3"),
		Muted:       lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeNeon,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// layerStyles returns the S, I and R styles in canvas layer order.
func (t Theme) layerStyles() []lipgloss.Style {
	return []lipgloss.Style{
		lipgloss.NewStyle().Foreground(t.Susceptible),
		lipgloss.NewStyle().Foreground(t.Infected),
		lipgloss.NewStyle().Foreground(t.Recovered),
	}
}
