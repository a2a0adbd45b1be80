package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/recapmd/internal/config"
	"github.com/gubarz/recapmd/internal/item"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// List view styles
	Title    lipgloss.Style
	Updated  lipgloss.Style
	Done     lipgloss.Style
	New      lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Detail styles
	DetailTitle lipgloss.Style
	Description lipgloss.Style
	Comment     lipgloss.Style
	NewComment  lipgloss.Style

	// Chrome styles
	Border  lipgloss.Style
	Divider lipgloss.Style
	Error   lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Title:       lipgloss.NewStyle(),
		Updated:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Done:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		New:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		DetailTitle: lipgloss.NewStyle().Bold(true),
		Description: lipgloss.NewStyle().Italic(true),
		Comment:     lipgloss.NewStyle(),
		NewComment:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		SelectedBg:  lipgloss.Color("236"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	titleColor := parseANSIColor(config.GetColorTitle())
	updatedColor := parseANSIColor(config.GetColorUpdated())
	doneColor := parseANSIColor(config.GetColorDone())
	newColor := parseANSIColor(config.GetColorNew())
	borderColor := lipgloss.Color(config.GetColorBorder())
	cursorColor := lipgloss.Color(config.GetColorCursor())
	selectedBg := lipgloss.Color(config.GetColorSelected())
	dimColor := lipgloss.Color(config.GetColorDim())

	s.Title = lipgloss.NewStyle().Foreground(titleColor)
	s.Updated = lipgloss.NewStyle().Foreground(updatedColor)
	s.Done = lipgloss.NewStyle().Foreground(doneColor)
	s.New = lipgloss.NewStyle().Foreground(newColor)
	s.Selected = lipgloss.NewStyle().Background(selectedBg)
	s.Cursor = lipgloss.NewStyle().Foreground(cursorColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)

	s.DetailTitle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	s.Description = lipgloss.NewStyle().Italic(true).Foreground(titleColor)
	s.Comment = lipgloss.NewStyle().Foreground(titleColor)
	s.NewComment = lipgloss.NewStyle().Foreground(newColor)

	s.Border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor)
	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
	s.SelectedBg = selectedBg
}

// ForState picks the title style for an item's tag state
func (s *StyleManager) ForState(st item.State) lipgloss.Style {
	switch st {
	case item.StateDone:
		return s.Done
	case item.StateUpdated:
		return s.Updated
	default:
		return s.Title
	}
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
