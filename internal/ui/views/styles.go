package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Filter       lipgloss.Style
	Help         lipgloss.Style
	Tooltip      lipgloss.Style
	Header       lipgloss.Style
	SelectedRow  lipgloss.Style
	BulkMark     lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Region       lipgloss.Style
	Hovered      lipgloss.Style
	Selected     lipgloss.Style
	MultiMark    lipgloss.Style
	PlanBuilding lipgloss.Style
	Elevate      lipgloss.Style
	Pulse        lipgloss.Style
	Compass      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Help:        lipgloss.NewStyle().Faint(true),
		Tooltip: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		SelectedRow:  lipgloss.NewStyle().Background(lipgloss.Color("238")),
		BulkMark:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		TabActive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		TabInactive:  lipgloss.NewStyle().Faint(true),
		Region:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Hovered:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Selected:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MultiMark:    lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		PlanBuilding: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Elevate:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Pulse:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Compass:      lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	}
}

// VendorStyle returns the style for a vendor overlay layer
func (s *Styles) VendorStyle(layer string) lipgloss.Style {
	switch layer {
	case "vendor_elevate":
		return s.Elevate
	case "vendor_pulse":
		return s.Pulse
	case "vendor_compass":
		return s.Compass
	default:
		return s.Region
	}
}
