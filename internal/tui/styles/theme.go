package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/optomech/go-mdt694b/internal/tui/colors"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusMovingStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	// Voltage readout styles
	VoltageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Green)

	VoltageMovingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colors.Yellow)
)

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusMoving
	StatusDisconnected
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusMoving:
		return StatusMovingStyle
	case StatusDisconnected, StatusError:
		return StatusErrorStyle
	default:
		return StatusErrorStyle
	}
}
