package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/optomech/go-mdt694b/internal/tui/colors"
	"github.com/optomech/go-mdt694b/internal/tui/styles"
)

// LinkInfo describes the serial link and device shown in the status bar.
type LinkInfo struct {
	BaudRate     int
	Framing      string
	Model        string
	VoltageLimit int
}

type StatusBar struct {
	title    string
	portPath string
	status   string
	err      error
	width    int
	linkInfo *LinkInfo
}

func NewStatusBar(title, portPath string) *StatusBar {
	return &StatusBar{
		title:    title,
		portPath: portPath,
		status:   "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetLinkInfo(info *LinkInfo) {
	sb.linkInfo = info
}

func (sb *StatusBar) SetConnecting() {
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

// View renders the full-width status bar: mode indicator, port path,
// connection state, link details and a timestamp.
func (sb *StatusBar) View(inputMode string, connected, moving bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Mode indicator (like NORMAL in nvim)
	var modeStyle lipgloss.Style
	if inputMode == "INSERT" {
		modeStyle = lipgloss.NewStyle().
			Foreground(colors.Base).
			Background(colors.Green).
			Bold(true).
			Padding(0, 1)
	} else {
		modeStyle = lipgloss.NewStyle().
			Foreground(colors.Base).
			Background(colors.Blue).
			Bold(true).
			Padding(0, 1)
	}
	mode := modeStyle.Render(inputMode)

	portStyle := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1)
	port := portStyle.Render(sb.portPath)

	// Single character connection indicator
	var connIndicator string
	var connStyle lipgloss.Style
	switch {
	case sb.err != nil:
		connStyle = styles.StatusErrorStyle
		connIndicator = "✗"
	case moving:
		connStyle = styles.StatusMovingStyle
		connIndicator = "◐"
	case connected:
		connStyle = styles.StatusConnectedStyle
		connIndicator = "●"
	default:
		connStyle = styles.StatusMovingStyle
		connIndicator = "○"
	}
	connectionIndicator := connStyle.Render(connIndicator)

	var linkText string
	if sb.linkInfo != nil {
		linkText = fmt.Sprintf("⚡ %d baud %s framing │ %s │ 0-%dV",
			sb.linkInfo.BaudRate,
			sb.linkInfo.Framing,
			sb.linkInfo.Model,
			sb.linkInfo.VoltageLimit)
	} else {
		linkText = "⚡ " + sb.status
	}
	linkStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1)
	linkDetails := linkStyle.Render(linkText)

	timeStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1)
	clock := timeStyle.Render(timestamp)

	dividerStyle := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1)
	divider := dividerStyle.Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, connectionIndicator, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, linkDetails, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth)

	content := lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide)
	return statusBarStyle.Render(content)
}
