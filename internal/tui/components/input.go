package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/optomech/go-mdt694b/internal/tui/colors"
	"github.com/optomech/go-mdt694b/internal/tui/styles"
)

// SetpointInput is the voltage entry field shown at the bottom of the
// watch UI, with recall of previously entered setpoints.
type SetpointInput struct {
	textInput     textinput.Model
	history       []string
	historyIndex  int
	currentInput  string // input saved while navigating history
	terminalWidth int
}

func NewSetpointInput() *SetpointInput {
	ti := textinput.New()
	ti.Placeholder = "Enter target voltage (e.g. 42.5)..."
	ti.CharLimit = 16
	ti.Prompt = "" // prompt styling is handled in ViewWithMode

	return &SetpointInput{
		textInput:    ti,
		history:      make([]string, 0),
		historyIndex: -1,
	}
}

func (i *SetpointInput) SetWidth(width int) {
	i.terminalWidth = width
	usableWidth := width - 6
	if usableWidth < 20 {
		usableWidth = 20
	}
	i.textInput.Width = usableWidth
}

func (i *SetpointInput) Focus() {
	i.textInput.Focus()
}

func (i *SetpointInput) Blur() {
	i.textInput.Blur()
}

func (i *SetpointInput) Value() string {
	return i.textInput.Value()
}

func (i *SetpointInput) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Voltage parses the entered text as a setpoint.
func (i *SetpointInput) Voltage() (float64, error) {
	text := strings.TrimSpace(i.textInput.Value())
	if text == "" {
		return 0, fmt.Errorf("empty setpoint")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid voltage %q", text)
	}
	return v, nil
}

func (i *SetpointInput) Update(msg tea.Msg) (*SetpointInput, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *SetpointInput) ViewWithMode(isInsertMode bool) string {
	promptStyle := lipgloss.NewStyle().
		Foreground(colors.Green).
		Bold(true)
	styledPrompt := promptStyle.Render("V›")

	var inputContent string
	if isInsertMode {
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", i.textInput.View())
	} else {
		instruction := lipgloss.NewStyle().
			Foreground(colors.Overlay0).
			Render("Press 'i' to enter a setpoint, '0' to return to 0V")
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", instruction)
	}

	adjustedWidth := i.terminalWidth - 4
	if adjustedWidth < 10 {
		adjustedWidth = 10
	}

	inputStyle := styles.InputStyle.
		Width(adjustedWidth).
		AlignHorizontal(lipgloss.Left)
	if isInsertMode {
		inputStyle = inputStyle.BorderForeground(colors.Green)
	}

	return inputStyle.Render(inputContent)
}

// AddToHistory records an applied setpoint for later recall
func (i *SetpointInput) AddToHistory(setpoint string) {
	setpoint = strings.TrimSpace(setpoint)
	if setpoint == "" {
		return
	}
	if len(i.history) > 0 && i.history[len(i.history)-1] == setpoint {
		return
	}

	i.history = append(i.history, setpoint)
	if len(i.history) > 100 {
		i.history = i.history[1:]
	}

	i.historyIndex = -1
	i.currentInput = ""
}

// NavigateHistoryUp moves to the previous setpoint
func (i *SetpointInput) NavigateHistoryUp() {
	if len(i.history) == 0 {
		return
	}

	if i.historyIndex == -1 {
		i.currentInput = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}

	i.textInput.SetValue(i.history[i.historyIndex])
}

// NavigateHistoryDown moves toward the most recent setpoint
func (i *SetpointInput) NavigateHistoryDown() {
	if len(i.history) == 0 || i.historyIndex == -1 {
		return
	}

	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
	} else {
		i.historyIndex = -1
		i.textInput.SetValue(i.currentInput)
		i.currentInput = ""
	}
}
