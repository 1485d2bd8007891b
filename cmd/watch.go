/*
Copyright © 2025 Optomech Instruments
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/optomech/go-mdt694b/internal/tui/components"
	"github.com/optomech/go-mdt694b/internal/tui/keys"
	"github.com/optomech/go-mdt694b/internal/tui/models"
	"github.com/optomech/go-mdt694b/internal/tui/styles"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive voltage monitor and control",
	Long: `Watch the controller's output voltage in real time with an interactive
terminal interface.

The display shows the live output voltage, a rolling history of readings
and moves, and a setpoint input field. Features include:
- Continuous voltage polling with timestamps
- Setpoint entry with input history
- One-key nudging (±1V) and return-to-zero
- Connection status and device identity in the status bar

Example usage:
  mdt694b watch
  mdt694b watch --sim
  mdt694b watch --poll-interval 500ms`,
	Run: func(cmd *cobra.Command, args []string) {
		sim, _ := cmd.Flags().GetBool("sim")
		pollInterval, _ := cmd.Flags().GetDuration("poll-interval")

		if err := runWatchTUI(cmd, sim, pollInterval); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	simFlag(watchCmd)

	watchCmd.Flags().Duration("poll-interval", time.Second, "Wait between display refresh readings")
}

// pollTickMsg triggers the next voltage reading.
type pollTickMsg struct{}

// watchModel represents the Bubble Tea model for the watch command
type watchModel struct {
	*models.PiezoModel
	readout   *components.Readout
	statusBar *components.StatusBar
	input     *components.SetpointInput
	help      help.Model
	keys      keys.WatchKeys

	pollInterval time.Duration
	connect      tea.Cmd
}

func runWatchTUI(cmd *cobra.Command, sim bool, pollInterval time.Duration) error {
	path := portPath()
	if sim {
		path = "simulator"
	}

	m := &watchModel{
		PiezoModel:   models.NewPiezoModel(path),
		readout:      components.NewReadout(0, 0), // sized by WindowSizeMsg
		statusBar:    components.NewStatusBar("MDT694B Watch", path),
		input:        components.NewSetpointInput(),
		help:         help.New(),
		keys:         keys.NewWatchKeys(),
		pollInterval: pollInterval,
	}
	m.statusBar.SetConnecting()

	// Connect in the background so the UI comes up immediately.
	m.connect = func() tea.Msg {
		ctl, err := openController(cmd, sim)
		if err != nil {
			return models.ConnectionStatusMsg{Connected: false, Error: err}
		}
		m.SetController(ctl)
		return models.ConnectionStatusMsg{Connected: true}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	m.Cleanup()
	return err
}

func (m *watchModel) Init() tea.Cmd {
	return m.connect
}

func (m *watchModel) nextTick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m *watchModel) readCmd() tea.Cmd {
	return func() tea.Msg {
		v, err := m.ReadVoltage()
		return models.ReadingMsg{Timestamp: time.Now(), Voltage: v, Err: err}
	}
}

func (m *watchModel) moveCmd(target float64) tea.Cmd {
	m.SetMoving(true)
	return func() tea.Msg {
		return m.Move(target)
	}
}

// startMoveTo validates the target against the device range before firing.
func (m *watchModel) startMoveTo(target float64) tea.Cmd {
	limit := float64(m.VoltageLimit())
	if target < 0 {
		target = 0
	}
	if target > limit {
		target = limit
	}
	return m.moveCmd(target)
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		inputHeight := 3
		statusBarHeight := 1
		helpHeight := 1
		voltageHeight := 2
		m.readout.SetSize(msg.Width, msg.Height-inputHeight-statusBarHeight-helpHeight-voltageHeight)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.SetReady(true)

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
			break
		}
		m.statusBar.SetConnected()
		if id, limit, ok := m.DeviceInfo(); ok {
			framing := viper.GetString("framing")
			if framing == "" {
				framing = "delimiter"
			}
			m.statusBar.SetLinkInfo(&components.LinkInfo{
				BaudRate:     115200,
				Framing:      framing,
				Model:        id.Model,
				VoltageLimit: limit,
			})
		}
		cmds = append(cmds, m.readCmd())

	case pollTickMsg:
		if m.IsMoving() {
			// A move is mid-flight; it reports its own settled reading.
			cmds = append(cmds, m.nextTick())
			break
		}
		cmds = append(cmds, m.readCmd())

	case models.ReadingMsg:
		if msg.Err != nil {
			m.SetError(msg.Err)
			m.statusBar.SetDisconnected(msg.Err)
			break
		}
		m.readout.AddEntry(components.ReadoutEntry{
			Timestamp: msg.Timestamp,
			Event:     "reading",
			Voltage:   msg.Voltage,
		})
		cmds = append(cmds, m.nextTick())

	case models.MoveResultMsg:
		m.SetMoving(false)
		if msg.Err != nil {
			m.SetError(msg.Err)
			m.readout.AddEntry(components.ReadoutEntry{
				Timestamp: msg.Timestamp,
				Event:     fmt.Sprintf("move failed: %v", msg.Err),
				Voltage:   msg.Voltage,
			})
			break
		}
		m.SetError(nil)
		m.readout.AddEntry(components.ReadoutEntry{
			Timestamp: msg.Timestamp,
			Event:     fmt.Sprintf("settled in %s", msg.Elapsed.Round(time.Millisecond)),
			Voltage:   msg.Voltage,
		})

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				return m, tea.Batch(cmds...)
			case key.Matches(msg, m.keys.Enter):
				target, err := m.input.Voltage()
				if err != nil {
					m.SetError(err)
					return m, tea.Batch(cmds...)
				}
				m.input.AddToHistory(m.input.Value())
				m.input.SetValue("")
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				cmds = append(cmds, m.startMoveTo(target))
				return m, tea.Batch(cmds...)
			case key.Matches(msg, m.keys.Up):
				m.input.NavigateHistoryUp()
				return m, tea.Batch(cmds...)
			case key.Matches(msg, m.keys.Down):
				m.input.NavigateHistoryDown()
				return m, tea.Batch(cmds...)
			}
		} else {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.Cleanup()
				return m, tea.Quit

			case key.Matches(msg, m.keys.InsertMode):
				m.SetInputMode(models.InputModeInsert)
				m.input.Focus()
				return m, tea.Batch(cmds...)

			case key.Matches(msg, m.keys.Zero):
				if m.IsConnected() && !m.IsMoving() {
					cmds = append(cmds, m.startMoveTo(0))
				}

			case key.Matches(msg, m.keys.Up):
				if m.IsConnected() && !m.IsMoving() {
					cmds = append(cmds, m.startMoveTo(m.LastVoltage()+1))
				}

			case key.Matches(msg, m.keys.Down):
				if m.IsConnected() && !m.IsMoving() {
					cmds = append(cmds, m.startMoveTo(m.LastVoltage()-1))
				}

			case key.Matches(msg, m.keys.Clear):
				m.readout.Clear()

			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
			}
		}
	}

	if m.IsInInsertMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *watchModel) View() string {
	var content string
	if m.IsReady() {
		content = m.readout.View()
	} else {
		content = "Initializing..."
	}

	// Live voltage line above the history table.
	voltageStyle := styles.VoltageStyle
	state := "settled"
	if m.IsMoving() {
		voltageStyle = styles.VoltageMovingStyle
		state = "moving"
	}
	voltageLine := voltageStyle.Render(fmt.Sprintf("  %.2f V", m.LastVoltage())) +
		lipgloss.NewStyle().Faint(true).Render("  ("+state+")")
	if err := m.GetError(); err != nil {
		voltageLine += "  " + styles.StatusErrorStyle.Render(err.Error())
	}

	input := m.input.ViewWithMode(m.IsInInsertMode())

	statusBar := m.statusBar.View(
		m.GetInputMode().String(),
		m.IsConnected(),
		m.IsMoving(),
		time.Now().Format("15:04:05"),
	)

	contentWithBorder := styles.ContentBorderStyle.Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		voltageLine,
		contentWithBorder,
		input,
		statusBar,
		m.help.View(m.keys),
	)
}
