package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/optomech/go-mdt694b/internal/tui/colors"
)

const (
	columnKeyTime    = "time"
	columnKeyEvent   = "event"
	columnKeyVoltage = "voltage"
)

// ReadoutEntry is one row of the voltage history: a poll reading or a
// move-related event.
type ReadoutEntry struct {
	Timestamp time.Time
	Event     string
	Voltage   float64
}

// Readout shows the rolling voltage history as a table, newest row last.
type Readout struct {
	table   table.Model
	entries []ReadoutEntry
	height  int
}

func NewReadout(width, height int) *Readout {
	if width < 40 {
		width = 40
	}
	if height < 5 {
		height = 5
	}

	columns := []table.Column{
		table.NewColumn(columnKeyTime, "Time", 14),
		table.NewColumn(columnKeyEvent, "Event", 20),
		table.NewColumn(columnKeyVoltage, "Voltage", 12),
	}

	t := table.New(columns).
		WithTargetWidth(width).
		WithPageSize(height).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(colors.Text).
			BorderForeground(colors.Surface1)).
		Focused(false)

	return &Readout{
		table:   t,
		entries: make([]ReadoutEntry, 0),
		height:  height,
	}
}

func (r *Readout) SetSize(width, height int) {
	if height < 1 {
		height = 1
	}
	r.height = height
	r.table = r.table.WithTargetWidth(width).WithPageSize(height)
	r.refresh()
}

// AddEntry appends a history row, keeping a bounded backlog.
func (r *Readout) AddEntry(entry ReadoutEntry) {
	r.entries = append(r.entries, entry)
	if len(r.entries) > 500 {
		r.entries = r.entries[len(r.entries)-500:]
	}
	r.refresh()
}

func (r *Readout) Clear() {
	r.entries = r.entries[:0]
	r.refresh()
}

// refresh rebuilds the visible rows from the newest entries.
func (r *Readout) refresh() {
	visible := r.entries
	if len(visible) > r.height {
		visible = visible[len(visible)-r.height:]
	}

	rows := make([]table.Row, len(visible))
	for i, entry := range visible {
		rows[i] = table.NewRow(table.RowData{
			columnKeyTime:    entry.Timestamp.Format("15:04:05.000"),
			columnKeyEvent:   entry.Event,
			columnKeyVoltage: fmt.Sprintf("%.2f V", entry.Voltage),
		})
	}
	r.table = r.table.WithRows(rows)
}

func (r *Readout) Update(msg tea.Msg) (*Readout, tea.Cmd) {
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

func (r *Readout) View() string {
	return r.table.View()
}
