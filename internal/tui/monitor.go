// Package tui contains the live modem-signal monitor shown by the
// monitor command.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/allbin/linktest/serial"
)

const (
	columnKeySignal = "signal"
	columnKeyName   = "name"
	columnKeyState  = "state"
)

type tickMsg time.Time

// Monitor polls a port's modem signals and renders them in a table.
type Monitor struct {
	port     serial.Port
	path     string
	interval time.Duration

	table   table.Model
	keys    monitorKeys
	help    help.Model
	signals serial.ModemSignals
	err     error
}

// NewMonitor creates a monitor model for an open port.
func NewMonitor(port serial.Port, path string, interval time.Duration) *Monitor {
	columns := []table.Column{
		table.NewColumn(columnKeySignal, "Signal", 8),
		table.NewColumn(columnKeyName, "Name", 24),
		table.NewColumn(columnKeyState, "State", 8),
	}

	return &Monitor{
		port:     port,
		path:     path,
		interval: interval,
		table:    table.New(columns).BorderRounded().WithBaseStyle(tableStyle),
		keys:     newMonitorKeys(),
		help:     help.New(),
	}
}

func (m *Monitor) Init() tea.Cmd {
	return m.tick()
}

func (m *Monitor) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tickMsg:
		m.signals, m.err = m.port.GetModemSignals()
		m.table = m.table.WithRows(m.rows())
		return m, m.tick()
	}

	return m, nil
}

func (m *Monitor) rows() []table.Row {
	state := func(up bool) string {
		if up {
			return highStyle.Render("HIGH")
		}
		return lowStyle.Render("LOW")
	}

	lines := []struct {
		signal string
		name   string
		up     bool
	}{
		{"CTS", "Clear To Send", m.signals.CTS},
		{"DSR", "Data Set Ready", m.signals.DSR},
		{"RI", "Ring Indicator", m.signals.RI},
		{"DCD", "Data Carrier Detect", m.signals.DCD},
		{"RTS", "Request To Send", m.signals.RTS},
		{"DTR", "Data Terminal Ready", m.signals.DTR},
	}

	rows := make([]table.Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, table.NewRow(table.RowData{
			columnKeySignal: line.signal,
			columnKeyName:   line.name,
			columnKeyState:  state(line.up),
		}))
	}
	return rows
}

func (m *Monitor) View() string {
	title := titleStyle.Render(fmt.Sprintf("Modem signals: %s", m.path))

	body := m.table.View()
	if m.err != nil {
		body = errorStyle.Render(fmt.Sprintf("read failed: %v", m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		m.help.View(m.keys),
	)
}
