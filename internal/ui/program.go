package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"macmon/internal/loop"
)

// Model renders live ticks from the refresh loop. It drains the stream on a
// fast poll so the display picks a fresh tick up promptly without ever
// blocking the event loop on a slow collection.
type Model struct {
	stream   <-chan loop.Tick
	cancel   context.CancelFunc
	latest   loop.Tick
	haveTick bool
	width    int
	height   int
}

// NewModel wires a Model to a tick stream. cancel stops the loop when the
// operator quits.
func NewModel(stream <-chan loop.Tick, cancel context.CancelFunc) *Model {
	return &Model{
		stream: stream,
		cancel: cancel,
		width:  100,
		height: 40,
	}
}

type pollMsg struct{}

func pollCmd() tea.Cmd {
	return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m *Model) Init() tea.Cmd { return pollCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case pollMsg:
		select {
		case tick, ok := <-m.stream:
			if !ok {
				// Loop stopped underneath us (context cancelled elsewhere).
				return m, tea.Quit
			}
			m.latest = tick
			m.haveTick = true
		default:
		}
		return m, pollCmd()
	}
	return m, nil
}

func (m *Model) View() string {
	if !m.haveTick {
		return subtleStyle.Render("collecting initial metrics...")
	}
	return Render(m.latest, m.width)
}

// Run drives the dashboard until the operator quits or the stream closes.
func Run(stream <-chan loop.Tick, cancel context.CancelFunc) error {
	prog := tea.NewProgram(NewModel(stream, cancel), tea.WithAltScreen())
	_, err := prog.Run()
	// Make sure the loop is stopped even when bubbletea exited on its own
	// (e.g. SIGINT delivered to the process).
	cancel()
	return err
}
