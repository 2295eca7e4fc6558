// Package tui is the default renderer: a Bubble Tea program showing the
// pilots table.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unklstewy/vatsim-online/internal/display"
	"github.com/unklstewy/vatsim-online/internal/monitor"
)

// Config wires the renderer to the scheduler.
type Config struct {
	// Title is the table caption
	Title string

	// Updates delivers cycle outcomes; the program quits when it is closed
	Updates <-chan monitor.Update

	// Refresh requests an immediate cycle
	Refresh func()

	// StatsURL returns the statistics page for a pilot
	StatsURL func(cid int) string

	// Open opens a URL (default: the system browser)
	Open display.Opener

	Logger *slog.Logger
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Background(lipgloss.Color("237")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

// chromeLines is the number of lines View uses around the table rows.
const chromeLines = 10

type updateMsg monitor.Update

type updatesClosedMsg struct{}

type openedMsg struct {
	url string
	err error
}

// Model is the Bubble Tea model. The Board is only modified in Update.
type Model struct {
	cfg    Config
	board  monitor.Board
	height int
	notice string
}

// New creates the model.
func New(cfg Config) Model {
	if cfg.Refresh == nil {
		cfg.Refresh = func() {}
	}
	if cfg.Open == nil {
		cfg.Open = display.BrowserOpener()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return Model{cfg: cfg}
}

// Board returns the current board.
func (m Model) Board() monitor.Board {
	return m.board
}

func waitForUpdate(ch <-chan monitor.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return updateMsg(u)
	}
}

func (m Model) open(url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: m.cfg.Open(url)}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.cfg.Updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.board = m.board.Up()
		case "down", "j":
			m.board = m.board.Down()
		case "esc":
			m.board = m.board.Clear()
		case "r":
			m.notice = "Refreshing..."
			m.cfg.Refresh()
		case "o":
			if row, ok := m.board.Selected(); ok {
				return m, m.open(m.cfg.StatsURL(row.CID()))
			}
		}
		return m, nil

	case updateMsg:
		m.board = monitor.Update(msg).ApplyTo(m.board)
		m.notice = ""
		return m, waitForUpdate(m.cfg.Updates)

	case updatesClosedMsg:
		return m, tea.Quit

	case openedMsg:
		if msg.err != nil {
			m.cfg.Logger.Warn("Failed to open browser", slog.String("url", msg.url), slog.Any("error", msg.err))
			m.notice = fmt.Sprintf("Could not open %s: %v", msg.url, msg.err)
		} else {
			m.notice = "Opened " + msg.url
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(m.cfg.Title))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(display.Instructions))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Last updated: " + display.LastUpdated(m.board.UpdatedAt)))
	s.WriteString("\n\n")

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if status := display.Status(m.board); status != "" {
		style := warnStyle
		if m.board.LastErr != nil {
			style = errStyle
		}
		s.WriteString(style.Render(status))
		s.WriteString("\n")
	}
	if m.notice != "" {
		s.WriteString(helpStyle.Render(m.notice))
		s.WriteString("\n")
	}

	return s.String()
}

func (m Model) renderTable() string {
	rows := m.board.Rows
	if len(rows) == 0 {
		if m.board.UpdatedAt.IsZero() {
			return helpStyle.Render("  Loading pilots...")
		}
		return helpStyle.Render("  No pilots in range")
	}

	selected, hasSelection := m.board.Selection.Index()
	start, end := visibleRange(len(rows), selected, m.maxRows())

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(display.Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case hasSelection && start+row == selected:
				return selectedStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows[start:end] {
		t.Row(display.Row(r)...)
	}

	out := t.Render()
	if start > 0 || end < len(rows) {
		out += "\n" + helpStyle.Render(fmt.Sprintf("  rows %d-%d of %d", start+1, end, len(rows)))
	}
	return out
}

// maxRows is the number of table rows that fit the window, or 0 for no limit.
func (m Model) maxRows() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-chromeLines, 1)
}

// visibleRange returns the window [start, end) of n rows to draw so that the
// selected row is visible. limit <= 0 shows every row.
func visibleRange(n, selected, limit int) (int, int) {
	if limit <= 0 || n <= limit {
		return 0, n
	}
	start := 0
	if selected >= limit {
		start = selected - limit + 1
	}
	return start, start + limit
}

// Run shows the table until the user quits, ctx is cancelled or the update
// channel is closed.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
