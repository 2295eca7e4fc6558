// Package tableview is an alternative renderer built on tview, with the
// pilots table beside an activity panel.
package tableview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/vatsim-online/internal/display"
	"github.com/unklstewy/vatsim-online/internal/monitor"
)

// Config wires the renderer to the scheduler.
type Config struct {
	// Title is the table caption
	Title string

	// Updates delivers cycle outcomes; the application stops when it is closed
	Updates <-chan monitor.Update

	// Refresh requests an immediate cycle
	Refresh func()

	// StatsURL returns the statistics page for a pilot
	StatsURL func(cid int) string

	// Open opens a URL (default: the system browser)
	Open display.Opener

	Logger *slog.Logger
}

// App is the tview application. The board is only touched on the tview
// event loop: in the input handler and in queued updates.
type App struct {
	cfg Config

	tviewApp *tview.Application
	header   *tview.TextView
	table    *tview.Table
	status   *tview.TextView
	activity *ActivityLog

	board monitor.Board

	// queue runs f on the event loop and redraws
	queue func(f func())
}

// NewApp builds the user interface.
func NewApp(cfg Config) *App {
	if cfg.Refresh == nil {
		cfg.Refresh = func() {}
	}
	if cfg.Open == nil {
		cfg.Open = display.BrowserOpener()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	a := &App{
		cfg:      cfg,
		tviewApp: tview.NewApplication(),
		activity: NewActivityLog(100),
	}
	a.queue = func(f func()) { a.tviewApp.QueueUpdateDraw(f) }

	a.header = tview.NewTextView().SetDynamicColors(true)
	a.header.SetBorder(true).SetTitle(" Instructions ")

	a.table = tview.NewTable().
		SetFixed(1, 0).
		SetSelectable(false, false)
	a.table.SetBorder(true).SetTitle(" " + cfg.Title + " ")

	a.status = tview.NewTextView().SetDynamicColors(true)

	main := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 3, 0, false).
		AddItem(a.table, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(main, 0, 7, true).
		AddItem(a.activity.View(), 0, 3, false)

	a.tviewApp.SetRoot(root, true)
	a.tviewApp.SetInputCapture(a.handleKeyboard)

	a.render()
	return a
}

// Board returns the current board.
func (a *App) Board() monitor.Board {
	return a.board
}

// handleKeyboard handles keyboard input
func (a *App) handleKeyboard(event *tcell.EventKey) *tcell.EventKey {
	key := event.Key()
	r := event.Rune()

	switch {
	case key == tcell.KeyCtrlC || (key == tcell.KeyRune && r == 'q'):
		a.tviewApp.Stop()
	case key == tcell.KeyUp || (key == tcell.KeyRune && r == 'k'):
		a.board = a.board.Up()
	case key == tcell.KeyDown || (key == tcell.KeyRune && r == 'j'):
		a.board = a.board.Down()
	case key == tcell.KeyEscape:
		a.board = a.board.Clear()
	case key == tcell.KeyRune && r == 'r':
		a.activity.Add(LevelInfo, "Refresh requested")
		a.cfg.Refresh()
	case key == tcell.KeyRune && r == 'o':
		a.openSelected()
	default:
		return event
	}

	a.render()
	return nil
}

func (a *App) openSelected() {
	row, ok := a.board.Selected()
	if !ok {
		return
	}
	url := a.cfg.StatsURL(row.CID())
	go func() {
		err := a.cfg.Open(url)
		a.queue(func() {
			if err != nil {
				a.cfg.Logger.Warn("Failed to open browser", slog.String("url", url), slog.Any("error", err))
				a.activity.Add(LevelError, "Could not open %s: %v", url, err)
				return
			}
			a.activity.Add(LevelInfo, "Opened %s", url)
		})
	}()
}

// apply applies a scheduler update. Must run on the event loop.
func (a *App) apply(u monitor.Update) {
	a.board = u.ApplyTo(a.board)

	if u.Err != nil {
		a.activity.Add(LevelError, "Refresh failed: %v", u.Err)
	} else {
		a.activity.Add(LevelInfo, "%d pilots in range (%d online, %d fetched)",
			len(u.Result.Rows), u.Result.Online, u.Result.Fetched)
		for _, f := range u.Result.Failures {
			a.activity.Add(LevelWarn, "%s: hours unavailable", f.Callsign)
		}
	}
	a.render()
}

func (a *App) render() {
	a.header.SetText(fmt.Sprintf("%s    [gray]Last updated:[-] %s",
		display.Instructions, display.LastUpdated(a.board.UpdatedAt)))

	a.table.Clear()
	for col, h := range display.Headers {
		a.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorLightSkyBlue).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false).
			SetExpansion(1))
	}

	selected, hasSelection := a.board.Selection.Index()
	for i, r := range a.board.Rows {
		style := tcell.StyleDefault
		if hasSelection && i == selected {
			style = style.Background(tcell.ColorDarkSlateGray).Bold(true)
		}
		for col, text := range display.Row(r) {
			a.table.SetCell(i+1, col, tview.NewTableCell(tview.Escape(text)).
				SetStyle(style).
				SetExpansion(1))
		}
	}
	a.scrollToSelection()

	status := display.Status(a.board)
	switch {
	case a.board.LastErr != nil:
		a.status.SetText("[red]" + tview.Escape(status) + "[-]")
	case status != "":
		a.status.SetText("[yellow]" + tview.Escape(status) + "[-]")
	case len(a.board.Rows) == 0 && a.board.UpdatedAt.IsZero():
		a.status.SetText("[gray]Loading pilots...[-]")
	case len(a.board.Rows) == 0:
		a.status.SetText("[gray]No pilots in range[-]")
	default:
		a.status.SetText("")
	}
}

// scrollToSelection keeps the selected row inside the visible part of the table.
func (a *App) scrollToSelection() {
	selected, ok := a.board.Selection.Index()
	if !ok {
		return
	}
	_, _, _, height := a.table.GetInnerRect()
	visible := height - 1 // fixed header row
	if visible <= 0 {
		return
	}
	offset, _ := a.table.GetOffset()
	switch {
	case selected < offset:
		offset = selected
	case selected >= offset+visible:
		offset = selected - visible + 1
	}
	a.table.SetOffset(offset, 0)
}

// consume applies updates until the channel is closed, then stops the application.
func (a *App) consume(updates <-chan monitor.Update) {
	for u := range updates {
		a.queue(func() { a.apply(u) })
	}
	a.tviewApp.Stop()
}

// Run shows the table until the user quits, ctx is cancelled or the update
// channel is closed.
func Run(ctx context.Context, cfg Config) error {
	a := NewApp(cfg)
	go a.consume(cfg.Updates)
	go func() {
		<-ctx.Done()
		a.tviewApp.Stop()
	}()

	if err := a.tviewApp.Run(); err != nil {
		return fmt.Errorf("run tableview: %w", err)
	}
	return nil
}
