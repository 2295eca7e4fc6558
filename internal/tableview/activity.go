package tableview

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// Level is the severity of an activity entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is a single activity line.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

// ActivityLog is the panel listing recent refreshes, failures and actions.
type ActivityLog struct {
	textView *tview.TextView

	entries    []Entry
	maxEntries int

	mu  sync.Mutex
	now func() time.Time
}

// NewActivityLog creates a panel keeping the last maxEntries lines.
func NewActivityLog(maxEntries int) *ActivityLog {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(maxEntries)
	textView.SetBorder(true).SetTitle(" Activity ")

	return &ActivityLog{
		textView:   textView,
		entries:    make([]Entry, 0, maxEntries),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// View returns the tview component.
func (l *ActivityLog) View() tview.Primitive {
	return l.textView
}

// Add appends an entry.
func (l *ActivityLog) Add(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Time:    l.now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	l.refresh()
}

// Entries returns a copy of the current entries.
func (l *ActivityLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *ActivityLog) refresh() {
	l.textView.Clear()
	for _, e := range l.entries {
		fmt.Fprintf(l.textView, "[gray]%s[-] [%s]%-5s[-] %s\n",
			e.Time.Format("15:04:05"), colorFor(e.Level), e.Level, tview.Escape(e.Message))
	}
	l.textView.ScrollToEnd()
}

func colorFor(level Level) string {
	switch level {
	case LevelWarn:
		return "yellow"
	case LevelError:
		return "red"
	default:
		return "white"
	}
}
