// Package ui renders live lint progress for interactive terminals.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"emptylines/internal/pipeline"
)

// maxRows limits the file list; longer runs only list unfinished files.
const maxRows = 12

const statusColumn = 12

// stageInfo maps a working stage to its label and its share of a file's work.
var stageInfo = map[pipeline.Stage]struct {
	label  string
	weight float64
}{
	pipeline.StageLoad:  {"loading", 0.1},
	pipeline.StageParse: {"parsing", 0.3},
	pipeline.StageCheck: {"checking", 0.7},
	pipeline.StageFix:   {"fixing", 0.9},
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleWaiting = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type fileRow struct {
	path     string
	status   string
	stage    pipeline.Stage
	finished bool
}

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spin       spinner.Model
	bar        progress.Model
	items      []fileRow
	rowOf      map[string]int
	stageLabel string
	width      int
	done       bool
}

type eventMsg pipeline.Event

type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file lint
// progress. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleActive)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:  make([]fileRow, len(files)),
		rowOf:  make(map[string]int, len(files)),
		width:  80,
	}
	for i, file := range files {
		m.items[i] = fileRow{path: file, status: string(pipeline.StatusQueued)}
		m.rowOf[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.waitEvent())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	longRun := len(m.items) > maxRows
	shown, hidden, finished := 0, 0, 0
	for _, row := range m.items {
		if row.finished {
			finished++
		}
		if longRun && row.finished && row.status != string(pipeline.StatusError) {
			continue
		}
		if shown == maxRows {
			hidden++
			continue
		}
		status := statusStyle(row.status).Render(fmt.Sprintf("%*s", statusColumn, row.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(row.path, nameWidth))
		shown++
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  %*s … %d more\n", statusColumn, "", hidden)
	}
	fmt.Fprintf(&b, "\n  %d/%d files\n\n", finished, len(m.items))

	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) header() string {
	h := m.title
	if m.stageLabel != "" {
		h += " (" + m.stageLabel + ")"
	}
	if m.done {
		return "done: " + h
	}
	return m.spin.View() + " " + h
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

// applyEvent updates the row of ev.File; events without a file only change
// the run-wide stage label.
func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	label := statusLabel(ev)
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.stageLabel = label
		return nil
	}
	i, ok := m.rowOf[ev.File]
	if !ok {
		return nil
	}
	m.items[i] = fileRow{path: ev.File, status: label, stage: ev.Stage, finished: ev.Status.Finished()}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, row := range m.items {
		if row.finished {
			sum++
			continue
		}
		sum += stageInfo[row.stage].weight
	}
	return sum / float64(len(m.items))
}

func statusLabel(ev pipeline.Event) string {
	switch ev.Status {
	case pipeline.StatusWorking:
		return stageInfo[ev.Stage].label
	case pipeline.StatusQueued, pipeline.StatusDone, pipeline.StatusCached, pipeline.StatusError:
		return string(ev.Status)
	}
	return ""
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case string(pipeline.StatusDone), string(pipeline.StatusCached):
		return styleOK
	case string(pipeline.StatusError):
		return styleFailed
	case string(pipeline.StatusQueued):
		return styleWaiting
	}
	return styleActive
}

// truncate shortens value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
