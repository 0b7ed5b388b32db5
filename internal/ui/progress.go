package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"llvet/internal/driver"
)

type fileState uint8

const (
	stateQueued fileState = iota
	stateParsing
	stateVerifying
	stateDone
	stateFailed
	stateCached
)

var stateLabels = [...]string{
	stateQueued:    "queued",
	stateParsing:   "parsing",
	stateVerifying: "verifying",
	stateDone:      "done",
	stateFailed:    "error",
	stateCached:    "cached",
}

func (s fileState) String() string { return stateLabels[s] }

func (s fileState) finished() bool { return s >= stateDone }

// weight: доля работы над файлом, учтённая в общей полосе.
func (s fileState) weight() float64 {
	switch {
	case s.finished():
		return 1
	case s == stateVerifying:
		return 0.7
	case s == stateParsing:
		return 0.3
	}
	return 0
}

var stateStyles = map[fileState]lipgloss.Style{
	stateQueued:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	stateParsing:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	stateVerifying: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	stateDone:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	stateFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	stateCached:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type fileRow struct {
	path       string
	state      fileState
	violations int
	elapsed    time.Duration
}

// detail: "3 violations, 1.2ms"
func (r fileRow) detail() string {
	if !r.state.finished() {
		return ""
	}
	var parts []string
	if r.violations > 0 {
		parts = append(parts, Count(r.violations, "violation"))
	}
	if r.elapsed > 0 {
		parts = append(parts, r.elapsed.Round(100*time.Microsecond).String())
	}
	return strings.Join(parts, ", ")
}

type eventMsg driver.ProgressEvent
type closedMsg struct{}

type progressModel struct {
	title   string
	events  <-chan driver.ProgressEvent
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	done    bool
}

// NewProgressModel renders the progress of a directory verify. The model
// quits once events is closed or on ctrl+c.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.ProgressEvent(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func stateOf(ev driver.ProgressEvent) (fileState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusError:
		return stateFailed, true
	case driver.StatusDone:
		if ev.Stage == driver.StageCache {
			return stateCached, true
		}
		return stateDone, true
	case driver.StatusWorking:
		switch ev.Stage {
		case driver.StageParse:
			return stateParsing, true
		case driver.StageVerify:
			return stateVerifying, true
		case driver.StageCache:
			return stateCached, true
		}
	}
	return stateQueued, false
}

// apply обновляет строку файла и возвращает анимацию полосы.
func (m *progressModel) apply(ev driver.ProgressEvent) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	st, ok := stateOf(ev)
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.state = st
	if st.finished() {
		row.violations = ev.Violations
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.state.weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := m.spinner.View() + " " + m.title
	if m.done {
		header = "done: " + m.title
	}
	b.WriteString(headerStyle.Render(header) + "\n\n")

	const stateWidth = 12
	nameWidth := max(m.width-stateWidth-4, 20)
	finished, violations := 0, 0
	for _, r := range m.rows {
		label := stateStyles[r.state].Render(fmt.Sprintf("%*s", stateWidth, r.state))
		b.WriteString("  " + label + " " + truncate(r.path, nameWidth))
		if d := r.detail(); d != "" {
			b.WriteString("  " + dimStyle.Render(d))
		}
		b.WriteByte('\n')
		if r.state.finished() {
			finished++
			violations += r.violations
		}
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%d/%d files, %s", finished, len(m.rows), Count(violations, "violation"))) + "\n")
	return b.String()
}

func truncate(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width-3, "...")
}
