package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/microbeflow/crossfeed/pkg/pipeline"
)

// List styles
var (
	listDoneStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listFailedStyle = lipgloss.NewStyle().Foreground(colorRed)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// batchModel - Batch progress view
// =============================================================================

// batchItemMsg reports one finished batch item.
type batchItemMsg struct {
	index  int
	result pipeline.BatchResult
}

// batchFinishedMsg reports the complete result set.
type batchFinishedMsg struct {
	results []pipeline.BatchResult
}

// batchTickMsg advances the spinner animation.
type batchTickMsg time.Time

type itemState int

const (
	itemPending itemState = iota
	itemDone
	itemFailed
)

// batchModel is the bubbletea model for batch progress.
type batchModel struct {
	names   []string
	states  []itemState
	details []string
	results []pipeline.BatchResult
	done    int
	frame   int
	frames  []string
}

// newBatchModel creates a progress model for the given batch items.
func newBatchModel(items []pipeline.BatchItem) batchModel {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return batchModel{
		names:   names,
		states:  make([]itemState, len(items)),
		details: make([]string, len(items)),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

func batchTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return batchTickMsg(t)
	})
}

func (m batchModel) Init() tea.Cmd {
	return batchTick()
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case batchTickMsg:
		m.frame++
		if m.results == nil {
			return m, batchTick()
		}
	case batchItemMsg:
		if msg.result.Err != nil {
			m.states[msg.index] = itemFailed
			m.details[msg.index] = msg.result.Err.Error()
		} else {
			m.states[msg.index] = itemDone
			stats := msg.result.Result.Stats
			m.details[msg.index] = fmt.Sprintf("%d nodes · %d edges", stats.NodeCount, stats.EdgeCount)
		}
		m.done++
	case batchFinishedMsg:
		m.results = msg.results
		return m, tea.Quit
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Processing exchange tables"))
	b.WriteString("\n\n")

	for i, name := range m.names {
		var icon, detail string
		switch m.states[i] {
		case itemDone:
			icon = listDoneStyle.Render(iconSuccess)
			detail = listDimStyle.Render(m.details[i])
		case itemFailed:
			icon = listFailedStyle.Render(iconError)
			detail = listFailedStyle.Render(m.details[i])
		default:
			icon = styleIconSpinner.Render(m.frames[m.frame%len(m.frames)])
		}
		b.WriteString(fmt.Sprintf("  %s %s", icon, StyleValue.Render(name)))
		if detail != "" {
			b.WriteString("  " + detail)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  q to abort", m.done, len(m.names))))
	b.WriteString("\n")

	return b.String()
}
