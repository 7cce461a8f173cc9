package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/boardgen/boardgen/pkg/pipeline"
)

// =============================================================================
// batchModel - Interactive batch progress
// =============================================================================

// sizeMsg reports one attempted size.
type sizeMsg struct {
	index, total int
	name         string
}

// doneMsg carries the final batch outcome.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

type tickMsg time.Time

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// batchModel is the bubbletea model for batch progress. Pressing q cancels
// the batch; the model keeps running until the pipeline confirms shutdown
// so the history bracket always closes.
type batchModel struct {
	total    int
	done     int
	current  string
	frame    int
	quitting bool
	result   *pipeline.Result
	err      error
	cancel   context.CancelFunc
}

func newBatchModel(total int, cancel context.CancelFunc) batchModel {
	return batchModel{total: total, cancel: cancel}
}

func (m batchModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.cancel()
		}
	case sizeMsg:
		m.done = msg.index
		m.total = msg.total
		m.current = msg.name
	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Generating artboards") + "\n\n")

	const barWidth = 30
	filled := 0
	if m.total > 0 {
		filled = m.done * barWidth / m.total
	}
	bar := StyleHighlight.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(&b, "  %s %d/%d\n", bar, m.done, m.total)

	switch {
	case m.quitting:
		b.WriteString("  " + StyleWarning.Render("cancelling...") + "\n")
	case m.current != "":
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		fmt.Fprintf(&b, "  %s %s\n", styleIconSpinner.Render(frame), StyleValue.Render(m.current))
	}

	b.WriteString("\n" + StyleDim.Render("q to cancel") + "\n")
	return b.String()
}

// runBatchTUI executes the batch behind an interactive progress view.
func runBatchTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newBatchModel(len(opts.Sizes), cancel))

	opts.OnProgress = func(index, total int, name string) {
		p.Send(sizeMsg{index: index, total: total, name: name})
	}
	go func() {
		result, err := runner.Execute(ctx, opts)
		p.Send(doneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(batchModel)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
