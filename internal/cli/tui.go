package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/benchgraph/pkg/pipeline"
)

const (
	progressWidth   = 40
	visibleFailures = 5
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

type fileDoneMsg struct{ result pipeline.FileResult }

type batchDoneMsg struct {
	report *pipeline.Report
	err    error
}

// =============================================================================
// BatchModel - Live batch progress
// =============================================================================

// BatchModel is the bubbletea model showing batch progress.
type BatchModel struct {
	Total    int
	Done     int
	Failed   int
	Cached   int
	Current  string
	Failures []string
	Report   *pipeline.Report
	Err      error

	start     time.Time
	cancel    context.CancelFunc
	cancelled bool
}

// NewBatchModel creates a model for a batch of total files. cancel is
// called when the user quits early.
func NewBatchModel(total int, cancel context.CancelFunc) BatchModel {
	return BatchModel{Total: total, start: time.Now(), cancel: cancel}
}

func (m BatchModel) Init() tea.Cmd {
	return nil
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// keep running until the batch reports back
			if !m.cancelled && m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
		}
	case fileDoneMsg:
		m.Done++
		m.Current = msg.result.Name
		if msg.result.Err != nil {
			m.Failed++
			m.Failures = append(m.Failures, failureLine(msg.result))
		} else if msg.result.Result.Cached {
			m.Cached++
		}
	case batchDoneMsg:
		m.Report, m.Err = msg.report, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Compiling netlists"))
	b.WriteString("\n\n")
	b.WriteString(progressBar(m.Done, m.Total))
	b.WriteString(fmt.Sprintf("  %s/%d", StyleNumber.Render(fmt.Sprint(m.Done)), m.Total))
	b.WriteString("\n")

	status := fmt.Sprintf("%d failed · %d cached · %s", m.Failed, m.Cached, time.Since(m.start).Round(time.Second))
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n")
	if m.Current != "" && m.Report == nil {
		b.WriteString(StyleDim.Render(iconArrow+" ") + StyleValue.Render(m.Current))
		b.WriteString("\n")
	}

	if n := len(m.Failures); n > 0 {
		b.WriteString("\n")
		first := max(n-visibleFailures, 0)
		for _, f := range m.Failures[first:] {
			b.WriteString(styleIconError.Render(iconError) + " " + StyleDim.Render(f) + "\n")
		}
		if first > 0 {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  … and %d more", first)) + "\n")
		}
	}

	b.WriteString("\n")
	if m.cancelled && m.Report == nil {
		b.WriteString(StyleWarning.Render("stopping after running compilations…"))
	} else {
		b.WriteString(StyleDim.Render("q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func progressBar(done, total int) string {
	filled := progressWidth
	if total > 0 {
		filled = done * progressWidth / total
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", progressWidth-filled))
}

// runBatchTUI runs a batch behind the interactive progress view.
func runBatchTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.BatchOptions, w io.Writer) (*pipeline.Report, error) {
	names, err := pipeline.Discover(opts.Root, opts.Extension, opts.Recursive)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewBatchModel(len(names), cancel), tea.WithOutput(w))
	opts.OnResult = func(fr pipeline.FileResult) { p.Send(fileDoneMsg{result: fr}) }
	go func() {
		report, err := runner.Batch(ctx, opts)
		p.Send(batchDoneMsg{report: report, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		return nil, err
	}
	m := final.(BatchModel)
	return m.Report, m.Err
}
