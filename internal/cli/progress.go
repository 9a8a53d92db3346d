package cli

import (
	"context"
	"fmt"
	"sync"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/justicehub-au/finder-dedupe/internal/dedup"
	"github.com/justicehub-au/finder-dedupe/internal/models"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// progressMsg carries the latest pair counter from the engine.
type progressMsg struct {
	checked int
	total   int
}

// runDoneMsg carries the finished run.
type runDoneMsg struct {
	result *dedup.RunResult
	err    error
}

// runProgressModel is the bubbletea model for an in-flight deduplication run.
type runProgressModel struct {
	updates  <-chan progressMsg
	done     <-chan runDoneMsg
	progress progress.Model
	theme    Theme

	checked  int
	total    int
	finished bool
	quitting bool
	err      error
}

func newRunProgressModel(updates <-chan progressMsg, done <-chan runDoneMsg) runProgressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return runProgressModel{
		updates:  updates,
		done:     done,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command (start listening for engine events).
func (m runProgressModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.progress.Init(),
	)
}

// waitForEvent blocks on the next engine event. Runs as a command so
// Update() never blocks.
func (m runProgressModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-m.updates:
			return u
		case d := <-m.done:
			return d
		}
	}
}

// Update handles messages and returns the updated model.
func (m runProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case progressMsg:
		m.checked = msg.checked
		m.total = msg.total
		return m, m.waitForEvent()

	case runDoneMsg:
		m.finished = true
		m.err = msg.err
		if msg.result != nil {
			m.checked = msg.result.Stats.TotalChecked
		}
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m runProgressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m runProgressModel) renderContent() string {
	if m.finished || m.quitting {
		return m.finalView()
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.checked) / float64(m.total)
	}

	status := m.theme.statusStyle().Render("[deduplicating]")
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d pairs", m.checked, m.total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

func (m runProgressModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("\nCancelling, writing partial results...\n")
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Run failed: %s\n", m.err))
	}
	return m.theme.completedStyle().Render(fmt.Sprintf("✓ Checked %d pairs\n", m.checked))
}

// runWithProgress drives the engine under the interactive progress UI.
// Ctrl+C cancels the run; the partially-accumulated result is still
// returned along with context.Canceled.
func runWithProgress(ctx context.Context, engine *dedup.Engine, newRecords, existing []models.ServiceRecord) (*dedup.RunResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan progressMsg, 64)
	done := make(chan runDoneMsg, 1)

	engine.OnProgress = func(checked, total int) {
		select {
		case updates <- progressMsg{checked: checked, total: total}:
		default: // the UI only needs the latest counter
		}
	}

	var (
		result *dedup.RunResult
		runErr error
	)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, runErr = engine.FindDuplicates(ctx, newRecords, existing)
		done <- runDoneMsg{result: result, err: runErr}
	}()

	p := tea.NewProgram(newRunProgressModel(updates, done))
	finalModel, uiErr := p.Run()

	// Quit or UI failure: stop the engine and collect what it managed to
	// do before returning.
	if m, ok := finalModel.(runProgressModel); !ok || m.quitting || uiErr != nil {
		cancel()
	}
	wg.Wait()

	if uiErr != nil && runErr == nil {
		return result, fmt.Errorf("progress UI error: %w", uiErr)
	}
	return result, runErr
}
