package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wasmkit/wasmbundle/build"
	"github.com/wasmkit/wasmbundle/config"
	"github.com/wasmkit/wasmbundle/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
	stepSkipped
)

type buildModel struct {
	err         error
	result      *pipeline.Result
	cancel      context.CancelFunc
	transitions chan pipeline.State
	spinner     spinner.Model
	order       []pipeline.State
	status      map[pipeline.State]stepStatus
	finished    bool
}

type transitionMsg pipeline.State

type runDoneMsg struct {
	res *pipeline.Result
	err error
}

func newBuildModel(cancel context.CancelFunc, skipVerify bool) *buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	order := []pipeline.State{pipeline.StateBuilding, pipeline.StateMerging}
	if !skipVerify {
		order = append(order, pipeline.StateVerifying)
	}

	status := make(map[pipeline.State]stepStatus, len(order))
	for _, st := range order {
		status[st] = stepPending
	}

	return &buildModel{
		cancel:      cancel,
		transitions: make(chan pipeline.State, 8),
		spinner:     s,
		order:       order,
		status:      status,
	}
}

func (m *buildModel) start(ctx context.Context, proj *config.Project, skipVerify bool) tea.Cmd {
	return func() tea.Msg {
		p := pipeline.New(pipeline.Options{
			Builder:    build.NewBuilder(build.WithOutput(io.Discard, io.Discard)),
			AssetDir:   proj.AssetDir,
			SkipVerify: skipVerify,
			OnTransition: func(s pipeline.State) {
				m.transitions <- s
			},
		})
		res, err := p.Run(ctx, proj.Build)
		return runDoneMsg{res: res, err: err}
	}
}

func (m *buildModel) wait() tea.Cmd {
	return func() tea.Msg {
		return transitionMsg(<-m.transitions)
	}
}

func (m *buildModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait())
}

func (m *buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()
			return m, nil
		}

	case transitionMsg:
		m.apply(pipeline.State(msg))
		return m, m.wait()

	case runDoneMsg:
		m.result = msg.res
		m.err = msg.err
		m.finished = true
		// drain transitions the run emitted after the last wait
		for {
			select {
			case s := <-m.transitions:
				m.apply(s)
			default:
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// apply marks the entered state running and everything before it done.
// A transition to failed marks the running step failed and the rest skipped.
func (m *buildModel) apply(s pipeline.State) {
	if s == pipeline.StateDone {
		for _, st := range m.order {
			if m.status[st] == stepRunning {
				m.status[st] = stepDone
			}
		}
		return
	}
	if s == pipeline.StateFailed {
		failed := false
		for _, st := range m.order {
			switch m.status[st] {
			case stepRunning:
				m.status[st] = stepFailed
				failed = true
			case stepPending:
				m.status[st] = stepSkipped
			}
		}
		if !failed {
			// failure before the first step (e.g. provisioning)
			for _, st := range m.order {
				m.status[st] = stepSkipped
			}
		}
		return
	}

	for _, st := range m.order {
		if st == s {
			m.status[st] = stepRunning
		} else if m.status[st] == stepRunning {
			m.status[st] = stepDone
		}
	}
}

func stepLabel(s pipeline.State) string {
	switch s {
	case pipeline.StateBuilding:
		return "compile crate to wasm"
	case pipeline.StateMerging:
		return "merge static assets"
	case pipeline.StateVerifying:
		return "verify wasm module"
	default:
		return string(s)
	}
}

func (m *buildModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wasmbundle"))
	b.WriteString("\n\n")

	for _, st := range m.order {
		switch m.status[st] {
		case stepPending:
			b.WriteString(pendingStyle.Render("  ○ " + stepLabel(st)))
		case stepRunning:
			b.WriteString("  " + m.spinner.View() + " " + stepLabel(st))
		case stepDone:
			b.WriteString(doneStyle.Render("  ✓ " + stepLabel(st)))
		case stepFailed:
			b.WriteString(errorStyle.Render("  ✗ " + stepLabel(st)))
		case stepSkipped:
			b.WriteString(pendingStyle.Render("  - " + stepLabel(st) + " (skipped)"))
		}
		b.WriteString("\n")
	}

	if m.finished {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		} else if m.result != nil {
			b.WriteString(doneStyle.Render(fmt.Sprintf("Bundle ready: %s", m.result.Artifact.Dir)))
			b.WriteString(detailStyle.Render(fmt.Sprintf("  (%d assets merged)", len(m.result.Copied))))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(pendingStyle.Render("q abort"))
		b.WriteString("\n")
	}

	return b.String()
}

func runInteractive(ctx context.Context, proj *config.Project, skipVerify bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newBuildModel(cancel, skipVerify)
	p := tea.NewProgram(m)

	go func() {
		msg := m.start(ctx, proj, skipVerify)()
		p.Send(msg)
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if bm, ok := final.(*buildModel); ok {
		if bm.err != nil {
			return bm.err
		}
		if bm.result != nil {
			printResult(bm.result)
		}
	}
	return nil
}
