package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/codescape/pkg/pipeline"
)

// stateMsg carries one state of the observed run.
type stateMsg pipeline.State

// closedMsg reports that the state channel was closed.
type closedMsg struct{}

// tickMsg advances the spinner frame.
type tickMsg time.Time

// ProgressModel is the bubbletea model showing the steps of a run.
type ProgressModel struct {
	states  <-chan pipeline.State
	title   string
	frame   int
	started map[pipeline.Step]time.Time
	took    map[pipeline.Step]time.Duration

	// Current is the latest state received.
	Current pipeline.State
	// Aborted is set when the user quit before the run ended.
	Aborted bool
}

// NewProgressModel creates a model fed by states.
func NewProgressModel(title string, states <-chan pipeline.State) ProgressModel {
	return ProgressModel{
		states:  states,
		title:   title,
		started: make(map[pipeline.Step]time.Time),
		took:    make(map[pipeline.Step]time.Duration),
	}
}

func waitForState(states <-chan pipeline.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return closedMsg{}
		}
		return stateMsg(st)
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(waitForState(m.states), tick())
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		}
	case stateMsg:
		st := pipeline.State(msg)
		if prev := m.Current.Step; prev != "" && prev != st.Step {
			m.took[prev] = time.Since(m.started[prev])
		}
		if _, ok := m.started[st.Step]; !ok {
			m.started[st.Step] = time.Now()
		}
		m.Current = st
		if st.Terminal() {
			if st.Status == pipeline.StatusSucceeded && st.Result != nil {
				for step, d := range st.Result.Stats.Durations {
					m.took[step] = d
				}
			}
			return m, tea.Quit
		}
		return m, waitForState(m.states)
	case closedMsg:
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.title))
	b.WriteString("\n\n")

	reached := true
	for _, step := range pipeline.Steps {
		var icon, label string
		switch {
		case step == m.Current.Step && m.Current.Status == pipeline.StatusFailed:
			icon, label = styleIconError.Render(iconError), styleWarning.Render(step.Description())
			reached = false
		case step == m.Current.Step && m.Current.Status == pipeline.StatusRunning:
			icon = styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])
			label = styleValue.Render(step.Description())
			if m.Current.Total > 0 {
				label += styleDim.Render(fmt.Sprintf("  %d/%d files", m.Current.Done, m.Current.Total))
			}
			reached = false
		case reached && m.Current.Step != "":
			icon, label = styleIconSuccess.Render(iconSuccess), step.Description()
			if d, ok := m.took[step]; ok {
				label += styleDim.Render("  " + d.Round(time.Millisecond).String())
			}
		default:
			icon, label = styleDim.Render(iconPending), styleDim.Render(step.Description())
		}
		fmt.Fprintf(&b, "  %s %s\n", icon, label)
	}

	if m.Current.Status == pipeline.StatusFailed {
		b.WriteString("\n" + styleWarning.Render(m.Current.Message) + "\n")
	} else if !m.Current.Terminal() {
		b.WriteString("\n" + styleDim.Render("q to cancel") + "\n")
	}
	return b.String()
}
