package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inovacc/doubleblind/internal/model"
)

// FetchFunc loads the full repository list.
type FetchFunc func(ctx context.Context) ([]model.Repository, error)

// FetchModel shows a spinner while a fetch runs and quits when it is done.
type FetchModel struct {
	spinner  spinner.Model
	label    string
	fetch    FetchFunc
	ctx      context.Context
	cancel   context.CancelFunc
	fetching bool
	done     bool
	repos    []model.Repository
	err      error
}

type fetchCompleteMsg struct {
	repos []model.Repository
	err   error
}

// NewFetchModel creates a fetch model. ctrl+c cancels the fetch.
func NewFetchModel(ctx context.Context, label string, fetch FetchFunc) FetchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ctx, cancel := context.WithCancel(ctx)

	return FetchModel{
		spinner:  s,
		label:    label,
		fetch:    fetch,
		ctx:      ctx,
		cancel:   cancel,
		fetching: true,
	}
}

func (m FetchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m FetchModel) run() tea.Msg {
	repos, err := m.fetch(m.ctx)
	return fetchCompleteMsg{repos: repos, err: err}
}

func (m FetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.err = context.Canceled
			m.done = true

			return m, tea.Quit
		}

	case fetchCompleteMsg:
		m.cancel()
		m.fetching = false
		m.done = true
		m.repos = msg.repos
		m.err = msg.err

		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m FetchModel) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("\n  ✗ %s failed: %v\n\n", m.label, m.err))
		}

		return successStyle.Render(fmt.Sprintf("\n  ✓ %d repositories\n\n", len(m.repos)))
	}

	if m.fetching {
		return fmt.Sprintf("\n  %s %s\n\n", m.spinner.View(), m.label)
	}

	return ""
}

// Result returns the fetched repositories or the failure.
func (m FetchModel) Result() ([]model.Repository, error) {
	return m.repos, m.err
}
