package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inovacc/doubleblind/internal/core"
	"github.com/inovacc/doubleblind/internal/model"
)

// SearchModel is a live search box over a core.SearchPipeline.
type SearchModel struct {
	input      textinput.Model
	spinner    spinner.Model
	list       list.Model
	pipeline   *core.SearchPipeline
	rootDomain string

	// lastValue is nil until the user types, or after ctrl+r clears the query
	lastValue *string
	pending   bool
	count     int
	err       error
	selected  *model.Repository
	quitting  bool
}

type searchResultMsg struct {
	result core.SearchResult
	ok     bool
}

// NewSearchModel creates the search view. The caller owns the pipeline and
// closes it after the program exits.
func NewSearchModel(pipeline *core.SearchPipeline, rootDomain string) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "search repositories"
	ti.Prompt = "🔎 "
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	return SearchModel{
		input:      ti,
		spinner:    s,
		list:       l,
		pipeline:   pipeline,
		rootDomain: rootDomain,
	}
}

// waitForResult blocks on the pipeline's result channel.
func waitForResult(ch <-chan core.SearchResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		return searchResultMsg{result: r, ok: ok}
	}
}

func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForResult(m.pipeline.Results()))
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(repoItem); ok {
				m.selected = &i.repo
			}

			return m, tea.Quit

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd

			m.list, cmd = m.list.Update(msg)

			return m, cmd

		case "ctrl+r":
			m.input.Reset()
			m.lastValue = nil
			m.submit(nil)

			return m, nil
		}

		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		if v := m.input.Value(); m.lastValue == nil || *m.lastValue != v {
			m.lastValue = &v
			m.submit(&v)
		}

		return m, cmd

	case searchResultMsg:
		if !msg.ok {
			return m, tea.Quit
		}

		m.pending = false
		m.err = msg.result.Err

		items := msg.result.Items
		if m.err != nil {
			items = nil
		}

		m.count = len(items)
		cmd := m.list.SetItems(repoItems(items, m.rootDomain))

		return m, tea.Batch(cmd, waitForResult(m.pipeline.Results()))

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *SearchModel) submit(query *string) {
	if err := m.pipeline.Update(query); err != nil {
		m.err = err
		return
	}

	m.pending = true
}

func (m SearchModel) View() string {
	if m.quitting {
		return ""
	}

	status := dimStyle.Render("type to search · ctrl+r clear · enter select · esc quit")

	switch {
	case m.pending:
		status = fmt.Sprintf("%s searching...", m.spinner.View())
	case m.err != nil:
		status = errorStyle.Render(fmt.Sprintf("✗ %v", m.err))
	case m.lastValue != nil:
		status = successStyle.Render(fmt.Sprintf("%d results", m.count))
	}

	return docStyle.Render(fmt.Sprintf("%s\n%s\n%s\n\n%s",
		titleStyle.Render("Search repositories"),
		m.input.View(),
		status,
		m.list.View()))
}

// Selected returns the repository chosen with enter, if any.
func (m SearchModel) Selected() *model.Repository {
	return m.selected
}

// Query returns the query the user last typed, nil if none.
func (m SearchModel) Query() *string {
	return m.lastValue
}

// Items returns the repositories currently listed.
func (m SearchModel) Items() []model.Repository {
	items := m.list.Items()
	out := make([]model.Repository, 0, len(items))

	for _, it := range items {
		if ri, ok := it.(repoItem); ok {
			out = append(out, ri.repo)
		}
	}

	return out
}

// URLLine renders a repository with its site URL for one-shot output.
func URLLine(r model.Repository, rootDomain string) string {
	if !r.Deployed {
		return r.FullName
	}

	return fmt.Sprintf("%s → %s", r.FullName, urlStyle.Render(r.SiteURL(rootDomain)))
}
