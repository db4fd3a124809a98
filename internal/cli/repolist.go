package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inovacc/doubleblind/internal/model"
)

type repoItem struct {
	repo       model.Repository
	rootDomain string
}

func (i repoItem) Title() string {
	if i.repo.Deployed {
		return fmt.Sprintf("🚀 %s", i.repo.FullName)
	}

	return i.repo.FullName
}

func (i repoItem) Description() string {
	if !i.repo.Deployed {
		return fmt.Sprintf("#%d | not deployed", i.repo.ID)
	}

	desc := fmt.Sprintf("#%d | %s", i.repo.ID, i.repo.SiteURL(i.rootDomain))
	if i.repo.Branch != nil {
		desc = fmt.Sprintf("%s | branch: %s", desc, *i.repo.Branch)
	}

	return desc
}

func (i repoItem) FilterValue() string {
	return i.repo.FullName
}

func repoItems(repos []model.Repository, rootDomain string) []list.Item {
	items := make([]list.Item, len(repos))
	for i, repo := range repos {
		items[i] = repoItem{repo: repo, rootDomain: rootDomain}
	}

	return items
}

type RepoListModel struct {
	list         list.Model
	selectedRepo *model.Repository
	quitting     bool
}

func (m RepoListModel) Init() tea.Cmd {
	return nil
}

func (m RepoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

		return m, nil

	case tea.KeyMsg:
		// Let the list handle keys while the filter prompt is open.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			i, ok := m.list.SelectedItem().(repoItem)
			if ok {
				m.selectedRepo = &i.repo
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RepoListModel) View() string {
	if m.quitting {
		return ""
	}

	return docStyle.Render(m.list.View())
}

func (m RepoListModel) GetSelectedRepo() *model.Repository {
	return m.selectedRepo
}

// NewRepoList builds a filterable list over repos.
func NewRepoList(title string, repos []model.Repository, rootDomain string) RepoListModel {
	l := list.New(repoItems(repos, rootDomain), list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return RepoListModel{list: l}
}
