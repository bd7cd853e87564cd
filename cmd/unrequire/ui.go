// # cmd/unrequire/ui.go
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	unresolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	summary    Summary
	lastUpdate time.Time
	write      bool
}

type updateMsg struct {
	summary Summary
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.summary = msg.summary
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, change := range m.summary.Changed {
			title := "Pending Rewrite"
			if m.write {
				title = "Rewritten"
			}
			items = append(items, item{
				title: title,
				desc:  fmt.Sprintf("%s (%d call sites, %d imports)", change.Path, change.CallSites, change.Imports),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d call sites",
		m.lastUpdate.Format("15:04:05"), m.summary.FilesScanned, m.summary.CallSites))

	var headline string
	switch {
	case m.summary.FilesChanged == 0 && m.summary.Unresolved == 0:
		headline = successStyle.Render("✅ Nothing left to convert")
	case m.summary.Unresolved > 0:
		headline = fmt.Sprintf("%s | %s",
			changedStyle.Render(fmt.Sprintf("%d Files Changed", m.summary.FilesChanged)),
			unresolvedStyle.Render(fmt.Sprintf("%d Dynamic Requires", m.summary.Unresolved)))
	default:
		headline = changedStyle.Render(fmt.Sprintf("%d Files Changed", m.summary.FilesChanged))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Require Conversion Monitor"), status, headline)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel(write bool) model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Converted Files"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
		write:      write,
	}
}
