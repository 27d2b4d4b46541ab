// Package tui is a terminal front-end for the render output panel.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sosoyan/aton/panel"
	"github.com/sosoyan/aton/policy"
	"github.com/sosoyan/aton/target"
)

type frameDoneMsg struct{}

type styles struct {
	title    lipgloss.Style
	current  lipgloss.Style
	text     lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	err      lipgloss.Style
	border   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		current:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		text:     lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// Model drives a panel from keyboard input.
type Model struct {
	ctx    context.Context
	panel  *panel.Panel
	keymap keyMap
	styles styles

	filter    textinput.Model
	filtering bool
	cursor    int
	err       error
}

// New creates a model for p. Renders started from the model are bound to
// ctx.
func New(ctx context.Context, p *panel.Panel) *Model {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter render nodes"

	return &Model{
		ctx:    ctx,
		panel:  p,
		keymap: defaultKeyMap(),
		styles: defaultStyles(),
		filter: filter,
	}
}

// Err returns the error of the last action.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) visible() []*target.Target {
	return m.panel.Filter(m.filter.Value())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameDoneMsg:
		m.err = m.panel.ChangeTime(m.ctx)
		return m, m.waitFrame()
	case tea.KeyMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.cursor = 0
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	visible := m.visible()
	s := m.panel.Settings()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.err = m.panel.Close()
		return tea.Quit
	case key.Matches(msg, m.keymap.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keymap.Down):
		m.cursor = min(m.cursor+1, max(len(visible)-1, 0))
	case key.Matches(msg, m.keymap.Select):
		if m.cursor < len(visible) {
			m.err = m.panel.Select(visible[m.cursor].Path())
		}
	case key.Matches(msg, m.keymap.Export):
		if m.cursor < len(visible) {
			m.err = m.panel.SelectForExport(m.toggleExport(visible[m.cursor].Path())...)
		}
	case key.Matches(msg, m.keymap.Filter):
		m.filtering = true
		return m.filter.Focus()
	case key.Matches(msg, m.keymap.Render):
		m.err = m.panel.StartRender(m.ctx)
		return m.waitFrame()
	case key.Matches(msg, m.keymap.Stop):
		m.err = m.panel.StopRender(m.ctx)
	case key.Matches(msg, m.keymap.Reset):
		m.panel.Reset()
		m.cursor = 0
		m.err = nil
	case key.Matches(msg, m.keymap.Mode):
		if s.Mode == panel.Local {
			s.Mode = panel.Farm
		} else {
			s.Mode = panel.Local
		}
		m.err = m.panel.Apply(s)
	case key.Matches(msg, m.keymap.Sequence):
		s.Sequence = !s.Sequence
		m.err = m.panel.Apply(s)
	case key.Matches(msg, m.keymap.MoreAA):
		s.AACustom = true
		s.AASamples++
		m.err = m.panel.Apply(s)
	case key.Matches(msg, m.keymap.LessAA):
		s.AACustom = true
		s.AASamples = max(s.AASamples-1, 1)
		m.err = m.panel.Apply(s)
	case key.Matches(msg, m.keymap.Resolution):
		s.ResolutionIndex = (s.ResolutionIndex + 1) % len(m.panel.ResolutionLabels())
		m.err = m.panel.Apply(s)
	case key.Matches(msg, m.keymap.Distribute):
		s.Distribute = (s.Distribute + 1) % len(m.panel.Menus().DistributeMenu())
		m.err = m.panel.Apply(s)
	}
	return nil
}

func (m *Model) toggleExport(path string) []string {
	var paths []string
	found := false
	for _, marked := range m.panel.Marked() {
		if marked == path {
			found = true
			continue
		}
		paths = append(paths, marked)
	}
	if !found {
		paths = append(paths, path)
	}
	return paths
}

// Block until the panel reports a finished sequence frame.
func (m *Model) waitFrame() tea.Cmd {
	done := m.panel.FrameDone()
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-done; !ok {
			return nil
		}
		return frameDoneMsg{}
	}
}

func (m *Model) View() string {
	var rows []string
	rows = append(rows, m.styles.title.Render(fmt.Sprintf("Aton  %s:%d", m.panel.Host(), m.panel.Settings().Port)))

	exported := make(map[string]bool)
	s := m.panel.Settings()
	if s.Mode == panel.Farm {
		for _, t := range m.panel.Selected() {
			exported[t.Path()] = true
		}
	}

	current := m.panel.Current()
	for i, t := range m.visible() {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		mark := " "
		if exported[t.Path()] {
			mark = "*"
		}

		style := m.styles.text
		switch {
		case t == current:
			style = m.styles.current
		case exported[t.Path()]:
			style = m.styles.selected
		}
		rows = append(rows, style.Render(prefix+mark+" "+t.Label()))
	}
	if m.filtering || m.filter.Value() != "" {
		rows = append(rows, m.filter.View())
	}

	rows = append(rows, "", m.styles.dim.Render(m.summary(s)))
	if m.err != nil {
		rows = append(rows, m.styles.err.Render(m.err.Error()))
	}

	var help []string
	for _, b := range m.keymap.ShortHelp() {
		help = append(help, b.Help().Key+" "+b.Help().Desc)
	}
	rows = append(rows, m.styles.dim.Render(strings.Join(help, " • ")))

	return m.styles.border.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) summary(s panel.Settings) string {
	labels := m.panel.ResolutionLabels()
	res := policy.NativeLabel
	if s.ResolutionIndex < len(labels) {
		res = labels[s.ResolutionIndex]
	}

	parts := []string{
		"mode " + s.Mode.String(),
		"res " + res,
		fmt.Sprintf("AA %d", s.AASamples),
	}
	if s.Sequence {
		parts = append(parts, fmt.Sprintf("seq %d-%d/%d", s.SeqStart, s.SeqEnd, s.SeqStep))
	}
	if s.Mode == panel.Farm {
		parts = append(parts, "split "+m.panel.Menus().DistributeMenu()[s.Distribute])
	}
	return strings.Join(parts, "  ")
}

// Run shows the panel until the user quits.
func Run(ctx context.Context, p *panel.Panel) error {
	m := New(ctx, p)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	return m.Err()
}
