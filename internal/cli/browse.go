package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/farelock/pkg/query"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDeclaredStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browse opens the interactive browser for res.
func browse(ctx context.Context, res *query.Result, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(NewBrowseModel(res), opts...).Run()
	return err
}

// =============================================================================
// BrowseModel - Interactive dependency browser
// =============================================================================

// BrowseModel lists the dependencies of a result and shows the metadata
// document of the selected one.
type BrowseModel struct {
	Result *query.Result
	// Declared hides dependencies without metadata.
	Declared bool
	Cursor   int
	Offset   int
	Height   int

	visible []int // indexes into Result.Entries
}

// NewBrowseModel creates a browser positioned on the first dependency.
func NewBrowseModel(res *query.Result) BrowseModel {
	m := BrowseModel{Result: res, Height: 15}
	m.filter()
	return m
}

func (m *BrowseModel) filter() {
	m.visible = make([]int, 0, len(m.Result.Entries))
	for i, e := range m.Result.Entries {
		if !m.Declared || e.Metadata != nil {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the entry under the cursor.
func (m BrowseModel) Selected() (query.Entry, bool) {
	if len(m.visible) == 0 {
		return query.Entry{}, false
	}
	return m.Result.Entries[m.visible[m.Cursor]], true
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "m":
			m.Declared = !m.Declared
			m.filter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder
	doc := documentName(m.Result.Kind)

	title := m.Result.Kind + "  " + listDimStyle.Render(m.Result.Subject)
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  m only with %s  q quit", doc)))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no dependencies"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		e := m.Result.Entries[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + e.Package.String()
		switch {
		case i == m.Cursor:
			list.WriteString(listSelectedStyle.Render(line))
		case e.Metadata != nil:
			list.WriteString(listDeclaredStyle.Render(line))
		default:
			list.WriteString(listNormalStyle.Render(line))
		}
		list.WriteString("\n")
	}

	detail := listDimStyle.Render("no " + doc)
	if e, ok := m.Selected(); ok && e.Metadata != nil {
		data, err := json.MarshalIndent(e.Metadata, "", "  ")
		if err != nil {
			detail = err.Error()
		} else {
			detail = string(data)
		}
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", detailStyle.Render(detail)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}
