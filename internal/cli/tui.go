package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/npmap/pkg/importmap"
)

// Package shown in the picker's example column.
const (
	previewName    = "react"
	previewVersion = "18.2.0"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// CDNPickerModel - Interactive CDN selection
// =============================================================================

// CDNPickerModel is the bubbletea model for choosing a CDN.
type CDNPickerModel struct {
	CDNs     []importmap.CDN
	Cursor   int
	Selected *importmap.CDN
}

// NewCDNPickerModel creates a picker with the cursor on current.
func NewCDNPickerModel(current importmap.CDN) CDNPickerModel {
	m := CDNPickerModel{CDNs: importmap.CDNs()}
	for i, cdn := range m.CDNs {
		if cdn == current {
			m.Cursor = i
		}
	}
	return m
}

func (m CDNPickerModel) Init() tea.Cmd {
	return nil
}

func (m CDNPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.CDNs)-1 {
				m.Cursor++
			}
		case "enter":
			cdn := m.CDNs[m.Cursor]
			m.Selected = &cdn
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CDNPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select CDN"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.CDNs))
	for i, cdn := range m.CDNs {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, cdn.String(), importmap.BuildURL(cdn, previewName, previewVersion)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "CDN", previewName+"@"+previewVersion).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor && col == 2:
				return StyleLink
			case row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			default:
				return listDimStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// pickCDN runs the picker on w. ok is false when the user quit without
// choosing.
func pickCDN(ctx context.Context, current importmap.CDN, w io.Writer) (cdn importmap.CDN, ok bool, err error) {
	p := tea.NewProgram(NewCDNPickerModel(current), tea.WithContext(ctx), tea.WithOutput(w))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return current, false, ctx.Err()
		}
		return current, false, err
	}
	m, _ := final.(CDNPickerModel)
	if m.Selected == nil {
		return current, false, nil
	}
	return *m.Selected, true, nil
}
