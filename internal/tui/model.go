// Package tui provides the Bubble Tea raw trip browser.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/stats"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// headerLines is the header row plus its bottom border.
const headerLines = 2

// Browser pages through a loaded trip table five rows at a time.
type Browser struct {
	title string
	data  *dataset.Table
	start int
	view  table.Model

	width  int
	height int
}

// NewBrowser returns a browser over data showing the first page.
func NewBrowser(title string, data *dataset.Table) *Browser {
	b := &Browser{title: title, data: data}
	b.view = table.New(table.WithFocused(true))
	b.view.SetStyles(tableStyles())
	b.refresh()
	return b
}

// Start returns the offset of the page currently shown.
func (b *Browser) Start() int {
	return b.start
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		if b.width > 0 {
			b.view.SetWidth(b.width)
		}
		return b, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return b, tea.Quit
		case "n", "right", " ", "pgdown":
			b.next()
			return b, nil
		case "p", "left", "pgup":
			b.previous()
			return b, nil
		}
		var cmd tea.Cmd
		b.view, cmd = b.view.Update(msg)
		return b, cmd
	default:
		return b, nil
	}
}

// View implements tea.Model.
func (b *Browser) View() string {
	header := titleStyle.Render(b.title)
	if b.data.Empty() {
		return header + "\n\n" + emptyStyle.Render("No trips match these filters.") + "\n" + footerStyle.Render("q quit")
	}
	return header + "\n\n" + b.view.View() + "\n" + footerStyle.Render(b.footer())
}

func (b *Browser) footer() string {
	trips, _ := stats.Page(b.data, b.start)
	first := b.start + 1
	last := b.start + len(trips)
	return fmt.Sprintf("Trips %s-%s of %s · n/→ next · p/← previous · q quit",
		humanize.Comma(int64(first)), humanize.Comma(int64(last)), humanize.Comma(int64(b.data.Len())))
}

func (b *Browser) next() {
	if b.start+stats.PageSize >= b.data.Len() {
		return
	}
	b.start += stats.PageSize
	b.refresh()
}

func (b *Browser) previous() {
	if b.start == 0 {
		return
	}
	b.start = max(0, b.start-stats.PageSize)
	b.refresh()
}

func (b *Browser) refresh() {
	trips, _ := stats.Page(b.data, b.start)
	headers := stats.PageHeaders(b.data)
	cells := stats.PageCells(b.data, trips)

	columns := make([]table.Column, len(headers))
	total := 0
	for i, title := range headers {
		width := runewidth.StringWidth(title)
		for _, row := range cells {
			if w := runewidth.StringWidth(row[i]); w > width {
				width = w
			}
		}
		columns[i] = table.Column{Title: title, Width: max(width, 1)}
		total += columns[i].Width + 1
	}
	rows := make([]table.Row, 0, len(cells))
	for _, row := range cells {
		rows = append(rows, table.Row(row))
	}
	b.view.SetRows(nil)
	b.view.SetColumns(columns)
	b.view.SetRows(rows)
	b.view.SetHeight(stats.PageSize + headerLines)
	if b.width == 0 {
		b.view.SetWidth(total)
	}
	b.view.GotoTop()
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
