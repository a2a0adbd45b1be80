package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/recapmd/internal/item"
)

const detailLines = 7

// View implements tea.Model
func (m mainModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phasePreview:
		return m.renderPreview()
	case phaseNewItem:
		return m.renderNewItem()
	default:
		return m.renderMain()
	}
}

// listHeight is the number of rows left for the item list
func (m mainModel) listHeight() int {
	height := maxInt(m.height, 24)
	// header + divider + detail + divider + status + input/help
	return maxInt(height-detailLines-6, 3)
}

// renderMain builds the list view with detail pane and footer
func (m mainModel) renderMain() string {
	width := maxInt(m.width, 80)
	height := maxInt(m.height, 24)

	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	list := m.renderList(m.listHeight())
	b.WriteString(list)
	padding := maxInt(height-detailLines-6-countLines(list), 0)
	b.WriteString(strings.Repeat("\n", padding))

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.renderDetail(width))
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader shows counts for the session
func (m mainModel) renderHeader() string {
	c := m.sess.Counts()
	header := fmt.Sprintf("  %d in progress • %d new • %d updated • %d done",
		c.InProgress, c.New, c.Updated, c.Done)
	if q := strings.TrimSpace(m.filterInput.Value()); q != "" {
		header += fmt.Sprintf(" • %d/%d match %q", len(m.visible), len(m.items), q)
	}
	return styles.Dim.Render(header)
}

// renderList renders the scrollable list of items
func (m *mainModel) renderList(maxHeight int) string {
	if len(m.visible) == 0 {
		if len(m.items) == 0 {
			return styles.Dim.Render("  no items (n adds one)") + "\n"
		}
		return styles.Dim.Render("  no matches") + "\n"
	}

	start, end := scrollWindow(m.cursor, len(m.visible), maxHeight, &m.offset)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.items[m.visible[i]], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

// renderListItem renders a single list row
func (m mainModel) renderListItem(it item.Item, selected bool) string {
	titleStyle := styles.ForState(item.StateOf(it))
	badgeStyle := styles.New
	dimStyle := styles.Dim
	if selected {
		titleStyle = styles.WithSelection(titleStyle)
		badgeStyle = styles.WithSelection(badgeStyle)
		dimStyle = styles.WithSelection(dimStyle)
	}

	badge := "  "
	if it.IsNew {
		badge = "+ "
	} else if it.HasNewComments() {
		badge = "* "
	}

	maxTitle := maxInt(maxInt(m.width, 80)-14, 10)
	line := badgeStyle.Render(badge) +
		titleStyle.Render(truncateString(it.Title, maxTitle)) +
		dimStyle.Render(fmt.Sprintf(" (%d)", len(it.Comments)))

	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// renderDetail shows the selected item's description and discussion
func (m mainModel) renderDetail(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0

	if it, ok := m.current(); ok {
		b.WriteString(styles.DetailTitle.Render(truncateString(it.Title, width)))
		b.WriteString("\n")
		lines++

		for i, c := range it.Comments {
			if lines >= detailLines {
				break
			}
			if lines == detailLines-1 && len(it.Comments)-i > 1 {
				b.WriteString(styles.Dim.Render(fmt.Sprintf("  … %d more", len(it.Comments)-i)))
				b.WriteString("\n")
				lines++
				break
			}

			style := styles.Comment
			text := fmt.Sprintf("  %d: %s", i, c.Content)
			if i == 0 {
				style = styles.Description
				text = "  " + c.Content
			}
			if c.IsNew {
				style = styles.NewComment
			}
			b.WriteString(style.Render(truncateString(text, width)))
			b.WriteString("\n")
			lines++
		}
	}

	for lines < detailLines {
		b.WriteString("\n")
		lines++
	}
	return b.String()
}

// renderStatus renders the status line
func (m mainModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.Error.Render("  " + m.status)
	}
	return styles.Dim.Render("  " + m.status)
}

// renderFooter shows the active input or the key help
func (m mainModel) renderFooter() string {
	switch m.phase {
	case phaseFilter:
		return m.filterInput.View()
	case phaseComment:
		return m.commentInput.View()
	default:
		return m.help.View(m.keys)
	}
}

// renderNewItem draws the new item form
func (m mainModel) renderNewItem() string {
	width := maxInt(m.width, 80)

	b := getBuilder()
	defer putBuilder(b)

	form := lipgloss.JoinVertical(lipgloss.Left,
		styles.DetailTitle.Render("New item"),
		"",
		m.titleInput.View(),
		m.descInput.View(),
	)
	b.WriteString(styles.Border.Width(maxInt(width-4, 20)).Render(form))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("  tab switch field • enter next/save • esc cancel"))
	return b.String()
}

// renderPreview draws the export viewport
func (m mainModel) renderPreview() string {
	width := maxInt(m.width, 80)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(m.preview.View())
	b.WriteString("\n")
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.previewKeys))
	return b.String()
}
