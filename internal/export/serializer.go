// Package export renders a recap collection back into the Markdown layout
// the task board accepts on import.
package export

import (
	"strings"

	"github.com/gubarz/recapmd/internal/item"
)

const (
	DefaultInProgressHeader = "# Tarefas em andamento:"
	DefaultNewHeader        = "# Tarefas novas:"

	separator = "---\n"
)

// Layout holds the section headers written around the two item groups
type Layout struct {
	InProgressHeader string
	NewHeader        string
}

// DefaultLayout returns the headers the board expects
func DefaultLayout() Layout {
	return Layout{
		InProgressHeader: DefaultInProgressHeader,
		NewHeader:        DefaultNewHeader,
	}
}

// withDefaults fills empty headers from DefaultLayout
func (l Layout) withDefaults() Layout {
	def := DefaultLayout()
	if l.InProgressHeader == "" {
		l.InProgressHeader = def.InProgressHeader
	}
	if l.NewHeader == "" {
		l.NewHeader = def.NewHeader
	}
	return l
}

// Serialize writes items in order under the in-progress header. The new
// header is emitted once, right before the first new item. Items are
// expected to be grouped (existing first); see CheckOrder.
func Serialize(items []item.Item, layout Layout) string {
	layout = layout.withDefaults()

	var b strings.Builder
	b.WriteString(layout.InProgressHeader)
	b.WriteString("\n")
	b.WriteString(separator)

	inNew := false
	for _, it := range items {
		if it.IsNew && !inNew {
			inNew = true
			b.WriteString(layout.NewHeader)
			b.WriteString("\n")
			b.WriteString(separator)
		}
		writeItem(&b, it)
	}
	return b.String()
}

func writeItem(b *strings.Builder, it item.Item) {
	b.WriteString("- ")
	b.WriteString(it.Title)
	b.WriteString("\n")
	for _, c := range it.Comments {
		b.WriteString("  ")
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	b.WriteString(separator)
}

// CheckOrder reports the index of the first existing item that follows a
// new one. ok is true when the collection is correctly grouped.
func CheckOrder(items []item.Item) (index int, ok bool) {
	seenNew := false
	for i, it := range items {
		if it.IsNew {
			seenNew = true
			continue
		}
		if seenNew {
			return i, false
		}
	}
	return -1, true
}
