// Package item holds the recap item model and the tag rules applied to it.
package item

import "strings"

// Status markers carried inside item titles
const (
	TagUpdated = "[UPDATED]"
	TagDone    = "[DONE]"
)

// Comment is one line of discussion attached to an Item
type Comment struct {
	Content string `json:"content" yaml:"content"`
	IsNew   bool   `json:"is_new" yaml:"is_new"`
}

// Item is one task extracted from (or destined for) the recap document.
// Comments[0] is the description, later entries are discussion, oldest first.
type Item struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Comments []Comment `json:"comments" yaml:"comments"`
	IsNew    bool      `json:"is_new" yaml:"is_new"`
}

// Clone returns a deep copy so functional updates never share the comment slice
func (it Item) Clone() Item {
	out := it
	if it.Comments != nil {
		out.Comments = make([]Comment, len(it.Comments))
		copy(out.Comments, it.Comments)
	}
	return out
}

// Description returns the content at comment position 0, if any
func (it Item) Description() string {
	if len(it.Comments) == 0 {
		return ""
	}
	return it.Comments[0].Content
}

// Discussion returns the comments after the description
func (it Item) Discussion() []Comment {
	if len(it.Comments) < 2 {
		return nil
	}
	return it.Comments[1:]
}

// HasNewComments reports whether any comment was added this session
func (it Item) HasNewComments() bool {
	for _, c := range it.Comments {
		if c.IsNew {
			return true
		}
	}
	return false
}

// HasTag reports whether the title carries the given marker anywhere
func HasTag(title, tag string) bool {
	return strings.Contains(title, tag)
}

// CloneAll deep-copies a collection
func CloneAll(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
