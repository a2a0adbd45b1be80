package item

import (
	"regexp"
	"time"
)

// State is the review state encoded in a title's markers
type State int

const (
	StateNone State = iota
	StateUpdated
	StateDone
)

func (s State) String() string {
	switch s {
	case StateUpdated:
		return "updated"
	case StateDone:
		return "done"
	default:
		return "none"
	}
}

var (
	// first [UPDATED] or [DONE], whichever comes first
	stateTagRe = regexp.MustCompile(`\[UPDATED\]|\[DONE\]`)
	// every marker plus one optional trailing space
	strippableTagRe = regexp.MustCompile(`\[UPDATED\] ?|\[DONE\] ?`)
	doneTagRe       = regexp.MustCompile(`\[DONE\] ?`)
	updatedTagRe    = regexp.MustCompile(`\[UPDATED\] ?`)
)

// StateOf reports the tag state of an item. [DONE] wins when both markers
// are present, matching the toggle direction used by MarkDone.
func StateOf(it Item) State {
	switch {
	case HasTag(it.Title, TagDone):
		return StateDone
	case HasTag(it.Title, TagUpdated):
		return StateUpdated
	default:
		return StateNone
	}
}

// Rules holds the knobs of the tag state machine. The zero value is ready to
// use: it stamps with time.Now and always prepends [UPDATED] on a new comment.
type Rules struct {
	// Clock supplies "now" for date tags. Nil means time.Now.
	Clock func() time.Time
	// DedupeUpdated skips the [UPDATED] prefix when the title already has one.
	DedupeUpdated bool
}

func (r Rules) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// DateTag stamps the rules' current time
func (r Rules) DateTag() string {
	return DateTag(r.now())
}

// AddComment appends a new dated comment and flags the title as updated.
// An empty text fails with a ValidationError and returns the item unchanged.
func (r Rules) AddComment(it Item, text string) (Item, error) {
	if err := requireText("comment", text, errCommentEmpty); err != nil {
		return it, err
	}
	out := it.Clone()
	out.Comments = append(out.Comments, Comment{
		Content: r.DateTag() + " " + text,
		IsNew:   true,
	})
	if !r.DedupeUpdated || !HasTag(out.Title, TagUpdated) {
		out.Title = TagUpdated + " " + out.Title
	}
	return out, nil
}

// RemoveNewComments reverts an item to its imported state: status markers
// are stripped from the title and every comment added this session is dropped.
// Each marker takes one trailing space with it, [UPDATED] included, so a
// title tagged by AddComment reverts to exactly its imported text.
func (r Rules) RemoveNewComments(it Item) Item {
	out := it.Clone()
	out.Title = strippableTagRe.ReplaceAllString(out.Title, "")
	kept := make([]Comment, 0, len(out.Comments))
	for _, c := range out.Comments {
		if !c.IsNew {
			kept = append(kept, c)
		}
	}
	out.Comments = kept
	return out
}

// MarkDone toggles the done state.
//
// New items flip a leading [DONE] marker on and off. Imported items swap
// [UPDATED] and [DONE]; when neither marker is present the title is left as
// is.
func (r Rules) MarkDone(it Item) Item {
	out := it.Clone()
	if out.IsNew {
		if HasTag(out.Title, TagDone) {
			out.Title = replaceFirst(doneTagRe, out.Title, "")
		} else {
			out.Title = TagDone + " " + out.Title
		}
		return out
	}

	target := TagDone
	if HasTag(out.Title, TagDone) {
		target = TagUpdated
	}
	out.Title = replaceFirst(stateTagRe, out.Title, target)
	return out
}

// NewItem builds an item created during this session. Title and description
// are checked in that order so the caller learns which field failed.
func (r Rules) NewItem(title, description string) (Item, error) {
	if err := requireText("title", title, errTitleEmpty); err != nil {
		return Item{}, err
	}
	if err := requireText("description", description, errDescriptionEmpty); err != nil {
		return Item{}, err
	}
	return Item{
		Title:    title + " " + r.DateTag(),
		Comments: []Comment{{Content: "-> " + description, IsNew: true}},
		IsNew:    true,
	}, nil
}

// replaceFirst substitutes only the leftmost match of re
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// StripUpdated removes the first [UPDATED] marker and one optional trailing
// space, the normalization applied to titles on import.
func StripUpdated(title string) string {
	return replaceFirst(updatedTagRe, title, "")
}
