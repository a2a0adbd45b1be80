package parser

import (
	"strconv"
	"strings"
	"testing"

	"github.com/gubarz/recapmd/internal/item"
	"github.com/gubarz/recapmd/internal/markdown"
)

var sharedTokenizer = markdown.NewTokenizer()

func titles(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestParseHeadingExclusion(t *testing.T) {
	items := NewParser(sharedTokenizer).Parse("# Heading\ncontent")

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d (%v)", len(items), titles(items))
	}
	if items[0].Title != "content" {
		t.Errorf("expected title %q, got %q", "content", items[0].Title)
	}
	if len(items[0].Comments) != 0 {
		t.Errorf("expected no comments, got %+v", items[0].Comments)
	}
}

func TestParseEndToEnd(t *testing.T) {
	input := "## Header\n\nFirst Desc\n\nSecond [UPDATED] Title\n\nSecond Comment\n"
	items := NewParser(sharedTokenizer).Parse(input)

	expected := []string{"First Desc", "Second Title", "Second Comment"}
	got := titles(items)
	if strings.Join(got, "|") != strings.Join(expected, "|") {
		t.Fatalf("expected titles %v, got %v", expected, got)
	}
	for i, it := range items {
		if it.ID != strconv.Itoa(i) {
			t.Errorf("expected id %d, got %q", i, it.ID)
		}
		if it.IsNew {
			t.Errorf("expected parsed item %d not to be new", i)
		}
	}
}

func TestParseListItemsWithComments(t *testing.T) {
	input := strings.Join([]string{
		"# Tarefas em andamento:",
		"---",
		"- [UPDATED] Migrate billing",
		"  -> move invoices to the new service",
		"  [04.02.24] invoices done",
		"---",
		"- Hire designer",
		"  -> two interviews left",
		"---",
		"",
	}, "\n")

	items := NewParser(sharedTokenizer).Parse(input)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(items), titles(items))
	}

	first := items[0]
	if first.Title != "Migrate billing" {
		t.Errorf("expected [UPDATED] stripped, got %q", first.Title)
	}
	if len(first.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %+v", first.Comments)
	}
	if first.Description() != "-> move invoices to the new service" {
		t.Errorf("unexpected description %q", first.Description())
	}
	if first.Comments[1].Content != "[04.02.24] invoices done" {
		t.Errorf("unexpected comment %q", first.Comments[1].Content)
	}
	for _, c := range first.Comments {
		if c.IsNew {
			t.Errorf("expected parsed comment not to be new: %+v", c)
		}
	}

	if items[1].ID != "1" || items[1].Title != "Hire designer" {
		t.Errorf("unexpected second item %+v", items[1])
	}
}

func TestParseDropsDoneAndKeepsIDsDense(t *testing.T) {
	input := "- one\n---\n- [DONE] two\n---\n- three\n---\n"
	items, report := NewParser(sharedTokenizer).ParseWithReport(input)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", titles(items))
	}
	if items[0].ID != "0" || items[1].ID != "1" {
		t.Errorf("expected dense ids 0,1, got %q,%q", items[0].ID, items[1].ID)
	}
	if items[1].Title != "three" {
		t.Errorf("expected %q, got %q", "three", items[1].Title)
	}
	if report.Done != 1 {
		t.Errorf("expected 1 done item dropped, got %d", report.Done)
	}
}

func TestParseNeverEmitsDone(t *testing.T) {
	inputs := []string{
		"[DONE] a\n",
		"- x [DONE]\n  comment\n",
		"[UPDATED] [DONE] Foo\n",
		"para\n\n[DONE]\n",
	}
	p := NewParser(sharedTokenizer)
	for _, input := range inputs {
		for _, it := range p.Parse(input) {
			if item.HasTag(it.Title, item.TagDone) {
				t.Errorf("input %q produced done item %q", input, it.Title)
			}
		}
	}
}

func TestParseKeepsSourceEscapes(t *testing.T) {
	// titles keep the source text so a re-export reproduces it verbatim
	input := "Foo \\[DONE\\] bar\n\nFish &amp; chips\n"
	items := NewParser(sharedTokenizer).Parse(input)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d (%v)", len(items), titles(items))
	}

	expected := []string{`Foo \[DONE\] bar`, "Fish &amp; chips"}
	got := titles(items)
	if strings.Join(got, "|") != strings.Join(expected, "|") {
		t.Errorf("expected titles %q, got %q", expected, got)
	}
	if item.StateOf(items[0]) == item.StateDone {
		t.Errorf("expected escaped marker not to count as done")
	}
}

func TestParseShortBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single character", input: "a\n", expected: []string{}},
		{name: "single character between items", input: "ab\n\nx\n\ncd\n", expected: []string{"ab", "cd"}},
		{name: "two characters kept", input: "ok\n", expected: []string{"ok"}},
		{name: "multibyte single rune", input: "é\n", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(NewParser(sharedTokenizer).Parse(tt.input))
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseStripsLeadingInvisible(t *testing.T) {
	for _, prefix := range []string{"\uFEFF", "\u200B", "\u200F"} {
		items := NewParser(sharedTokenizer).Parse(prefix + "# Heading\ncontent")
		if len(items) != 1 || items[0].Title != "content" {
			t.Errorf("prefix %U: expected single item %q, got %v", []rune(prefix)[0], "content", titles(items))
		}
	}
}

func TestStripLeadingInvisibleOnlyOnce(t *testing.T) {
	got := stripLeadingInvisible("\uFEFF\u200Bx")
	if got != "\u200Bx" {
		t.Errorf("expected only the first rune stripped, got %q", got)
	}
}

func TestParseReport(t *testing.T) {
	input := "# Title\n\nx\n\nreal item\n\n[DONE] old\n"
	_, report := NewParser(sharedTokenizer).ParseWithReport(input)

	expected := Report{Blocks: 4, Headings: 1, Short: 1, Done: 1, Items: 1}
	if report != expected {
		t.Errorf("expected %+v, got %+v", expected, report)
	}
}

type stubTokenizer struct {
	tokens []markdown.Token
}

func (s stubTokenizer) Tokenize([]byte) []markdown.Token { return s.tokens }

func TestParseChildPositionIsAuthoritative(t *testing.T) {
	// a leading non-text child means the block has no title
	tok := stubTokenizer{tokens: []markdown.Token{
		{Type: markdown.TypeParagraphOpen},
		{
			Type:    markdown.TypeInline,
			Content: "**x** rest",
			Children: []markdown.Token{
				{Type: "strong_open"},
				{Type: markdown.TypeText, Content: "x"},
				{Type: "strong_close"},
				{Type: markdown.TypeText, Content: " rest"},
			},
		},
	}}

	items := NewParser(tok).Parse("ignored")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "" {
		t.Errorf("expected empty title, got %q", items[0].Title)
	}
	if len(items[0].Comments) != 2 {
		t.Errorf("expected 2 comments, got %+v", items[0].Comments)
	}
}
