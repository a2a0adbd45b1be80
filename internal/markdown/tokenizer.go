// Package markdown flattens a Markdown document into a block/inline token
// stream. The stream mirrors the familiar "heading_open, inline,
// heading_close" shape so callers can reason about a block by looking at
// its neighbours instead of walking a tree.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Token types
const (
	TypeHeadingOpen     = "heading_open"
	TypeHeadingClose    = "heading_close"
	TypeParagraphOpen   = "paragraph_open"
	TypeParagraphClose  = "paragraph_close"
	TypeInline          = "inline"
	TypeBulletListOpen  = "bullet_list_open"
	TypeBulletListClose = "bullet_list_close"
	TypeOrderedOpen     = "ordered_list_open"
	TypeOrderedClose    = "ordered_list_close"
	TypeListItemOpen    = "list_item_open"
	TypeListItemClose   = "list_item_close"
	TypeBlockquoteOpen  = "blockquote_open"
	TypeBlockquoteClose = "blockquote_close"
	TypeHR              = "hr"
	TypeFence           = "fence"
	TypeCodeBlock       = "code_block"
	TypeHTMLBlock       = "html_block"

	// inline children
	TypeText      = "text"
	TypeSoftbreak = "softbreak"
)

// Token is one entry of the flat stream. Only inline tokens carry Content
// and Children; block markers just have a Type.
type Token struct {
	Type     string
	Content  string
	Level    int // heading level, 0 elsewhere
	Children []Token
}

// Tokenizer turns Markdown source into a flat token stream
type Tokenizer interface {
	Tokenize(src []byte) []Token
}

// GoldmarkTokenizer implements Tokenizer on a CommonMark goldmark engine.
// The engine is built once and holds no per-call state, so one instance can
// serve every parse.
type GoldmarkTokenizer struct {
	md goldmark.Markdown
}

// NewTokenizer builds the shared CommonMark tokenizer. No extensions are
// enabled: the recap format only uses headings, paragraphs, lists and rules.
func NewTokenizer() *GoldmarkTokenizer {
	return &GoldmarkTokenizer{md: goldmark.New()}
}

// Tokenize parses src and emits tokens in document order
func (t *GoldmarkTokenizer) Tokenize(src []byte) []Token {
	doc := t.md.Parser().Parse(text.NewReader(src))

	var tokens []Token
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				tokens = append(tokens,
					Token{Type: TypeHeadingOpen, Level: node.Level},
					inlineToken(node, src))
			} else {
				tokens = append(tokens, Token{Type: TypeHeadingClose, Level: node.Level})
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			// tight list items hold a TextBlock; treat it as a hidden paragraph
			if entering {
				tokens = append(tokens, Token{Type: TypeParagraphOpen}, inlineToken(node, src))
			} else {
				tokens = append(tokens, Token{Type: TypeParagraphClose})
			}
			return ast.WalkSkipChildren, nil

		case *ast.List:
			openType, closeType := TypeBulletListOpen, TypeBulletListClose
			if node.IsOrdered() {
				openType, closeType = TypeOrderedOpen, TypeOrderedClose
			}
			tokens = append(tokens, Token{Type: pick(entering, openType, closeType)})

		case *ast.ListItem:
			tokens = append(tokens, Token{Type: pick(entering, TypeListItemOpen, TypeListItemClose)})

		case *ast.Blockquote:
			tokens = append(tokens, Token{Type: pick(entering, TypeBlockquoteOpen, TypeBlockquoteClose)})

		case *ast.ThematicBreak:
			if entering {
				tokens = append(tokens, Token{Type: TypeHR})
			}

		case *ast.FencedCodeBlock:
			if entering {
				tokens = append(tokens, Token{Type: TypeFence, Content: rawLines(node, src)})
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if entering {
				tokens = append(tokens, Token{Type: TypeCodeBlock, Content: rawLines(node, src)})
			}
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			if entering {
				tokens = append(tokens, Token{Type: TypeHTMLBlock, Content: rawLines(node, src)})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return tokens
}

// inlineToken builds the inline token of a leaf block: one text child per
// source line, separated by softbreaks, so child 0 is always the first line.
func inlineToken(n ast.Node, src []byte) Token {
	lines := blockLines(n, src)
	tok := Token{
		Type:    TypeInline,
		Content: strings.Join(lines, "\n"),
	}
	for i, line := range lines {
		if i > 0 {
			tok.Children = append(tok.Children, Token{Type: TypeSoftbreak, Content: "\n"})
		}
		tok.Children = append(tok.Children, Token{Type: TypeText, Content: line})
	}
	return tok
}

// blockLines returns the trimmed source lines of a leaf block
func blockLines(n ast.Node, src []byte) []string {
	segs := n.Lines()
	if segs == nil {
		return nil
	}
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, string(bytes.TrimSpace(seg.Value(src))))
	}
	return lines
}

// rawLines returns the untouched content of a code or HTML block
func rawLines(n ast.Node, src []byte) string {
	segs := n.Lines()
	if segs == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

func pick(entering bool, openType, closeType string) string {
	if entering {
		return openType
	}
	return closeType
}
