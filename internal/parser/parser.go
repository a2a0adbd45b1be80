// Package parser turns a recap document into items, skipping headings and
// blocks that are too short to carry a title.
package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/gubarz/recapmd/internal/item"
	"github.com/gubarz/recapmd/internal/markdown"
)

// Report summarizes what a parse kept and dropped
type Report struct {
	Blocks   int // inline blocks seen
	Headings int // blocks skipped because they belong to a heading
	Short    int // blocks with one character or less
	Done     int // items dropped for carrying [DONE]
	Items    int // items kept
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for dropped-block diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// Parser converts exported recap Markdown into items
type Parser struct {
	tok markdown.Tokenizer
	log *zap.Logger
}

// NewParser creates a parser around a shared tokenizer. A nil tokenizer
// gets a fresh CommonMark one.
func NewParser(tok markdown.Tokenizer, opts ...Option) *Parser {
	if tok == nil {
		tok = markdown.NewTokenizer()
	}
	p := &Parser{
		tok: tok,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns every real content block of raw as an item, in document
// order. Headings and items tagged [DONE] are left out; ids are dense over
// the kept items.
func (p *Parser) Parse(raw string) []item.Item {
	items, _ := p.ParseWithReport(raw)
	return items
}

// ParseWithReport is Parse plus counters describing what was dropped
func (p *Parser) ParseWithReport(raw string) ([]item.Item, Report) {
	tokens := p.tok.Tokenize([]byte(stripLeadingInvisible(raw)))

	items := make([]item.Item, 0)
	var report Report

	for idx, tok := range tokens {
		if tok.Type != markdown.TypeInline {
			continue
		}
		report.Blocks++

		if utf8.RuneCountInString(tok.Content) <= 1 {
			report.Short++
			p.log.Debug("dropping short block", zap.Int("token", idx), zap.String("content", tok.Content))
			continue
		}

		if idx > 0 && tokens[idx-1].Type == markdown.TypeHeadingOpen {
			report.Headings++
			p.log.Debug("skipping heading", zap.String("content", tok.Content))
			continue
		}

		it := buildItem(tok)
		if item.HasTag(it.Title, item.TagDone) {
			report.Done++
			p.log.Debug("dropping done item", zap.String("title", it.Title))
			continue
		}

		it.ID = strconv.Itoa(len(items))
		items = append(items, it)
	}

	report.Items = len(items)
	p.log.Debug("parsed recap",
		zap.Int("blocks", report.Blocks),
		zap.Int("items", report.Items),
		zap.Int("headings", report.Headings),
		zap.Int("short", report.Short),
		zap.Int("done", report.Done))
	return items, report
}

// buildItem maps the children of one inline block onto an item. Child
// position 0 is the title; every later text child is an imported comment.
func buildItem(tok markdown.Token) item.Item {
	it := item.Item{Comments: []item.Comment{}}
	for pos, child := range tok.Children {
		if child.Type != markdown.TypeText {
			continue
		}
		if pos == 0 {
			it.Title = item.StripUpdated(child.Content)
			continue
		}
		it.Comments = append(it.Comments, item.Comment{Content: child.Content})
	}
	return it
}

// invisible runes a clipboard paste may leave in front of the text
const invisiblePrefix = "\u200B\u200C\u200D\u200E\u200F\uFEFF"

// stripLeadingInvisible removes a single leading zero-width or BOM rune
func stripLeadingInvisible(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size > 0 && strings.ContainsRune(invisiblePrefix, r) {
		return s[size:]
	}
	return s
}
