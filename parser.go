package bookpub

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/mfialho/go-bookpub/internal/yamlutil"
)

// Precompiled line-classification patterns. Precedence is defined by the
// ordered rule list in newParseContext, not by these declarations.
var (
	headingLine1 = regexp.MustCompile(`^#\s+(.+)$`)
	headingLine2 = regexp.MustCompile(`^##\s+(.+)$`)
	headingLine3 = regexp.MustCompile(`^###\s+(.+)$`)
	headingLine4 = regexp.MustCompile(`^####\s+(.+)$`)

	// Localized chapter keyword, either language the generator emits.
	chapterKeyword = regexp.MustCompile(`(?i)\b(chapter|cap[íi]tulo)\b`)

	// Numbered bold expression: **N. text**
	expressionLine = regexp.MustCompile(`^\*\*(\d+)\.\s*(.+?)\*\*\s*$`)

	// Phonetic transcription: *[...]*
	phoneticLine = regexp.MustCompile(`^\*\[(.+)\]\*\s*$`)

	// Fixed bold labels introducing translation/usage/example lines.
	translationLiteralLine    = regexp.MustCompile(`^\*\*(?:Traducci[óo]n literal|Literal translation):\*\*\s*(.*)$`)
	translationContextualLine = regexp.MustCompile(`^\*\*(?:Traducci[óo]n contextual|Contextual translation):\*\*\s*(.*)$`)
	usageLine                 = regexp.MustCompile(`^\*\*(?:Uso|Usage):\*\*\s*(.*)$`)
	exampleLine               = regexp.MustCompile(`^\*\*(?:Ejemplo|Example):\*\*\s*(.*)$`)

	listItemLine  = regexp.MustCompile(`^[-*]\s+(.+)$`)
	separatorLine = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})\s*$`)

	// Inline markup, expanded in this order: bold before italic so the
	// bold delimiters are not consumed as two italics.
	inlineBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	inlineItalic = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	inlineLink   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)

	// YAML front matter fence.
	frontMatterFence = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n?`)
)

// frontMatter carries the optional metadata block at the top of the raw
// markup. Values override the caller-supplied hints.
type frontMatter struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Language string `yaml:"language"`
}

// lineRule pairs a predicate with its element constructor. Rules are
// tested top to bottom; the first match wins, so slice order encodes the
// disambiguation precedence.
type lineRule struct {
	match func(line string) bool
	emit  func(ctx *parseContext, line string)
}

// parseContext holds all per-conversion parsing state. A fresh context is
// created for every Parse call and discarded afterwards, so the parser is
// reusable across documents and safe to call concurrently.
type parseContext struct {
	model *DocumentModel

	chapterNum    int
	sectionNum    int
	subsectionNum int
	expressionNum int
	elementSeq    int

	bookTitleSeen bool

	currentChapter *TOCEntry
	currentLevel2  *TOCEntry
	currentLevel3  *TOCEntry

	paragraphLines []string
	listItems      []*DocumentElement
}

// Parser converts domain markup into a DocumentModel. The zero value is
// ready to use; Parse keeps no state between calls.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser { return &Parser{} }

// Parse converts raw domain markup into a DocumentModel. It is total:
// malformed input never fails, unrecognized lines degrade to paragraphs.
// titleHint and authorHint seed the model metadata and are overridden by
// a YAML front matter block when one is present.
func (p *Parser) Parse(raw, titleHint, authorHint, language string) *DocumentModel {
	raw, fm := extractFrontMatter(raw)
	if fm.Title != "" {
		titleHint = fm.Title
	}
	if fm.Author != "" {
		authorHint = fm.Author
	}
	if fm.Language != "" {
		language = fm.Language
	}
	if language == "" {
		language = "en"
	}

	ctx := &parseContext{
		model: &DocumentModel{
			Title:    titleHint,
			Author:   authorHint,
			Language: language,
			Index:    NewTermIndex(),
			Metadata: map[string]any{
				"generator": "go-bookpub",
				"parsed":    true,
			},
		},
	}

	rules := parseRules()
	for _, rawLine := range strings.Split(normalizeLineEndings(raw), "\n") {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			ctx.flushParagraph()
			ctx.flushList()
			continue
		}

		matched := false
		for _, rule := range rules {
			if rule.match(trimmed) {
				rule.emit(ctx, trimmed)
				matched = true
				break
			}
		}
		if !matched {
			// Default: accumulate into the open paragraph.
			ctx.flushList()
			ctx.paragraphLines = append(ctx.paragraphLines, trimmed)
		}
	}
	ctx.flushParagraph()
	ctx.flushList()

	ctx.model.Elements = groupExpressionElements(ctx.model.Elements)
	return ctx.model
}

// parseRules returns the ordered precedence list from the dialect
// definition. The order must not change: earlier rules win.
func parseRules() []lineRule {
	return []lineRule{
		{matchBookTitle, emitBookTitle},
		{matchChapter, emitChapter},
		{headingLine2.MatchString, emitChapterTitle},
		{headingLine3.MatchString, emitSection},
		{headingLine4.MatchString, emitSubsection},
		{expressionLine.MatchString, emitExpression},
		{phoneticLine.MatchString, emitPhonetic},
		{translationLiteralLine.MatchString, emitTranslationLiteral},
		{translationContextualLine.MatchString, emitTranslationContextual},
		{usageLine.MatchString, emitUsage},
		{exampleLine.MatchString, emitExample},
		{matchListItem, emitListItem},
		{separatorLine.MatchString, emitSeparator},
	}
}

func matchBookTitle(line string) bool {
	// Heading levels 2-4 also begin with '#'; require exactly one.
	if !headingLine1.MatchString(line) || strings.HasPrefix(line, "##") {
		return false
	}
	return !chapterKeyword.MatchString(line)
}

func matchChapter(line string) bool {
	if !headingLine1.MatchString(line) || strings.HasPrefix(line, "##") {
		return false
	}
	return chapterKeyword.MatchString(line)
}

func matchListItem(line string) bool {
	// Bold/italic openings also start with '*'; the required space after
	// the marker separates list items from inline emphasis.
	if strings.HasPrefix(line, "**") || strings.HasPrefix(line, "*[") {
		return false
	}
	return listItemLine.MatchString(line)
}

func emitBookTitle(ctx *parseContext, line string) {
	ctx.flushAll()
	title := headingLine1.FindStringSubmatch(line)[1]
	if ctx.bookTitleSeen {
		// Repeated level-1 headings degrade to paragraphs; the
		// postprocessor removes true title duplicates beforehand.
		el := ctx.newElement(KindParagraph, expandInline(title))
		ctx.append(el)
		return
	}
	ctx.bookTitleSeen = true
	if ctx.model.Title == "" {
		ctx.model.Title = title
	}
	el := NewElement("book-title", KindBookTitle, expandInline(title))
	el.Attributes = NewOrderedAttrs()
	el.Metadata = map[string]any{"source_title": title}
	ctx.append(el)
}

func emitChapter(ctx *parseContext, line string) {
	ctx.flushAll()
	title := headingLine1.FindStringSubmatch(line)[1]
	ctx.chapterNum++
	ctx.sectionNum = 0
	ctx.subsectionNum = 0

	el := NewElement(fmt.Sprintf("chapter-%d", ctx.chapterNum), KindChapter, expandInline(title))
	el.Metadata["chapter"] = ctx.chapterNum
	ctx.append(el)

	entry := &TOCEntry{ID: el.ID, Title: VisibleText(el.Content), Level: 1}
	ctx.model.TOC = append(ctx.model.TOC, entry)
	ctx.currentChapter = entry
	ctx.currentLevel2 = nil
	ctx.currentLevel3 = nil
}

func emitChapterTitle(ctx *parseContext, line string) {
	ctx.flushAll()
	title := headingLine2.FindStringSubmatch(line)[1]
	el := ctx.newElement(KindChapterTitle, expandInline(title))
	el.Metadata["chapter"] = ctx.chapterNum
	ctx.append(el)

	entry := &TOCEntry{ID: el.ID, Title: VisibleText(el.Content), Level: 2}
	ctx.attachTOC(entry)
	ctx.currentLevel2 = entry
	ctx.currentLevel3 = nil
}

func emitSection(ctx *parseContext, line string) {
	ctx.flushAll()
	title := headingLine3.FindStringSubmatch(line)[1]
	ctx.sectionNum++
	ctx.subsectionNum = 0
	el := NewElement(fmt.Sprintf("section-%d", ctx.nextSeq()), KindSection, expandInline(title))
	el.Metadata["chapter"] = ctx.chapterNum
	el.Metadata["section"] = ctx.sectionNum
	ctx.append(el)

	entry := &TOCEntry{ID: el.ID, Title: VisibleText(el.Content), Level: 3}
	ctx.attachTOC(entry)
	ctx.currentLevel3 = entry
}

func emitSubsection(ctx *parseContext, line string) {
	ctx.flushAll()
	title := headingLine4.FindStringSubmatch(line)[1]
	ctx.subsectionNum++
	el := NewElement(fmt.Sprintf("subsection-%d", ctx.nextSeq()), KindSubsection, expandInline(title))
	el.Metadata["chapter"] = ctx.chapterNum
	el.Metadata["section"] = ctx.sectionNum
	el.Metadata["subsection"] = ctx.subsectionNum
	ctx.append(el)

	entry := &TOCEntry{ID: el.ID, Title: VisibleText(el.Content), Level: 4}
	ctx.attachTOC(entry)
}

func emitExpression(ctx *parseContext, line string) {
	ctx.flushAll()
	m := expressionLine.FindStringSubmatch(line)
	ctx.expressionNum++
	el := ctx.newElement(KindExpression, expandInline(m[2]))
	el.Metadata["number"] = ctx.expressionNum
	el.Metadata["chapter"] = ctx.chapterNum
	el.Attributes.Set("class", "expression")
	ctx.append(el)
	ctx.model.Index.Add(VisibleText(el.Content), el.ID)
}

func emitPhonetic(ctx *parseContext, line string) {
	ctx.flushAll()
	m := phoneticLine.FindStringSubmatch(line)
	el := ctx.newElement(KindPhonetic, expandInline(m[1]))
	el.Attributes.Set("class", "phonetic")
	ctx.append(el)
}

func emitTranslationLiteral(ctx *parseContext, line string) {
	emitLabeled(ctx, line, translationLiteralLine, KindTranslationLiteral, "translation translation-literal")
}

func emitTranslationContextual(ctx *parseContext, line string) {
	emitLabeled(ctx, line, translationContextualLine, KindTranslationContextual, "translation translation-contextual")
}

func emitUsage(ctx *parseContext, line string) {
	emitLabeled(ctx, line, usageLine, KindUsage, "usage")
}

func emitExample(ctx *parseContext, line string) {
	emitLabeled(ctx, line, exampleLine, KindExample, "example")
}

func emitLabeled(ctx *parseContext, line string, pattern *regexp.Regexp, kind ElementKind, class string) {
	ctx.flushAll()
	m := pattern.FindStringSubmatch(line)
	el := ctx.newElement(kind, expandInline(m[1]))
	el.Attributes.Set("class", class)
	ctx.append(el)
}

func emitSeparator(ctx *parseContext, _ string) {
	ctx.flushAll()
	ctx.append(ctx.newElement(KindSeparator, ""))
}

func emitListItem(ctx *parseContext, line string) {
	ctx.flushParagraph()
	m := listItemLine.FindStringSubmatch(line)
	item := ctx.newElement(KindListItem, expandInline(m[1]))
	ctx.listItems = append(ctx.listItems, item)
}

// newElement allocates an element with the next positional id.
func (ctx *parseContext) newElement(kind ElementKind, content string) *DocumentElement {
	return NewElement(fmt.Sprintf("el-%d", ctx.nextSeq()), kind, content)
}

func (ctx *parseContext) nextSeq() int {
	ctx.elementSeq++
	return ctx.elementSeq
}

func (ctx *parseContext) append(el *DocumentElement) {
	ctx.model.Elements = append(ctx.model.Elements, el)
}

// attachTOC places entry under the deepest open ancestor. Entries that
// arrive before any chapter become top-level nodes.
func (ctx *parseContext) attachTOC(entry *TOCEntry) {
	var parent *TOCEntry
	switch entry.Level {
	case 2:
		parent = ctx.currentChapter
	case 3:
		if ctx.currentLevel2 != nil {
			parent = ctx.currentLevel2
		} else {
			parent = ctx.currentChapter
		}
	case 4:
		if ctx.currentLevel3 != nil {
			parent = ctx.currentLevel3
		} else if ctx.currentLevel2 != nil {
			parent = ctx.currentLevel2
		} else {
			parent = ctx.currentChapter
		}
	}
	if parent == nil {
		ctx.model.TOC = append(ctx.model.TOC, entry)
		return
	}
	parent.Children = append(parent.Children, entry)
}

// flushParagraph closes the open paragraph accumulation, joining its
// lines with single spaces.
func (ctx *parseContext) flushParagraph() {
	if len(ctx.paragraphLines) == 0 {
		return
	}
	text := strings.Join(ctx.paragraphLines, " ")
	ctx.paragraphLines = nil
	el := ctx.newElement(KindParagraph, expandInline(text))
	el.Metadata["words"] = len(strings.Fields(text))
	ctx.append(el)
}

// flushList closes the open list accumulation into one List parent.
func (ctx *parseContext) flushList() {
	if len(ctx.listItems) == 0 {
		return
	}
	list := ctx.newElement(KindList, "")
	list.Children = ctx.listItems
	ctx.listItems = nil
	ctx.append(list)
}

func (ctx *parseContext) flushAll() {
	ctx.flushParagraph()
	ctx.flushList()
}

// expandInline HTML-escapes text and expands inline markup to inline
// tags. Bold must run before italic so ** is not consumed as two *.
func expandInline(text string) string {
	s := html.EscapeString(text)
	s = inlineBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = inlineItalic.ReplaceAllString(s, "<em>$1</em>")
	s = inlineCode.ReplaceAllString(s, "<code>$1</code>")
	s = inlineLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return s
}

// groupExpressionElements runs the grouping sweep over the flat element
// sequence: Phonetic/Translation/Usage/Example elements contiguously
// following an Expression become its children. A Phonetic with no
// preceding Expression is a valid standalone element and stays in place.
func groupExpressionElements(elements []*DocumentElement) []*DocumentElement {
	out := make([]*DocumentElement, 0, len(elements))
	var open *DocumentElement
	for _, el := range elements {
		switch el.Kind {
		case KindExpression:
			open = el
			out = append(out, el)
		case KindPhonetic, KindTranslationLiteral, KindTranslationContextual, KindUsage, KindExample:
			if open != nil {
				open.AppendChild(el)
			} else {
				out = append(out, el)
			}
		default:
			open = nil
			out = append(out, el)
		}
	}
	return out
}

// extractFrontMatter splits an optional leading YAML block off the raw
// markup. Malformed front matter is ignored and left in the content.
func extractFrontMatter(raw string) (string, frontMatter) {
	var fm frontMatter
	m := frontMatterFence.FindStringSubmatch(raw)
	if m == nil {
		return raw, fm
	}
	if err := yamlutil.Unmarshal([]byte(m[1]), &fm); err != nil {
		return raw, frontMatter{}
	}
	return raw[len(m[0]):], fm
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
