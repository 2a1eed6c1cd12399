package bookpub

import (
	"strings"
	"testing"
)

// sampleBook is a well-formed document exercising every markup construct.
const sampleBook = `# Mexican Spanish Expressions

# Chapter 1: Greetings

Learning greetings is the first step
toward sounding like a local.

**1. ¡Qué onda!**
*[keh OHN-dah]*
**Literal translation:** What wave!
**Contextual translation:** What's up!
**Usage:** Informal greeting between friends
**Example:** ¡Qué onda, güey!

---

- Use with friends only
- Avoid in formal settings
`

func TestParseWellFormedBook(t *testing.T) {
	model := NewParser().Parse(sampleBook, "", "", "es")

	wantKinds := []ElementKind{
		KindBookTitle,
		KindChapter,
		KindParagraph,
		KindExpression,
		KindSeparator,
		KindList,
	}
	if len(model.Elements) != len(wantKinds) {
		t.Fatalf("got %d top-level elements, want %d", len(model.Elements), len(wantKinds))
	}
	for i, want := range wantKinds {
		if model.Elements[i].Kind != want {
			t.Errorf("element %d kind = %s, want %s", i, model.Elements[i].Kind, want)
		}
	}

	if model.Title != "Mexican Spanish Expressions" {
		t.Errorf("title = %q, want book title from markup", model.Title)
	}

	expr := model.Elements[3]
	if len(expr.Children) != 5 {
		t.Fatalf("expression has %d children, want 5", len(expr.Children))
	}
	childKinds := []ElementKind{
		KindPhonetic, KindTranslationLiteral, KindTranslationContextual, KindUsage, KindExample,
	}
	for i, want := range childKinds {
		if expr.Children[i].Kind != want {
			t.Errorf("expression child %d kind = %s, want %s", i, expr.Children[i].Kind, want)
		}
	}

	list := model.Elements[5]
	if len(list.Children) != 2 {
		t.Errorf("list has %d items, want 2", len(list.Children))
	}

	if len(model.TOC) != 1 {
		t.Fatalf("TOC has %d entries, want 1", len(model.TOC))
	}
	if model.TOC[0].Title != "Chapter 1: Greetings" || model.TOC[0].Level != 1 {
		t.Errorf("TOC entry = %q level %d, want chapter at level 1", model.TOC[0].Title, model.TOC[0].Level)
	}

	if model.Index.Len() != 1 {
		t.Errorf("index has %d terms, want 1", model.Index.Len())
	}
}

func TestParseTotality(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "only whitespace", input: "  \n\t\n  "},
		{name: "binary garbage", input: "\x00\x01\x02\xff\xfe"},
		{name: "unclosed bold", input: "**never closed"},
		{name: "unclosed phonetic", input: "*[keh OHN"},
		{name: "unclosed link", input: "[broken](http://example"},
		{name: "lone delimiters", input: "** * ` [ ] ( )"},
		{name: "heading without text", input: "#"},
		{name: "deeply nested markers", input: "***[**`# ##`**]***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewParser().Parse(tt.input, "Hint", "Author", "en")
			if model == nil {
				t.Fatal("Parse() returned nil model")
			}
			if model.Title != "Hint" {
				t.Errorf("title = %q, want hint preserved", model.Title)
			}
		})
	}
}

func TestParseMalformedDegradesToParagraph(t *testing.T) {
	model := NewParser().Parse("**3 not an expression**\nplain continuation", "", "", "en")
	if len(model.Elements) != 1 {
		t.Fatalf("got %d elements, want 1 merged paragraph", len(model.Elements))
	}
	if model.Elements[0].Kind != KindParagraph {
		t.Errorf("kind = %s, want paragraph fallback", model.Elements[0].Kind)
	}
}

func TestParseStandalonePhonetic(t *testing.T) {
	model := NewParser().Parse("Some paragraph.\n\n*[ah-BLAHR]*\n", "", "", "es")
	var phonetic *DocumentElement
	for _, el := range model.Elements {
		if el.Kind == KindPhonetic {
			phonetic = el
		}
	}
	if phonetic == nil {
		t.Fatal("standalone phonetic was dropped or grouped")
	}
}

func TestParseParagraphJoinsLines(t *testing.T) {
	model := NewParser().Parse("line one\nline two\nline three", "", "", "en")
	if len(model.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(model.Elements))
	}
	if got := model.Elements[0].Content; got != "line one line two line three" {
		t.Errorf("paragraph content = %q, want single-space joined lines", got)
	}
}

func TestParseListNotConfusedWithEmphasis(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ElementKind
	}{
		{name: "dash list item", line: "- item text", want: KindList},
		{name: "star list item", line: "* item text", want: KindList},
		{name: "bold line stays paragraph", line: "**bold text**", want: KindParagraph},
		{name: "separator dashes", line: "---", want: KindSeparator},
		{name: "separator stars", line: "***", want: KindSeparator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewParser().Parse(tt.line, "", "", "en")
			if len(model.Elements) != 1 {
				t.Fatalf("got %d elements, want 1", len(model.Elements))
			}
			if model.Elements[0].Kind != tt.want {
				t.Errorf("kind = %s, want %s", model.Elements[0].Kind, tt.want)
			}
		})
	}
}

func TestParseFrontMatter(t *testing.T) {
	raw := "---\ntitle: Real Title\nauthor: Real Author\nlanguage: es\n---\nBody text."
	model := NewParser().Parse(raw, "Hint Title", "Hint Author", "en")

	if model.Title != "Real Title" {
		t.Errorf("title = %q, want front matter to override hint", model.Title)
	}
	if model.Author != "Real Author" {
		t.Errorf("author = %q, want front matter to override hint", model.Author)
	}
	if model.Language != "es" {
		t.Errorf("language = %q, want es", model.Language)
	}
	if len(model.Elements) != 1 || model.Elements[0].Kind != KindParagraph {
		t.Fatalf("front matter fence leaked into elements: %d elements", len(model.Elements))
	}
}

func TestParseMalformedFrontMatterIgnored(t *testing.T) {
	raw := "---\n: : not yaml [\n---\nBody text."
	model := NewParser().Parse(raw, "Hint", "", "en")
	if model.Title != "Hint" {
		t.Errorf("title = %q, want hint when front matter is malformed", model.Title)
	}
}

func TestExpandInline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bold before italic",
			input:    "**strong** and *soft*",
			expected: "<strong>strong</strong> and <em>soft</em>",
		},
		{
			name:     "code span",
			input:    "use `fmt.Println`",
			expected: "use <code>fmt.Println</code>",
		},
		{
			name:     "link",
			input:    "[site](https://example.com)",
			expected: `<a href="https://example.com">site</a>`,
		},
		{
			name:     "html escaped first",
			input:    "a < b & c",
			expected: "a &lt; b &amp; c",
		},
		{
			name:     "unmatched markers preserved",
			input:    "half **open",
			expected: "half **open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandInline(tt.input); got != tt.expected {
				t.Errorf("expandInline() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseSecondTitleDegrades(t *testing.T) {
	model := NewParser().Parse("# First Title\n\n# Second Title\n", "", "", "en")
	if model.Elements[0].Kind != KindBookTitle {
		t.Fatalf("first heading kind = %s, want book title", model.Elements[0].Kind)
	}
	if model.Elements[1].Kind != KindParagraph {
		t.Errorf("second heading kind = %s, want paragraph degrade", model.Elements[1].Kind)
	}
}

func TestParseTOCNesting(t *testing.T) {
	raw := strings.Join([]string{
		"# Chapter 1: One",
		"## Overview",
		"### Details",
		"#### Fine Print",
		"# Chapter 2: Two",
	}, "\n\n")
	model := NewParser().Parse(raw, "", "", "en")

	if len(model.TOC) != 2 {
		t.Fatalf("TOC has %d roots, want 2", len(model.TOC))
	}
	ch1 := model.TOC[0]
	if len(ch1.Children) != 1 || ch1.Children[0].Title != "Overview" {
		t.Fatalf("chapter 1 children = %+v, want Overview nested", ch1.Children)
	}
	lvl3 := ch1.Children[0].Children
	if len(lvl3) != 1 || lvl3[0].Title != "Details" {
		t.Fatalf("level-3 children = %+v, want Details nested", lvl3)
	}
	if len(lvl3[0].Children) != 1 || lvl3[0].Children[0].Title != "Fine Print" {
		t.Errorf("level-4 entry missing under Details")
	}
}

func TestParseChapterResetsCounters(t *testing.T) {
	raw := "# Chapter 1: One\n\n### First Section\n\n# Chapter 2: Two\n\n### Another Section\n"
	model := NewParser().Parse(raw, "", "", "en")

	var sections []*DocumentElement
	for _, el := range model.Elements {
		if el.Kind == KindSection {
			sections = append(sections, el)
		}
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[1].Metadata["section"] != 1 {
		t.Errorf("section counter = %v after new chapter, want reset to 1", sections[1].Metadata["section"])
	}
	if sections[1].Metadata["chapter"] != 2 {
		t.Errorf("chapter metadata = %v, want 2", sections[1].Metadata["chapter"])
	}
}

func TestParseSpanishLabels(t *testing.T) {
	raw := strings.Join([]string{
		"**1. Dar en el clavo**",
		"**Traducción literal:** To hit the nail",
		"**Traducción contextual:** To hit the spot",
		"**Uso:** When something is exactly right",
		"**Ejemplo:** Diste en el clavo con ese regalo",
	}, "\n")
	model := NewParser().Parse(raw, "", "", "es")

	if len(model.Elements) != 1 {
		t.Fatalf("got %d top-level elements, want 1 grouped expression", len(model.Elements))
	}
	if got := len(model.Elements[0].Children); got != 4 {
		t.Errorf("expression has %d children, want 4", got)
	}
}

func TestParseIsStateless(t *testing.T) {
	p := NewParser()
	first := p.Parse("# Chapter 1: One", "", "", "en")
	second := p.Parse("# Chapter 1: One", "", "", "en")

	if first.Elements[0].ID != second.Elements[0].ID {
		t.Errorf("ids differ across calls: %q vs %q; parser leaked state",
			first.Elements[0].ID, second.Elements[0].ID)
	}
	if first.Elements[0].Metadata["chapter"] != second.Elements[0].Metadata["chapter"] {
		t.Errorf("chapter numbering leaked state across calls")
	}
}
