package bookpub

import "strings"

// ElementKind identifies the semantic role of a DocumentElement.
// The set is closed: renderers dispatch on it with exhaustive switches.
type ElementKind int

const (
	KindBookTitle ElementKind = iota
	KindChapter
	KindChapterTitle
	KindSection
	KindSubsection
	KindParagraph
	KindExpression
	KindPhonetic
	KindTranslationLiteral
	KindTranslationContextual
	KindUsage
	KindExample
	KindList
	KindListItem
	KindSeparator
	KindTocNode
	KindIndexEntry
)

// kindNames maps each kind to its stable string form, used in attributes
// and artifact debugging output.
var kindNames = map[ElementKind]string{
	KindBookTitle:             "book-title",
	KindChapter:               "chapter",
	KindChapterTitle:          "chapter-title",
	KindSection:               "section",
	KindSubsection:            "subsection",
	KindParagraph:             "paragraph",
	KindExpression:            "expression",
	KindPhonetic:              "phonetic",
	KindTranslationLiteral:    "translation-literal",
	KindTranslationContextual: "translation-contextual",
	KindUsage:                 "usage",
	KindExample:               "example",
	KindList:                  "list",
	KindListItem:              "list-item",
	KindSeparator:             "separator",
	KindTocNode:               "toc-node",
	KindIndexEntry:            "index-entry",
}

// String returns the stable name of the kind.
func (k ElementKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsHeading reports whether the kind participates in document navigation.
func (k ElementKind) IsHeading() bool {
	switch k {
	case KindBookTitle, KindChapter, KindChapterTitle, KindSection, KindSubsection:
		return true
	}
	return false
}

// HeadingLevel returns the outline depth of a heading kind (1-based).
// Non-heading kinds return 0.
func (k ElementKind) HeadingLevel() int {
	switch k {
	case KindBookTitle, KindChapter:
		return 1
	case KindChapterTitle:
		return 2
	case KindSection:
		return 3
	case KindSubsection:
		return 4
	}
	return 0
}

// DocumentElement is one node of the parsed document tree.
// A node exclusively owns its children; no node has more than one parent.
// Content holds inline-markup-expanded, HTML-escaped text.
type DocumentElement struct {
	ID         string
	Kind       ElementKind
	Content    string
	Attributes *OrderedAttrs
	Children   []*DocumentElement
	Metadata   map[string]any
}

// NewElement creates an element with empty attribute and metadata maps.
func NewElement(id string, kind ElementKind, content string) *DocumentElement {
	return &DocumentElement{
		ID:         id,
		Kind:       kind,
		Content:    content,
		Attributes: NewOrderedAttrs(),
		Metadata:   map[string]any{},
	}
}

// AppendChild transfers ownership of child to e, preserving order.
func (e *DocumentElement) AppendChild(child *DocumentElement) {
	e.Children = append(e.Children, child)
}

// OrderedAttrs is a string-keyed attribute map that preserves insertion
// order. Setting an existing key updates the value in place.
type OrderedAttrs struct {
	keys   []string
	values map[string]string
}

// NewOrderedAttrs creates an empty attribute map.
func NewOrderedAttrs() *OrderedAttrs {
	return &OrderedAttrs{values: map[string]string{}}
}

// Set stores key=value, keeping first-insertion order for iteration.
func (a *OrderedAttrs) Set(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value for key and whether it was present.
func (a *OrderedAttrs) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the attribute keys in insertion order.
func (a *OrderedAttrs) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a *OrderedAttrs) Len() int { return len(a.keys) }

// TOCEntry is one node of the navigable table of contents tree,
// mirroring heading order in the source.
type TOCEntry struct {
	ID       string
	Title    string
	Level    int
	Children []*TOCEntry
}

// TermIndex maps an indexed term to the ordered element IDs where it
// appears. Keys are unique; insertion order is preserved for both keys
// and locations; a location is never duplicated under the same term.
type TermIndex struct {
	terms     []string
	locations map[string][]string
}

// NewTermIndex creates an empty index.
func NewTermIndex() *TermIndex {
	return &TermIndex{locations: map[string][]string{}}
}

// Add registers elementID as a location of term. Empty terms are ignored.
func (ix *TermIndex) Add(term, elementID string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	locs, ok := ix.locations[term]
	if !ok {
		ix.terms = append(ix.terms, term)
	}
	for _, loc := range locs {
		if loc == elementID {
			return
		}
	}
	ix.locations[term] = append(locs, elementID)
}

// Terms returns the indexed terms in insertion order.
func (ix *TermIndex) Terms() []string {
	out := make([]string, len(ix.terms))
	copy(out, ix.terms)
	return out
}

// Locations returns the ordered element IDs for term.
func (ix *TermIndex) Locations(term string) []string {
	locs := ix.locations[term]
	out := make([]string, len(locs))
	copy(out, locs)
	return out
}

// Len returns the number of indexed terms.
func (ix *TermIndex) Len() int { return len(ix.terms) }

// DocumentModel is the whole book as produced by Parse and enriched by
// Format. Element order equals source reading order throughout the
// pipeline; renumbering rewrites display numbers only.
type DocumentModel struct {
	Title    string
	Author   string
	Language string
	Elements []*DocumentElement
	TOC      []*TOCEntry
	Index    *TermIndex
	Metadata map[string]any
}

// Walk visits every element in reading order, parents before children.
// The visit function returning false stops descent into that subtree.
func (m *DocumentModel) Walk(visit func(*DocumentElement) bool) {
	var walk func(els []*DocumentElement)
	walk = func(els []*DocumentElement) {
		for _, el := range els {
			if visit(el) {
				walk(el.Children)
			}
		}
	}
	walk(m.Elements)
}

// FindByID returns the element with the given id, or nil.
func (m *DocumentModel) FindByID(id string) *DocumentElement {
	var found *DocumentElement
	m.Walk(func(el *DocumentElement) bool {
		if found != nil {
			return false
		}
		if el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// ChapterCount returns the number of Chapter elements.
func (m *DocumentModel) ChapterCount() int {
	n := 0
	m.Walk(func(el *DocumentElement) bool {
		if el.Kind == KindChapter {
			n++
		}
		return true
	})
	return n
}

// ElementCount returns the total number of elements, children included.
func (m *DocumentModel) ElementCount() int {
	n := 0
	m.Walk(func(*DocumentElement) bool {
		n++
		return true
	})
	return n
}

// WordCount returns the total word count over all element contents.
func (m *DocumentModel) WordCount() int {
	n := 0
	m.Walk(func(el *DocumentElement) bool {
		n += len(strings.Fields(VisibleText(el.Content)))
		return true
	})
	return n
}
