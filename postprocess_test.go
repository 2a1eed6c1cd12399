package bookpub

import (
	"strings"
	"testing"
)

func TestStripTechnicalHeadings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		removed bool
	}{
		{name: "chunk marker", input: "## Chunk 3", removed: true},
		{name: "spanish fragment marker", input: "## Fragmento 12", removed: true},
		{name: "part of marker", input: "# Part 2 of 5", removed: true},
		{name: "planning marker", input: "### Planning notes", removed: true},
		{name: "outline marker", input: "## Story outline", removed: true},
		{name: "draft marker", input: "## First draft", removed: true},
		{name: "continuation marker", input: "## Continuation", removed: true},
		{name: "internal tag", input: "## [INTERNAL] reviewer notes", removed: true},
		{name: "real chapter kept", input: "# Chapter 1: Greetings", removed: false},
		{name: "real section kept", input: "### Common Mistakes", removed: false},
		{name: "body text never touched", input: "The planning took years.", removed: false},
	}

	pp := NewPostprocessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pp.StripTechnicalHeadings(tt.input)
			if tt.removed && got != "" {
				t.Errorf("StripTechnicalHeadings(%q) = %q, want removed", tt.input, got)
			}
			if !tt.removed && got != tt.input {
				t.Errorf("StripTechnicalHeadings(%q) = %q, want unchanged", tt.input, got)
			}
		})
	}
}

func TestStripDuplicateTitle(t *testing.T) {
	input := strings.Join([]string{
		"# Mexican Spanish Expressions",
		"",
		"Some intro.",
		"",
		"# Mexican Spanish Expressions!",
		"",
		"# MEXICAN SPANISH EXPRESSIONS",
		"",
		"# A Different Heading Entirely",
	}, "\n")

	got := NewPostprocessor().StripDuplicateTitle(input, "Mexican Spanish Expressions")

	if n := strings.Count(got, "Mexican Spanish"); n != 1 {
		t.Errorf("title appears %d times, want 1 (case/punctuation-insensitive dedupe)", n)
	}
	if !strings.Contains(got, "# A Different Heading Entirely") {
		t.Error("unrelated heading was removed")
	}
	if !strings.Contains(got, "Some intro.") {
		t.Error("body text was removed")
	}
}

func TestStripDuplicateTitleNoKnownTitle(t *testing.T) {
	input := "# Repeated\n\n# Repeated"
	if got := NewPostprocessor().StripDuplicateTitle(input, ""); got != input {
		t.Errorf("empty book title must leave text unchanged, got %q", got)
	}
}

func TestRenumberHeadings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "stale chapter number rewritten",
			input:    "# Chapter 5: Greetings",
			expected: "# Chapter 1: Greetings",
		},
		{
			name:     "correct chapter untouched",
			input:    "# Chapter 1: Greetings",
			expected: "# Chapter 1: Greetings",
		},
		{
			name:     "spanish chapter keyword",
			input:    "# Capítulo 9: Saludos",
			expected: "# Chapter 1: Saludos",
		},
		{
			name:     "numeric level-1 is a chapter in disguise",
			input:    "# 3. Getting Around",
			expected: "# Chapter 1: Getting Around",
		},
		{
			name:     "plain level-1 title untouched",
			input:    "# My Book Title",
			expected: "# My Book Title",
		},
		{
			name:     "stale section number",
			input:    "# Chapter 1: One\n## 1.5 Basics",
			expected: "# Chapter 1: One\n## 1.1 Basics",
		},
		{
			name:     "stale subsection number",
			input:    "# Chapter 1: One\n## 1.1 Basics\n### 9.9.9 Details",
			expected: "# Chapter 1: One\n## 1.1 Basics\n### 1.1.1 Details",
		},
		{
			name:     "unnumbered section advances counter",
			input:    "# Chapter 1: One\n## Warm-up\n## 1.9 Drills",
			expected: "# Chapter 1: One\n## Warm-up\n## 1.2 Drills",
		},
		{
			name:     "new chapter resets sections",
			input:    "# Chapter 1: One\n## 1.1 A\n# Chapter 2: Two\n## 2.7 B",
			expected: "# Chapter 1: One\n## 1.1 A\n# Chapter 2: Two\n## 2.1 B",
		},
		{
			name:     "unnumbered keyword chapter advances counter",
			input:    "# Chapter: Intro\n## 5.1 Basics",
			expected: "# Chapter: Intro\n## 1.1 Basics",
		},
		{
			name:     "unnumbered keyword chapter counts toward siblings",
			input:    "# Chapter: Intro\n# Chapter 5: Next",
			expected: "# Chapter: Intro\n# Chapter 2: Next",
		},
	}

	pp := NewPostprocessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pp.RenumberHeadings(tt.input); got != tt.expected {
				t.Errorf("RenumberHeadings() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenumberHeadingsNoOpOnConsistentDocument(t *testing.T) {
	input := strings.Join([]string{
		"# Chapter 1: Greetings",
		"## 1.1 Informal",
		"### 1.1.1 Among Friends",
		"## 1.2 Formal",
		"# Chapter 2: Food",
		"## 2.1 Street Food",
		"",
		"Body text stays as written.",
	}, "\n")

	if got := NewPostprocessor().RenumberHeadings(input); got != input {
		t.Errorf("consistent document was modified:\n%s", got)
	}
}

func TestCleanStructureIdempotent(t *testing.T) {
	messy := strings.Join([]string{
		"# Mexican Spanish Expressions",
		"## Chunk 1",
		"# Chapter 4: Greetings",
		"## 4.9 Informal",
		"# Mexican Spanish Expressions",
		"# Capítulo 7: Food",
		"### 1.2.3 Tacos",
		"Body text.",
	}, "\n")

	pp := NewPostprocessor()
	once := pp.CleanStructure(messy, "Mexican Spanish Expressions")
	twice := pp.CleanStructure(once, "Mexican Spanish Expressions")

	if once != twice {
		t.Errorf("CleanStructure is not idempotent:\nfirst  %q\nsecond %q", once, twice)
	}
	if strings.Contains(once, "Chunk") {
		t.Error("technical heading survived cleanup")
	}
	if strings.Count(once, "# Mexican Spanish Expressions") != 1 {
		t.Error("duplicate title survived cleanup")
	}
	if !strings.Contains(once, "# Chapter 1: Greetings") {
		t.Error("first chapter was not renumbered to 1")
	}
	if !strings.Contains(once, "# Chapter 2: Food") {
		t.Error("second chapter was not renumbered to 2")
	}
}
