package bookpub

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled heading patterns for the structural cleanup passes.
var (
	anyHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

	// Chapter heading already carrying the localized keyword and number.
	chapterHeading = regexp.MustCompile(`^#\s+(?i:chapter|cap[íi]tulo)\s*(\d+)\s*:?\s*(.*)$`)

	// Keyword chapter heading without a number ("# Chapter: Intro").
	chapterKeywordPrefix = regexp.MustCompile(`^(?i:chapter|cap[íi]tulo)\b`)

	// Numeric display prefixes of any depth: "3.", "3.1", "3.1.2:".
	numericPrefix = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.:]?\s+(.*)$`)

	// Normalization for title comparison: drop everything that is not a
	// letter or digit.
	titleNormalizer = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// technicalMarkers matches headings that exist only for the generator's
// internal organization and must never reach a published book. Both
// generator languages are covered.
var technicalMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:chunk|fragmento)\s*\d+`),
	regexp.MustCompile(`(?i)\b(?:part|parte)\s+\d+\s+(?:of|de)\s+\d+\b`),
	regexp.MustCompile(`(?i)\b(?:planning|planificaci[óo]n)\b`),
	regexp.MustCompile(`(?i)\b(?:outline|esquema)\b`),
	regexp.MustCompile(`(?i)\b(?:draft|borrador)\b`),
	regexp.MustCompile(`(?i)\b(?:continuation|continuaci[óo]n)\b`),
	regexp.MustCompile(`(?i)\[(?:internal|interno)\]`),
}

// Postprocessor cleans generator markup before parsing: technical heading
// removal, duplicate title removal, and consecutive heading renumbering.
// All passes are idempotent. The zero value is ready to use.
type Postprocessor struct{}

// NewPostprocessor creates a Postprocessor.
func NewPostprocessor() *Postprocessor { return &Postprocessor{} }

// CleanStructure composes the passes in their required order: technical
// headings are stripped before renumbering so they never consume numbers.
func (pp *Postprocessor) CleanStructure(text, bookTitle string) string {
	text = pp.StripTechnicalHeadings(text)
	text = pp.StripDuplicateTitle(text, bookTitle)
	return pp.RenumberHeadings(text)
}

// StripTechnicalHeadings removes any heading whose content matches the
// fixed internal-organization marker set.
func (pp *Postprocessor) StripTechnicalHeadings(text string) string {
	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := anyHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil && isTechnicalHeading(m[2]) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isTechnicalHeading(content string) bool {
	for _, marker := range technicalMarkers {
		if marker.MatchString(content) {
			return true
		}
	}
	return false
}

// StripDuplicateTitle removes repeated top-level headings whose
// normalized text equals the known book title, keeping only the first
// occurrence. Comparison is case- and punctuation-insensitive.
func (pp *Postprocessor) StripDuplicateTitle(text, bookTitle string) string {
	want := normalizeTitle(bookTitle)
	if want == "" {
		return text
	}
	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))
	seen := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := anyHeading.FindStringSubmatch(trimmed); m != nil && len(m[1]) == 1 {
			if normalizeTitle(m[2]) == want {
				if seen {
					continue
				}
				seen = true
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func normalizeTitle(s string) string {
	return strings.ToLower(titleNormalizer.ReplaceAllString(s, ""))
}

// RenumberHeadings walks all level-1/2/3 headings in document order with
// three counters and rewrites stale display numbers:
//
//   - a level-1 chapter heading (keyword or numeric prefix) becomes
//     "Chapter N: text",
//   - a numbered level-2 heading becomes "N.M text",
//   - a numbered level-3 heading becomes "N.M.K text".
//
// Entering a chapter resets the section and subsection counters; entering
// a section resets the subsection counter. Headings that carry no number
// are left untouched but still advance their counter, so later numbered
// siblings stay consecutive. Headings already carrying the correct number
// are left byte-identical, which makes the pass idempotent.
func (pp *Postprocessor) RenumberHeadings(text string) string {
	chapter, section, subsection := 0, 0, 0

	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := chapterHeading.FindStringSubmatch(trimmed); m != nil {
			chapter++
			section, subsection = 0, 0
			if m[1] == fmt.Sprint(chapter) {
				out = append(out, line)
				continue
			}
			out = append(out, formatChapterHeading(chapter, m[2]))
			continue
		}

		m := anyHeading.FindStringSubmatch(trimmed)
		if m == nil {
			out = append(out, line)
			continue
		}

		switch len(m[1]) {
		case 1:
			// A keyword chapter heading without a number advances the
			// counter but stays untouched, so later numbered siblings
			// stay consecutive.
			if chapterKeywordPrefix.MatchString(m[2]) {
				chapter++
				section, subsection = 0, 0
				out = append(out, line)
				continue
			}
			// A numbered level-1 heading is a chapter in disguise; a
			// plain one is the book title and stays untouched.
			if pm := numericPrefix.FindStringSubmatch(m[2]); pm != nil {
				chapter++
				section, subsection = 0, 0
				out = append(out, formatChapterHeading(chapter, pm[2]))
				continue
			}
			out = append(out, line)
		case 2:
			section++
			subsection = 0
			if pm := numericPrefix.FindStringSubmatch(m[2]); pm != nil {
				want := fmt.Sprintf("%d.%d", chapter, section)
				if pm[1] == want {
					out = append(out, line)
					continue
				}
				out = append(out, fmt.Sprintf("## %s %s", want, pm[2]))
				continue
			}
			out = append(out, line)
		case 3:
			subsection++
			if pm := numericPrefix.FindStringSubmatch(m[2]); pm != nil {
				want := fmt.Sprintf("%d.%d.%d", chapter, section, subsection)
				if pm[1] == want {
					out = append(out, line)
					continue
				}
				out = append(out, fmt.Sprintf("### %s %s", want, pm[2]))
				continue
			}
			out = append(out, line)
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func formatChapterHeading(n int, rest string) string {
	// Strip any stale numeric prefix left inside the title text.
	if pm := numericPrefix.FindStringSubmatch(rest); pm != nil {
		rest = pm[2]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return fmt.Sprintf("# Chapter %d", n)
	}
	return fmt.Sprintf("# Chapter %d: %s", n, rest)
}
