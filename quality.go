package bookpub

import (
	"fmt"
	"math"
	"strings"
)

// Category point budgets. The four categories always sum to maxTotalScore.
const (
	maxStructureScore  = 25
	maxTypographyScore = 25
	maxComplianceScore = 25
	maxCommercialScore = 25
	maxTotalScore      = maxStructureScore + maxTypographyScore + maxComplianceScore + maxCommercialScore
)

// Market readiness verdicts.
const (
	VerdictExcellent = "excellent"
	VerdictGood      = "good"
	VerdictFair      = "fair"
	VerdictPoor      = "poor"
)

// issueFloodThreshold triggers the leading global warning.
const issueFloodThreshold = 10

// CategoryScore is one scored quality axis with the issues that cost it
// points.
type CategoryScore struct {
	Name   string
	Score  int
	Max    int
	Issues []string
}

// QualityScore is the full market-readiness report for one formatted
// document.
type QualityScore struct {
	Structure          CategoryScore
	Typography         CategoryScore
	PlatformCompliance CategoryScore
	CommercialElements CategoryScore

	TotalScore int
	MaxScore   int
	Percentage int

	Verdict     string
	MarketReady bool

	Recommendations []string
	PlatformSupport map[Platform]bool
}

// Analyzer scores formatted documents. Pure: it never mutates its inputs
// and never panics. The zero value is ready to use.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze scores model across structure, typography, platform compliance
// and commercial readiness. The verdict is purely a function of the
// total percentage; no single rule is special-cased.
func (a *Analyzer) Analyze(model *DocumentModel, opts FormattingOptions) QualityScore {
	opts = opts.withDefaults()
	spec := LookupPlatform(opts.Platform)

	score := QualityScore{
		Structure:          a.scoreStructure(model),
		Typography:         a.scoreTypography(opts, spec),
		PlatformCompliance: a.scoreCompliance(opts, spec),
		CommercialElements: a.scoreCommercial(opts),
		MaxScore:           maxTotalScore,
		PlatformSupport:    platformSupport(opts),
	}

	score.TotalScore = score.Structure.Score + score.Typography.Score +
		score.PlatformCompliance.Score + score.CommercialElements.Score
	score.Percentage = int(math.Round(float64(score.TotalScore) / float64(score.MaxScore) * 100))

	switch {
	case score.Percentage >= 90:
		score.Verdict, score.MarketReady = VerdictExcellent, true
	case score.Percentage >= 75:
		score.Verdict, score.MarketReady = VerdictGood, true
	case score.Percentage >= 60:
		score.Verdict, score.MarketReady = VerdictFair, false
	default:
		score.Verdict, score.MarketReady = VerdictPoor, false
	}

	score.Recommendations = a.recommendations(score, opts)
	return score
}

func (a *Analyzer) scoreStructure(model *DocumentModel) CategoryScore {
	cat := CategoryScore{Name: "structure", Max: maxStructureScore}
	if model == nil {
		cat.Issues = append(cat.Issues, "No document structure available")
		return cat
	}

	chapters := model.ChapterCount()
	if chapters > 0 {
		cat.Score += 8
	} else {
		cat.Issues = append(cat.Issues, "No chapters detected")
	}

	if strings.TrimSpace(model.Title) != "" {
		cat.Score += 4
	} else {
		cat.Issues = append(cat.Issues, "Book title is missing")
	}

	paragraphs, expressions := 0, 0
	model.Walk(func(el *DocumentElement) bool {
		switch el.Kind {
		case KindParagraph:
			paragraphs++
		case KindExpression:
			expressions++
		}
		return true
	})

	if paragraphs > 0 {
		cat.Score += 5
	} else {
		cat.Issues = append(cat.Issues, "No body paragraphs found")
	}
	if expressions > 0 {
		cat.Score += 4
	} else {
		cat.Issues = append(cat.Issues, "No vocabulary expressions found")
	}

	if balancedChapters(model) {
		cat.Score += 4
	} else {
		cat.Issues = append(cat.Issues, "Chapter lengths are strongly unbalanced")
	}
	return cat
}

// balancedChapters reports whether no chapter exceeds three times the
// average chapter word count. Documents with fewer than two chapters are
// trivially balanced.
func balancedChapters(model *DocumentModel) bool {
	counts := chapterWordCounts(model)
	if len(counts) < 2 {
		return true
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	avg := float64(total) / float64(len(counts))
	if avg == 0 {
		return true
	}
	for _, c := range counts {
		if float64(c) > 3*avg {
			return false
		}
	}
	return true
}

func chapterWordCounts(model *DocumentModel) []int {
	var counts []int
	current := -1
	model.Walk(func(el *DocumentElement) bool {
		if el.Kind == KindChapter {
			counts = append(counts, 0)
			current = len(counts) - 1
			return true
		}
		if current >= 0 {
			counts[current] += len(strings.Fields(VisibleText(el.Content)))
		}
		return true
	})
	return counts
}

// serifFamilies are the families accepted as print-appropriate body text.
var serifFamilies = map[string]bool{
	"georgia": true, "garamond": true, "times new roman": true,
	"times": true, "palatino": true, "book antiqua": true, "baskerville": true,
}

func (a *Analyzer) scoreTypography(opts FormattingOptions, spec PlatformSpec) CategoryScore {
	cat := CategoryScore{Name: "typography", Max: maxTypographyScore}

	if strings.TrimSpace(opts.FontFamily) != "" {
		cat.Score += 5
	} else {
		cat.Issues = append(cat.Issues, "No font family selected")
	}

	if serifFamilies[strings.ToLower(strings.TrimSpace(opts.FontFamily))] {
		cat.Score += 3
	} else {
		cat.Issues = append(cat.Issues, "A serif font family reads better in commercial body text")
	}

	if opts.FontSizeBody >= spec.RecommendedFontSize {
		cat.Score += 7
	} else {
		cat.Issues = append(cat.Issues,
			fmt.Sprintf("Body font %.1fpt is below the recommended %.1fpt", opts.FontSizeBody, spec.RecommendedFontSize))
	}

	if opts.LineSpacing >= spec.RecommendedSpacing {
		cat.Score += 5
	} else {
		cat.Issues = append(cat.Issues,
			fmt.Sprintf("Line spacing %.2f is below the recommended %.2f", opts.LineSpacing, spec.RecommendedSpacing))
	}

	if opts.FontSizeH1 > opts.FontSizeH2 && opts.FontSizeH2 > opts.FontSizeH3 && opts.FontSizeH3 > opts.FontSizeBody {
		cat.Score += 5
	} else {
		cat.Issues = append(cat.Issues, "Heading sizes should decrease strictly from H1 to body")
	}
	return cat
}

func (a *Analyzer) scoreCompliance(opts FormattingOptions, spec PlatformSpec) CategoryScore {
	cat := CategoryScore{Name: "platform_compliance", Max: maxComplianceScore}

	if opts.FontSizeBody >= spec.MinFontSize {
		cat.Score += 10
	} else {
		cat.Issues = append(cat.Issues,
			fmt.Sprintf("Body font %.1fpt violates the %s minimum of %.1fpt", opts.FontSizeBody, spec.Name, spec.MinFontSize))
	}

	if opts.LineSpacing >= spec.MinLineSpacing {
		cat.Score += 10
	} else {
		cat.Issues = append(cat.Issues,
			fmt.Sprintf("Line spacing %.2f violates the %s minimum of %.2f", opts.LineSpacing, spec.Name, spec.MinLineSpacing))
	}

	if !spec.SupportsInteractiveTOC || opts.IncludeTOC {
		cat.Score += 5
	} else {
		cat.Issues = append(cat.Issues,
			fmt.Sprintf("%s supports an interactive TOC but the TOC page is disabled", spec.Name))
	}
	return cat
}

func (a *Analyzer) scoreCommercial(opts FormattingOptions) CategoryScore {
	cat := CategoryScore{Name: "commercial_elements", Max: maxCommercialScore}
	checks := []struct {
		enabled bool
		points  int
		issue   string
	}{
		{opts.IncludeCover, 6, "Cover page is disabled"},
		{opts.IncludeTitlePage, 4, "Title page is disabled"},
		{opts.IncludeCopyright, 5, "Copyright page is disabled"},
		{opts.IncludeTOC, 5, "Table of contents page is disabled"},
		{opts.IncludeAboutAuthor, 5, "About-the-author page is disabled"},
	}
	for _, c := range checks {
		if c.enabled {
			cat.Score += c.points
		} else {
			cat.Issues = append(cat.Issues, c.issue)
		}
	}
	return cat
}

// platformSupport evaluates the hard minimums of every registered
// platform against the effective options.
func platformSupport(opts FormattingOptions) map[Platform]bool {
	support := make(map[Platform]bool, len(Platforms()))
	for _, p := range Platforms() {
		spec := LookupPlatform(p)
		support[p] = opts.FontSizeBody >= spec.MinFontSize && opts.LineSpacing >= spec.MinLineSpacing
	}
	return support
}

// recommendations concatenates the first three issues per category,
// prefixed with a global warning when the total issue count floods, and
// followed by the fixed structural reminders.
func (a *Analyzer) recommendations(score QualityScore, opts FormattingOptions) []string {
	categories := []CategoryScore{
		score.Structure, score.Typography, score.PlatformCompliance, score.CommercialElements,
	}

	totalIssues := 0
	for _, cat := range categories {
		totalIssues += len(cat.Issues)
	}

	var recs []string
	if totalIssues > issueFloodThreshold {
		recs = append(recs, fmt.Sprintf("Document needs significant work: %d issues found", totalIssues))
	}
	for _, cat := range categories {
		issues := cat.Issues
		if len(issues) > 3 {
			issues = issues[:3]
		}
		recs = append(recs, issues...)
	}
	if !opts.IncludePrologue {
		recs = append(recs, "Consider adding a prologue to ease readers into the book")
	}
	if !opts.IncludeTOC {
		recs = append(recs, "Consider enabling the table of contents for navigation")
	}
	return recs
}
