package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// bookFlags holds book identity and metadata flags.
type bookFlags struct {
	id       string
	uuid     string
	title    string
	author   string
	language string
	cover    string
}

// typographyFlags holds typography override flags.
type typographyFlags struct {
	fontFamily  string
	fontSize    float64
	lineSpacing float64
}

// toggleFlags holds the structural page and enhancement toggles.
// Each no* flag disables one commercially-on-by-default element.
type toggleFlags struct {
	noCover       bool
	noTitlePage   bool
	noCopyright   bool
	noTOC         bool
	noAboutAuthor bool
	noHighlight   bool
	noPhonetics   bool
	noChapterNums bool
	noPageBreaks  bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	formats    []string
	platform   string
	theme      string
	analyze    bool
	legacy     bool
	book       bookFlags
	typography typographyFlags
	toggles    toggleFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addBookFlags adds book metadata flags to a FlagSet.
func addBookFlags(fs *flag.FlagSet, f *bookFlags) {
	fs.StringVar(&f.id, "book-id", "", "book identifier used in artifact names")
	fs.StringVar(&f.uuid, "book-uuid", "", "book UUID used in artifact names")
	fs.StringVar(&f.title, "title", "", "book title (\"\" = auto from markup)")
	fs.StringVar(&f.author, "author", "", "author display name")
	fs.StringVar(&f.language, "language", "", "book language code (en, es)")
	fs.StringVar(&f.cover, "cover", "", "cover image path")
}

// addTypographyFlags adds typography override flags to a FlagSet.
func addTypographyFlags(fs *flag.FlagSet, f *typographyFlags) {
	fs.StringVar(&f.fontFamily, "font-family", "", "body font family")
	fs.Float64Var(&f.fontSize, "font-size", 0, "body font size in points")
	fs.Float64Var(&f.lineSpacing, "line-spacing", 0, "line spacing multiplier")
}

// addToggleFlags adds structural toggles to a FlagSet.
func addToggleFlags(fs *flag.FlagSet, f *toggleFlags) {
	fs.BoolVar(&f.noCover, "no-cover", false, "disable cover page")
	fs.BoolVar(&f.noTitlePage, "no-title-page", false, "disable title page")
	fs.BoolVar(&f.noCopyright, "no-copyright", false, "disable copyright page")
	fs.BoolVar(&f.noTOC, "no-toc", false, "disable table of contents")
	fs.BoolVar(&f.noAboutAuthor, "no-about-author", false, "disable about-the-author page")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable expression highlighting")
	fs.BoolVar(&f.noPhonetics, "no-phonetics", false, "hide phonetic transcriptions")
	fs.BoolVar(&f.noChapterNums, "no-chapter-numbers", false, "disable chapter numbering")
	fs.BoolVar(&f.noPageBreaks, "no-page-breaks", false, "disable chapter page breaks")
}

// parseConvertFlags parses the convert command's arguments.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SortFlags = false

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "artifact output directory")
	fs.StringSliceVarP(&f.formats, "formats", "f", nil, "export formats: pdf,epub,docx,txt")
	fs.StringVarP(&f.platform, "platform", "p", "", "target platform (amazon_kdp, apple_books, ...)")
	fs.StringVar(&f.theme, "theme", "", "visual theme: classic, modern, elegant, academic")
	fs.BoolVar(&f.analyze, "analyze", false, "run quality analysis only, render nothing")
	fs.BoolVar(&f.legacy, "legacy", false, "treat input as legacy content, skip the parser")
	addBookFlags(fs, &f.book)
	addTypographyFlags(fs, &f.typography)
	addToggleFlags(fs, &f.toggles)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
