package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookpub <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert a book markup file to ebook artifacts")
	fmt.Fprintln(w, "  platforms   List supported publishing platforms")
	fmt.Fprintln(w, "  formats     List export formats and their availability")
	fmt.Fprintln(w, "  doctor      Check the environment and report problems")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'bookpub help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookpub convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a book markup file to PDF, EPUB, DOCX, and TXT artifacts.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markup file (.md, .markdown, or .txt)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Artifact output directory")
	fmt.Fprintln(w, "  -f, --formats <list>      Export formats: pdf,epub,docx,txt (default all)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Book:")
	fmt.Fprintln(w, "      --book-id <s>         Book identifier used in artifact names")
	fmt.Fprintln(w, "      --book-uuid <s>       Book UUID used in artifact names")
	fmt.Fprintln(w, "      --title <s>           Book title (\"\" = auto from markup)")
	fmt.Fprintln(w, "      --author <s>          Author display name")
	fmt.Fprintln(w, "      --language <s>        Language code (en, es)")
	fmt.Fprintln(w, "      --cover <path>        Cover image path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Formatting:")
	fmt.Fprintln(w, "  -p, --platform <s>        Target platform: amazon_kdp, apple_books,")
	fmt.Fprintln(w, "                            google_play_books, kobo, smashwords, standard")
	fmt.Fprintln(w, "      --theme <s>           Theme: classic, modern, elegant, academic")
	fmt.Fprintln(w, "      --font-family <s>     Body font family")
	fmt.Fprintln(w, "      --font-size <f>       Body font size in points")
	fmt.Fprintln(w, "      --line-spacing <f>    Line spacing multiplier")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Toggles:")
	fmt.Fprintln(w, "      --no-cover            Disable cover page")
	fmt.Fprintln(w, "      --no-title-page       Disable title page")
	fmt.Fprintln(w, "      --no-copyright        Disable copyright page")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents")
	fmt.Fprintln(w, "      --no-about-author     Disable about-the-author page")
	fmt.Fprintln(w, "      --no-highlight        Disable expression highlighting")
	fmt.Fprintln(w, "      --no-phonetics        Hide phonetic transcriptions")
	fmt.Fprintln(w, "      --no-chapter-numbers  Disable chapter numbering")
	fmt.Fprintln(w, "      --no-page-breaks      Disable chapter page breaks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "      --analyze             Quality analysis only, render nothing")
	fmt.Fprintln(w, "      --legacy              Treat input as legacy content, skip the parser")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  BOOKPUB_CONFIG, BOOKPUB_OUTPUT_DIR, BOOKPUB_PLATFORM,")
	fmt.Fprintln(w, "  BOOKPUB_THEME, BOOKPUB_FORMATS")
}

// printHelp prints help for a specific topic, or general usage.
func printHelp(w io.Writer, topic string) {
	switch topic {
	case "convert":
		printConvertUsage(w)
	case "doctor":
		fmt.Fprintln(w, "Usage: bookpub doctor [--json]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check format availability, config resolution, and filesystem access.")
	default:
		printUsage(w)
	}
}
