package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	bookpub "github.com/mfialho/go-bookpub"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input file specified")
	ErrReadInput        = errors.New("failed to read input file")
	ErrInvalidExtension = errors.New("input must have a .md, .markdown, or .txt extension")
	ErrUnknownCommand   = errors.New("unknown command")
)

// inputExtensions are the accepted markup file extensions.
var inputExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// run dispatches the top-level command.
func run(args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: none given", ErrUnknownCommand)
	}

	switch args[1] {
	case "convert":
		flags, rest, err := parseConvertFlags(args[2:])
		if err != nil {
			return err
		}
		return runConvert(context.Background(), rest, flags, env)
	case "platforms":
		printPlatforms(env.Stdout)
		return nil
	case "formats":
		printFormats(env.Stdout)
		return nil
	case "doctor":
		return runDoctorCmd(args[2:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "bookpub %s\n", Version)
		return nil
	case "help", "-h", "--help":
		topic := ""
		if len(args) > 2 {
			topic = args[2]
		}
		printHelp(env.Stdout, topic)
		return nil
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[1])
	}
}

// runConvert reads one markup file and runs the publishing pipeline.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	if len(positional) == 0 {
		return ErrNoInput
	}
	inputPath := positional[0]
	if !inputExtensions[strings.ToLower(filepath.Ext(inputPath))] {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-chosen input file
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	input, err := buildInput(inputPath, string(content), flags, cfg, env)
	if err != nil {
		return err
	}

	svc := bookpub.New(bookpub.WithOutputDir(input.OutputDir))

	start := env.Now()
	var result *bookpub.Result
	if flags.legacy {
		result, err = svc.ExportLegacy(ctx, input)
	} else {
		result, err = svc.Convert(ctx, input)
	}
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		printResult(env.Stdout, result)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Completed in %s\n", env.Now().Sub(start).Round(10*time.Millisecond))
	}

	// Per-format failures are reported but only fail the run when
	// nothing rendered at all.
	for _, failure := range result.Failures {
		fmt.Fprintf(env.Stderr, "warning: %v\n", failure)
	}
	if len(result.Failures) > 0 && len(result.Artifact) == 0 && !flags.analyze {
		return result.Failures[0]
	}
	return nil
}

// buildInput merges flags, config, and environment into one request.
// Precedence: flag > environment > config file > derived default.
func buildInput(inputPath, content string, flags *convertFlags, cfg *Config, env *Environment) (bookpub.Input, error) {
	envCfg := loadEnvConfig(env.Getenv)

	pick := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	opts := bookpub.DefaultFormattingOptions()
	opts.Platform = bookpub.Platform(pick(flags.platform, envCfg.Platform, cfg.Platform, string(opts.Platform)))
	opts.Theme = bookpub.Theme(pick(flags.theme, envCfg.Theme, cfg.Theme, string(opts.Theme)))
	opts.FontFamily = pick(flags.typography.fontFamily, cfg.FontFamily, opts.FontFamily)
	if flags.typography.fontSize > 0 {
		opts.FontSizeBody = flags.typography.fontSize
	} else if cfg.FontSize > 0 {
		opts.FontSizeBody = cfg.FontSize
	}
	if flags.typography.lineSpacing > 0 {
		opts.LineSpacing = flags.typography.lineSpacing
	} else if cfg.LineSpacing > 0 {
		opts.LineSpacing = cfg.LineSpacing
	}

	opts.IncludeCover = !flags.toggles.noCover && !cfg.NoCover
	opts.IncludeTitlePage = !flags.toggles.noTitlePage
	opts.IncludeCopyright = !flags.toggles.noCopyright && !cfg.NoCopyright
	opts.IncludeTOC = !flags.toggles.noTOC && !cfg.NoTOC
	opts.IncludeAboutAuthor = !flags.toggles.noAboutAuthor && !cfg.NoAboutAuthor
	opts.HighlightExpressions = !flags.toggles.noHighlight
	opts.ShowPhonetics = !flags.toggles.noPhonetics
	opts.NumberChapters = !flags.toggles.noChapterNums
	opts.UseChapterBreaks = !flags.toggles.noPageBreaks

	formats, err := resolveFormats(flags, envCfg, cfg)
	if err != nil {
		return bookpub.Input{}, err
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	bookID := pick(flags.book.id, base)
	outputDir := pick(flags.output, envCfg.OutputDir, cfg.OutputDir, filepath.Dir(inputPath))

	return bookpub.Input{
		BookID:    bookID,
		BookUUID:  pick(flags.book.uuid, shortDigest(inputPath)),
		Title:     flags.book.title,
		Author:    pick(flags.book.author, cfg.Author),
		Language:  pick(flags.book.language, cfg.Language),
		Content:   content,
		CoverPath: flags.book.cover,
		Options:   &opts,
		Formats:   formats,
		OutputDir: outputDir,
	}, nil
}

// resolveFormats merges the format list sources and parses each name.
// The analyze flag suppresses rendering entirely.
func resolveFormats(flags *convertFlags, envCfg *envConfig, cfg *Config) ([]bookpub.ExportFormat, error) {
	if flags.analyze {
		return nil, nil
	}

	names := flags.formats
	if len(names) == 0 && envCfg.Formats != "" {
		names = strings.Split(envCfg.Formats, ",")
	}
	if len(names) == 0 {
		names = cfg.Formats
	}
	if len(names) == 0 {
		return bookpub.AllFormats(), nil
	}

	var formats []bookpub.ExportFormat
	for _, name := range names {
		f, err := bookpub.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// printResult writes the human-readable conversion summary.
func printResult(w io.Writer, result *bookpub.Result) {
	if result.Model != nil {
		fmt.Fprintf(w, "Parsed %q: %d chapters, %d elements, %d words\n",
			result.Model.Title, result.Model.ChapterCount(),
			result.Model.ElementCount(), result.Model.WordCount())
		fmt.Fprintf(w, "Quality: %d/%d (%s)", result.Quality.TotalScore, result.Quality.MaxScore, result.Quality.Verdict)
		if result.Quality.MarketReady {
			fmt.Fprint(w, " (market ready)")
		}
		fmt.Fprintln(w)
		for _, rec := range result.Quality.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	for _, artifact := range result.Artifact {
		fmt.Fprintf(w, "Wrote %s: %s\n", artifact.Format, artifact.Path)
	}
	for _, note := range result.Notes {
		fmt.Fprintf(w, "  note: %s\n", note)
	}
}

// shortDigest derives a stable artifact suffix from the input path, for
// runs that do not carry a real book UUID.
func shortDigest(s string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return fmt.Sprintf("%08x", h)
}

func printPlatforms(w io.Writer) {
	fmt.Fprintln(w, "Supported platforms:")
	for _, p := range bookpub.Platforms() {
		spec := bookpub.LookupPlatform(p)
		fmt.Fprintf(w, "  %-18s min font %.0fpt, min spacing %.2f\n",
			string(p), spec.MinFontSize, spec.MinLineSpacing)
	}
}

func printFormats(w io.Writer) {
	caps := bookpub.DetectCapabilities()
	fmt.Fprintln(w, "Export formats:")
	for _, f := range bookpub.AllFormats() {
		status := "available"
		if !caps.Available(f) {
			status = "unavailable"
		}
		fmt.Fprintf(w, "  %-5s %s\n", string(f), status)
	}
}
