// Package bookpub turns AI-generated book markup into commercially
// distributable ebook artifacts.
//
// # Quick Start
//
// Create a service and convert a book:
//
//	svc := bookpub.New()
//	result, err := svc.Convert(ctx, bookpub.Input{
//	    BookID:   "42",
//	    BookUUID: "0b7d3c9e",
//	    Title:    "Spanish Expressions",
//	    Author:   "A. Writer",
//	    Content:  rawMarkup,
//	    Formats:  []bookpub.ExportFormat{bookpub.FormatPDF, bookpub.FormatEPUB},
//	    OutputDir: "/var/books/out",
//	})
//
// The result carries the parsed DocumentModel, the effective formatting
// options, a QualityScore report, a UI preview payload, and one artifact
// path per successfully rendered format. Per-format failures are
// collected in result.Failures and never abort sibling formats.
//
// # Conversion Pipeline
//
// The pipeline runs strictly forward:
//
//  1. Structural cleanup (technical headings, duplicate titles, heading
//     renumbering; every pass is idempotent)
//  2. Markup parsing into a typed element tree with TOC and term index
//  3. Professional formatting (theme, platform minimums, stable
//     anchors, automatic index)
//  4. Quality analysis (structure / typography / platform compliance /
//     commercial readiness, advisory only)
//  5. Rendering (PDF via gofpdf, EPUB via go-epub, DOCX as
//     WordprocessingML, plain text)
//
// # Platforms
//
// Each target storefront carries its own physical constraints (minimum
// font size, line spacing, cover dimensions). LookupPlatform is total:
// unknown platforms resolve to the Standard spec, never an error. The
// formatter raises sub-minimum typography values and never lowers
// user-specified larger ones.
//
// # Legacy Content
//
// Books generated before the structured parser existed are stored as
// plain markup. Service.ExportLegacy and the renderers' fallback path
// re-split that raw text by heading markers so old content stays
// exportable without a DocumentModel.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := bookpub.New(
//	    bookpub.WithLogger(logger),
//	    bookpub.WithOutputDir("/var/books/out"),
//	    bookpub.WithCapabilities(caps),
//	)
//
// The capability table is built once at startup; a format whose backing
// codec is unavailable yields a typed RenderError instead of a partial
// file.
package bookpub
