package bookpub

import "strings"

// Platform identifies a target ebook storefront or distributor.
type Platform string

// Known platforms. PlatformStandard is the universal fallback.
const (
	PlatformStandard        Platform = "standard"
	PlatformAmazonKDP       Platform = "amazon_kdp"
	PlatformAppleBooks      Platform = "apple_books"
	PlatformGooglePlayBooks Platform = "google_play_books"
	PlatformKobo            Platform = "kobo"
	PlatformSmashwords      Platform = "smashwords"
)

// PlatformSpec holds the physical and typographic constraints of one
// platform. Values are immutable process-wide static data.
type PlatformSpec struct {
	Name Platform

	MinFontSize         float64 // points
	RecommendedFontSize float64
	MinLineSpacing      float64 // multiplier
	RecommendedSpacing  float64

	PageWidthMM  float64
	PageHeightMM float64
	MarginMM     float64

	CoverWidthPx  int
	CoverHeightPx int

	SupportsInteractiveTOC bool
	SupportsFixedLayout    bool
	RequiresDRMFree        bool
}

// platformSpecs is the registry. No mutation API exists: lookups copy.
var platformSpecs = map[Platform]PlatformSpec{
	PlatformStandard: {
		Name:                   PlatformStandard,
		MinFontSize:            8,
		RecommendedFontSize:    11,
		MinLineSpacing:         1.0,
		RecommendedSpacing:     1.4,
		PageWidthMM:            152,
		PageHeightMM:           229,
		MarginMM:               20,
		CoverWidthPx:           1600,
		CoverHeightPx:          2560,
		SupportsInteractiveTOC: true,
	},
	PlatformAmazonKDP: {
		Name:                   PlatformAmazonKDP,
		MinFontSize:            9,
		RecommendedFontSize:    11,
		MinLineSpacing:         1.15,
		RecommendedSpacing:     1.5,
		PageWidthMM:            152,
		PageHeightMM:           229,
		MarginMM:               19,
		CoverWidthPx:           1600,
		CoverHeightPx:          2560,
		SupportsInteractiveTOC: true,
	},
	PlatformAppleBooks: {
		Name:                   PlatformAppleBooks,
		MinFontSize:            10,
		RecommendedFontSize:    12,
		MinLineSpacing:         1.2,
		RecommendedSpacing:     1.5,
		PageWidthMM:            152,
		PageHeightMM:           229,
		MarginMM:               20,
		CoverWidthPx:           1400,
		CoverHeightPx:          1873,
		SupportsInteractiveTOC: true,
		SupportsFixedLayout:    true,
	},
	PlatformGooglePlayBooks: {
		Name:                   PlatformGooglePlayBooks,
		MinFontSize:            9,
		RecommendedFontSize:    11,
		MinLineSpacing:         1.1,
		RecommendedSpacing:     1.4,
		PageWidthMM:            152,
		PageHeightMM:           229,
		MarginMM:               18,
		CoverWidthPx:           1600,
		CoverHeightPx:          2560,
		SupportsInteractiveTOC: true,
	},
	PlatformKobo: {
		Name:                   PlatformKobo,
		MinFontSize:            9,
		RecommendedFontSize:    11,
		MinLineSpacing:         1.1,
		RecommendedSpacing:     1.4,
		PageWidthMM:            152,
		PageHeightMM:           229,
		MarginMM:               18,
		CoverWidthPx:           1600,
		CoverHeightPx:          2400,
		SupportsInteractiveTOC: true,
	},
	PlatformSmashwords: {
		Name:                   PlatformSmashwords,
		MinFontSize:            10,
		RecommendedFontSize:    12,
		MinLineSpacing:         1.2,
		RecommendedSpacing:     1.5,
		PageWidthMM:            152,
		PageHeightMM:           229,
		MarginMM:               20,
		CoverWidthPx:           1600,
		CoverHeightPx:          2400,
		SupportsInteractiveTOC: false,
		RequiresDRMFree:        true,
	},
}

// LookupPlatform returns the spec for the given platform key.
// It is a total function: unknown or empty keys resolve to the Standard
// spec, never an error. Keys are matched case-insensitively with both
// hyphen and underscore separators accepted.
func LookupPlatform(key Platform) PlatformSpec {
	normalized := Platform(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(key))), "-", "_"))
	if spec, ok := platformSpecs[normalized]; ok {
		return spec
	}
	return platformSpecs[PlatformStandard]
}

// Platforms returns all registered platform keys in stable order.
func Platforms() []Platform {
	return []Platform{
		PlatformStandard,
		PlatformAmazonKDP,
		PlatformAppleBooks,
		PlatformGooglePlayBooks,
		PlatformKobo,
		PlatformSmashwords,
	}
}
