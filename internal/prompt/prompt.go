// Package prompt renders the text sent to the image-generation API from a
// theme's base prompt and the requested compositional style.
package prompt

// Recognized compositional styles. Any other value leaves the base prompt
// unmodified rather than being rejected.
const (
	StyleProductBundle = "product-bundle"
	StyleHolidayTheme  = "holiday-theme"
	StylePromotionOnly = "promotion-only"
	StyleAllMerged     = "all-merged"
)

var styleSuffixes = map[string]string{
	StyleProductBundle: " Focus on creating an attractive product bundle arrangement.",
	StyleHolidayTheme:  " Emphasize the holiday atmosphere and seasonal elements.",
	StylePromotionOnly: " Highlight promotional elements, discounts, and special offers prominently.",
	StyleAllMerged:     " Combine product bundling, holiday theming, and promotional elements into one cohesive design.",
}

// Render appends the style-specific suffix to the theme's base prompt.
func Render(basePrompt, style string) string {
	return basePrompt + styleSuffixes[style]
}
