// Package catalog holds the built-in holiday theme set and its one-time
// seeding logic.
package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

// BuiltinThemes returns the fixed set of themes installed on first seed.
func BuiltinThemes() []domain.Theme {
	themes := []domain.Theme{
		{
			Name:        "Christmas Bundle",
			Description: "Festive Christmas theme with snow, lights, and holiday decorations",
			Prompt:      "Transform this product into a beautiful Christmas gift bundle with festive wrapping, snow, twinkling lights, and holiday decorations. Make it look like a premium gift set under a Christmas tree.",
		},
		{
			Name:        "Winter Wonderland",
			Description: "Elegant winter theme with ice crystals and cool tones",
			Prompt:      "Create an elegant winter wonderland scene featuring this product with ice crystals, snow, cool blue and white tones, and a magical frozen atmosphere.",
		},
		{
			Name:        "New Year Celebration",
			Description: "Glamorous New Year theme with gold, sparkles, and champagne",
			Prompt:      "Design a glamorous New Year celebration scene with this product featuring gold accents, sparkles, champagne bubbles, and midnight celebration elements.",
		},
		{
			Name:        "Holiday Sale",
			Description: "Eye-catching promotional theme with sale banners and offers",
			Prompt:      "Create an eye-catching holiday sale promotion featuring this product with bold sale banners, discount tags, special offer text, and attention-grabbing promotional elements.",
		},
		{
			Name:        "Gift Bundle Set",
			Description: "Multiple products arranged as an attractive gift bundle",
			Prompt:      "Arrange these products as an attractive gift bundle set with elegant packaging, ribbons, and premium presentation that makes them look like the perfect holiday gift collection.",
		},
	}
	for i := range themes {
		themes[i].ID = uuid.NewString()
		themes[i].IsActive = true
	}
	return themes
}

// SeedIfEmpty inserts the built-in themes when the catalog has no rows yet.
// Repeat calls are no-ops. Returns true when themes were inserted.
func SeedIfEmpty(ctx context.Context, themes domain.ThemeRepository) (bool, error) {
	count, err := themes.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := themes.InsertAll(ctx, BuiltinThemes()); err != nil {
		return false, err
	}
	return true, nil
}
