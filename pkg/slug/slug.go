package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name.
// Supports Spanish characters by transliterating them to ASCII equivalents.
//
// Examples:
//   - "Bolsa Mariana Café" → "bolsa-mariana-cafe"
//   - "Cartera Niñas" → "cartera-ninas"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// Transliterate Spanish characters to ASCII
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
		"á", "a", // á (Unicode escape)
		"é", "e", // é
		"í", "i", // í
		"ó", "o", // ó
		"ú", "u", // ú
		"ñ", "n", // ñ
		"ü", "u", // ü
	)
	slug = replacer.Replace(slug)

	// Replace any non-alphanumeric characters with hyphens
	slug = slugRegexp.ReplaceAllString(slug, "-")

	// Trim leading and trailing hyphens
	slug = strings.Trim(slug, "-")

	// Collapse consecutive hyphens into single hyphens
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return slug
}
