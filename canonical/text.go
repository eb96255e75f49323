package canonical

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// gramsPerOunce is the fixed conversion factor for serving weights.
const gramsPerOunce = 28.3495

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a string to a URL-friendly slug: lowercased, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// CleanDescription strips configured boilerplate substrings from a
// description, case-insensitively, and collapses whitespace.
func CleanDescription(text string, boilerplate []string) string {
	if text == "" {
		return ""
	}
	for _, bad := range boilerplate {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(bad))
		if err != nil {
			continue
		}
		text = re.ReplaceAllString(text, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// OzToGrams converts an ounce amount to grams rounded to one decimal.
// Returns false if the amount does not parse as a number.
func OzToGrams(oz string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(oz), 64)
	if err != nil {
		return 0, false
	}
	return math.Round(v*gramsPerOunce*10) / 10, true
}

// MapDietTags maps vendor dietary tag slugs onto schema.org Diet URIs.
func MapDietTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	uris := make([]string, len(tags))
	for i, t := range tags {
		uris[i] = "https://schema.org/" + t + "Diet"
	}
	return uris
}
