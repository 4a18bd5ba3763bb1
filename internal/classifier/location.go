package classifier

import (
	"regexp"
	"sort"
)

// locationPatterns are the lexical patterns used to pull place mentions out
// of article text. Purely best-effort; no geocoding and no gazetteer.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+ (?:University|College|Campus))\b`),
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+ (?:Street|Road|Avenue|Boulevard|Lane))\b`),
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+, [A-Z]{2})\b`), // City, ST
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+ (?:County|District))\b`),
	regexp.MustCompile(`(?i)\b(downtown|uptown|campus|university area)\b`),
}

// ExtractLocations returns deduplicated location mentions found in text.
// Order is not guaranteed by the contract; the result is sorted so callers
// get deterministic output.
func ExtractLocations(text string) []string {
	if text == "" {
		return []string{}
	}

	seen := make(map[string]bool)
	for _, pattern := range locationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			seen[m[1]] = true
		}
	}

	locations := make([]string, 0, len(seen))
	for loc := range seen {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}
