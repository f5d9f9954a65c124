package catalog

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w\-]+`)
	hyphensRe    = regexp.MustCompile(`-{2,}`)
)

// Slugify derives the category slug: lower-cased, whitespace runs become "_",
// anything outside [A-Za-z0-9_-] is dropped and hyphen runs collapse to one.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = nonWordRe.ReplaceAllString(s, "")
	s = hyphensRe.ReplaceAllString(s, "-")
	return s
}
