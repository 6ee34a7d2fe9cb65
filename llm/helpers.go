package llm

import (
	"regexp"
	"strings"
)

var (
	fenceLine   = regexp.MustCompile("(?m)^[ \t]*```[\\w-]*[ \t]*\r?$\n?")
	inlineFence = regexp.MustCompile("(?i)```(html)?")
)

// StripCodeFences removes markdown code fences that models sometimes wrap
// around their answer: whole fence lines (``` or ```html) and any stray
// inline fence markers.
func StripCodeFences(s string) string {
	s = fenceLine.ReplaceAllString(s, "")
	s = inlineFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
