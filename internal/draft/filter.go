package draft

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/kbukum/compapol/llm"
)

// Line patterns run against the folded, tag-stripped text of a whole line
// and drop it. Closing patterns run per sentence, so boilerplate appended
// to a paragraph goes without the facts before it.
var (
	linePatterns = []string{
		`^(comparecencia|diligencia|atestado|antecedentes|hechos|exposicion de (los )?hechos|relato de (los )?hechos|asunto|lugar|fecha|hora|intervinientes|funcionarios actuantes|agentes actuantes|observaciones)\b[^.]{0,60}$`,
		`^(fdo|firmado)\b`,
	}
	closingPatterns = []string{
		`y para que (asi )?conste`,
		`se extiende la presente`,
		`firman? (la presente|en prueba|de conformidad|conmigo)`,
		`lo que se hace constar`,
		`es todo cuanto`,
		`sin mas que (anadir|hacer constar)`,
		`de todo lo cual`,
	}

	markdownHeading = regexp.MustCompile(`^#{1,6}\s`)
	htmlHeading     = regexp.MustCompile(`(?i)^<h[1-6][\s>]`)
	blockTag        = regexp.MustCompile(`(?i)^</?(ul|ol|li|table|thead|tbody|tr|td|th|div|blockquote|br)\b`)
	anyTag          = regexp.MustCompile(`<[^>]*>`)
	paragraphTag    = regexp.MustCompile(`(?i)</?p\b[^>]*>`)
	// A <p> element (group 1 is its content) or a heading element.
	element = regexp.MustCompile(`(?is)<p\b[^>]*>(.*?)</p\s*>|<h[1-6]\b[^>]*>.*?</h[1-6]\s*>`)
)

// Filter removes headings and closing boilerplate from model output and
// returns one closed <p> per paragraph.
type Filter struct {
	lines    []*regexp.Regexp
	closings []*regexp.Regexp
}

// NewFilter compiles the built-in patterns plus extra, which drop whole
// lines and are matched case-insensitively against folded text.
func NewFilter(extra ...string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.lines, err = compilePatterns(append(slices.Clone(linePatterns), extra...)); err != nil {
		return nil, err
	}
	if f.closings, err = compilePatterns(closingPatterns); err != nil {
		return nil, err
	}
	return f, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("draft: invalid filter pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Apply cleans raw model output. Each <p> element is one paragraph however
// many lines it spans; outside them, bare text separated by blank lines is
// a paragraph. Heading elements are dropped. Applying it twice yields the
// same text.
func (f *Filter) Apply(raw string) string {
	text := strings.ReplaceAll(llm.StripCodeFences(raw), "\r\n", "\n")

	var out []string
	last := 0
	for _, loc := range element.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, f.loose(text[last:loc[0]])...)
		if loc[2] >= 0 {
			if p := f.paragraph(strings.Split(text[loc[2]:loc[3]], "\n")); p != "" {
				out = append(out, p)
			}
		}
		last = loc[1]
	}
	out = append(out, f.loose(text[last:])...)
	return strings.Join(out, "\n")
}

// loose handles text between elements; bare text is re-wrapped.
func (f *Filter) loose(text string) []string {
	var out, block []string
	flush := func() {
		if p := f.paragraph(block); p != "" {
			out = append(out, p)
		}
		block = nil
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case blockTag.MatchString(line):
			flush()
			if !f.dropLine(line) {
				out = append(out, line)
			}
		default:
			block = append(block, line)
		}
	}
	flush()
	return out
}

// paragraph cleans lines and wraps what is left in a single <p>. A line
// that continues an unfinished sentence is never taken for a heading.
func (f *Filter) paragraph(lines []string) string {
	var kept []string
	start := true
	for _, line := range lines {
		line = f.clean(line, start)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		plain := plainText(line)
		start = strings.ContainsRune(".!?:", rune(plain[len(plain)-1]))
	}
	if len(kept) == 0 {
		return ""
	}
	return "<p>" + strings.Join(kept, " ") + "</p>"
}

// clean drops a heading line outright, otherwise removes closing
// sentences and returns the rest. Stray <p> or </p> tags left by a
// truncated answer are discarded.
func (f *Filter) clean(line string, start bool) string {
	line = strings.TrimSpace(paragraphTag.ReplaceAllString(line, ""))
	if line == "" || markdownHeading.MatchString(line) || (start && f.dropLine(line)) {
		return ""
	}
	var b strings.Builder
	for _, s := range sentences(line) {
		if !matchAny(f.closings, plainText(s)) {
			b.WriteString(s)
		}
	}
	out := strings.TrimSpace(b.String())
	if plainText(out) == "" {
		return ""
	}
	return out
}

func (f *Filter) dropLine(line string) bool {
	if markdownHeading.MatchString(line) || htmlHeading.MatchString(line) {
		return true
	}
	plain := plainText(line)
	if plain == "" {
		return false
	}
	if isShouting(plain) {
		return true
	}
	return matchAny(f.lines, plain)
}

func plainText(s string) string {
	return strings.Trim(strings.TrimSpace(anyTag.ReplaceAllString(s, "")), "*_ ")
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	folded := fold(s)
	for _, re := range patterns {
		if re.MatchString(folded) {
			return true
		}
	}
	return false
}

// sentences splits s after each run of . ! or ? and the spaces following
// it. The parts concatenate back to s.
func sentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(".!?", rune(s[i])) {
			continue
		}
		j := i + 1
		for j < len(s) && strings.ContainsRune(".!?", rune(s[j])) {
			j++
		}
		for j < len(s) && s[j] == ' ' {
			j++
		}
		out = append(out, s[start:j])
		start, i = j, j-1
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// isShouting matches short all-caps lines without a full stop, the usual
// shape of a section title.
func isShouting(s string) bool {
	if len(s) > 80 || strings.Contains(s, ".") {
		return false
	}
	upper := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return upper >= 3
}
