package draft

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identity is a resolved identity record ("ficha") split into its parts.
// Each part keeps the wording of the record.
type Identity struct {
	Record   string
	Name     string
	Document string
	Birth    string
	Parents  string
	Address  string
	Phone    string
	Extra    []string
}

type identityField int

const (
	fieldNone identityField = iota
	fieldDocument
	fieldBirth
	fieldParents
	fieldAddress
	fieldPhone
)

// Clause prefixes, folded.
var fieldPrefixes = []struct {
	field    identityField
	prefixes []string
}{
	{fieldDocument, []string{"con dni", "dni", "con nie", "nie ", "con pasaporte", "pasaporte", "provist", "titular de", "documento", "indocumentad", "sin documentacion", "sin documentar"}},
	{fieldBirth, []string{"nacid", "natural de", "fecha de nacimiento", "nacimiento"}},
	{fieldParents, []string{"hijo de", "hija de", "hijo/a de"}},
	{fieldAddress, []string{"con domicilio", "domicilio", "domiciliad", "vecin", "residente", "reside", "con residencia"}},
	{fieldPhone, []string{"con telefono", "telefono", "tel.", "tlf", "tfno", "movil"}},
}

// ParseIdentity splits a ficha on commas. The text before the first comma
// is the name; each later clause is classified by its leading words, and a
// clause with no recognised lead continues the previous field.
func ParseIdentity(record string) Identity {
	id := Identity{Record: strings.TrimSpace(record)}
	parts := strings.Split(id.Record, ",")
	id.Name = collapseSpaces(parts[0])

	last := fieldNone
	for _, part := range parts[1:] {
		clause := collapseSpaces(part)
		if clause == "" {
			continue
		}
		field := classifyClause(clause)
		if field == fieldNone && last != fieldNone {
			id.appendTo(last, clause)
			continue
		}
		if field == fieldNone {
			id.Extra = append(id.Extra, clause)
			continue
		}
		id.appendTo(field, clause)
		last = field
	}
	return id
}

func classifyClause(clause string) identityField {
	folded := fold(clause)
	for _, fp := range fieldPrefixes {
		for _, p := range fp.prefixes {
			if strings.HasPrefix(folded, p) {
				return fp.field
			}
		}
	}
	if phonePattern.MatchString(folded) {
		return fieldPhone
	}
	return fieldNone
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ]{7,14}$`)

func (id *Identity) appendTo(field identityField, clause string) {
	var dst *string
	switch field {
	case fieldDocument:
		dst = &id.Document
	case fieldBirth:
		dst = &id.Birth
	case fieldParents:
		dst = &id.Parents
	case fieldAddress:
		dst = &id.Address
	case fieldPhone:
		dst = &id.Phone
	default:
		return
	}
	if *dst == "" {
		*dst = clause
	} else {
		*dst += ", " + clause
	}
}

// Describe renders the identity for a substitution: name first, then
// document, birth, parents, address and phone, skipping absent parts.
func (id Identity) Describe() string {
	parts := make([]string, 0, 6+len(id.Extra))
	for _, p := range []string{id.Name, id.Document, id.Birth, id.Parents, id.Address, id.Phone} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, id.Extra...)
	return strings.Join(parts, ", ")
}

// feminine reports whether the record reads as referring to a woman.
func (id Identity) feminine() bool {
	for _, w := range strings.Fields(fold(id.Record)) {
		switch strings.Trim(w, ".,;:") {
		case "nacida", "hija", "vecina", "domiciliada", "provista", "indocumentada":
			return true
		}
	}
	return false
}

// Match is a person mention found in the dictation.
type Match struct {
	// Mention is the name as it should be looked up, e.g. "Juan".
	Mention string
	// Phrase is the referring expression, e.g. "el llamado Juan".
	Phrase string
	// Identity is the single matching record; nil when none or several match.
	Identity *Identity
	// Candidates counts the records the mention matched.
	Candidates int
}

// Ambiguous reports a mention that matched more than one record.
func (m Match) Ambiguous() bool { return m.Candidates > 1 }

const nameWord = `\p{Lu}[\p{L}'’\-]*`

var calledPattern = regexp.MustCompile(
	`(?:^|[^\p{L}])((?:[Ee]l|[Ll]a)\s+(?:llamad|apodad|denominad|conocid)[oa](?:\s+como)?)\s+(` +
		nameWord + `(?:\s+(?:(?:de|del|de la|y)\s+)?` + nameWord + `){0,3})`)

// FindMatches locates person mentions in texto and resolves each against
// ids. Mentions come from "el llamado X" style phrases and from whole-word
// occurrences of a record's full name or leading given names. A mention
// inside a longer one already found is skipped. Results are ordered by
// first occurrence.
func FindMatches(texto string, ids []Identity) []Match {
	type found struct {
		match      Match
		start, end int
	}
	var (
		out    []found
		seen   = map[string]bool{}
		folded = fold(texto)
	)
	covered := func(pos int) bool {
		for _, f := range out {
			if pos >= f.start && pos < f.end {
				return true
			}
		}
		return false
	}
	add := func(mention, phrase string, pos int) {
		key := fold(mention)
		m := resolve(key, ids)
		m.Mention = mention
		m.Phrase = phrase
		if m.Phrase == "" {
			article := "el llamado "
			if m.Identity != nil && m.Identity.feminine() {
				article = "la llamada "
			}
			m.Phrase = article + mention
		}
		seen[key] = true
		out = append(out, found{match: m, start: pos, end: pos + len(key)})
	}

	for _, loc := range calledPattern.FindAllStringSubmatchIndex(texto, -1) {
		name := collapseSpaces(texto[loc[4]:loc[5]])
		key := fold(name)
		if seen[key] {
			continue
		}
		lead := collapseSpaces(texto[loc[2]:loc[3]])
		pos := firstUncovered(folded, key, covered)
		if pos < 0 {
			pos = len(folded)
		}
		add(name, lead+" "+name, pos)
	}

	for _, id := range ids {
		for _, cand := range nameCandidates(id.Name) {
			key := fold(cand)
			if seen[key] {
				break
			}
			pos := firstUncovered(folded, key, covered)
			if pos < 0 {
				continue
			}
			add(cand, "", pos)
			break
		}
	}

	// Insertion sort keeps equal positions stable.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].start < out[j-1].start; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	matches := make([]Match, len(out))
	for i, f := range out {
		matches[i] = f.match
	}
	return matches
}

// firstUncovered returns the first whole-word occurrence of word in s
// that is not inside an earlier mention, or -1.
func firstUncovered(s, word string, covered func(int) bool) int {
	for from := 0; from < len(s); {
		i := wordIndex(s[from:], word)
		if i < 0 {
			return -1
		}
		pos := from + i
		if !covered(pos) {
			return pos
		}
		from = pos + len(word)
	}
	return -1
}

// resolve matches a folded mention against the records. A record matches
// when its name equals the mention, starts with it word-wise, or is a
// word-wise prefix of it. An exact name match wins over prefix matches.
func resolve(mention string, ids []Identity) Match {
	var (
		exact, partial []int
	)
	for i, id := range ids {
		name := fold(id.Name)
		switch {
		case name == "":
		case name == mention:
			exact = append(exact, i)
		case strings.HasPrefix(name, mention+" "), strings.HasPrefix(mention, name+" "):
			partial = append(partial, i)
		}
	}
	var m Match
	switch {
	case len(exact) == 1:
		m.Candidates = 1
		m.Identity = &ids[exact[0]]
	case len(exact) > 1:
		m.Candidates = len(exact)
	default:
		m.Candidates = len(partial)
		if len(partial) == 1 {
			m.Identity = &ids[partial[0]]
		}
	}
	return m
}

// nameCandidates lists the ways a record's name may appear in a
// dictation, longest first: full name, first two words, first word.
func nameCandidates(name string) []string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil
	}
	cands := []string{strings.Join(words, " ")}
	if len(words) > 2 {
		cands = append(cands, words[0]+" "+words[1])
	}
	if len(words) > 1 && utf8.RuneCountInString(words[0]) >= 3 {
		cands = append(cands, words[0])
	}
	return cands
}

// wordIndex returns the byte offset of the first whole-word occurrence of
// word in s, or -1.
func wordIndex(s, word string) int {
	if word == "" {
		return -1
	}
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(word)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return start
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return -1
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// fold lowercases s, strips diacritics and collapses whitespace so that
// "Pérez" and "perez" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return collapseSpaces(strings.ToLower(out))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
