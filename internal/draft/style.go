package draft

import (
	"fmt"
	"slices"
	"strings"
)

const (
	StyleV1 = "v1"
	StyleV2 = "v2"

	// DefaultStyle is the prompt revision used when none is configured.
	DefaultStyle = StyleV2
)

// Example is a worked dictation/output pair shown to the model.
type Example struct {
	Input  string
	Output string
}

// Style is one prompt revision: the style instruction, its worked
// examples, how the user segment is rendered and whether output is
// filtered.
type Style struct {
	Name        string
	Instruction string
	Examples    []Example
	// Filtered styles run model output through the line filter.
	Filtered bool

	render func(Request) string
}

// Document assembles the prompt for req.
func (s Style) Document(req Request) (Document, error) {
	b := NewBuilder().Style(s.Instruction)
	for _, ex := range s.Examples {
		b.Example(ex.Input, ex.Output)
	}
	return b.User(s.render(req)).Build()
}

var styles = map[string]Style{
	StyleV1: {
		Name: StyleV1,
		Instruction: "Redacta una Comparecencia de Funcionarios policial según formato español.\n" +
			"Tono impersonal, objetivo y formal. No inventes datos.",
		render: renderV1,
	},
	StyleV2: {
		Name:        StyleV2,
		Instruction: v2Instruction,
		Examples:    v2Examples,
		Filtered:    true,
		render:      renderV2,
	},
}

// LookupStyle returns the named style.
func LookupStyle(name string) (Style, bool) {
	s, ok := styles[name]
	return s, ok
}

// StyleNames lists the known styles in order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func renderV1(req Request) string {
	var b strings.Builder
	b.WriteString("Contexto:\n")
	fmt.Fprintf(&b, "Filiaciones: %s\n", jsonList(req.Filiaciones))
	fmt.Fprintf(&b, "Objetos: %s\n", jsonList(req.Objetos))
	fmt.Fprintf(&b, "Texto dictado: \"\"\"%s\"\"\"\n", req.Texto)
	b.WriteString("Estructura con párrafos HTML (<p>...</p>) y cierre oficial.")
	return b.String()
}

func renderV2(req Request) string {
	var b strings.Builder
	b.WriteString("Texto dictado:\n\"\"\"\n")
	b.WriteString(req.Texto)
	b.WriteString("\n\"\"\"\n\n")
	fmt.Fprintf(&b, "Filiaciones: %s\n", jsonList(req.Filiaciones))
	fmt.Fprintf(&b, "Objetos: %s\n", jsonList(req.Objetos))
	fmt.Fprintf(&b, "Fichas resueltas: %s\n", jsonList(req.Fichas))

	ids := make([]Identity, len(req.Fichas))
	for i, f := range req.Fichas {
		ids[i] = ParseIdentity(f)
	}
	if directives := identityDirectives(FindMatches(req.Texto, ids)); directives != "" {
		b.WriteString("\n")
		b.WriteString(directives)
	}

	b.WriteString("\nRedacta ahora el cuerpo de la comparecencia siguiendo las reglas y el estilo de los ejemplos.")
	return b.String()
}

// identityDirectives tells the model which mentions to replace with which
// record, and which to leave as dictated.
func identityDirectives(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Sustitución de identidades:\n")
	for _, m := range matches {
		switch {
		case m.Identity != nil:
			fmt.Fprintf(&b, "- Sustituye «%s» y cualquier otra mención a «%s» por: «%s». "+
				"Usa solo los datos de la ficha «%s»; no añadas datos que no figuren en ella ni dejes huecos.\n",
				m.Phrase, m.Mention, m.Identity.Describe(), m.Identity.Record)
		case m.Ambiguous():
			fmt.Fprintf(&b, "- «%s» coincide con varias fichas: mantén la mención tal como aparece en el dictado.\n", m.Phrase)
		default:
			fmt.Fprintf(&b, "- «%s» no tiene ficha: mantén la mención tal como aparece en el dictado.\n", m.Phrase)
		}
	}
	b.WriteString("Cualquier otra persona sin ficha coincidente se menciona tal como aparece en el dictado.\n")
	return b.String()
}
