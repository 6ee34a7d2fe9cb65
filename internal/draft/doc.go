// Package draft builds the police-draft prompt and cleans the model's
// answer.
//
// A prompt is a Document of role-tagged segments: one style instruction,
// worked example pairs, then the user instruction carrying the dictation,
// filiaciones, objetos and identity substitution directives. Styles are
// prompt revisions; v2 is current and filters headings and closing
// formulas out of the output.
package draft
