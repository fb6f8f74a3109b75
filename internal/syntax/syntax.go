// Package syntax supplies the fixed enumerations behind a snippet's
// `language` and `style` fields, plus HTML rendering of a snippet.
//
// Both enumerations come from the chroma library's registries. Using the same
// source for validation, the /api/languages and /api/styles listings, and
// rendering means the three can never disagree about what a legal value is:
// any language that validates is a language chroma can actually highlight.
package syntax

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/sakif/snippet-api/internal/model"
)

// ChoiceSet is a fixed enumeration of legal values for a choice-constrained
// field. It is configuration-time constant data: membership never changes at
// runtime.
type ChoiceSet struct {
	names    []string
	contains func(string) bool
}

// Names returns the ordered list of legal identifiers.
func (c ChoiceSet) Names() []string {
	return c.names
}

// Contains reports whether value is a member of the enumeration.
func (c ChoiceSet) Contains(value string) bool {
	return c.contains(value)
}

// LanguageChoices returns the enumeration of recognized language identifiers.
//
// The names come from chroma's lexer registry, aliases included, so both the
// canonical name ("Python") and the short identifiers clients typically send
// ("python", "py") are listed. Membership checks go through lexers.Get, which
// matches names and aliases case-insensitively — the same lookup used when
// the snippet is eventually highlighted.
func LanguageChoices() ChoiceSet {
	return ChoiceSet{
		names: lexers.Names(true),
		contains: func(value string) bool {
			return lexers.Get(value) != nil
		},
	}
}

// StyleChoices returns the enumeration of recognized display styles.
//
// styles.Get falls back to a default style for unknown names rather than
// failing, so membership is checked against the registry map directly.
func StyleChoices() ChoiceSet {
	return ChoiceSet{
		names: styles.Names(),
		contains: func(value string) bool {
			_, ok := styles.Registry[value]
			return ok
		},
	}
}

// Highlight writes a standalone HTML rendering of the snippet's code to w,
// using the snippet's language for lexing, its style for colouring, and its
// linenos flag to toggle line numbering.
//
// A snippet that passed validation always names a registered language and
// style, but Highlight still tolerates stale values (e.g. a lexer removed by
// a chroma upgrade after the row was written) by falling back rather than
// erroring.
func Highlight(w io.Writer, snippet *model.Snippet) error {
	lexer := lexers.Get(snippet.Language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	// Coalesce merges runs of identical token types — smaller output, same look.
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, snippet.Code)
	if err != nil {
		return fmt.Errorf("syntax: tokenising snippet %d: %w", snippet.ID, err)
	}

	formatter := html.New(
		html.Standalone(true),
		html.WithLineNumbers(snippet.Linenos),
	)
	if err := formatter.Format(w, styles.Get(snippet.Style), iterator); err != nil {
		return fmt.Errorf("syntax: formatting snippet %d: %w", snippet.ID, err)
	}
	return nil
}
