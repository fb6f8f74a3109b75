// Package serializer defines the transfer object for the snippet resource.
//
// WHAT IS A TRANSFER OBJECT?
// It is the single place where the wire contract of a resource lives:
// which fields exist, what types they have, which are required, what their
// defaults are, and in what order they appear in JSON. Everything between
// "raw decoded request body" and "validated domain entity" happens here.
//
// The flow in both directions:
//
//	Outbound:  *model.Snippet → Serialize() → Plain → encoding/json
//	Inbound:   encoding/json → map[string]any → Validate() → *ValidatedData
//	           → NewSnippet() or Apply() → *model.Snippet
//
// WHY VALIDATE A map[string]any INSTEAD OF DECODING INTO A STRUCT?
// Decoding JSON straight into a struct cannot tell "field absent" apart from
// "field set to its zero value" — and this contract needs the difference:
// an absent `language` defaults to "python", while a present-but-wrong one
// must be rejected, and a partial update must leave absent fields untouched.
// Validating the raw mapping keeps presence information intact and lets us
// report ALL field errors in one response instead of failing on the first.
package serializer

import (
	"fmt"
	"unicode/utf8"

	"github.com/sakif/snippet-api/internal/apperror"
	"github.com/sakif/snippet-api/internal/model"
)

// Field contract constants. These are the single source of truth — the
// SQLite schema defaults mirror DefaultLanguage/DefaultStyle rather than
// declaring their own.
const (
	MaxTitleLength  = 100
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)

// Plain is the JSON-ready projection of a snippet.
//
// Struct tag order IS wire order: encoding/json emits fields in declaration
// order, so the response body is always
// {"id":…,"title":…,"code":…,"linenos":…,"language":…,"style":…}.
// Storage-only fields of model.Snippet (timestamps) deliberately have no slot
// here — they are not part of the resource's representation.
type Plain struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Code     string `json:"code"`
	Linenos  bool   `json:"linenos"`
	Language string `json:"language"`
	Style    string `json:"style"`
}

// ValidatedData holds the inbound fields that passed validation.
//
// POINTER FIELDS = PRESENCE TRACKING:
// A nil pointer means "the client did not send this field". After a full
// Validate, defaults have been applied and every field is non-nil; after
// ValidatePartial, only the fields the client actually sent are non-nil.
// Apply relies on this to leave absent fields unchanged.
type ValidatedData struct {
	Title    *string
	Code     *string
	Linenos  *bool
	Language *string
	Style    *string
}

// ChoiceSet is the enumeration-provider collaborator: a fixed set of legal
// values for a choice-constrained field. syntax.LanguageChoices and
// syntax.StyleChoices are the production implementations; tests can inject
// small hand-built sets.
type ChoiceSet interface {
	Contains(value string) bool
}

// SnippetSerializer mediates between persisted snippets and their plain
// key/value representation. It is stateless apart from the two injected
// enumerations, so a single instance is safe for concurrent use.
type SnippetSerializer struct {
	languages ChoiceSet
	styles    ChoiceSet
}

// NewSnippetSerializer creates a serializer validating language and style
// against the given enumerations.
func NewSnippetSerializer(languages, styles ChoiceSet) *SnippetSerializer {
	return &SnippetSerializer{
		languages: languages,
		styles:    styles,
	}
}

// Serialize projects a persisted snippet into its plain representation.
// No side effects; always succeeds for a well-formed entity.
func (s *SnippetSerializer) Serialize(snippet *model.Snippet) Plain {
	return Plain{
		ID:       snippet.ID,
		Title:    snippet.Title,
		Code:     snippet.Code,
		Linenos:  snippet.Linenos,
		Language: snippet.Language,
		Style:    snippet.Style,
	}
}

// SerializeAll projects a slice of snippets, preserving order. The analogue
// of serializing a whole collection instead of a single object.
func (s *SnippetSerializer) SerializeAll(snippets []model.Snippet) []Plain {
	result := make([]Plain, 0, len(snippets))
	for i := range snippets {
		result = append(result, s.Serialize(&snippets[i]))
	}
	return result
}

// Validate checks a raw inbound mapping against the full field contract:
// `code` is required, `title` is capped at MaxTitleLength characters,
// `language` and `style` must belong to their enumerations, and every field
// must have the right JSON type. Absent optional fields get their defaults.
//
// The read-only `id` field is ignored if supplied — clients cannot assign
// IDs, but echoing a previously-read representation back is fine. Unknown
// keys are ignored for the same reason.
//
// On failure the returned error is an *apperror.AppError wrapping
// apperror.ErrValidation, carrying every failing field's messages.
func (s *SnippetSerializer) Validate(raw map[string]any) (*ValidatedData, error) {
	return s.validate(raw, false)
}

// ValidatePartial is Validate for update requests: the same type, length and
// enumeration checks apply, but no field is required and no defaults are
// filled in. Fields the client did not send stay nil in the result.
func (s *SnippetSerializer) ValidatePartial(raw map[string]any) (*ValidatedData, error) {
	return s.validate(raw, true)
}

func (s *SnippetSerializer) validate(raw map[string]any, partial bool) (*ValidatedData, error) {
	fieldErrors := make(map[string][]string)
	fail := func(field, message string) {
		fieldErrors[field] = append(fieldErrors[field], message)
	}

	data := &ValidatedData{}

	// title: optional string, blank allowed, bounded length.
	if value, present := raw["title"]; present {
		if str, ok := stringValue("title", value, fail); ok {
			// Rune count, not byte count — "100 characters" means characters,
			// and multi-byte UTF-8 titles must not be penalised.
			if utf8.RuneCountInString(str) > MaxTitleLength {
				fail("title", fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
			} else {
				data.Title = &str
			}
		}
	} else if !partial {
		blank := ""
		data.Title = &blank
	}

	// code: the one required field.
	if value, present := raw["code"]; present {
		if str, ok := stringValue("code", value, fail); ok {
			data.Code = &str
		}
	} else if !partial {
		fail("code", "code is required")
	}

	// linenos: optional boolean.
	if value, present := raw["linenos"]; present {
		if value == nil {
			fail("linenos", "linenos may not be null")
		} else if b, ok := value.(bool); ok {
			data.Linenos = &b
		} else {
			fail("linenos", "linenos must be a boolean")
		}
	} else if !partial {
		off := false
		data.Linenos = &off
	}

	// language: optional, must be in the fixed language set.
	if value, present := raw["language"]; present {
		if str, ok := stringValue("language", value, fail); ok {
			if s.languages.Contains(str) {
				data.Language = &str
			} else {
				fail("language", fmt.Sprintf("%q is not a valid language", str))
			}
		}
	} else if !partial {
		lang := DefaultLanguage
		data.Language = &lang
	}

	// style: optional, must be in the fixed style set.
	if value, present := raw["style"]; present {
		if str, ok := stringValue("style", value, fail); ok {
			if s.styles.Contains(str) {
				data.Style = &str
			} else {
				fail("style", fmt.Sprintf("%q is not a valid style", str))
			}
		}
	} else if !partial {
		style := DefaultStyle
		data.Style = &style
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.InvalidFields(fieldErrors)
	}
	return data, nil
}

// stringValue type-checks a raw JSON value expected to be a string.
// A JSON null decodes to a nil interface value, which gets its own message —
// the contract allows blank strings but never null.
func stringValue(field string, value any, fail func(field, message string)) (string, bool) {
	if value == nil {
		fail(field, field+" may not be null")
		return "", false
	}
	str, ok := value.(string)
	if !ok {
		fail(field, field+" must be a string")
		return "", false
	}
	return str, true
}

// NewSnippet constructs a fresh entity from fully validated data: the create
// semantics. The storage layer assigns ID and timestamps on insert.
//
// After a full Validate every field is non-nil, so the nil checks here only
// matter if a caller hands this partial data; defaults keep that safe.
func (s *SnippetSerializer) NewSnippet(data *ValidatedData) *model.Snippet {
	snippet := &model.Snippet{
		Language: DefaultLanguage,
		Style:    DefaultStyle,
	}
	if data.Title != nil {
		snippet.Title = *data.Title
	}
	if data.Code != nil {
		snippet.Code = *data.Code
	}
	if data.Linenos != nil {
		snippet.Linenos = *data.Linenos
	}
	if data.Language != nil {
		snippet.Language = *data.Language
	}
	if data.Style != nil {
		snippet.Style = *data.Style
	}
	return snippet
}

// Apply copies validated data onto an existing snippet: the update semantics.
// Each of title, code, language and style is set when present in data and
// left untouched when absent. ID is never written.
//
// TODO: linenos is not refreshed here, so an update cannot toggle line
// numbers. This mirrors the documented update contract exactly, but it looks
// like an omission — revisit whether linenos should join the list.
func (s *SnippetSerializer) Apply(snippet *model.Snippet, data *ValidatedData) {
	if data.Title != nil {
		snippet.Title = *data.Title
	}
	if data.Code != nil {
		snippet.Code = *data.Code
	}
	if data.Language != nil {
		snippet.Language = *data.Language
	}
	if data.Style != nil {
		snippet.Style = *data.Style
	}
}
