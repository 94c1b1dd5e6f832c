// Package lang describes the supported languages and classifies source lines
// into code, comment, documentation and blank categories.
package lang

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Family selects the structural engine used for a language.
type Family int

const (
	// FamilyNone languages are counted line by line only.
	FamilyNone Family = iota
	// FamilyBrace languages delimit bodies with { and }.
	FamilyBrace
	// FamilyIndent languages delimit bodies by indentation.
	FamilyIndent
	// FamilyBlock languages close bodies with an end keyword.
	FamilyBlock
)

func (f Family) String() string {
	switch f {
	case FamilyBrace:
		return "brace"
	case FamilyIndent:
		return "indent"
	case FamilyBlock:
		return "block"
	default:
		return "none"
	}
}

// BlockComment is a delimited comment that may span lines.
type BlockComment struct {
	Open  string
	Close string
	// Doc marks documentation blocks such as /** ... */.
	Doc bool
	// LineStart delimiters are recognized only at the start of a line
	// (Ruby =begin/=end, Perl POD).
	LineStart bool
}

// StringDelim is a string literal delimiter pair.
type StringDelim struct {
	Open  string
	Close string
	// Multiline literals may continue past the end of a line.
	Multiline bool
	// Raw literals do not treat backslash as an escape.
	Raw bool
	// DocString literals are documentation when they open a statement
	// matched by Language.DocStringLead.
	DocString bool
}

// Language describes the lexical syntax of one language.
type Language struct {
	Name       string
	Extensions []string
	Family     Family

	LineComments  []string
	DocComments   []string
	BlockComments []BlockComment
	Strings       []StringDelim

	// CharLiterals enables ' handling for languages where a lone quote is
	// also a lifetime, symbol or operator (Rust, Scala, Julia, Zig).
	CharLiterals bool
	// CommentNeedsSpace requires whitespace before a line comment token,
	// so $# and ${#x} in shell code are not comments.
	CommentNeedsSpace bool
	// DocStringLead matches the code preceding a DocString literal on its line.
	DocStringLead *regexp.Regexp
	// DocBefore marks a comment run as documentation when the next line
	// matches it (Go doc comments).
	DocBefore *regexp.Regexp
}

// Structural reports whether the language has a structural engine.
func (l *Language) Structural() bool {
	return l != nil && l.Family != FamilyNone
}

var byExtension = func() map[string]*Language {
	m := make(map[string]*Language)
	for _, l := range languages {
		for _, ext := range l.Extensions {
			m[ext] = l
		}
	}
	return m
}()

// ByExtension returns the language for a file extension such as ".go".
// Lookup is case-insensitive.
func ByExtension(ext string) (*Language, bool) {
	l, ok := byExtension[strings.ToLower(ext)]
	return l, ok
}

// ForPath returns the language of a file path by its extension.
func ForPath(path string) (*Language, bool) {
	return ByExtension(filepath.Ext(path))
}

// ByName returns the language with the given display name.
func ByName(name string) (*Language, bool) {
	for _, l := range languages {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return nil, false
}

// All returns every known language, sorted by name.
func All() []*Language {
	out := make([]*Language, len(languages))
	copy(out, languages)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted display names of every known language.
func Names() []string {
	names := make([]string, 0, len(languages))
	for _, l := range languages {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}

// NameForExtension returns the language name for ext, or the extension itself
// when it is unknown.
func NameForExtension(ext string) string {
	if l, ok := ByExtension(ext); ok {
		return l.Name
	}
	return ext
}
