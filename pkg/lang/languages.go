package lang

import "regexp"

var (
	cBlock    = BlockComment{Open: "/*", Close: "*/"}
	cDocBlock = BlockComment{Open: "/**", Close: "*/", Doc: true}
	bangDoc   = BlockComment{Open: "/*!", Close: "*/", Doc: true}
	xmlBlock  = BlockComment{Open: "<!--", Close: "-->"}

	dquote  = StringDelim{Open: `"`, Close: `"`}
	squote  = StringDelim{Open: "'", Close: "'"}
	tripleD = StringDelim{Open: `"""`, Close: `"""`, Multiline: true}
	tripleS = StringDelim{Open: "'''", Close: "'''", Multiline: true}

	cComments = []BlockComment{cDocBlock, bangDoc, cBlock}
	cStrings  = []StringDelim{dquote, squote}

	emptyLead = regexp.MustCompile(`^$`)
)

func podBlocks(opens ...string) []BlockComment {
	out := make([]BlockComment, len(opens))
	for i, open := range opens {
		out[i] = BlockComment{Open: open, Close: "=cut", Doc: true, LineStart: true}
	}
	return out
}

var languages = []*Language{
	{
		Name: "C", Extensions: []string{".c", ".h"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///"},
		BlockComments: cComments, Strings: cStrings,
	},
	{
		Name: "C++", Extensions: []string{".cpp", ".cc", ".cxx", ".c++", ".hpp", ".hh", ".hxx", ".h++", ".ipp"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///", "//!"},
		BlockComments: cComments, Strings: cStrings,
	},
	{
		Name: "C#", Extensions: []string{".cs", ".csx"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///"},
		BlockComments: cComments,
		Strings: []StringDelim{
			tripleD,
			{Open: `@"`, Close: `"`, Multiline: true, Raw: true},
			dquote, squote,
		},
	},
	{
		Name: "Java", Extensions: []string{".java"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: cComments,
		Strings: []StringDelim{tripleD, dquote, squote},
	},
	{
		Name: "JavaScript", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: cComments,
		Strings: []StringDelim{{Open: "`", Close: "`", Multiline: true}, dquote, squote},
	},
	{
		Name: "TypeScript", Extensions: []string{".ts", ".tsx", ".mts", ".cts"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: cComments,
		Strings: []StringDelim{{Open: "`", Close: "`", Multiline: true}, dquote, squote},
	},
	{
		Name: "Go", Extensions: []string{".go"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: []BlockComment{cBlock},
		Strings:   []StringDelim{{Open: "`", Close: "`", Multiline: true, Raw: true}, dquote, squote},
		DocBefore: regexp.MustCompile(`^\s*(?:func|type|var|const|package)\b`),
	},
	{
		Name: "Rust", Extensions: []string{".rs"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///", "//!"},
		BlockComments: cComments,
		Strings: []StringDelim{
			{Open: `r#"`, Close: `"#`, Multiline: true, Raw: true},
			{Open: `"`, Close: `"`, Multiline: true},
		},
		CharLiterals: true,
	},
	{
		Name: "Kotlin", Extensions: []string{".kt", ".kts"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: cComments,
		Strings: []StringDelim{{Open: `"""`, Close: `"""`, Multiline: true, Raw: true}, dquote, squote},
	},
	{
		Name: "Swift", Extensions: []string{".swift"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///"},
		BlockComments: cComments,
		Strings:       []StringDelim{tripleD, dquote},
	},
	{
		Name: "Scala", Extensions: []string{".scala", ".sc"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: cComments,
		Strings:      []StringDelim{{Open: `"""`, Close: `"""`, Multiline: true, Raw: true}, dquote},
		CharLiterals: true,
	},
	{
		Name: "PHP", Extensions: []string{".php", ".phtml"}, Family: FamilyBrace,
		LineComments: []string{"//", "#"}, BlockComments: cComments,
		Strings: cStrings,
	},
	{
		Name: "Dart", Extensions: []string{".dart"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///"},
		BlockComments: cComments,
		Strings:       []StringDelim{tripleD, tripleS, dquote, squote},
	},
	{
		Name: "Groovy", Extensions: []string{".groovy", ".gradle", ".gvy"}, Family: FamilyBrace,
		LineComments: []string{"//"}, BlockComments: cComments,
		Strings: []StringDelim{tripleD, tripleS, dquote, squote},
	},
	{
		Name: "Zig", Extensions: []string{".zig"}, Family: FamilyBrace,
		LineComments: []string{"//"}, DocComments: []string{"///", "//!"},
		Strings:      []StringDelim{dquote},
		CharLiterals: true,
	},
	{
		Name: "Shell", Extensions: []string{".sh", ".bash", ".zsh", ".ksh"}, Family: FamilyBrace,
		LineComments: []string{"#"}, CommentNeedsSpace: true,
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Multiline: true},
			{Open: "'", Close: "'", Multiline: true, Raw: true},
		},
	},
	{
		Name: "Perl", Extensions: []string{".pl", ".pm", ".t"}, Family: FamilyBrace,
		LineComments: []string{"#"}, CommentNeedsSpace: true,
		BlockComments: podBlocks("=pod", "=head", "=begin", "=over", "=item", "=encoding", "=for"),
		Strings:       cStrings,
	},
	{
		Name: "Python", Extensions: []string{".py", ".pyw", ".pyi"}, Family: FamilyIndent,
		LineComments: []string{"#"},
		Strings: []StringDelim{
			{Open: `"""`, Close: `"""`, Multiline: true, DocString: true},
			{Open: "'''", Close: "'''", Multiline: true, DocString: true},
			dquote, squote,
		},
		DocStringLead: emptyLead,
	},
	{
		Name: "Ruby", Extensions: []string{".rb", ".rake", ".gemspec"}, Family: FamilyBlock,
		LineComments:  []string{"#"},
		BlockComments: []BlockComment{{Open: "=begin", Close: "=end", LineStart: true}},
		Strings:       cStrings,
	},
	{
		Name: "Lua", Extensions: []string{".lua"}, Family: FamilyBlock,
		DocComments:   []string{"---"},
		BlockComments: []BlockComment{{Open: "--[[", Close: "]]"}},
		LineComments:  []string{"--"},
		Strings:       []StringDelim{{Open: "[[", Close: "]]", Multiline: true, Raw: true}, dquote, squote},
	},
	{
		Name: "Elixir", Extensions: []string{".ex", ".exs"}, Family: FamilyBlock,
		LineComments: []string{"#"},
		Strings: []StringDelim{
			{Open: `"""`, Close: `"""`, Multiline: true, DocString: true},
			{Open: "'''", Close: "'''", Multiline: true},
			dquote, squote,
		},
		DocStringLead: regexp.MustCompile(`^@(?:module|type)?doc$`),
	},
	{
		Name: "Julia", Extensions: []string{".jl"}, Family: FamilyBlock,
		LineComments:  []string{"#"},
		BlockComments: []BlockComment{{Open: "#=", Close: "=#"}},
		Strings:       []StringDelim{{Open: `"""`, Close: `"""`, Multiline: true, DocString: true}, dquote},
		CharLiterals:  true,
		DocStringLead: emptyLead,
	},

	// Line-only languages.
	{
		Name: "SQL", Extensions: []string{".sql"},
		LineComments: []string{"--"}, BlockComments: []BlockComment{cBlock},
		Strings: []StringDelim{squote, dquote},
	},
	{
		Name: "HTML", Extensions: []string{".html", ".htm", ".xhtml"},
		BlockComments: []BlockComment{xmlBlock},
	},
	{
		Name: "XML", Extensions: []string{".xml", ".xsd", ".xsl", ".svg"},
		BlockComments: []BlockComment{xmlBlock},
	},
	{
		Name: "CSS", Extensions: []string{".css"},
		BlockComments: []BlockComment{cBlock}, Strings: cStrings,
	},
	{
		Name: "SCSS", Extensions: []string{".scss", ".less"},
		LineComments: []string{"//"}, BlockComments: []BlockComment{cBlock}, Strings: cStrings,
	},
	{
		Name: "YAML", Extensions: []string{".yaml", ".yml"},
		LineComments: []string{"#"}, CommentNeedsSpace: true, Strings: cStrings,
	},
	{
		Name: "TOML", Extensions: []string{".toml"},
		LineComments: []string{"#"}, Strings: []StringDelim{tripleD, tripleS, dquote, squote},
	},
	{
		Name: "Markdown", Extensions: []string{".md", ".markdown"},
		BlockComments: []BlockComment{xmlBlock},
	},
}
