package structure

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/panbanda/codestat/pkg/models"
)

// controlWords open control blocks in languages whose function headers carry
// no declaration keyword; a header whose first call-like token is one of them
// is not a definition.
var controlWords = map[string]bool{
	"if": true, "else": true, "for": true, "foreach": true, "while": true, "do": true,
	"switch": true, "case": true, "catch": true, "try": true, "finally": true,
	"return": true, "throw": true, "sizeof": true, "typeof": true, "using": true,
	"lock": true, "synchronized": true, "fixed": true, "checked": true,
	"unchecked": true, "function": true, "await": true, "yield": true,
	"super": true, "this": true, "static_assert": true, "decltype": true,
	"alignof": true,
}

// keywordless function patterns accept any call-like header. Patterns
// anchored on fn, func, fun, def, function or sub never see a control
// statement and skip the controlWords check.
var keywordless = map[*regexp.Regexp]bool{
	cKeywordFunc: true,
	javaLikeFunc: true,
	jsMethod:     true,
}

// receiverNames are implicit-receiver parameters excluded from parameter counts.
var receiverNames = map[string]bool{"self": true, "this": true, "cls": true}

var (
	returnRe   = regexp.MustCompile(`\breturn\b`)
	lifetimeRe = regexp.MustCompile(`'\w+\s*`)
)

// namedGroup returns the text of a named group of match m, or "".
func namedGroup(re *regexp.Regexp, m []int, s, group string) (string, int, int) {
	i := re.SubexpIndex(group)
	if i < 0 || m[2*i] < 0 {
		return "", -1, -1
	}
	return s[m[2*i]:m[2*i+1]], m[2*i], m[2*i+1]
}

// balanced reports whether parentheses in s are balanced.
func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// paramList extracts the parameter text of the first parenthesized list at or
// after pos, skipping generic brackets and nullability markers. ok is false
// when no list follows.
func paramList(s string, pos int) (string, bool) {
	i := pos
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '?' || c == '!':
			i++
		case c == '<' || c == '[':
			closer := byte('>')
			if c == '[' {
				closer = ']'
			}
			depth := 0
			for ; i < len(s); i++ {
				if s[i] == c {
					depth++
				} else if s[i] == closer {
					depth--
					if depth == 0 {
						i++
						break
					}
				}
			}
		case c == '(':
			depth := 0
			for j := i; j < len(s); j++ {
				switch s[j] {
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						return s[i+1 : j], true
					}
				}
			}
			return s[i+1:], true
		default:
			return "", false
		}
	}
	return "", false
}

// splitTopLevel splits s on sep outside of (), [], {} and <>.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 && !(s[i] == '>' && i > 0 && s[i-1] == '-') {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// countParams counts formal parameters, excluding receivers, bare markers
// such as Python's * and /, and C's (void).
func countParams(params string) int {
	n := 0
	for _, p := range splitTopLevel(params, ',') {
		p = strings.TrimSpace(p)
		if p == "" || p == "void" || p == "*" || p == "/" {
			continue
		}
		if isReceiver(p) {
			continue
		}
		n++
	}
	return n
}

func isReceiver(p string) bool {
	p = strings.TrimLeft(p, "&")
	p = lifetimeRe.ReplaceAllString(p, "")
	p = strings.TrimPrefix(p, "mut ")
	if i := strings.IndexByte(p, ':'); i >= 0 {
		p = p[:i]
	}
	return receiverNames[strings.TrimSpace(p)]
}

// recursionRe matches a call of name that is not a member access of another
// identifier.
func recursionRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\w$])` + regexp.QuoteMeta(name) + `\s*\(`)
}

// ternaries counts ?-: conditionals on a line. The ? must follow whitespace
// or a closing paren and be followed by a : later on the line, which skips
// optional chaining, nullable types and predicate method names.
func ternaries(code string) int {
	n := 0
	for i := 1; i < len(code); i++ {
		if code[i] != '?' {
			continue
		}
		prev := code[i-1]
		if prev != ' ' && prev != '\t' && prev != ')' {
			continue
		}
		if i+1 < len(code) && strings.ContainsRune(".?:=>", rune(code[i+1])) {
			continue
		}
		if i+1 >= len(code) || !strings.Contains(code[i+1:], ":") {
			continue
		}
		n++
	}
	return n
}

// stripAnnotations removes annotations and attributes from a header.
func stripAnnotations(r *rules, header string) string {
	if r.annotations == nil {
		return header
	}
	return r.annotations.ReplaceAllString(header, " ")
}

func keywordVisibility(def models.Visibility) func(string, string) models.Visibility {
	return func(header, _ string) models.Visibility {
		for _, w := range strings.Fields(header) {
			switch w {
			case "private", "fileprivate":
				return models.VisibilityPrivate
			case "protected":
				return models.VisibilityProtected
			case "internal":
				return models.VisibilityInternal
			case "public", "open":
				return models.VisibilityPublic
			}
		}
		return def
	}
}

var swiftVisibility = keywordVisibility(models.VisibilityInternal)

func staticPrivate(header, _ string) models.Visibility {
	if hasWord(header, "static") {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

func staticUnknown(header, name string) models.Visibility {
	if hasWord(header, "static") && !strings.Contains(header, "::") {
		return models.VisibilityPrivate
	}
	return models.VisibilityUnknown
}

func jsVisibility(header, name string) models.Visibility {
	switch {
	case strings.HasPrefix(name, "#") || hasWord(header, "private"):
		return models.VisibilityPrivate
	case hasWord(header, "protected"):
		return models.VisibilityProtected
	default:
		return models.VisibilityPublic
	}
}

func goVisibility(_, name string) models.Visibility {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return models.VisibilityPublic
		}
		return models.VisibilityPrivate
	}
	return models.VisibilityUnknown
}

var rustPubScoped = regexp.MustCompile(`\bpub\s*\(`)

func rustVisibility(header, _ string) models.Visibility {
	switch {
	case rustPubScoped.MatchString(header):
		return models.VisibilityInternal
	case hasWord(header, "pub"):
		return models.VisibilityPublic
	default:
		return models.VisibilityPrivate
	}
}

func pubPublic(header, _ string) models.Visibility {
	if hasWord(header, "pub") || hasWord(header, "export") {
		return models.VisibilityPublic
	}
	return models.VisibilityPrivate
}

func underscorePrivate(_, name string) models.Visibility {
	if strings.HasPrefix(name, "_") {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

func pythonVisibility(_, name string) models.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
		return models.VisibilityPrivate
	case strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__"):
		return models.VisibilityProtected
	default:
		return models.VisibilityPublic
	}
}

func rubyVisibility(header, _ string) models.Visibility {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return models.VisibilityUnknown
	}
	switch fields[0] {
	case "private":
		return models.VisibilityPrivate
	case "protected":
		return models.VisibilityProtected
	case "public":
		return models.VisibilityPublic
	}
	return models.VisibilityUnknown
}

func luaVisibility(header, _ string) models.Visibility {
	if strings.HasPrefix(strings.TrimSpace(header), "local") {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

func elixirVisibility(header, _ string) models.Visibility {
	if hasWord(header, "defp") || hasWord(header, "defmacrop") {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

func hasWord(s, w string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}) {
		if f == w {
			return true
		}
	}
	return false
}

var (
	extendsRe    = regexp.MustCompile(`\bextends\s+(.+?)(?:\bimplements\b|\bwith\b|$)`)
	implementsRe = regexp.MustCompile(`\bimplements\s+(.+?)(?:\bextends\b|\bwith\b|$)`)
	withRe       = regexp.MustCompile(`\bwith\s+(.+?)(?:\bimplements\b|$)`)
	whereRe      = regexp.MustCompile(`\bwhere\b.*$`)
	accessRe     = regexp.MustCompile(`\b(?:public|private|protected|virtual|internal)\b`)
	csInterface  = regexp.MustCompile(`^I[A-Z]`)
	scalaExtends = regexp.MustCompile(`\bextends\s+(.*)$`)
	rubySuper    = regexp.MustCompile(`^\s*<\s*[\w:]`)
)

func typeList(s string, sep byte) []string {
	var out []string
	for _, p := range splitTopLevel(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func groupList(re *regexp.Regexp, rest string) []string {
	m := re.FindStringSubmatch(rest)
	if m == nil {
		return nil
	}
	return typeList(m[1], ',')
}

// extendsBases parses Java-style "extends A implements B, C" lists. Dart's
// "with" mixins count toward inheritance.
func extendsBases(rest string, _ models.StructureType) (int, int) {
	ext := groupList(extendsRe, rest)
	impl := groupList(implementsRe, rest)
	with := groupList(withRe, rest)
	return len(ext) + len(impl) + len(with), len(impl)
}

// scalaBases parses "extends A with B with C"; mixed-in traits are interfaces.
func scalaBases(rest string, _ models.StructureType) (int, int) {
	m := scalaExtends.FindStringSubmatch(rest)
	if m == nil {
		return 0, 0
	}
	parts := strings.Split(m[1], " with ")
	return len(parts), len(parts) - 1
}

// colonBases parses "Name : A, B" lists. isInterface classifies a base; nil
// counts none as interfaces.
func colonBases(isInterface func(string) bool) func(string, models.StructureType) (int, int) {
	return func(rest string, kind models.StructureType) (int, int) {
		rest = whereRe.ReplaceAllString(rest, "")
		i := strings.Index(strings.ReplaceAll(rest, "::", "  "), ":")
		if i < 0 {
			return 0, 0
		}
		bases := typeList(accessRe.ReplaceAllString(rest[i+1:], ""), ',')
		ifaces := 0
		if isInterface != nil && kind != models.StructureInterface {
			for _, b := range bases {
				if isInterface(b) {
					ifaces++
				}
			}
		}
		return len(bases), ifaces
	}
}

func csharpInterface(base string) bool {
	return csInterface.MatchString(base)
}

// kotlinInterface treats supertypes without a constructor call as interfaces.
func kotlinInterface(base string) bool {
	return !strings.Contains(base, "(")
}

// plusBases parses Rust supertraits "trait A: B + C".
func plusBases(rest string, _ models.StructureType) (int, int) {
	rest = whereRe.ReplaceAllString(rest, "")
	i := strings.Index(rest, ":")
	if i < 0 {
		return 0, 0
	}
	return len(typeList(rest[i+1:], '+')), 0
}

func ltBases(rest string, _ models.StructureType) (int, int) {
	if rubySuper.MatchString(rest) {
		return 1, 0
	}
	return 0, 0
}

func subtypeBases(rest string, _ models.StructureType) (int, int) {
	if strings.Contains(rest, "<:") {
		return 1, 0
	}
	return 0, 0
}
