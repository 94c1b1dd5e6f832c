package structure

import (
	"regexp"
	"strings"

	"github.com/panbanda/codestat/pkg/models"
)

// rules holds the heuristics of one language. Function, structure and owner
// patterns capture a `name` group; function patterns may capture an `owner`
// (C++ A::b, Go receivers, Kotlin extension functions) and structure patterns
// capture `kind` and an optional `rest` holding the base-type list.
type rules struct {
	functions  []*regexp.Regexp
	structures []*regexp.Regexp
	owners     []*regexp.Regexp

	decisions  *regexp.Regexp
	arms       *regexp.Regexp
	logical    *regexp.Regexp
	ternary    bool
	exceptions *regexp.Regexp
	locals     *regexp.Regexp
	fields     *regexp.Regexp

	visibility func(header, name string) models.Visibility
	// memberDefault is the visibility of members declared without a modifier
	// or section label. Nil means public.
	memberDefault func(kind models.StructureType) models.Visibility
	// sections matches access labels (C++ public:, Ruby private).
	sections *regexp.Regexp
	bases    func(rest string, kind models.StructureType) (inherit, interfaces int)

	// primaryCtor allows a parameter list right after a structure name.
	primaryCtor bool
	// topLevelFuncs restricts keywordless function patterns to blocks that
	// are not function bodies, so calls with trailing blocks are not taken
	// for definitions.
	topLevelFuncs bool
	// preprocessor lines (#if, #define) are ignored.
	preprocessor bool
	// lineEnds ends a header at a line break outside parentheses unless the
	// line ends with a continuation character.
	lineEnds    bool
	annotations *regexp.Regexp

	// Block/end family.
	opens    []*regexp.Regexp
	closes   *regexp.Regexp
	mids     *regexp.Regexp
	noOpen   *regexp.Regexp
	brackets bool
	mixins   *regexp.Regexp
	// loops open a block; a trailing do on the same line is part of the
	// loop rather than a second block (Ruby while x do).
	loops      *regexp.Regexp
	trailingDo *regexp.Regexp
	// properties counts the fields of a structure from its body lines;
	// top marks lines directly inside the structure body.
	properties func(r *rules, body []string, top []bool) int
}

var (
	cKeywordFunc  = regexp.MustCompile(`(?:^|[^.\w$>])(?:(?P<owner>[A-Za-z_]\w*)\s*::\s*)?(?P<name>~?[A-Za-z_]\w*)\s*(?:<[^(){};]*>)?\s*\(`)
	javaLikeFunc  = regexp.MustCompile(`(?:^|[^.\w$>])(?P<name>[A-Za-z_$][\w$]*)\s*(?:<[^(){};]*>)?\s*\(`)
	jsFunction    = regexp.MustCompile(`\bfunction\s*\*?\s*(?P<name>[\w$]+)\s*(?:<[^(]*>)?\s*\(`)
	jsAssignedFn  = regexp.MustCompile(`(?:^|[^.\w$])(?P<name>[\w$]+)\s*[=:]\s*(?:async\s+)?function\b`)
	jsArrow       = regexp.MustCompile(`(?:^|[^.\w$])(?P<name>[\w$]+)\s*(?::\s*[^=]+)?=\s*(?:async\s+)?(?:\([^()]*(?:\([^()]*\)[^()]*)*\)|[\w$]+)\s*(?::\s*[^=]+)?=>\s*$`)
	jsMethod      = regexp.MustCompile(`^(?:(?:public|private|protected|static|async|get|set|readonly|override|abstract|export|default|declare)\s+)*\*?\s*(?P<name>#?[\w$]+)\s*[?!]?\s*(?:<[^(]*>)?\s*\(.*\)\s*(?::\s*.+)?$`)
	goFunc        = regexp.MustCompile(`^func\s*(?:\(\s*(?:\w+\s+)?\*?\s*(?P<owner>\w+)(?:\[[^\]]*\])?\s*\)\s*)?(?P<name>\w+)\s*(?:\[[^\]]*\])?\s*\(`)
	rustFunc      = regexp.MustCompile(`(?:^|\s)fn\s+(?P<name>\w+)`)
	kotlinFunc    = regexp.MustCompile(`\bfun\s+(?:<[^>]*>\s*)?(?:(?P<owner>[\w.]+)\.)?(?P<name>\w+)\s*\(`)
	swiftFunc     = regexp.MustCompile(`\bfunc\s+(?P<name>\w+)`)
	swiftInit     = regexp.MustCompile(`(?:^|\s)(?P<name>init|deinit)[?!]?\s*(?:$|[(<])`)
	scalaFunc     = regexp.MustCompile(`\bdef\s+(?P<name>\w+)`)
	phpFunc       = regexp.MustCompile(`\bfunction\s+&?\s*(?P<name>\w+)\s*\(`)
	groovyDef     = regexp.MustCompile(`\bdef\s+(?P<name>\w+)\s*\(`)
	zigFunc       = regexp.MustCompile(`\bfn\s+(?P<name>\w+)\s*\(`)
	shellFunc     = regexp.MustCompile(`^(?:function\s+)?(?P<name>[\w.:-]+)\s*\(\s*\)$`)
	shellKeyword  = regexp.MustCompile(`^function\s+(?P<name>[\w.:-]+)$`)
	perlSub       = regexp.MustCompile(`^sub\s+(?P<name>[\w:]+)`)
	rustImpl      = regexp.MustCompile(`^(?:unsafe\s+)?impl\b(?:\s*<[^{]*?>)?\s+(?:[\w:]+(?:<[^{]*?>)?\s+for\s+)?(?:\w+::)*(?P<name>\w+)`)
	swiftExt      = regexp.MustCompile(`^(?:(?:public|private|fileprivate|internal)\s+)?extension\s+(?P<name>[\w.]+)`)
	dartExt       = regexp.MustCompile(`^extension\s+(?:\w+\s+)?on\s+(?P<name>\w+)`)
	goType        = regexp.MustCompile(`^type\s+(?P<name>\w+)(?:\[[^\]]*\])?\s+(?P<kind>struct|interface)$`)
	zigType       = regexp.MustCompile(`^(?:pub\s+)?const\s+(?P<name>\w+)\s*=\s*(?:extern\s+|packed\s+)?(?P<kind>struct|enum|union)\b(?P<rest>.*)$`)
	perlPackage   = regexp.MustCompile(`^(?P<kind>package)\s+(?P<name>[\w:]+)(?P<rest>)$`)
	javaAnnot     = regexp.MustCompile(`@[\w.]+(?:\([^)]*\))?`)
	rustAttr      = regexp.MustCompile(`#!?\[[^\]]*\]`)
	csAttr        = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)+`)
	cLogical      = regexp.MustCompile(`&&|\|\|`)
	wordLogical   = regexp.MustCompile(`&&|\|\||\band\b|\bor\b`)
	fatArrow      = regexp.MustCompile(`=>`)
	tryCatch      = regexp.MustCompile(`\b(?:try|catch|throw|throws|finally)\b`)
	cppSections   = regexp.MustCompile(`^\s*(public|private|protected)\s*:`)
	rubySections  = regexp.MustCompile(`^\s*(private|protected|public)\s*$`)
	typedField    = regexp.MustCompile(`^\s*(?:[\w.$<>\[\],?*&]+\s+)+\**[A-Za-z_$][\w$]*(?:\[[^\]]*\])?\s*(?:=[^=>]|;|\{\s*get)`)
	valField      = regexp.MustCompile(`^\s*(?:[\w@]+\s+)*(?:val|var|let)\s+[A-Za-z_]\w*`)
	tsField       = regexp.MustCompile(`^\s*(?:(?:public|private|protected|readonly|static|declare|override|accessor)\s+)*#?[A-Za-z_$][\w$]*\s*[?!]?\s*(?::[^=;(]*)?(?:=[^=>]|;)`)
	cLocals       = regexp.MustCompile(`\b(?:int|long|short|char|float|double|bool|boolean|byte|var|auto|String|string|size_t|unsigned|final|const|let|val|def|u?int\d*_t)\s+\**[A-Za-z_]\w*\s*(?:=|;|,|:|\[)`)
	jsLocals      = regexp.MustCompile(`\b(?:let|const|var)\s+[\w${\[]`)
	valLocals     = regexp.MustCompile(`\b(?:val|var|let)\s+\w+`)
	structKeyword = map[string]models.StructureType{
		"class":          models.StructureClass,
		"record":         models.StructureClass,
		"record class":   models.StructureClass,
		"actor":          models.StructureClass,
		"interface":      models.StructureInterface,
		"protocol":       models.StructureInterface,
		"defprotocol":    models.StructureInterface,
		"abstract type":  models.StructureInterface,
		"trait":          models.StructureTrait,
		"mixin":          models.StructureTrait,
		"enum":           models.StructureEnum,
		"enum class":     models.StructureEnum,
		"enum struct":    models.StructureEnum,
		"struct":         models.StructureStruct,
		"mutable struct": models.StructureStruct,
		"union":          models.StructureStruct,
		"record struct":  models.StructureStruct,
		"module":         models.StructureModule,
		"mod":            models.StructureModule,
		"object":         models.StructureModule,
		"package":        models.StructureModule,
		"defmodule":      models.StructureModule,
		"namespace":      models.StructureNamespace,
	}
)

// structRe builds a declaration pattern: optional modifiers, one of kinds,
// the declared name, and the remainder of the header.
func structRe(kinds string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:(?:[\w@.:]+|<[^<>]*>)(?:\([^)]*\))?\s+)*?(?P<kind>` + kinds +
		`)\s+(?P<name>[A-Za-z_$][\w$.]*(?:::[\w$.]+)*)(?P<rest>.*)$`)
}

func kindOf(s string) (models.StructureType, bool) {
	k, ok := structKeyword[strings.Join(strings.Fields(s), " ")]
	return k, ok
}

func classDefault(kind models.StructureType) models.Visibility {
	if kind == models.StructureClass {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

func privateMembers(models.StructureType) models.Visibility { return models.VisibilityPrivate }

var registry = map[string]*rules{
	"C": {
		functions:     []*regexp.Regexp{cKeywordFunc},
		structures:    []*regexp.Regexp{structRe(`struct|union|enum`)},
		decisions:     regexp.MustCompile(`\b(?:if|for|while|case)\b`),
		logical:       cLogical,
		ternary:       true,
		exceptions:    regexp.MustCompile(`\b(?:setjmp|longjmp|errno)\b`),
		locals:        cLocals,
		fields:        typedField,
		visibility:    staticPrivate,
		topLevelFuncs: true,
		preprocessor:  true,
	},
	"C++": {
		functions:     []*regexp.Regexp{cKeywordFunc},
		structures:    []*regexp.Regexp{structRe(`enum\s+class|enum\s+struct|class|struct|union|enum|namespace`)},
		decisions:     regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:       cLogical,
		ternary:       true,
		exceptions:    tryCatch,
		locals:        cLocals,
		fields:        typedField,
		visibility:    staticUnknown,
		memberDefault: classDefault,
		sections:      cppSections,
		bases:         colonBases(nil),
		topLevelFuncs: true,
		preprocessor:  true,
	},
	"C#": {
		functions:     []*regexp.Regexp{javaLikeFunc},
		structures:    []*regexp.Regexp{structRe(`record\s+struct|record\s+class|record|class|interface|struct|enum|namespace`)},
		decisions:     regexp.MustCompile(`\b(?:if|for|foreach|while|case|catch)\b`),
		logical:       cLogical,
		ternary:       true,
		exceptions:    tryCatch,
		locals:        cLocals,
		fields:        typedField,
		visibility:    keywordVisibility(models.VisibilityUnknown),
		memberDefault: privateMembers,
		bases:         colonBases(csharpInterface),
		primaryCtor:   true,
		topLevelFuncs: true,
		preprocessor:  true,
		annotations:   csAttr,
	},
	"Java": {
		functions:     []*regexp.Regexp{javaLikeFunc},
		structures:    []*regexp.Regexp{structRe(`class|interface|enum|record`)},
		decisions:     regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:       cLogical,
		ternary:       true,
		exceptions:    tryCatch,
		locals:        cLocals,
		fields:        typedField,
		visibility:    keywordVisibility(models.VisibilityInternal),
		bases:         extendsBases,
		primaryCtor:   true,
		topLevelFuncs: true,
		annotations:   javaAnnot,
	},
	"JavaScript": {
		functions:   []*regexp.Regexp{jsFunction, jsAssignedFn, jsArrow, jsMethod},
		structures:  []*regexp.Regexp{structRe(`class`)},
		decisions:   regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:     regexp.MustCompile(`&&|\|\||\?\?`),
		ternary:     true,
		exceptions:  tryCatch,
		locals:      jsLocals,
		fields:      tsField,
		visibility:  jsVisibility,
		bases:       extendsBases,
		annotations: javaAnnot,
		lineEnds:    true,
	},
	"TypeScript": {
		functions:   []*regexp.Regexp{jsFunction, jsAssignedFn, jsArrow, jsMethod},
		structures:  []*regexp.Regexp{structRe(`class|interface|enum|namespace|module`)},
		decisions:   regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:     regexp.MustCompile(`&&|\|\||\?\?`),
		ternary:     true,
		exceptions:  tryCatch,
		locals:      jsLocals,
		fields:      tsField,
		visibility:  jsVisibility,
		bases:       extendsBases,
		annotations: javaAnnot,
		lineEnds:    true,
	},
	"Go": {
		functions:  []*regexp.Regexp{goFunc},
		structures: []*regexp.Regexp{goType},
		decisions:  regexp.MustCompile(`\b(?:if|for|case)\b`),
		logical:    cLogical,
		exceptions: regexp.MustCompile(`\b(?:panic|recover)\s*\(|\berr\s*!=\s*nil`),
		locals:     regexp.MustCompile(`\bvar\s+\w+|\b\w+(?:\s*,\s*\w+)*\s*:=`),
		fields:     regexp.MustCompile(`^\s*[A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*\s+[^\s=(]`),
		visibility: goVisibility,
		lineEnds:   true,
	},
	"Rust": {
		functions:   []*regexp.Regexp{rustFunc},
		structures:  []*regexp.Regexp{structRe(`struct|enum|trait|union|mod`)},
		owners:      []*regexp.Regexp{rustImpl},
		decisions:   regexp.MustCompile(`\b(?:if|for|while)\b`),
		arms:        fatArrow,
		logical:     cLogical,
		exceptions:  regexp.MustCompile(`\?\s*[;)]|\bpanic!|\bErr\(|\.unwrap\(\)|\.expect\(`),
		locals:      regexp.MustCompile(`\blet\s+(?:mut\s+)?\w+`),
		fields:      regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?[A-Za-z_]\w*\s*:[^:]`),
		visibility:  rustVisibility,
		bases:       plusBases,
		annotations: rustAttr,
	},
	"Kotlin": {
		functions:   []*regexp.Regexp{kotlinFunc},
		structures:  []*regexp.Regexp{structRe(`enum\s+class|class|interface|object`)},
		decisions:   regexp.MustCompile(`\b(?:if|for|while|when|catch)\b`),
		logical:     cLogical,
		exceptions:  tryCatch,
		locals:      valLocals,
		fields:      valField,
		visibility:  keywordVisibility(models.VisibilityPublic),
		bases:       colonBases(kotlinInterface),
		primaryCtor: true,
		annotations: javaAnnot,
		lineEnds:    true,
	},
	"Swift": {
		functions:   []*regexp.Regexp{swiftFunc, swiftInit},
		structures:  []*regexp.Regexp{structRe(`class|struct|enum|protocol|actor`)},
		owners:      []*regexp.Regexp{swiftExt},
		decisions:   regexp.MustCompile(`\b(?:if|guard|for|while|case|catch)\b`),
		logical:     cLogical,
		ternary:     true,
		exceptions:  regexp.MustCompile(`\b(?:try|catch|throw|throws|rethrows)\b`),
		locals:      valLocals,
		fields:      valField,
		visibility:  swiftVisibility,
		bases:       colonBases(nil),
		annotations: javaAnnot,
		lineEnds:    true,
	},
	"Scala": {
		functions:   []*regexp.Regexp{scalaFunc},
		structures:  []*regexp.Regexp{structRe(`class|trait|object|enum`)},
		decisions:   regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:     cLogical,
		exceptions:  tryCatch,
		locals:      valLocals,
		fields:      valField,
		visibility:  keywordVisibility(models.VisibilityPublic),
		bases:       scalaBases,
		primaryCtor: true,
		annotations: javaAnnot,
		lineEnds:    true,
	},
	"PHP": {
		functions:  []*regexp.Regexp{phpFunc},
		structures: []*regexp.Regexp{structRe(`class|interface|trait|enum|namespace`)},
		decisions:  regexp.MustCompile(`\b(?:if|elseif|for|foreach|while|case|catch)\b`),
		logical:    wordLogical,
		ternary:    true,
		exceptions: tryCatch,
		locals:     regexp.MustCompile(`\$\w+\s*=[^=>]`),
		fields:     regexp.MustCompile(`^\s*(?:(?:public|private|protected|var|static|readonly)\s+)+(?:\??[\w\\]+\s+)?\$\w+`),
		visibility: keywordVisibility(models.VisibilityPublic),
		bases:      extendsBases,
	},
	"Dart": {
		functions:     []*regexp.Regexp{javaLikeFunc},
		structures:    []*regexp.Regexp{structRe(`class|mixin|enum`)},
		owners:        []*regexp.Regexp{dartExt},
		decisions:     regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:       regexp.MustCompile(`&&|\|\||\?\?`),
		ternary:       true,
		exceptions:    regexp.MustCompile(`\b(?:try|catch|throw|rethrow|finally)\b`),
		locals:        cLocals,
		fields:        typedField,
		visibility:    underscorePrivate,
		bases:         extendsBases,
		topLevelFuncs: true,
		annotations:   javaAnnot,
	},
	"Groovy": {
		functions:     []*regexp.Regexp{groovyDef, javaLikeFunc},
		structures:    []*regexp.Regexp{structRe(`class|interface|trait|enum`)},
		decisions:     regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`),
		logical:       cLogical,
		ternary:       true,
		exceptions:    tryCatch,
		locals:        cLocals,
		fields:        typedField,
		visibility:    keywordVisibility(models.VisibilityPublic),
		bases:         extendsBases,
		topLevelFuncs: true,
		annotations:   javaAnnot,
	},
	"Zig": {
		functions:  []*regexp.Regexp{zigFunc},
		structures: []*regexp.Regexp{zigType},
		decisions:  regexp.MustCompile(`\b(?:if|for|while|catch)\b`),
		arms:       fatArrow,
		logical:    regexp.MustCompile(`\b(?:and|or|orelse)\b`),
		exceptions: regexp.MustCompile(`\b(?:try|catch|errdefer)\b`),
		locals:     regexp.MustCompile(`\b(?:var|const)\s+\w+`),
		fields:     regexp.MustCompile(`^\s*[A-Za-z_]\w*\s*:\s*[^=]+?[,=]`),
		visibility: pubPublic,
	},
	"Shell": {
		functions:  []*regexp.Regexp{shellFunc, shellKeyword},
		decisions:  regexp.MustCompile(`\b(?:if|elif|for|while|until|case)\b`),
		logical:    cLogical,
		exceptions: regexp.MustCompile(`\btrap\b|\bset\s+-\w*e`),
		locals:     regexp.MustCompile(`\b(?:local|declare|typeset)\s+\w+`),
		visibility: func(string, string) models.Visibility { return models.VisibilityPublic },
	},
	"Perl": {
		functions:  []*regexp.Regexp{perlSub},
		structures: []*regexp.Regexp{perlPackage},
		decisions:  regexp.MustCompile(`\b(?:if|elsif|unless|for|foreach|while|until)\b`),
		logical:    wordLogical,
		ternary:    true,
		exceptions: regexp.MustCompile(`\b(?:die|eval|croak|confess)\b`),
		locals:     regexp.MustCompile(`\b(?:my|our|local)\s+[$@%(]`),
		visibility: underscorePrivate,
	},
	"Python": {
		decisions:  regexp.MustCompile(`\b(?:if|elif|for|while|except|case)\b`),
		logical:    regexp.MustCompile(`\b(?:and|or)\b`),
		exceptions: regexp.MustCompile(`\b(?:try|except|raise|finally)\b`),
		locals:     regexp.MustCompile(`^\s*[A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*\s*(?::[^=]+)?=[^=]`),
		visibility: pythonVisibility,
	},
	"Ruby": {
		functions: []*regexp.Regexp{regexp.MustCompile(
			`^\s*(?:(?:private|protected|public|module_function)\s+)?def\s+(?:self\.|[\w:]+\.)?(?P<name>\w+[?!=]?|\[\]=?|[+\-*/%<>=!~^&|]+)`)},
		structures: []*regexp.Regexp{regexp.MustCompile(`^\s*(?P<kind>class|module)\s+(?P<name>[\w:]+)(?P<rest>.*)$`)},
		opens: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:(?:private|protected|public)\s+)?(?:def|class|module|if|unless|case|begin)\b`),
			regexp.MustCompile(`=\s*(?:if|unless|case|begin)\b`),
		},
		loops:      regexp.MustCompile(`^\s*(?:while|until|for)\b`),
		trailingDo: regexp.MustCompile(`\bdo\s*(?:\|[^|]*\|)?\s*$`),
		closes:     regexp.MustCompile(`(?:^|[^.:\w])end\b`),
		mids:       regexp.MustCompile(`^\s*(?:elsif|else|when|in|rescue|ensure)\b`),
		noOpen:     regexp.MustCompile(`^\s*(?:(?:private|protected|public)\s+)?def\s+[\w.?!]+(?:\([^)]*\))?\s*=[^=~>]`),
		decisions:  regexp.MustCompile(`\b(?:if|elsif|unless|while|until|for|when|rescue)\b`),
		logical:    wordLogical,
		ternary:    true,
		exceptions: regexp.MustCompile(`\b(?:begin|rescue|raise|ensure|retry)\b`),
		locals:     regexp.MustCompile(`^\s*[a-z_]\w*\s*(?:\|\|)?=[^=~>]`),
		fields:     regexp.MustCompile(`@(\w+)\s*(?:\|\||\+|-)?=[^=~>]`),
		properties: rubyProperties,
		visibility: rubyVisibility,
		sections:   rubySections,
		bases:      ltBases,
		mixins:     regexp.MustCompile(`^\s*(?:include|prepend|extend)\s+[A-Z]`),
	},
	"Lua": {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:local\s+)?function\s+(?:(?P<owner>[\w.]+):)?(?P<name>[\w.]+)\s*\(`),
			regexp.MustCompile(`^\s*(?:local\s+)?(?P<name>[\w.]+)\s*=\s*function\s*\(`),
		},
		opens: []*regexp.Regexp{
			regexp.MustCompile(`\bfunction\b`),
			regexp.MustCompile(`\bif\b`),
			regexp.MustCompile(`\bdo\b`),
			regexp.MustCompile(`\brepeat\b`),
		},
		closes:     regexp.MustCompile(`\b(?:end|until)\b`),
		mids:       regexp.MustCompile(`^\s*(?:elseif|else)\b`),
		decisions:  regexp.MustCompile(`\b(?:if|elseif|for|while|until)\b`),
		logical:    regexp.MustCompile(`\b(?:and|or)\b`),
		exceptions: regexp.MustCompile(`\b(?:pcall|xpcall|error)\s*\(`),
		locals:     regexp.MustCompile(`\blocal\s+(?:function\s+)?\w+`),
		visibility: luaVisibility,
	},
	"Elixir": {
		functions: []*regexp.Regexp{regexp.MustCompile(`^\s*(?P<kind>defp|def|defmacrop|defmacro)\s+(?P<name>[\w?!]+)`)},
		structures: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?P<kind>defmodule|defprotocol)\s+(?P<name>[\w.]+)(?P<rest>.*)$`),
		},
		opens: []*regexp.Regexp{
			regexp.MustCompile(`\bdo\b`),
			regexp.MustCompile(`\bfn\b`),
		},
		closes:     regexp.MustCompile(`(?:^|[^.:\w])end\b`),
		mids:       regexp.MustCompile(`^\s*(?:else|rescue|catch|after)\b`),
		decisions:  regexp.MustCompile(`\b(?:if|unless|cond|case|with|rescue|catch)\b`),
		arms:       regexp.MustCompile(`->`),
		logical:    wordLogical,
		exceptions: regexp.MustCompile(`\b(?:try|rescue|catch|raise|throw)\b`),
		locals:     regexp.MustCompile(`^\s*[a-z_]\w*\s*=[^=~>]`),
		fields:     regexp.MustCompile(`\bdefstruct\b`),
		properties: elixirProperties,
		visibility: elixirVisibility,
		mixins:     regexp.MustCompile(`^\s*@behaviour\s+`),
	},
	"Julia": {
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:@\w+\s+)*function\s+(?:[\w.]+\.)?(?P<name>[\w!]+)`),
			regexp.MustCompile(`^\s*(?P<name>[A-Za-z_][\w!]*)\s*\([^=]*\)\s*(?:where\s+[^=]+)?=[^=]`),
		},
		structures: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?P<kind>mutable\s+struct|struct|module|abstract\s+type)\s+(?P<name>\w+)(?P<rest>.*)$`),
		},
		opens: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:function|if|for|while|begin|let|try|struct|module|baremodule|macro|quote|do)\b`),
			regexp.MustCompile(`\b(?:abstract|primitive)\s+type\b`),
		},
		closes:     regexp.MustCompile(`\bend\b`),
		mids:       regexp.MustCompile(`^\s*(?:elseif|else|catch|finally)\b`),
		brackets:   true,
		decisions:  regexp.MustCompile(`\b(?:if|elseif|for|while|catch)\b`),
		logical:    cLogical,
		ternary:    true,
		exceptions: regexp.MustCompile(`\b(?:try|catch|throw|finally|error)\b`),
		locals:     regexp.MustCompile(`^\s*(?:local\s+)?[a-z_]\w*\s*=[^=]`),
		fields:     regexp.MustCompile(`^\s*[A-Za-z_]\w*(?:\s*::\s*\S+)?\s*$`),
		properties: topLevelFields,
		visibility: underscorePrivate,
		bases:      subtypeBases,
	},
}
