// Package structure detects functions and structural declarations in source
// code with line-oriented heuristics. The analyzers never fail: malformed or
// unusual input yields partial results.
package structure

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

// Analyzer detects the functions and structures of one language.
type Analyzer interface {
	AnalyzeFunctions(lines []string) []models.FunctionInfo
	AnalyzeStructures(lines []string) []models.StructureInfo
	LanguageName() string
	SupportedExtensions() []string
}

// Analyze runs both analyses, scanning the input once when the analyzer
// supports it.
func Analyze(a Analyzer, lines []string) ([]models.FunctionInfo, []models.StructureInfo) {
	if both, ok := a.(interface {
		Analyze(lines []string) ([]models.FunctionInfo, []models.StructureInfo)
	}); ok {
		return both.Analyze(lines)
	}
	return a.AnalyzeFunctions(lines), a.AnalyzeStructures(lines)
}

type analyzer struct {
	lang  *lang.Language
	rules *rules
}

// New returns the analyzer for l, or false when l has no structural engine.
func New(l *lang.Language) (Analyzer, bool) {
	if !l.Structural() {
		return nil, false
	}
	r, ok := registry[l.Name]
	if !ok {
		return nil, false
	}
	return &analyzer{lang: l, rules: r}, true
}

func (a *analyzer) LanguageName() string { return a.lang.Name }

func (a *analyzer) SupportedExtensions() []string {
	out := make([]string, len(a.lang.Extensions))
	copy(out, a.lang.Extensions)
	return out
}

func (a *analyzer) AnalyzeFunctions(lines []string) []models.FunctionInfo {
	fns, _ := a.Analyze(lines)
	return fns
}

func (a *analyzer) AnalyzeStructures(lines []string) []models.StructureInfo {
	_, structs := a.Analyze(lines)
	return structs
}

// Analyze scans lines once and returns functions and structures ordered by
// start line. A panic in a heuristic returns what was collected before it.
func (a *analyzer) Analyze(lines []string) (fns []models.FunctionInfo, structs []models.StructureInfo) {
	s := &scan{rules: a.rules}
	defer func() {
		if recover() != nil {
			fns, structs = s.results()
		}
	}()

	scrubbed := lang.Scrub(lines, a.lang)
	switch a.lang.Family {
	case lang.FamilyBrace:
		s.brace(scrubbed)
	case lang.FamilyIndent:
		s.indent(scrubbed)
	case lang.FamilyBlock:
		s.block(scrubbed)
	}
	return s.results()
}

// Registry maps lowercase file extensions to analyzers.
type Registry struct {
	byExt     map[string]Analyzer
	languages []string
}

// NewRegistry returns a registry holding an analyzer for every structural
// language.
func NewRegistry() *Registry {
	reg := &Registry{byExt: make(map[string]Analyzer)}
	for _, l := range lang.All() {
		a, ok := New(l)
		if !ok {
			continue
		}
		reg.languages = append(reg.languages, l.Name)
		for _, ext := range l.Extensions {
			reg.byExt[ext] = a
		}
	}
	sort.Strings(reg.languages)
	return reg
}

// ForExtension returns the analyzer for ext (".go", case-insensitive).
func (r *Registry) ForExtension(ext string) (Analyzer, bool) {
	a, ok := r.byExt[strings.ToLower(ext)]
	return a, ok
}

// ForPath returns the analyzer for the extension of path.
func (r *Registry) ForPath(path string) (Analyzer, bool) {
	return r.ForExtension(filepath.Ext(path))
}

// Languages returns the sorted names of the supported languages.
func (r *Registry) Languages() []string {
	out := make([]string, len(r.languages))
	copy(out, r.languages)
	return out
}

// Extensions returns the sorted extensions with an analyzer.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

type fnRec struct {
	info    models.FunctionInfo
	header  string
	parent  int
	owner   string
	section models.Visibility
}

type structRec struct {
	info models.StructureInfo
}

// scan accumulates the results of one analysis.
type scan struct {
	rules   *rules
	fns     []fnRec
	structs []structRec
}

func (s *scan) addFunction(fn fnRec) int {
	s.fns = append(s.fns, fn)
	return len(s.fns) - 1
}

func (s *scan) addStructure(st structRec) int {
	s.structs = append(s.structs, st)
	return len(s.structs) - 1
}

// visibility resolves a declaration's visibility from its header, falling
// back to the enclosing access section and the member default.
func (s *scan) visibility(header, name string, member bool, section models.Visibility, kind models.StructureType) models.Visibility {
	v := models.VisibilityPublic
	if s.rules.visibility != nil {
		v = s.rules.visibility(header, name)
	}
	if v != models.VisibilityUnknown {
		return v
	}
	switch {
	case member && section != "":
		return section
	case member && s.rules.memberDefault != nil:
		return s.rules.memberDefault(kind)
	default:
		return models.VisibilityPublic
	}
}

func (s *scan) results() ([]models.FunctionInfo, []models.StructureInfo) {
	firstByName := make(map[string]int, len(s.structs))
	for i := len(s.structs) - 1; i >= 0; i-- {
		firstByName[s.structs[i].info.Name] = i
	}

	fns := make([]models.FunctionInfo, 0, len(s.fns))
	owned := make(map[int][]models.FunctionInfo)
	for _, fn := range s.fns {
		if fn.info.EndLine == 0 {
			continue
		}
		info := fn.info
		member := fn.parent >= 0 || fn.owner != ""
		kind := models.StructureType("")
		if fn.parent >= 0 {
			kind = s.structs[fn.parent].info.StructureType
		}
		info.Visibility = s.visibility(fn.header, info.Name, member, fn.section, kind)
		switch {
		case fn.parent >= 0:
			info.ParentClass = s.structs[fn.parent].info.Name
			info.IsMethod = true
			owned[fn.parent] = append(owned[fn.parent], info)
		case fn.owner != "":
			info.ParentClass = fn.owner
			info.IsMethod = true
			if idx, ok := firstByName[fn.owner]; ok {
				owned[idx] = append(owned[idx], info)
			}
		}
		fns = append(fns, info)
	}
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].StartLine < fns[j].StartLine })

	structs := make([]models.StructureInfo, 0, len(s.structs))
	for i, st := range s.structs {
		if st.info.EndLine == 0 {
			continue
		}
		info := st.info
		info.Methods = owned[i]
		if info.Methods == nil {
			info.Methods = []models.FunctionInfo{}
		}
		sort.SliceStable(info.Methods, func(a, b int) bool { return info.Methods[a].StartLine < info.Methods[b].StartLine })
		structs = append(structs, info)
	}
	return fns, structs
}
