package structure

import (
	"regexp"
	"strings"

	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

var (
	rubyAttr     = regexp.MustCompile(`^\s*attr_(?:accessor|reader|writer)\s+(.*)$`)
	rubySymbol   = regexp.MustCompile(`:(\w+)`)
	elixirField  = regexp.MustCompile(`(?:^|[\s\[,]):(\w+)|(\w+):\s`)
	bracketGroup = regexp.MustCompile(`\[[^\[\]]*\]|\([^()]*\)`)
)

type blockSpan struct {
	kind  blockKind
	index int
	end   int
}

// block finds bodies by counting block openers against end keywords.
// depth[i] is the nesting before line i; after[i] the nesting after it.
func (s *scan) block(lines []lang.Line) {
	r := s.rules
	n := len(lines)
	codes := make([]string, n)
	depth := make([]int, n)
	after := make([]int, n)

	d := 0
	for i, ln := range lines {
		codes[i] = ln.Code
		depth[i] = d
		d += s.opens(ln.Code) - s.closes(ln.Code)
		if d < 0 {
			d = 0
		}
		after[i] = d
	}

	spanEnd := func(li int) int {
		if after[li] <= depth[li] {
			return li
		}
		for k := li + 1; k < n; k++ {
			if after[k] <= depth[li] {
				return k
			}
		}
		return n - 1
	}

	var stack []blockSpan
	var sections []models.Visibility
	for li, code := range codes {
		for len(stack) > 0 && stack[len(stack)-1].end < li {
			stack = stack[:len(stack)-1]
			sections = sections[:len(sections)-1]
		}
		parent, section := -1, models.Visibility("")
		if k := len(stack) - 1; k >= 0 && stack[k].kind == blockStructure {
			parent = stack[k].index
			if r.sections != nil {
				if m := r.sections.FindStringSubmatch(code); m != nil {
					sections[k] = models.Visibility(m[1])
					continue
				}
			}
			section = sections[k]
			if r.mixins != nil && r.mixins.MatchString(code) {
				s.structs[parent].info.InterfaceCount++
			}
		}

		if idx, ok := s.blockStructure(code, li, parent, section, spanEnd); ok {
			end := s.structs[idx].info.EndLine - 1
			if r.properties != nil && end > li {
				top := make([]bool, end-li-1)
				for k := range top {
					top[k] = depth[li+1+k] == depth[li]+1
				}
				s.structs[idx].info.Properties = r.properties(r, codes[li+1:end], top)
			}
			stack = append(stack, blockSpan{kind: blockStructure, index: idx, end: end})
			sections = append(sections, "")
			continue
		}

		for _, re := range r.functions {
			m := re.FindStringSubmatchIndex(code)
			if m == nil {
				continue
			}
			name, _, nameEnd := namedGroup(re, m, code, "name")
			if name == "" {
				continue
			}
			end := spanEnd(li)
			fn := fnRec{
				info:    models.FunctionInfo{Name: name, StartLine: li + 1, EndLine: end + 1},
				header:  strings.TrimSpace(code),
				parent:  parent,
				section: section,
			}
			if parent < 0 {
				fn.owner, _, _ = namedGroup(re, m, code, "owner")
			}
			if params, ok := paramList(code, nameEnd); ok {
				fn.info.ParameterCount = countParams(params)
			}

			body := newBody(r, name)
			if end == li {
				body.line(code[nameEnd:], func(int) int { return 0 })
			}
			base := depth[li] + 1
			for k := li + 1; k < end; k++ {
				rel := depth[k] - base
				if r.mids != nil && r.mids.MatchString(codes[k]) {
					rel--
				}
				if rel < 0 {
					rel = 0
				}
				body.line(codes[k], func(int) int { return rel })
				body.depth(after[k] - base)
			}
			body.fill(&fn.info)

			idx := s.addFunction(fn)
			if end > li {
				stack = append(stack, blockSpan{kind: blockFunction, index: idx, end: end})
				sections = append(sections, "")
			}
			break
		}
	}
}

func (s *scan) blockStructure(code string, li, parent int, section models.Visibility, spanEnd func(int) int) (int, bool) {
	r := s.rules
	for _, re := range r.structures {
		m := re.FindStringSubmatchIndex(code)
		if m == nil {
			continue
		}
		kindText, _, _ := namedGroup(re, m, code, "kind")
		kind, ok := kindOf(kindText)
		if !ok {
			continue
		}
		name, _, _ := namedGroup(re, m, code, "name")
		rest, _, _ := namedGroup(re, m, code, "rest")
		info := models.StructureInfo{
			Name:          name,
			StructureType: kind,
			StartLine:     li + 1,
			EndLine:       spanEnd(li) + 1,
		}
		parentKind := models.StructureType("")
		if parent >= 0 {
			parentKind = s.structs[parent].info.StructureType
		}
		info.Visibility = s.visibility(strings.TrimSpace(code), name, parent >= 0, section, parentKind)
		if r.bases != nil {
			info.InheritanceDepth, info.InterfaceCount = r.bases(rest, kind)
		}
		return s.addStructure(structRec{info: info}), true
	}
	return -1, false
}

// opens counts the blocks a line opens. Matches followed by a colon are
// keyword arguments (if:, do:) rather than openers.
func (s *scan) opens(code string) int {
	r := s.rules
	if r.brackets {
		code = stripBrackets(code)
	}
	if r.noOpen != nil && r.noOpen.MatchString(code) {
		return 0
	}
	n := 0
	for _, re := range r.opens {
		for _, m := range re.FindAllStringIndex(code, -1) {
			if m[1] < len(code) && code[m[1]] == ':' {
				continue
			}
			n++
		}
	}
	if r.loops != nil && r.loops.MatchString(code) {
		n++
	} else if r.trailingDo != nil && r.trailingDo.MatchString(code) {
		n++
	}
	return n
}

func (s *scan) closes(code string) int {
	r := s.rules
	if r.closes == nil {
		return 0
	}
	if r.brackets {
		code = stripBrackets(code)
	}
	n := 0
	for _, m := range r.closes.FindAllStringIndex(code, -1) {
		if m[1] < len(code) && code[m[1]] == ':' {
			continue
		}
		n++
	}
	return n
}

// stripBrackets empties bracketed and parenthesized groups, where end is an
// index and for a comprehension.
func stripBrackets(code string) string {
	for {
		next := bracketGroup.ReplaceAllString(code, " ")
		if next == code {
			return code
		}
		code = next
	}
}

// rubyProperties counts attr_* symbols and distinct instance variables.
func rubyProperties(r *rules, body []string, top []bool) int {
	names := map[string]bool{}
	for i, code := range body {
		if top[i] {
			if m := rubyAttr.FindStringSubmatch(code); m != nil {
				for _, sym := range rubySymbol.FindAllStringSubmatch(m[1], -1) {
					names[sym[1]] = true
				}
			}
		}
		for _, m := range r.fields.FindAllStringSubmatch(code, -1) {
			names[m[1]] = true
		}
	}
	return len(names)
}

// elixirProperties counts the fields named on defstruct lines.
func elixirProperties(r *rules, body []string, top []bool) int {
	names := map[string]bool{}
	for i, code := range body {
		if !top[i] {
			continue
		}
		loc := r.fields.FindStringIndex(code)
		if loc == nil {
			continue
		}
		for _, m := range elixirField.FindAllStringSubmatch(code[loc[1]:], -1) {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			names[name] = true
		}
	}
	return len(names)
}

// topLevelFields counts field lines directly inside the structure body.
func topLevelFields(r *rules, body []string, top []bool) int {
	n := 0
	for i, code := range body {
		if top[i] && r.fields.MatchString(code) {
			n++
		}
	}
	return n
}
