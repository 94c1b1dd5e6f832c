package structure

import (
	"regexp"
	"strings"

	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

var (
	pyDef       = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(\w+)\s*(?:\[[^\]]*\])?\s*\(`)
	pyClass     = regexp.MustCompile(`^(\s*)class\s+(\w+)\s*(?:\[[^\]]*\])?\s*(\(.*)?:`)
	pySelfAttr  = regexp.MustCompile(`\bself\.(\w+)\s*(?::[^=]+)?=[^=]`)
	pyClassAttr = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*(?::[^=]+)?=[^=]`)
	pyAnnotated = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*:\s*[^=]+$`)
	pyEnumBase  = regexp.MustCompile(`\b(?:Enum|IntEnum|StrEnum|Flag|IntFlag)\b`)
	pyProtocol  = regexp.MustCompile(`^(?:typing\.)?(?:Protocol|ABC)\b|Protocol$|Interface$`)
)

func indentWidth(s string) int {
	w := 0
	for _, c := range s {
		switch c {
		case ' ':
			w++
		case '\t':
			w += 8 - w%8
		default:
			return w
		}
	}
	return w
}

type pyScope struct {
	kind   blockKind
	indent int
	index  int
}

// indent finds bodies by indentation. A def or class owns every following
// non-blank line indented deeper than its header.
func (s *scan) indent(lines []lang.Line) {
	codes := make([]string, len(lines))
	for i, ln := range lines {
		codes[i] = ln.Code
	}

	var scopes []pyScope
	for li := 0; li < len(codes); li++ {
		code := codes[li]
		if strings.TrimSpace(code) == "" {
			continue
		}
		ind := indentWidth(code)
		for len(scopes) > 0 && scopes[len(scopes)-1].indent >= ind {
			scopes = scopes[:len(scopes)-1]
		}

		if m := pyClass.FindStringSubmatch(code); m != nil {
			end := blockEnd(codes, li, ind)
			info := models.StructureInfo{
				Name:          m[2],
				StructureType: models.StructureClass,
				StartLine:     li + 1,
				EndLine:       end + 1,
				Visibility:    pythonVisibility("", m[2]),
			}
			bases := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(m[3]), "("), ")")
			for _, b := range typeList(bases, ',') {
				if strings.Contains(b, "=") || b == "object" {
					continue
				}
				info.InheritanceDepth++
				switch {
				case pyEnumBase.MatchString(b):
					info.StructureType = models.StructureEnum
				case pyProtocol.MatchString(b):
					info.InterfaceCount++
					if b == "Protocol" || strings.HasSuffix(b, ".Protocol") {
						info.StructureType = models.StructureInterface
					}
				}
			}
			info.Properties = pyProperties(codes, li, end, ind)
			idx := s.addStructure(structRec{info: info})
			scopes = append(scopes, pyScope{kind: blockStructure, indent: ind, index: idx})
			continue
		}

		m := pyDef.FindStringSubmatchIndex(code)
		if m == nil {
			continue
		}
		name := code[m[4]:m[5]]
		headerEnd, header := pyHeader(codes, li)
		end := blockEnd(codes, headerEnd, ind)

		fn := fnRec{
			info:   models.FunctionInfo{Name: name, StartLine: li + 1, EndLine: end + 1},
			header: header,
			parent: -1,
		}
		if n := len(scopes); n > 0 && scopes[n-1].kind == blockStructure {
			fn.parent = scopes[n-1].index
		}
		lead := len(code) - len(strings.TrimLeft(code, " \t"))
		if params, ok := paramList(header, m[5]-lead); ok {
			fn.info.ParameterCount = countParams(stripDefaults(params))
		}

		body := newBody(s.rules, name)
		if colon := pyColon(header); colon >= 0 && strings.TrimSpace(header[colon+1:]) != "" {
			// def f(): return x
			body.line(header[colon+1:], func(int) int { return 0 })
		}
		var stack []int
		for k := headerEnd + 1; k <= end; k++ {
			c := codes[k]
			if strings.TrimSpace(c) == "" {
				continue
			}
			w := indentWidth(c)
			for len(stack) > 0 && stack[len(stack)-1] >= w {
				stack = stack[:len(stack)-1]
			}
			depth := len(stack)
			body.line(c, func(int) int { return depth })
			if strings.HasSuffix(strings.TrimSpace(c), ":") {
				stack = append(stack, w)
				body.depth(len(stack))
			}
		}
		body.fill(&fn.info)
		idx := s.addFunction(fn)
		scopes = append(scopes, pyScope{kind: blockFunction, indent: ind, index: idx})
	}
}

// blockEnd returns the last non-blank line after start indented deeper than
// indent, or start when the block is empty.
func blockEnd(codes []string, start, indent int) int {
	end := start
	for k := start + 1; k < len(codes); k++ {
		if strings.TrimSpace(codes[k]) == "" {
			continue
		}
		if indentWidth(codes[k]) <= indent {
			break
		}
		end = k
	}
	return end
}

// pyHeader joins a def header spanning several lines until its parameter
// list is closed, returning the last header line and the joined text.
func pyHeader(codes []string, start int) (int, string) {
	header := strings.TrimSpace(codes[start])
	end := start
	for !balanced(header) && end+1 < len(codes) {
		end++
		header += " " + strings.TrimSpace(codes[end])
	}
	return end, header
}

// pyColon returns the index of the colon ending a def header.
func pyColon(header string) int {
	depth := 0
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripDefaults removes annotations and default values, which may hold
// commas inside string literals the scrubber already emptied.
func stripDefaults(params string) string {
	parts := splitTopLevel(params, ',')
	for i, p := range parts {
		if j := strings.IndexAny(p, ":="); j >= 0 {
			p = p[:j]
		}
		parts[i] = p
	}
	return strings.Join(parts, ",")
}

// pyProperties counts distinct class-level assignments and self attributes
// assigned anywhere in the class body.
func pyProperties(codes []string, start, end, indent int) int {
	names := map[string]bool{}
	bodyIndent := -1
	for k := start + 1; k <= end; k++ {
		c := codes[k]
		if strings.TrimSpace(c) == "" {
			continue
		}
		w := indentWidth(c)
		if bodyIndent < 0 {
			bodyIndent = w
		}
		if w == bodyIndent {
			if m := pyClassAttr.FindStringSubmatch(c); m != nil {
				names[m[1]] = true
			} else if m := pyAnnotated.FindStringSubmatch(c); m != nil && !strings.HasSuffix(strings.TrimSpace(c), ":") {
				names[m[1]] = true
			}
		}
		for _, m := range pySelfAttr.FindAllStringSubmatch(c, -1) {
			names[m[1]] = true
		}
	}
	return len(names)
}
