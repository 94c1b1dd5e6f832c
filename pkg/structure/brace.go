package structure

import (
	"regexp"
	"strings"

	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

type blockKind int

const (
	blockPlain blockKind = iota
	blockFunction
	blockStructure
	blockOwner
)

type braceBlock struct {
	kind     blockKind
	index    int
	owner    string
	openLine int
	openCol  int
	section  models.Visibility
}

var (
	newBefore  = regexp.MustCompile(`\bnew\s*$`)
	assignedFn = regexp.MustCompile(`^\s*(?::[^=]*)?=?\s*(?:async\s*)?(?:function\b\s*\*?\s*)?$`)
)

// brace finds bodies by brace matching. The text since the last statement
// boundary (; { or }) is the header of the next block and decides whether
// the block is a structure, an owner (Rust impl), a function or plain.
func (s *scan) brace(lines []lang.Line) {
	r := s.rules
	codes := make([]string, len(lines))
	for i, ln := range lines {
		codes[i] = ln.Code
		if r.preprocessor && strings.HasPrefix(strings.TrimSpace(ln.Code), "#") {
			codes[i] = ""
		}
	}

	var (
		stack  []*braceBlock
		header []byte
		origin []int
		parens int
	)
	reset := func() {
		header, origin, parens = header[:0], origin[:0], 0
	}
	top := make([]*braceBlock, len(codes))

	for li, code := range codes {
		if n := len(stack); n > 0 {
			top[li] = stack[n-1]
			if b := top[li]; b.kind == blockStructure && r.sections != nil {
				if m := r.sections.FindStringSubmatch(code); m != nil {
					b.section = models.Visibility(m[1])
				}
			}
		}
		for ci := 0; ci < len(code); ci++ {
			c := code[ci]
			switch {
			case c == '{':
				stack = append(stack, s.openBrace(string(header), origin, stack, li, ci))
				reset()
			case c == '}':
				if n := len(stack); n > 0 {
					s.closeBrace(stack[n-1], codes, li, ci)
					stack = stack[:n-1]
				}
				reset()
			case c == ';' && parens == 0:
				reset()
			default:
				if c == '(' {
					parens++
				} else if c == ')' && parens > 0 {
					parens--
				}
				if len(header) == 0 && (c == ' ' || c == '\t') {
					continue
				}
				header = append(header, c)
				origin = append(origin, li)
			}
		}
		if r.lineEnds && parens == 0 && !continued(header) {
			reset()
		}
		if len(header) > 0 {
			header = append(header, ' ')
			origin = append(origin, li)
		}
	}

	if last := len(codes) - 1; last >= 0 {
		for n := len(stack) - 1; n >= 0; n-- {
			s.closeBrace(stack[n], codes, last, len(codes[last]))
		}
	}

	if r.fields == nil {
		return
	}
	for li, b := range top {
		if b != nil && b.kind == blockStructure && r.fields.MatchString(codes[li]) {
			s.structs[b.index].info.Properties++
		}
	}
}

// continued reports whether a header line ends with a character that
// carries the declaration onto the next line.
func continued(header []byte) bool {
	h := strings.TrimRight(string(header), " \t")
	return h != "" && strings.IndexByte(",=(&|+.:", h[len(h)-1]) >= 0
}

func (s *scan) openBrace(raw string, origin []int, stack []*braceBlock, li, ci int) *braceBlock {
	r := s.rules
	b := &braceBlock{kind: blockPlain, index: -1, openLine: li, openCol: ci}

	if r.annotations != nil {
		raw = r.annotations.ReplaceAllStringFunc(raw, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
	}
	lead := len(raw) - len(strings.TrimLeft(raw, " \t"))
	h := strings.TrimRight(raw[lead:], " \t")
	if h == "" {
		return b
	}
	lineOf := func(off int) int {
		if k := lead + off; k < len(origin) {
			return origin[k] + 1
		}
		return li + 1
	}

	inFunction, parent, section := false, -1, models.Visibility("")
	owner := ""
	for k := len(stack) - 1; k >= 0; k-- {
		if sb := stack[k]; sb.kind != blockPlain {
			switch sb.kind {
			case blockFunction:
				inFunction = true
			case blockStructure:
				parent, section = sb.index, sb.section
			case blockOwner:
				owner = sb.owner
			}
			break
		}
	}

	for _, re := range r.structures {
		m := re.FindStringSubmatchIndex(h)
		if m == nil {
			continue
		}
		kindText, _, _ := namedGroup(re, m, h, "kind")
		kind, ok := kindOf(kindText)
		if !ok {
			continue
		}
		name, start, _ := namedGroup(re, m, h, "name")
		rest, _, _ := namedGroup(re, m, h, "rest")
		if strings.Contains(rest, "(") && !r.primaryCtor {
			continue
		}
		info := models.StructureInfo{
			Name:          name,
			StructureType: kind,
			StartLine:     lineOf(start),
		}
		parentKind := models.StructureType("")
		if parent >= 0 {
			parentKind = s.structs[parent].info.StructureType
		}
		info.Visibility = s.visibility(h, name, parent >= 0, section, parentKind)
		if r.bases != nil {
			info.InheritanceDepth, info.InterfaceCount = r.bases(rest, kind)
		}
		b.kind, b.index = blockStructure, s.addStructure(structRec{info: info})
		return b
	}

	for _, re := range r.owners {
		m := re.FindStringSubmatchIndex(h)
		if m == nil {
			continue
		}
		if name, _, _ := namedGroup(re, m, h, "name"); name != "" {
			b.kind, b.owner = blockOwner, name
			return b
		}
	}

	if r.topLevelFuncs && inFunction {
		return b
	}
	for _, re := range r.functions {
		m := re.FindStringSubmatchIndex(h)
		if m == nil {
			continue
		}
		name, start, end := namedGroup(re, m, h, "name")
		if name == "" || (keywordless[re] && controlWords[name]) || !balanced(h) || newBefore.MatchString(h[:start]) {
			return b
		}
		fn := fnRec{
			info: models.FunctionInfo{
				Name:                 strings.TrimPrefix(name, "#"),
				StartLine:            lineOf(start),
				HasExceptionHandling: r.exceptions != nil && r.exceptions.MatchString(h),
			},
			header:  h,
			parent:  parent,
			owner:   owner,
			section: section,
		}
		if fn.parent < 0 && fn.owner == "" {
			fn.owner, _, _ = namedGroup(re, m, h, "owner")
		}
		if strings.HasPrefix(name, "#") {
			fn.header = "private " + h
		}
		params, ok := paramList(h, end)
		if !ok {
			// const f = (a, b) => / f: function(a)
			if i := strings.IndexByte(h[end:], '('); i >= 0 && assignedFn.MatchString(h[end:end+i]) {
				params, ok = paramList(h, end+i)
			}
		}
		if ok {
			fn.info.ParameterCount = countParams(params)
		}
		b.kind, b.index = blockFunction, s.addFunction(fn)
		return b
	}
	return b
}

func (s *scan) closeBrace(b *braceBlock, codes []string, li, ci int) {
	switch b.kind {
	case blockStructure:
		s.structs[b.index].info.EndLine = li + 1
	case blockFunction:
		fn := &s.fns[b.index]
		body := newBody(s.rules, fn.info.Name)
		depth := 0
		for l := b.openLine; l <= li && l < len(codes); l++ {
			code := codes[l]
			from, to := 0, len(code)
			if l == b.openLine {
				from = b.openCol + 1
			}
			if l == li && ci < to {
				to = ci
			}
			if from >= to {
				continue
			}
			seg := code[from:to]
			depths := make([]int, len(seg))
			for k := 0; k < len(seg); k++ {
				if seg[k] == '}' && depth > 0 {
					depth--
				}
				depths[k] = depth
				if seg[k] == '{' {
					depth++
					body.depth(depth)
				}
			}
			body.line(seg, func(k int) int { return depths[k] })
		}
		fn.info.EndLine = li + 1
		body.fill(&fn.info)
	}
}
