package lang

import (
	"regexp"
	"strings"
)

// Category is the classification of a single source line.
type Category int

const (
	Blank Category = iota
	Comment
	Doc
	Code
)

// Line is a source line with comments removed and string literal contents
// emptied. Delimiters are kept so `x = ""` still reads as code.
type Line struct {
	Code string
	// Comment is set when the line carried a non-doc comment.
	Comment bool
	// Doc is set when the line carried documentation.
	Doc bool
	// InString is set when non-blank text of a string literal was consumed.
	InString bool
}

// Category returns the line category with precedence code > doc > comment > blank.
func (l Line) Category() Category {
	switch {
	case strings.TrimSpace(l.Code) != "" || l.InString:
		return Code
	case l.Doc:
		return Doc
	case l.Comment:
		return Comment
	default:
		return Blank
	}
}

var charLiteral = regexp.MustCompile(`^'(?:\\(?:u\{[0-9a-fA-F]+\}|x[0-9a-fA-F]{2}|.)|[^'\\])'`)

type scrubber struct {
	lang   *Language
	block  *BlockComment
	str    *StringDelim
	strDoc bool
}

// Scrub strips comments and string contents from lines. State carries across
// lines, so block comments and multi-line strings are tracked. A nil language
// returns the lines unchanged.
func Scrub(lines []string, l *Language) []Line {
	out := make([]Line, len(lines))
	if l == nil {
		for i, text := range lines {
			out[i] = Line{Code: text}
		}
		return out
	}
	s := &scrubber{lang: l}
	for i, text := range lines {
		out[i] = s.line(text)
	}
	if l.DocBefore != nil {
		markDocRuns(out, l.DocBefore)
	}
	return out
}

func (s *scrubber) line(text string) Line {
	var ln Line

	trimmed := strings.TrimLeft(text, " \t")
	if s.block != nil && s.block.LineStart {
		s.mark(&ln, s.block.Doc)
		if strings.HasPrefix(trimmed, s.block.Close) {
			s.block = nil
		}
		return ln
	}
	if s.block == nil && s.str == nil {
		for i := range s.lang.BlockComments {
			b := &s.lang.BlockComments[i]
			if b.LineStart && strings.HasPrefix(text, b.Open) {
				s.mark(&ln, b.Doc)
				if !strings.HasPrefix(text, b.Close) {
					s.block = b
				}
				return ln
			}
		}
	}

	var code strings.Builder
	i := 0
scan:
	for i < len(text) {
		if s.block != nil {
			s.mark(&ln, s.block.Doc)
			j := strings.Index(text[i:], s.block.Close)
			if j < 0 {
				break
			}
			i += j + len(s.block.Close)
			s.block = nil
			continue
		}

		if s.str != nil {
			j := s.closeIndex(text, i)
			end := j
			if j < 0 {
				end = len(text)
			}
			if strings.TrimSpace(text[i:end]) != "" || j >= 0 {
				if s.strDoc {
					ln.Doc = true
				} else if strings.TrimSpace(text[i:end]) != "" {
					ln.InString = true
				}
			}
			if j < 0 {
				break
			}
			if !s.strDoc {
				code.WriteString(s.str.Close)
			}
			i = j + len(s.str.Close)
			s.str = nil
			s.strDoc = false
			continue
		}

		rest := text[i:]
		boundary := i == 0 || text[i-1] == ' ' || text[i-1] == '\t'

		for _, tok := range s.lang.DocComments {
			if strings.HasPrefix(rest, tok) {
				ln.Doc = true
				break scan
			}
		}
		for k := range s.lang.BlockComments {
			b := &s.lang.BlockComments[k]
			if b.LineStart || !strings.HasPrefix(rest, b.Open) {
				continue
			}
			if b.Open == "/**" && strings.HasPrefix(rest, "/**/") {
				ln.Comment = true
				i += 4
				continue scan
			}
			s.block = b
			s.mark(&ln, b.Doc)
			i += len(b.Open)
			continue scan
		}
		for _, tok := range s.lang.LineComments {
			if strings.HasPrefix(rest, tok) && (boundary || !s.lang.CommentNeedsSpace) {
				ln.Comment = true
				break scan
			}
		}

		if s.lang.CharLiterals && rest[0] == '\'' {
			if m := charLiteral.FindString(rest); m != "" {
				code.WriteString("''")
				i += len(m)
			} else {
				code.WriteByte('\'')
				i++
			}
			continue
		}

		for k := range s.lang.Strings {
			d := &s.lang.Strings[k]
			if !strings.HasPrefix(rest, d.Open) {
				continue
			}
			doc := d.DocString && s.lang.DocStringLead != nil &&
				s.lang.DocStringLead.MatchString(strings.TrimSpace(code.String()))
			if doc {
				ln.Doc = true
			} else {
				code.WriteString(d.Open)
			}
			s.str = d
			s.strDoc = doc
			i += len(d.Open)
			continue scan
		}

		code.WriteByte(text[i])
		i++
	}

	if s.str != nil && !s.str.Multiline {
		code.WriteString(s.str.Close)
		s.str = nil
		s.strDoc = false
	}
	ln.Code = code.String()
	return ln
}

func (s *scrubber) mark(ln *Line, doc bool) {
	if doc {
		ln.Doc = true
	} else {
		ln.Comment = true
	}
}

// closeIndex returns the index of the closing delimiter of the open string at
// or after from, or -1.
func (s *scrubber) closeIndex(text string, from int) int {
	for k := from; k < len(text); k++ {
		if !s.str.Raw && text[k] == '\\' {
			k++
			continue
		}
		if strings.HasPrefix(text[k:], s.str.Close) {
			return k
		}
	}
	return -1
}

// markDocRuns promotes runs of comment-only lines directly above a
// declaration to documentation.
func markDocRuns(lines []Line, decl *regexp.Regexp) {
	for i := 0; i < len(lines); i++ {
		if !decl.MatchString(lines[i].Code) {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			ln := &lines[j]
			if !ln.Comment || ln.Doc || strings.TrimSpace(ln.Code) != "" {
				break
			}
			ln.Comment = false
			ln.Doc = true
		}
	}
}
