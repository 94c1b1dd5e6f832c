package structure

import (
	"regexp"

	"github.com/panbanda/codestat/pkg/models"
)

// body accumulates the metrics of one function body.
//
// Keyword decisions and match arms weigh their nesting depth plus one in the
// cognitive score; logical operators and ternaries weigh one.
type body struct {
	r         *rules
	recursion *regexp.Regexp

	decisions  int
	cognitive  int
	maxDepth   int
	returns    int
	locals     int
	recursive  bool
	exceptions bool
}

func newBody(r *rules, name string) *body {
	b := &body{r: r}
	if name != "" {
		b.recursion = recursionRe(name)
	}
	return b
}

// line evaluates one segment of body code. depthAt returns the nesting depth
// relative to the body at a byte offset of code.
func (b *body) line(code string, depthAt func(int) int) {
	r := b.r
	weighted := func(re *regexp.Regexp) {
		if re == nil {
			return
		}
		for _, m := range re.FindAllStringIndex(code, -1) {
			b.decisions++
			b.cognitive += depthAt(m[0]) + 1
		}
	}
	weighted(r.decisions)
	weighted(r.arms)

	if r.logical != nil {
		n := len(r.logical.FindAllStringIndex(code, -1))
		b.decisions += n
		b.cognitive += n
	}
	if r.ternary {
		n := ternaries(code)
		b.decisions += n
		b.cognitive += n
	}

	b.returns += len(returnRe.FindAllStringIndex(code, -1))
	if r.locals != nil {
		b.locals += len(r.locals.FindAllStringIndex(code, -1))
	}
	if r.exceptions != nil && r.exceptions.MatchString(code) {
		b.exceptions = true
	}
	if b.recursion != nil && b.recursion.MatchString(code) {
		b.recursive = true
	}
}

func (b *body) depth(d int) {
	if d > b.maxDepth {
		b.maxDepth = d
	}
}

// fill copies the accumulated metrics into info.
func (b *body) fill(info *models.FunctionInfo) {
	info.CyclomaticComplexity = 1 + b.decisions
	info.CognitiveComplexity = b.cognitive
	info.NestingDepth = b.maxDepth
	info.ReturnPathCount = b.returns
	info.LocalVariableCount = b.locals
	info.HasRecursion = b.recursive
	info.HasExceptionHandling = info.HasExceptionHandling || b.exceptions
	if info.EndLine < info.StartLine {
		info.EndLine = info.StartLine
	}
	info.LineCount = info.EndLine - info.StartLine + 1
}
