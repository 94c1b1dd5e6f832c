package lang

import (
	"strings"

	"github.com/panbanda/codestat/pkg/models"
)

// SplitLines splits content into lines, accepting \n and \r\n endings.
// A trailing newline does not start an extra line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Classify counts the lines of content by category. Every line falls in
// exactly one category, so the counts sum to TotalLines. A nil language
// counts every non-blank line as code.
func Classify(content []byte, l *Language) models.FileStats {
	lines := SplitLines(string(content))
	fs := models.FileStats{
		TotalLines: len(lines),
		FileSize:   int64(len(content)),
	}
	for _, ln := range Scrub(lines, l) {
		switch ln.Category() {
		case Code:
			fs.CodeLines++
		case Doc:
			fs.DocLines++
		case Comment:
			fs.CommentLines++
		default:
			fs.BlankLines++
		}
	}
	return fs
}
