package models

import "sort"

// FileStats holds the per-category line counts and byte size of a single file.
// A well-formed producer guarantees Code+Comment+Blank+Doc == Total.
type FileStats struct {
	TotalLines   int   `json:"total_lines" yaml:"total_lines"`
	CodeLines    int   `json:"code_lines" yaml:"code_lines"`
	CommentLines int   `json:"comment_lines" yaml:"comment_lines"`
	BlankLines   int   `json:"blank_lines" yaml:"blank_lines"`
	DocLines     int   `json:"doc_lines" yaml:"doc_lines"`
	FileSize     int64 `json:"file_size" yaml:"file_size"`
}

// Add returns the category-wise sum of two FileStats.
func (f FileStats) Add(other FileStats) FileStats {
	return FileStats{
		TotalLines:   f.TotalLines + other.TotalLines,
		CodeLines:    f.CodeLines + other.CodeLines,
		CommentLines: f.CommentLines + other.CommentLines,
		BlankLines:   f.BlankLines + other.BlankLines,
		DocLines:     f.DocLines + other.DocLines,
		FileSize:     f.FileSize + other.FileSize,
	}
}

// CommentedLines returns comment plus doc lines.
func (f FileStats) CommentedLines() int {
	return f.CommentLines + f.DocLines
}

// ExtensionStats aggregates the files sharing one extension.
type ExtensionStats struct {
	FileCount int       `json:"file_count" yaml:"file_count"`
	Stats     FileStats `json:"stats" yaml:"stats"`
}

// CodeStats is the project-level line summary.
// Sums over StatsByExtension always equal the top-level totals.
type CodeStats struct {
	TotalFiles       int                       `json:"total_files" yaml:"total_files"`
	TotalLines       int                       `json:"total_lines" yaml:"total_lines"`
	CodeLines        int                       `json:"code_lines" yaml:"code_lines"`
	CommentLines     int                       `json:"comment_lines" yaml:"comment_lines"`
	BlankLines       int                       `json:"blank_lines" yaml:"blank_lines"`
	DocLines         int                       `json:"doc_lines" yaml:"doc_lines"`
	TotalSize        int64                     `json:"total_size" yaml:"total_size"`
	StatsByExtension map[string]ExtensionStats `json:"stats_by_extension" yaml:"stats_by_extension"`
}

// NewCodeStats returns an empty CodeStats with an initialized extension map.
func NewCodeStats() CodeStats {
	return CodeStats{StatsByExtension: make(map[string]ExtensionStats)}
}

// AddFile accumulates one file into the totals and its extension bucket.
func (c *CodeStats) AddFile(ext string, fs FileStats) {
	if c.StatsByExtension == nil {
		c.StatsByExtension = make(map[string]ExtensionStats)
	}
	c.TotalFiles++
	c.TotalLines += fs.TotalLines
	c.CodeLines += fs.CodeLines
	c.CommentLines += fs.CommentLines
	c.BlankLines += fs.BlankLines
	c.DocLines += fs.DocLines
	c.TotalSize += fs.FileSize

	bucket := c.StatsByExtension[ext]
	bucket.FileCount++
	bucket.Stats = bucket.Stats.Add(fs)
	c.StatsByExtension[ext] = bucket
}

// Merge returns a new CodeStats holding the sum of c and other.
// Neither input is modified.
func (c CodeStats) Merge(other CodeStats) CodeStats {
	out := CodeStats{
		TotalFiles:       c.TotalFiles + other.TotalFiles,
		TotalLines:       c.TotalLines + other.TotalLines,
		CodeLines:        c.CodeLines + other.CodeLines,
		CommentLines:     c.CommentLines + other.CommentLines,
		BlankLines:       c.BlankLines + other.BlankLines,
		DocLines:         c.DocLines + other.DocLines,
		TotalSize:        c.TotalSize + other.TotalSize,
		StatsByExtension: make(map[string]ExtensionStats, len(c.StatsByExtension)+len(other.StatsByExtension)),
	}
	for _, src := range []map[string]ExtensionStats{c.StatsByExtension, other.StatsByExtension} {
		for ext, es := range src {
			bucket := out.StatsByExtension[ext]
			bucket.FileCount += es.FileCount
			bucket.Stats = bucket.Stats.Add(es.Stats)
			out.StatsByExtension[ext] = bucket
		}
	}
	return out
}

// Totals returns the top-level counts as a FileStats value.
func (c CodeStats) Totals() FileStats {
	return FileStats{
		TotalLines:   c.TotalLines,
		CodeLines:    c.CodeLines,
		CommentLines: c.CommentLines,
		BlankLines:   c.BlankLines,
		DocLines:     c.DocLines,
		FileSize:     c.TotalSize,
	}
}

// Extensions returns the extension keys in sorted order.
func (c CodeStats) Extensions() []string {
	exts := make([]string, 0, len(c.StatsByExtension))
	for ext := range c.StatsByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
