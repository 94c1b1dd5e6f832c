package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeProject() string {
	return `Counts code, comment, doc and blank lines per language and measures function complexity and quality scores across a codebase.

USE WHEN:
- Getting a first picture of an unfamiliar repository
- Finding the most complex functions before a refactor
- Checking documentation and comment density per language

INTERPRETING RESULTS:
- Ratios are fractions of all lines; comment_to_code and doc_to_code can exceed 1
- Complexity levels: very_low 1-5, low 6-10, medium 11-20, high 21-50, very_high 51+
- Quality, health and maintainability scores run 0-100; 80+ is healthy, below 60 needs attention
- technical_debt_ratio weighs medium, high and very_high functions; 0 is best
- Metadata records the depth that ran: basic < standard < advanced < complete

METRICS RETURNED:
- basic: file and line totals, stats_by_extension
- ratios: six line ratios, per-extension ratios, language/file/size distributions, quality scores
- complexity: averages, maxima, P50/P90, distribution, per-function details, maintainability index
- metadata: tool version, timestamp, languages, depth, commit`
}

func describeProjectSummary() string {
	return `Returns the headline numbers of a codebase: files, lines, code lines, functions, average cyclomatic complexity, overall quality score and language count.

USE WHEN:
- A compact overview is enough and full details would waste context
- Comparing repositories or revisions at a glance

INTERPRETING RESULTS:
- average_complexity is per function; above 10 suggests complex code overall
- quality_score runs 0-100; 80+ is healthy, below 60 needs attention

METRICS RETURNED:
- total_files, total_lines, code_lines, function_count, average_complexity, quality_score, language_count`
}

func describeMergeResults() string {
	return `Merges saved codestat result files (from analyze --save or analyze_project save) into one result, as if the files had been analyzed together.

USE WHEN:
- Combining analyses of separate directories or services of one project
- Building a monorepo total from per-package results

INTERPRETING RESULTS:
- Line counts and function totals are summed; ratios and scores are recomputed from the merged counts
- Merged depth is the lowest input depth; commit is kept only when all inputs agree
- Files are schema-validated; a malformed file fails the whole merge

METRICS RETURNED:
- The same sections as analyze_project`
}
