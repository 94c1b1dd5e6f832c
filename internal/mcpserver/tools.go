package mcpserver

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/codestat/internal/output"
	"github.com/panbanda/codestat/internal/report"
	"github.com/panbanda/codestat/internal/scanner"
	"github.com/panbanda/codestat/internal/service/analysis"
	"github.com/panbanda/codestat/pkg/analyzer/aggregate"
	"github.com/panbanda/codestat/pkg/models"
)

// AnalyzeInput is the base input for the analysis tools.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, or markdown."`
}

// ProjectInput adds the full-analysis options.
type ProjectInput struct {
	AnalyzeInput
	Depth string `json:"depth,omitempty" jsonschema:"Analysis depth: basic, standard, advanced or complete. Defaults to the configured depth."`
	Top   int    `json:"top,omitempty" jsonschema:"Most complex functions listed in markdown output. Default 10."`
	Save  string `json:"save,omitempty" jsonschema:"Also save the result as JSON to this path."`
}

// MergeInput names the result files to merge.
type MergeInput struct {
	Files  []string `json:"files" jsonschema:"Saved result files to merge."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, or markdown."`
	Save   string   `json:"save,omitempty" jsonschema:"Also save the merged result as JSON to this path."`
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(name string) (output.Format, error) {
	if name == "" {
		return output.FormatTOON, nil
	}
	return output.ParseFormat(name)
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, false).Output(data); err != nil {
		return toolError(err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// analyze scans paths and runs the analysis at depth, or at the configured
// depth when depth is empty.
func (s *Server) analyze(ctx context.Context, paths []string, depth string) (*analysis.Result, error) {
	files, err := scanner.NewScanner(s.config).ScanPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found")
	}

	svc := s.service()
	opts := svc.Options()
	if depth != "" {
		d, err := models.ParseDepth(depth)
		if err != nil {
			return nil, err
		}
		opts.Depth = d
	}
	if len(paths) == 1 {
		opts.Root = paths[0]
	}
	return svc.AnalyzeProject(ctx, files, opts)
}

func (s *Server) service() *analysis.Service {
	return analysis.New(
		analysis.WithConfig(s.config),
		analysis.WithLogger(s.logger),
		analysis.WithVersion(s.version),
	)
}

func (s *Server) handleAnalyzeProject(ctx context.Context, req *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, any, error) {
	format, err := getFormat(input.Format)
	if err != nil {
		return toolError(err.Error())
	}

	res, err := s.analyze(ctx, getPaths(input.AnalyzeInput), input.Depth)
	if err != nil {
		return toolError(err.Error())
	}
	if input.Save != "" {
		if err := report.Save(input.Save, res.Stats); err != nil {
			return toolError(err.Error())
		}
	}

	var opts []output.StatsOption
	if input.Top > 0 {
		opts = append(opts, output.WithTopFunctions(input.Top))
	}
	return toolResult(output.NewStatsReport(res.Stats, opts...), format)
}

func (s *Server) handleProjectSummary(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	format, err := getFormat(input.Format)
	if err != nil {
		return toolError(err.Error())
	}

	res, err := s.analyze(ctx, getPaths(input), "")
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewSummarySection(aggregate.Summary(res.Stats)), format)
}

func (s *Server) handleMergeResults(ctx context.Context, req *mcp.CallToolRequest, input MergeInput) (*mcp.CallToolResult, any, error) {
	format, err := getFormat(input.Format)
	if err != nil {
		return toolError(err.Error())
	}

	list, err := report.LoadAll(input.Files)
	if err != nil {
		return toolError(err.Error())
	}
	merged, err := s.service().Merge(list)
	if err != nil {
		return toolError(err.Error())
	}
	if input.Save != "" {
		if err := report.Save(input.Save, merged); err != nil {
			return toolError(err.Error())
		}
	}
	return toolResult(output.NewStatsReport(merged, output.WithTitle("Merged Code Statistics")), format)
}
