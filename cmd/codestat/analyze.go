package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/internal/cache"
	"github.com/panbanda/codestat/internal/output"
	"github.com/panbanda/codestat/internal/progress"
	"github.com/panbanda/codestat/internal/remote"
	"github.com/panbanda/codestat/internal/report"
	"github.com/panbanda/codestat/internal/scanner"
	"github.com/panbanda/codestat/internal/service/analysis"
	"github.com/panbanda/codestat/internal/vcs"
	"github.com/panbanda/codestat/pkg/analyzer/aggregate"
	"github.com/panbanda/codestat/pkg/config"
	"github.com/panbanda/codestat/pkg/models"
	"github.com/panbanda/codestat/pkg/source"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "depth",
			Aliases: []string{"d"},
			Usage:   "Analysis depth: basic, standard, advanced, complete (default from config)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Parallel workers (0 = 2x NumCPU)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, yaml, toon (default from config)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Disable caching",
		},
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Analyze the committed tree of a git revision instead of the working tree",
		},
		&cli.BoolFlag{
			Name:  "shallow",
			Usage: "Shallow-clone remote repositories (owner/repo[@ref] or URL paths)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Hide the progress bar",
		},
	}
}

func analyzeCmd() *cli.Command {
	flags := append(runFlags(),
		&cli.StringFlag{
			Name:  "save",
			Usage: "Also save the result as JSON for later merging",
		},
		&cli.IntFlag{
			Name:  "top",
			Value: 10,
			Usage: "Number of most complex functions to list",
		},
	)
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze line counts, ratios and complexity",
		ArgsUsage: "[path...]",
		Flags:     flags,
		Action:    runAnalyze,
	}
}

func summaryCmd() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Aliases:   []string{"s"},
		Usage:     "Show the headline numbers of a codebase",
		ArgsUsage: "[path...]",
		Flags:     runFlags(),
		Action:    runSummary,
	}
}

func runAnalyze(c *cli.Context) error {
	res, format, err := analyze(c)
	if err != nil || res == nil {
		return err
	}

	if path := c.String("save"); path != "" {
		if err := report.Save(path, res.Stats); err != nil {
			return err
		}
		loggerFrom(c).Info("result saved", "path", path)
	}

	return emit(c, format, output.NewStatsReport(res.Stats, output.WithTopFunctions(c.Int("top"))))
}

func runSummary(c *cli.Context) error {
	res, format, err := analyze(c)
	if err != nil || res == nil {
		return err
	}
	return emit(c, format, output.NewSummarySection(aggregate.Summary(res.Stats)))
}

// analyze runs the pipeline the command flags describe. A nil result with
// a nil error means there was nothing to analyze.
func analyze(c *cli.Context) (*analysis.Result, output.Format, error) {
	cfg := configFrom(c)
	logger := loggerFrom(c)

	format, err := formatFor(c, cfg)
	if err != nil {
		return nil, format, err
	}

	paths, cleanup, err := resolvePaths(c)
	if err != nil {
		return nil, format, err
	}
	defer cleanup()

	t, err := resolveTarget(c, cfg, paths)
	if err != nil {
		return nil, format, err
	}
	if len(t.files) == 0 {
		color.New(color.FgYellow).Fprintln(errWriter(c), "No source files found")
		return nil, format, nil
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled && !c.Bool("no-cache"))
	if err != nil {
		return nil, format, err
	}

	svcOpts := []analysis.Option{
		analysis.WithConfig(cfg),
		analysis.WithCache(store),
		analysis.WithLogger(logger),
		analysis.WithVersion(version),
	}
	if t.source != nil {
		svcOpts = append(svcOpts, analysis.WithSource(t.source))
	}
	svc := analysis.New(svcOpts...)

	opts := svc.Options()
	if c.IsSet("depth") {
		if opts.Depth, err = models.ParseDepth(c.String("depth")); err != nil {
			return nil, format, err
		}
	}
	if c.IsSet("workers") {
		opts.Workers = c.Int("workers")
	}
	opts.Root = t.root
	opts.Commit = t.commit

	ctx := c.Context
	var tracker *progress.Tracker
	if !c.Bool("quiet") {
		tracker = progress.NewTracker("Analyzing...", 0)
		ctx = progress.WithReporter(ctx, tracker)
	}

	res, err := svc.AnalyzeProject(ctx, t.files, opts)
	if tracker != nil {
		if err != nil {
			tracker.FinishError(err)
		} else {
			tracker.FinishSuccess()
		}
	}
	if err != nil {
		return nil, format, fmt.Errorf("analysis failed: %w", err)
	}

	if res.Errors.HasErrors() {
		color.New(color.FgYellow).Fprintf(errWriter(c), "Skipped %d file(s) that could not be read\n", res.Errors.Len())
	}
	logger.Debug("analysis finished",
		"files", res.Stats.Basic.TotalFiles,
		"cached", res.Cached,
		"depth", opts.Depth.String(),
		"ms", res.Stats.Metadata.CalculationTimeMs)
	return res, format, nil
}

func formatFor(c *cli.Context, cfg *config.Config) (output.Format, error) {
	if c.IsSet("format") {
		return output.ParseFormat(c.String("format"))
	}
	return output.ParseFormat(cfg.Output.Format)
}

func emit(c *cli.Context, format output.Format, data any) error {
	formatter, err := output.NewFormatter(format, c.String("output"), !color.NoColor)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(data)
}

// target is the set of files one run analyzes.
type target struct {
	files  []string
	root   string
	commit string
	source source.ContentSource
}

// resolvePaths clones remote repository arguments and returns the local
// paths to analyze. cleanup removes the clones.
func resolvePaths(c *cli.Context) ([]string, func(), error) {
	var sources []*remote.Source
	cleanup := func() {
		for _, src := range sources {
			src.Cleanup()
		}
	}

	// History is needed to resolve --ref in a clone.
	shallow := c.Bool("shallow") && c.String("ref") == ""

	var paths []string
	for _, p := range getPaths(c) {
		src, err := remote.Parse(p)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if src == nil {
			paths = append(paths, p)
			continue
		}

		loggerFrom(c).Info("cloning", "url", src.URL, "ref", src.Ref)
		if err := src.Clone(c.Context, nil, shallow); err != nil {
			cleanup()
			return nil, nil, err
		}
		sources = append(sources, src)
		paths = append(paths, src.CloneDir)
	}
	return paths, cleanup, nil
}

func resolveTarget(c *cli.Context, cfg *config.Config, paths []string) (*target, error) {
	sc := scanner.NewScanner(cfg)

	ref := c.String("ref")
	if ref == "" {
		files, err := sc.ScanPaths(paths)
		if err != nil {
			return nil, err
		}
		t := &target{files: files}
		if len(paths) == 1 {
			t.root = paths[0]
		}
		return t, nil
	}

	if len(paths) != 1 {
		return nil, fmt.Errorf("%w: --ref takes a single path", models.ErrInvalidConfig)
	}
	repo, err := vcs.DefaultOpener().PlainOpenWithDetect(paths[0])
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", paths[0], err)
	}
	hash, err := repo.Resolve(ref)
	if err != nil {
		return nil, err
	}
	tree, err := repo.TreeAt(hash.String())
	if err != nil {
		return nil, err
	}
	files, err := sc.ScanTree(tree)
	if err != nil {
		return nil, err
	}
	return &target{
		files:  withinDir(files, repo.RepoPath(), paths[0]),
		commit: hash.String(),
		source: source.NewTree(tree),
	}, nil
}

// withinDir keeps the tree files under dir, given the repository root.
func withinDir(files []string, root, dir string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return files
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return files
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return files
	}

	prefix := filepath.ToSlash(rel) + "/"
	var out []string
	for _, f := range files {
		if strings.HasPrefix(f, prefix) {
			out = append(out, f)
		}
	}
	return out
}
