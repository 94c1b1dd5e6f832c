package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

const (
	metaConfig = "config"
	metaLogger = "logger"
	metaPprof  = "pprofCPU"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "codestat",
		Usage:    "Line, ratio and complexity statistics for codebases",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `codestat counts code, comment, doc and blank lines per language,
derives documentation and readability ratios, measures function complexity
and scores overall code quality.

Run "codestat languages" for the supported languages.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CODESTAT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				EnvVars: []string{"NO_COLOR"},
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: before,
		After:  after,
		Commands: []*cli.Command{
			analyzeCmd(),
			summaryCmd(),
			mergeCmd(),
			reportCmd(),
			languagesCmd(),
			initCmd(),
			mcpCmd(),
		},
	}
}

func before(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	c.App.Metadata[metaConfig] = cfg

	verbose := c.Bool("verbose") || cfg.Output.Verbose
	c.App.Metadata[metaLogger] = newLogger(c.App.ErrWriter, verbose)

	if c.Bool("no-color") || !cfg.Output.Color {
		color.NoColor = true
	}

	if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
		cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		c.App.Metadata[metaPprof] = cpuFile
	}
	return nil
}

func after(c *cli.Context) error {
	pprofPrefix := c.String("pprof")
	if pprofPrefix == "" {
		return nil
	}
	pprof.StopCPUProfile()
	if cpuFile, ok := c.App.Metadata[metaPprof].(*os.File); ok {
		cpuFile.Close()
		color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
	}

	memFile, err := os.Create(pprofPrefix + ".mem.pprof")
	if err != nil {
		return fmt.Errorf("failed to create memory profile: %w", err)
	}
	defer memFile.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrDefault()
	}
	return config.Load(path)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func loggerFrom(c *cli.Context) *slog.Logger {
	if l, ok := c.App.Metadata[metaLogger].(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
