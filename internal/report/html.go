package report

import (
	"cmp"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

//go:embed template.html
var templateFS embed.FS

// RenderData is what the HTML template sees.
type RenderData struct {
	Title     string
	Stats     models.AggregatedStats
	Languages []LanguageRow
	Functions []models.FunctionComplexityDetail
	Depth     models.AnalysisDepth
}

// LanguageRow is one extension of the language table.
type LanguageRow struct {
	Extension string
	Language  string
	Files     int
	Stats     models.FileStats
}

// HasRatios reports whether the ratio section was computed.
func (d RenderData) HasRatios() bool { return d.Depth >= models.DepthStandard }

// HasComplexity reports whether the complexity section was computed.
func (d RenderData) HasComplexity() bool { return d.Depth >= models.DepthAdvanced }

// HasQuality reports whether the quality scores were computed.
func (d RenderData) HasQuality() bool { return d.Depth >= models.DepthComplete }

// Renderer handles HTML report generation.
type Renderer struct {
	tmpl *template.Template
	top  int
}

// NewRenderer creates a renderer listing the top most complex functions.
func NewRenderer(top int) (*Renderer, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"scoreClass": func(score float64) string {
			if score >= 80 {
				return "good"
			}
			if score >= 60 {
				return "warning"
			}
			return "danger"
		},
		"levelClass": func(level models.ComplexityLevel) string {
			switch {
			case level >= models.LevelVeryHigh:
				return "critical"
			case level >= models.LevelHigh:
				return "high"
			case level >= models.LevelMedium:
				return "medium"
			}
			return "low"
		},
		"title": func(s string) string {
			return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
		},
		"truncatePath": truncatePath,
		"percent": func(a, b int) float64 {
			if b == 0 {
				return 0
			}
			return float64(a) / float64(b) * 100
		},
		"pct": func(f float64) string {
			return printer.Sprintf("%.1f%%", f*100)
		},
		"score": func(f float64) string {
			return printer.Sprintf("%.1f", f)
		},
		"num": func(n any) string {
			switch v := n.(type) {
			case int:
				return printer.Sprintf("%d", v)
			case int64:
				return printer.Sprintf("%d", v)
			case float64:
				return printer.Sprintf("%.1f", v)
			default:
				return "0"
			}
		},
		"json": func(v any) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
	}

	content, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	if top <= 0 {
		top = 10
	}
	return &Renderer{tmpl: tmpl, top: top}, nil
}

// Render writes s as a standalone HTML page.
func (r *Renderer) Render(s models.AggregatedStats, title string, w io.Writer) error {
	return r.tmpl.Execute(w, r.data(s, title))
}

// RenderToFile writes the HTML page to path.
func (r *Renderer) RenderToFile(s models.AggregatedStats, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Render(s, title, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Renderer) data(s models.AggregatedStats, title string) RenderData {
	if title == "" {
		title = "Code Statistics"
	}
	d := RenderData{Title: title, Stats: s, Depth: s.Metadata.Depth}

	for ext, es := range s.Basic.StatsByExtension {
		d.Languages = append(d.Languages, LanguageRow{
			Extension: ext,
			Language:  lang.NameForExtension(ext),
			Files:     es.FileCount,
			Stats:     es.Stats,
		})
	}
	slices.SortFunc(d.Languages, func(a, b LanguageRow) int {
		if c := cmp.Compare(b.Stats.TotalLines, a.Stats.TotalLines); c != 0 {
			return c
		}
		return cmp.Compare(a.Extension, b.Extension)
	})

	fns := slices.Clone(s.Complexity.FunctionComplexityDetails)
	slices.SortStableFunc(fns, func(a, b models.FunctionComplexityDetail) int {
		if c := cmp.Compare(b.CyclomaticComplexity, a.CyclomaticComplexity); c != 0 {
			return c
		}
		return cmp.Compare(b.CognitiveComplexity, a.CognitiveComplexity)
	})
	d.Functions = fns[:min(r.top, len(fns))]
	return d
}

// truncatePath shortens p to n characters, keeping the file name.
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	parts := strings.Split(p, "/")
	if len(parts) <= 2 {
		return p[:n-3] + "..."
	}
	filename := parts[len(parts)-1]
	if len(filename) >= n-3 {
		return "..." + filename[len(filename)-n+3:]
	}
	remaining := max(n-len(filename)-4, 0)
	prefix := strings.Join(parts[:len(parts)-1], "/")
	if len(prefix) > remaining {
		prefix = prefix[len(prefix)-remaining:]
	}
	return ".../" + prefix + "/" + filename
}
