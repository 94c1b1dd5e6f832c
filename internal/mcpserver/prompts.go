package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptArgument is one {{name}} placeholder of a prompt body.
type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default"`
}

// promptSpec is a prompt file: YAML frontmatter plus a markdown body.
type promptSpec struct {
	Name        string           `yaml:"-"`
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
	Body        string           `yaml:"-"`
}

func (s *Server) registerPrompts() {
	specs, err := loadPrompts()
	if err != nil {
		s.logger.Warn("prompts not registered", "error", err)
		return
	}
	for _, spec := range specs {
		prompt := &mcp.Prompt{Name: spec.Name, Description: spec.Description}
		for _, a := range spec.Arguments {
			prompt.Arguments = append(prompt.Arguments, &mcp.PromptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		s.server.AddPrompt(prompt, spec.handler())
	}
}

func loadPrompts() ([]promptSpec, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, err
	}

	var specs []promptSpec
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			return nil, err
		}
		spec, err := parsePrompt(content)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", entry.Name(), err)
		}
		spec.Name = strings.TrimSuffix(entry.Name(), ".md")
		specs = append(specs, spec)
	}
	return specs, nil
}

// parsePrompt splits content into frontmatter and body. Content without
// frontmatter is all body.
func parsePrompt(content []byte) (promptSpec, error) {
	var spec promptSpec
	rest, ok := bytes.CutPrefix(content, []byte("---\n"))
	if !ok {
		spec.Body = string(content)
		return spec, nil
	}
	front, body, ok := bytes.Cut(rest, []byte("\n---\n"))
	if !ok {
		spec.Body = string(content)
		return spec, nil
	}
	if err := yaml.Unmarshal(front, &spec); err != nil {
		return spec, err
	}
	spec.Body = strings.TrimPrefix(string(body), "\n")
	return spec, nil
}

// render substitutes the arguments into the body.
func (p promptSpec) render(args map[string]string) (string, error) {
	pairs := make([]string, 0, 2*len(p.Arguments))
	for _, a := range p.Arguments {
		v, ok := args[a.Name]
		if !ok || v == "" {
			if a.Required {
				return "", fmt.Errorf("missing required argument %q", a.Name)
			}
			v = a.Default
		}
		pairs = append(pairs, "{{"+a.Name+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(p.Body), nil
}

func (p promptSpec) handler() mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		text, err := p.render(args)
		if err != nil {
			return nil, err
		}
		return &mcp.GetPromptResult{
			Description: p.Description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: text}},
			},
		}, nil
	}
}
