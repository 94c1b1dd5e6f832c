package mcpserver

import "encoding/json"

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.panbanda/codestat"
	repositoryURL  = "https://github.com/panbanda/codestat"
	imageName      = "ghcr.io/panbanda/codestat"
)

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository points at the source code.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	ID     string `json:"id,omitempty"`
}

// Package is one way to run the server.
type Package struct {
	RegistryType     string     `json:"registryType"`
	Identifier       string     `json:"identifier"`
	PackageArguments []Argument `json:"packageArguments,omitempty"`
	Transport        Transport  `json:"transport"`
}

// Argument is a command-line argument passed to the package.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Transport names how clients talk to the package.
type Transport struct {
	Type string `json:"type"`
}

// NewManifest describes the codestat container image at version, or 0.0.0
// for development builds.
func NewManifest(version string) Manifest {
	if version == "" {
		version = "0.0.0"
	}
	return Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Description: "Line counts, comment and doc ratios, function complexity and quality scores for multi-language codebases",
		Version:     version,
		Repository:  &Repository{URL: repositoryURL, Source: "github"},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       imageName + ":" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			Transport:        Transport{Type: "stdio"},
		}},
	}
}

// GenerateManifest renders NewManifest(version) as indented JSON.
func GenerateManifest(version string) ([]byte, error) {
	return json.MarshalIndent(NewManifest(version), "", "  ")
}
