package insights

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// BoardManifestDocument models a YAML/JSON manifest describing boards and
// the reports they render.
type BoardManifestDocument struct {
	Version string          `json:"version" yaml:"version"`
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Boards  []ManifestBoard `json:"boards" yaml:"boards"`
	Source  string          `json:"-" yaml:"-"`
}

// ManifestBoard describes a single board entry within a manifest.
type ManifestBoard struct {
	Code        string        `json:"code" yaml:"code"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Reports     []BoardReport `json:"reports" yaml:"reports"`
}

// BoardReport references a registered report plus its configuration.
type BoardReport struct {
	Code   string         `json:"code" yaml:"code"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// LoadManifestFile reads a manifest from disk, validates its report entries
// against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*BoardManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.ValidateManifest(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateManifest checks every board report against registered definitions
// and their configuration schemas.
func (r *Registry) ValidateManifest(doc *BoardManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("insights: manifest document is nil")
	}
	for _, board := range doc.Boards {
		for _, report := range board.Reports {
			if _, ok := r.Definition(report.Code); !ok {
				return fmt.Errorf("insights: board %s references unknown report %s", board.Code, report.Code)
			}
			if err := r.ValidateConfig(report.Code, report.Config); err != nil {
				return fmt.Errorf("insights: board %s: %w", board.Code, err)
			}
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*BoardManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("insights: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("insights: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*BoardManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc BoardManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("insights: manifest is empty")
		}
		return nil, fmt.Errorf("insights: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *BoardManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("insights: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Boards))
	for idx, board := range doc.Boards {
		if board.Code == "" {
			return fmt.Errorf("insights: manifest board at index %d is missing code", idx)
		}
		if board.Name == "" {
			return fmt.Errorf("insights: manifest board %s missing name", board.Code)
		}
		if _, exists := seen[board.Code]; exists {
			return fmt.Errorf("insights: manifest duplicates board code %s", board.Code)
		}
		seen[board.Code] = struct{}{}
		if len(board.Reports) == 0 {
			return fmt.Errorf("insights: manifest board %s declares no reports", board.Code)
		}
	}
	return nil
}

func (doc *BoardManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
