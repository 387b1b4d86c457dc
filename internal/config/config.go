// Package config parses the YAML run specification that binds a script
// to its images, model and provided values.
//
// A minimal spec:
//
//	script: scripts/ndvi.jfl
//	model: direct
//	sources:
//	  nir: data/nir.tif
//	  red: data/red.tif
//	dests:
//	  result:
//	    output: out/ndvi.tif
package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jdries/jaitools/internal/codegen"
)

// RunSpec is the top-level run configuration.
type RunSpec struct {
	// Script is the path of the script file to compile.
	Script string `yaml:"script"`

	// Name is the generated procedure name. Defaults to "Proc".
	Name string `yaml:"name,omitempty"`

	// Model is "direct" (default) or "indirect".
	Model string `yaml:"model,omitempty"`

	// Sources maps script image names to input TIFF paths.
	Sources map[string]string `yaml:"sources,omitempty"`

	// Dests maps script image names to destination specifications.
	Dests map[string]DestSpec `yaml:"dests"`

	// Provided maps externally supplied variable names to values.
	Provided map[string]float64 `yaml:"provided,omitempty"`
}

// DestSpec describes one destination image.
type DestSpec struct {
	// Output is the TIFF path the result is written to. Optional; an
	// unset output keeps the result in memory only.
	Output string `yaml:"output,omitempty"`

	// Width, Height and Bands size the destination raster. When unset
	// the destination inherits the bounds of the first source image.
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
	Bands  int `yaml:"bands,omitempty"`
}

// Parse reads and validates a run specification. The path is only used
// in error messages.
func Parse(data []byte, path string) (*RunSpec, error) {
	var spec RunSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if spec.Script == "" {
		return nil, fmt.Errorf("%s: script is required", path)
	}
	if len(spec.Dests) == 0 {
		return nil, fmt.Errorf("%s: at least one destination is required", path)
	}
	if _, err := spec.EvaluationModel(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &spec, nil
}

// EvaluationModel maps the model field to the code generator's enum.
func (s *RunSpec) EvaluationModel() (codegen.EvaluationModel, error) {
	switch s.Model {
	case "", "direct":
		return codegen.Direct, nil
	case "indirect":
		return codegen.Indirect, nil
	}
	return 0, fmt.Errorf("unknown model %q", s.Model)
}

// SourceNames returns the source image names, sorted for stable output.
func (s *RunSpec) SourceNames() []string {
	return sortedKeys(s.Sources)
}

// DestNames returns the destination image names, sorted for stable
// output.
func (s *RunSpec) DestNames() []string {
	names := make([]string, 0, len(s.Dests))
	for n := range s.Dests {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ProvidedNames returns the provided variable names, sorted.
func (s *RunSpec) ProvidedNames() []string {
	return sortedKeys(s.Provided)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
