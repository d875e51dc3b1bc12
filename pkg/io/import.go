package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
)

// Format is a scenario file encoding.
type Format string

// Supported scenario formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Scenario is one named calculation from a scenario file.
type Scenario struct {
	Name   string        `json:"name"`
	Design design.Design `json:"design"`
	Params design.Params `json:"params"`
}

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat,
		"unsupported scenario file %q (must end in .yaml, .yml, .toml or .json)", filepath.Base(path))
}

// ReadScenarios decodes a scenario file in format f from r.
//
// Each scenario's design is resolved with [design.Parse] and its parameters
// are decoded over [design.DefaultParams]. Unnamed scenarios are named
// "scenario N" (1-based). An empty file is an error.
//
// ReadScenarios does not validate parameter ranges; that happens when the
// scenario runs, so one bad scenario does not reject the file.
func ReadScenarios(r io.Reader, f Format) ([]Scenario, error) {
	var (
		raws []rawScenario
		err  error
	)
	switch f {
	case FormatYAML:
		raws, err = decodeYAML(r)
	case FormatTOML:
		raws, err = decodeTOML(r)
	case FormatJSON:
		raws, err = decodeJSON(r)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown scenario format %q", f)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	if len(raws) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "no scenarios found")
	}

	out := make([]Scenario, 0, len(raws))
	for i, raw := range raws {
		name := raw.name
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		d, err := design.Parse(raw.design)
		if err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i+1, name, err)
		}
		p := design.DefaultParams(d)
		if raw.params != nil {
			if err := raw.params(&p); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "scenario %d (%s): params", i+1, name)
			}
		}
		out = append(out, Scenario{Name: name, Design: d, Params: p})
	}
	return out, nil
}

// ImportScenarios reads the scenario file at path, choosing the format from
// its extension.
func ImportScenarios(path string) ([]Scenario, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scenarios, err := ReadScenarios(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// rawScenario holds a scenario whose params are decoded lazily, over the
// defaults of its design.
type rawScenario struct {
	name   string
	design string
	params func(*design.Params) error
}

func decodeYAML(r io.Reader) ([]rawScenario, error) {
	var doc struct {
		Scenarios []struct {
			Name   string    `yaml:"name"`
			Design string    `yaml:"design"`
			Params yaml.Node `yaml:"params"`
		} `yaml:"scenarios"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	raws := make([]rawScenario, len(doc.Scenarios))
	for i, s := range doc.Scenarios {
		raws[i] = rawScenario{name: s.Name, design: s.Design}
		if s.Params.Kind != 0 {
			node := s.Params
			raws[i].params = func(p *design.Params) error { return node.Decode(p) }
		}
	}
	return raws, nil
}

func decodeTOML(r io.Reader) ([]rawScenario, error) {
	var doc struct {
		Scenarios []struct {
			Name   string         `toml:"name"`
			Design string         `toml:"design"`
			Params *toml.Primitive `toml:"params"`
		} `toml:"scenarios"`
	}
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, err
	}

	raws := make([]rawScenario, len(doc.Scenarios))
	for i, s := range doc.Scenarios {
		raws[i] = rawScenario{name: s.Name, design: s.Design}
		if s.Params != nil {
			prim := *s.Params
			raws[i].params = func(p *design.Params) error { return md.PrimitiveDecode(prim, p) }
		}
	}
	return raws, nil
}

func decodeJSON(r io.Reader) ([]rawScenario, error) {
	var doc struct {
		Scenarios []struct {
			Name   string          `json:"name"`
			Design string          `json:"design"`
			Params json.RawMessage `json:"params"`
		} `json:"scenarios"`
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	raws := make([]rawScenario, len(doc.Scenarios))
	for i, s := range doc.Scenarios {
		raws[i] = rawScenario{name: s.Name, design: s.Design}
		if len(s.Params) > 0 {
			data := s.Params
			raws[i].params = func(p *design.Params) error {
				pd := json.NewDecoder(strings.NewReader(string(data)))
				pd.DisallowUnknownFields()
				return pd.Decode(p)
			}
		}
	}
	return raws, nil
}
