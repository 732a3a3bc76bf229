package taxyear

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultName is the preset used when no tax year is requested.
const DefaultName = "2025/26"

//go:embed presets/*.yaml
var presetFiles embed.FS

// ErrUnknownTaxYear is returned by Lookup for names with no preset.
var ErrUnknownTaxYear = errors.New("unknown tax year")

// Format is the encoding of a tax year file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the decoder from a file extension.
func FormatForPath(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported tax year file %q: want .yaml, .yml or .toml", filename)
}

// Parse decodes and validates a tax year. Percentages may be written as
// "13.8%" and are converted to fractions first.
func Parse(data []byte, format Format) (*Config, error) {
	content := preprocessPercentages(string(data))

	var cfg Config
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader([]byte(content)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader([]byte(content)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads a tax year from a YAML or TOML file.
func LoadFile(filename string) (*Config, error) {
	format, err := FormatForPath(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return cfg, nil
}

// percentRe matches values like "rate: 13.8%" (YAML) or "rate = 13.8%" (TOML)
var percentRe = regexp.MustCompile(`([:=]\s*)(\d+\.?\d*)%`)

// preprocessPercentages converts percentage values like "5%" to decimal "0.05"
func preprocessPercentages(content string) string {
	return percentRe.ReplaceAllStringFunc(content, func(match string) string {
		parts := percentRe.FindStringSubmatch(match)
		if len(parts) < 3 {
			return match
		}
		num, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return match
		}
		return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
	})
}

// loadPresets parses every embedded preset once.
var loadPresets = sync.OnceValues(func() ([]*Config, error) {
	entries, err := presetFiles.ReadDir("presets")
	if err != nil {
		return nil, err
	}

	var presets []*Config
	seen := make(map[string]bool)
	for _, entry := range entries {
		name := path.Join("presets", entry.Name())
		data, err := presetFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		cfg, err := Parse(data, FormatYAML)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", entry.Name(), err)
		}
		if seen[cfg.Label()] {
			return nil, fmt.Errorf("preset %s: duplicate tax year %q", entry.Name(), cfg.Label())
		}
		seen[cfg.Label()] = true
		presets = append(presets, cfg)
	}
	return presets, nil
})

// Presets returns copies of all embedded tax years, ordered by file name.
func Presets() []*Config {
	presets, err := loadPresets()
	if err != nil {
		// Presets are compiled in; a broken one is a build defect
		panic(err)
	}
	out := make([]*Config, len(presets))
	for i, p := range presets {
		out[i] = p.Clone()
	}
	return out
}

// Lookup returns a copy of the named preset. An empty name selects the default.
func Lookup(name string) (*Config, error) {
	if name == "" {
		name = DefaultName
	}
	for _, p := range Presets() {
		if strings.EqualFold(p.Label(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownTaxYear, name)
}

// Default returns a copy of the default preset.
func Default() *Config {
	cfg, err := Lookup(DefaultName)
	if err != nil {
		panic(err)
	}
	return cfg
}
