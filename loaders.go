package numfmt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// numberSection is the top level key holding number presets in format files:
//
//	number:
//	  currency2:
//	    style: currency
//	    currency: USD
//	    minimumFractionDigits: 3
const numberSection = "number"

// FileLoader reads number presets from JSON, YAML or TOML files. Later files
// override presets with the same name.
type FileLoader struct {
	paths []string
}

func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{paths: append([]string(nil), paths...)}
}

func (l *FileLoader) Load() (Formats, error) {
	if l == nil || len(l.paths) == 0 {
		return nil, errors.New("numfmt: no format paths configured")
	}

	formats := make(Formats)
	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("numfmt: read %s: %w", path, err)
		}

		src, err := decodeFormatFile(path, data)
		if err != nil {
			return nil, fmt.Errorf("numfmt: decode %s: %w", path, err)
		}
		mergeFormats(formats, src)
	}
	return formats, nil
}

func decodeFormatFile(path string, data []byte) (Formats, error) {
	var (
		raw map[string]map[string]map[string]any
		err error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		_, err = toml.Decode(string(data), &raw)
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}
	if err != nil {
		return nil, err
	}

	return buildFormats(path, raw)
}

func buildFormats(path string, raw map[string]map[string]map[string]any) (Formats, error) {
	section, ok := raw[numberSection]
	if !ok {
		return nil, fmt.Errorf("missing %q section in %s", numberSection, path)
	}

	formats := make(Formats, len(section))
	for name, values := range section {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("empty format name in %s", path)
		}
		opts, err := ParseOptions(values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := opts.ValidatePartial(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		formats[name] = opts
	}
	return formats, nil
}
