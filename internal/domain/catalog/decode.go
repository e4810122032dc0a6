package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// ErrUnsupportedFormat is returned for index files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported index format")

// Format is the encoding of an index file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Compression wraps an index file
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// indexFile is the document form of an index. JSON and YAML indexes may
// also be a bare list of records.
type indexFile struct {
	Records []types.Record `json:"records" yaml:"records" toml:"records"`
}

// DetectFormat derives the format and compression from a file name such as
// "repo/index.json.gz".
func DetectFormat(name string) (Format, Compression, error) {
	lower := strings.ToLower(name)
	compression := CompressionNone

	switch filepath.Ext(lower) {
	case ".gz":
		compression = CompressionGzip
		lower = strings.TrimSuffix(lower, ".gz")
	case ".zst":
		compression = CompressionZstd
		lower = strings.TrimSuffix(lower, ".zst")
	}

	switch filepath.Ext(lower) {
	case ".json":
		return FormatJSON, compression, nil
	case ".yaml", ".yml":
		return FormatYAML, compression, nil
	case ".toml":
		return FormatTOML, compression, nil
	default:
		return "", compression, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ReadIndex reads and decodes one index file
func ReadIndex(path string) ([]types.Record, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := readAll(file, compression)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	records, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func readAll(r io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return io.ReadAll(r)
	}
}

// Decode parses index bytes in the given format
func Decode(data []byte, format Format) ([]types.Record, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatTOML:
		var doc indexFile
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Records, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func decodeJSON(data []byte) ([]types.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []types.Record
		if err := sonic.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var doc indexFile
	if err := sonic.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Records, nil
}

func decodeYAML(data []byte) ([]types.Record, error) {
	var doc indexFile
	docErr := yaml.Unmarshal(data, &doc)
	if docErr == nil {
		return doc.Records, nil
	}

	var list []types.Record
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, docErr
	}
	return list, nil
}

// Encode writes records as an index document. Used by the export endpoint
// and tests.
func Encode(records []types.Record, format Format) ([]byte, error) {
	doc := indexFile{Records: records}
	switch format {
	case FormatJSON:
		return sonic.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
