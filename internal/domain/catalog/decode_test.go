package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name            string
		wantFormat      Format
		wantCompression Compression
		wantErr         bool
	}{
		{"index.json", FormatJSON, CompressionNone, false},
		{"repo/index.YAML", FormatYAML, CompressionNone, false},
		{"index.yml", FormatYAML, CompressionNone, false},
		{"index.toml", FormatTOML, CompressionNone, false},
		{"index.json.gz", FormatJSON, CompressionGzip, false},
		{"index.yaml.zst", FormatYAML, CompressionZstd, false},
		{"index.xml", "", CompressionNone, true},
		{"archive.gz", "", CompressionGzip, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, compression, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantCompression, compression)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"records": [
		{"id": "org.example.game", "name": "Game", "category": "Games",
		 "added": "2024-03-01T00:00:00Z", "installed_version": "1.2", "has_updates": true}
	]}`

	records, err := Decode([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "org.example.game", rec.ID)
	assert.Equal(t, "Games", rec.Category)
	require.NotNil(t, rec.Added)
	assert.True(t, stamp(1).Equal(*rec.Added))
	assert.Nil(t, rec.LastUpdated)
	require.NotNil(t, rec.InstalledVersion)
	assert.Equal(t, "1.2", *rec.InstalledVersion)
	assert.True(t, rec.HasUpdates)
}

func TestDecodeJSONList(t *testing.T) {
	records, err := Decode([]byte(` [{"id": "a"}, {"id": "b"}]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, recordIDs(records))
}

func TestDecodeYAML(t *testing.T) {
	doc := `
records:
  - id: a
    category: Tools
    min_sdk: 21
    native_code: [arm64-v8a]
  - id: b
    category: Games
`
	records, err := Decode([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 21, records[0].MinSDK)
	assert.Equal(t, []string{"arm64-v8a"}, records[0].NativeCode)

	list, err := Decode([]byte("- id: x\n- id: y\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, recordIDs(list))
}

func TestDecodeTOML(t *testing.T) {
	doc := `
[[records]]
id = "a"
category = "Office"
added = 2024-03-01T00:00:00Z

[[records]]
id = "b"
anti_features = ["Ads"]
`
	records, err := Decode([]byte(doc), FormatTOML)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Added)
	assert.True(t, stamp(1).Equal(*records[0].Added))
	assert.Equal(t, []string{"Ads"}, records[1].AntiFeatures)
}

func TestDecodeMalformed(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		_, err := Decode([]byte("{{{ not valid"), format)
		assert.Error(t, err, format)
	}

	_, err := Decode([]byte("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
