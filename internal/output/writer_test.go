package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/gazette-extractor/internal/domain"
)

func parsed(t *testing.T, raw string) domain.ExtractionResult {
	t.Helper()
	r, err := domain.NewResult([]byte(raw))
	require.NoError(t, err)
	return r
}

func sampleResults(t *testing.T) []domain.ExtractionResult {
	return []domain.ExtractionResult{
		parsed(t, `{"company_name":"Brasserie Ève & Fils","company_identifier":"0456.789.123","document_purpose":"Appointment of directors","additional_information":{"key_points":["Mandate <3 years>","Effective today (2023-05-01)"],"registered_office":"Liège"}}`),
		{Failure: domain.NewParseFailure("Sure, here is the data: ...")},
		parsed(t, `{"additional_information":{"key_points":[]}}`),
		parsed(t, `{}`),
		parsed(t, `{"company_name":42}`),
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_info.json")
	want := sampleResults(t)

	require.NoError(t, WriteJSON(path, want))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteJSON_Formatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, sampleResults(t)[:2]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "[\n    {\n        \"company_name\": \"Brasserie Ève & Fils\","))
	assert.Contains(t, text, "Mandate <3 years>")
	assert.NotContains(t, text, `\u00c8`)
	assert.NotContains(t, text, `\u0026`)
	assert.NotContains(t, text, `\u003c`)
	assert.Contains(t, text, `"company_identifier": "0456.789.123"`)
	assert.Contains(t, text, `"error": "Unable to parse extracted data"`)
	assert.Contains(t, text, `"registered_office": "Liège"`)
	assert.True(t, strings.HasSuffix(text, "\n]"))
}

func TestWriteJSON_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0644))

	require.NoError(t, WriteJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWriteJSON_UnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.json")

	err := WriteJSON(path, sampleResults(t))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeIO))
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadJSON(filepath.Join(dir, "absent.json"))
	assert.True(t, domain.IsType(err, domain.ErrorTypeIO))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReadJSON(bad)
	assert.True(t, domain.IsType(err, domain.ErrorTypeIO))
}

func TestWriteJSON_HandBuiltInfo(t *testing.T) {
	name := "ACME Corp"
	results := []domain.ExtractionResult{{Info: &domain.BusinessInfo{CompanyName: &name}}}

	data, err := Encode(results)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"company_name": "ACME Corp"`)
	assert.Contains(t, string(data), `"company_identifier": null`)
}
