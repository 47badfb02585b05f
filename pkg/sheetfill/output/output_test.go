package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"gopkg.in/yaml.v3"
)

func sampleReport() *models.Report {
	r := &models.Report{
		RunID:     "run-1",
		BookName:  "tracker.xlsx",
		SheetName: "Sheet1",
		Variant:   "table",
		Targets:   []string{"Developer"},
	}
	r.Add(models.RowReport{
		R:          2,
		Identifier: "cr-1",
		Status:     models.RowProcessed,
		Document:   "CR-1.eml",
		Fields: []models.FieldReport{
			{Field: "Developer", Status: models.FieldFilled, Marker: models.MarkerResolved, Value: "Asha"},
		},
	})
	r.Add(models.RowReport{R: 3, Status: models.RowSkipped})
	return r
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleReport(), false)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])

	rows := decoded["rows"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	field := first["fields"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "resolved", field["marker"])
	assert.Equal(t, "Asha", field["value"])

	second := rows[1].(map[string]interface{})
	assert.Equal(t, "skipped", second["status"])
	assert.NotContains(t, second, "fields")

	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["filled"])
	assert.Equal(t, float64(1), summary["skipped"])
}

func TestToJSON_Pretty(t *testing.T) {
	data, err := ToJSON(sampleReport(), true)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"run_id\": \"run-1\"")
}

func TestToYAML(t *testing.T) {
	data, err := ToYAML(sampleReport())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "tracker.xlsx", decoded["book_name"])
	assert.Contains(t, string(data), "marker: resolved")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	_, err = Marshal(sampleReport(), Format("xml"), false)
	assert.Error(t, err)
}
